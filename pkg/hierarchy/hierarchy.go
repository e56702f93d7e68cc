// Package hierarchy walks the role admin graph: cycle detection,
// valid-parent enumeration and the parents-before-children ordering
// used by the deployment payload.
package hierarchy

import (
	"fmt"

	"github.com/orgforge-labs/orgforge/pkg/model"
)

// WouldCreateCycle reports whether setting candidateParent as the admin
// of roleIndex would make roleIndex its own ancestor. The walk is
// bounded by len(roles) so it terminates even on corrupt input.
func WouldCreateCycle(roleIndex, candidateParent int, roles []model.Role) bool {
	cur := candidateParent
	for steps := 0; steps <= len(roles); steps++ {
		if cur == roleIndex {
			return true
		}
		if cur < 0 || cur >= len(roles) {
			return false
		}
		p := roles[cur].Hierarchy.AdminRoleIndex
		if p == nil {
			return false
		}
		cur = *p
	}
	// walked more links than roles exist: already cyclic upstream
	return true
}

// descendants returns the set of indices reachable from roleIndex by
// following child links.
func descendants(roleIndex int, roles []model.Role) map[int]bool {
	out := map[int]bool{}
	changed := true
	for changed {
		changed = false
		for i := range roles {
			p := roles[i].Hierarchy.AdminRoleIndex
			if p == nil || out[i] {
				continue
			}
			if *p == roleIndex || out[*p] {
				out[i] = true
				changed = true
			}
		}
	}
	return out
}

// ValidParentOptions returns the indices roleIndex may adopt as admin:
// everything except itself and its own descendants.
func ValidParentOptions(roleIndex int, roles []model.Role) []int {
	desc := descendants(roleIndex, roles)
	out := []int{}
	for i := range roles {
		if i == roleIndex || desc[i] {
			continue
		}
		out = append(out, i)
	}
	return out
}

// Flatten returns the author-order indices rearranged so every role's
// admin appears strictly before it. Among the roles whose admin is
// already placed, the lowest author index goes next. Roles caught in a
// cycle are emitted last and reported; callers that need a clean
// ordering must check cyclic first.
func Flatten(roles []model.Role) (order, cyclic []int) {
	placed := make([]bool, len(roles))
	order = make([]int, 0, len(roles))
	for len(order) < len(roles) {
		next := -1
		for i := range roles {
			if placed[i] {
				continue
			}
			p := roles[i].Hierarchy.AdminRoleIndex
			if p == nil || *p < 0 || *p >= len(roles) || placed[*p] {
				next = i
				break
			}
		}
		if next == -1 {
			break
		}
		placed[next] = true
		order = append(order, next)
	}
	for i := range roles {
		if !placed[i] {
			cyclic = append(cyclic, i)
			order = append(order, i)
		}
	}
	return order, cyclic
}

// Result is the outcome of a hierarchy validation.
type Result struct {
	IsValid bool
	Errors  []string
}

// Validate checks for a top-level role, absence of cycles and absence
// of out-of-range parent references.
func Validate(roles []model.Role) Result {
	res := Result{IsValid: true}
	topLevel := false
	for i := range roles {
		p := roles[i].Hierarchy.AdminRoleIndex
		if p == nil {
			topLevel = true
			continue
		}
		if *p < 0 || *p >= len(roles) {
			res.Errors = append(res.Errors, fmt.Sprintf("role %d references missing admin %d", i, *p))
		}
	}
	if !topLevel {
		res.Errors = append(res.Errors, "no top-level role")
	}
	if _, cyclic := Flatten(roles); len(cyclic) > 0 {
		res.Errors = append(res.Errors, "cycle")
	}
	res.IsValid = len(res.Errors) == 0
	return res
}

// HasCycles reports whether any role participates in an admin cycle.
func HasCycles(roles []model.Role) bool {
	_, cyclic := Flatten(roles)
	return len(cyclic) > 0
}
