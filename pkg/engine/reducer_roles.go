package engine

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/orgforge-labs/orgforge/pkg/model"
)

func reduceAddRole(d *model.Draft, act AddRole, ids model.IDSource) (*model.Draft, error) {
	if len(d.Roles) >= model.MaxRoles {
		return d, ErrTooManyRoles
	}
	name := fmt.Sprintf("Role %d", len(d.Roles)+1)
	if act.Name != nil && *act.Name != "" {
		name = *act.Name
	}
	next := d.Clone()
	next.Roles = append(next.Roles, model.NewRole(ids, len(next.Roles), name))
	return next, nil
}

func reduceUpdateRole(d *model.Draft, act UpdateRole) (*model.Draft, error) {
	if act.Index < 0 || act.Index >= len(d.Roles) {
		return d, ErrIndexOutOfRange
	}
	next := d.Clone()
	r := &next.Roles[act.Index]
	if act.Patch.Name != nil {
		r.Name = *act.Patch.Name
	}
	if act.Patch.Description != nil {
		r.Description = *act.Patch.Description
	}
	if act.Patch.Image != nil {
		r.Image = *act.Patch.Image
	}
	if act.Patch.CanVote != nil {
		r.CanVote = *act.Patch.CanVote
	}
	return next, nil
}

// reduceRemoveRole drops the role and rewires every index-bearing
// reference: admin and voucher links, permission arrays and voting
// class hat lists. A direct class left empty is caught by validation,
// not rejected here.
func reduceRemoveRole(d *model.Draft, index int) (*model.Draft, error) {
	if index < 0 || index >= len(d.Roles) {
		return d, ErrIndexOutOfRange
	}
	if len(d.Roles) == 1 {
		return d, ErrLastRole
	}
	next := d.Clone()
	next.Roles = append(next.Roles[:index], next.Roles[index+1:]...)

	for i := range next.Roles {
		r := &next.Roles[i]
		if p := r.Hierarchy.AdminRoleIndex; p != nil {
			switch {
			case *p == index:
				r.Hierarchy.AdminRoleIndex = nil
			case *p > index:
				v := *p - 1
				r.Hierarchy.AdminRoleIndex = &v
			}
		}
		switch {
		case r.Vouching.VoucherRoleIndex == index:
			r.Vouching.VoucherRoleIndex = 0
			r.Vouching.Enabled = false
		case r.Vouching.VoucherRoleIndex > index:
			r.Vouching.VoucherRoleIndex--
		}
	}

	for key, roles := range next.Permissions {
		next.Permissions[key] = dropIndex(roles, index)
	}
	for i := range next.Voting.Classes {
		next.Voting.Classes[i].HatIDs = dropIndex(next.Voting.Classes[i].HatIDs, index)
	}
	for b, roles := range next.Philosophy.PowerBundles {
		next.Philosophy.PowerBundles[b] = dropIndex(roles, index)
	}
	return next, nil
}

// dropIndex removes the given index from the list and decrements every
// index above it.
func dropIndex(indices []int, removed int) []int {
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		switch {
		case i == removed:
		case i > removed:
			out = append(out, i-1)
		default:
			out = append(out, i)
		}
	}
	return out
}

// reduceReorderRoles moves a role to a new position. Opaque ids keep
// GUI list identity; every stored index is remapped.
func reduceReorderRoles(d *model.Draft, from, to int) (*model.Draft, error) {
	n := len(d.Roles)
	if from < 0 || from >= n || to < 0 || to >= n {
		return d, ErrIndexOutOfRange
	}
	if from == to {
		return d, nil
	}
	next := d.Clone()

	moved := next.Roles[from]
	rest := append(append([]model.Role{}, next.Roles[:from]...), next.Roles[from+1:]...)
	next.Roles = append(append(append([]model.Role{}, rest[:to]...), moved), rest[to:]...)

	// mapping[old] = new
	mapping := make([]int, n)
	for oldIdx := 0; oldIdx < n; oldIdx++ {
		switch {
		case oldIdx == from:
			mapping[oldIdx] = to
		case from < to && oldIdx > from && oldIdx <= to:
			mapping[oldIdx] = oldIdx - 1
		case to < from && oldIdx >= to && oldIdx < from:
			mapping[oldIdx] = oldIdx + 1
		default:
			mapping[oldIdx] = oldIdx
		}
	}
	remapIndices(next, mapping)
	return next, nil
}

// remapIndices rewrites every role-index reference through mapping.
func remapIndices(d *model.Draft, mapping []int) {
	for i := range d.Roles {
		r := &d.Roles[i]
		if p := r.Hierarchy.AdminRoleIndex; p != nil {
			v := mapping[*p]
			r.Hierarchy.AdminRoleIndex = &v
		}
		r.Vouching.VoucherRoleIndex = mapping[r.Vouching.VoucherRoleIndex]
	}
	for key, roles := range d.Permissions {
		d.Permissions[key] = sortedMap(roles, mapping)
	}
	for i := range d.Voting.Classes {
		d.Voting.Classes[i].HatIDs = sortedMap(d.Voting.Classes[i].HatIDs, mapping)
	}
	for b, roles := range d.Philosophy.PowerBundles {
		d.Philosophy.PowerBundles[b] = sortedMap(roles, mapping)
	}
}

func sortedMap(indices []int, mapping []int) []int {
	out := lo.Map(indices, func(i int, _ int) int { return mapping[i] })
	sort.Ints(out)
	return out
}

// reduceUpdateRoleHierarchy stores the new admin link. Cycle-forming
// edits are accepted and surfaced by the team validator, so the GUI
// can show the conflict in place instead of losing the edit.
func reduceUpdateRoleHierarchy(d *model.Draft, act UpdateRoleHierarchy) (*model.Draft, error) {
	if act.Index < 0 || act.Index >= len(d.Roles) {
		return d, ErrIndexOutOfRange
	}
	if p := act.AdminRoleIndex; p != nil && (*p < 0 || *p >= len(d.Roles)) {
		return d, ErrIndexOutOfRange
	}
	next := d.Clone()
	if act.AdminRoleIndex == nil {
		next.Roles[act.Index].Hierarchy.AdminRoleIndex = nil
	} else {
		v := *act.AdminRoleIndex
		next.Roles[act.Index].Hierarchy.AdminRoleIndex = &v
	}
	return next, nil
}

func reduceUpdateRoleVouching(d *model.Draft, act UpdateRoleVouching) (*model.Draft, error) {
	if act.Index < 0 || act.Index >= len(d.Roles) {
		return d, ErrIndexOutOfRange
	}
	if v := act.Patch.VoucherRoleIndex; v != nil && (*v < 0 || *v >= len(d.Roles)) {
		return d, ErrIndexOutOfRange
	}
	next := d.Clone()
	vo := &next.Roles[act.Index].Vouching
	if act.Patch.Enabled != nil {
		vo.Enabled = *act.Patch.Enabled
	}
	if act.Patch.Quorum != nil {
		vo.Quorum = *act.Patch.Quorum
	}
	if act.Patch.VoucherRoleIndex != nil {
		vo.VoucherRoleIndex = *act.Patch.VoucherRoleIndex
	}
	if act.Patch.CombineWithHierarchy != nil {
		vo.CombineWithHierarchy = *act.Patch.CombineWithHierarchy
	}
	return next, nil
}

func reduceUpdateRoleDistribution(d *model.Draft, act UpdateRoleDistribution) (*model.Draft, error) {
	if act.Index < 0 || act.Index >= len(d.Roles) {
		return d, ErrIndexOutOfRange
	}
	next := d.Clone()
	dist := &next.Roles[act.Index].Distribution
	if act.Patch.MintToDeployer != nil {
		dist.MintToDeployer = *act.Patch.MintToDeployer
	}
	if act.Patch.MintToExecutor != nil {
		dist.MintToExecutor = *act.Patch.MintToExecutor
	}
	if act.Patch.AdditionalWearers != nil {
		dist.AdditionalWearers = append([]string{}, (*act.Patch.AdditionalWearers)...)
	}
	if act.Patch.AdditionalWearerUsernames != nil {
		dist.AdditionalWearerUsernames = append([]string{}, (*act.Patch.AdditionalWearerUsernames)...)
	}
	return next, nil
}

func reduceUpdateRoleHatConfig(d *model.Draft, act UpdateRoleHatConfig) (*model.Draft, error) {
	if act.Index < 0 || act.Index >= len(d.Roles) {
		return d, ErrIndexOutOfRange
	}
	if act.Patch.MaxSupply != nil && *act.Patch.MaxSupply < 1 {
		return d, ErrValueOutOfRange
	}
	next := d.Clone()
	hc := &next.Roles[act.Index].HatConfig
	if act.Patch.MaxSupply != nil {
		hc.MaxSupply = *act.Patch.MaxSupply
	}
	if act.Patch.MutableHat != nil {
		hc.MutableHat = *act.Patch.MutableHat
	}
	return next, nil
}

func reduceTogglePermission(d *model.Draft, act TogglePermission) (*model.Draft, error) {
	if !validPermissionKey(act.Key) {
		return d, ErrUnknownPermission
	}
	if act.Role < 0 || act.Role >= len(d.Roles) {
		return d, ErrIndexOutOfRange
	}
	next := d.Clone()
	cur := next.Permissions[act.Key]
	if lo.Contains(cur, act.Role) {
		next.Permissions[act.Key] = lo.Without(cur, act.Role)
	} else {
		cur = append(cur, act.Role)
		sort.Ints(cur)
		next.Permissions[act.Key] = cur
	}
	return next, nil
}

func reduceSetPermissionRoles(d *model.Draft, act SetPermissionRoles) (*model.Draft, error) {
	if !validPermissionKey(act.Key) {
		return d, ErrUnknownPermission
	}
	for _, r := range act.Roles {
		if r < 0 || r >= len(d.Roles) {
			return d, ErrIndexOutOfRange
		}
	}
	next := d.Clone()
	roles := lo.Uniq(act.Roles)
	sort.Ints(roles)
	next.Permissions[act.Key] = roles
	return next, nil
}

func reduceSetAllPermissions(d *model.Draft, role int, grant bool) (*model.Draft, error) {
	if role < 0 || role >= len(d.Roles) {
		return d, ErrIndexOutOfRange
	}
	next := d.Clone()
	for _, key := range model.PermissionKeys {
		cur := next.Permissions[key]
		has := lo.Contains(cur, role)
		switch {
		case grant && !has:
			cur = append(cur, role)
			sort.Ints(cur)
			next.Permissions[key] = cur
		case !grant && has:
			next.Permissions[key] = lo.Without(cur, role)
		}
	}
	return next, nil
}
