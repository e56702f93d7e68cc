// Package weights keeps voting-class slice percentages summing to
// exactly 100 under single-weight edits and presets, honoring locked
// classes.
package weights

import (
	"errors"
	"math"

	"github.com/orgforge-labs/orgforge/pkg/model"
)

var (
	// ErrLockConflict reports that locked classes leave no valid
	// assignment for the requested edit.
	ErrLockConflict = errors.New("weights: locked classes leave no room")
	// ErrInsufficientSlack reports that the remaining pool cannot give
	// every unlocked class its minimum of 1.
	ErrInsufficientSlack = errors.New("weights: not enough slack to redistribute")
)

// Redistribute applies a single slice-percentage edit and rebalances
// the other classes proportionally. It returns a new slice; the input
// is never mutated. On error the caller keeps the prior state.
func Redistribute(classes []model.VotingClass, changed, requested int) ([]model.VotingClass, error) {
	n := len(classes)
	if changed < 0 || changed >= n {
		return nil, ErrInsufficientSlack
	}
	if n == 1 {
		out := cloneAll(classes)
		out[0].SlicePct = 100
		return out, nil
	}

	// Clamp the request: every other class keeps at least 1, locked
	// classes keep exactly their weight.
	otherMin := 0
	for i, c := range classes {
		if i == changed {
			continue
		}
		if c.Locked {
			otherMin += c.SlicePct
		} else {
			otherMin++
		}
	}
	newWeight := clamp(requested, 1, 100-otherMin)
	if newWeight < 1 {
		return nil, ErrLockConflict
	}
	if newWeight == classes[changed].SlicePct {
		return cloneAll(classes), nil
	}

	var unlocked []int
	lockedSum := 0
	for i, c := range classes {
		if i == changed {
			continue
		}
		if c.Locked {
			lockedSum += c.SlicePct
		} else {
			unlocked = append(unlocked, i)
		}
	}
	if len(unlocked) == 0 {
		if newWeight+lockedSum != 100 {
			return nil, ErrLockConflict
		}
		out := cloneAll(classes)
		out[changed].SlicePct = newWeight
		return out, nil
	}

	pool := 100 - newWeight - lockedSum
	poolOld := 0
	for _, i := range unlocked {
		poolOld += classes[i].SlicePct
	}

	out := cloneAll(classes)
	out[changed].SlicePct = newWeight

	if poolOld == 0 {
		if pool < len(unlocked) {
			return nil, ErrInsufficientSlack
		}
		base := pool / len(unlocked)
		rem := pool % len(unlocked)
		for k, i := range unlocked {
			out[i].SlicePct = base
			if k < rem {
				out[i].SlicePct++
			}
		}
		return out, nil
	}

	for _, i := range unlocked {
		scaled := int(math.Round(float64(classes[i].SlicePct) * float64(pool) / float64(poolOld)))
		if scaled < 1 {
			scaled = 1
		}
		out[i].SlicePct = scaled
	}

	// Correct rounding drift on the largest unlocked class.
	total := 0
	for _, c := range out {
		total += c.SlicePct
	}
	if drift := total - 100; drift != 0 {
		largest := unlocked[0]
		for _, i := range unlocked {
			if out[i].SlicePct > out[largest].SlicePct {
				largest = i
			}
		}
		adjusted := out[largest].SlicePct - drift
		if adjusted < 1 {
			return nil, ErrInsufficientSlack
		}
		out[largest].SlicePct = adjusted
	}
	return out, nil
}

// Preset names a canned weight distribution.
type Preset string

const (
	PresetEqual    Preset = "equal"
	PresetDominant Preset = "dominant"
)

// ApplyPreset assigns a canned distribution. Locked classes reject the
// preset unless overrideLocks is set, in which case locks are ignored
// (the caller has asked for an explicit confirmation first).
func ApplyPreset(classes []model.VotingClass, preset Preset, overrideLocks bool) ([]model.VotingClass, error) {
	n := len(classes)
	if n == 0 {
		return nil, ErrInsufficientSlack
	}
	if !overrideLocks {
		for _, c := range classes {
			if c.Locked {
				return nil, ErrLockConflict
			}
		}
	}
	out := cloneAll(classes)
	switch preset {
	case PresetEqual:
		equalize(out, 0, n, 100)
	case PresetDominant:
		if n == 1 {
			out[0].SlicePct = 100
			break
		}
		out[0].SlicePct = 60
		equalize(out, 1, n, 40)
	default:
		return nil, errors.New("weights: unknown preset")
	}
	return out, nil
}

// equalize splits total across classes [from, to) by the equal rule:
// floor share everywhere, remainder to the leading classes.
func equalize(classes []model.VotingClass, from, to, total int) {
	n := to - from
	base := total / n
	rem := total % n
	for k := 0; k < n; k++ {
		classes[from+k].SlicePct = base
		if k < rem {
			classes[from+k].SlicePct++
		}
	}
}

// Total sums the slice percentages.
func Total(classes []model.VotingClass) int {
	sum := 0
	for _, c := range classes {
		sum += c.SlicePct
	}
	return sum
}

func cloneAll(classes []model.VotingClass) []model.VotingClass {
	out := make([]model.VotingClass, len(classes))
	for i, c := range classes {
		out[i] = c.Clone()
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
