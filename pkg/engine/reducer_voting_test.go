package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/orgforge-labs/orgforge/pkg/model"
	"github.com/orgforge-labs/orgforge/pkg/weights"
)

func slices(d *model.Draft) []int {
	out := make([]int, len(d.Voting.Classes))
	for i, c := range d.Voting.Classes {
		out[i] = c.SlicePct
	}
	return out
}

func TestSetVotingMode(t *testing.T) {
	t.Run("direct collapses to one class", func(t *testing.T) {
		d, ids := seedDraft(t)
		d = dispatch(t, d, ids, AddVotingClass{})
		d = dispatch(t, d, ids, UpdateRole{Index: 1, Patch: RolePatch{CanVote: ptr.To(false)}})

		next := dispatch(t, d, ids, SetVotingMode{Mode: model.VotingDirect})
		require.Len(t, next.Voting.Classes, 1)
		cls := next.Voting.Classes[0]
		assert.Equal(t, 100, cls.SlicePct)
		assert.Equal(t, model.StrategyDirect, cls.Strategy)
		assert.Equal(t, []int{0}, cls.HatIDs)
	})

	t.Run("hybrid splits along the stored weights", func(t *testing.T) {
		d, ids := seedDraft(t)
		d.Voting.DemocracyWeight = 70
		d.Voting.ParticipationWeight = 30

		next := dispatch(t, d, ids, SetVotingMode{Mode: model.VotingHybrid})
		require.Len(t, next.Voting.Classes, 2)
		assert.Equal(t, []int{70, 30}, slices(next))
		assert.Equal(t, model.StrategyDirect, next.Voting.Classes[0].Strategy)
		assert.Equal(t, model.StrategyTokenBal, next.Voting.Classes[1].Strategy)
		assert.Equal(t, []int{0, 1}, next.Voting.Classes[0].HatIDs)
	})

	t.Run("hybrid normalizes inconsistent weights", func(t *testing.T) {
		d, ids := seedDraft(t)
		d.Voting.DemocracyWeight = 80
		d.Voting.ParticipationWeight = 80

		next := dispatch(t, d, ids, SetVotingMode{Mode: model.VotingHybrid})
		assert.Equal(t, []int{50, 50}, slices(next))
		assert.Equal(t, 50, next.Voting.DemocracyWeight)
		assert.Equal(t, 50, next.Voting.ParticipationWeight)
	})
}

func TestSetVotingQuorum(t *testing.T) {
	d, ids := seedDraft(t)

	next := dispatch(t, d, ids, SetVotingQuorum{Kind: "hybrid", Value: 66})
	assert.Equal(t, 66, next.Voting.HybridQuorum)
	assert.Equal(t, 50, next.Voting.DDQuorum)

	next = dispatch(t, next, ids, SetVotingQuorum{Kind: "dd", Value: 33})
	assert.Equal(t, 33, next.Voting.DDQuorum)
}

func TestUpdateVoting(t *testing.T) {
	d, ids := seedDraft(t)
	next := dispatch(t, d, ids, UpdateVoting{Patch: VotingPatch{
		HybridQuorum:    ptr.To(250),
		DemocracyWeight: ptr.To(-5),
	}})
	assert.Equal(t, 100, next.Voting.HybridQuorum)
	assert.Equal(t, 0, next.Voting.DemocracyWeight)
}

func TestAddVotingClass(t *testing.T) {
	d, ids := seedDraft(t)

	next := dispatch(t, d, ids, AddVotingClass{})
	require.Len(t, next.Voting.Classes, 2)
	assert.Equal(t, 100, weights.Total(next.Voting.Classes))
	assert.Equal(t, []int{50, 50}, slices(next))
	assert.Len(t, d.Voting.Classes, 1)

	for len(next.Voting.Classes) < model.MaxVotingClasses {
		next = dispatch(t, next, ids, AddVotingClass{})
		assert.Equal(t, 100, weights.Total(next.Voting.Classes))
	}
	_, err := Reduce(next, AddVotingClass{}, ids)
	assert.ErrorIs(t, err, ErrTooManyClasses)
}

func TestUpdateVotingClass(t *testing.T) {
	t.Run("slice edits redistribute", func(t *testing.T) {
		d, ids := seedDraft(t)
		d = dispatch(t, d, ids, AddVotingClass{})

		next := dispatch(t, d, ids, UpdateVotingClass{Index: 0, Patch: VotingClassPatch{
			SlicePct: ptr.To(80),
		}})
		assert.Equal(t, []int{80, 20}, slices(next))
	})

	t.Run("quadratic requires token balance", func(t *testing.T) {
		d, ids := seedDraft(t)

		next := dispatch(t, d, ids, UpdateVotingClass{Index: 0, Patch: VotingClassPatch{
			Quadratic: ptr.To(true),
		}})
		assert.False(t, next.Voting.Classes[0].Quadratic)

		next = dispatch(t, next, ids, UpdateVotingClass{Index: 0, Patch: VotingClassPatch{
			Strategy:  ptr.To(model.StrategyTokenBal),
			Quadratic: ptr.To(true),
		}})
		assert.True(t, next.Voting.Classes[0].Quadratic)

		// Flipping back to direct drops the quadratic flag.
		next = dispatch(t, next, ids, UpdateVotingClass{Index: 0, Patch: VotingClassPatch{
			Strategy: ptr.To(model.StrategyDirect),
		}})
		assert.False(t, next.Voting.Classes[0].Quadratic)
	})

	t.Run("asset set and clear", func(t *testing.T) {
		d, ids := seedDraft(t)

		next := dispatch(t, d, ids, UpdateVotingClass{Index: 0, Patch: VotingClassPatch{
			Asset: ptr.To("0xabc"),
		}})
		require.NotNil(t, next.Voting.Classes[0].Asset)

		next = dispatch(t, next, ids, UpdateVotingClass{Index: 0, Patch: VotingClassPatch{
			ClearAsset: true,
		}})
		assert.Nil(t, next.Voting.Classes[0].Asset)
	})

	t.Run("hat ids validated against roles", func(t *testing.T) {
		d, ids := seedDraft(t)
		_, err := Reduce(d, UpdateVotingClass{Index: 0, Patch: VotingClassPatch{
			HatIDs: ptr.To([]int{0, 9}),
		}}, ids)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	})
}

func TestRemoveVotingClass(t *testing.T) {
	d, ids := seedDraft(t)
	d = dispatch(t, d, ids, AddVotingClass{})
	d = dispatch(t, d, ids, AddVotingClass{})
	for i, pct := range []int{60, 25, 15} {
		d.Voting.Classes[i].SlicePct = pct
	}

	next := dispatch(t, d, ids, RemoveVotingClass{Index: 0})
	require.Len(t, next.Voting.Classes, 2)
	assert.Equal(t, 100, weights.Total(next.Voting.Classes))
	assert.Equal(t, []int{63, 37}, slices(next))
}

func TestToggleClassLockAndPresets(t *testing.T) {
	d, ids := seedDraft(t)
	d = dispatch(t, d, ids, AddVotingClass{})
	d = dispatch(t, d, ids, AddVotingClass{})

	locked := dispatch(t, d, ids, ToggleClassLock{Index: 1})
	assert.True(t, locked.Voting.Classes[1].Locked)

	_, err := Reduce(locked, ApplyWeightPreset{Preset: weights.PresetEqual}, ids)
	assert.ErrorIs(t, err, weights.ErrLockConflict)

	next := dispatch(t, locked, ids, ApplyWeightPreset{Preset: weights.PresetEqual, OverrideLocks: true})
	assert.Equal(t, []int{34, 33, 33}, slices(next))

	next = dispatch(t, d, ids, ApplyWeightPreset{Preset: weights.PresetDominant})
	assert.Equal(t, []int{60, 20, 20}, slices(next))
}
