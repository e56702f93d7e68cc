package engine

import (
	"github.com/orgforge-labs/orgforge/pkg/model"
	"github.com/orgforge-labs/orgforge/pkg/weights"
)

// reduceSetVotingMode rebuilds the class list for the chosen mode.
// Direct mode collapses to a single full-weight class spanning every
// voting role; hybrid mode splits along the stored democracy and
// participation weights.
func reduceSetVotingMode(d *model.Draft, mode model.VotingMode, ids model.IDSource) (*model.Draft, error) {
	next := d.Clone()
	next.Voting.Mode = mode

	voters := make([]int, 0, len(next.Roles))
	for i, r := range next.Roles {
		if r.CanVote {
			voters = append(voters, i)
		}
	}

	switch mode {
	case model.VotingDirect:
		direct := model.NewVotingClass(ids, 100)
		direct.Strategy = model.StrategyDirect
		direct.HatIDs = voters
		next.Voting.Classes = []model.VotingClass{direct}
	case model.VotingHybrid:
		dw, pw := next.Voting.DemocracyWeight, next.Voting.ParticipationWeight
		if dw < 1 || pw < 1 || dw+pw != 100 {
			dw, pw = 50, 50
			next.Voting.DemocracyWeight = dw
			next.Voting.ParticipationWeight = pw
		}
		direct := model.NewVotingClass(ids, dw)
		direct.Strategy = model.StrategyDirect
		direct.HatIDs = voters
		token := model.NewVotingClass(ids, pw)
		token.Strategy = model.StrategyTokenBal
		next.Voting.Classes = []model.VotingClass{direct, token}
	default:
		return d, ErrValueOutOfRange
	}
	return next, nil
}

func reduceSetVotingQuorum(d *model.Draft, act SetVotingQuorum) (*model.Draft, error) {
	if act.Value < 1 || act.Value > 100 {
		return d, ErrValueOutOfRange
	}
	next := d.Clone()
	switch act.Kind {
	case "hybrid":
		next.Voting.HybridQuorum = act.Value
	case "dd":
		next.Voting.DDQuorum = act.Value
	default:
		return d, ErrUnknownQuorumKind
	}
	return next, nil
}

func reduceUpdateVoting(d *model.Draft, act UpdateVoting) (*model.Draft, error) {
	next := d.Clone()
	v := &next.Voting
	if act.Patch.Mode != nil {
		v.Mode = *act.Patch.Mode
	}
	if act.Patch.HybridQuorum != nil {
		v.HybridQuorum = clampInt(*act.Patch.HybridQuorum, 1, 100)
	}
	if act.Patch.DDQuorum != nil {
		v.DDQuorum = clampInt(*act.Patch.DDQuorum, 1, 100)
	}
	if act.Patch.QuadraticEnabled != nil {
		v.QuadraticEnabled = *act.Patch.QuadraticEnabled
	}
	if act.Patch.DemocracyWeight != nil {
		v.DemocracyWeight = clampInt(*act.Patch.DemocracyWeight, 0, 100)
	}
	if act.Patch.ParticipationWeight != nil {
		v.ParticipationWeight = clampInt(*act.Patch.ParticipationWeight, 0, 100)
	}
	return next, nil
}

// reduceAddVotingClass appends a class and carves its weight out of
// the existing ones through redistribution, keeping the total at 100.
func reduceAddVotingClass(d *model.Draft, ids model.IDSource) (*model.Draft, error) {
	if len(d.Voting.Classes) >= model.MaxVotingClasses {
		return d, ErrTooManyClasses
	}
	next := d.Clone()
	n := len(next.Voting.Classes) + 1
	cls := model.NewVotingClass(ids, 1)
	next.Voting.Classes = append(next.Voting.Classes, cls)

	rebalanced, err := weights.Redistribute(next.Voting.Classes, n-1, 100/n)
	if err != nil {
		return d, err
	}
	next.Voting.Classes = rebalanced
	return next, nil
}

func reduceUpdateVotingClass(d *model.Draft, act UpdateVotingClass) (*model.Draft, error) {
	if act.Index < 0 || act.Index >= len(d.Voting.Classes) {
		return d, ErrIndexOutOfRange
	}
	if act.Patch.HatIDs != nil {
		for _, h := range *act.Patch.HatIDs {
			if h < 0 || h >= len(d.Roles) {
				return d, ErrIndexOutOfRange
			}
		}
	}
	next := d.Clone()

	if act.Patch.SlicePct != nil {
		rebalanced, err := weights.Redistribute(next.Voting.Classes, act.Index, *act.Patch.SlicePct)
		if err != nil {
			return d, err
		}
		next.Voting.Classes = rebalanced
	}

	cls := &next.Voting.Classes[act.Index]
	if act.Patch.Strategy != nil {
		cls.Strategy = *act.Patch.Strategy
		if cls.Strategy == model.StrategyDirect {
			cls.Quadratic = false
		}
	}
	if act.Patch.Quadratic != nil {
		cls.Quadratic = *act.Patch.Quadratic && cls.Strategy == model.StrategyTokenBal
	}
	if act.Patch.MinBalance != nil && *act.Patch.MinBalance >= 0 {
		cls.MinBalance = *act.Patch.MinBalance
	}
	switch {
	case act.Patch.ClearAsset:
		cls.Asset = nil
	case act.Patch.Asset != nil:
		v := *act.Patch.Asset
		cls.Asset = &v
	}
	if act.Patch.HatIDs != nil {
		cls.HatIDs = append([]int{}, (*act.Patch.HatIDs)...)
	}
	return next, nil
}

// reduceRemoveVotingClass drops a class and hands its weight to the
// remaining ones in proportion to their current slices.
func reduceRemoveVotingClass(d *model.Draft, index int) (*model.Draft, error) {
	if index < 0 || index >= len(d.Voting.Classes) {
		return d, ErrIndexOutOfRange
	}
	if len(d.Voting.Classes) == 1 {
		return d, ErrLastVotingClass
	}
	next := d.Clone()
	freed := next.Voting.Classes[index].SlicePct
	next.Voting.Classes = append(next.Voting.Classes[:index], next.Voting.Classes[index+1:]...)

	remaining := weights.Total(next.Voting.Classes)
	if remaining <= 0 {
		share := 100 / len(next.Voting.Classes)
		for i := range next.Voting.Classes {
			next.Voting.Classes[i].SlicePct = share
		}
		next.Voting.Classes[0].SlicePct += 100 - share*len(next.Voting.Classes)
		return next, nil
	}

	// Proportional scale-up; the largest class absorbs rounding drift.
	largest := 0
	distributed := 0
	for i := range next.Voting.Classes {
		grant := freed * next.Voting.Classes[i].SlicePct / remaining
		next.Voting.Classes[i].SlicePct += grant
		distributed += grant
		if next.Voting.Classes[i].SlicePct > next.Voting.Classes[largest].SlicePct {
			largest = i
		}
	}
	next.Voting.Classes[largest].SlicePct += freed - distributed
	return next, nil
}

func reduceToggleClassLock(d *model.Draft, index int) (*model.Draft, error) {
	if index < 0 || index >= len(d.Voting.Classes) {
		return d, ErrIndexOutOfRange
	}
	next := d.Clone()
	next.Voting.Classes[index].Locked = !next.Voting.Classes[index].Locked
	return next, nil
}

func reduceApplyWeightPreset(d *model.Draft, act ApplyWeightPreset) (*model.Draft, error) {
	next := d.Clone()
	applied, err := weights.ApplyPreset(next.Voting.Classes, act.Preset, act.OverrideLocks)
	if err != nil {
		return d, err
	}
	next.Voting.Classes = applied
	return next, nil
}
