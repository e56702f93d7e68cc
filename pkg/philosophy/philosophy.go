// Package philosophy maps the governance slider and the three coarse
// power bundles onto concrete permissions and voting-class shapes.
package philosophy

import (
	"sort"

	"github.com/samber/lo"

	"github.com/orgforge-labs/orgforge/pkg/model"
)

// Bucket buckets the slider: [0,30] delegated, (30,70] hybrid,
// (70,100] democratic.
func Bucket(slider int) model.GovernancePhilosophy {
	switch {
	case slider <= 30:
		return model.PhilosophyDelegated
	case slider <= 70:
		return model.PhilosophyHybrid
	default:
		return model.PhilosophyDemocratic
	}
}

// SliderFor returns the representative slider position of a bucket,
// used when a template declares its philosophy by name.
func SliderFor(p model.GovernancePhilosophy) int {
	switch p {
	case model.PhilosophyDelegated:
		return 15
	case model.PhilosophyDemocratic:
		return 85
	default:
		return 50
	}
}

// bundleGrants is the fixed contribution table from bundles to the
// nine permission arrays.
var bundleGrants = map[model.Bundle][]model.PermissionKey{
	model.BundleAdmin: {
		model.PermTokenApprover,
		model.PermTaskCreator,
		model.PermEducationCreator,
		model.PermDDCreator,
	},
	model.BundleMember: {
		model.PermQuickJoin,
		model.PermTokenMember,
		model.PermEducationMember,
		model.PermDDVoter,
	},
	model.BundleCreator: {
		model.PermHybridProposalCreator,
	},
}

// ExpandBundles unions the bundle memberships into the nine permission
// arrays. Every key is present in the result, ascending indices.
func ExpandBundles(bundles map[model.Bundle][]int) map[model.PermissionKey][]int {
	out := model.EmptyPermissions()
	for bundle, keys := range bundleGrants {
		roles := bundles[bundle]
		for _, key := range keys {
			out[key] = lo.Uniq(append(out[key], roles...))
		}
	}
	for _, key := range model.PermissionKeys {
		sort.Ints(out[key])
	}
	return out
}

// VotingForBucket reshapes the voting classes for a philosophy bucket.
// Delegated: one token-balance class at 100. Hybrid: direct at the
// democracy weight plus token-balance at the participation weight.
// Democratic: one direct class at 100. Direct classes span every
// voting-enabled role.
func VotingForBucket(ids model.IDSource, bucket model.GovernancePhilosophy, voting model.Voting, roles []model.Role) model.Voting {
	out := voting.Clone()
	votingRoles := votersOf(roles)

	switch bucket {
	case model.PhilosophyDelegated:
		tb := model.NewVotingClass(ids, 100)
		tb.Strategy = model.StrategyTokenBal
		out.Mode = model.VotingHybrid
		out.DemocracyWeight = 0
		out.ParticipationWeight = 100
		out.Classes = []model.VotingClass{tb}
	case model.PhilosophyDemocratic:
		direct := model.NewVotingClass(ids, 100)
		direct.HatIDs = votingRoles
		out.Mode = model.VotingDirect
		out.DemocracyWeight = 100
		out.ParticipationWeight = 0
		out.Classes = []model.VotingClass{direct}
	default:
		dw, pw := out.DemocracyWeight, out.ParticipationWeight
		if dw+pw != 100 || dw < 1 || pw < 1 {
			dw, pw = 50, 50
		}
		direct := model.NewVotingClass(ids, dw)
		direct.HatIDs = votingRoles
		tb := model.NewVotingClass(ids, pw)
		tb.Strategy = model.StrategyTokenBal
		out.Mode = model.VotingHybrid
		out.DemocracyWeight = dw
		out.ParticipationWeight = pw
		out.Classes = []model.VotingClass{direct, tb}
	}
	return out
}

func votersOf(roles []model.Role) []int {
	out := []int{}
	for i, r := range roles {
		if r.CanVote {
			out = append(out, i)
		}
	}
	return out
}
