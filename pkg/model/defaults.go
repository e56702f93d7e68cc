package model

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource produces opaque identifiers for roles, voting classes and
// sessions. It is a capability so tests can supply deterministic ids.
type IDSource interface {
	NewID() string
}

type uuidSource struct{}

func (uuidSource) NewID() string { return uuid.NewString() }

// DefaultIDSource is the process-wide uuid-backed source.
var DefaultIDSource IDSource = uuidSource{}

// SeqIDSource hands out "prefix-1", "prefix-2", ... for tests.
type SeqIDSource struct {
	Prefix string
	n      atomic.Uint64
}

func (s *SeqIDSource) NewID() string {
	return fmt.Sprintf("%s-%d", s.Prefix, s.n.Add(1))
}

const defaultMaxSupply = 1000

// NewRole returns a fully populated role seed. The first role of a
// draft is the one minted to the deployer.
func NewRole(ids IDSource, index int, name string) Role {
	return Role{
		ID:      ids.NewID(),
		Name:    name,
		CanVote: true,
		Vouching: Vouching{
			Enabled:          false,
			Quorum:           0,
			VoucherRoleIndex: 0,
		},
		Defaults:  RoleDefaults{Eligible: true, Standing: true},
		Hierarchy: RoleHierarchy{AdminRoleIndex: nil},
		Distribution: Distribution{
			MintToDeployer:            index == 0,
			MintToExecutor:            false,
			AdditionalWearers:         []string{},
			AdditionalWearerUsernames: []string{},
		},
		HatConfig: HatConfig{MaxSupply: defaultMaxSupply, MutableHat: true},
	}
}

// NewVotingClass returns a direct-strategy class seed at the given
// slice percentage.
func NewVotingClass(ids IDSource, slicePct int) VotingClass {
	return VotingClass{
		ID:         ids.NewID(),
		Strategy:   StrategyDirect,
		SlicePct:   slicePct,
		Quadratic:  false,
		MinBalance: 0,
		Asset:      nil,
		HatIDs:     []int{},
		Locked:     false,
	}
}

// EmptyPermissions returns a permission map carrying exactly the nine
// keys, each with an empty role list.
func EmptyPermissions() map[PermissionKey][]int {
	p := make(map[PermissionKey][]int, len(PermissionKeys))
	for _, k := range PermissionKeys {
		p[k] = []int{}
	}
	return p
}

// InitialState is the fixed starting shape of a draft: two example
// roles and a single 100% direct voting class spanning both.
func InitialState(ids IDSource) *Draft {
	member := NewRole(ids, 0, "Member")
	exec := NewRole(ids, 1, "Executive")

	perms := EmptyPermissions()
	perms[PermQuickJoin] = []int{0}
	perms[PermTokenMember] = []int{0, 1}
	perms[PermTokenApprover] = []int{1}
	perms[PermTaskCreator] = []int{1}
	perms[PermEducationCreator] = []int{1}
	perms[PermEducationMember] = []int{0, 1}
	perms[PermHybridProposalCreator] = []int{1}
	perms[PermDDVoter] = []int{0, 1}
	perms[PermDDCreator] = []int{1}

	class := NewVotingClass(ids, 100)
	class.HatIDs = []int{0, 1}

	return &Draft{
		CurrentStep: StepTemplate,
		UI: UIState{
			Mode:             ModeSimple,
			ShowGuidance:     true,
			ExpandedSections: map[string]bool{},
		},
		TemplateJourney: TemplateJourney{
			DiscoveryAnswers:      map[string]any{},
			SelfAssessmentAnswers: map[string]any{},
		},
		Philosophy: Philosophy{
			Slider: 50,
			PowerBundles: map[Bundle][]int{
				BundleAdmin:   {1},
				BundleMember:  {0, 1},
				BundleCreator: {1},
			},
		},
		Organization: Organization{Links: []Link{}},
		Roles:        []Role{member, exec},
		Permissions:  perms,
		Voting: Voting{
			Mode:                VotingDirect,
			HybridQuorum:        50,
			DDQuorum:            50,
			DemocracyWeight:     50,
			ParticipationWeight: 50,
			Classes:             []VotingClass{class},
		},
		Features:   Features{},
		Deployment: DeploymentState{Status: DeploymentIdle},
		Errors:     map[string][]string{},
	}
}
