package model

// Step enumerates the wizard steps in order.
type Step int

const (
	StepTemplate Step = iota
	StepIdentity
	StepTeam
	StepGovernance
	StepLaunch
)

const (
	FirstStep = StepTemplate
	LastStep  = StepLaunch
)

func (s Step) String() string {
	switch s {
	case StepTemplate:
		return "template"
	case StepIdentity:
		return "identity"
	case StepTeam:
		return "team"
	case StepGovernance:
		return "governance"
	case StepLaunch:
		return "launch"
	default:
		return "unknown"
	}
}

// UIMode switches the wizard between the guided and the expert surface.
type UIMode string

const (
	ModeSimple   UIMode = "simple"
	ModeAdvanced UIMode = "advanced"
)

// VotingMode is the coarse governance mode of the organization.
type VotingMode string

const (
	VotingDirect VotingMode = "direct"
	VotingHybrid VotingMode = "hybrid"
)

// Strategy is the vote weighting model of a single voting class.
// The numeric values are part of the deployment wire contract.
type Strategy uint8

const (
	StrategyDirect   Strategy = 0
	StrategyTokenBal Strategy = 1
)

func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyTokenBal:
		return "token_balance"
	default:
		return "direct"
	}
}

// PermissionKey names one of the nine low-level permission arrays.
type PermissionKey string

const (
	PermQuickJoin             PermissionKey = "quickJoin"
	PermTokenMember           PermissionKey = "tokenMember"
	PermTokenApprover         PermissionKey = "tokenApprover"
	PermTaskCreator           PermissionKey = "taskCreator"
	PermEducationCreator      PermissionKey = "educationCreator"
	PermEducationMember       PermissionKey = "educationMember"
	PermHybridProposalCreator PermissionKey = "hybridProposalCreator"
	PermDDVoter               PermissionKey = "ddVoter"
	PermDDCreator             PermissionKey = "ddCreator"
)

// PermissionKeys lists the nine keys in canonical order. The draft's
// permission map always carries exactly these keys.
var PermissionKeys = []PermissionKey{
	PermQuickJoin,
	PermTokenMember,
	PermTokenApprover,
	PermTaskCreator,
	PermEducationCreator,
	PermEducationMember,
	PermHybridProposalCreator,
	PermDDVoter,
	PermDDCreator,
}

// Bundle is a coarse user-facing power grouping that expands onto the
// nine permission arrays.
type Bundle string

const (
	BundleAdmin   Bundle = "admin"
	BundleMember  Bundle = "member"
	BundleCreator Bundle = "creator"
)

var Bundles = []Bundle{BundleAdmin, BundleMember, BundleCreator}

// GovernancePhilosophy buckets the philosophy slider.
type GovernancePhilosophy string

const (
	PhilosophyDelegated  GovernancePhilosophy = "delegated"
	PhilosophyHybrid     GovernancePhilosophy = "hybrid"
	PhilosophyDemocratic GovernancePhilosophy = "democratic"
)

// DeploymentStatus tracks the lifecycle of a submission.
type DeploymentStatus string

const (
	DeploymentIdle      DeploymentStatus = "idle"
	DeploymentPreparing DeploymentStatus = "preparing"
	DeploymentDeploying DeploymentStatus = "deploying"
	DeploymentSuccess   DeploymentStatus = "success"
	DeploymentError     DeploymentStatus = "error"
)

// Vouching configures peer-vouched admission for a role.
type Vouching struct {
	Enabled              bool `json:"enabled"`
	Quorum               int  `json:"quorum"`
	VoucherRoleIndex     int  `json:"voucherRoleIndex"`
	CombineWithHierarchy bool `json:"combineWithHierarchy"`
}

// RoleDefaults are the hat eligibility and standing flags.
type RoleDefaults struct {
	Eligible bool `json:"eligible"`
	Standing bool `json:"standing"`
}

// RoleHierarchy points at the admin role. A nil AdminRoleIndex marks a
// top-level role.
type RoleHierarchy struct {
	AdminRoleIndex *int `json:"adminRoleIndex"`
}

// Distribution controls who receives the role's hat at deployment.
type Distribution struct {
	MintToDeployer            bool     `json:"mintToDeployer"`
	MintToExecutor            bool     `json:"mintToExecutor"`
	AdditionalWearers         []string `json:"additionalWearers"`
	AdditionalWearerUsernames []string `json:"additionalWearerUsernames"`
}

// HatConfig carries the on-chain hat parameters visible to the wizard.
type HatConfig struct {
	MaxSupply  uint32 `json:"maxSupply"`
	MutableHat bool   `json:"mutableHat"`
}

// Role is a named membership class in the draft. The ID is an opaque
// identifier stable across reorders; it never reaches the payload.
type Role struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Image        string        `json:"image"`
	CanVote      bool          `json:"canVote"`
	Vouching     Vouching      `json:"vouching"`
	Defaults     RoleDefaults  `json:"defaults"`
	Hierarchy    RoleHierarchy `json:"hierarchy"`
	Distribution Distribution  `json:"distribution"`
	HatConfig    HatConfig     `json:"hatConfig"`
}

// VotingClass is one weighted slice of the total voting power.
type VotingClass struct {
	ID         string   `json:"id"`
	Strategy   Strategy `json:"strategy"`
	SlicePct   int      `json:"slicePct"`
	Quadratic  bool     `json:"quadratic"`
	MinBalance float64  `json:"minBalance"`
	Asset      *string  `json:"asset"`
	HatIDs     []int    `json:"hatIds"`
	Locked     bool     `json:"locked"`
}

// Voting aggregates class configuration and quorums.
type Voting struct {
	Mode                VotingMode    `json:"mode"`
	HybridQuorum        int           `json:"hybridQuorum"`
	DDQuorum            int           `json:"ddQuorum"`
	QuadraticEnabled    bool          `json:"quadraticEnabled"`
	DemocracyWeight     int           `json:"democracyWeight"`
	ParticipationWeight int           `json:"participationWeight"`
	Classes             []VotingClass `json:"classes"`
}

// Link is one external URL attached to the organization profile.
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Organization is the identity block of the draft.
type Organization struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	LogoHandle     string `json:"logoHandle"`
	Links          []Link `json:"links"`
	MetadataHandle string `json:"metadataHandle"`
	AutoUpgrade    bool   `json:"autoUpgrade"`
	Username       string `json:"username"`
	TemplateTag    string `json:"templateTag"`
}

// UIState carries presentation hints the external GUI round-trips.
type UIState struct {
	Mode             UIMode          `json:"mode"`
	SelectedTemplate *string         `json:"selectedTemplate"`
	TemplateApplied  bool            `json:"templateApplied"`
	ShowGuidance     bool            `json:"showGuidance"`
	ExpandedSections map[string]bool `json:"expandedSections"`
}

// TemplateJourney tracks discovery answers and variation matching.
type TemplateJourney struct {
	DiscoveryAnswers      map[string]any `json:"discoveryAnswers"`
	SelfAssessmentAnswers map[string]any `json:"selfAssessmentAnswers"`
	MatchedVariation      *string        `json:"matchedVariation"`
	VariationConfirmed    bool           `json:"variationConfirmed"`
	CurrentQuestionIndex  int            `json:"currentQuestionIndex"`
	ShowPhilosophy        bool           `json:"showPhilosophy"`
	ShowGrowthPath        bool           `json:"showGrowthPath"`
	ShowPitfalls          bool           `json:"showPitfalls"`
}

// Philosophy holds the governance slider and the coarse role bundles.
type Philosophy struct {
	Slider       int              `json:"slider"`
	PowerBundles map[Bundle][]int `json:"powerBundles"`
}

// Features toggles the optional hubs.
type Features struct {
	EducationHubEnabled bool `json:"educationHubEnabled"`
	ElectionHubEnabled  bool `json:"electionHubEnabled"`
}

// DeploymentState tracks the submission lifecycle of this draft.
type DeploymentState struct {
	Status DeploymentStatus `json:"status"`
	Error  *string          `json:"error"`
	Result any              `json:"result"`
}

// Draft is the single root aggregate the reducer owns.
type Draft struct {
	CurrentStep     Step                    `json:"currentStep"`
	UI              UIState                 `json:"ui"`
	TemplateJourney TemplateJourney         `json:"templateJourney"`
	Philosophy      Philosophy              `json:"philosophy"`
	Organization    Organization            `json:"organization"`
	Roles           []Role                  `json:"roles"`
	Permissions     map[PermissionKey][]int `json:"permissions"`
	Voting          Voting                  `json:"voting"`
	Features        Features                `json:"features"`
	Deployment      DeploymentState         `json:"deployment"`
	Errors          map[string][]string     `json:"errors"`
}

// MaxRoles and MaxVotingClasses bound the draft.
const (
	MaxRoles         = 32
	MaxVotingClasses = 8
)
