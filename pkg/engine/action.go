// Package engine is the action-dispatch state core of the deployment
// configuration wizard. The draft is mutated only through Reduce;
// every state transition is one of the closed set of actions below.
package engine

import (
	"github.com/orgforge-labs/orgforge/pkg/catalog"
	"github.com/orgforge-labs/orgforge/pkg/model"
	"github.com/orgforge-labs/orgforge/pkg/weights"
)

// Action is the closed sum of wizard state transitions. The reducer's
// type switch over it is exhaustive; anything else is rejected at the
// decoding boundary.
type Action interface {
	// ActionType returns the wire name of the action.
	ActionType() string
}

// Navigation.

type SetStep struct {
	Step model.Step `json:"step"`
}
type NextStep struct{}
type PrevStep struct{}

// UI and template selection.

type SetUIMode struct {
	Mode model.UIMode `json:"mode"`
}
type SelectTemplate struct {
	TemplateID string `json:"templateId"`
}

// ApplyTemplate overwrites roles, permissions, voting and features
// with the given template defaults. The handler resolves the defaults
// from the catalog; organization identity and journey answers survive.
type ApplyTemplate struct {
	TemplateID string            `json:"templateId"`
	Defaults   *catalog.Defaults `json:"defaults"`
}
type ClearTemplate struct{}
type ToggleGuidance struct{}
type ExpandSection struct {
	Section string `json:"section"`
}
type CollapseSection struct {
	Section string `json:"section"`
}

// Template journey.

type SetDiscoveryAnswer struct {
	QuestionID string `json:"questionId"`
	Value      any    `json:"value"`
}
type SetSelfAssessmentAnswer struct {
	QuestionID string `json:"questionId"`
	Value      any    `json:"value"`
}
type SetMatchedVariation struct {
	Variation *string `json:"variation"`
}
type ConfirmVariation struct{}
type NextDiscoveryQuestion struct{}
type PrevDiscoveryQuestion struct{}
type ResetTemplateJourney struct{}

// ApplyVariation overlays a variation's partial settings onto the
// current draft. Only meaningful after ApplyTemplate.
type ApplyVariation struct {
	Variation string            `json:"variation"`
	Settings  *catalog.Settings `json:"settings"`
}

// Philosophy.

type SetPhilosophySlider struct {
	Value int `json:"value"`
}
type SetPowerBundle struct {
	Bundle model.Bundle `json:"bundle"`
	Roles  []int        `json:"roles"`
}
type TogglePowerBundle struct {
	Bundle model.Bundle `json:"bundle"`
	Role   int          `json:"role"`
}
type ApplyPhilosophy struct{}

// Organization identity.

type OrganizationPatch struct {
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	LogoHandle     *string `json:"logoHandle,omitempty"`
	MetadataHandle *string `json:"metadataHandle,omitempty"`
	Username       *string `json:"username,omitempty"`
	AutoUpgrade    *bool   `json:"autoUpgrade,omitempty"`
}
type UpdateOrganization struct {
	Patch OrganizationPatch `json:"patch"`
}
type SetLogo struct {
	Handle string `json:"handle"`
}
type SetMetadataHandle struct {
	Handle string `json:"handle"`
}
type AddLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
type RemoveLink struct {
	Index int `json:"index"`
}
type UpdateLink struct {
	Index int     `json:"index"`
	Name  *string `json:"name,omitempty"`
	URL   *string `json:"url,omitempty"`
}

// Roles.

type RolePatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	CanVote     *bool   `json:"canVote,omitempty"`
}
type VouchingPatch struct {
	Enabled              *bool `json:"enabled,omitempty"`
	Quorum               *int  `json:"quorum,omitempty"`
	VoucherRoleIndex     *int  `json:"voucherRoleIndex,omitempty"`
	CombineWithHierarchy *bool `json:"combineWithHierarchy,omitempty"`
}
type DistributionPatch struct {
	MintToDeployer            *bool     `json:"mintToDeployer,omitempty"`
	MintToExecutor            *bool     `json:"mintToExecutor,omitempty"`
	AdditionalWearers         *[]string `json:"additionalWearers,omitempty"`
	AdditionalWearerUsernames *[]string `json:"additionalWearerUsernames,omitempty"`
}
type HatConfigPatch struct {
	MaxSupply  *uint32 `json:"maxSupply,omitempty"`
	MutableHat *bool   `json:"mutableHat,omitempty"`
}

type AddRole struct {
	Name *string `json:"name,omitempty"`
}
type UpdateRole struct {
	Index int       `json:"index"`
	Patch RolePatch `json:"patch"`
}
type RemoveRole struct {
	Index int `json:"index"`
}

// ReorderRoles moves the role at From before the position To. Every
// index-bearing reference in the draft is rewritten accordingly.
type ReorderRoles struct {
	From int `json:"from"`
	To   int `json:"to"`
}
type UpdateRoleHierarchy struct {
	Index          int  `json:"index"`
	AdminRoleIndex *int `json:"adminRoleIndex"`
}
type UpdateRoleVouching struct {
	Index int           `json:"index"`
	Patch VouchingPatch `json:"patch"`
}
type UpdateRoleDistribution struct {
	Index int               `json:"index"`
	Patch DistributionPatch `json:"patch"`
}
type UpdateRoleHatConfig struct {
	Index int            `json:"index"`
	Patch HatConfigPatch `json:"patch"`
}

// Permissions.

type TogglePermission struct {
	Key  model.PermissionKey `json:"key"`
	Role int                 `json:"role"`
}
type SetPermissionRoles struct {
	Key   model.PermissionKey `json:"key"`
	Roles []int               `json:"roles"`
}
type SetAllPermissionsForRole struct {
	Role int `json:"role"`
}
type ClearAllPermissionsForRole struct {
	Role int `json:"role"`
}

// Voting.

type VotingPatch struct {
	Mode                *model.VotingMode `json:"mode,omitempty"`
	HybridQuorum        *int              `json:"hybridQuorum,omitempty"`
	DDQuorum            *int              `json:"ddQuorum,omitempty"`
	QuadraticEnabled    *bool             `json:"quadraticEnabled,omitempty"`
	DemocracyWeight     *int              `json:"democracyWeight,omitempty"`
	ParticipationWeight *int              `json:"participationWeight,omitempty"`
}
type VotingClassPatch struct {
	Strategy   *model.Strategy `json:"strategy,omitempty"`
	SlicePct   *int            `json:"slicePct,omitempty"`
	Quadratic  *bool           `json:"quadratic,omitempty"`
	MinBalance *float64        `json:"minBalance,omitempty"`
	Asset      *string         `json:"asset,omitempty"`
	ClearAsset bool            `json:"clearAsset,omitempty"`
	HatIDs     *[]int          `json:"hatIds,omitempty"`
}

type SetVotingMode struct {
	Mode model.VotingMode `json:"mode"`
}

// SetVotingQuorum sets one of the two quorum values; Kind is "hybrid"
// or "dd".
type SetVotingQuorum struct {
	Kind  string `json:"kind"`
	Value int    `json:"value"`
}
type UpdateVoting struct {
	Patch VotingPatch `json:"patch"`
}
type AddVotingClass struct{}
type UpdateVotingClass struct {
	Index int              `json:"index"`
	Patch VotingClassPatch `json:"patch"`
}
type RemoveVotingClass struct {
	Index int `json:"index"`
}
type ToggleClassLock struct {
	Index int `json:"index"`
}
type ApplyWeightPreset struct {
	Preset        weights.Preset `json:"preset"`
	OverrideLocks bool           `json:"overrideLocks"`
}

// Features, errors, deployment, reset.

type SetFeatures struct {
	EducationHubEnabled *bool `json:"educationHubEnabled,omitempty"`
	ElectionHubEnabled  *bool `json:"electionHubEnabled,omitempty"`
}
type SetErrors struct {
	Errors map[string][]string `json:"errors"`
}
type ClearErrors struct{}
type SetDeploymentStatus struct {
	Status model.DeploymentStatus `json:"status"`
	Error  *string                `json:"error,omitempty"`
	Result any                    `json:"result,omitempty"`
}
type Reset struct{}

// Wire names. The decoder keys on these; selectors and metrics label
// by them.
func (SetStep) ActionType() string                    { return "SET_STEP" }
func (NextStep) ActionType() string                   { return "NEXT_STEP" }
func (PrevStep) ActionType() string                   { return "PREV_STEP" }
func (SetUIMode) ActionType() string                  { return "SET_UI_MODE" }
func (SelectTemplate) ActionType() string             { return "SELECT_TEMPLATE" }
func (ApplyTemplate) ActionType() string              { return "APPLY_TEMPLATE" }
func (ClearTemplate) ActionType() string              { return "CLEAR_TEMPLATE" }
func (ToggleGuidance) ActionType() string             { return "TOGGLE_GUIDANCE" }
func (ExpandSection) ActionType() string              { return "EXPAND_SECTION" }
func (CollapseSection) ActionType() string            { return "COLLAPSE_SECTION" }
func (SetDiscoveryAnswer) ActionType() string         { return "SET_DISCOVERY_ANSWER" }
func (SetSelfAssessmentAnswer) ActionType() string    { return "SET_SELF_ASSESSMENT_ANSWER" }
func (SetMatchedVariation) ActionType() string        { return "SET_MATCHED_VARIATION" }
func (ConfirmVariation) ActionType() string           { return "CONFIRM_VARIATION" }
func (NextDiscoveryQuestion) ActionType() string      { return "NEXT_DISCOVERY_QUESTION" }
func (PrevDiscoveryQuestion) ActionType() string      { return "PREV_DISCOVERY_QUESTION" }
func (ResetTemplateJourney) ActionType() string       { return "RESET_TEMPLATE_JOURNEY" }
func (ApplyVariation) ActionType() string             { return "APPLY_VARIATION" }
func (SetPhilosophySlider) ActionType() string        { return "SET_PHILOSOPHY_SLIDER" }
func (SetPowerBundle) ActionType() string             { return "SET_POWER_BUNDLE" }
func (TogglePowerBundle) ActionType() string          { return "TOGGLE_POWER_BUNDLE" }
func (ApplyPhilosophy) ActionType() string            { return "APPLY_PHILOSOPHY" }
func (UpdateOrganization) ActionType() string         { return "UPDATE_ORGANIZATION" }
func (SetLogo) ActionType() string                    { return "SET_LOGO" }
func (SetMetadataHandle) ActionType() string          { return "SET_METADATA_HANDLE" }
func (AddLink) ActionType() string                    { return "ADD_LINK" }
func (RemoveLink) ActionType() string                 { return "REMOVE_LINK" }
func (UpdateLink) ActionType() string                 { return "UPDATE_LINK" }
func (AddRole) ActionType() string                    { return "ADD_ROLE" }
func (UpdateRole) ActionType() string                 { return "UPDATE_ROLE" }
func (RemoveRole) ActionType() string                 { return "REMOVE_ROLE" }
func (ReorderRoles) ActionType() string               { return "REORDER_ROLES" }
func (UpdateRoleHierarchy) ActionType() string        { return "UPDATE_ROLE_HIERARCHY" }
func (UpdateRoleVouching) ActionType() string         { return "UPDATE_ROLE_VOUCHING" }
func (UpdateRoleDistribution) ActionType() string     { return "UPDATE_ROLE_DISTRIBUTION" }
func (UpdateRoleHatConfig) ActionType() string        { return "UPDATE_ROLE_HAT_CONFIG" }
func (TogglePermission) ActionType() string           { return "TOGGLE_PERMISSION" }
func (SetPermissionRoles) ActionType() string         { return "SET_PERMISSION_ROLES" }
func (SetAllPermissionsForRole) ActionType() string   { return "SET_ALL_PERMISSIONS_FOR_ROLE" }
func (ClearAllPermissionsForRole) ActionType() string { return "CLEAR_ALL_PERMISSIONS_FOR_ROLE" }
func (SetVotingMode) ActionType() string              { return "SET_VOTING_MODE" }
func (SetVotingQuorum) ActionType() string            { return "SET_VOTING_QUORUM" }
func (UpdateVoting) ActionType() string               { return "UPDATE_VOTING" }
func (AddVotingClass) ActionType() string             { return "ADD_VOTING_CLASS" }
func (UpdateVotingClass) ActionType() string          { return "UPDATE_VOTING_CLASS" }
func (RemoveVotingClass) ActionType() string          { return "REMOVE_VOTING_CLASS" }
func (ToggleClassLock) ActionType() string            { return "TOGGLE_CLASS_LOCK" }
func (ApplyWeightPreset) ActionType() string          { return "APPLY_WEIGHT_PRESET" }
func (SetFeatures) ActionType() string                { return "SET_FEATURES" }
func (SetErrors) ActionType() string                  { return "SET_ERRORS" }
func (ClearErrors) ActionType() string                { return "CLEAR_ERRORS" }
func (SetDeploymentStatus) ActionType() string        { return "SET_DEPLOYMENT_STATUS" }
func (Reset) ActionType() string                      { return "RESET" }
