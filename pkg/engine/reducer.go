package engine

import (
	"errors"
	"sort"

	"github.com/samber/lo"
	"k8s.io/klog/v2"

	"github.com/orgforge-labs/orgforge/pkg/model"
	"github.com/orgforge-labs/orgforge/pkg/philosophy"
	"github.com/orgforge-labs/orgforge/pkg/validation"
)

// Reducer rejections. A rejected edit returns the prior draft pointer
// unchanged together with one of these; user-driven edits never panic.
var (
	ErrStepBlocked        = errors.New("engine: current step is not valid yet")
	ErrIndexOutOfRange    = errors.New("engine: index out of range")
	ErrLastRole           = errors.New("engine: cannot remove the last role")
	ErrTooManyRoles       = errors.New("engine: role limit reached")
	ErrLastVotingClass    = errors.New("engine: cannot remove the last voting class")
	ErrTooManyClasses     = errors.New("engine: voting class limit reached")
	ErrTemplateNotApplied = errors.New("engine: apply a template first")
	ErrMissingDefaults    = errors.New("engine: template defaults missing")
	ErrUnknownBundle      = errors.New("engine: unknown power bundle")
	ErrUnknownQuorumKind  = errors.New("engine: unknown quorum kind")
	ErrValueOutOfRange    = errors.New("engine: value out of range")
	ErrUnknownPermission  = errors.New("engine: unknown permission key")
)

// Reduce applies one action to the draft and returns the next
// snapshot. The input draft is never mutated; when nothing changes
// (or the edit is rejected) the same pointer comes back, so callers
// can use reference equality.
func Reduce(d *model.Draft, a Action, ids model.IDSource) (*model.Draft, error) {
	switch act := a.(type) {
	// Navigation.
	case SetStep:
		return reduceSetStep(d, act.Step)
	case NextStep:
		return reduceSetStep(d, d.CurrentStep+1)
	case PrevStep:
		if d.CurrentStep == model.FirstStep {
			return d, nil
		}
		next := d.Clone()
		next.CurrentStep = d.CurrentStep - 1
		return next, nil

	// UI and template selection.
	case SetUIMode:
		if d.UI.Mode == act.Mode {
			return d, nil
		}
		next := d.Clone()
		next.UI.Mode = act.Mode
		return next, nil
	case SelectTemplate:
		next := d.Clone()
		next.UI.SelectedTemplate = &act.TemplateID
		next.UI.TemplateApplied = false
		return next, nil
	case ApplyTemplate:
		return reduceApplyTemplate(d, act, ids)
	case ClearTemplate:
		next := d.Clone()
		next.UI.SelectedTemplate = nil
		next.UI.TemplateApplied = false
		next.Organization.TemplateTag = ""
		return next, nil
	case ToggleGuidance:
		next := d.Clone()
		next.UI.ShowGuidance = !d.UI.ShowGuidance
		return next, nil
	case ExpandSection:
		if d.UI.ExpandedSections[act.Section] {
			return d, nil
		}
		next := d.Clone()
		next.UI.ExpandedSections[act.Section] = true
		return next, nil
	case CollapseSection:
		if !d.UI.ExpandedSections[act.Section] {
			return d, nil
		}
		next := d.Clone()
		delete(next.UI.ExpandedSections, act.Section)
		return next, nil

	// Template journey.
	case SetDiscoveryAnswer:
		next := d.Clone()
		next.TemplateJourney.DiscoveryAnswers[act.QuestionID] = act.Value
		return next, nil
	case SetSelfAssessmentAnswer:
		next := d.Clone()
		next.TemplateJourney.SelfAssessmentAnswers[act.QuestionID] = act.Value
		return next, nil
	case SetMatchedVariation:
		next := d.Clone()
		next.TemplateJourney.MatchedVariation = act.Variation
		next.TemplateJourney.VariationConfirmed = false
		return next, nil
	case ConfirmVariation:
		if d.TemplateJourney.VariationConfirmed {
			return d, nil
		}
		next := d.Clone()
		next.TemplateJourney.VariationConfirmed = true
		return next, nil
	case NextDiscoveryQuestion:
		next := d.Clone()
		next.TemplateJourney.CurrentQuestionIndex = d.TemplateJourney.CurrentQuestionIndex + 1
		return next, nil
	case PrevDiscoveryQuestion:
		if d.TemplateJourney.CurrentQuestionIndex == 0 {
			return d, nil
		}
		next := d.Clone()
		next.TemplateJourney.CurrentQuestionIndex = d.TemplateJourney.CurrentQuestionIndex - 1
		return next, nil
	case ResetTemplateJourney:
		next := d.Clone()
		next.TemplateJourney = model.TemplateJourney{
			DiscoveryAnswers:      map[string]any{},
			SelfAssessmentAnswers: map[string]any{},
		}
		return next, nil
	case ApplyVariation:
		return reduceApplyVariation(d, act)

	// Philosophy.
	case SetPhilosophySlider:
		v := clampInt(act.Value, 0, 100)
		if d.Philosophy.Slider == v {
			return d, nil
		}
		next := d.Clone()
		next.Philosophy.Slider = v
		return next, nil
	case SetPowerBundle:
		return reduceSetPowerBundle(d, act)
	case TogglePowerBundle:
		return reduceTogglePowerBundle(d, act)
	case ApplyPhilosophy:
		return reduceApplyPhilosophy(d, ids)

	// Organization identity.
	case UpdateOrganization:
		next := d.Clone()
		applyOrgPatch(&next.Organization, act.Patch)
		return next, nil
	case SetLogo:
		next := d.Clone()
		next.Organization.LogoHandle = act.Handle
		return next, nil
	case SetMetadataHandle:
		next := d.Clone()
		next.Organization.MetadataHandle = act.Handle
		return next, nil
	case AddLink:
		next := d.Clone()
		next.Organization.Links = append(next.Organization.Links, model.Link{Name: act.Name, URL: act.URL})
		return next, nil
	case RemoveLink:
		if act.Index < 0 || act.Index >= len(d.Organization.Links) {
			return d, ErrIndexOutOfRange
		}
		next := d.Clone()
		next.Organization.Links = append(next.Organization.Links[:act.Index], next.Organization.Links[act.Index+1:]...)
		return next, nil
	case UpdateLink:
		if act.Index < 0 || act.Index >= len(d.Organization.Links) {
			return d, ErrIndexOutOfRange
		}
		next := d.Clone()
		link := &next.Organization.Links[act.Index]
		if act.Name != nil {
			link.Name = *act.Name
		}
		if act.URL != nil {
			link.URL = *act.URL
		}
		return next, nil

	// Roles and permissions.
	case AddRole:
		return reduceAddRole(d, act, ids)
	case UpdateRole:
		return reduceUpdateRole(d, act)
	case RemoveRole:
		return reduceRemoveRole(d, act.Index)
	case ReorderRoles:
		return reduceReorderRoles(d, act.From, act.To)
	case UpdateRoleHierarchy:
		return reduceUpdateRoleHierarchy(d, act)
	case UpdateRoleVouching:
		return reduceUpdateRoleVouching(d, act)
	case UpdateRoleDistribution:
		return reduceUpdateRoleDistribution(d, act)
	case UpdateRoleHatConfig:
		return reduceUpdateRoleHatConfig(d, act)
	case TogglePermission:
		return reduceTogglePermission(d, act)
	case SetPermissionRoles:
		return reduceSetPermissionRoles(d, act)
	case SetAllPermissionsForRole:
		return reduceSetAllPermissions(d, act.Role, true)
	case ClearAllPermissionsForRole:
		return reduceSetAllPermissions(d, act.Role, false)

	// Voting.
	case SetVotingMode:
		return reduceSetVotingMode(d, act.Mode, ids)
	case SetVotingQuorum:
		return reduceSetVotingQuorum(d, act)
	case UpdateVoting:
		return reduceUpdateVoting(d, act)
	case AddVotingClass:
		return reduceAddVotingClass(d, ids)
	case UpdateVotingClass:
		return reduceUpdateVotingClass(d, act)
	case RemoveVotingClass:
		return reduceRemoveVotingClass(d, act.Index)
	case ToggleClassLock:
		return reduceToggleClassLock(d, act.Index)
	case ApplyWeightPreset:
		return reduceApplyWeightPreset(d, act)

	// Features, errors, deployment, reset.
	case SetFeatures:
		next := d.Clone()
		if act.EducationHubEnabled != nil {
			next.Features.EducationHubEnabled = *act.EducationHubEnabled
		}
		if act.ElectionHubEnabled != nil {
			next.Features.ElectionHubEnabled = *act.ElectionHubEnabled
		}
		return next, nil
	case SetErrors:
		next := d.Clone()
		next.Errors = map[string][]string{}
		for path, msgs := range act.Errors {
			next.Errors[path] = append([]string{}, msgs...)
		}
		return next, nil
	case ClearErrors:
		if len(d.Errors) == 0 {
			return d, nil
		}
		next := d.Clone()
		next.Errors = map[string][]string{}
		return next, nil
	case SetDeploymentStatus:
		next := d.Clone()
		next.Deployment.Status = act.Status
		next.Deployment.Error = act.Error
		if act.Result != nil {
			next.Deployment.Result = act.Result
		}
		return next, nil
	case Reset:
		return model.InitialState(ids), nil

	default:
		// Unreachable through DecodeAction; tolerated for direct callers.
		klog.Warningf("Ignoring unknown action %T", a)
		return d, nil
	}
}

// reduceSetStep clamps the target and refuses to advance past a step
// whose predecessors are invalid.
func reduceSetStep(d *model.Draft, target model.Step) (*model.Draft, error) {
	if target < model.FirstStep {
		target = model.FirstStep
	}
	if target > model.LastStep {
		target = model.LastStep
	}
	if target == d.CurrentStep {
		return d, nil
	}
	if target > d.CurrentStep {
		for s := d.CurrentStep; s < target; s++ {
			if !validation.ForStep(d, s).IsValid {
				return d, ErrStepBlocked
			}
		}
	}
	next := d.Clone()
	next.CurrentStep = target
	return next, nil
}

func reduceApplyTemplate(d *model.Draft, act ApplyTemplate, ids model.IDSource) (*model.Draft, error) {
	if act.Defaults == nil {
		return d, ErrMissingDefaults
	}
	def := act.Defaults.Clone()

	next := d.Clone()
	next.Roles = lo.Map(def.Roles, func(seed model.Role, i int) model.Role {
		r := seed.Clone()
		r.ID = ids.NewID()
		if r.Distribution.AdditionalWearers == nil {
			r.Distribution.AdditionalWearers = []string{}
		}
		if r.Distribution.AdditionalWearerUsernames == nil {
			r.Distribution.AdditionalWearerUsernames = []string{}
		}
		return r
	})
	next.Permissions = model.EmptyPermissions()
	for key, roles := range def.Permissions {
		next.Permissions[key] = append([]int{}, roles...)
	}
	next.Voting = def.Voting.Clone()
	for i := range next.Voting.Classes {
		next.Voting.Classes[i].ID = ids.NewID()
		if next.Voting.Classes[i].HatIDs == nil {
			next.Voting.Classes[i].HatIDs = []int{}
		}
	}
	next.Features = def.Features
	next.Philosophy.Slider = philosophy.SliderFor(def.GovernancePhilosophy)
	next.UI.SelectedTemplate = &act.TemplateID
	next.UI.TemplateApplied = true
	next.Organization.TemplateTag = act.TemplateID
	return next, nil
}

func reduceApplyVariation(d *model.Draft, act ApplyVariation) (*model.Draft, error) {
	if !d.UI.TemplateApplied {
		return d, ErrTemplateNotApplied
	}
	if act.Settings == nil {
		return d, ErrMissingDefaults
	}
	next := d.Clone()
	s := act.Settings
	if s.Voting != nil {
		o := s.Voting
		if o.Mode != nil {
			next.Voting.Mode = *o.Mode
		}
		if o.HybridQuorum != nil {
			next.Voting.HybridQuorum = *o.HybridQuorum
		}
		if o.DDQuorum != nil {
			next.Voting.DDQuorum = *o.DDQuorum
		}
		if o.DemocracyWeight != nil {
			next.Voting.DemocracyWeight = *o.DemocracyWeight
		}
		if o.ParticipationWeight != nil {
			next.Voting.ParticipationWeight = *o.ParticipationWeight
		}
		if o.QuadraticEnabled != nil {
			next.Voting.QuadraticEnabled = *o.QuadraticEnabled
		}
	}
	if s.Quorum != nil {
		next.Voting.HybridQuorum = *s.Quorum
		next.Voting.DDQuorum = *s.Quorum
	}
	if s.Features != nil {
		if s.Features.EducationHubEnabled != nil {
			next.Features.EducationHubEnabled = *s.Features.EducationHubEnabled
		}
		if s.Features.ElectionHubEnabled != nil {
			next.Features.ElectionHubEnabled = *s.Features.ElectionHubEnabled
		}
	}
	for key, roles := range s.Permissions {
		if !validPermissionKey(key) {
			return d, ErrUnknownPermission
		}
		next.Permissions[key] = append([]int{}, roles...)
	}
	next.TemplateJourney.MatchedVariation = &act.Variation
	next.TemplateJourney.VariationConfirmed = true
	return next, nil
}

func reduceSetPowerBundle(d *model.Draft, act SetPowerBundle) (*model.Draft, error) {
	if !validBundle(act.Bundle) {
		return d, ErrUnknownBundle
	}
	for _, r := range act.Roles {
		if r < 0 || r >= len(d.Roles) {
			return d, ErrIndexOutOfRange
		}
	}
	next := d.Clone()
	roles := lo.Uniq(act.Roles)
	sort.Ints(roles)
	next.Philosophy.PowerBundles[act.Bundle] = roles
	return next, nil
}

func reduceTogglePowerBundle(d *model.Draft, act TogglePowerBundle) (*model.Draft, error) {
	if !validBundle(act.Bundle) {
		return d, ErrUnknownBundle
	}
	if act.Role < 0 || act.Role >= len(d.Roles) {
		return d, ErrIndexOutOfRange
	}
	next := d.Clone()
	cur := next.Philosophy.PowerBundles[act.Bundle]
	if lo.Contains(cur, act.Role) {
		next.Philosophy.PowerBundles[act.Bundle] = lo.Without(cur, act.Role)
	} else {
		cur = append(cur, act.Role)
		sort.Ints(cur)
		next.Philosophy.PowerBundles[act.Bundle] = cur
	}
	return next, nil
}

// reduceApplyPhilosophy expands the bundles into the nine permission
// arrays and reshapes the voting classes for the slider bucket.
func reduceApplyPhilosophy(d *model.Draft, ids model.IDSource) (*model.Draft, error) {
	next := d.Clone()
	next.Permissions = philosophy.ExpandBundles(d.Philosophy.PowerBundles)
	bucket := philosophy.Bucket(d.Philosophy.Slider)
	next.Voting = philosophy.VotingForBucket(ids, bucket, d.Voting, d.Roles)
	return next, nil
}

func applyOrgPatch(org *model.Organization, p OrganizationPatch) {
	if p.Name != nil {
		org.Name = *p.Name
	}
	if p.Description != nil {
		org.Description = *p.Description
	}
	if p.LogoHandle != nil {
		org.LogoHandle = *p.LogoHandle
	}
	if p.MetadataHandle != nil {
		org.MetadataHandle = *p.MetadataHandle
	}
	if p.Username != nil {
		org.Username = *p.Username
	}
	if p.AutoUpgrade != nil {
		org.AutoUpgrade = *p.AutoUpgrade
	}
}

func validBundle(b model.Bundle) bool {
	return b == model.BundleAdmin || b == model.BundleMember || b == model.BundleCreator
}

func validPermissionKey(key model.PermissionKey) bool {
	return lo.Contains(model.PermissionKeys, key)
}

func clampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
