package model

import "github.com/samber/lo"

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a deep copy of the role.
func (r Role) Clone() Role {
	c := r
	c.Hierarchy.AdminRoleIndex = clonePtr(r.Hierarchy.AdminRoleIndex)
	c.Distribution.AdditionalWearers = append([]string{}, r.Distribution.AdditionalWearers...)
	c.Distribution.AdditionalWearerUsernames = append([]string{}, r.Distribution.AdditionalWearerUsernames...)
	return c
}

// Clone returns a deep copy of the voting class.
func (v VotingClass) Clone() VotingClass {
	c := v
	c.Asset = clonePtr(v.Asset)
	c.HatIDs = append([]int{}, v.HatIDs...)
	return c
}

// Clone returns a deep copy of the voting block.
func (v Voting) Clone() Voting {
	c := v
	c.Classes = lo.Map(v.Classes, func(cl VotingClass, _ int) VotingClass { return cl.Clone() })
	return c
}

// Clone returns a deep snapshot of the draft. The reducer mutates only
// clones, so callers can hold previous snapshots safely.
func (d *Draft) Clone() *Draft {
	c := *d

	c.UI.SelectedTemplate = clonePtr(d.UI.SelectedTemplate)
	c.UI.ExpandedSections = lo.Assign(map[string]bool{}, d.UI.ExpandedSections)

	c.TemplateJourney.DiscoveryAnswers = lo.Assign(map[string]any{}, d.TemplateJourney.DiscoveryAnswers)
	c.TemplateJourney.SelfAssessmentAnswers = lo.Assign(map[string]any{}, d.TemplateJourney.SelfAssessmentAnswers)
	c.TemplateJourney.MatchedVariation = clonePtr(d.TemplateJourney.MatchedVariation)

	c.Philosophy.PowerBundles = make(map[Bundle][]int, len(d.Philosophy.PowerBundles))
	for b, idx := range d.Philosophy.PowerBundles {
		c.Philosophy.PowerBundles[b] = append([]int{}, idx...)
	}

	c.Organization.Links = append([]Link{}, d.Organization.Links...)

	c.Roles = lo.Map(d.Roles, func(r Role, _ int) Role { return r.Clone() })

	c.Permissions = make(map[PermissionKey][]int, len(d.Permissions))
	for k, idx := range d.Permissions {
		c.Permissions[k] = append([]int{}, idx...)
	}

	c.Voting = d.Voting.Clone()

	c.Deployment.Error = clonePtr(d.Deployment.Error)

	c.Errors = make(map[string][]string, len(d.Errors))
	for p, msgs := range d.Errors {
		c.Errors[p] = append([]string{}, msgs...)
	}
	return &c
}
