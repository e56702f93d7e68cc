package engine

import (
	"github.com/samber/lo"

	"github.com/orgforge-labs/orgforge/pkg/hierarchy"
	"github.com/orgforge-labs/orgforge/pkg/model"
	"github.com/orgforge-labs/orgforge/pkg/validation"
	"github.com/orgforge-labs/orgforge/pkg/weights"
)

// Selectors are pure reads over an immutable draft. Handlers use them
// to answer derived-state queries without mutating anything.

func IsSimpleMode(d *model.Draft) bool {
	return d.UI.Mode == model.ModeSimple
}

func SelectedTemplate(d *model.Draft) (string, bool) {
	if d.UI.SelectedTemplate == nil {
		return "", false
	}
	return *d.UI.SelectedTemplate, true
}

func HasCycles(d *model.Draft) bool {
	return hierarchy.HasCycles(d.Roles)
}

func TotalSlicePercentage(d *model.Draft) int {
	return weights.Total(d.Voting.Classes)
}

func IsVotingClassesValid(d *model.Draft) bool {
	n := len(d.Voting.Classes)
	if n < 1 || n > model.MaxVotingClasses {
		return false
	}
	return weights.Total(d.Voting.Classes) == 100
}

// PermissionsForRole inverts the permission matrix for one role.
func PermissionsForRole(d *model.Draft, role int) []model.PermissionKey {
	return lo.Filter(model.PermissionKeys, func(key model.PermissionKey, _ int) bool {
		return lo.Contains(d.Permissions[key], role)
	})
}

func IsCurrentStepValid(d *model.Draft) bool {
	return validation.ForStep(d, d.CurrentStep).IsValid
}

// StepValidationStatus reports validity per wizard step.
func StepValidationStatus(d *model.Draft) map[string]bool {
	out := make(map[string]bool, int(model.LastStep)+1)
	for s := model.FirstStep; s <= model.LastStep; s++ {
		out[s.String()] = validation.ForStep(d, s).IsValid
	}
	return out
}

// IsReadyToDeploy requires every step to pass validation.
func IsReadyToDeploy(d *model.Draft) bool {
	for s := model.FirstStep; s <= model.LastStep; s++ {
		if !validation.ForStep(d, s).IsValid {
			return false
		}
	}
	return true
}
