package engine

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownAction reports a wire action type outside the closed set.
var ErrUnknownAction = errors.New("engine: unknown action type")

// Envelope is the wire form of a dispatched action.
type Envelope struct {
	Type    string          `json:"type" binding:"required"`
	Payload json.RawMessage `json:"payload"`
}

// decoders maps wire names to payload constructors. Payload-less
// actions tolerate a missing or empty payload.
var decoders = map[string]func(json.RawMessage) (Action, error){
	"SET_STEP":                       decodeInto[SetStep],
	"NEXT_STEP":                      decodeEmpty[NextStep],
	"PREV_STEP":                      decodeEmpty[PrevStep],
	"SET_UI_MODE":                    decodeInto[SetUIMode],
	"SELECT_TEMPLATE":                decodeInto[SelectTemplate],
	"APPLY_TEMPLATE":                 decodeInto[ApplyTemplate],
	"CLEAR_TEMPLATE":                 decodeEmpty[ClearTemplate],
	"TOGGLE_GUIDANCE":                decodeEmpty[ToggleGuidance],
	"EXPAND_SECTION":                 decodeInto[ExpandSection],
	"COLLAPSE_SECTION":               decodeInto[CollapseSection],
	"SET_DISCOVERY_ANSWER":           decodeInto[SetDiscoveryAnswer],
	"SET_SELF_ASSESSMENT_ANSWER":     decodeInto[SetSelfAssessmentAnswer],
	"SET_MATCHED_VARIATION":          decodeInto[SetMatchedVariation],
	"CONFIRM_VARIATION":              decodeEmpty[ConfirmVariation],
	"NEXT_DISCOVERY_QUESTION":        decodeEmpty[NextDiscoveryQuestion],
	"PREV_DISCOVERY_QUESTION":        decodeEmpty[PrevDiscoveryQuestion],
	"RESET_TEMPLATE_JOURNEY":         decodeEmpty[ResetTemplateJourney],
	"APPLY_VARIATION":                decodeInto[ApplyVariation],
	"SET_PHILOSOPHY_SLIDER":          decodeInto[SetPhilosophySlider],
	"SET_POWER_BUNDLE":               decodeInto[SetPowerBundle],
	"TOGGLE_POWER_BUNDLE":            decodeInto[TogglePowerBundle],
	"APPLY_PHILOSOPHY":               decodeEmpty[ApplyPhilosophy],
	"UPDATE_ORGANIZATION":            decodeInto[UpdateOrganization],
	"SET_LOGO":                       decodeInto[SetLogo],
	"SET_METADATA_HANDLE":            decodeInto[SetMetadataHandle],
	"ADD_LINK":                       decodeInto[AddLink],
	"REMOVE_LINK":                    decodeInto[RemoveLink],
	"UPDATE_LINK":                    decodeInto[UpdateLink],
	"ADD_ROLE":                       decodeInto[AddRole],
	"UPDATE_ROLE":                    decodeInto[UpdateRole],
	"REMOVE_ROLE":                    decodeInto[RemoveRole],
	"REORDER_ROLES":                  decodeInto[ReorderRoles],
	"UPDATE_ROLE_HIERARCHY":          decodeInto[UpdateRoleHierarchy],
	"UPDATE_ROLE_VOUCHING":           decodeInto[UpdateRoleVouching],
	"UPDATE_ROLE_DISTRIBUTION":       decodeInto[UpdateRoleDistribution],
	"UPDATE_ROLE_HAT_CONFIG":         decodeInto[UpdateRoleHatConfig],
	"TOGGLE_PERMISSION":              decodeInto[TogglePermission],
	"SET_PERMISSION_ROLES":           decodeInto[SetPermissionRoles],
	"SET_ALL_PERMISSIONS_FOR_ROLE":   decodeInto[SetAllPermissionsForRole],
	"CLEAR_ALL_PERMISSIONS_FOR_ROLE": decodeInto[ClearAllPermissionsForRole],
	"SET_VOTING_MODE":                decodeInto[SetVotingMode],
	"SET_VOTING_QUORUM":              decodeInto[SetVotingQuorum],
	"UPDATE_VOTING":                  decodeInto[UpdateVoting],
	"ADD_VOTING_CLASS":               decodeEmpty[AddVotingClass],
	"UPDATE_VOTING_CLASS":            decodeInto[UpdateVotingClass],
	"REMOVE_VOTING_CLASS":            decodeInto[RemoveVotingClass],
	"TOGGLE_CLASS_LOCK":              decodeInto[ToggleClassLock],
	"APPLY_WEIGHT_PRESET":            decodeInto[ApplyWeightPreset],
	"SET_FEATURES":                   decodeInto[SetFeatures],
	"SET_ERRORS":                     decodeInto[SetErrors],
	"CLEAR_ERRORS":                   decodeEmpty[ClearErrors],
	"SET_DEPLOYMENT_STATUS":          decodeInto[SetDeploymentStatus],
	"RESET":                          decodeEmpty[Reset],
}

func decodeInto[T Action](raw json.RawMessage) (Action, error) {
	var a T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("engine: decode payload: %w", err)
		}
	}
	return a, nil
}

func decodeEmpty[T Action](json.RawMessage) (Action, error) {
	var a T
	return a, nil
}

// DecodeAction turns a wire envelope into a typed action.
func DecodeAction(env Envelope) (Action, error) {
	dec, ok := decoders[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, env.Type)
	}
	return dec(env.Payload)
}

// KnownActionTypes lists the wire names the decoder accepts.
func KnownActionTypes() []string {
	out := make([]string, 0, len(decoders))
	for t := range decoders {
		out = append(out, t)
	}
	return out
}
