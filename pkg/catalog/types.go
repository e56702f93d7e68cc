// Package catalog holds the immutable library of pre-authored
// organization blueprints: defaults, discovery questions, conditional
// variations and growth-path guidance. Templates are authored as
// embedded YAML and parsed once at startup.
package catalog

import (
	"encoding/json"

	"github.com/samber/lo"

	"github.com/orgforge-labs/orgforge/pkg/model"
)

// Question is one discovery question shown during template selection.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// PhilosophyText is the narrative block attached to a template.
type PhilosophyText struct {
	Essence               string `json:"essence"`
	KeyPrinciple          string `json:"keyPrinciple"`
	HistoricalContext     string `json:"historicalContext"`
	WhatHybridVotingMeans string `json:"whatHybridVotingMeans"`
}

// GrowthStage is one step of the template's growth path.
type GrowthStage struct {
	Stage       string `json:"stage"`
	Description string `json:"description"`
}

// Defaults is the concrete configuration a template seeds the draft
// with. Role and class ids are empty here; the reducer assigns fresh
// opaque ids on application.
type Defaults struct {
	Roles                []model.Role                  `json:"roles"`
	Permissions          map[model.PermissionKey][]int `json:"permissions"`
	Voting               model.Voting                  `json:"voting"`
	Features             model.Features                `json:"features"`
	GovernancePhilosophy model.GovernancePhilosophy    `json:"governancePhilosophy"`
}

// Clone returns a deep copy so callers can never mutate the catalog.
func (d *Defaults) Clone() *Defaults {
	c := &Defaults{
		Roles:                lo.Map(d.Roles, func(r model.Role, _ int) model.Role { return r.Clone() }),
		Permissions:          map[model.PermissionKey][]int{},
		Voting:               d.Voting.Clone(),
		Features:             d.Features,
		GovernancePhilosophy: d.GovernancePhilosophy,
	}
	for k, v := range d.Permissions {
		c.Permissions[k] = append([]int{}, v...)
	}
	return c
}

// VotingOverride is the partial voting block a variation may apply.
type VotingOverride struct {
	Mode                *model.VotingMode `json:"mode,omitempty"`
	HybridQuorum        *int              `json:"hybridQuorum,omitempty"`
	DDQuorum            *int              `json:"ddQuorum,omitempty"`
	DemocracyWeight     *int              `json:"democracyWeight,omitempty"`
	ParticipationWeight *int              `json:"participationWeight,omitempty"`
	QuadraticEnabled    *bool             `json:"quadraticEnabled,omitempty"`
}

// FeaturesOverride is the partial feature block a variation may apply.
type FeaturesOverride struct {
	EducationHubEnabled *bool `json:"educationHubEnabled,omitempty"`
	ElectionHubEnabled  *bool `json:"electionHubEnabled,omitempty"`
}

// Settings is the partial override payload of a variation. Unset
// fields leave the underlying configuration untouched. Quorum, when
// present, fans out to both quorum values of the voting block.
type Settings struct {
	Voting      *VotingOverride               `json:"voting,omitempty"`
	Quorum      *int                          `json:"quorum,omitempty"`
	Features    *FeaturesOverride             `json:"features,omitempty"`
	Permissions map[model.PermissionKey][]int `json:"permissions,omitempty"`
}

// Variation is a conditional partial override of a template's
// defaults, selected by matching discovery answers. Declaration order
// matters: score ties resolve to the first declared variation.
type Variation struct {
	Key           string                     `json:"key"`
	RawConditions map[string]json.RawMessage `json:"matchConditions,omitempty"`
	Settings      Settings                   `json:"settings"`

	// conditions are parsed once at catalog load time.
	conditions map[string]Predicate
}

// DefaultVariationKey names the unconditional fallback every template
// must declare.
const DefaultVariationKey = "default"

// Template is one immutable catalog entry.
type Template struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Icon               string         `json:"icon"`
	Tagline            string         `json:"tagline"`
	Philosophy         PhilosophyText `json:"philosophy"`
	Defaults           Defaults       `json:"defaults"`
	DiscoveryQuestions []Question     `json:"discoveryQuestions"`
	Variations         []Variation    `json:"variations"`
	GrowthPath         []GrowthStage  `json:"growthPath"`
	Pitfalls           []string       `json:"pitfalls"`
}
