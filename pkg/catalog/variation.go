package catalog

import (
	"errors"
)

// ErrVariationNotFound reports a lookup of an undeclared variation.
var ErrVariationNotFound = errors.New("catalog: variation not found")

// MatchResult is the outcome of scoring one variation.
type MatchResult struct {
	Matches bool `json:"matches"`
	Score   int  `json:"score"`
}

// MatchVariation scores a variation against the discovery answers.
// An answered, matching condition scores one point; an answered,
// non-matching condition fails the variation; unanswered conditions
// are skipped. A variation without conditions always matches at 0.
func MatchVariation(v *Variation, answers map[string]any) MatchResult {
	score := 0
	for questionID, pred := range v.conditions {
		answer, answered := answers[questionID]
		if !answered {
			continue
		}
		if !pred.Match(answer) {
			return MatchResult{Matches: false, Score: 0}
		}
		score++
	}
	return MatchResult{Matches: true, Score: score}
}

// BestVariation returns the maximum-score matching variation. Ties
// resolve to the first declared variation; the declared default is the
// last resort, so the result is always defined for a well-formed
// template.
func BestVariation(t *Template, answers map[string]any) (key string, score int) {
	key = DefaultVariationKey
	best := -1
	for i := range t.Variations {
		v := &t.Variations[i]
		res := MatchVariation(v, answers)
		if !res.Matches {
			continue
		}
		if res.Score > best {
			best = res.Score
			key = v.Key
		}
	}
	if best < 0 {
		return DefaultVariationKey, 0
	}
	return key, best
}

// ApplyVariationSettings deep-merges a variation's partial overrides
// onto the template defaults and returns the merged copy. Applying the
// same variation twice yields the same result as applying it once.
func ApplyVariationSettings(t *Template, key string) (*Defaults, error) {
	v, err := t.Variation(key)
	if err != nil {
		return nil, err
	}
	out := t.Defaults.Clone()
	MergeSettings(out, &v.Settings)
	return out, nil
}

// MergeSettings applies the partial overrides in place.
func MergeSettings(d *Defaults, s *Settings) {
	if s.Voting != nil {
		o := s.Voting
		if o.Mode != nil {
			d.Voting.Mode = *o.Mode
		}
		if o.HybridQuorum != nil {
			d.Voting.HybridQuorum = *o.HybridQuorum
		}
		if o.DDQuorum != nil {
			d.Voting.DDQuorum = *o.DDQuorum
		}
		if o.DemocracyWeight != nil {
			d.Voting.DemocracyWeight = *o.DemocracyWeight
		}
		if o.ParticipationWeight != nil {
			d.Voting.ParticipationWeight = *o.ParticipationWeight
		}
		if o.QuadraticEnabled != nil {
			d.Voting.QuadraticEnabled = *o.QuadraticEnabled
		}
	}
	if s.Quorum != nil {
		// quorum fans out to every quorum value of the voting block
		d.Voting.HybridQuorum = *s.Quorum
		d.Voting.DDQuorum = *s.Quorum
	}
	if s.Features != nil {
		if s.Features.EducationHubEnabled != nil {
			d.Features.EducationHubEnabled = *s.Features.EducationHubEnabled
		}
		if s.Features.ElectionHubEnabled != nil {
			d.Features.ElectionHubEnabled = *s.Features.ElectionHubEnabled
		}
	}
	for key, roles := range s.Permissions {
		d.Permissions[key] = append([]int{}, roles...)
	}
}

// Variation looks up a declared variation by key.
func (t *Template) Variation(key string) (*Variation, error) {
	for i := range t.Variations {
		if t.Variations[i].Key == key {
			return &t.Variations[i], nil
		}
	}
	return nil, ErrVariationNotFound
}
