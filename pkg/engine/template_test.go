package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/orgforge-labs/orgforge/pkg/catalog"
	"github.com/orgforge-labs/orgforge/pkg/model"
	"github.com/orgforge-labs/orgforge/pkg/weights"
)

func TestApplyTemplate(t *testing.T) {
	c, err := catalog.Load()
	require.NoError(t, err)
	templateID := c.IDs()[0]
	defaults, err := c.Defaults(templateID)
	require.NoError(t, err)

	d, ids := seedDraft(t)
	d = dispatch(t, d, ids, SetDiscoveryAnswer{QuestionID: "teamSize", Value: 8})

	next := dispatch(t, d, ids, ApplyTemplate{TemplateID: templateID, Defaults: defaults})

	assert.True(t, next.UI.TemplateApplied)
	require.NotNil(t, next.UI.SelectedTemplate)
	assert.Equal(t, templateID, *next.UI.SelectedTemplate)
	assert.Equal(t, templateID, next.Organization.TemplateTag)

	// Identity and journey answers survive the overwrite.
	assert.Equal(t, "Garden Collective", next.Organization.Name)
	assert.Equal(t, 8, next.TemplateJourney.DiscoveryAnswers["teamSize"])

	assert.Len(t, next.Roles, len(defaults.Roles))
	assert.Equal(t, 100, weights.Total(next.Voting.Classes))
	for _, key := range model.PermissionKeys {
		assert.Contains(t, next.Permissions, key)
	}

	// Fresh ids, not the catalog's.
	for _, r := range next.Roles {
		assert.NotEmpty(t, r.ID)
	}

	t.Run("missing defaults rejected", func(t *testing.T) {
		same, err := Reduce(next, ApplyTemplate{TemplateID: templateID}, ids)
		assert.ErrorIs(t, err, ErrMissingDefaults)
		assert.Same(t, next, same)
	})

	t.Run("clear template", func(t *testing.T) {
		cleared := dispatch(t, next, ids, ClearTemplate{})
		assert.Nil(t, cleared.UI.SelectedTemplate)
		assert.False(t, cleared.UI.TemplateApplied)
		assert.Empty(t, cleared.Organization.TemplateTag)
	})
}

func TestApplyVariation(t *testing.T) {
	c, err := catalog.Load()
	require.NoError(t, err)
	templateID := c.IDs()[0]
	defaults, err := c.Defaults(templateID)
	require.NoError(t, err)

	d, ids := seedDraft(t)

	t.Run("requires an applied template", func(t *testing.T) {
		same, err := Reduce(d, ApplyVariation{
			Variation: "tight",
			Settings:  &catalog.Settings{Quorum: ptr.To(66)},
		}, ids)
		assert.ErrorIs(t, err, ErrTemplateNotApplied)
		assert.Same(t, d, same)
	})

	applied := dispatch(t, d, ids, ApplyTemplate{TemplateID: templateID, Defaults: defaults})

	t.Run("quorum fans out", func(t *testing.T) {
		next := dispatch(t, applied, ids, ApplyVariation{
			Variation: "tight",
			Settings:  &catalog.Settings{Quorum: ptr.To(66)},
		})
		assert.Equal(t, 66, next.Voting.HybridQuorum)
		assert.Equal(t, 66, next.Voting.DDQuorum)
		require.NotNil(t, next.TemplateJourney.MatchedVariation)
		assert.Equal(t, "tight", *next.TemplateJourney.MatchedVariation)
		assert.True(t, next.TemplateJourney.VariationConfirmed)
	})

	t.Run("unknown permission key rejected", func(t *testing.T) {
		same, err := Reduce(applied, ApplyVariation{
			Variation: "tight",
			Settings: &catalog.Settings{
				Permissions: map[model.PermissionKey][]int{"root": {0}},
			},
		}, ids)
		assert.ErrorIs(t, err, ErrUnknownPermission)
		assert.Same(t, applied, same)
	})
}

func TestSelectors(t *testing.T) {
	d, ids := seedDraft(t)

	assert.True(t, IsSimpleMode(d))
	assert.False(t, HasCycles(d))
	assert.Equal(t, 100, TotalSlicePercentage(d))
	assert.True(t, IsVotingClassesValid(d))
	assert.True(t, IsReadyToDeploy(d))

	_, ok := SelectedTemplate(d)
	assert.False(t, ok)

	next := dispatch(t, d, ids, SelectTemplate{TemplateID: "coop"})
	id, ok := SelectedTemplate(next)
	assert.True(t, ok)
	assert.Equal(t, "coop", id)

	assert.Equal(t, []model.PermissionKey{
		model.PermQuickJoin,
		model.PermTokenMember,
		model.PermEducationMember,
		model.PermDDVoter,
	}, PermissionsForRole(d, 0))

	status := StepValidationStatus(d)
	assert.Len(t, status, 5)
	assert.True(t, status["identity"])

	d.Organization.Name = ""
	assert.False(t, IsReadyToDeploy(d))
	assert.False(t, StepValidationStatus(d)["identity"])
}
