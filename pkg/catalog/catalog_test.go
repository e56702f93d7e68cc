package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgforge-labs/orgforge/pkg/model"
	"github.com/orgforge-labs/orgforge/pkg/weights"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, c.IDs())

	for _, id := range c.IDs() {
		tpl, err := c.Get(id)
		require.NoError(t, err)

		assert.NotEmpty(t, tpl.Name, "%s has no name", id)
		assert.NotEmpty(t, tpl.Defaults.Roles, "%s has no roles", id)
		assert.Equal(t, 100, weights.Total(tpl.Defaults.Voting.Classes), "%s slices", id)

		// The nine permission keys are always populated after load.
		for _, key := range model.PermissionKeys {
			_, ok := tpl.Defaults.Permissions[key]
			assert.True(t, ok, "%s missing %s", id, key)
		}

		// A default variation with no conditions is mandatory.
		def, err := tpl.Variation(DefaultVariationKey)
		require.NoError(t, err, "%s has no default variation", id)
		assert.Empty(t, def.RawConditions)
	}
}

func TestGetUnknown(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	_, err = c.Get("no-such-template")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestDefaultsReturnsCopy(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	id := c.IDs()[0]

	d1, err := c.Defaults(id)
	require.NoError(t, err)
	d1.Roles[0].Name = "Mutated"

	d2, err := c.Defaults(id)
	require.NoError(t, err)
	assert.NotEqual(t, "Mutated", d2.Roles[0].Name)
}
