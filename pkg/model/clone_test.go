package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"
)

func TestInitialState(t *testing.T) {
	d := InitialState(&SeqIDSource{Prefix: "m"})

	require.Len(t, d.Roles, 2)
	assert.Equal(t, "Member", d.Roles[0].Name)
	assert.True(t, d.Roles[0].Distribution.MintToDeployer)
	assert.False(t, d.Roles[1].Distribution.MintToDeployer)
	assert.Equal(t, "m-1", d.Roles[0].ID)

	assert.Len(t, d.Permissions, len(PermissionKeys))
	require.Len(t, d.Voting.Classes, 1)
	assert.Equal(t, 100, d.Voting.Classes[0].SlicePct)
	assert.Equal(t, []int{0, 1}, d.Voting.Classes[0].HatIDs)
	assert.Equal(t, 50, d.Philosophy.Slider)
	assert.Equal(t, StepTemplate, d.CurrentStep)
}

// TestDraftCloneIsolation mutates every shared structure of a clone
// and checks the original never moves.
func TestDraftCloneIsolation(t *testing.T) {
	d := InitialState(&SeqIDSource{Prefix: "m"})
	d.UI.SelectedTemplate = ptr.To("coop")
	d.Roles[0].Hierarchy.AdminRoleIndex = ptr.To(1)
	d.Organization.Links = []Link{{Name: "docs", URL: "https://example.org"}}
	d.Errors = map[string][]string{"roles": {"bad"}}
	d.Deployment.Error = ptr.To("boom")

	c := d.Clone()
	require.NotSame(t, d, c)

	*c.UI.SelectedTemplate = "club"
	c.UI.ExpandedSections["voting"] = true
	c.TemplateJourney.DiscoveryAnswers["teamSize"] = 8
	c.Philosophy.PowerBundles[BundleAdmin][0] = 0
	c.Organization.Links[0].URL = "https://evil.example"
	c.Roles[0].Name = "Mutated"
	*c.Roles[0].Hierarchy.AdminRoleIndex = 0
	c.Roles[0].Distribution.AdditionalWearers = append(c.Roles[0].Distribution.AdditionalWearers, "0x1")
	c.Permissions[PermQuickJoin][0] = 1
	c.Voting.Classes[0].HatIDs[0] = 9
	c.Errors["roles"][0] = "mutated"
	*c.Deployment.Error = "other"

	assert.Equal(t, "coop", *d.UI.SelectedTemplate)
	assert.Empty(t, d.UI.ExpandedSections)
	assert.Empty(t, d.TemplateJourney.DiscoveryAnswers)
	assert.Equal(t, []int{1}, d.Philosophy.PowerBundles[BundleAdmin])
	assert.Equal(t, "https://example.org", d.Organization.Links[0].URL)
	assert.Equal(t, "Member", d.Roles[0].Name)
	assert.Equal(t, 1, *d.Roles[0].Hierarchy.AdminRoleIndex)
	assert.Empty(t, d.Roles[0].Distribution.AdditionalWearers)
	assert.Equal(t, []int{0}, d.Permissions[PermQuickJoin])
	assert.Equal(t, []int{0, 1}, d.Voting.Classes[0].HatIDs)
	assert.Equal(t, []string{"bad"}, d.Errors["roles"])
	assert.Equal(t, "boom", *d.Deployment.Error)
}

func TestRoleClone(t *testing.T) {
	r := NewRole(&SeqIDSource{Prefix: "m"}, 0, "Member")
	r.Hierarchy.AdminRoleIndex = ptr.To(3)
	r.Distribution.AdditionalWearerUsernames = []string{"alice"}

	c := r.Clone()
	*c.Hierarchy.AdminRoleIndex = 0
	c.Distribution.AdditionalWearerUsernames[0] = "bob"

	assert.Equal(t, 3, *r.Hierarchy.AdminRoleIndex)
	assert.Equal(t, "alice", r.Distribution.AdditionalWearerUsernames[0])
}

func TestVotingClassClone(t *testing.T) {
	v := NewVotingClass(&SeqIDSource{Prefix: "m"}, 40)
	v.Asset = ptr.To("0xabc")
	v.HatIDs = []int{0, 2}

	c := v.Clone()
	*c.Asset = "0xdef"
	c.HatIDs[0] = 1

	assert.Equal(t, "0xabc", *v.Asset)
	assert.Equal(t, []int{0, 2}, v.HatIDs)
}
