package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/orgforge-labs/orgforge/pkg/model"
)

func validDraft() *model.Draft {
	d := model.InitialState(&model.SeqIDSource{Prefix: "id"})
	d.Organization.Name = "Garden Collective"
	d.Organization.Description = "A cooperative of neighborhood gardeners."
	return d
}

func TestIdentity(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		res := Identity(validDraft())
		assert.True(t, res.IsValid)
		assert.Empty(t, res.Errors)
	})

	t.Run("name required", func(t *testing.T) {
		d := validDraft()
		d.Organization.Name = ""
		res := Identity(d)
		assert.False(t, res.IsValid)
		assert.Contains(t, res.Errors, "organization.name")
	})

	t.Run("name charset", func(t *testing.T) {
		d := validDraft()
		d.Organization.Name = "no/slashes"
		res := Identity(d)
		assert.Contains(t, res.Errors, "organization.name")
	})

	t.Run("name length", func(t *testing.T) {
		d := validDraft()
		d.Organization.Name = strings.Repeat("a", 101)
		res := Identity(d)
		assert.Contains(t, res.Errors, "organization.name")
	})

	t.Run("description bounds", func(t *testing.T) {
		d := validDraft()
		d.Organization.Description = "too short"
		res := Identity(d)
		assert.Contains(t, res.Errors, "organization.description")
	})

	t.Run("lengths count runes not bytes", func(t *testing.T) {
		// 8 runes is still below the 10-character description minimum.
		d := validDraft()
		d.Organization.Description = strings.Repeat("花", 8)
		res := Identity(d)
		assert.Contains(t, res.Errors, "organization.description")

		d = validDraft()
		d.Organization.Links = []model.Link{
			{Name: strings.Repeat("ø", 50), URL: "https://example.org"},
		}
		res = Identity(d)
		assert.True(t, res.IsValid, "%v", res.Errors)
	})

	t.Run("links", func(t *testing.T) {
		d := validDraft()
		d.Organization.Links = []model.Link{
			{Name: "docs", URL: "https://example.org/docs"},
			{Name: "", URL: "ftp://example.org"},
		}
		res := Identity(d)
		assert.False(t, res.IsValid)
		assert.NotContains(t, res.Errors, "organization.links[0]")
		assert.Len(t, res.Errors["organization.links[1]"], 2)
	})
}

func TestTeam(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		res := Team(validDraft())
		assert.True(t, res.IsValid)
	})

	t.Run("duplicate names fold case", func(t *testing.T) {
		d := validDraft()
		d.Roles[1].Name = "MEMBER"
		res := Team(d)
		assert.Contains(t, res.Errors, "roles[1].name")
	})

	t.Run("role name counts runes not bytes", func(t *testing.T) {
		// 20 runes, 60 bytes: within the 32-character limit.
		d := validDraft()
		d.Roles[0].Name = strings.Repeat("花", 20)
		res := Team(d)
		assert.True(t, res.IsValid, "%v", res.Errors)
	})

	t.Run("max supply", func(t *testing.T) {
		d := validDraft()
		d.Roles[0].HatConfig.MaxSupply = 0
		res := Team(d)
		assert.Contains(t, res.Errors, "roles[0].hatConfig.maxSupply")
	})

	t.Run("vouching references", func(t *testing.T) {
		d := validDraft()
		d.Roles[0].Vouching = model.Vouching{Enabled: true, Quorum: 0, VoucherRoleIndex: 9}
		res := Team(d)
		assert.Contains(t, res.Errors, "roles[0].vouching.quorum")
		assert.Contains(t, res.Errors, "roles[0].vouching.voucherRoleIndex")
	})

	t.Run("hierarchy cycle", func(t *testing.T) {
		d := validDraft()
		d.Roles[0].Hierarchy.AdminRoleIndex = ptr.To(1)
		d.Roles[1].Hierarchy.AdminRoleIndex = ptr.To(0)
		res := Team(d)
		assert.Contains(t, res.Errors["hierarchy"], "cycle")
	})
}

func TestPermissions(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		d := validDraft()
		delete(d.Permissions, model.PermDDVoter)
		res := Permissions(d)
		assert.Contains(t, res.Errors, "permissions.ddVoter")
	})

	t.Run("dangling role", func(t *testing.T) {
		d := validDraft()
		d.Permissions[model.PermTaskCreator] = []int{5}
		res := Permissions(d)
		assert.Contains(t, res.Errors, "permissions.taskCreator")
	})

	t.Run("unknown key", func(t *testing.T) {
		d := validDraft()
		d.Permissions["superuser"] = []int{0}
		res := Permissions(d)
		assert.Contains(t, res.Errors, "permissions.superuser")
	})
}

func TestGovernance(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		res := Governance(validDraft())
		assert.True(t, res.IsValid)
	})

	t.Run("slice total", func(t *testing.T) {
		d := validDraft()
		d.Voting.Classes[0].SlicePct = 90
		res := Governance(d)
		assert.Contains(t, res.Errors, "voting.classes")
	})

	t.Run("quadratic needs token balance", func(t *testing.T) {
		d := validDraft()
		d.Voting.Classes[0].Quadratic = true
		res := Governance(d)
		assert.Contains(t, res.Errors, "voting.classes[0].quadratic")
	})

	t.Run("direct class needs roles", func(t *testing.T) {
		d := validDraft()
		d.Voting.Classes[0].HatIDs = []int{}
		res := Governance(d)
		assert.Contains(t, res.Errors, "voting.classes[0].hatIds")
	})

	t.Run("quorum bounds", func(t *testing.T) {
		d := validDraft()
		d.Voting.HybridQuorum = 0
		d.Voting.DDQuorum = 101
		res := Governance(d)
		assert.Contains(t, res.Errors, "voting.hybridQuorum")
		assert.Contains(t, res.Errors, "voting.ddQuorum")
	})
}

func TestLaunch(t *testing.T) {
	t.Run("valid draft is deployable", func(t *testing.T) {
		res := Launch(validDraft())
		assert.True(t, res.IsValid)
		assert.Empty(t, res.Errors)
	})

	t.Run("requires a deployer mint", func(t *testing.T) {
		d := validDraft()
		for i := range d.Roles {
			d.Roles[i].Distribution.MintToDeployer = false
		}
		res := Launch(d)
		assert.Contains(t, res.Errors["roles"], "at least one role must mint to the deployer")
	})

	t.Run("aggregates step errors", func(t *testing.T) {
		d := validDraft()
		d.Organization.Name = ""
		d.Voting.HybridQuorum = 0
		res := Launch(d)
		require.False(t, res.IsValid)
		assert.Contains(t, res.Errors, "organization.name")
		assert.Contains(t, res.Errors, "voting.hybridQuorum")
	})
}

func TestForStep(t *testing.T) {
	d := validDraft()
	d.Organization.Name = ""

	assert.True(t, ForStep(d, model.StepTemplate).IsValid)
	assert.False(t, ForStep(d, model.StepIdentity).IsValid)
	assert.True(t, ForStep(d, model.StepTeam).IsValid)
	assert.True(t, ForStep(d, model.StepGovernance).IsValid)
	assert.False(t, ForStep(d, model.StepLaunch).IsValid)
}
