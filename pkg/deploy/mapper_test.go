package deploy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/orgforge-labs/orgforge/pkg/model"
)

// deployableDraft authors three roles out of hierarchy order on
// purpose: Guild answers to Council, Scout answers to Guild, so the
// deploy ordering is Council, Guild, Scout.
func deployableDraft() *model.Draft {
	ids := &model.SeqIDSource{Prefix: "d"}
	d := model.InitialState(ids)
	d.Organization.Name = "Guild Hall"
	d.Organization.Description = "A craft guild with a seasonal scout program."
	d.Roles = append(d.Roles, model.NewRole(ids, 2, "Scout"))

	d.Roles[0].Name = "Guild"
	d.Roles[0].Hierarchy.AdminRoleIndex = ptr.To(1)
	d.Roles[0].Distribution.AdditionalWearers = []string{"0xdead"}
	d.Roles[0].Distribution.AdditionalWearerUsernames = []string{"alice"}
	d.Roles[1].Name = "Council"
	d.Roles[2].Hierarchy.AdminRoleIndex = ptr.To(0)
	d.Roles[2].Vouching = model.Vouching{Enabled: true, Quorum: 2, VoucherRoleIndex: 0}

	d.Permissions = model.EmptyPermissions()
	d.Permissions[model.PermQuickJoin] = []int{1}
	d.Permissions[model.PermTaskCreator] = []int{0}
	d.Permissions[model.PermDDVoter] = []int{0, 1, 2}

	d.Voting.Classes[0].HatIDs = []int{0, 1, 2}
	return d
}

func completeInfra() Infrastructure {
	return Infrastructure{
		RegistryAddress: "0x0000000000000000000000000000000000000001",
		DeployerAddress: "0x0000000000000000000000000000000000000002",
		Beacons:         map[string]string{"org": "0x0000000000000000000000000000000000000003"},
	}
}

func fullResolution() Resolution {
	return Resolution{Resolved: map[string]string{"alice": "0xa11ce"}}
}

func TestBuild(t *testing.T) {
	d := deployableDraft()
	p, err := Build(d, completeInfra(), fullResolution())
	require.NoError(t, err)

	require.Len(t, p.Roles, 3)
	assert.Equal(t, "Council", p.Roles[0].Name)
	assert.Equal(t, "Guild", p.Roles[1].Name)
	assert.Equal(t, "Scout", p.Roles[2].Name)

	// Council is top level; the others point at deploy-order parents.
	assert.Equal(t, TopLevelAdmin, p.Roles[0].AdminIndex)
	assert.Equal(t, uint32(0), p.Roles[1].AdminIndex)
	assert.Equal(t, uint32(1), p.Roles[2].AdminIndex)

	// Scout's voucher is Guild, now at deploy position 1.
	assert.True(t, p.Roles[2].Vouching.Enabled)
	assert.Equal(t, 1, p.Roles[2].Vouching.VoucherIndex)

	// Addresses pass through, usernames are substituted.
	assert.Equal(t, []string{"0xdead", "0xa11ce"}, p.Roles[1].Dist.ResolvedWearers)

	// Bitmasks carry deploy-order bits.
	assert.Equal(t, uint32(0b001), p.Permissions[model.PermQuickJoin])
	assert.Equal(t, uint32(0b010), p.Permissions[model.PermTaskCreator])
	assert.Equal(t, uint32(0b111), p.Permissions[model.PermDDVoter])
	assert.Equal(t, uint32(0), p.Permissions[model.PermTokenApprover])

	require.Len(t, p.Voting.Classes, 1)
	assert.ElementsMatch(t, []int{0, 1, 2}, p.Voting.Classes[0].HatIDs)
	assert.Equal(t, 100, p.Voting.Classes[0].SlicePct)

	assert.Equal(t, "Guild Hall", p.Org.Name)

	// Build never touches the draft.
	assert.Equal(t, []int{0, 1, 2}, d.Voting.Classes[0].HatIDs)
	assert.Equal(t, []int{0, 1, 2}, d.Permissions[model.PermDDVoter])
}

func TestBuildRejections(t *testing.T) {
	t.Run("unresolved username", func(t *testing.T) {
		_, err := Build(deployableDraft(), completeInfra(), Resolution{Resolved: map[string]string{}})
		assert.ErrorIs(t, err, ErrUsernameUnresolved)
	})

	t.Run("directory misses", func(t *testing.T) {
		res := fullResolution()
		res.NotFound = []string{"bob"}
		_, err := Build(deployableDraft(), completeInfra(), res)
		assert.ErrorIs(t, err, ErrUsernameUnresolved)
	})

	t.Run("incomplete infrastructure", func(t *testing.T) {
		infra := completeInfra()
		infra.DeployerAddress = ""
		_, err := Build(deployableDraft(), infra, fullResolution())
		assert.ErrorIs(t, err, ErrInfrastructureMissing)
	})

	t.Run("invalid draft", func(t *testing.T) {
		d := deployableDraft()
		d.Organization.Name = ""
		_, err := Build(d, completeInfra(), fullResolution())
		assert.ErrorIs(t, err, ErrDraftInvalid)
	})

	t.Run("cyclic hierarchy", func(t *testing.T) {
		d := deployableDraft()
		d.Roles[1].Hierarchy.AdminRoleIndex = ptr.To(2)
		_, err := Build(d, completeInfra(), fullResolution())
		assert.ErrorIs(t, err, ErrDraftInvalid)
	})
}

func TestInfrastructureComplete(t *testing.T) {
	assert.True(t, completeInfra().Complete())
	assert.False(t, Infrastructure{}.Complete())

	infra := completeInfra()
	infra.Beacons = nil
	assert.False(t, infra.Complete())
}

func TestPendingUsernames(t *testing.T) {
	d := deployableDraft()
	d.Roles[2].Distribution.AdditionalWearerUsernames = []string{"alice", "bob"}
	assert.Equal(t, []string{"alice", "bob"}, PendingUsernames(d))

	fresh := model.InitialState(&model.SeqIDSource{Prefix: "d"})
	assert.Empty(t, PendingUsernames(fresh))
}
