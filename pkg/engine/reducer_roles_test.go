package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/orgforge-labs/orgforge/pkg/model"
)

func TestAddRole(t *testing.T) {
	d, ids := seedDraft(t)

	next := dispatch(t, d, ids, AddRole{})
	require.Len(t, next.Roles, 3)
	assert.Equal(t, "Role 3", next.Roles[2].Name)
	assert.False(t, next.Roles[2].Distribution.MintToDeployer)
	assert.Len(t, d.Roles, 2)

	next = dispatch(t, next, ids, AddRole{Name: ptr.To("Reviewer")})
	assert.Equal(t, "Reviewer", next.Roles[3].Name)

	for len(next.Roles) < model.MaxRoles {
		next = dispatch(t, next, ids, AddRole{})
	}
	_, err := Reduce(next, AddRole{}, ids)
	assert.ErrorIs(t, err, ErrTooManyRoles)
}

func TestUpdateRole(t *testing.T) {
	d, ids := seedDraft(t)
	next := dispatch(t, d, ids, UpdateRole{Index: 1, Patch: RolePatch{
		Name:    ptr.To("Council"),
		CanVote: ptr.To(false),
	}})
	assert.Equal(t, "Council", next.Roles[1].Name)
	assert.False(t, next.Roles[1].CanVote)
	assert.Equal(t, "Executive", d.Roles[1].Name)
}

// TestRemoveRoleCascade removes a middle role and checks that every
// index-bearing reference in the draft is rewritten around the gap.
func TestRemoveRoleCascade(t *testing.T) {
	d, ids := seedDraft(t)
	d = dispatch(t, d, ids, AddRole{Name: ptr.To("Scout")})
	require.Len(t, d.Roles, 3)

	d = dispatch(t, d, ids, UpdateRoleHierarchy{Index: 1, AdminRoleIndex: ptr.To(0)})
	d = dispatch(t, d, ids, UpdateRoleHierarchy{Index: 2, AdminRoleIndex: ptr.To(1)})
	d = dispatch(t, d, ids, UpdateRoleVouching{Index: 2, Patch: VouchingPatch{
		Enabled:          ptr.To(true),
		Quorum:           ptr.To(2),
		VoucherRoleIndex: ptr.To(1),
	}})
	d = dispatch(t, d, ids, SetPermissionRoles{Key: model.PermTaskCreator, Roles: []int{1, 2}})
	d = dispatch(t, d, ids, UpdateVotingClass{Index: 0, Patch: VotingClassPatch{
		HatIDs: ptr.To([]int{0, 1, 2}),
	}})
	d = dispatch(t, d, ids, SetPowerBundle{Bundle: model.BundleAdmin, Roles: []int{1}})

	next := dispatch(t, d, ids, RemoveRole{Index: 1})
	require.Len(t, next.Roles, 2)
	assert.Equal(t, "Scout", next.Roles[1].Name)

	// The removed role was the admin of Scout and its voucher.
	assert.Nil(t, next.Roles[1].Hierarchy.AdminRoleIndex)
	assert.False(t, next.Roles[1].Vouching.Enabled)
	assert.Zero(t, next.Roles[1].Vouching.VoucherRoleIndex)

	assert.Equal(t, []int{1}, next.Permissions[model.PermTaskCreator])
	assert.Equal(t, []int{0, 1}, next.Voting.Classes[0].HatIDs)
	assert.Empty(t, next.Philosophy.PowerBundles[model.BundleAdmin])

	// The prior snapshot is untouched.
	assert.Equal(t, []int{1, 2}, d.Permissions[model.PermTaskCreator])
}

func TestRemoveLastRole(t *testing.T) {
	d, ids := seedDraft(t)
	d = dispatch(t, d, ids, RemoveRole{Index: 1})
	_, err := Reduce(d, RemoveRole{Index: 0}, ids)
	assert.ErrorIs(t, err, ErrLastRole)
}

func TestReorderRoles(t *testing.T) {
	d, ids := seedDraft(t)
	d = dispatch(t, d, ids, AddRole{Name: ptr.To("Scout")})

	d = dispatch(t, d, ids, UpdateRoleHierarchy{Index: 2, AdminRoleIndex: ptr.To(0)})
	d = dispatch(t, d, ids, SetPermissionRoles{Key: model.PermDDCreator, Roles: []int{0, 1}})
	memberID := d.Roles[0].ID

	// [Member, Executive, Scout] -> [Executive, Scout, Member]
	next := dispatch(t, d, ids, ReorderRoles{From: 0, To: 2})
	require.Len(t, next.Roles, 3)
	assert.Equal(t, "Executive", next.Roles[0].Name)
	assert.Equal(t, "Scout", next.Roles[1].Name)
	assert.Equal(t, "Member", next.Roles[2].Name)
	assert.Equal(t, memberID, next.Roles[2].ID)

	// Scout still answers to Member at its new position.
	require.NotNil(t, next.Roles[1].Hierarchy.AdminRoleIndex)
	assert.Equal(t, 2, *next.Roles[1].Hierarchy.AdminRoleIndex)

	assert.Equal(t, []int{0, 2}, next.Permissions[model.PermDDCreator])

	same := dispatch(t, next, ids, ReorderRoles{From: 1, To: 1})
	assert.Same(t, next, same)
}

func TestHierarchyAcceptsCycles(t *testing.T) {
	d, ids := seedDraft(t)
	d = dispatch(t, d, ids, UpdateRoleHierarchy{Index: 0, AdminRoleIndex: ptr.To(1)})

	// Closing the loop is stored, not rejected; validation reports it.
	next := dispatch(t, d, ids, UpdateRoleHierarchy{Index: 1, AdminRoleIndex: ptr.To(0)})
	require.NotNil(t, next.Roles[1].Hierarchy.AdminRoleIndex)
	assert.True(t, HasCycles(next))
	onTeam := next.Clone()
	onTeam.CurrentStep = model.StepTeam
	assert.False(t, IsCurrentStepValid(onTeam))

	_, err := Reduce(next, UpdateRoleHierarchy{Index: 0, AdminRoleIndex: ptr.To(7)}, ids)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestHatConfig(t *testing.T) {
	d, ids := seedDraft(t)
	next := dispatch(t, d, ids, UpdateRoleHatConfig{Index: 0, Patch: HatConfigPatch{
		MaxSupply:  ptr.To(uint32(5)),
		MutableHat: ptr.To(false),
	}})
	assert.Equal(t, uint32(5), next.Roles[0].HatConfig.MaxSupply)
	assert.False(t, next.Roles[0].HatConfig.MutableHat)

	_, err := Reduce(next, UpdateRoleHatConfig{Index: 0, Patch: HatConfigPatch{
		MaxSupply: ptr.To(uint32(0)),
	}}, ids)
	assert.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestPermissionActions(t *testing.T) {
	d, ids := seedDraft(t)

	next := dispatch(t, d, ids, TogglePermission{Key: model.PermQuickJoin, Role: 1})
	assert.Equal(t, []int{0, 1}, next.Permissions[model.PermQuickJoin])

	next = dispatch(t, next, ids, TogglePermission{Key: model.PermQuickJoin, Role: 1})
	assert.Equal(t, []int{0}, next.Permissions[model.PermQuickJoin])

	_, err := Reduce(next, TogglePermission{Key: "invent", Role: 0}, ids)
	assert.ErrorIs(t, err, ErrUnknownPermission)

	next = dispatch(t, next, ids, SetAllPermissionsForRole{Role: 0})
	for _, key := range model.PermissionKeys {
		assert.Contains(t, next.Permissions[key], 0, string(key))
	}

	next = dispatch(t, next, ids, ClearAllPermissionsForRole{Role: 0})
	for _, key := range model.PermissionKeys {
		assert.NotContains(t, next.Permissions[key], 0, string(key))
	}
}
