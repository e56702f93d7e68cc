package deploy

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/orgforge-labs/orgforge/pkg/bitmap"
	"github.com/orgforge-labs/orgforge/pkg/hierarchy"
	"github.com/orgforge-labs/orgforge/pkg/model"
	"github.com/orgforge-labs/orgforge/pkg/validation"
)

// Build maps a validated draft into the wire payload. Roles are emitted
// in deploy order (parents before children) and every role-index field
// is rewritten into that ordering. Usernames must already be resolved;
// any name missing from resolution fails the mapping.
func Build(d *model.Draft, infra Infrastructure, resolution Resolution) (*Payload, error) {
	if err := ValidateDeployment(d, infra, resolution); err != nil {
		return nil, err
	}

	order, cyclic := hierarchy.Flatten(d.Roles)
	if len(cyclic) > 0 {
		return nil, fmt.Errorf("%w: hierarchy contains a cycle", ErrDraftInvalid)
	}

	// deployIndex[author] = deploy-order position.
	deployIndex := make([]int, len(d.Roles))
	for pos, author := range order {
		deployIndex[author] = pos
	}

	roles := make([]RolePayload, len(order))
	for pos, author := range order {
		r := d.Roles[author]

		admin := TopLevelAdmin
		if r.Hierarchy.AdminRoleIndex != nil {
			admin = uint32(deployIndex[*r.Hierarchy.AdminRoleIndex])
		}

		wearers := append([]string{}, r.Distribution.AdditionalWearers...)
		for _, name := range r.Distribution.AdditionalWearerUsernames {
			addr, ok := resolution.Resolved[name]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUsernameUnresolved, name)
			}
			wearers = append(wearers, addr)
		}

		roles[pos] = RolePayload{
			Name:       r.Name,
			Image:      r.Image,
			AdminIndex: admin,
			MaxSupply:  r.HatConfig.MaxSupply,
			MutableHat: r.HatConfig.MutableHat,
			Eligible:   r.Defaults.Eligible,
			Standing:   r.Defaults.Standing,
			Vouching: VouchingPayload{
				Enabled:              r.Vouching.Enabled,
				Quorum:               r.Vouching.Quorum,
				VoucherIndex:         deployIndex[r.Vouching.VoucherRoleIndex],
				CombineWithHierarchy: r.Vouching.CombineWithHierarchy,
			},
			Dist: DistributionPayload{
				MintToDeployer:  r.Distribution.MintToDeployer,
				MintToExecutor:  r.Distribution.MintToExecutor,
				ResolvedWearers: wearers,
			},
		}
	}

	perms := make(map[model.PermissionKey]uint32, len(model.PermissionKeys))
	for _, key := range model.PermissionKeys {
		remapped := lo.Map(d.Permissions[key], func(i int, _ int) int { return deployIndex[i] })
		mask, err := bitmap.IndicesToBitmap(remapped, bitmap.Width)
		if err != nil {
			return nil, fmt.Errorf("permission %s: %w", key, err)
		}
		perms[key] = mask
	}

	classes := make([]VotingClassPayload, len(d.Voting.Classes))
	for i, c := range d.Voting.Classes {
		hats := lo.Map(c.HatIDs, func(h int, _ int) int { return deployIndex[h] })
		classes[i] = VotingClassPayload{
			Strategy:   c.Strategy,
			SlicePct:   c.SlicePct,
			Quadratic:  c.Quadratic,
			MinBalance: c.MinBalance,
			Asset:      c.Asset,
			HatIDs:     hats,
		}
	}

	return &Payload{
		Org: OrgPayload{
			Name:           d.Organization.Name,
			Description:    d.Organization.Description,
			MetadataHandle: d.Organization.MetadataHandle,
			LogoHandle:     d.Organization.LogoHandle,
			AutoUpgrade:    d.Organization.AutoUpgrade,
			TemplateTag:    d.Organization.TemplateTag,
			Username:       d.Organization.Username,
		},
		Roles:       roles,
		Permissions: perms,
		Voting: VotingPayload{
			Mode:         d.Voting.Mode,
			HybridQuorum: d.Voting.HybridQuorum,
			DDQuorum:     d.Voting.DDQuorum,
			Classes:      classes,
		},
		Features: d.Features,
	}, nil
}

// ValidateDeployment re-runs full draft validation and the extra
// launch-time checks the wire contract demands.
func ValidateDeployment(d *model.Draft, infra Infrastructure, resolution Resolution) error {
	res := validation.Launch(d)
	if !res.IsValid {
		return fmt.Errorf("%w: %v", ErrDraftInvalid, res.Errors)
	}
	if !infra.Complete() {
		return ErrInfrastructureMissing
	}

	if len(resolution.NotFound) > 0 {
		return fmt.Errorf("%w: %v", ErrUsernameUnresolved, resolution.NotFound)
	}
	for _, r := range d.Roles {
		for _, name := range r.Distribution.AdditionalWearerUsernames {
			if _, ok := resolution.Resolved[name]; !ok {
				return fmt.Errorf("%w: %q", ErrUsernameUnresolved, name)
			}
		}
	}
	return nil
}

// PendingUsernames lists every username the directory must resolve
// before Build can run.
func PendingUsernames(d *model.Draft) []string {
	var out []string
	for _, r := range d.Roles {
		out = append(out, r.Distribution.AdditionalWearerUsernames...)
	}
	return lo.Uniq(out)
}
