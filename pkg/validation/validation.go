// Package validation implements the per-step and global validators of
// the organization draft. Validators never mutate the draft; they
// report path-addressed messages the GUI renders next to each field.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/orgforge-labs/orgforge/pkg/hierarchy"
	"github.com/orgforge-labs/orgforge/pkg/model"
	"github.com/orgforge-labs/orgforge/pkg/weights"
)

// Result carries the validity flag and path-addressed messages.
type Result struct {
	IsValid bool                `json:"isValid"`
	Errors  map[string][]string `json:"errors"`
}

func newResult() Result {
	return Result{IsValid: true, Errors: map[string][]string{}}
}

func (r *Result) add(path, msg string) {
	r.IsValid = false
	r.Errors[path] = append(r.Errors[path], msg)
}

func (r *Result) merge(other Result) {
	for path, msgs := range other.Errors {
		r.Errors[path] = append(r.Errors[path], msgs...)
	}
	r.IsValid = r.IsValid && other.IsValid
}

var orgNamePattern = regexp.MustCompile(`^[A-Za-z0-9 \-_]+$`)

const (
	orgNameMax        = 100
	orgDescriptionMin = 10
	orgDescriptionMax = 5000
	usernameMax       = 32
	maxLinks          = 10
	linkNameMax       = 50
	roleNameMax       = 32
)

// Identity validates the organization identity step.
func Identity(d *model.Draft) Result {
	res := newResult()
	org := d.Organization

	switch {
	case org.Name == "":
		res.add("organization.name", "name is required")
	case utf8.RuneCountInString(org.Name) > orgNameMax:
		res.add("organization.name", fmt.Sprintf("name must be at most %d characters", orgNameMax))
	case !orgNamePattern.MatchString(org.Name):
		res.add("organization.name", "name may contain letters, digits, spaces, hyphens and underscores")
	}

	if n := utf8.RuneCountInString(org.Description); n < orgDescriptionMin || n > orgDescriptionMax {
		res.add("organization.description",
			fmt.Sprintf("description must be %d-%d characters", orgDescriptionMin, orgDescriptionMax))
	}

	if utf8.RuneCountInString(org.Username) > usernameMax {
		res.add("organization.username", fmt.Sprintf("username must be at most %d characters", usernameMax))
	}

	if len(org.Links) > maxLinks {
		res.add("organization.links", fmt.Sprintf("at most %d links", maxLinks))
	}
	for i, link := range org.Links {
		path := fmt.Sprintf("organization.links[%d]", i)
		if link.Name == "" || utf8.RuneCountInString(link.Name) > linkNameMax {
			res.add(path, fmt.Sprintf("link name must be 1-%d characters", linkNameMax))
		}
		if !validURL(link.URL) {
			res.add(path, "link url is not a valid http(s) url")
		}
	}
	return res
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Team validates roles, hierarchy, vouching and the permission matrix.
func Team(d *model.Draft) Result {
	res := newResult()
	roles := d.Roles

	if n := len(roles); n < 1 || n > model.MaxRoles {
		res.add("roles", fmt.Sprintf("role count must be 1-%d", model.MaxRoles))
	}

	seen := map[string]int{}
	for i, r := range roles {
		path := fmt.Sprintf("roles[%d]", i)
		switch {
		case r.Name == "":
			res.add(path+".name", "role name is required")
		case utf8.RuneCountInString(r.Name) > roleNameMax:
			res.add(path+".name", fmt.Sprintf("role name must be at most %d characters", roleNameMax))
		default:
			key := strings.ToLower(r.Name)
			if prev, dup := seen[key]; dup {
				res.add(path+".name", fmt.Sprintf("duplicate of role %d", prev))
			}
			seen[key] = i
		}
		if r.HatConfig.MaxSupply < 1 {
			res.add(path+".hatConfig.maxSupply", "max supply must be at least 1")
		}
		if r.Vouching.Enabled {
			if r.Vouching.Quorum < 1 {
				res.add(path+".vouching.quorum", "vouching quorum must be at least 1")
			}
			if v := r.Vouching.VoucherRoleIndex; v < 0 || v >= len(roles) {
				res.add(path+".vouching.voucherRoleIndex", "voucher role does not exist")
			}
		}
	}

	if h := hierarchy.Validate(roles); !h.IsValid {
		for _, msg := range h.Errors {
			if msg == "cycle" {
				res.add("hierarchy", "cycle")
			} else {
				res.add("hierarchy", msg)
			}
		}
	}

	res.merge(Permissions(d))
	return res
}

// Permissions checks that the matrix carries exactly the nine keys and
// references only existing roles.
func Permissions(d *model.Draft) Result {
	res := newResult()
	for _, key := range model.PermissionKeys {
		roles, ok := d.Permissions[key]
		if !ok {
			res.add("permissions."+string(key), "missing permission key")
			continue
		}
		for _, r := range roles {
			if r < 0 || r >= len(d.Roles) {
				res.add("permissions."+string(key), fmt.Sprintf("references role %d", r))
			}
		}
	}
	for key := range d.Permissions {
		if !knownPermission(key) {
			res.add("permissions."+string(key), "unknown permission key")
		}
	}
	return res
}

func knownPermission(key model.PermissionKey) bool {
	for _, k := range model.PermissionKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Governance validates the voting configuration.
func Governance(d *model.Draft) Result {
	res := newResult()
	v := d.Voting

	if n := len(v.Classes); n < 1 || n > model.MaxVotingClasses {
		res.add("voting.classes", fmt.Sprintf("class count must be 1-%d", model.MaxVotingClasses))
	}
	if len(v.Classes) > 0 {
		if total := weights.Total(v.Classes); total != 100 {
			res.add("voting.classes", fmt.Sprintf("slice percentages sum to %d, expected 100", total))
		}
	}
	for i, c := range v.Classes {
		path := fmt.Sprintf("voting.classes[%d]", i)
		if c.SlicePct < 1 || c.SlicePct > 100 {
			res.add(path+".slicePct", "slice must be 1-100")
		}
		if c.Quadratic && c.Strategy != model.StrategyTokenBal {
			res.add(path+".quadratic", "quadratic voting requires the token-balance strategy")
		}
		if c.MinBalance < 0 {
			res.add(path+".minBalance", "minimum balance must not be negative")
		}
		if c.Strategy == model.StrategyDirect {
			if len(c.HatIDs) == 0 {
				res.add(path+".hatIds", "direct classes need at least one role")
			}
			for _, r := range c.HatIDs {
				if r < 0 || r >= len(d.Roles) {
					res.add(path+".hatIds", fmt.Sprintf("references role %d", r))
				}
			}
		}
	}
	if v.HybridQuorum < 1 || v.HybridQuorum > 100 {
		res.add("voting.hybridQuorum", "quorum must be 1-100")
	}
	if v.DDQuorum < 1 || v.DDQuorum > 100 {
		res.add("voting.ddQuorum", "quorum must be 1-100")
	}
	return res
}

// Launch is the union of every step validator plus the payload-level
// requirements checked before deployment.
func Launch(d *model.Draft) Result {
	res := newResult()
	res.merge(Identity(d))
	res.merge(Team(d))
	res.merge(Governance(d))

	minted := false
	for _, r := range d.Roles {
		if r.Distribution.MintToDeployer {
			minted = true
			break
		}
	}
	if !minted {
		res.add("roles", "at least one role must mint to the deployer")
	}
	return res
}

// ForStep wires the appropriate validator to a wizard step. The
// template step has nothing to validate.
func ForStep(d *model.Draft, step model.Step) Result {
	switch step {
	case model.StepIdentity:
		return Identity(d)
	case model.StepTeam:
		return Team(d)
	case model.StepGovernance:
		return Governance(d)
	case model.StepLaunch:
		return Launch(d)
	default:
		return newResult()
	}
}
