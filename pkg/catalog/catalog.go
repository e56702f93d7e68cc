package catalog

import (
	"embed"
	"errors"
	"fmt"
	"sort"

	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"github.com/orgforge-labs/orgforge/pkg/model"
	"github.com/orgforge-labs/orgforge/pkg/weights"
)

//go:embed data/*.yaml
var dataFS embed.FS

// ErrTemplateNotFound reports a lookup of an unknown template id.
var ErrTemplateNotFound = errors.New("catalog: template not found")

// Catalog is the read-only template library, loaded once at startup.
type Catalog struct {
	templates map[string]*Template
	order     []string
}

// Load parses and validates every embedded template file.
func Load() (*Catalog, error) {
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("catalog: read embedded data: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	c := &Catalog{templates: map[string]*Template{}}
	for _, name := range names {
		raw, err := dataFS.ReadFile("data/" + name)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", name, err)
		}
		var t Template
		if err := yaml.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("catalog: parse %s: %w", name, err)
		}
		if err := prepare(&t); err != nil {
			return nil, fmt.Errorf("catalog: template %s: %w", name, err)
		}
		if _, dup := c.templates[t.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate template id %q", t.ID)
		}
		c.templates[t.ID] = &t
		c.order = append(c.order, t.ID)
		klog.V(2).Infof("Loaded template %q (%d variations)", t.ID, len(t.Variations))
	}
	if len(c.order) == 0 {
		return nil, errors.New("catalog: no templates embedded")
	}
	return c, nil
}

// prepare parses predicates and checks the template's internal
// consistency so runtime code can trust the catalog.
func prepare(t *Template) error {
	if t.ID == "" {
		return errors.New("missing id")
	}
	if n := len(t.Defaults.Roles); n < 1 || n > model.MaxRoles {
		return fmt.Errorf("role count %d out of range", n)
	}
	if t.Defaults.Permissions == nil {
		t.Defaults.Permissions = model.EmptyPermissions()
	}
	for key, roles := range t.Defaults.Permissions {
		if !validPermissionKey(key) {
			return fmt.Errorf("unknown permission key %q", key)
		}
		for _, r := range roles {
			if r < 0 || r >= len(t.Defaults.Roles) {
				return fmt.Errorf("permission %s references role %d", key, r)
			}
		}
	}
	for _, key := range model.PermissionKeys {
		if _, ok := t.Defaults.Permissions[key]; !ok {
			t.Defaults.Permissions[key] = []int{}
		}
	}
	if n := len(t.Defaults.Voting.Classes); n < 1 || n > model.MaxVotingClasses {
		return fmt.Errorf("voting class count %d out of range", n)
	}
	if total := weights.Total(t.Defaults.Voting.Classes); total != 100 {
		return fmt.Errorf("voting slices sum to %d", total)
	}

	hasDefault := false
	for i := range t.Variations {
		v := &t.Variations[i]
		if v.Key == DefaultVariationKey {
			hasDefault = true
			if len(v.RawConditions) != 0 {
				return errors.New("default variation must not declare conditions")
			}
		}
		v.conditions = make(map[string]Predicate, len(v.RawConditions))
		for q, raw := range v.RawConditions {
			p, err := ParsePredicate(raw)
			if err != nil {
				return fmt.Errorf("variation %q, question %q: %w", v.Key, q, err)
			}
			v.conditions[q] = p
		}
	}
	if !hasDefault {
		return errors.New("missing default variation")
	}
	return nil
}

func validPermissionKey(key model.PermissionKey) bool {
	for _, k := range model.PermissionKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the immutable template. Callers must not mutate it; use
// Defaults for a mutable copy.
func (c *Catalog) Get(id string) (*Template, error) {
	t, ok := c.templates[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return t, nil
}

// IDs lists template ids in catalog order.
func (c *Catalog) IDs() []string {
	return append([]string{}, c.order...)
}

// Templates returns the catalog entries in declaration order.
func (c *Catalog) Templates() []*Template {
	out := make([]*Template, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.templates[id])
	}
	return out
}

// Defaults returns a deep clone of the template defaults.
func (c *Catalog) Defaults(id string) (*Defaults, error) {
	t, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	return t.Defaults.Clone(), nil
}
