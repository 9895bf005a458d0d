// Package checklist holds the declarative definition of what a technical file
// must contain: components, their sub-checklists with spelling variants, the
// per-list thresholds and the extra numeric checks. A Catalog is read-only
// once loaded and may be shared by concurrent validations.
package checklist

import (
	"fmt"
	"regexp"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/goexpediente/internal/normalize"
)

// Item is one logical requirement. A single label is its own item; several
// labels form a variant group whose first label is the canonical key.
type Item []string

// UnmarshalYAML accepts either a scalar label or a sequence of variants.
func (it *Item) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*it = Item{n.Value}
		return nil
	case yaml.SequenceNode:
		var labels []string
		if err := n.Decode(&labels); err != nil {
			return err
		}
		*it = Item(labels)
		return nil
	}
	return fmt.Errorf("line %d: checklist item must be a label or a list of variants", n.Line)
}

// MarshalYAML writes singletons back as scalars.
func (it Item) MarshalYAML() (any, error) {
	if len(it) == 1 {
		return it[0], nil
	}
	return []string(it), nil
}

// Key is the canonical label of the item.
func (it Item) Key() string {
	if len(it) == 0 {
		return ""
	}
	return it[0]
}

// List is a named sub-checklist such as "memoria descriptiva" or "planos".
type List struct {
	Key     string `yaml:"key" json:"key"`
	Title   string `yaml:"title" json:"title"`
	Missing string `yaml:"missing" json:"missing"`
	Min     int    `yaml:"min" json:"min"`
	Items   []Item `yaml:"items" json:"items"`
}

// Labels returns every label of the list in declaration order.
func (l List) Labels() []string {
	out := make([]string, 0, len(l.Items))
	for _, it := range l.Items {
		out = append(out, it...)
	}
	return out
}

// Groups returns the variant groups, i.e. items with more than one label.
func (l List) Groups() [][]string {
	var out [][]string
	for _, it := range l.Items {
		if len(it) > 1 {
			out = append(out, []string(it))
		}
	}
	return out
}

// LogicalCount is the number of distinct requirements after variant folding.
func (l List) LogicalCount() int { return len(l.Items) }

// CountCheck extracts integers with the given patterns, keeps the largest and
// compares it with Min.
type CountCheck struct {
	Patterns []string `yaml:"patterns" json:"patterns"`
	Min      int      `yaml:"min" json:"min"`
	Message  string   `yaml:"message" json:"message"`
}

// DateCheck looks for a recent date once the certificate item of List is
// present. Pattern runs over the original, non-normalized text.
type DateCheck struct {
	List       string `yaml:"list" json:"list"`
	Item       string `yaml:"item" json:"item"`
	Pattern    string `yaml:"pattern" json:"pattern"`
	WindowDays int    `yaml:"windowDays" json:"windowDays"`
	Missing    string `yaml:"missing" json:"missing"`
	Stale      string `yaml:"stale" json:"stale"`
}

// TokenCheck tests literal membership of each token in the normalized text.
type TokenCheck struct {
	Tokens  []string `yaml:"tokens" json:"tokens"`
	Min     int      `yaml:"min" json:"min"`
	Message string   `yaml:"message" json:"message"`
}

// CaptionCheck counts caption markers; any hit marks Item of List as present.
type CaptionCheck struct {
	Patterns []string `yaml:"patterns" json:"patterns"`
	List     string   `yaml:"list" json:"list"`
	Item     string   `yaml:"item" json:"item"`
	Message  string   `yaml:"message" json:"message"`
}

// Advisory emits Message as a warning when Item of List is absent.
type Advisory struct {
	List    string `yaml:"list" json:"list"`
	Item    string `yaml:"item" json:"item"`
	Message string `yaml:"message" json:"message"`
}

// Checks groups the optional extra checks of a component.
type Checks struct {
	Photos      *CountCheck   `yaml:"photos,omitempty" json:"photos,omitempty"`
	Points      *CountCheck   `yaml:"points,omitempty" json:"points,omitempty"`
	Calibration *DateCheck    `yaml:"calibration,omitempty" json:"calibration,omitempty"`
	Scales      *TokenCheck   `yaml:"scales,omitempty" json:"scales,omitempty"`
	Codes       *TokenCheck   `yaml:"codes,omitempty" json:"codes,omitempty"`
	References  *TokenCheck   `yaml:"references,omitempty" json:"references,omitempty"`
	Captions    *CaptionCheck `yaml:"captions,omitempty" json:"captions,omitempty"`
	Advisories  []Advisory    `yaml:"advisories,omitempty" json:"advisories,omitempty"`
}

// Component is one deliverable part of the technical file.
type Component struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Rule   string `yaml:"rule" json:"rule"`
	Lists  []List `yaml:"lists" json:"lists"`
	Checks Checks `yaml:"checks" json:"checks"`
}

// List returns the sub-checklist with the given key.
func (c Component) List(key string) (List, bool) {
	for _, l := range c.Lists {
		if l.Key == key {
			return l, true
		}
	}
	return List{}, false
}

// logicalCount adds the item synthesized from caption markers when it is not
// already part of the list.
func (c Component) logicalCount(l List) int {
	n := l.LogicalCount()
	cc := c.Checks.Captions
	if cc == nil || cc.List != l.Key || cc.Item == "" {
		return n
	}
	for _, it := range l.Items {
		if it.Key() == cc.Item {
			return n
		}
	}
	return n + 1
}

// Catalog is a complete checklist for one kind of deliverable.
type Catalog struct {
	Name       string      `yaml:"name" json:"name"`
	Title      string      `yaml:"title" json:"title"`
	Components []Component `yaml:"components" json:"components"`
}

// Component returns the component with the given id.
func (c *Catalog) Component(id string) (Component, bool) {
	for _, comp := range c.Components {
		if comp.ID == id {
			return comp, true
		}
	}
	return Component{}, false
}

// Check verifies the structural invariants of the catalog: every label
// belongs to at most one variant group of its list, thresholds never exceed
// the number of logical items, and references between checks and lists
// resolve.
func (c *Catalog) Check() error {
	if c == nil {
		return fmt.Errorf("catalog: nil")
	}
	if len(c.Components) == 0 {
		return fmt.Errorf("catalog %q: no components", c.Name)
	}
	ids := map[string]struct{}{}
	for _, comp := range c.Components {
		if comp.ID == "" {
			return fmt.Errorf("catalog %q: component without id", c.Name)
		}
		if _, dup := ids[comp.ID]; dup {
			return fmt.Errorf("catalog %q: duplicate component %q", c.Name, comp.ID)
		}
		ids[comp.ID] = struct{}{}
		if err := comp.check(); err != nil {
			return fmt.Errorf("catalog %q: %w", c.Name, err)
		}
	}
	return nil
}

func (comp Component) check() error {
	if len(comp.Lists) == 0 {
		return fmt.Errorf("component %s: no lists", comp.ID)
	}
	keys := map[string]struct{}{}
	for _, l := range comp.Lists {
		if _, dup := keys[l.Key]; dup {
			return fmt.Errorf("component %s: duplicate list %q", comp.ID, l.Key)
		}
		keys[l.Key] = struct{}{}
		if l.Min < 0 || l.Min > comp.logicalCount(l) {
			return fmt.Errorf("component %s: list %s requires %d of %d items", comp.ID, l.Key, l.Min, comp.logicalCount(l))
		}
		// Two labels that normalize to the same text inside one list would be
		// counted twice unless they share a group.
		seen := map[string]string{}
		for _, it := range l.Items {
			if len(it) == 0 {
				return fmt.Errorf("component %s: list %s has an empty item", comp.ID, l.Key)
			}
			for _, label := range it {
				n := normalize.Text(label)
				if n == "" {
					return fmt.Errorf("component %s: list %s has a blank label", comp.ID, l.Key)
				}
				if owner, ok := seen[n]; ok {
					if owner != it.Key() {
						return fmt.Errorf("component %s: label %q appears in more than one item of %s", comp.ID, label, l.Key)
					}
					continue
				}
				seen[n] = it.Key()
			}
		}
	}
	ref := func(list, item string) error {
		l, ok := comp.List(list)
		if !ok {
			return fmt.Errorf("component %s: unknown list %q", comp.ID, list)
		}
		for _, it := range l.Items {
			if it.Key() == item {
				return nil
			}
		}
		return fmt.Errorf("component %s: list %s has no item %q", comp.ID, list, item)
	}
	if cal := comp.Checks.Calibration; cal != nil {
		if err := ref(cal.List, cal.Item); err != nil {
			return err
		}
		if cal.WindowDays <= 0 {
			return fmt.Errorf("component %s: calibration window must be positive", comp.ID)
		}
	}
	if cc := comp.Checks.Captions; cc != nil && cc.Item != "" {
		if _, ok := comp.List(cc.List); !ok {
			return fmt.Errorf("component %s: unknown list %q", comp.ID, cc.List)
		}
	}
	for _, adv := range comp.Checks.Advisories {
		if err := ref(adv.List, adv.Item); err != nil {
			return err
		}
	}
	var patterns []string
	for _, cc := range []*CountCheck{comp.Checks.Photos, comp.Checks.Points} {
		if cc != nil {
			patterns = append(patterns, cc.Patterns...)
		}
	}
	if cc := comp.Checks.Captions; cc != nil {
		patterns = append(patterns, cc.Patterns...)
	}
	if cal := comp.Checks.Calibration; cal != nil {
		patterns = append(patterns, cal.Pattern)
	}
	for _, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("component %s: pattern %q: %w", comp.ID, p, err)
		}
	}
	for name, tc := range map[string]*TokenCheck{"scales": comp.Checks.Scales, "codes": comp.Checks.Codes, "references": comp.Checks.References} {
		if tc != nil && tc.Min > len(tc.Tokens) {
			return fmt.Errorf("component %s: %s requires %d of %d tokens", comp.ID, name, tc.Min, len(tc.Tokens))
		}
	}
	return nil
}
