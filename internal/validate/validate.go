// Package validate applies the per-component checklist rules to one document
// and returns a Result for each component of a catalog. Validation is pure:
// the same text, catalog and reference time always produce the same results.
package validate

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hyperifyio/goexpediente/internal/checklist"
	"github.com/hyperifyio/goexpediente/internal/normalize"
)

var (
	// ErrExtractionFailed reports a document without usable text. No results
	// are produced for it.
	ErrExtractionFailed = errors.New("extraction failed: document has no text")
	// ErrUnknownRule reports a catalog component whose rule is not registered.
	ErrUnknownRule = errors.New("unknown validation rule")
)

// Document is the validation input. Raw is kept for patterns that depend on
// the original spelling, such as dates; Normalized feeds everything else.
type Document struct {
	Source     string
	Raw        string
	Normalized string
	// Now is the reference time for date windows.
	Now time.Time
}

// NewDocument normalizes raw once for all rules.
func NewDocument(source, raw string, now time.Time) Document {
	return Document{Source: source, Raw: raw, Normalized: normalize.Text(raw), Now: now}
}

// Details carries diagnostic values keyed by their report names.
type Details map[string]any

// Result is the verdict for one component. Missing lists only the items that
// made a threshold fail; Warnings never affect Valid.
type Result struct {
	ID        string   `json:"id"`
	Component string   `json:"componente"`
	Valid     bool     `json:"valido"`
	Missing   []string `json:"elementos_faltantes"`
	Warnings  []string `json:"advertencias"`
	Details   Details  `json:"detalles"`
}

// Rule validates one component against a document.
type Rule func(doc Document, c checklist.Component) Result

var rules = map[string]Rule{
	"inspeccion":   inspeccion,
	"topografia":   topografia,
	"demolicion":   demolicion,
	"suelos":       suelos,
	"canteras":     canteras,
	"demanda":      demanda,
	"arquitectura": arquitectura,
}

// Rules lists the registered rule ids in sorted order.
func Rules() []string {
	out := make([]string, 0, len(rules))
	for id := range rules {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// RuleFor returns the rule registered under id.
func RuleFor(id string) (Rule, error) {
	r, ok := rules[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, id)
	}
	return r, nil
}

// Component validates a single component.
func Component(doc Document, c checklist.Component) (Result, error) {
	r, err := RuleFor(c.Rule)
	if err != nil {
		return Result{}, fmt.Errorf("component %s: %w", c.ID, err)
	}
	return r(doc, c), nil
}

// All validates every component of cat in catalog order. Empty or
// whitespace-only text yields ErrExtractionFailed and no results.
func All(cat *checklist.Catalog, doc Document) ([]Result, error) {
	if strings.TrimSpace(doc.Raw) == "" {
		return nil, ErrExtractionFailed
	}
	if doc.Normalized == "" {
		doc.Normalized = normalize.Text(doc.Raw)
	}
	selected := make([]Rule, len(cat.Components))
	for i, c := range cat.Components {
		r, err := RuleFor(c.Rule)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", c.ID, err)
		}
		selected[i] = r
	}
	out := make([]Result, 0, len(cat.Components))
	for i, c := range cat.Components {
		out = append(out, selected[i](doc, c))
	}
	return out, nil
}
