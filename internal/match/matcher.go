// Package match decides whether checklist labels occur in normalized document
// text and folds spelling variants into logical items.
package match

import (
	"regexp"
	"sync"

	"github.com/hyperifyio/goexpediente/internal/normalize"
)

// templates are tried in order; %s stands for the regex-escaped label.
//  1. the label as a word-bounded phrase
//  2. a numbered heading such as "3. LABEL"
//  3. a lettered heading such as "A. LABEL"
//
// The heuristics also accept a label running inside prose. That trade-off is
// deliberate and changing it alters verdicts on real documents.
var templates = []func(quoted string) string{
	func(q string) string { return `\b` + q + `\b` },
	func(q string) string { return `\d+\.?\s*` + q },
	func(q string) string { return `[A-Z]+\.?\s*` + q },
}

// compiled caches the patterns of each normalized label. Regexps are safe for
// concurrent use, so the cache is shared by all validations.
var compiled sync.Map // map[string][]*regexp.Regexp

func patternsFor(label string) []*regexp.Regexp {
	if v, ok := compiled.Load(label); ok {
		return v.([]*regexp.Regexp)
	}
	q := regexp.QuoteMeta(label)
	res := make([]*regexp.Regexp, 0, len(templates))
	for _, tpl := range templates {
		res = append(res, regexp.MustCompile(tpl(q)))
	}
	v, _ := compiled.LoadOrStore(label, res)
	return v.([]*regexp.Regexp)
}

// Present reports whether label occurs in text. Both arguments must already be
// normalized with normalize.Text.
func Present(text, label string) bool {
	if label == "" {
		return false
	}
	for _, re := range patternsFor(label) {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Result maps each checklist label, as written in the catalog, to presence.
type Result map[string]bool

// Find normalizes every label and tests it against the normalized text.
func Find(text string, labels []string) Result {
	out := make(Result, len(labels))
	for _, l := range labels {
		out[l] = Present(text, normalize.Text(l))
	}
	return out
}
