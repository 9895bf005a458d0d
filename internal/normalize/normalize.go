// Package normalize canonicalizes document text and checklist labels into a
// comparable form: upper case, Spanish accents folded, whitespace collapsed.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// fold replaces the accented vowels and Ñ used by the checklists with their
// plain Latin letters. Other characters pass through untouched; in particular
// Ü and À are not folded.
var fold = runes.Map(foldRune)

func foldRune(r rune) rune {
	switch r {
	case 'Á':
		return 'A'
	case 'É':
		return 'E'
	case 'Í':
		return 'I'
	case 'Ó':
		return 'O'
	case 'Ú':
		return 'U'
	case 'Ñ':
		return 'N'
	}
	return r
}

// Text returns the normalized form of s. It is total and deterministic and is
// applied to both document text and labels, so comparisons are case and
// accent insensitive.
func Text(s string) string {
	if s == "" {
		return ""
	}
	// Casers keep internal state, so the chain is built per call.
	t := transform.Chain(cases.Upper(language.Und), fold)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = strings.Map(foldRune, strings.ToUpper(s))
	}
	return strings.Join(strings.Fields(out), " ")
}

// Labels normalizes every label, preserving order.
func Labels(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = Text(l)
	}
	return out
}
