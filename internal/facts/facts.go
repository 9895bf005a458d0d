// Package facts extracts the few numeric and date values the checklist rules
// need beyond section presence: photo and investigation-point counts,
// calibration dates, literal tokens and caption markers. Malformed values are
// skipped; no function here fails.
package facts

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hyperifyio/goexpediente/internal/normalize"
)

var compiled sync.Map // map[string]*regexp.Regexp

// compile returns the cached regexp for p, or nil when p does not compile.
func compile(p string) *regexp.Regexp {
	if v, ok := compiled.Load(p); ok {
		return v.(*regexp.Regexp)
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return nil
	}
	v, _ := compiled.LoadOrStore(p, re)
	return v.(*regexp.Regexp)
}

// MaxCount returns the largest integer captured by the first group of any
// pattern over text, or 0 when nothing matches.
func MaxCount(text string, patterns []string) int {
	best := 0
	for _, p := range patterns {
		re := compile(p)
		if re == nil || re.NumSubexp() < 1 {
			continue
		}
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if n > best {
				best = n
			}
		}
	}
	return best
}

// CountMatches sums the non-overlapping matches of every pattern.
func CountMatches(text string, patterns []string) int {
	total := 0
	for _, p := range patterns {
		if re := compile(p); re != nil {
			total += len(re.FindAllStringIndex(text, -1))
		}
	}
	return total
}

// Tokens returns, in the given order, the tokens whose normalized form occurs
// literally in the normalized text.
func Tokens(text string, tokens []string) []string {
	found := []string{}
	for _, tok := range tokens {
		n := normalize.Text(tok)
		if n != "" && strings.Contains(text, n) {
			found = append(found, tok)
		}
	}
	return found
}

// Dates parses day, month and year from the three groups of pattern. Dates
// that do not exist on the calendar, such as 31/02/2024, are dropped. Results
// are midnight in loc.
func Dates(text, pattern string, loc *time.Location) []time.Time {
	re := compile(pattern)
	if re == nil || re.NumSubexp() < 3 {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	var out []time.Time
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		d, err1 := strconv.Atoi(m[1])
		mo, err2 := strconv.Atoi(m[2])
		y, err3 := strconv.Atoi(m[3])
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, loc)
		if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
			continue
		}
		out = append(out, t)
	}
	return out
}

// RecentDate reports whether any date in text, read as midnight in now's
// location, is not before now minus windowDays. A date exactly windowDays old
// is therefore stale once the day has started. Future dates count as recent.
func RecentDate(text, pattern string, now time.Time, windowDays int) bool {
	cutoff := now.AddDate(0, 0, -windowDays)
	for _, d := range Dates(text, pattern, now.Location()) {
		if !d.Before(cutoff) {
			return true
		}
	}
	return false
}
