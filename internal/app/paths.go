package app

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hyperifyio/goexpediente/internal/normalize"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slugify folds accents and keeps lower-case ASCII letters and digits,
// joining runs of anything else with underscores.
func slugify(s string) string {
	s = strings.ToLower(normalize.Text(s))
	s = nonSlug.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		s = "documento"
	}
	return s
}

// reportBase returns the artifact stem for an input file, "reporte_<name>".
func reportBase(input string) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return "reporte_" + slugify(stem)
}

// reportBases assigns a distinct stem to each input. Inputs whose names
// collide get a short hash of their full path appended.
func reportBases(inputs []string) []string {
	out := make([]string, len(inputs))
	count := map[string]int{}
	for i, in := range inputs {
		out[i] = reportBase(in)
		count[out[i]]++
	}
	for i, in := range inputs {
		if count[out[i]] < 2 {
			continue
		}
		h := sha256.Sum256([]byte(filepath.Clean(in)))
		out[i] += "_" + hex.EncodeToString(h[:])[:8]
	}
	return out
}
