// Package aggregate folds per-component results into one report with an
// overall verdict and general observations.
package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hyperifyio/goexpediente/internal/validate"
)

// Overall statuses.
const (
	StatusApproved = "APROBADO"
	StatusObserved = "OBSERVADO"
)

// Metadata identifies one validation run.
type Metadata struct {
	RunID       string    `json:"id_ejecucion,omitempty"`
	Source      string    `json:"archivo"`
	Catalog     string    `json:"catalogo,omitempty"`
	Title       string    `json:"titulo,omitempty"`
	GeneratedAt time.Time `json:"fecha_validacion"`
	Total       int       `json:"total_componentes"`
	Valid       int       `json:"componentes_validos"`
	Status      string    `json:"estado"`
}

// Report is the complete outcome for one document, handed unchanged to the
// renderers.
type Report struct {
	Metadata     Metadata          `json:"metadata"`
	Results      []validate.Result `json:"validaciones"`
	Observations []string          `json:"observaciones_generales"`
}

// Approved reports whether every component passed.
func (r Report) Approved() bool { return r.Metadata.Status == StatusApproved }

// Option adjusts report metadata.
type Option func(*Metadata)

// WithRunID tags the report with a run identifier.
func WithRunID(id string) Option { return func(m *Metadata) { m.RunID = id } }

// WithCatalog records the catalog name the results were produced with.
func WithCatalog(name string) Option { return func(m *Metadata) { m.Catalog = name } }

// WithTitle sets the human title of the deliverable being validated.
func WithTitle(title string) Option { return func(m *Metadata) { m.Title = title } }

// NewRunID returns a fresh random run identifier.
func NewRunID() string { return uuid.NewString() }

// Build derives the report from results, keeping their order. The status is
// APROBADO only when every component is valid.
func Build(source string, now time.Time, results []validate.Result, opts ...Option) Report {
	valid := 0
	for _, r := range results {
		if r.Valid {
			valid++
		}
	}
	status := StatusObserved
	if valid == len(results) {
		status = StatusApproved
	}
	md := Metadata{
		Source:      source,
		GeneratedAt: now,
		Total:       len(results),
		Valid:       valid,
		Status:      status,
	}
	for _, o := range opts {
		o(&md)
	}
	out := make([]validate.Result, len(results))
	copy(out, results)
	return Report{Metadata: md, Results: out, Observations: Observations(results)}
}

// Observations summarizes failed components and the warning total.
func Observations(results []validate.Result) []string {
	obs := []string{}
	failed := 0
	for _, r := range results {
		if !r.Valid {
			failed++
		}
	}
	if failed > 0 {
		obs = append(obs, fmt.Sprintf("Se encontraron %d componente(s) con observaciones", failed))
		for _, r := range results {
			if !r.Valid && len(r.Missing) > 0 {
				obs = append(obs, fmt.Sprintf("%s: %s", r.Component, strings.Join(r.Missing, ", ")))
			}
		}
	}
	warnings := 0
	for _, r := range results {
		warnings += len(r.Warnings)
	}
	if warnings > 0 {
		obs = append(obs, fmt.Sprintf("Total de advertencias: %d", warnings))
	}
	return obs
}

// Compliance is the percentage of valid components, 0 for an empty report.
func (r Report) Compliance() float64 {
	if r.Metadata.Total == 0 {
		return 0
	}
	return float64(r.Metadata.Valid) / float64(r.Metadata.Total) * 100
}
