package validate

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/goexpediente/internal/checklist"
	"github.com/hyperifyio/goexpediente/internal/facts"
	"github.com/hyperifyio/goexpediente/internal/match"
)

// ListDetail summarizes one sub-checklist inside Details.
type ListDetail struct {
	Found    int           `json:"encontradas"`
	Required int           `json:"requeridas"`
	Total    int           `json:"total"`
	Items    match.Logical `json:"detalle"`
}

type listResult struct {
	list  checklist.List
	found match.Logical
}

func (lr listResult) ok() bool { return lr.found.Count() >= lr.list.Min }

// evaluation accumulates a Result while a rule runs its checks.
type evaluation struct {
	doc      Document
	comp     checklist.Component
	lists    []listResult
	missing  []string
	warnings []string
	details  Details
	failed   bool
	captions int
}

func begin(doc Document, c checklist.Component) *evaluation {
	e := &evaluation{doc: doc, comp: c, details: Details{}, missing: []string{}, warnings: []string{}}
	for _, l := range c.Lists {
		e.lists = append(e.lists, listResult{list: l, found: match.List(doc.Normalized, l)})
	}
	return e
}

func (e *evaluation) list(key string) (int, bool) {
	for i, lr := range e.lists {
		if lr.list.Key == key {
			return i, true
		}
	}
	return 0, false
}

func (e *evaluation) warn(tpl string, args ...any) {
	if tpl != "" {
		e.warnings = append(e.warnings, format(tpl, args...))
	}
}

func (e *evaluation) miss(tpl string, args ...any) {
	e.failed = true
	e.missing = append(e.missing, format(tpl, args...))
}

// note and fail take catalog messages verbatim.
func (e *evaluation) note(msg string) {
	if msg != "" {
		e.warnings = append(e.warnings, msg)
	}
}

func (e *evaluation) fail(msg string) {
	e.failed = true
	e.missing = append(e.missing, msg)
}

// format applies args only when the template carries verbs, so catalog
// messages without placeholders are used verbatim.
func format(tpl string, args ...any) string {
	if !strings.Contains(tpl, "%") {
		return tpl
	}
	return fmt.Sprintf(tpl, args...)
}

// flat reports a single-list component: missing items are the absent
// logical items, named one by one.
func (e *evaluation) flat() {
	if len(e.lists) == 0 {
		return
	}
	lr := e.lists[0]
	n := lr.found.Count()
	e.details["secciones_encontradas"] = n
	e.details["secciones_requeridas"] = lr.list.Min
	e.details["secciones_totales"] = len(lr.found)
	e.details["detalle_secciones"] = lr.found
	if !lr.ok() {
		e.failed = true
		e.missing = append(e.missing, lr.found.Missing()...)
	}
}

// perList reports each sub-checklist under its key; a shortfall is one
// missing entry carrying the list message and the found/total counts.
func (e *evaluation) perList() {
	for _, lr := range e.lists {
		n := lr.found.Count()
		e.details[lr.list.Key] = ListDetail{Found: n, Required: lr.list.Min, Total: len(lr.found), Items: lr.found}
		if !lr.ok() {
			msg := lr.list.Missing
			if msg == "" {
				msg = lr.list.Title + " incompleto"
			}
			e.miss("%s (%d/%d)", msg, n, len(lr.found))
		}
	}
}

// coverage warns when a single-list component misses any item, even if the
// threshold still passes.
func (e *evaluation) coverage() {
	if len(e.lists) == 0 {
		return
	}
	lr := e.lists[0]
	if n := lr.found.Count(); n < len(lr.found) {
		e.warn("Se encontraron %d/%d secciones", n, len(lr.found))
	}
}

// markCaptions counts caption markers and, when any exist, marks the photo
// panel item of the target list as present.
func (e *evaluation) markCaptions() {
	cc := e.comp.Checks.Captions
	if cc == nil {
		return
	}
	e.captions = facts.CountMatches(e.doc.Normalized, cc.Patterns)
	e.details["fotografias"] = e.captions
	if e.captions == 0 || cc.Item == "" {
		return
	}
	if i, ok := e.list(cc.List); ok {
		e.lists[i].found = e.lists[i].found.Mark(cc.Item)
	}
}

func (e *evaluation) captionNote() {
	if cc := e.comp.Checks.Captions; cc != nil && e.captions > 0 {
		e.warn(cc.Message, e.captions)
	}
}

func (e *evaluation) photos() {
	pc := e.comp.Checks.Photos
	if pc == nil {
		return
	}
	n := facts.MaxCount(e.doc.Normalized, pc.Patterns)
	e.details["fotografias"] = n
	if n < pc.Min {
		e.warn(pc.Message, pc.Min, n)
	}
}

// points is a hard requirement: too few investigation points fail the
// component.
func (e *evaluation) points() {
	pc := e.comp.Checks.Points
	if pc == nil {
		return
	}
	n := facts.MaxCount(e.doc.Normalized, pc.Patterns)
	e.details["puntos_investigacion"] = n
	if n < pc.Min {
		e.miss(pc.Message, pc.Min, n)
	}
}

// calibration requires the certificate item and warns when no date in the
// original text falls inside the window.
func (e *evaluation) calibration() {
	cal := e.comp.Checks.Calibration
	if cal == nil {
		return
	}
	present := false
	if i, ok := e.list(cal.List); ok {
		present, _ = e.lists[i].found.Has(cal.Item)
	}
	recent := present && facts.RecentDate(e.doc.Raw, cal.Pattern, e.doc.Now, cal.WindowDays)
	e.details["cert_calibracion"] = present
	e.details["cert_fecha_valida"] = recent
	switch {
	case !present:
		e.fail(cal.Missing)
	case !recent:
		e.note(cal.Stale)
	}
}

func (e *evaluation) scales() {
	tc := e.comp.Checks.Scales
	if tc == nil {
		return
	}
	found := facts.Tokens(e.doc.Normalized, tc.Tokens)
	e.details["escalas_encontradas"] = found
	if len(found) < tc.Min {
		e.note(tc.Message)
	}
}

func (e *evaluation) codes() {
	tc := e.comp.Checks.Codes
	if tc == nil {
		return
	}
	found := facts.Tokens(e.doc.Normalized, tc.Tokens)
	e.details["normas_encontradas"] = found
	if len(found) < tc.Min {
		e.warn(tc.Message, strings.Join(tc.Tokens, ", "))
	}
}

func (e *evaluation) references() {
	tc := e.comp.Checks.References
	if tc == nil {
		return
	}
	found := facts.Tokens(e.doc.Normalized, tc.Tokens)
	e.details["referencia_escale"] = len(found) >= tc.Min
	if len(found) < tc.Min {
		e.note(tc.Message)
	}
}

func (e *evaluation) advisories() {
	for _, adv := range e.comp.Checks.Advisories {
		i, ok := e.list(adv.List)
		if !ok {
			continue
		}
		if present, _ := e.lists[i].found.Has(adv.Item); !present {
			e.note(adv.Message)
		}
	}
}

func (e *evaluation) result() Result {
	valid := !e.failed
	for _, lr := range e.lists {
		if !lr.ok() {
			valid = false
		}
	}
	return Result{
		ID:        e.comp.ID,
		Component: e.comp.Name,
		Valid:     valid,
		Missing:   e.missing,
		Warnings:  e.warnings,
		Details:   e.details,
	}
}
