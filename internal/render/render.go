// Package render writes an aggregate.Report as JSON, plain text or PDF. The
// renderers only format what the report carries; they never re-evaluate it.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hyperifyio/goexpediente/internal/aggregate"
	"github.com/hyperifyio/goexpediente/internal/match"
	"github.com/hyperifyio/goexpediente/internal/validate"
)

const (
	rule = "================================================================================"
	thin = "--------------------------------------------------------------------------------"
)

// JSON writes the report indented, with non-ASCII text left as is.
func JSON(w io.Writer, r aggregate.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// Text writes the human readable report.
func Text(w io.Writer, r aggregate.Report) error {
	var b strings.Builder
	md := r.Metadata
	b.WriteString(rule + "\n")
	b.WriteString(heading(md) + "\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "Archivo: %s\n", md.Source)
	fmt.Fprintf(&b, "Fecha: %s\n", md.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Estado: %s\n", md.Status)
	fmt.Fprintf(&b, "Componentes válidos: %d/%d\n", md.Valid, md.Total)
	b.WriteString("\n" + rule + "\n\n")

	for i, res := range r.Results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, res.Component)
		fmt.Fprintf(&b, "   Estado: %s\n", verdict(res.Valid))
		if pct, ok := Compliance(res); ok {
			fmt.Fprintf(&b, "   Cumplimiento: %.1f%%\n", pct)
		}
		if len(res.Missing) > 0 {
			b.WriteString("\n   Elementos faltantes:\n")
			for _, m := range res.Missing {
				fmt.Fprintf(&b, "      • %s\n", m)
			}
		}
		if len(res.Warnings) > 0 {
			b.WriteString("\n   Advertencias:\n")
			for _, wn := range res.Warnings {
				fmt.Fprintf(&b, "      ⚠ %s\n", wn)
			}
		}
		if len(res.Details) > 0 {
			b.WriteString("\n   Detalles:\n")
			for _, k := range detailKeys(res.Details) {
				fmt.Fprintf(&b, "      - %s: %s\n", k, Value(res.Details[k]))
			}
		}
		b.WriteString("\n" + thin + "\n\n")
	}

	if len(r.Observations) > 0 {
		b.WriteString("\nOBSERVACIONES GENERALES:\n")
		b.WriteString(thin + "\n")
		for _, o := range r.Observations {
			fmt.Fprintf(&b, "• %s\n", o)
		}
	}
	b.WriteString("\n" + rule + "\n")
	b.WriteString("Fin del reporte\n")
	b.WriteString(rule + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func heading(md aggregate.Metadata) string {
	if md.Title != "" {
		return "REPORTE DE VALIDACIÓN - " + md.Title
	}
	return "REPORTE DE VALIDACIÓN"
}

func verdict(valid bool) string {
	if valid {
		return "✓ VÁLIDO"
	}
	return "✗ OBSERVADO"
}

// Conclusion is the closing paragraph; it depends only on the overall status.
func Conclusion(r aggregate.Report) string {
	if r.Approved() {
		return "El entregable del expediente técnico CUMPLE con todos los requisitos establecidos. " +
			"Se recomienda proceder con la siguiente etapa del proyecto."
	}
	return fmt.Sprintf("El entregable presenta %d componente(s) con observaciones. "+
		"Se requiere subsanar las deficiencias identificadas antes de proceder con la aprobación "+
		"del expediente. Revisar el detalle de observaciones en las secciones anteriores.",
		r.Metadata.Total-r.Metadata.Valid)
}

// Compliance derives the share of logical items found from a result's
// details. ok is false when the details carry no section counts.
func Compliance(res validate.Result) (pct float64, ok bool) {
	found, total := 0, 0
	if n, isInt := res.Details["secciones_encontradas"].(int); isInt {
		if t, isInt := res.Details["secciones_totales"].(int); isInt {
			found, total = n, t
		}
	}
	for _, v := range res.Details {
		if ld, isList := v.(validate.ListDetail); isList {
			found += ld.Found
			total += ld.Total
		}
	}
	if total == 0 {
		return 0, false
	}
	return float64(found) / float64(total) * 100, true
}

func detailKeys(d validate.Details) []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Label turns a details key such as "cert_fecha_valida" into a table label.
func Label(key string) string {
	return cases.Title(language.Spanish).String(strings.ReplaceAll(key, "_", " "))
}

// Value formats a details value for people.
func Value(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "Sí"
		}
		return "No"
	case []string:
		if len(x) == 0 {
			return "-"
		}
		return strings.Join(x, ", ")
	case match.Logical:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			parts = append(parts, e.Key+": "+Value(e.Present))
		}
		return strings.Join(parts, ", ")
	case validate.ListDetail:
		return fmt.Sprintf("encontradas: %d, requeridas: %d, total: %d", x.Found, x.Required, x.Total)
	default:
		return fmt.Sprint(v)
	}
}
