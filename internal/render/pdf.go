package render

import (
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/goexpediente/internal/aggregate"
)

var (
	colorOK   = [3]int{39, 174, 96}
	colorFail = [3]int{231, 76, 60}
	colorHead = [3]int{52, 73, 94}
	colorCell = [3]int{236, 240, 241}
	rowOK     = [3]int{213, 244, 230}
	rowFail   = [3]int{250, 219, 216}
)

// PDF typesets the report on A4: cover, executive summary, one page per
// component, observations and conclusion.
func PDF(path string, r aggregate.Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 18)
	// Core fonts are cp1252; accents need translating from UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	md := r.Metadata

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, fmt.Sprintf("%s - página %d", tr(md.Source), pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	// Cover.
	pdf.AddPage()
	pdf.Ln(40)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(26, 26, 26)
	pdf.MultiCell(0, 10, tr("REPORTE DE VALIDACIÓN"), "", "C", false)
	if md.Title != "" {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.MultiCell(0, 8, tr(md.Title), "", "C", false)
	}
	pdf.Ln(15)
	info := [][2]string{
		{"Archivo:", md.Source},
		{"Fecha de Validación:", md.GeneratedAt.Format("02/01/2006 15:04:05")},
		{"Estado General:", md.Status},
		{"Componentes Válidos:", fmt.Sprintf("%d de %d", md.Valid, md.Total)},
	}
	if md.Catalog != "" {
		info = append(info, [2]string{"Lista de verificación:", md.Catalog})
	}
	if md.RunID != "" {
		info = append(info, [2]string{"Ejecución:", md.RunID})
	}
	for _, row := range info {
		keyValueRow(pdf, tr, row[0], row[1], 55, 115, 8)
	}

	// Executive summary.
	pdf.AddPage()
	subtitle(pdf, tr, "RESUMEN EJECUTIVO")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.Write(6, tr("Estado del entregable: "))
	setColor(pdf, statusColor(r.Approved()))
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Write(6, md.Status)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.MultiCell(0, 5, tr(fmt.Sprintf("Se evaluaron %d componentes principales, de los cuales %d resultaron válidos (%.1f%%).",
		md.Total, md.Valid, r.Compliance())), "", "J", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(colorHead[0], colorHead[1], colorHead[2])
	pdf.SetTextColor(245, 245, 245)
	pdf.CellFormat(12, 9, tr("N°"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(118, 9, "Componente", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 9, "Estado", "1", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for i, res := range r.Results {
		fill := rowFail
		if res.Valid {
			fill = rowOK
		}
		pdf.SetFillColor(fill[0], fill[1], fill[2])
		pdf.CellFormat(12, 7, fmt.Sprint(i+1), "1", 0, "C", true, 0, "")
		pdf.CellFormat(118, 7, tr(res.Component), "1", 0, "L", true, 0, "")
		pdf.CellFormat(40, 7, tr(statusWord(res.Valid)), "1", 1, "L", true, 0, "")
	}

	// One page per component.
	for i, res := range r.Results {
		pdf.AddPage()
		subtitle(pdf, tr, fmt.Sprintf("%d. %s", i+1, res.Component))
		pdf.SetFont("Helvetica", "B", 11)
		setColor(pdf, statusColor(res.Valid))
		pdf.CellFormat(0, 7, tr(statusWord(res.Valid)), "", 1, "L", false, 0, "")
		if pct, ok := Compliance(res); ok {
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(51, 51, 51)
			pdf.CellFormat(0, 6, tr(fmt.Sprintf("Cumplimiento: %.1f%%", pct)), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
		bullets(pdf, tr, "Elementos Faltantes:", "- ", res.Missing)
		bullets(pdf, tr, "Advertencias:", "! ", res.Warnings)
		if len(res.Details) > 0 {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(51, 51, 51)
			pdf.CellFormat(0, 7, "Detalles:", "", 1, "L", false, 0, "")
			for _, k := range detailKeys(res.Details) {
				keyValueRow(pdf, tr, Label(k), Value(res.Details[k]), 55, 115, 6)
			}
		}
	}

	// Observations and conclusion.
	pdf.AddPage()
	if len(r.Observations) > 0 {
		subtitle(pdf, tr, "OBSERVACIONES GENERALES")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(192, 57, 43)
		for _, o := range r.Observations {
			pdf.MultiCell(0, 5, tr("• "+o), "", "L", false)
		}
		pdf.Ln(6)
	}
	subtitle(pdf, tr, "CONCLUSIÓN")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.MultiCell(0, 5, tr(Conclusion(r)), "", "J", false)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, tr("Generado el "+md.GeneratedAt.Format(time.RFC3339)), "", 1, "R", false, 0, "")

	return pdf.OutputFileAndClose(path)
}

func subtitle(pdf *gofpdf.Fpdf, tr func(string) string, s string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(44, 62, 80)
	pdf.MultiCell(0, 8, tr(s), "", "L", false)
	pdf.Ln(3)
}

func bullets(pdf *gofpdf.Fpdf, tr func(string) string, title, mark string, items []string) {
	if len(items) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(192, 57, 43)
	for _, it := range items {
		pdf.SetX(pdf.GetX() + 6)
		pdf.MultiCell(0, 5, tr(mark+it), "", "L", false)
	}
	pdf.Ln(3)
}

// keyValueRow draws a two-column bordered row whose height follows the
// wrapped value.
func keyValueRow(pdf *gofpdf.Fpdf, tr func(string) string, key, value string, kw, vw, lh float64) {
	pdf.SetFont("Helvetica", "", 9)
	lines := pdf.SplitLines([]byte(tr(value)), vw-2)
	h := lh * float64(max(1, len(lines)))
	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+h > pageH-bottom {
		pdf.AddPage()
	}
	x, y := pdf.GetXY()
	pdf.SetFillColor(colorCell[0], colorCell[1], colorCell[2])
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(kw, h, tr(key), "1", 0, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.Rect(x+kw, y, vw, h, "D")
	for i, ln := range lines {
		pdf.SetXY(x+kw+1, y+float64(i)*lh)
		pdf.CellFormat(vw-2, lh, string(ln), "", 0, "L", false, 0, "")
	}
	pdf.SetXY(x, y+h)
}

func statusWord(valid bool) string {
	if valid {
		return "VÁLIDO"
	}
	return "OBSERVADO"
}

func statusColor(valid bool) [3]int {
	if valid {
		return colorOK
	}
	return colorFail
}

func setColor(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetTextColor(c[0], c[1], c[2]) }
