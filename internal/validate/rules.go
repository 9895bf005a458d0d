package validate

import "github.com/hyperifyio/goexpediente/internal/checklist"

// inspeccion: every logical section must be present. Caption markers stand in
// for the photo panel.
func inspeccion(doc Document, c checklist.Component) Result {
	e := begin(doc, c)
	e.markCaptions()
	e.flat()
	e.coverage()
	e.captionNote()
	return e.result()
}

// topografia: memoria, annexes and drawings thresholds plus the calibration
// certificate. Photo count, certificate age and drawing scales only warn.
func topografia(doc Document, c checklist.Component) Result {
	e := begin(doc, c)
	e.perList()
	e.photos()
	e.calibration()
	e.scales()
	return e.result()
}

func demolicion(doc Document, c checklist.Component) Result {
	e := begin(doc, c)
	e.perList()
	return e.result()
}

// suelos: main sections, investigation points and the two required annexes.
func suelos(doc Document, c checklist.Component) Result {
	e := begin(doc, c)
	e.perList()
	e.points()
	return e.result()
}

func canteras(doc Document, c checklist.Component) Result {
	e := begin(doc, c)
	e.flat()
	e.advisories()
	return e.result()
}

func demanda(doc Document, c checklist.Component) Result {
	e := begin(doc, c)
	e.flat()
	e.references()
	return e.result()
}

// arquitectura: three thresholds; building-code references only warn.
func arquitectura(doc Document, c checklist.Component) Result {
	e := begin(doc, c)
	e.perList()
	e.codes()
	return e.result()
}
