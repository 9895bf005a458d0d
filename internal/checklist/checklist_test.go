package checklist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltin_Entregable1Shape(t *testing.T) {
	c, err := Builtin(DefaultName)
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	wantRules := []string{"inspeccion", "topografia", "demolicion", "suelos", "canteras", "demanda", "arquitectura"}
	if len(c.Components) != len(wantRules) {
		t.Fatalf("components=%d want %d", len(c.Components), len(wantRules))
	}
	for i, r := range wantRules {
		if c.Components[i].Rule != r {
			t.Errorf("component %d rule=%q want %q", i, c.Components[i].Rule, r)
		}
	}
}

func TestBuiltin_LogicalCountsAndThresholds(t *testing.T) {
	c, err := Builtin(DefaultName)
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	cases := []struct {
		component, list string
		logical, min    int
	}{
		{"informe_inspeccion", "secciones", 11, 11},
		{"estudio_topografico", "memoria_descriptiva", 7, 7},
		{"estudio_topografico", "anexos", 5, 3},
		{"estudio_topografico", "planos", 4, 2},
		{"estudio_demolicion", "memoria_descriptiva", 3, 2},
		{"estudio_demolicion", "informe_tecnico", 3, 2},
		{"estudio_demolicion", "planos", 1, 1},
		{"estudio_mecanica_suelos", "secciones", 16, 10},
		{"estudio_mecanica_suelos", "anexos", 2, 2},
		{"estudio_canteras_agua", "secciones", 3, 2},
		{"estudio_demanda", "secciones", 11, 10},
		{"anteproyecto_arquitectura", "memoria_descriptiva", 20, 15},
		{"anteproyecto_arquitectura", "memoria_calculo", 9, 5},
		{"anteproyecto_arquitectura", "planos", 5, 3},
	}
	for _, tc := range cases {
		comp, ok := c.Component(tc.component)
		if !ok {
			t.Fatalf("missing component %s", tc.component)
		}
		l, ok := comp.List(tc.list)
		if !ok {
			t.Fatalf("%s: missing list %s", tc.component, tc.list)
		}
		if l.LogicalCount() != tc.logical {
			t.Errorf("%s/%s logical=%d want %d", tc.component, tc.list, l.LogicalCount(), tc.logical)
		}
		if l.Min != tc.min {
			t.Errorf("%s/%s min=%d want %d", tc.component, tc.list, l.Min, tc.min)
		}
		if len(l.Labels()) < l.LogicalCount() {
			t.Errorf("%s/%s has fewer labels than items", tc.component, tc.list)
		}
	}
}

func TestBuiltin_AllCatalogsPassCheck(t *testing.T) {
	names := Names()
	if len(names) < 2 {
		t.Fatalf("expected at least two embedded catalogs, got %v", names)
	}
	for _, n := range names {
		c, err := Builtin(n)
		if err != nil {
			t.Fatalf("%s: %v", n, err)
		}
		if err := c.Check(); err != nil {
			t.Errorf("%s: %v", n, err)
		}
	}
}

func TestBuiltin_InspeccionOcularImplicitPanel(t *testing.T) {
	c, err := Builtin("inspeccion-ocular")
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	comp := c.Components[0]
	l, _ := comp.List("secciones")
	if got := comp.logicalCount(l); got != l.LogicalCount()+1 {
		t.Fatalf("implicit caption item not counted: %d", got)
	}
}

func TestGroups_OnlyMultiLabelItems(t *testing.T) {
	l := List{Items: []Item{{"A"}, {"B", "b"}, {"C"}}}
	g := l.Groups()
	if len(g) != 1 || g[0][0] != "B" {
		t.Fatalf("unexpected groups %v", g)
	}
	if got := strings.Join(l.Labels(), ","); got != "A,B,b,C" {
		t.Fatalf("labels=%s", got)
	}
}

func TestParse_RejectsThresholdAboveItems(t *testing.T) {
	src := `
name: x
components:
  - id: c
    rule: canteras
    lists:
      - key: s
        min: 3
        items: [A, [B, b]]
`
	if _, err := Parse([]byte(src)); err == nil || !strings.Contains(err.Error(), "requires 3 of 2") {
		t.Fatalf("expected threshold error, got %v", err)
	}
}

func TestParse_RejectsLabelInTwoItems(t *testing.T) {
	src := `
name: x
components:
  - id: c
    rule: canteras
    lists:
      - key: s
        min: 1
        items: [[UBICACIÓN, UBICACION], UBICACION]
`
	if _, err := Parse([]byte(src)); err == nil || !strings.Contains(err.Error(), "more than one item") {
		t.Fatalf("expected duplicate label error, got %v", err)
	}
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	src := `
name: x
components:
  - id: c
    rule: canteras
    lists:
      - key: s
        minimum: 1
        items: [A]
`
	if _, err := Parse([]byte(src)); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestParse_RejectsDanglingCalibrationItem(t *testing.T) {
	src := `
name: x
components:
  - id: c
    rule: topografia
    lists:
      - key: anexos
        min: 1
        items: [A]
    checks:
      calibration:
        list: anexos
        item: CERTIFICADO
        windowDays: 180
`
	if _, err := Parse([]byte(src)); err == nil || !strings.Contains(err.Error(), "no item") {
		t.Fatalf("expected dangling item error, got %v", err)
	}
}

func TestLoad_FallsBackToFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "mine.yaml")
	src := "name: mine\ncomponents:\n  - id: c\n    rule: canteras\n    lists:\n      - key: s\n        min: 1\n        items: [CANTERAS]\n"
	if err := os.WriteFile(p, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Name != "mine" {
		t.Fatalf("name=%q", c.Name)
	}
	d, err := Load("")
	if err != nil || d.Name != DefaultName {
		t.Fatalf("default load: %v %v", d, err)
	}
	if _, err := Load("no-such-catalog"); !errors.Is(err, ErrUnknownCatalog) {
		t.Fatalf("expected ErrUnknownCatalog, got %v", err)
	}
}
