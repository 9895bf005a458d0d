package match

import (
	"encoding/json"
	"testing"

	"github.com/hyperifyio/goexpediente/internal/checklist"
	"github.com/hyperifyio/goexpediente/internal/normalize"
)

func TestPresent_Templates(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		label string
		want  bool
	}{
		{"word bounded", "1 ANTECEDENTES DEL PROYECTO", "ANTECEDENTES", true},
		{"numbered heading", "3.ANTECEDENTES", "ANTECEDENTES", true},
		{"lettered heading", "CAPITULO B.ANTECEDENTES", "ANTECEDENTES", true},
		{"absent", "INTRODUCCION GENERAL", "ANTECEDENTES", false},
		{"glued prefix", "PREANTECEDENTES", "ANTECEDENTES", true},
		{"glued suffix", "ANTECEDENTESX", "ANTECEDENTES", false},
		{"escaped dot", "NORMA AX010", "A.010", false},
		{"literal dot", "NORMA A.010 VIGENTE", "A.010", true},
		{"parentheses", "VER PANEL FOTOGRAFICO (IMPLICITO)", "PANEL FOTOGRAFICO (IMPLICITO)", true},
		{"empty label", "ANTECEDENTES", "", false},
	}
	for _, tc := range cases {
		if got := Present(tc.text, tc.label); got != tc.want {
			t.Errorf("%s: Present(%q,%q)=%v want %v", tc.name, tc.text, tc.label, got, tc.want)
		}
	}
}

func TestFind_NormalizationInvariance(t *testing.T) {
	labels := []string{"UBICACIÓN Y ACCESOS", "ubicacion y accesos"}
	for _, raw := range []string{"Ubicación y   accesos", "UBICACION\nY\tACCESOS", "ubicación y accesos"} {
		r := Find(normalize.Text(raw), labels)
		for _, l := range labels {
			if !r[l] {
				t.Errorf("text %q: label %q not found", raw, l)
			}
		}
	}
}

func TestReduce_VariantDedup(t *testing.T) {
	labels := []string{"ANTECEDENTES", "UBICACIÓN", "UBICACION", "PLANOS"}
	groups := [][]string{{"UBICACIÓN", "UBICACION"}}
	cases := []struct {
		name string
		r    Result
		want int
	}{
		{"both variants", Result{"ANTECEDENTES": true, "UBICACIÓN": true, "UBICACION": true}, 2},
		{"second variant only", Result{"UBICACION": true}, 1},
		{"none", Result{}, 0},
	}
	for _, tc := range cases {
		lg := Reduce(labels, groups, tc.r)
		if len(lg) != 3 {
			t.Fatalf("%s: %d logical items want 3", tc.name, len(lg))
		}
		if got := lg.Count(); got != tc.want {
			t.Errorf("%s: count=%d want %d", tc.name, got, tc.want)
		}
	}
	lg := Reduce(labels, groups, Result{"UBICACION": true})
	if lg[1].Key != "UBICACIÓN" || !lg[1].Present {
		t.Fatalf("group keyed wrongly: %+v", lg[1])
	}
	miss := lg.Missing()
	if len(miss) != 2 || miss[0] != "ANTECEDENTES" || miss[1] != "PLANOS" {
		t.Fatalf("missing=%v", miss)
	}
}

func TestList_UsesCatalogGroups(t *testing.T) {
	l := checklist.List{Key: "planos", Min: 1, Items: []checklist.Item{
		{"PLANO PERIMÉTRICO", "PLANO PERIMETRICO"},
		{"PLANO TOPOGRÁFICO", "PLANO TOPOGRAFICO"},
	}}
	lg := List(normalize.Text("Se adjunta el plano perimétrico"), l)
	if lg.Count() != 1 || len(lg) != 2 {
		t.Fatalf("got %+v", lg)
	}
	if p, ok := lg.Has("PLANO PERIMÉTRICO"); !ok || !p {
		t.Fatalf("perimetrico not present: %+v", lg)
	}
}

func TestMark_CopiesAndAppends(t *testing.T) {
	lg := Logical{{Key: "A"}, {Key: "B"}}
	got := lg.Mark("B")
	if lg[1].Present {
		t.Fatal("Mark mutated receiver")
	}
	if p, _ := got.Has("B"); !p {
		t.Fatal("B not marked")
	}
	got = lg.Mark("C")
	if len(got) != 3 || got.Count() != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestLogical_JSONKeepsOrder(t *testing.T) {
	lg := Logical{{Key: "ZONAS", Present: true}, {Key: "ÁREA", Present: false}}
	b, err := json.Marshal(lg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"ZONAS":true,"ÁREA":false}` {
		t.Fatalf("got %s", b)
	}
}
