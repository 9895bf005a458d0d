package normalize

import "testing"

func TestText_Table(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Ubicación y Accesos", "UBICACION Y ACCESOS"},
		{"diseño de mezcla", "DISENO DE MEZCLA"},
		{"  METODOLOGÍA\tEMPLEADA\n\nPARA   LA INSPECCIÓN  ", "METODOLOGIA EMPLEADA PARA LA INSPECCION"},
		{"área\r\nA INTERVENIR", "AREA A INTERVENIR"},
		{"é í ó ú á ñ", "E I O U A N"},
		{"Plano 1/100 y A.010", "PLANO 1/100 Y A.010"},
		// only the fixed substitutions are applied
		{"pingüino", "PINGÜINO"},
	}
	for _, c := range cases {
		if got := Text(c.in); got != c.want {
			t.Errorf("Text(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestText_Idempotent(t *testing.T) {
	in := "Compatibilización del Área a intervenir\n3. Señalización"
	once := Text(in)
	if twice := Text(once); twice != once {
		t.Fatalf("normalizing twice changed text: %q -> %q", once, twice)
	}
}

func TestLabels_PreservesOrder(t *testing.T) {
	got := Labels([]string{"Ñandú", "acción"})
	if len(got) != 2 || got[0] != "NANDU" || got[1] != "ACCION" {
		t.Fatalf("unexpected labels: %v", got)
	}
}
