package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/goexpediente/internal/app"
	"github.com/hyperifyio/goexpediente/internal/validate"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{fmt.Errorf("%w: vacío", validate.ErrExtractionFailed), 2},
		{errPartial, 1},
		{errors.New("boom"), 1},
	}
	for _, c := range cases {
		if got := exitCode(c.err); got != c.want {
			t.Fatalf("exitCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, app.BuildVersion) {
		t.Fatalf("version output: %q", out)
	}
}

func TestChecklistCommand(t *testing.T) {
	out, err := execute(t, "checklist", "--catalog", "inspeccion-ocular")
	if err != nil {
		t.Fatalf("checklist: %v", err)
	}
	for _, want := range []string{"[informe_inspeccion]", "mínimo 11 de 11", "ANTECEDENTES", "variantes:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("checklist output lacks %q:\n%s", want, out)
		}
	}
	out, err = execute(t, "checklist", "--names")
	if err != nil {
		t.Fatalf("checklist --names: %v", err)
	}
	if !strings.Contains(out, "entregable1") || !strings.Contains(out, "inspeccion-ocular") {
		t.Fatalf("names output: %q", out)
	}
}

func TestValidateCommand_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "informe.txt")
	if err := os.WriteFile(in, []byte("1. ANTECEDENTES\n2. ACCESOS\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	outDir := filepath.Join(dir, "out")
	out, err := execute(t, "validate", "--catalog", "inspeccion-ocular", "--format", "json",
		"--no-cache", "--env-file", "", "-o", outDir, "--now", "2024-07-01", in)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "OBSERVADO (0/1 componentes válidos)") {
		t.Fatalf("summary: %q", out)
	}
	if _, err := os.Stat(filepath.Join(outDir, "reporte_informe.json")); err != nil {
		t.Fatalf("report not written: %v", err)
	}
}

func TestValidateCommand_ExtractionFailure(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "escaneado.txt")
	if err := os.WriteFile(in, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := execute(t, "validate", "--no-cache", "--env-file", "", "-o", filepath.Join(dir, "out"), in)
	if exitCode(err) != 2 {
		t.Fatalf("expected exit code 2, got error %v", err)
	}
}

func TestValidateCommand_UnknownInputExitsOne(t *testing.T) {
	dir := t.TempDir()
	docx := filepath.Join(dir, "memoria.docx")
	if err := os.WriteFile(docx, []byte("texto"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	for _, in := range []string{docx, filepath.Join(dir, "no-existe.pdf")} {
		_, err := execute(t, "validate", "--no-cache", "--env-file", "", "-o", filepath.Join(dir, "out"), in)
		if err == nil || exitCode(err) != 1 {
			t.Fatalf("%s: expected exit code 1, got error %v", in, err)
		}
	}
}

func TestValidateCommand_RequiresInput(t *testing.T) {
	_, err := execute(t, "validate", "--no-cache", "--env-file", "")
	if err == nil || exitCode(err) != 1 {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestValidateCommand_RejectsBadFlags(t *testing.T) {
	if _, err := execute(t, "validate", "--format", "docx", "x.txt"); err == nil {
		t.Fatalf("expected format error")
	}
	if _, err := execute(t, "validate", "--now", "ayer", "x.txt"); err == nil {
		t.Fatalf("expected reference time error")
	}
}
