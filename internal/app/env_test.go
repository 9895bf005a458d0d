package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, ".env")
	second := filepath.Join(dir, ".env.local")
	if err := os.WriteFile(first, []byte("# comentario\nEXPEDIENTE_TEST_A=uno\nEXPEDIENTE_TEST_B=\"desde archivo\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(second, []byte("EXPEDIENTE_TEST_A=dos\nEXPEDIENTE_TEST_C=tres\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("EXPEDIENTE_TEST_B", "del entorno")
	t.Cleanup(func() {
		os.Unsetenv("EXPEDIENTE_TEST_A")
		os.Unsetenv("EXPEDIENTE_TEST_C")
	})

	if err := LoadEnvFiles(first, filepath.Join(dir, "missing.env"), "", second); err != nil {
		t.Fatalf("LoadEnvFiles: %v", err)
	}
	if got := os.Getenv("EXPEDIENTE_TEST_A"); got != "uno" {
		t.Fatalf("first file should win for A, got %q", got)
	}
	if got := os.Getenv("EXPEDIENTE_TEST_B"); got != "del entorno" {
		t.Fatalf("process env should win for B, got %q", got)
	}
	if got := os.Getenv("EXPEDIENTE_TEST_C"); got != "tres" {
		t.Fatalf("C from second file, got %q", got)
	}
}
