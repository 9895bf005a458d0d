package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTextCache_SaveLoad(t *testing.T) {
	t.Parallel()
	c := &TextCache{Dir: filepath.Join(t.TempDir(), "text")}
	key := Key([]byte("%PDF-1.4 fake"))
	if _, err := c.Load(context.Background(), key); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
	in := Entry{Source: "informe.pdf", Pages: 3, Text: "1. ANTECEDENTES\nUBICACIÓN"}
	if err := c.Save(context.Background(), key, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := c.Load(context.Background(), key)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Text != in.Text || got.Pages != 3 || got.Source != "informe.pdf" {
		t.Fatalf("got %+v", got)
	}
	if got.Chars != len(in.Text) || got.SavedAt.IsZero() {
		t.Fatalf("meta not filled: %+v", got)
	}
	if _, err := os.Stat(filepath.Join(c.Dir, ".lock")); err != nil {
		t.Fatalf("lock file: %v", err)
	}
}

func TestTextCache_StrictPerms(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "strict")
	c := &TextCache{Dir: dir, StrictPerms: true}
	key := Key([]byte("x"))
	if err := c.Save(context.Background(), key, Entry{Text: "hola"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode() & 0o777; got != 0o700 {
		t.Fatalf("dir mode = %o, want 0700", got)
	}
	finfo, err := os.Stat(filepath.Join(dir, key+".txt"))
	if err != nil {
		t.Fatal(err)
	}
	if got := finfo.Mode() & 0o777; got != 0o600 {
		t.Fatalf("file mode = %o, want 0600", got)
	}
}

func TestTextCache_Unconfigured(t *testing.T) {
	var c *TextCache
	if _, err := c.Load(context.Background(), "k"); err == nil {
		t.Fatal("expected error for nil cache")
	}
}

func TestKeyFile_MatchesContent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(p, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	k, err := KeyFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if k != Key([]byte("abc")) || len(k) != 64 {
		t.Fatalf("key=%s", k)
	}
}

func TestLayered_PromotesDiskHits(t *testing.T) {
	t.Parallel()
	disk := &TextCache{Dir: t.TempDir()}
	key := Key([]byte("doc"))
	if err := disk.Save(context.Background(), key, Entry{Source: "doc.pdf", Text: "texto"}); err != nil {
		t.Fatal(err)
	}
	mem := NewMemoryCache(time.Minute, time.Minute)
	l := Layered{Memory: mem, Disk: disk}
	e, ok := l.Get(context.Background(), key)
	if !ok || e.Text != "texto" {
		t.Fatalf("get: %+v %v", e, ok)
	}
	if mem.Len() != 1 {
		t.Fatalf("disk hit not promoted, len=%d", mem.Len())
	}
	if _, ok := l.Get(context.Background(), Key([]byte("other"))); ok {
		t.Fatal("unexpected hit")
	}
}

func TestLayered_MemoryOnly(t *testing.T) {
	l := Layered{Memory: NewMemoryCache(time.Minute, 0)}
	l.Put(context.Background(), "k", Entry{Text: "t"})
	if e, ok := l.Get(context.Background(), "k"); !ok || e.Text != "t" {
		t.Fatalf("get: %+v %v", e, ok)
	}
	l.Memory.Flush()
	if _, ok := l.Get(context.Background(), "k"); ok {
		t.Fatal("hit after flush")
	}
}

func TestPurgeByAge(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	c := &TextCache{Dir: dir}
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	old := Key([]byte("old"))
	fresh := Key([]byte("fresh"))
	if err := c.Save(context.Background(), old, Entry{Text: "a", SavedAt: now.Add(-48 * time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if err := c.Save(context.Background(), fresh, Entry{Text: "b", SavedAt: now.Add(-time.Hour)}); err != nil {
		t.Fatal(err)
	}
	removed, err := PurgeByAge(dir, 24*time.Hour, now)
	if err != nil || removed != 1 {
		t.Fatalf("removed=%d err=%v", removed, err)
	}
	if _, err := os.Stat(filepath.Join(dir, old+".txt")); !os.IsNotExist(err) {
		t.Fatalf("old text still present: %v", err)
	}
	if _, err := c.Load(context.Background(), fresh); err != nil {
		t.Fatalf("fresh entry lost: %v", err)
	}
	if n, _ := PurgeByAge(dir, 0, now); n != 0 {
		t.Fatalf("zero max age removed %d", n)
	}
}

func TestClearDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "c")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "x.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ClearDir(dir); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 0 {
		t.Fatalf("entries=%v err=%v", entries, err)
	}
	if err := ClearDir("  "); err == nil {
		t.Fatal("expected error for blank dir")
	}
}
