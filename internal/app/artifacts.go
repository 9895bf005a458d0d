package app

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hyperifyio/goexpediente/internal/aggregate"
	"github.com/hyperifyio/goexpediente/internal/render"
)

// writeReports renders r in each format as <dir>/<base>.<format> and returns
// the file names written.
func writeReports(dir, base string, r aggregate.Report, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		name := base + "." + f
		p := filepath.Join(dir, name)
		var err error
		switch f {
		case "json":
			err = writeWith(p, func(w io.Writer) error { return render.JSON(w, r) })
		case "txt":
			err = writeWith(p, func(w io.Writer) error { return render.Text(w, r) })
		case "pdf":
			err = render.PDF(p, r)
		default:
			err = fmt.Errorf("unknown format %q", f)
		}
		if err != nil {
			return names, fmt.Errorf("write %s: %w", name, err)
		}
		names = append(names, name)
	}
	return names, nil
}

func writeWith(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeSHA256SUMS records the digest of each named file of dir in
// <dir>/SHA256SUMS, in the format read by sha256sum -c.
func writeSHA256SUMS(dir string, names []string) error {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	var b strings.Builder
	for _, name := range sorted {
		sum, err := sha256File(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		b.WriteString(sum)
		b.WriteString("  ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	return os.WriteFile(filepath.Join(dir, "SHA256SUMS"), []byte(b.String()), 0o644)
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
