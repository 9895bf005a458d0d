package checklist

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	yaml "gopkg.in/yaml.v3"
)

// DefaultName is the catalog used when none is requested.
const DefaultName = "entregable1"

//go:embed catalogs/*.yaml
var embedded embed.FS

// ErrUnknownCatalog is returned for a name that is neither embedded nor a file.
var ErrUnknownCatalog = errors.New("unknown catalog")

var (
	builtinOnce sync.Once
	builtin     map[string]*Catalog
	builtinErr  error
)

func loadBuiltin() {
	builtin = map[string]*Catalog{}
	entries, err := embedded.ReadDir("catalogs")
	if err != nil {
		builtinErr = err
		return
	}
	for _, e := range entries {
		b, err := embedded.ReadFile(path.Join("catalogs", e.Name()))
		if err != nil {
			builtinErr = err
			return
		}
		c, err := Parse(b)
		if err != nil {
			builtinErr = fmt.Errorf("%s: %w", e.Name(), err)
			return
		}
		builtin[c.Name] = c
	}
}

// Names lists the embedded catalogs in lexical order.
func Names() []string {
	builtinOnce.Do(loadBuiltin)
	out := make([]string, 0, len(builtin))
	for n := range builtin {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Builtin returns an embedded catalog by name. The returned value is shared
// and must not be modified.
func Builtin(name string) (*Catalog, error) {
	builtinOnce.Do(loadBuiltin)
	if builtinErr != nil {
		return nil, builtinErr
	}
	c, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCatalog, name)
	}
	return c, nil
}

// Load resolves ref as an embedded catalog name first and a YAML file path
// second. An empty ref selects DefaultName.
func Load(ref string) (*Catalog, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = DefaultName
	}
	c, err := Builtin(ref)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrUnknownCatalog) {
		return nil, err
	}
	if _, statErr := os.Stat(ref); statErr != nil {
		return nil, err
	}
	return LoadFile(ref)
}

// LoadFile reads and checks a catalog from a YAML file.
func LoadFile(p string) (*Catalog, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog and verifies its invariants. Unknown keys are
// rejected so typos in a catalog file surface at load time.
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Check(); err != nil {
		return nil, err
	}
	return &c, nil
}
