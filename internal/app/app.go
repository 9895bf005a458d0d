// Package app wires extraction, validation and report rendering into runs
// over one or more submitted files.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goexpediente/internal/aggregate"
	"github.com/hyperifyio/goexpediente/internal/cache"
	"github.com/hyperifyio/goexpediente/internal/checklist"
	"github.com/hyperifyio/goexpediente/internal/extract"
	"github.com/hyperifyio/goexpediente/internal/validate"
)

// memoryTTL bounds how long extracted text stays in process during a batch.
const memoryTTL = 30 * time.Minute

type App struct {
	cfg     Config
	catalog *checklist.Catalog
	cache   *cache.Layered
	clock   func() time.Time
}

// Outcome is the result of processing one input. Err is set when the input
// produced no report; Report is nil in that case.
type Outcome struct {
	Input  string
	Report *aggregate.Report
	Files  []string
	Err    error
}

func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	cat, err := checklist.Load(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	a := &App{cfg: cfg, catalog: cat, clock: time.Now}
	if !cfg.NoCache {
		l := &cache.Layered{Memory: cache.NewMemoryCache(memoryTTL, memoryTTL)}
		if cfg.CacheDir != "" {
			// Apply cache invalidation controls; failures only cost work.
			if cfg.CacheClear {
				if err := cache.ClearDir(cfg.CacheDir); err != nil {
					log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
				}
			}
			if cfg.CacheMaxAge > 0 {
				n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge, time.Now())
				if err != nil {
					log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache purge failed")
				} else if n > 0 {
					log.Debug().Int("removed", n).Msg("cache entries purged")
				}
			}
			l.Disk = &cache.TextCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
		}
		a.cache = l
	}
	log.Debug().Str("catalog", cat.Name).Int("components", len(cat.Components)).Msg("catalog loaded")
	return a, nil
}

// Catalog returns the checklist the app validates against.
func (a *App) Catalog() *checklist.Catalog { return a.catalog }

// Close releases in-process resources.
func (a *App) Close() {
	if a.cache != nil && a.cache.Memory != nil {
		a.cache.Memory.Flush()
	}
}

// Run processes every input with at most Config.Concurrency workers and
// returns one Outcome per input in input order. A failing input does not stop
// the others. Run returns an error only when no input produced a report; it
// wraps validate.ErrExtractionFailed when every input exists but none yielded
// text.
func (a *App) Run(ctx context.Context) ([]Outcome, error) {
	now := a.cfg.Now
	if now.IsZero() {
		now = a.clock()
	}
	runID := aggregate.NewRunID()
	bases := reportBases(a.cfg.Inputs)
	workers := a.cfg.Concurrency
	if workers <= 0 {
		workers = concurrencyDefault
	}

	outcomes := make([]Outcome, len(a.cfg.Inputs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, in := range a.cfg.Inputs {
		wg.Add(1)
		go func(idx int, input string) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				outcomes[idx] = Outcome{Input: input, Err: err}
				return
			}
			select {
			case <-ctx.Done():
				outcomes[idx] = Outcome{Input: input, Err: ctx.Err()}
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()
			outcomes[idx] = a.process(ctx, input, bases[idx], now, runID)
		}(i, in)
	}
	wg.Wait()

	var (
		written    []string
		errs       []error
		extraction int
	)
	for _, o := range outcomes {
		if o.Err != nil {
			log.Error().Err(o.Err).Str("source", o.Input).Msg("document not validated")
			errs = append(errs, o.Err)
			if errors.Is(o.Err, validate.ErrExtractionFailed) {
				extraction++
			}
			continue
		}
		written = append(written, o.Files...)
	}
	if len(written) > 0 {
		if err := writeSHA256SUMS(a.cfg.OutputDir, written); err != nil {
			return outcomes, fmt.Errorf("write checksums: %w", err)
		}
	}
	if len(errs) == len(outcomes) && len(errs) > 0 {
		if extraction == len(errs) {
			return outcomes, fmt.Errorf("%w: no input yielded text", validate.ErrExtractionFailed)
		}
		return outcomes, errors.Join(errs...)
	}
	return outcomes, nil
}

func (a *App) process(ctx context.Context, input, base string, now time.Time, runID string) Outcome {
	out := Outcome{Input: input}
	doc, err := a.extract(ctx, input)
	if err != nil {
		if ctx.Err() != nil {
			out.Err = ctx.Err()
			return out
		}
		if unreadableText(err) {
			err = fmt.Errorf("%w: %w", validate.ErrExtractionFailed, err)
		}
		out.Err = err
		return out
	}
	source := filepath.Base(input)
	results, err := validate.All(a.catalog, validate.NewDocument(source, doc.Text, now))
	if err != nil {
		out.Err = fmt.Errorf("validate %s: %w", source, err)
		return out
	}
	report := aggregate.Build(source, now, results,
		aggregate.WithRunID(runID),
		aggregate.WithCatalog(a.catalog.Name),
		aggregate.WithTitle(a.catalog.Title),
	)
	out.Report = &report
	files, err := writeReports(a.cfg.OutputDir, base, report, a.cfg.Formats)
	out.Files = files
	if err != nil {
		out.Err = err
		out.Report = nil
		return out
	}
	log.Info().Str("source", source).Str("status", report.Metadata.Status).
		Int("valid", report.Metadata.Valid).Int("total", report.Metadata.Total).
		Strs("files", files).Msg("document validated")
	return out
}

// unreadableText reports whether err means the file exists and has a known
// type but yields no usable text. Unsupported types and missing or forbidden
// files are usage errors instead.
func unreadableText(err error) bool {
	switch {
	case errors.Is(err, extract.ErrUnsupportedSource),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return false
	}
	return true
}

// extract reads input through the cache when one is configured. Entries are
// keyed by file content, so an edited file is always extracted again.
func (a *App) extract(ctx context.Context, input string) (extract.Document, error) {
	if _, err := extract.ForPath(input); err != nil {
		return extract.Document{}, err
	}
	var key string
	if a.cache != nil {
		k, err := cache.KeyFile(input)
		if err != nil {
			return extract.Document{}, fmt.Errorf("read %s: %w", filepath.Base(input), err)
		}
		key = k
		if e, ok := a.cache.Get(ctx, key); ok && strings.TrimSpace(e.Text) != "" {
			log.Debug().Str("source", input).Str("key", key).Msg("extraction cache hit")
			return extract.Document{Source: input, Title: e.Title, Text: e.Text, Pages: e.Pages}, nil
		}
	}
	doc, err := extract.File(ctx, input)
	if err != nil {
		return extract.Document{}, err
	}
	if key != "" {
		a.cache.Put(ctx, key, cache.Entry{Source: input, Title: doc.Title, Pages: doc.Pages, Text: doc.Text})
	}
	return doc, nil
}
