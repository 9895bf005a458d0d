// Package cache keeps extracted document text so that re-validating the same
// file skips PDF parsing. Entries are keyed by the SHA-256 of the file bytes,
// so an edited file never hits a stale entry.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
)

// ErrMiss reports that no entry exists for a key.
var ErrMiss = errors.New("cache miss")

// Entry is one cached extraction.
type Entry struct {
	Source  string    `json:"source"`
	Title   string    `json:"title,omitempty"`
	Pages   int       `json:"pages"`
	Chars   int       `json:"chars"`
	SavedAt time.Time `json:"saved_at"`
	Text    string    `json:"-"`
}

// TextCache stores entries on disk as <key>.meta.json and <key>.txt. Writers
// from several processes are serialized with an advisory lock on <dir>/.lock.
type TextCache struct {
	Dir string
	// StrictPerms enforces 0700 on the directory and 0600 on files.
	StrictPerms bool
}

// Key hashes file content into a cache key.
func Key(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}

// KeyFile hashes the file at path.
func KeyFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Key(b), nil
}

func (c *TextCache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	perm := os.FileMode(0o755)
	if c.StrictPerms {
		perm = 0o700
	}
	if err := os.MkdirAll(c.Dir, perm); err != nil {
		return err
	}
	if c.StrictPerms {
		if info, err := os.Stat(c.Dir); err == nil && info.Mode()&0o777 != 0o700 {
			_ = os.Chmod(c.Dir, 0o700)
		}
	}
	return nil
}

func (c *TextCache) fileMode() os.FileMode {
	if c.StrictPerms {
		return 0o600
	}
	return 0o644
}

func (c *TextCache) metaPath(key string) string { return filepath.Join(c.Dir, key+".meta.json") }
func (c *TextCache) textPath(key string) string { return filepath.Join(c.Dir, key+".txt") }
func (c *TextCache) lockPath() string           { return filepath.Join(c.Dir, ".lock") }

// Load returns the entry for key, or ErrMiss.
func (c *TextCache) Load(_ context.Context, key string) (Entry, error) {
	if err := c.ensureDir(); err != nil {
		return Entry{}, err
	}
	mb, err := os.ReadFile(c.metaPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, err
	}
	var e Entry
	if err := json.Unmarshal(mb, &e); err != nil {
		return Entry{}, fmt.Errorf("decode meta: %w", err)
	}
	tb, err := os.ReadFile(c.textPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, err
	}
	e.Text = string(tb)
	return e, nil
}

// Save writes the entry under key. Text goes first and the meta file is
// renamed into place last, so a reader never sees meta without text.
func (c *TextCache) Save(ctx context.Context, key string, e Entry) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	fl := flock.New(c.lockPath())
	ok, err := fl.TryLockContext(ctx, 25*time.Millisecond)
	if err != nil {
		return fmt.Errorf("lock cache: %w", err)
	}
	if !ok {
		return errors.New("lock cache: not acquired")
	}
	defer func() {
		if err := fl.Unlock(); err != nil {
			log.Warn().Err(err).Str("dir", c.Dir).Msg("cache unlock failed")
		}
	}()

	if e.SavedAt.IsZero() {
		e.SavedAt = time.Now().UTC()
	}
	e.Chars = len(e.Text)
	if err := c.writeAtomic(c.textPath(key), []byte(e.Text)); err != nil {
		return fmt.Errorf("write text: %w", err)
	}
	meta, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}
	if err := c.writeAtomic(c.metaPath(key), meta); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	return nil
}

func (c *TextCache) writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, c.fileMode()); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
