// Package layercache keeps layer scans of G-code files on disk, keyed by the
// SHA-256 of the file content, so repeated `layers` runs over large prints
// skip the scan.
package layercache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"layerspeed/internal/gcode"
)

// Bump when Payload changes shape; older entries become misses.
const schemaVersion uint16 = 2

// Digest identifies file content.
type Digest [sha256.Size]byte

// Sum hashes content.
func Sum(content []byte) Digest { return sha256.Sum256(content) }

// String returns the hex form of the digest.
func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Mark is the cached form of gcode.LayerMark.
type Mark struct {
	Layer  uint64
	Text   string
	Line   int
	Offset int
}

// Payload is one cached scan.
type Payload struct {
	Schema  uint16
	Size    int
	Marks   []Mark
	Scanned time.Time
}

// NewPayload builds a payload from scan results.
func NewPayload(size int, marks []gcode.LayerMark) *Payload {
	p := &Payload{Schema: schemaVersion, Size: size, Scanned: time.Now().UTC()}
	p.Marks = make([]Mark, len(marks))
	for i, m := range marks {
		p.Marks[i] = Mark{Layer: m.Layer, Text: m.Text, Line: m.Line, Offset: m.Offset}
	}
	return p
}

// LayerMarks converts the cached marks back.
func (p *Payload) LayerMarks() []gcode.LayerMark {
	out := make([]gcode.LayerMark, len(p.Marks))
	for i, m := range p.Marks {
		out[i] = gcode.LayerMark{Layer: m.Layer, Text: m.Text, Line: m.Line, Offset: m.Offset}
	}
	return out
}

// Cache is a directory of msgpack files. Safe for concurrent use.
// A nil *Cache is valid and always misses.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open uses dir as the cache root, creating it if needed.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %q: %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

// OpenDefault opens $XDG_CACHE_HOME/<app>, falling back to ~/.cache/<app>.
func OpenDefault(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return Open(filepath.Join(base, app))
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "scans", key.String()+".mp")
}

// Put writes payload under key via temp file and rename.
func (c *Cache) Put(key Digest, payload *Payload) error {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// Already renamed on success.
		_ = os.Remove(tmp)
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get loads the payload for key. A missing entry or an entry written with a
// different schema reports false without error.
func (c *Cache) Get(key Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var p Payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	if p.Schema != schemaVersion {
		return false, nil
	}
	*out = p
	return true, nil
}

// DropAll removes every cached entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
