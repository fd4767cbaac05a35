package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Increment when the EmitPayload format changes.
const emitCacheSchemaVersion uint16 = 1

// EmitCache remembers what the emit path last wrote for a given source
// digest, so an unchanged layout does not touch the output file and
// mtime-based build systems stay quiet.
// Thread-safe for concurrent access.
type EmitCache struct {
	mu  sync.RWMutex
	dir string
}

// EmitPayload records one emitted script.
type EmitPayload struct {
	// Schema version for safe invalidation when the format changes.
	Schema uint16

	Layout      string // memory map name the script was generated for
	ToolVersion string

	SourceHash [32]byte
	OutputHash [32]byte

	// Enough to test output freshness with a stat call.
	OutputPath    string
	OutputSize    int64
	OutputModTime time.Time
}

// OpenEmitCache initializes a disk cache at the standard location
// ($XDG_CACHE_HOME/<app> or ~/.cache/<app>).
func OpenEmitCache(app string) (*EmitCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &EmitCache{dir: dir}, nil
}

func (c *EmitCache) pathFor(key [32]byte) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "emit", hexKey+".mp")
}

// Put serializes and writes a payload, keyed by source digest.
func (c *EmitCache) Put(key [32]byte, payload *EmitPayload) error {
	if c == nil {
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
	defer func() {
		if removeErr := os.Remove(f.Name()); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "failed to remove temp file: %v\n", removeErr)
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace.
	return os.Rename(f.Name(), p)
}

// Get reads the payload for a source digest. A missing entry is not
// an error.
func (c *EmitCache) Get(key [32]byte, out *EmitPayload) (bool, error) {
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

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll discards every cache entry, useful after format changes.
func (c *EmitCache) DropAll() error {
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
	return os.RemoveAll(old)
}
