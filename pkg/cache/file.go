package cache

import (
	"bytes"
	"context"
	"encoding/binary"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry files hold a fixed header followed by the raw artifact bytes:
//
//	"VNA1" | expiry as unix nanoseconds, big endian (0 = never) | payload
const (
	entryMagic  = "VNA1"
	headerSize  = len(entryMagic) + 8
	entryExt    = ".art"
	tempPattern = ".pending-*"
)

// FileCache keeps artifacts on disk, one file per key, sharded by the first
// byte of the key hash. Writes go through a temp file and a rename so a
// concurrent reader never sees a partial entry.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache opens (and creates if needed) a cache rooted at dir.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	payload, expires, ok := decodeEntry(raw)
	if !ok || c.expired(expires) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return payload, true, nil
}

func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var expires time.Time
	if ttl > 0 {
		expires = c.now().Add(ttl)
	}

	path := c.path(key)
	shard := filepath.Dir(path)
	if err := os.MkdirAll(shard, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(shard, tempPattern)
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(encodeEntry(data, expires)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (c *FileCache) Close() error { return nil }

// Stats summarises the entries on disk.
type Stats struct {
	Entries int
	Bytes   int64 // payload bytes of live entries
	Expired int
}

// Stats walks the cache and counts live and expired entries. Corrupt entry
// files count as expired.
func (c *FileCache) Stats() (Stats, error) {
	var s Stats
	err := c.walk(func(path string) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return
		}
		payload, expires, ok := decodeEntry(raw)
		if !ok || c.expired(expires) {
			s.Expired++
			return
		}
		s.Entries++
		s.Bytes += int64(len(payload))
	})
	return s, err
}

// Prune removes expired and corrupt entries and returns how many it
// removed.
func (c *FileCache) Prune() (int, error) {
	removed := 0
	err := c.walk(func(path string) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return
		}
		if _, expires, ok := decodeEntry(raw); ok && !c.expired(expires) {
			return
		}
		if os.Remove(path) == nil {
			removed++
		}
	})
	return removed, err
}

// Clear removes every entry, live or not, along with leftover temp files
// and empty shard directories. It returns the number of entries removed.
func (c *FileCache) Clear() (int, error) {
	removed := 0
	err := c.walk(func(path string) {
		if os.Remove(path) == nil {
			removed++
		}
	})
	if err != nil {
		return removed, err
	}

	shards, _ := os.ReadDir(c.dir)
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}
		sub := filepath.Join(c.dir, shard.Name())
		if pending, _ := filepath.Glob(filepath.Join(sub, tempPattern)); len(pending) > 0 {
			for _, p := range pending {
				_ = os.Remove(p)
			}
		}
		_ = os.Remove(sub) // fails while non-empty
	}
	return removed, nil
}

// walk calls fn for each entry file. A missing root is an empty cache.
func (c *FileCache) walk(fn func(path string)) error {
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == c.dir {
				return err
			}
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), entryExt) {
			fn(path)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (c *FileCache) expired(expires time.Time) bool {
	return !expires.IsZero() && !c.now().Before(expires)
}

// path maps a key to <dir>/<first hash byte>/<rest of hash>.art.
func (c *FileCache) path(key string) string {
	sum := Hash([]byte(key))
	return filepath.Join(c.dir, sum[:2], sum[2:]+entryExt)
}

func encodeEntry(payload []byte, expires time.Time) []byte {
	buf := make([]byte, headerSize, headerSize+len(payload))
	copy(buf, entryMagic)
	if !expires.IsZero() {
		binary.BigEndian.PutUint64(buf[len(entryMagic):], uint64(expires.UnixNano()))
	}
	return append(buf, payload...)
}

func decodeEntry(raw []byte) (payload []byte, expires time.Time, ok bool) {
	if len(raw) < headerSize || !bytes.HasPrefix(raw, []byte(entryMagic)) {
		return nil, time.Time{}, false
	}
	if ns := binary.BigEndian.Uint64(raw[len(entryMagic):headerSize]); ns != 0 {
		expires = time.Unix(0, int64(ns))
	}
	return raw[headerSize:], expires, true
}

var _ Cache = (*FileCache)(nil)
