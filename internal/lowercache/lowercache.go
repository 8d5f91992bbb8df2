package lowercache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"sandpit/internal/erase"
)

// Current schema version - increment when Payload format changes
const schemaVersion uint16 = 1

// Digest — sha256 от исходника вместе с именем набора правил.
type Digest [sha256.Size]byte

// Key derives the cache key for a source text under a ruleset.
// Имя набора правил входит в хеш: один и тот же текст, пониженный разными
// правилами, даёт разные записи.
func Key(text string, rs erase.Ruleset) Digest {
	h := sha256.New()
	h.Write([]byte(rs.String()))
	h.Write([]byte{0})
	h.Write([]byte(text))
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Payload stores one lowered snippet for fast reruns.
type Payload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Ruleset uint8 // erase.Ruleset
	Lowered string
}

// Cache хранит пониженные формы снипетов по ключу Digest на диске.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes and returns a cache at the standard location.
func Open(app string) (*Cache, error) {
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
	return &Cache{dir: dir}, nil
}

// OpenAt returns a cache rooted at an explicit directory (tests, --cache-dir).
func OpenAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог "lowered" — удобнее чистить и смотреть глазами.
	return filepath.Join(c.dir, "lowered", hexKey+".mp")
}

// Put serializes and writes a lowered form to the cache.
// Версию схемы проставляет сам: вызывающему она не видна.
func (c *Cache) Put(key Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	payload.Schema = schemaVersion
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
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a lowered form from the cache. Записи чужой схемы или чужого
// набора правил считаются промахом, не ошибкой.
func (c *Cache) Get(key Digest, rs erase.Ruleset) (string, bool, error) {
	if c == nil {
		return "", false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	defer func() {
		_ = f.Close()
	}()

	var payload Payload
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&payload); err != nil {
		return "", false, err
	}
	if payload.Schema != schemaVersion || erase.Ruleset(payload.Ruleset) != rs {
		return "", false, nil
	}
	return payload.Lowered, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
