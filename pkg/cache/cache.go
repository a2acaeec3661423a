// Package cache stores compiled chunks keyed by source hash, so a module
// whose source has not changed is rebuilt from its serialized prototype
// instead of being recompiled.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/selene-lang/selene/pkg/wire"
)

// Cache is a SQLite-backed store of serialized prototypes.
type Cache struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS chunks (
		hash TEXT PRIMARY KEY,
		module TEXT NOT NULL,
		data BLOB NOT NULL,
		created_at INTEGER NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating chunks table: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Key derives the cache key for a module's source bytes.
func Key(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// Put serializes proto and stores it under key, replacing any previous
// entry.
func (c *Cache) Put(key string, proto *wire.Proto) error {
	data, err := wire.Marshal(proto)
	if err != nil {
		return fmt.Errorf("serializing chunk %s: %w", proto.Module, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO chunks (hash, module, data, created_at) VALUES (?, ?, ?, ?)`,
		key, proto.Module, data, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("storing chunk %s: %w", proto.Module, err)
	}
	return nil
}

// Get loads the prototype stored under key. The second result is false
// when the key is absent.
func (c *Cache) Get(key string) (*wire.Proto, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var data []byte
	err := c.db.QueryRow(`SELECT data FROM chunks WHERE hash = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading chunk %s: %w", key, err)
	}

	proto, err := wire.Unmarshal(data)
	if err != nil {
		return nil, false, fmt.Errorf("decoding chunk %s: %w", key, err)
	}
	return proto, true, nil
}

// Stat returns the number of cached chunks and their total serialized
// size in bytes.
func (c *Cache) Stat() (entries int, size int64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(LENGTH(data)), 0) FROM chunks`).Scan(&entries, &size)
	if err != nil {
		return 0, 0, fmt.Errorf("reading cache stats: %w", err)
	}
	return entries, size, nil
}

// Clear removes every cached chunk.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.Exec(`DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
