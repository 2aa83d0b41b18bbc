package scorer

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	_ "modernc.org/sqlite"

	"github.com/tsawler/pagelayout/internal/logger"
	"github.com/tsawler/pagelayout/layout"
)

const cacheSchema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

CREATE TABLE IF NOT EXISTS ranks (
    box_hash TEXT PRIMARY KEY,
    box_count INTEGER NOT NULL,
    ranks TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// Cache wraps a scorer and persists its rank lists in SQLite, keyed by the
// SHA-256 of the box list. Identical pages are scored once.
type Cache struct {
	db     *sql.DB
	next   layout.Scorer
	hits   atomic.Int64
	misses atomic.Int64
}

// OpenCache opens or creates the cache database at path. Use ":memory:" for
// a process-local cache.
func OpenCache(path string, next layout.Scorer) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	// :memory: databases are per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(cacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &Cache{db: db, next: next}, nil
}

// Close closes the cache database
func (c *Cache) Close() error {
	return c.db.Close()
}

// Stats returns the number of cache hits and misses so far
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Score implements layout.Scorer
func (c *Cache) Score(ctx context.Context, boxes []layout.Box) ([]int, error) {
	key, err := boxHash(boxes)
	if err != nil {
		return nil, err
	}

	var stored string
	err = c.db.QueryRowContext(ctx, "SELECT ranks FROM ranks WHERE box_hash = ?", key).Scan(&stored)
	switch {
	case err == nil:
		var ranks []int
		if err := json.Unmarshal([]byte(stored), &ranks); err == nil && layout.ValidateRanks(ranks, len(boxes)) == nil {
			c.hits.Add(1)
			return ranks, nil
		}
		logger.Warn("rank cache: discarding corrupt entry %s", key)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("failed to query rank cache: %w", err)
	}

	c.misses.Add(1)
	ranks, err := c.next.Score(ctx, boxes)
	if err != nil {
		return nil, err
	}
	// only permutations are stored; the engine rejects anything else
	if err := layout.ValidateRanks(ranks, len(boxes)); err != nil {
		logger.Debug("rank cache: not storing entry %s: %v", key, err)
		return ranks, nil
	}

	encoded, err := json.Marshal(ranks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ranks: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO ranks (box_hash, box_count, ranks) VALUES (?, ?, ?)",
		key, len(boxes), string(encoded))
	if err != nil {
		logger.Warn("rank cache: failed to store entry: %v", err)
	}
	return ranks, nil
}

func boxHash(boxes []layout.Box) (string, error) {
	data, err := json.Marshal(boxes)
	if err != nil {
		return "", fmt.Errorf("failed to encode boxes: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
