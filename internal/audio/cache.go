package audio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"codeberg.org/snonux/wordgarden/internal"
)

// Cache stores synthesized speech payloads by key
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, payload string) error
	Close() error
}

// SQLiteCache keeps payloads in a single sqlite file
type SQLiteCache struct {
	db *sql.DB
}

// OpenSQLiteCache opens (and creates if needed) the cache database
func OpenSQLiteCache(path string) (*SQLiteCache, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open speech cache: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS speech (
		key        TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create speech cache schema: %w", err)
	}

	return &SQLiteCache{db: db}, nil
}

// Get looks up a payload
func (c *SQLiteCache) Get(ctx context.Context, key string) (string, bool, error) {
	var payload string
	err := c.db.QueryRowContext(ctx, `SELECT payload FROM speech WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return payload, true, nil
}

// Put stores a payload, replacing an existing one
func (c *SQLiteCache) Put(ctx context.Context, key, payload string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO speech (key, payload, created_at) VALUES (?, ?, ?)`,
		key, payload, time.Now().Unix())
	return err
}

// Stats returns the number of cached entries and their total payload size
func (c *SQLiteCache) Stats(ctx context.Context) (count int, totalSize int64, err error) {
	err = c.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(LENGTH(payload)), 0) FROM speech`).Scan(&count, &totalSize)
	return count, totalSize, err
}

// Clear removes all cached payloads
func (c *SQLiteCache) Clear(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM speech`)
	return err
}

// Close closes the database
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// CachingProvider serves repeated texts from a cache
type CachingProvider struct {
	next     Provider
	cache    Cache
	identity string
	log      *zap.Logger
}

// NewCachingProvider wraps a provider with a cache. identity must change
// whenever the voice settings change.
func NewCachingProvider(next Provider, cache Cache, identity string, log *zap.Logger) *CachingProvider {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachingProvider{next: next, cache: cache, identity: identity, log: log}
}

// Synthesize returns the cached payload or synthesizes and stores it
func (p *CachingProvider) Synthesize(ctx context.Context, text string) (string, error) {
	key := internal.HashKey(p.identity, text)

	if payload, ok, err := p.cache.Get(ctx, key); err != nil {
		p.log.Warn("speech cache read failed", zap.Error(err))
	} else if ok {
		return payload, nil
	}

	payload, err := p.next.Synthesize(ctx, text)
	if err != nil {
		return "", err
	}

	if err := p.cache.Put(ctx, key, payload); err != nil {
		p.log.Warn("speech cache write failed", zap.Error(err))
	}
	return payload, nil
}

// Name returns the provider name
func (p *CachingProvider) Name() string {
	return p.next.Name()
}

// IsAvailable reports the wrapped provider's availability
func (p *CachingProvider) IsAvailable() error {
	return p.next.IsAvailable()
}

// Close releases the cache
func (p *CachingProvider) Close() error {
	return p.cache.Close()
}
