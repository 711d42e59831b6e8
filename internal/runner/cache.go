// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runner

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/referee/internal/matrix"
	"github.com/pdiddy/referee/pkg/types"
)

const cacheDBFile = "answers.db"

// Cache persists model answers keyed by (model, service, prompt) so a rerun
// over the same paper does not repeat expensive model calls.
type Cache struct {
	db *sql.DB

	// Counters are shared by concurrent model chains.
	mu     sync.Mutex
	hits   int
	misses int
}

// Stats returns the hit and miss counts since the cache was opened.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Cache) recordHit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

func (c *Cache) recordMiss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}

// OpenCache opens or creates the answer database under dir.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, cacheDBFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	c := &Cache{db: db}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return c, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS answers (
			key TEXT PRIMARY KEY,
			model TEXT NOT NULL,
			service TEXT NOT NULL,
			answer TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_answers_model ON answers(model)`,
	}
	for _, stmt := range statements {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// get returns the cached answer for the key, if present.
func (c *Cache) get(ctx context.Context, key string) (string, bool, error) {
	var answer string
	err := c.db.QueryRowContext(ctx,
		`SELECT answer FROM answers WHERE key = ?`, key,
	).Scan(&answer)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return answer, true, nil
}

// put stores an answer, replacing any previous entry for the key.
func (c *Cache) put(ctx context.Context, key string, model types.ModelConfig, answer string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO answers (key, model, service, answer, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		key, model.Name, model.Service, answer,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// cacheKey derives a stable key from the model identity and the fully
// rendered prompt. Prompts embed the document text and any prior answers,
// so a changed input naturally misses.
func cacheKey(model types.ModelConfig, prompt string) string {
	h := sha256.New()
	h.Write([]byte(model.Name))
	h.Write([]byte{0})
	h.Write([]byte(model.Service))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return fmt.Sprintf("%x", h.Sum(nil))[:32]
}

// CachedRunner decorates a matrix.Runner with the answer cache. Cache read
// or write failures degrade to a direct call; they never fail the build.
type CachedRunner struct {
	Next  matrix.Runner
	Cache *Cache
}

// Evaluate returns the cached answer when present, otherwise delegates to
// the wrapped runner and stores the result.
func (r *CachedRunner) Evaluate(ctx context.Context, model types.ModelConfig, prompt string) (string, error) {
	key := cacheKey(model, prompt)

	if answer, ok, err := r.Cache.get(ctx, key); err == nil && ok {
		r.Cache.recordHit()
		return answer, nil
	}
	r.Cache.recordMiss()

	answer, err := r.Next.Evaluate(ctx, model, prompt)
	if err != nil {
		return "", err
	}
	if putErr := r.Cache.put(ctx, key, model, answer); putErr != nil {
		// A write failure only costs a future cache hit.
		return answer, nil
	}
	return answer, nil
}
