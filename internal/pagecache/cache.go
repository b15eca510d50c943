// Package pagecache keeps search results and fetched pages in sqlite so
// repeated crawls do not hit the website again.
package pagecache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gatherer-crawler/internal/components/assert"
	"gatherer-crawler/internal/components/chrono"
	"gatherer-crawler/internal/components/telemetry"
	"gatherer-crawler/internal/resolver"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

const (
	report_cache_get   = "cache.get"
	report_cache_put   = "cache.put"
	report_cache_purge = "cache.purge"
)

const (
	kindSearch = "search"
	kindPage   = "page"
)

type Cache struct {
	db   *sql.DB
	ttl  time.Duration
	time chrono.API
	tel  telemetry.API
}

// Open opens (or creates) the cache at `path`, entries older than `ttl` are
// treated as missing. Use ":memory:" for a cache that lives as long as the
// process.
func Open(path string, ttl time.Duration, clock chrono.API, tel telemetry.API) (*Cache, error) {
	assert.NotNil(clock)
	assert.NotNil(tel)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite only supports one writer, :memory: databases are also per connection.
	db.SetMaxOpenConns(1)
	if path != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("enable wal: %w", err)
		}
	}

	_, err = db.Exec(Schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Cache{
		db:   db,
		ttl:  ttl,
		time: clock,
		tel:  telemetry.NewScopedAPI("pagecache", tel),
	}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) oldest() int64 {
	return c.time.Now().Add(-c.ttl).Unix()
}

func (c *Cache) get(ctx context.Context, kind, key string) ([]byte, bool) {
	var body []byte
	err := c.db.QueryRowContext(
		ctx,
		"select body from cached_page where kind = ? and key = ? and created_at >= ?",
		kind, key, c.oldest(),
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		c.tel.ReportBroken(report_cache_get, err, kind, key)
		return nil, false
	}
	return body, true
}

func (c *Cache) put(ctx context.Context, kind, key string, body []byte) {
	_, err := c.db.ExecContext(
		ctx,
		`insert into cached_page(kind, key, body, created_at) values (?, ?, ?, ?)
		on conflict(kind, key) do update set body = excluded.body, created_at = excluded.created_at`,
		kind, key, body, c.time.Now().Unix(),
	)
	if err != nil {
		c.tel.ReportBroken(report_cache_put, err, kind, key)
	}
}

// Purge deletes expired entries and returns how many were deleted.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, "delete from cached_page where created_at < ?", c.oldest())
	if err != nil {
		c.tel.ReportBroken(report_cache_purge, err)
		return 0, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	c.tel.ReportCount(report_cache_purge, count)
	return count, nil
}

// Fetcher has the same shape as the crawler's fetch capability.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

type cachedFetcher struct {
	cache *Cache
	inner Fetcher
}

func (f cachedFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if body, ok := f.cache.get(ctx, kindPage, ref); ok {
		f.cache.tel.ReportDebug("page hit", ref)
		return body, nil
	}
	body, err := f.inner.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	f.cache.put(ctx, kindPage, ref, body)
	return body, nil
}

// Fetcher wraps `inner` so pages are read from the cache when present.
// Failed fetches are never cached.
func (c *Cache) Fetcher(inner Fetcher) Fetcher {
	assert.NotNil(inner)
	return cachedFetcher{cache: c, inner: inner}
}

type cachedSearcher struct {
	cache *Cache
	inner resolver.Searcher
}

type storedCandidate struct {
	DisplayName string `json:"display_name"`
	Ref         string `json:"ref"`
}

func (s cachedSearcher) Search(ctx context.Context, name string) ([]resolver.Candidate, error) {
	if body, ok := s.cache.get(ctx, kindSearch, name); ok {
		var stored []storedCandidate
		err := json.Unmarshal(body, &stored)
		if err == nil {
			s.cache.tel.ReportDebug("search hit", name)
			candidates := make([]resolver.Candidate, len(stored))
			for i, c := range stored {
				candidates[i] = resolver.Candidate{DisplayName: c.DisplayName, Ref: c.Ref}
			}
			return candidates, nil
		}
		s.cache.tel.ReportBroken(report_cache_get, fmt.Errorf("unmarshal search: %w", err), name)
	}

	candidates, err := s.inner.Search(ctx, name)
	if err != nil {
		return nil, err
	}

	stored := make([]storedCandidate, len(candidates))
	for i, c := range candidates {
		stored[i] = storedCandidate{DisplayName: c.DisplayName, Ref: c.Ref}
	}
	body, err := json.Marshal(stored)
	if err != nil {
		s.cache.tel.ReportBroken(report_cache_put, fmt.Errorf("marshal search: %w", err), name)
		return candidates, nil
	}
	s.cache.put(ctx, kindSearch, name, body)
	return candidates, nil
}

// Searcher wraps `inner` so search results are read from the cache when
// present.
func (c *Cache) Searcher(inner resolver.Searcher) resolver.Searcher {
	assert.NotNil(inner)
	return cachedSearcher{cache: c, inner: inner}
}
