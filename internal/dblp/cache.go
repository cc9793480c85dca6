package dblp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/matsen/venuerank/internal/storage"
)

// CachedSource serves author searches and publication lists from a cache,
// falling back to the wrapped Source on a miss. Only successful responses
// are stored, so not-found and rate-limited answers are always retried.
type CachedSource struct {
	source Source
	cache  storage.Cache
	maxAge time.Duration
	logger *slog.Logger
}

var _ Source = (*CachedSource)(nil)

// NewCachedSource wraps source. maxAge of zero accepts entries of any age.
func NewCachedSource(source Source, cache storage.Cache, maxAge time.Duration, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{source: source, cache: cache, maxAge: maxAge, logger: logger}
}

// SearchAuthors implements Source.
func (c *CachedSource) SearchAuthors(ctx context.Context, name string, limit int) ([]AuthorHit, error) {
	key := fmt.Sprintf("%s|%d", strings.ToLower(strings.TrimSpace(name)), limit)

	var hits []AuthorHit
	if ok, err := c.cache.Get(storage.NamespaceSearch, key, c.maxAge, &hits); err != nil {
		c.logger.Warn("reading search cache", "key", key, "error", err)
	} else if ok {
		c.logger.Debug("search cache hit", "key", key)
		return hits, nil
	}

	hits, err := c.source.SearchAuthors(ctx, name, limit)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Put(storage.NamespaceSearch, key, hits); err != nil {
		c.logger.Warn("writing search cache", "key", key, "error", err)
	}
	return hits, nil
}

// PersonPublications implements Source.
func (c *CachedSource) PersonPublications(ctx context.Context, pid string) (*Person, error) {
	var p Person
	if ok, err := c.cache.Get(storage.NamespacePerson, pid, c.maxAge, &p); err != nil {
		c.logger.Warn("reading person cache", "pid", pid, "error", err)
	} else if ok {
		c.logger.Debug("person cache hit", "pid", pid)
		return &p, nil
	}

	person, err := c.source.PersonPublications(ctx, pid)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Put(storage.NamespacePerson, pid, person); err != nil {
		c.logger.Warn("writing person cache", "pid", pid, "error", err)
	}
	return person, nil
}
