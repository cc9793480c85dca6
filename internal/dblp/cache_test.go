package dblp

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/matsen/venuerank/internal/storage"
)

func openCache(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.OpenDB(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCachedSourceServesRepeatLookups(t *testing.T) {
	src := &fakeSource{
		hits:   []AuthorHit{{PID: "12/345", Name: "Ada Lovelace"}},
		people: map[string]*Person{"12/345": person("12/345", "Ada Lovelace", "Notes on the Engine")},
	}
	cached := NewCachedSource(src, openCache(t), 0, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		hits, err := cached.SearchAuthors(ctx, " Ada Lovelace ", 10)
		if err != nil || len(hits) != 1 || hits[0].PID != "12/345" {
			t.Fatalf("SearchAuthors() = %+v, %v", hits, err)
		}
		p, err := cached.PersonPublications(ctx, "12/345")
		if err != nil || p.Name != "Ada Lovelace" || len(p.Records) != 1 {
			t.Fatalf("PersonPublications() = %+v, %v", p, err)
		}
	}

	if len(src.fetched) != 1 {
		t.Errorf("fetched %v, want one network fetch", src.fetched)
	}
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	src := &fakeSource{
		errs: map[string]error{"1/1": fmt.Errorf("%w: status 429", ErrRateLimited)},
	}
	cached := NewCachedSource(src, openCache(t), 0, nil)

	for i := 0; i < 2; i++ {
		if _, err := cached.PersonPublications(context.Background(), "1/1"); !IsRateLimited(err) {
			t.Fatalf("PersonPublications() error = %v, want rate limited", err)
		}
	}
	if len(src.fetched) != 2 {
		t.Errorf("fetched %v, want the failure retried", src.fetched)
	}
}
