package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// DefaultEditions are the published CORE editions, oldest first.
var DefaultEditions = []int{2008, 2010, 2013, 2014, 2017, 2018, 2020, 2021, 2023}

// SelectEdition maps a publication year to the edition whose table should
// rank it: years at or after the newest edition use the newest, years at or
// before the oldest use the oldest, gaps fall back to the nearest earlier
// edition, and an unknown year (<= 0) uses the newest. editions must be
// sorted ascending and non-empty.
func SelectEdition(editions []int, year int) int {
	newest := editions[len(editions)-1]
	if year <= 0 || year >= newest {
		return newest
	}
	if year <= editions[0] {
		return editions[0]
	}
	i := sort.Search(len(editions), func(i int) bool { return editions[i] > year })
	return editions[i-1]
}

// LoaderFunc loads the raw rows of one edition.
type LoaderFunc func(ctx context.Context, edition int) ([]Entry, error)

// Partitions lazily loads and caches CORE editions. Each edition is loaded
// on first use and kept for the lifetime of the Partitions value. Failed
// loads are not cached.
type Partitions struct {
	editions []int
	load     LoaderFunc

	mu     sync.RWMutex
	loaded map[int]*Dataset
}

// NewPartitions creates a cache over the given editions. A nil or empty
// editions slice means DefaultEditions.
func NewPartitions(editions []int, load LoaderFunc) *Partitions {
	if len(editions) == 0 {
		editions = DefaultEditions
	}
	sorted := append([]int(nil), editions...)
	sort.Ints(sorted)
	return &Partitions{
		editions: sorted,
		load:     load,
		loaded:   make(map[int]*Dataset),
	}
}

// Editions returns the configured editions, oldest first.
func (p *Partitions) Editions() []int {
	return append([]int(nil), p.editions...)
}

// ForYear returns the dataset for the edition that ranks a publication from
// the given year.
func (p *Partitions) ForYear(ctx context.Context, year int) (*Dataset, error) {
	return p.Edition(ctx, SelectEdition(p.editions, year))
}

// Edition returns the dataset for one edition, loading it if needed.
// Concurrent first loads may both run; the first stored result wins.
func (p *Partitions) Edition(ctx context.Context, edition int) (*Dataset, error) {
	p.mu.RLock()
	ds, ok := p.loaded[edition]
	p.mu.RUnlock()
	if ok {
		return ds, nil
	}

	entries, err := p.load(ctx, edition)
	if err != nil {
		return nil, fmt.Errorf("loading CORE %d: %w", edition, err)
	}
	fresh := NewDataset(edition, entries)

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.loaded[edition]; ok {
		return existing, nil
	}
	p.loaded[edition] = fresh
	return fresh, nil
}
