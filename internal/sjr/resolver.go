package sjr

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/matsen/venuerank/internal/similarity"
	"github.com/matsen/venuerank/internal/textnorm"
)

// Thresholds for the fuzzy journal match.
const (
	// ImmediateAcceptThreshold short-circuits the candidate scan.
	ImmediateAcceptThreshold = 0.98
	// CandidateFloor is the lowest score kept as a candidate.
	CandidateFloor = 0.88
)

// Status is the outcome class of a journal lookup.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusNotFound Status = "not_found"
	StatusError    Status = "error"
)

// Result is the outcome of Resolve.
type Result struct {
	Status   Status   `json:"status"`
	Quartile Quartile `json:"quartile,omitempty"`
	Year     int      `json:"year,omitempty"`
	Title    string   `json:"title,omitempty"`
	Score    float64  `json:"score,omitempty"`
}

// LoaderFunc loads every yearly SJR row.
type LoaderFunc func(ctx context.Context) ([]Row, error)

// lookup is a cached title match; entry is nil for a cached not-found.
type lookup struct {
	entry *Entry
	score float64
}

// Resolver matches journal names against the merged SJR dataset. The dataset
// is loaded on first use; matches are cached per normalized title for the
// lifetime of the Resolver. Safe for concurrent use.
type Resolver struct {
	load           LoaderFunc
	fuzzyThreshold float64
	logger         *slog.Logger

	loadMu  sync.Mutex
	dataset *Dataset

	cacheMu sync.RWMutex
	cache   map[string]lookup
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFuzzyThreshold overrides similarity.FuzzyThreshold.
func WithFuzzyThreshold(t float64) Option {
	return func(r *Resolver) {
		r.fuzzyThreshold = t
	}
}

// WithLogger sets the resolver's logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates a Resolver that loads its dataset with load.
func NewResolver(load LoaderFunc, opts ...Option) *Resolver {
	r := &Resolver{
		load:           load,
		fuzzyThreshold: similarity.FuzzyThreshold,
		logger:         slog.Default(),
		cache:          make(map[string]lookup),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StaticRows returns a LoaderFunc serving fixed rows, for tests and callers
// that already hold the data.
func StaticRows(rows []Row) LoaderFunc {
	return func(context.Context) ([]Row, error) {
		return rows, nil
	}
}

// Dataset returns the merged dataset, loading it on first call. A failed
// load is retried on the next call.
func (r *Resolver) Dataset(ctx context.Context) (*Dataset, error) {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()
	if r.dataset != nil {
		return r.dataset, nil
	}
	rows, err := r.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading SJR tables: %w", err)
	}
	r.dataset = NewDataset(rows)
	r.logger.Debug("loaded SJR dataset", "journals", r.dataset.Len(), "start_year", r.dataset.StartYear())
	return r.dataset, nil
}

// Resolve maps a journal name and optional publication year (<= 0 for
// unknown) to a quartile. A non-nil error accompanies StatusError only.
func (r *Resolver) Resolve(ctx context.Context, journal string, year int) (Result, error) {
	norm := textnorm.Normalize(journal)
	if norm == "" {
		return Result{Status: StatusNotFound}, nil
	}

	ds, err := r.Dataset(ctx)
	if err != nil {
		return Result{Status: StatusError}, err
	}

	r.cacheMu.RLock()
	hit, cached := r.cache[norm]
	r.cacheMu.RUnlock()
	if !cached {
		hit = r.match(ds, norm)
		r.cacheMu.Lock()
		if existing, ok := r.cache[norm]; ok {
			hit = existing
		} else {
			r.cache[norm] = hit
		}
		r.cacheMu.Unlock()
	}

	if hit.entry == nil {
		return Result{Status: StatusNotFound}, nil
	}
	y, q, ok := SelectYear(hit.entry.Quartiles, ds.StartYear(), year)
	if !ok {
		return Result{Status: StatusNotFound}, nil
	}
	return Result{
		Status:   StatusSuccess,
		Quartile: q,
		Year:     y,
		Title:    hit.entry.Title,
		Score:    hit.score,
	}, nil
}

// match finds the entry for a normalized journal title: direct lookup first,
// then token-prefiltered fuzzy scoring.
func (r *Resolver) match(ds *Dataset, norm string) lookup {
	if e, ok := ds.Lookup(norm); ok {
		return lookup{entry: e, score: 1}
	}

	var best *Entry
	bestScore := 0.0
	for _, e := range ds.candidates(textnorm.SignificantTokens(norm)) {
		s := similarity.Score(norm, e.NormalizedTitle)
		if s >= ImmediateAcceptThreshold {
			return lookup{entry: e, score: s}
		}
		if s >= CandidateFloor && s > bestScore {
			best, bestScore = e, s
		}
	}
	if best != nil && bestScore >= r.fuzzyThreshold {
		r.logger.Debug("fuzzy journal match", "query", norm, "match", best.NormalizedTitle, "score", bestScore)
		return lookup{entry: best, score: bestScore}
	}
	return lookup{}
}
