package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matsen/venuerank/internal/core"
	"github.com/matsen/venuerank/internal/sjr"
	"github.com/matsen/venuerank/internal/textnorm"
)

// System is the ranking system that applies to a publication.
type System string

const (
	SystemCORE    System = "CORE"
	SystemSJR     System = "SJR"
	SystemUnknown System = "UNKNOWN"
)

// RankNA is reported when a system applies but nothing acceptable matched.
const RankNA = "N/A"

// DefaultMinPages is the page count below which a conference paper is
// treated as a short paper and left unranked.
const DefaultMinPages = 4

// MatchResult is the rank of one publication. System UNKNOWN means no
// ranking system applies; Rank N/A under CORE or SJR means the system
// applies but nothing matched.
type MatchResult struct {
	Rank   string `json:"rank"`
	System System `json:"system"`
}

// Ranked reports whether a real tier was assigned.
func (m MatchResult) Ranked() bool {
	return m.System != SystemUnknown && m.Rank != RankNA && m.Rank != ""
}

// Result pairs a publication with its match and how it was obtained.
type Result struct {
	Publication Publication `json:"publication"`
	Match       MatchResult `json:"match"`
	Detail      string      `json:"detail,omitempty"`
	MatchedName string      `json:"matched_name,omitempty"`
	Edition     int         `json:"edition,omitempty"`
	Year        int         `json:"year,omitempty"`
	Duplicate   bool        `json:"duplicate,omitempty"`
}

// Ranker routes publications to the CORE or SJR resolver. Either side may be
// nil, in which case publications of that kind are reported as UNKNOWN.
type Ranker struct {
	partitions  *core.Partitions
	core        *core.Resolver
	sjr         *sjr.Resolver
	minPages    int
	concurrency int
	logger      *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithMinPages sets the short-paper cutoff. Zero disables it.
func WithMinPages(n int) Option {
	return func(r *Ranker) {
		if n >= 0 {
			r.minPages = n
		}
	}
}

// WithConcurrency bounds the number of publications resolved at once.
func WithConcurrency(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Ranker) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRanker creates a Ranker. coreResolver defaults to core.NewResolver()
// when partitions is set.
func NewRanker(partitions *core.Partitions, coreResolver *core.Resolver, sjrResolver *sjr.Resolver, opts ...Option) *Ranker {
	if partitions != nil && coreResolver == nil {
		coreResolver = core.NewResolver()
	}
	r := &Ranker{
		partitions:  partitions,
		core:        coreResolver,
		sjr:         sjrResolver,
		minPages:    DefaultMinPages,
		concurrency: runtime.GOMAXPROCS(0),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank resolves one publication. It has no per-run state; duplicate
// handling happens in RankAll.
func (r *Ranker) Rank(ctx context.Context, pub Publication) (Result, error) {
	res := Result{Publication: pub}

	switch pub.ResolvedKind() {
	case KindConference:
		if r.partitions == nil {
			break
		}
		return r.rankConference(ctx, pub)
	case KindJournal:
		if r.sjr == nil {
			break
		}
		return r.rankJournal(ctx, pub)
	}

	res.Match = MatchResult{Rank: RankNA, System: SystemUnknown}
	return res, nil
}

func (r *Ranker) rankConference(ctx context.Context, pub Publication) (Result, error) {
	res := Result{Publication: pub, Match: MatchResult{Rank: RankNA, System: SystemCORE}}

	// venueQuery may drop the raw venue, so every venue field is screened here.
	if r.core.Denied(pub.Venue, pub.Acronym, pub.FullVenueTitle) {
		res.Detail = string(core.StageDenied)
		return res, nil
	}

	if r.minPages > 0 && pub.Pages > 0 && pub.Pages < r.minPages {
		res.Detail = "short_paper"
		return res, nil
	}

	ds, err := r.partitions.ForYear(ctx, pub.Year)
	if err != nil {
		return res, fmt.Errorf("loading CORE partition for %d: %w", pub.Year, err)
	}
	res.Edition = ds.Edition

	var m core.Match
	venueKey, fullTitle := venueQuery(pub)
	if venueKey == "" && fullTitle == "" {
		m = r.core.ResolveRaw(ds, pub.Venue)
	} else {
		m = r.core.Resolve(ds, venueKey, fullTitle)
	}

	res.Match.Rank = string(m.Rank)
	res.Detail = string(m.Stage)
	res.MatchedName = m.Title
	return res, nil
}

// venueQuery picks the acronym-style key and full title for the structured
// CORE path. Both are empty when the record only carries a raw venue string,
// which sends it down the extraction path instead.
func venueQuery(pub Publication) (venueKey, fullTitle string) {
	acr := strings.TrimSpace(pub.Acronym)
	full := strings.TrimSpace(pub.FullVenueTitle)
	venue := strings.TrimSpace(pub.Venue)

	if acr == "" && full == "" {
		return "", ""
	}
	if acr == "" {
		return venue, full
	}
	if full == "" && !strings.EqualFold(venue, acr) {
		full = venue
	}
	return acr, full
}

func (r *Ranker) rankJournal(ctx context.Context, pub Publication) (Result, error) {
	res := Result{Publication: pub, Match: MatchResult{Rank: RankNA, System: SystemSJR}}

	journal := pub.Venue
	if journal == "" {
		journal = pub.FullVenueTitle
	}
	sr, err := r.sjr.Resolve(ctx, journal, pub.Year)
	if err != nil {
		return res, fmt.Errorf("resolving journal %q: %w", journal, err)
	}

	res.Detail = string(sr.Status)
	if sr.Status == sjr.StatusSuccess {
		res.Match.Rank = string(sr.Quartile)
		res.MatchedName = sr.Title
		res.Year = sr.Year
	}
	return res, nil
}

// RankAll ranks pubs and returns one Result per publication in input order.
//
// Lookups run concurrently, but duplicate suppression is applied afterwards
// in a single pass in source order: the first record to earn a rank claims
// its Key and normalized title, and later records carrying either are marked
// Duplicate with rank N/A. The output is therefore identical to ranking the
// records one at a time.
func (r *Ranker) RankAll(ctx context.Context, pubs []Publication) ([]Result, error) {
	results := make([]Result, len(pubs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, pub := range pubs {
		i, pub := i, pub
		g.Go(func() error {
			res, err := r.Rank(gctx, pub)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	drain(results)
	return results, nil
}

// drain applies the per-run dedup state in order.
func drain(results []Result) {
	usedKeys := make(map[string]bool)
	rankedTitles := make(map[string]bool)

	for i := range results {
		res := &results[i]
		if !res.Match.Ranked() {
			continue
		}

		key := res.Publication.Key
		title := textnorm.Normalize(res.Publication.Title)
		if (key != "" && usedKeys[key]) || (title != "" && rankedTitles[title]) {
			res.Duplicate = true
			res.Match.Rank = RankNA
			res.Detail = "duplicate"
			continue
		}
		if key != "" {
			usedKeys[key] = true
		}
		if title != "" {
			rankedTitles[title] = true
		}
	}
}
