package core

import (
	"log/slog"
	"strings"

	"github.com/matsen/venuerank/internal/acronym"
	"github.com/matsen/venuerank/internal/similarity"
	"github.com/matsen/venuerank/internal/textnorm"
)

// AmbiguityThreshold is the minimum similarity between a supplied full venue
// title and a candidate's title for an ambiguous acronym to be resolved.
const AmbiguityThreshold = 0.85

// DefaultDenylist holds substrings that mark a venue as not a main-track
// conference. Matching is case-insensitive against the raw venue text.
var DefaultDenylist = []string{
	"workshop",
	"poster",
	"demo",
	"doctoral symposium",
	"doctoral consortium",
	"tutorial",
	"companion",
	"extended abstract",
	"student research",
	"short paper",
	"late-breaking",
	"late breaking",
}

// Stage names the cascade step that produced a Match.
type Stage string

const (
	StageDenied    Stage = "denied"
	StageAcronym   Stage = "acronym"
	StageAmbiguous Stage = "ambiguous"
	StageSubstring Stage = "substring"
	StageFuzzy     Stage = "fuzzy"
	StageNone      Stage = "none"
)

// Match is the outcome of a resolution. Rank is RankNA unless a stage
// accepted an entry.
type Match struct {
	Rank    Rank    `json:"rank"`
	Stage   Stage   `json:"stage"`
	Title   string  `json:"title,omitempty"`
	Acronym string  `json:"acronym,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

func noMatch(stage Stage) Match {
	return Match{Rank: RankNA, Stage: stage}
}

func matchOf(e indexedEntry, stage Stage, score float64) Match {
	return Match{Rank: e.Rank, Stage: stage, Title: e.Title, Acronym: e.Acronym, Score: score}
}

// Resolver runs the CORE matching cascade. It holds no per-query state and is
// safe for concurrent use.
type Resolver struct {
	ambiguityThreshold float64
	fuzzyThreshold     float64
	denylist           []string
	logger             *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAmbiguityThreshold overrides AmbiguityThreshold.
func WithAmbiguityThreshold(t float64) Option {
	return func(r *Resolver) {
		r.ambiguityThreshold = t
	}
}

// WithFuzzyThreshold overrides similarity.FuzzyThreshold for the fuzzy stage.
func WithFuzzyThreshold(t float64) Option {
	return func(r *Resolver) {
		r.fuzzyThreshold = t
	}
}

// WithDenylist replaces DefaultDenylist.
func WithDenylist(terms []string) Option {
	return func(r *Resolver) {
		r.denylist = make([]string, 0, len(terms))
		for _, t := range terms {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				r.denylist = append(r.denylist, t)
			}
		}
	}
}

// WithLogger sets the logger used for ambiguity diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates a Resolver with default thresholds and denylist.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		ambiguityThreshold: AmbiguityThreshold,
		fuzzyThreshold:     similarity.FuzzyThreshold,
		denylist:           DefaultDenylist,
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Denied reports whether any of the given venue strings contains a
// denylisted term.
func (r *Resolver) Denied(venues ...string) bool {
	for _, v := range venues {
		lower := strings.ToLower(v)
		for _, term := range r.denylist {
			if strings.Contains(lower, term) {
				return true
			}
		}
	}
	return false
}

// Resolve maps a venue key (acronym or short label) and an optional full
// venue title to a CORE rank within ds.
func (r *Resolver) Resolve(ds *Dataset, venueKey, fullTitle string) Match {
	if ds == nil || (strings.TrimSpace(venueKey) == "" && strings.TrimSpace(fullTitle) == "") {
		return noMatch(StageNone)
	}
	if r.Denied(venueKey, fullTitle) {
		return noMatch(StageDenied)
	}

	if m, decided := r.byAcronym(ds, venueKey, fullTitle); decided {
		return m
	}
	return r.byTitle(ds, venueKey, fullTitle)
}

// ResolveRaw handles a bare venue string with no separate acronym: each
// extracted acronym candidate is tried against the acronym index before the
// title stages run on the raw string.
func (r *Resolver) ResolveRaw(ds *Dataset, rawVenue string) Match {
	if ds == nil || strings.TrimSpace(rawVenue) == "" {
		return noMatch(StageNone)
	}
	if r.Denied(rawVenue) {
		return noMatch(StageDenied)
	}

	for _, candidate := range acronym.Extract(rawVenue) {
		if m, decided := r.byAcronym(ds, candidate, rawVenue); decided {
			return m
		}
	}
	return r.byTitle(ds, rawVenue, "")
}

// byAcronym is cascade step 1. decided is false when no entry carries the
// acronym, meaning the title stages should run.
func (r *Resolver) byAcronym(ds *Dataset, venueKey, fullTitle string) (Match, bool) {
	key := acronymKey(venueKey)
	if key == "" {
		return Match{}, false
	}
	idxs := ds.byAcronym[key]
	switch len(idxs) {
	case 0:
		return Match{}, false
	case 1:
		return matchOf(ds.entries[idxs[0]], StageAcronym, 1), true
	}

	query := textnorm.NormalizeVenue(fullTitle)
	if query == "" {
		r.logger.Debug("ambiguous acronym without full title",
			"acronym", key, "edition", ds.Edition, "candidates", len(idxs))
		return noMatch(StageAmbiguous), true
	}

	best, bestScore := -1, 0.0
	for _, i := range idxs {
		if s := similarity.Score(query, ds.entries[i].normTitle); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 || bestScore < r.ambiguityThreshold {
		r.logger.Debug("ambiguous acronym not disambiguated",
			"acronym", key, "edition", ds.Edition, "title", fullTitle, "best_score", bestScore)
		return noMatch(StageAmbiguous), true
	}
	return matchOf(ds.entries[best], StageAcronym, bestScore), true
}

// byTitle runs cascade steps 2 (substring containment) and 3 (fuzzy).
func (r *Resolver) byTitle(ds *Dataset, venueKey, fullTitle string) Match {
	var queries []string
	for _, q := range []string{venueKey, fullTitle} {
		if n := textnorm.NormalizeVenue(q); n != "" {
			queries = append(queries, n)
		}
	}
	if len(queries) == 0 {
		return noMatch(StageNone)
	}

	best := -1
	for i, e := range ds.entries {
		if len(e.stripped) < MinContainedTitleLength {
			continue
		}
		if best >= 0 && len(e.stripped) <= len(ds.entries[best].stripped) {
			continue
		}
		for _, q := range queries {
			if strings.Contains(q, e.stripped) {
				best = i
				break
			}
		}
	}
	if best >= 0 {
		return matchOf(ds.entries[best], StageSubstring, 1)
	}

	fuzzyQueries := make([]string, len(queries))
	for i, q := range queries {
		fuzzyQueries[i] = textnorm.StripOrgPrefixes(q)
	}
	bestScore := 0.0
	for i, e := range ds.entries {
		if len(e.stripped) < MinContainedTitleLength {
			continue
		}
		for _, q := range fuzzyQueries {
			if s := similarity.Score(q, e.stripped); s > bestScore {
				best, bestScore = i, s
			}
		}
	}
	if best >= 0 && bestScore >= r.fuzzyThreshold {
		return matchOf(ds.entries[best], StageFuzzy, bestScore)
	}
	return noMatch(StageNone)
}
