package dblp

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/matsen/venuerank/internal/similarity"
	"github.com/matsen/venuerank/internal/textnorm"
)

// Identity resolution defaults.
const (
	MinNameSimilarity = 0.65
	OverlapSimilarity = 0.85
	MinOverlap        = 2
	MinScore          = 2.5
	HubThreshold      = 3
	MaxVariants       = 12

	// Score weights.
	NameWeight    = 2.0
	OverlapWeight = 1.0

	// YearTolerance is how far apart a sample year and a record year may be
	// while still counting as the same paper. Preprints often precede the
	// published version by a year.
	YearTolerance = 1
)

// Source is the part of Client the resolver needs.
type Source interface {
	SearchAuthors(ctx context.Context, name string, limit int) ([]AuthorHit, error)
	PersonPublications(ctx context.Context, pid string) (*Person, error)
}

// Sample is a known publication of the author being resolved. Year is
// optional.
type Sample struct {
	Title string `json:"title"`
	Year  int    `json:"year,omitempty"`
}

// State is the position of a candidate in the guess-and-check state machine:
// pending -> scored -> accepted | rejected, or pending -> rejected.
type State string

const (
	StatePending  State = "pending"
	StateScored   State = "scored"
	StateAccepted State = "accepted"
	StateRejected State = "rejected"
)

// Outcome records why a candidate ended in its final state.
type Outcome string

const (
	OutcomeNone         Outcome = ""
	OutcomeAccepted     Outcome = "accepted"
	OutcomeNameMismatch Outcome = "name_mismatch"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeFetchFailed  Outcome = "fetch_failed"
	OutcomeWeakEvidence Outcome = "weak_evidence"
	OutcomeOutscored    Outcome = "outscored"
)

// Candidate is one DBLP person considered during a resolution run.
type Candidate struct {
	PID            string  `json:"pid"`
	Name           string  `json:"name"`
	Synthesized    bool    `json:"synthesized,omitempty"`
	NameSimilarity float64 `json:"name_similarity"`
	Overlap        int     `json:"overlap"`
	Score          float64 `json:"score"`
	State          State   `json:"state"`
	Outcome        Outcome `json:"outcome,omitempty"`

	person *Person
}

func (c *Candidate) reject(o Outcome) {
	c.State = StateRejected
	c.Outcome = o
}

// Resolution is the result of one run. When Matched is false the other
// identity fields are empty and Candidates explains why.
type Resolution struct {
	Query      string      `json:"query"`
	Matched    bool        `json:"matched"`
	PID        string      `json:"pid,omitempty"`
	Name       string      `json:"name,omitempty"`
	Score      float64     `json:"score,omitempty"`
	Overlap    int         `json:"overlap,omitempty"`
	Hub        bool        `json:"hub,omitempty"`
	Records    []Record    `json:"records,omitempty"`
	Candidates []Candidate `json:"candidates"`
}

// Thresholds tune acceptance.
type Thresholds struct {
	MinNameSimilarity float64
	OverlapSimilarity float64
	MinOverlap        int
	MinScore          float64
	HubThreshold      int
	MaxVariants       int
}

// DefaultThresholds returns the package defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinNameSimilarity: MinNameSimilarity,
		OverlapSimilarity: OverlapSimilarity,
		MinOverlap:        MinOverlap,
		MinScore:          MinScore,
		HubThreshold:      HubThreshold,
		MaxVariants:       MaxVariants,
	}
}

// Accepts reports whether a candidate with this evidence may be accepted.
func (t Thresholds) Accepts(overlap int, score float64) bool {
	return overlap >= t.MinOverlap && score >= t.MinScore
}

// CompositeScore weighs name similarity against the number of confirmed
// sample titles.
func CompositeScore(nameSimilarity float64, overlap int) float64 {
	return NameWeight*nameSimilarity + OverlapWeight*float64(overlap)
}

// IdentityResolver finds the DBLP person matching a display name, confirmed
// by overlap with sample titles.
type IdentityResolver struct {
	source      Source
	thresholds  Thresholds
	searchLimit int
	logger      *slog.Logger
}

// ResolverOption configures an IdentityResolver.
type ResolverOption func(*IdentityResolver)

// WithThresholds replaces the acceptance thresholds. Zero fields keep their
// defaults.
func WithThresholds(t Thresholds) ResolverOption {
	return func(r *IdentityResolver) {
		d := &r.thresholds
		if t.MinNameSimilarity > 0 {
			d.MinNameSimilarity = t.MinNameSimilarity
		}
		if t.OverlapSimilarity > 0 {
			d.OverlapSimilarity = t.OverlapSimilarity
		}
		if t.MinOverlap > 0 {
			d.MinOverlap = t.MinOverlap
		}
		if t.MinScore > 0 {
			d.MinScore = t.MinScore
		}
		if t.HubThreshold > 0 {
			d.HubThreshold = t.HubThreshold
		}
		if t.MaxVariants > 0 {
			d.MaxVariants = t.MaxVariants
		}
	}
}

// WithSearchLimit caps the number of author search hits requested.
func WithSearchLimit(n int) ResolverOption {
	return func(r *IdentityResolver) {
		r.searchLimit = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *IdentityResolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewIdentityResolver creates a resolver backed by source.
func NewIdentityResolver(source Source, opts ...ResolverOption) *IdentityResolver {
	r := &IdentityResolver{
		source:      source,
		thresholds:  DefaultThresholds(),
		searchLimit: DefaultSearchLimit,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve searches for name and confirms candidates against samples.
//
// A candidate whose publications cannot be fetched is rejected and the run
// continues. A rate-limited response from either endpoint aborts the run with
// an error matching ErrRateLimited; the partial Resolution is still returned
// so callers can report progress.
func (r *IdentityResolver) Resolve(ctx context.Context, name string, samples []Sample) (*Resolution, error) {
	query := textnorm.SanitizeName(name)
	res := &Resolution{Query: query, Candidates: []Candidate{}}
	if query == "" {
		return res, nil
	}

	hits, err := r.source.SearchAuthors(ctx, name, r.searchLimit)
	if err != nil {
		return res, fmt.Errorf("searching authors for %q: %w", name, err)
	}

	candidates, hub := r.candidates(hits)
	res.Hub = hub
	if hub {
		r.logger.Debug("author search returned a hub page, synthesizing variants",
			"query", query, "hits", len(hits), "variants", len(candidates))
	}

	sampleKeys := normalizeSamples(samples)

	var best *Candidate
	for i := range candidates {
		c := &candidates[i]
		c.NameSimilarity = similarity.Score(query, textnorm.SanitizeName(c.Name))
		if c.NameSimilarity < r.thresholds.MinNameSimilarity {
			c.reject(OutcomeNameMismatch)
			continue
		}

		person, err := r.source.PersonPublications(ctx, c.PID)
		if err != nil {
			if IsRateLimited(err) {
				res.Candidates = candidates
				return res, fmt.Errorf("fetching publications for %s: %w", c.PID, err)
			}
			if ctx.Err() != nil {
				res.Candidates = candidates
				return res, ctx.Err()
			}
			if IsNotFound(err) {
				c.reject(OutcomeNotFound)
			} else {
				c.reject(OutcomeFetchFailed)
			}
			r.logger.Debug("candidate rejected", "pid", c.PID, "error", err)
			continue
		}

		c.person = person
		if person.Name != "" && c.Synthesized {
			c.Name = person.Name
		}
		c.Overlap = r.overlap(sampleKeys, person.Records)
		c.Score = CompositeScore(c.NameSimilarity, c.Overlap)
		c.State = StateScored

		if best == nil || c.Score > best.Score {
			best = c
		}
	}

	for i := range candidates {
		c := &candidates[i]
		if c.State != StateScored {
			continue
		}
		switch {
		case c != best:
			c.reject(OutcomeOutscored)
		case r.thresholds.Accepts(c.Overlap, c.Score):
			c.State = StateAccepted
			c.Outcome = OutcomeAccepted
		default:
			c.reject(OutcomeWeakEvidence)
		}
	}

	res.Candidates = candidates
	if best != nil && best.State == StateAccepted {
		res.Matched = true
		res.PID = best.PID
		res.Name = best.Name
		res.Score = best.Score
		res.Overlap = best.Overlap
		res.Records = best.person.Records
	}
	return res, nil
}

var homonymSuffix = regexp.MustCompile(`-\d+$`)

// PIDPrefix removes a trailing homonym number from a PID.
func PIDPrefix(pid string) string {
	return homonymSuffix.ReplaceAllString(pid, "")
}

// candidates builds the candidate list from search hits. When one PID prefix
// occurs more than HubThreshold times the hits are a hub of homonyms and
// numbered variants of that prefix replace them.
func (r *IdentityResolver) candidates(hits []AuthorHit) ([]Candidate, bool) {
	counts := make(map[string]int)
	names := make(map[string]string)
	var order []string
	for _, h := range hits {
		p := PIDPrefix(h.PID)
		if counts[p] == 0 {
			order = append(order, p)
			names[p] = h.Name
		}
		counts[p]++
	}

	hubPrefix := ""
	for _, p := range order {
		if counts[p] > r.thresholds.HubThreshold && (hubPrefix == "" || counts[p] > counts[hubPrefix]) {
			hubPrefix = p
		}
	}

	if hubPrefix != "" {
		out := make([]Candidate, 0, r.thresholds.MaxVariants)
		for i := 1; i <= r.thresholds.MaxVariants; i++ {
			out = append(out, Candidate{
				PID:         hubPrefix + "-" + strconv.Itoa(i),
				Name:        names[hubPrefix],
				Synthesized: true,
				State:       StatePending,
			})
		}
		return out, true
	}

	out := make([]Candidate, 0, len(hits))
	seen := make(map[string]bool)
	for _, h := range hits {
		if seen[h.PID] {
			continue
		}
		seen[h.PID] = true
		out = append(out, Candidate{PID: h.PID, Name: h.Name, State: StatePending})
	}
	return out, false
}

type sampleKey struct {
	title string
	year  int
}

func normalizeSamples(samples []Sample) []sampleKey {
	keys := make([]sampleKey, 0, len(samples))
	for _, s := range samples {
		t := textnorm.Normalize(s.Title)
		if t == "" {
			continue
		}
		keys = append(keys, sampleKey{title: t, year: s.Year})
	}
	return keys
}

// overlap counts samples whose best title similarity against records exceeds
// OverlapSimilarity. Records more than YearTolerance years away from a dated
// sample are ignored for that sample.
func (r *IdentityResolver) overlap(samples []sampleKey, records []Record) int {
	titles := make([]string, len(records))
	for i, rec := range records {
		titles[i] = textnorm.Normalize(rec.Title)
	}

	count := 0
	for _, s := range samples {
		bestScore := 0.0
		for i, rec := range records {
			if s.year > 0 && rec.Year > 0 && abs(s.year-rec.Year) > YearTolerance {
				continue
			}
			if score := similarity.Score(s.title, titles[i]); score > bestScore {
				bestScore = score
			}
		}
		if bestScore > r.thresholds.OverlapSimilarity {
			count++
		}
	}
	return count
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
