// Package sjr resolves journal names to SJR quartiles.
package sjr

import (
	"sort"
	"strings"

	"github.com/matsen/venuerank/internal/textnorm"
)

// Quartile is an SJR journal quartile, Q1 (best) to Q4.
type Quartile string

const (
	Q1 Quartile = "Q1"
	Q2 Quartile = "Q2"
	Q3 Quartile = "Q3"
	Q4 Quartile = "Q4"
)

// ParseQuartile parses a table cell such as "Q2" or " q1 ". Anything else
// (including the "-" SJR uses for unranked journals) is rejected.
func ParseQuartile(s string) (Quartile, bool) {
	switch q := Quartile(strings.ToUpper(strings.TrimSpace(s))); q {
	case Q1, Q2, Q3, Q4:
		return q, true
	}
	return "", false
}

// better reports whether q is a strictly better tier than other.
func (q Quartile) better(other Quartile) bool {
	return q < other
}

// Row is one source row of a yearly SJR table.
type Row struct {
	Title    string
	Year     int
	Quartile string
}

// Entry is a journal merged across all yearly tables.
type Entry struct {
	NormalizedTitle string
	Title           string
	Quartiles       map[int]Quartile
	Tokens          []string
}

// Years returns the years with quartile data, ascending.
func (e *Entry) Years() []int {
	years := make([]int, 0, len(e.Quartiles))
	for y := range e.Quartiles {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Dataset is the merged multi-year SJR table, indexed by normalized title and
// by significant token. It is immutable after construction.
type Dataset struct {
	entries   []*Entry
	byTitle   map[string]*Entry
	byToken   map[string][]int
	startYear int
}

// NewDataset merges yearly rows by normalized title. When rows collide the
// better quartile wins per year and the longer raw title is kept for display.
// Rows without a valid quartile or year are skipped.
func NewDataset(rows []Row) *Dataset {
	ds := &Dataset{
		byTitle: make(map[string]*Entry),
		byToken: make(map[string][]int),
	}

	for _, row := range rows {
		q, ok := ParseQuartile(row.Quartile)
		if !ok || row.Year <= 0 {
			continue
		}
		norm := textnorm.Normalize(row.Title)
		if norm == "" {
			continue
		}

		e, exists := ds.byTitle[norm]
		if !exists {
			e = &Entry{
				NormalizedTitle: norm,
				Title:           strings.TrimSpace(row.Title),
				Quartiles:       make(map[int]Quartile),
				Tokens:          textnorm.SignificantTokens(norm),
			}
			ds.byTitle[norm] = e
			ds.entries = append(ds.entries, e)
			for _, tok := range e.Tokens {
				ds.byToken[tok] = append(ds.byToken[tok], len(ds.entries)-1)
			}
		} else if raw := strings.TrimSpace(row.Title); len(raw) > len(e.Title) {
			e.Title = raw
		}

		if cur, ok := e.Quartiles[row.Year]; !ok || q.better(cur) {
			e.Quartiles[row.Year] = q
		}
		if ds.startYear == 0 || row.Year < ds.startYear {
			ds.startYear = row.Year
		}
	}
	return ds
}

// Len returns the number of merged journals.
func (d *Dataset) Len() int {
	return len(d.entries)
}

// StartYear is the earliest year present in the dataset, or 0 when empty.
func (d *Dataset) StartYear() int {
	return d.startYear
}

// Lookup returns the entry whose normalized title equals norm.
func (d *Dataset) Lookup(norm string) (*Entry, bool) {
	e, ok := d.byTitle[norm]
	return e, ok
}

// candidates returns entries sharing at least one token, in load order.
func (d *Dataset) candidates(tokens []string) []*Entry {
	seen := make(map[int]bool)
	var idxs []int
	for _, tok := range tokens {
		for _, i := range d.byToken[tok] {
			if !seen[i] {
				seen[i] = true
				idxs = append(idxs, i)
			}
		}
	}
	sort.Ints(idxs)
	out := make([]*Entry, len(idxs))
	for i, idx := range idxs {
		out[i] = d.entries[idx]
	}
	return out
}

// SelectYear picks the quartile that applies to a publication year. The
// preferred year is max(startYear, year); when it has no data the nearest
// earlier year with data is used, and when nothing earlier exists the
// earliest year. An unknown year (<= 0) uses the most recent year with data.
func SelectYear(quartiles map[int]Quartile, startYear, year int) (int, Quartile, bool) {
	if len(quartiles) == 0 {
		return 0, "", false
	}

	years := make([]int, 0, len(quartiles))
	for y := range quartiles {
		years = append(years, y)
	}
	sort.Ints(years)

	if year <= 0 {
		y := years[len(years)-1]
		return y, quartiles[y], true
	}

	target := max(startYear, year)
	if q, ok := quartiles[target]; ok {
		return target, q, true
	}
	i := sort.SearchInts(years, target)
	if i == 0 {
		return years[0], quartiles[years[0]], true
	}
	y := years[i-1]
	return y, quartiles[y], true
}
