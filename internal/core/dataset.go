package core

import (
	"strings"

	"github.com/matsen/venuerank/internal/textnorm"
)

// MinContainedTitleLength is the shortest stripped title that may match by
// substring containment; anything shorter is too likely to be coincidental.
const MinContainedTitleLength = 6

// indexedEntry caches the normalized forms of an entry's title.
type indexedEntry struct {
	Entry
	normTitle string // venue-normalized title
	stripped  string // normTitle with organization prefixes removed
}

// Dataset is one loaded CORE edition, indexed for lookup. It is immutable
// after construction and safe for concurrent use.
type Dataset struct {
	Edition   int
	entries   []indexedEntry
	byAcronym map[string][]int
}

// NewDataset indexes entries for one edition. Invalid ranks are coerced to
// RankNA so that downstream code never sees an arbitrary string.
func NewDataset(edition int, entries []Entry) *Dataset {
	ds := &Dataset{
		Edition:   edition,
		entries:   make([]indexedEntry, 0, len(entries)),
		byAcronym: make(map[string][]int),
	}
	for _, e := range entries {
		if !e.Rank.Valid() {
			e.Rank = RankNA
		}
		norm := textnorm.NormalizeVenue(e.Title)
		ds.entries = append(ds.entries, indexedEntry{
			Entry:     e,
			normTitle: norm,
			stripped:  textnorm.StripOrgPrefixes(norm),
		})
		if key := acronymKey(e.Acronym); key != "" {
			ds.byAcronym[key] = append(ds.byAcronym[key], len(ds.entries)-1)
		}
	}
	return ds
}

// Len returns the number of entries in the dataset.
func (d *Dataset) Len() int {
	return len(d.entries)
}

// Entries returns a copy of the dataset's rows.
func (d *Dataset) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.Entry
	}
	return out
}

func acronymKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
