package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/matsen/venuerank/internal/dblp"
	"github.com/matsen/venuerank/internal/ranking"
)

// Constants for output formatting.
const (
	TitleMaxLen = 60 // Title column in result tables
	VenueMaxLen = 40 // Venue column in result tables
)

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// outputJSON writes a value as formatted JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncateString shortens s to maxLen runes, marking the cut with "...".
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// printResultsHuman writes one line per ranked publication.
func printResultsHuman(w io.Writer, results []ranking.Result) {
	for i, res := range results {
		rank := res.Match.Rank
		if res.Duplicate {
			rank += " (dup)"
		}
		year := "----"
		if res.Publication.Year > 0 {
			year = fmt.Sprint(res.Publication.Year)
		}
		fmt.Fprintf(w, "%3d. %-4s %-7s %-10s %s  %s\n",
			i+1, year, res.Match.System, rank,
			truncateString(res.Publication.Title, TitleMaxLen),
			truncateString(res.Publication.Venue, VenueMaxLen))
	}
}

// printSummaryHuman writes rank counts per system.
func printSummaryHuman(w io.Writer, s ranking.Summary) {
	fmt.Fprintf(w, "%d publications, %d ranked, %d duplicates\n", s.Total, s.Ranked, s.Duplicates)
	for _, system := range []ranking.System{ranking.SystemCORE, ranking.SystemSJR, ranking.SystemUnknown} {
		ranks := s.SortedRanks(system)
		if len(ranks) == 0 {
			continue
		}
		parts := make([]string, 0, len(ranks))
		for _, r := range ranks {
			parts = append(parts, fmt.Sprintf("%s=%d", r, s.BySystem[system][r]))
		}
		fmt.Fprintf(w, "  %-7s %s\n", system, strings.Join(parts, " "))
	}
}

// printResolutionHuman describes an identity resolution run.
func printResolutionHuman(w io.Writer, res *dblp.Resolution) {
	if res.Matched {
		fmt.Fprintf(w, "%s -> %s (%s) score %.2f, %d confirmed titles\n",
			res.Query, res.Name, res.PID, res.Score, res.Overlap)
	} else {
		fmt.Fprintf(w, "%s: no confirmed DBLP author\n", res.Query)
	}
	if res.Hub {
		fmt.Fprintln(w, "  (disambiguation page: homonym variants were probed)")
	}
	for _, c := range res.Candidates {
		fmt.Fprintf(w, "  %-20s %-30s name %.2f overlap %d score %.2f  %s\n",
			c.PID, truncateString(c.Name, 30), c.NameSimilarity, c.Overlap, c.Score, c.Outcome)
	}
}
