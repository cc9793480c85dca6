package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/venuerank/internal/dblp"
	"github.com/matsen/venuerank/internal/ranking"
)

func TestExitCodeFor(t *testing.T) {
	rateLimited := fmt.Errorf("fetching: %w", dblp.ErrRateLimited)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitError},
		{"tagged", withExit(ExitConfigError, errors.New("bad config")), ExitConfigError},
		{"wrapped tag", fmt.Errorf("outer: %w", withExit(ExitNotFound, errors.New("x"))), ExitNotFound},
		{"rate limited", rateLimited, ExitRateLimited},
		{"rate limit beats tag", withExit(ExitDataError, rateLimited), ExitRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer title here", 10, "a longe..."},
		{"Ünïcödé title", 8, "Ünïcö..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestLoadSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known.jsonl")
	content := `{"title":"From File","venue":"ICML","year":2019}
{"title":"","venue":"skipped"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	samples, err := loadSamples([]string{"From Flag", "  "}, path)
	if err != nil {
		t.Fatalf("loadSamples() error = %v", err)
	}
	want := []dblp.Sample{{Title: "From Flag"}, {Title: "From File", Year: 2019}}
	if fmt.Sprint(samples) != fmt.Sprint(want) {
		t.Errorf("loadSamples() = %+v, want %+v", samples, want)
	}

	if _, err := loadSamples(nil, filepath.Join(t.TempDir(), "missing.jsonl")); exitCodeFor(err) != ExitDataError {
		t.Errorf("missing file error = %v, want data error", err)
	}
}

func TestFilterYears(t *testing.T) {
	pubs := []ranking.Publication{{Title: "a", Year: 2015}, {Title: "b", Year: 2019}, {Title: "c"}, {Title: "d", Year: 2022}}

	titles := func(ps []ranking.Publication) string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Title)
		}
		return strings.Join(out, ",")
	}

	tests := []struct {
		from, to int
		want     string
	}{
		{0, 0, "a,b,c,d"},
		{2018, 0, "b,d"},
		{0, 2019, "a,b"},
		{2016, 2020, "b"},
	}
	for _, tt := range tests {
		if got := titles(filterYears(pubs, tt.from, tt.to)); got != tt.want {
			t.Errorf("filterYears(%d, %d) = %s, want %s", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestPrintSummaryHuman(t *testing.T) {
	var buf bytes.Buffer
	printSummaryHuman(&buf, ranking.Summarize([]ranking.Result{
		{Match: ranking.MatchResult{Rank: "B", System: ranking.SystemCORE}},
		{Match: ranking.MatchResult{Rank: "A*", System: ranking.SystemCORE}},
		{Match: ranking.MatchResult{Rank: "Q3", System: ranking.SystemSJR}},
	}))

	out := buf.String()
	if !strings.Contains(out, "3 publications, 3 ranked, 0 duplicates") {
		t.Errorf("summary = %q", out)
	}
	if !strings.Contains(out, "A*=1 B=1") || !strings.Contains(out, "Q3=1") {
		t.Errorf("summary ranks = %q", out)
	}
	if strings.Contains(out, "UNKNOWN") {
		t.Errorf("empty systems should be omitted: %q", out)
	}
}
