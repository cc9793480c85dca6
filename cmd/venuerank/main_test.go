package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/venuerank/internal/ranking"
)

const coreTable = `1,"International Conference on Machine Learning",ICML,CORE2020,A*,Yes
2,"European Conference on Computational Biology",ECCB,CORE2020,A,Yes
3,"Some Regional Conference",SRC,CORE2020,National: USA,No
`

const sjrTable = "Rank;Sourceid;Title;Type;SJR Best Quartile\n" +
	"1;1;Bioinformatics;journal;Q1\n" +
	"2;2;Journal of Machine Learning Research;journal;Q2\n"

// testEnv writes reference data and a config file pointing at it.
type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T, dblpURL string) testEnv {
	t.Helper()
	dir := t.TempDir()
	coreDir := filepath.Join(dir, "core")
	sjrDir := filepath.Join(dir, "sjr")
	for _, d := range []string{coreDir, sjrDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	write := func(path, content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write(filepath.Join(coreDir, "CORE2020.csv"), coreTable)
	write(filepath.Join(sjrDir, "scimagojr 2020.csv"), sjrTable)

	partitions := filepath.Join(dir, "partitions.yaml")
	write(partitions, `editions:
  - edition: 2020
    file: CORE2020.csv
    title: {index: 1}
    acronym: {index: 2}
    rank: {index: 4}
`)

	if dblpURL == "" {
		dblpURL = "http://127.0.0.1:1"
	}
	cfgPath := filepath.Join(dir, "config.yml")
	write(cfgPath, fmt.Sprintf(`core_dir: %s
sjr_dir: %s
partitions_file: %s
cache_db: %s
log_level: error
dblp:
  base_url: %s
  rate: 0
`, coreDir, sjrDir, partitions, filepath.Join(dir, "cache", "cache.db"), dblpURL))

	return testEnv{dir: dir, config: cfgPath}
}

// runCLI executes the root command with fresh flag values.
func runCLI(t *testing.T, env testEnv, args ...string) (string, error) {
	t.Helper()

	humanOutput, configPath, logLevel, logFormat = false, "", "", ""
	coreYear, coreTitle, sjrYear = 0, "", 0
	rankConcurrency, rankSummary = 0, false
	authorSamples, authorSamplesFile, authorNoCache, authorRecords = nil, "", false, false
	profileSamples, profileSamplesFile, profileNoCache, profileFrom, profileTo = nil, "", false, 0, 0
	cacheNamespace, checkLoad = "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config", env.config}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCoreCommand(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := runCLI(t, env, "core", "Proceedings of ICML 2020", "--year", "2020")
	if err != nil {
		t.Fatalf("core error = %v", err)
	}
	var res CoreResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	if res.Match.Rank != "A*" || res.Edition != 2020 || res.Match.Acronym != "ICML" {
		t.Errorf("core = %+v", res)
	}

	out, err = runCLI(t, env, "--human", "core", "SRC")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "N/A") {
		t.Errorf("human output = %q, want N/A for a national ranking", out)
	}
}

func TestSJRCommand(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := runCLI(t, env, "--human", "sjr", "Bioinformatics", "--year", "2021")
	if err != nil {
		t.Fatalf("sjr error = %v", err)
	}
	if !strings.Contains(out, "Q1 (2020)") {
		t.Errorf("output = %q", out)
	}
}

func TestRankCommand(t *testing.T) {
	env := newTestEnv(t, "")
	input := filepath.Join(env.dir, "pubs.jsonl")
	lines := []string{
		`{"title":"Fast Trees","venue":"ICML","acronym":"ICML","year":2020,"key":"conf/icml/A20","kind":"conference"}`,
		`{"title":"Fast Trees","venue":"Bioinformatics","year":2020,"kind":"journal"}`,
		`{"title":"Slow Trees","venue":"Journal of Machine Learning Research","year":2020}`,
		`{"title":"A Preprint","venue":"bioRxiv"}`,
	}
	if err := os.WriteFile(input, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, env, "rank", input)
	if err != nil {
		t.Fatalf("rank error = %v", err)
	}

	var got []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		var res ranking.Result
		if err := json.Unmarshal(scanner.Bytes(), &res); err != nil {
			t.Fatalf("decoding %q: %v", scanner.Text(), err)
		}
		got = append(got, fmt.Sprintf("%s/%s/%v", res.Match.System, res.Match.Rank, res.Duplicate))
	}
	want := []string{"CORE/A*/false", "SJR/N/A/true", "SJR/Q2/false", "UNKNOWN/N/A/false"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("rank = %v, want %v", got, want)
	}

	out, err = runCLI(t, env, "rank", input, "--summary")
	if err != nil {
		t.Fatal(err)
	}
	var summary ranking.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatal(err)
	}
	if summary.Total != 4 || summary.Ranked != 2 || summary.Duplicates != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestRankCommandBadInput(t *testing.T) {
	env := newTestEnv(t, "")
	input := filepath.Join(env.dir, "bad.jsonl")
	os.WriteFile(input, []byte("{not json\n"), 0644)

	_, err := runCLI(t, env, "rank", input)
	if code := exitCodeFor(err); code != ExitDataError {
		t.Errorf("exit code = %d (%v), want %d", code, err, ExitDataError)
	}
}

func TestCheckCommand(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := runCLI(t, env, "check", "--load")
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	var res CheckResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if !res.OK || len(res.Editions) != 1 || res.Editions[0].Entries != 3 {
		t.Errorf("check = %+v", res)
	}
	if len(res.SJR) != 1 || res.SJR[0].Year != 2020 || res.SJR[0].Rows != 2 {
		t.Errorf("check SJR = %+v", res.SJR)
	}
}

func TestBadConfigExitCode(t *testing.T) {
	env := newTestEnv(t, "")
	if err := os.WriteFile(env.config, []byte("thresholds:\n  fuzzy: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, env, "sjr", "Bioinformatics")
	if code := exitCodeFor(err); code != ExitConfigError {
		t.Errorf("exit code = %d (%v), want %d", code, err, ExitConfigError)
	}
}

const authorSearchJSON = `{"result": {"status": {"@code": "200"}, "hits": {"@total": "1", "hit": [
  {"info": {"author": "Ada Lovelace", "url": "https://dblp.org/pid/12/345"}}
]}}}`

const authorPersonXML = `<?xml version="1.0" encoding="US-ASCII"?>
<dblpperson name="Ada Lovelace" pid="12/345" n="3">
<r><inproceedings key="conf/icml/Lovelace20" mdate="2020-06-01">
<author pid="12/345">Ada Lovelace</author>
<title>Notes on the Analytical Engine.</title>
<pages>1-10</pages><year>2020</year><booktitle>ICML</booktitle>
</inproceedings></r>
<r><article key="journals/bioinformatics/Lovelace20" mdate="2020-03-01">
<author pid="12/345">Ada Lovelace</author>
<title>Bernoulli Numbers by Machine.</title>
<pages>1-12</pages><year>2020</year><journal>Bioinformatics</journal>
</article></r>
<r><article key="journals/corr/abs-2001-00001" publtype="informal" mdate="2020-01-02">
<author pid="12/345">Ada Lovelace</author>
<title>A Preprint.</title><year>2020</year><journal>CoRR</journal>
</article></r>
</dblpperson>`

func newDBLPServer(t *testing.T, status int) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		switch r.URL.Path {
		case "/search/author/api":
			w.Write([]byte(authorSearchJSON))
		case "/pid/12/345.xml":
			w.Write([]byte(authorPersonXML))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestAuthorCommand(t *testing.T) {
	server, calls := newDBLPServer(t, http.StatusOK)
	env := newTestEnv(t, server.URL)
	args := []string{"author", "Ada Lovelace",
		"--sample", "Notes on the Analytical Engine",
		"--sample", "Bernoulli numbers by machine"}

	out, err := runCLI(t, env, args...)
	if err != nil {
		t.Fatalf("author error = %v", err)
	}
	var res struct {
		Matched bool   `json:"matched"`
		PID     string `json:"pid"`
		Overlap int    `json:"overlap"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if !res.Matched || res.PID != "12/345" || res.Overlap != 2 {
		t.Errorf("author = %+v", res)
	}

	before := *calls
	args[1] = "Lovelace, Ada"
	if _, err := runCLI(t, env, args...); err != nil {
		t.Fatal(err)
	}
	if *calls != before {
		t.Errorf("second run made %d requests, want all from cache", *calls-before)
	}
}

func TestAuthorCommandNotConfirmed(t *testing.T) {
	server, _ := newDBLPServer(t, http.StatusOK)
	env := newTestEnv(t, server.URL)

	_, err := runCLI(t, env, "author", "Ada Lovelace", "--sample", "Something Else Entirely")
	if code := exitCodeFor(err); code != ExitNotFound {
		t.Errorf("exit code = %d (%v), want %d", code, err, ExitNotFound)
	}
}

func TestAuthorCommandRateLimited(t *testing.T) {
	server, _ := newDBLPServer(t, http.StatusTooManyRequests)
	env := newTestEnv(t, server.URL)

	_, err := runCLI(t, env, "author", "Ada Lovelace", "--sample", "A", "--no-cache")
	if code := exitCodeFor(err); code != ExitRateLimited {
		t.Errorf("exit code = %d (%v), want %d", code, err, ExitRateLimited)
	}
}

func TestProfileCommand(t *testing.T) {
	server, _ := newDBLPServer(t, http.StatusOK)
	env := newTestEnv(t, server.URL)

	out, err := runCLI(t, env, "profile", "Ada Lovelace",
		"--sample", "Notes on the Analytical Engine",
		"--sample", "Bernoulli Numbers by Machine")
	if err != nil {
		t.Fatalf("profile error = %v", err)
	}

	var res ProfileResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Results) != 3 {
		t.Fatalf("results = %+v", res.Results)
	}
	var got []string
	for _, r := range res.Results {
		got = append(got, fmt.Sprintf("%s/%s", r.Match.System, r.Match.Rank))
	}
	want := "CORE/A* SJR/Q1 UNKNOWN/N/A"
	if strings.Join(got, " ") != want {
		t.Errorf("profile ranks = %v, want %s", got, want)
	}
	if len(res.Author.Records) != 0 {
		t.Error("records should not be repeated in profile output")
	}
}

func TestCacheCommands(t *testing.T) {
	server, _ := newDBLPServer(t, http.StatusOK)
	env := newTestEnv(t, server.URL)

	if _, err := runCLI(t, env, "author", "Ada Lovelace", "--sample", "Notes on the Analytical Engine", "--sample", "Bernoulli Numbers by Machine"); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, env, "cache", "stats")
	if err != nil {
		t.Fatal(err)
	}
	var stats CacheStatsResponse
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatal(err)
	}
	if len(stats.Namespaces) != 2 {
		t.Errorf("stats = %+v, want search and person namespaces", stats)
	}

	out, err = runCLI(t, env, "cache", "purge", "--namespace", "person")
	if err != nil {
		t.Fatal(err)
	}
	var purge CachePurgeResponse
	json.Unmarshal([]byte(out), &purge)
	if purge.Deleted != 1 {
		t.Errorf("purge = %+v, want 1 deleted", purge)
	}

	if _, err := runCLI(t, env, "cache", "purge", "--namespace", "bogus"); err == nil {
		t.Error("expected error for unknown namespace")
	}
}
