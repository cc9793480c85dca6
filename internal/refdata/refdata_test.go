package refdata

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/matsen/venuerank/internal/core"
	"github.com/matsen/venuerank/internal/sjr"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultMappingsCoverEditions(t *testing.T) {
	set, err := DefaultMappings()
	if err != nil {
		t.Fatalf("DefaultMappings() error = %v", err)
	}
	if got := set.Editions(); !reflect.DeepEqual(got, core.DefaultEditions) {
		t.Errorf("Editions() = %v, want %v", got, core.DefaultEditions)
	}

	m, ok := set.Get(2023)
	if !ok {
		t.Fatal("no 2023 mapping")
	}
	if m.Header || m.Title.Index != 1 || m.Acronym.Index != 2 || m.Rank.Index != 4 {
		t.Errorf("2023 mapping = %+v", m)
	}
	if m2008, _ := set.Get(2008); m2008.Title.Name != "Title" || !m2008.Header {
		t.Errorf("2008 mapping = %+v", m2008)
	}
}

func TestLoadMappingsErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"empty", "editions: []\n", "no editions"},
		{"missing file", "editions:\n  - edition: 2020\n", "file is required"},
		{"named without header", "editions:\n  - edition: 2020\n    file: a.csv\n    title: {name: Title}\n", "header is false"},
		{"duplicate", "editions:\n  - {edition: 2020, file: a.csv}\n  - {edition: 2020, file: b.csv}\n", "listed twice"},
		{"bad yaml", "editions: [", "parsing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".yaml", tt.content)
			_, err := LoadMappings(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadMappings() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadCoreEntriesCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "CORE2023.csv", strings.Join([]string{
		`1,"International Conference on Machine Learning",ICML,CORE2023,A*,Yes,4611`,
		`2,"Symposium on Theory of Computing",STOC,CORE2023,A*,Yes,4613`,
		`3,"Some Regional Conference",SRC,CORE2023,National: USA,No,0803`,
		`4,,,CORE2023,B,No,0803`,
		`5,"Short Row"`,
	}, "\n"))

	set, _ := DefaultMappings()
	m, _ := set.Get(2023)
	entries, err := ReadCoreEntries(path, m)
	if err != nil {
		t.Fatalf("ReadCoreEntries() error = %v", err)
	}

	want := []core.Entry{
		{Title: "International Conference on Machine Learning", Acronym: "ICML", Rank: core.RankAStar},
		{Title: "Symposium on Theory of Computing", Acronym: "STOC", Rank: core.RankAStar},
		{Title: "Some Regional Conference", Acronym: "SRC", Rank: core.RankNA},
		{Title: "Short Row", Rank: core.RankNA},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("entries = %+v\nwant %+v", entries, want)
	}
}

func TestReadCoreEntriesXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CORE2008.xlsx")

	f := excelize.NewFile()
	rows := [][]any{
		{"Rank", "Acronym", "Title"},
		{"A", "KDD", "Knowledge Discovery and Data Mining"},
		{"C", "ACSC", "Australasian Computer Science Conference"},
	}
	for i, row := range rows {
		cellName, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cellName, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	set, _ := DefaultMappings()
	m, _ := set.Get(2008)
	entries, err := ReadCoreEntries(path, m)
	if err != nil {
		t.Fatalf("ReadCoreEntries() error = %v", err)
	}
	want := []core.Entry{
		{Title: "Knowledge Discovery and Data Mining", Acronym: "KDD", Rank: core.RankA},
		{Title: "Australasian Computer Science Conference", Acronym: "ACSC", Rank: core.RankC},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("entries = %+v\nwant %+v", entries, want)
	}
}

func TestReadCoreEntriesMissingHeaderColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "t.csv", "Name,Acronym,Rank\nX,Y,A\n")
	m := Mapping{Edition: 2008, File: "t.csv", Header: true,
		Title: Column{Name: "Title"}, Acronym: Column{Name: "Acronym"}, Rank: Column{Name: "Rank"}}

	if _, err := ReadCoreEntries(path, m); err == nil || !strings.Contains(err.Error(), "not in header") {
		t.Errorf("error = %v, want missing column", err)
	}
}

func TestCoreLoaderFeedsPartitions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "CORE2020.csv", `1,"Neural Information Processing Systems",NeurIPS,CORE2020,A*,Yes,4611`+"\n")

	set, _ := DefaultMappings()
	parts := core.NewPartitions(set.Editions(), CoreLoader(dir, set))

	ds, err := parts.ForYear(context.Background(), 2020)
	if err != nil {
		t.Fatalf("ForYear() error = %v", err)
	}
	if ds.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ds.Len())
	}

	if _, err := parts.ForYear(context.Background(), 2023); err == nil {
		t.Error("missing CORE2023.csv should fail")
	}
}

const scimago2019 = "\ufeffRank;Sourceid;Title;Type;Issn;SJR;SJR Best Quartile;H index\n" +
	`1;1;"Journal of Machine Learning Research";journal;"15324435";"2,500";Q1;200` + "\n" +
	`2;2;"Lecture Notes in Computer Science";book series;"03029743";"0,300";Q2;400` + "\n" +
	`3;3;"Bioinformatics";journal;"13674803";"3,000";-;300` + "\n"

func TestReadSJRRows(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scimagojr 2019.csv", scimago2019)

	rows, err := ReadSJRRows(path, 2019)
	if err != nil {
		t.Fatalf("ReadSJRRows() error = %v", err)
	}
	want := []sjr.Row{
		{Title: "Journal of Machine Learning Research", Year: 2019, Quartile: "Q1"},
		{Title: "Bioinformatics", Year: 2019, Quartile: "-"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %+v\nwant %+v", rows, want)
	}
}

func TestReadSJRRowsYearColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "all.csv", "Title,Year,SJR Best Quartile\nNeural Computation,2017,Q2\nNeural Computation,oops,Q1\n")

	rows, err := ReadSJRRows(path, 0)
	if err != nil {
		t.Fatalf("ReadSJRRows() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Year != 2017 {
		t.Errorf("rows = %+v", rows)
	}

	noYear := writeFile(t, dir, "noyear.csv", "Title,SJR Best Quartile\nX,Q1\n")
	if _, err := ReadSJRRows(noYear, 0); err == nil {
		t.Error("expected error without any year")
	}
}

func TestSJRLoader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scimagojr 2019.csv", scimago2019)
	writeFile(t, dir, "scimagojr 2021.csv", "Title;SJR Best Quartile\nJournal of Machine Learning Research;Q2\n")
	writeFile(t, dir, "README.md", "ignored")

	files, err := SJRFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || files[0].Year != 2019 || files[1].Year != 2021 {
		t.Fatalf("files = %+v", files)
	}

	r := sjr.NewResolver(SJRLoader(dir))
	res, err := r.Resolve(context.Background(), "Journal of Machine Learning Research", 2022)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Quartile != sjr.Q2 || res.Year != 2021 {
		t.Errorf("Resolve() = %+v, want Q2/2021", res)
	}
}

func TestSJRLoaderEmptyDir(t *testing.T) {
	if _, err := SJRLoader(t.TempDir())(context.Background()); err == nil {
		t.Error("expected error for a directory without tables")
	}
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		sample string
		want   rune
	}{
		{"a,b,c\n1;2", ','},
		{"Rank;Title;\"x,y\"\n", ';'},
		{"a\tb\tc", '\t'},
		{"", ','},
	}
	for _, tt := range tests {
		if got := sniffDelimiter([]byte(tt.sample)); got != tt.want {
			t.Errorf("sniffDelimiter(%q) = %q, want %q", tt.sample, got, tt.want)
		}
	}
}
