package refdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/matsen/venuerank/internal/sjr"
)

// Header names used by scimagojr exports.
const (
	sjrTitleColumn    = "Title"
	sjrQuartileColumn = "SJR Best Quartile"
	sjrTypeColumn     = "Type"
	sjrYearColumn     = "Year"
)

var yearInName = regexp.MustCompile(`(19|20)\d{2}`)

// ReadSJRRows reads one SJR table. When the table has no Year column, every
// row gets year, which callers usually take from the file name. Rows of a
// non-journal Type (book series, conference proceedings) are skipped.
func ReadSJRRows(path string, year int) ([]sjr.Row, error) {
	rows, err := ReadTable(path, "")
	if err != nil {
		return nil, fmt.Errorf("SJR %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	titleCol := headerIndex(header, sjrTitleColumn)
	quartileCol := headerIndex(header, sjrQuartileColumn)
	if titleCol < 0 || quartileCol < 0 {
		return nil, fmt.Errorf("SJR %s: header lacks %q or %q", filepath.Base(path), sjrTitleColumn, sjrQuartileColumn)
	}
	typeCol := headerIndex(header, sjrTypeColumn)
	yearCol := headerIndex(header, sjrYearColumn)
	if yearCol < 0 && year <= 0 {
		return nil, fmt.Errorf("SJR %s: no Year column and no year in file name", filepath.Base(path))
	}

	out := make([]sjr.Row, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if typeCol >= 0 && !isJournalType(cell(row, typeCol)) {
			continue
		}
		rowYear := year
		if yearCol >= 0 {
			y, err := strconv.Atoi(cell(row, yearCol))
			if err != nil {
				continue
			}
			rowYear = y
		}
		out = append(out, sjr.Row{
			Title:    cell(row, titleCol),
			Year:     rowYear,
			Quartile: cell(row, quartileCol),
		})
	}
	return out, nil
}

func isJournalType(t string) bool {
	switch strings.ToLower(t) {
	case "", "journal", "trade journal":
		return true
	}
	return false
}

func headerIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// SJRFile is one yearly table on disk. Year is parsed from the file name
// and is 0 when the name carries none.
type SJRFile struct {
	Path string
	Year int
}

// SJRFiles lists the table files in dir, sorted by name.
func SJRFiles(dir string) ([]SJRFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading SJR directory: %w", err)
	}

	var files []SJRFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".tsv", ".xlsx":
		default:
			continue
		}
		f := SJRFile{Path: filepath.Join(dir, e.Name())}
		if m := yearInName.FindString(e.Name()); m != "" {
			f.Year, _ = strconv.Atoi(m)
		}
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// SJRLoader returns a loader reading every table in dir.
func SJRLoader(dir string) sjr.LoaderFunc {
	return func(ctx context.Context) ([]sjr.Row, error) {
		files, err := SJRFiles(dir)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no SJR tables in %s", dir)
		}

		var all []sjr.Row
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rows, err := ReadSJRRows(f.Path, f.Year)
			if err != nil {
				return nil, err
			}
			all = append(all, rows...)
		}
		return all, nil
	}
}
