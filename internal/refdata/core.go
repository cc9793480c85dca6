package refdata

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/matsen/venuerank/internal/core"
)

// ReadCoreEntries reads one CORE table using mapping m. Rows missing both a
// title and an acronym are skipped; unknown rank strings become N/A.
func ReadCoreEntries(path string, m Mapping) ([]core.Entry, error) {
	rows, err := ReadTable(path, m.Sheet)
	if err != nil {
		return nil, fmt.Errorf("CORE %d: %w", m.Edition, err)
	}

	var header []string
	if m.Header && len(rows) > 0 {
		header, rows = rows[0], rows[1:]
	}
	cols, err := m.resolve(header)
	if err != nil {
		return nil, err
	}

	entries := make([]core.Entry, 0, len(rows))
	for _, row := range rows {
		title := cell(row, cols.title)
		acronym := cell(row, cols.acronym)
		if title == "" && acronym == "" {
			continue
		}
		entries = append(entries, core.Entry{
			Title:   title,
			Acronym: acronym,
			Rank:    core.ParseRank(cell(row, cols.rank)),
		})
	}
	return entries, nil
}

// CoreLoader returns a loader reading each edition's file from dir.
func CoreLoader(dir string, set *MappingSet) core.LoaderFunc {
	return func(ctx context.Context, edition int) ([]core.Entry, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, ok := set.Get(edition)
		if !ok {
			return nil, fmt.Errorf("no mapping for CORE edition %d", edition)
		}
		path := m.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		return ReadCoreEntries(path, m)
	}
}
