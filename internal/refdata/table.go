package refdata

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// ReadTable reads every row of a CSV, TSV or XLSX file. sheet selects the
// worksheet of an XLSX file; empty means the first sheet.
func ReadTable(path, sheet string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path, sheet)
	case ".csv", ".tsv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening table: %w", err)
		}
		defer f.Close()
		return readDelimited(f)
	default:
		return nil, fmt.Errorf("unsupported table format %q", filepath.Ext(path))
	}
}

// readDelimited parses comma, semicolon or tab separated text, picking the
// delimiter from the first line. scimagojr exports use semicolons.
func readDelimited(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("reading table: %w", err)
	}

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(first)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing table: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}
	return rows, nil
}

func sniffDelimiter(sample []byte) rune {
	line, _, _ := bytes.Cut(sample, []byte("\n"))
	counts := map[rune]int{
		',':  bytes.Count(line, []byte(",")),
		';':  bytes.Count(line, []byte(";")),
		'\t': bytes.Count(line, []byte("\t")),
	}
	best := ','
	for _, d := range []rune{';', '\t'} {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// cell returns row[i] trimmed, or "" when the row is short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
