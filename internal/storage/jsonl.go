// Package storage handles the JSONL publication streams and the SQLite cache.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matsen/venuerank/internal/ranking"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadPublications reads publication records from a JSONL file, or from
// stdin when path is "-".
func ReadPublications(path string) ([]ranking.Publication, error) {
	if path == "-" {
		return DecodePublications(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening publications file: %w", err)
	}
	defer f.Close()

	return DecodePublications(f)
}

// DecodePublications reads one JSON publication per line. Blank lines are
// skipped; a malformed line is an error naming its line number.
func DecodePublications(r io.Reader) ([]ranking.Publication, error) {
	var pubs []ranking.Publication
	scanner := bufio.NewScanner(r)

	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var pub ranking.Publication
		if err := json.Unmarshal(line, &pub); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		pubs = append(pubs, pub)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading publications: %w", err)
	}

	return pubs, nil
}

// WriteJSONL writes each value as one JSON line.
func WriteJSONL[T any](w io.Writer, values []T) error {
	enc := json.NewEncoder(w)
	for i, v := range values {
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding line %d: %w", i+1, err)
		}
	}
	return nil
}
