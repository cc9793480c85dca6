// Package refdata loads CORE and SJR reference tables from CSV and XLSX
// files.
package refdata

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed partitions.yaml
var embeddedPartitions []byte

// Column addresses a field either by header name or by zero-based index.
// Name wins when both are set.
type Column struct {
	Name  string `yaml:"name,omitempty"`
	Index int    `yaml:"index,omitempty"`
}

func (c Column) String() string {
	if c.Name != "" {
		return fmt.Sprintf("%q", c.Name)
	}
	return fmt.Sprintf("#%d", c.Index)
}

// Mapping describes where the fields of one CORE edition live.
type Mapping struct {
	Edition int    `yaml:"edition"`
	File    string `yaml:"file"`
	Sheet   string `yaml:"sheet,omitempty"`
	Header  bool   `yaml:"header,omitempty"`
	Title   Column `yaml:"title"`
	Acronym Column `yaml:"acronym"`
	Rank    Column `yaml:"rank"`
}

func (m Mapping) validate() error {
	if m.Edition <= 0 {
		return fmt.Errorf("edition must be positive, got %d", m.Edition)
	}
	if m.File == "" {
		return fmt.Errorf("edition %d: file is required", m.Edition)
	}
	for _, c := range []Column{m.Title, m.Acronym, m.Rank} {
		if c.Name != "" && !m.Header {
			return fmt.Errorf("edition %d: column %s is named but header is false", m.Edition, c)
		}
		if c.Index < 0 {
			return fmt.Errorf("edition %d: negative column index %d", m.Edition, c.Index)
		}
	}
	return nil
}

// MappingSet holds the mappings of every known edition.
type MappingSet struct {
	byEdition map[int]Mapping
}

type mappingFile struct {
	Editions []Mapping `yaml:"editions"`
}

// DefaultMappings returns the built-in edition mappings.
func DefaultMappings() (*MappingSet, error) {
	return parseMappings(embeddedPartitions)
}

// LoadMappings reads mappings from path, or the built-in set when path is
// empty.
func LoadMappings(path string) (*MappingSet, error) {
	if path == "" {
		return DefaultMappings()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading partitions file: %w", err)
	}
	return parseMappings(data)
}

func parseMappings(data []byte) (*MappingSet, error) {
	var f mappingFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing partitions YAML: %w", err)
	}
	if len(f.Editions) == 0 {
		return nil, fmt.Errorf("partitions YAML lists no editions")
	}

	set := &MappingSet{byEdition: make(map[int]Mapping, len(f.Editions))}
	for _, m := range f.Editions {
		if err := m.validate(); err != nil {
			return nil, err
		}
		if _, dup := set.byEdition[m.Edition]; dup {
			return nil, fmt.Errorf("edition %d listed twice", m.Edition)
		}
		set.byEdition[m.Edition] = m
	}
	return set, nil
}

// Editions returns the known editions, oldest first.
func (s *MappingSet) Editions() []int {
	eds := make([]int, 0, len(s.byEdition))
	for e := range s.byEdition {
		eds = append(eds, e)
	}
	sort.Ints(eds)
	return eds
}

// Get returns the mapping of one edition.
func (s *MappingSet) Get(edition int) (Mapping, bool) {
	m, ok := s.byEdition[edition]
	return m, ok
}

// resolvedColumns are the zero-based indexes of one table after header
// names have been looked up.
type resolvedColumns struct {
	title, acronym, rank int
}

func (m Mapping) resolve(header []string) (resolvedColumns, error) {
	find := func(c Column) (int, error) {
		if c.Name == "" {
			return c.Index, nil
		}
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), c.Name) {
				return i, nil
			}
		}
		return 0, fmt.Errorf("edition %d: column %s not in header", m.Edition, c)
	}

	var cols resolvedColumns
	var err error
	if cols.title, err = find(m.Title); err != nil {
		return cols, err
	}
	if cols.acronym, err = find(m.Acronym); err != nil {
		return cols, err
	}
	if cols.rank, err = find(m.Rank); err != nil {
		return cols, err
	}
	return cols, nil
}
