// Package author parses the author names users type on the command line.
package author

import "strings"

// Name is a parsed author name.
type Name struct {
	First string // may be empty for last-name-only input
	Last  string
}

// ParseName parses an author name.
//
// Supported formats:
//   - "Lovelace"         → last="Lovelace"
//   - "Ada Lovelace"     → first="Ada", last="Lovelace"
//   - "Lovelace, Ada"    → first="Ada", last="Lovelace"
//   - "Ada K. Lovelace"  → first="Ada K.", last="Lovelace"
//
// DBLP homonym numbers ("Wei Wang 0003") stay attached to the last name so
// that a search can target one person.
func ParseName(input string) Name {
	input = strings.Join(strings.Fields(input), " ")
	if input == "" {
		return Name{}
	}

	if last, first, ok := strings.Cut(input, ","); ok && strings.TrimSpace(last) != "" {
		return Name{First: strings.TrimSpace(first), Last: strings.TrimSpace(last)}
	}

	parts := strings.Fields(input)
	n := len(parts)
	if n > 2 && isHomonymNumber(parts[n-1]) {
		return Name{First: strings.Join(parts[:n-2], " "), Last: parts[n-2] + " " + parts[n-1]}
	}
	if n == 1 {
		return Name{Last: parts[0]}
	}
	return Name{First: strings.Join(parts[:n-1], " "), Last: parts[n-1]}
}

// String renders the name in DBLP's "First Last" order.
func (n Name) String() string {
	if n.First == "" {
		return n.Last
	}
	return n.First + " " + n.Last
}

func isHomonymNumber(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
