// Package core resolves conference venues to CORE ranks.
//
// A venue is matched against one edition ("partition") of the CORE tables by
// a short-circuiting cascade: exact acronym, substring containment of a
// canonical title, then fuzzy title similarity. Every stage errs towards N/A:
// an ambiguous acronym without disambiguating evidence is never guessed.
package core

import "strings"

// Rank is a CORE conference rank.
type Rank string

// The valid CORE ranks, plus N/A for "the system applies but nothing matched".
const (
	RankAStar Rank = "A*"
	RankA     Rank = "A"
	RankB     Rank = "B"
	RankC     Rank = "C"
	RankNA    Rank = "N/A"
)

// ParseRank maps a raw table cell to a Rank. Anything outside A*, A, B, C
// (e.g. "Australasian", "National: USA", "Unranked") becomes RankNA.
func ParseRank(s string) Rank {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A*", "A+":
		return RankAStar
	case "A":
		return RankA
	case "B":
		return RankB
	case "C":
		return RankC
	default:
		return RankNA
	}
}

// Valid reports whether r is one of the four ranked tiers.
func (r Rank) Valid() bool {
	switch r {
	case RankAStar, RankA, RankB, RankC:
		return true
	}
	return false
}

// Entry is one row of a CORE table.
type Entry struct {
	Title   string `json:"title"`
	Acronym string `json:"acronym"`
	Rank    Rank   `json:"rank"`
}
