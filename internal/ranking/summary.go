package ranking

import "sort"

// Summary counts results per system and rank.
type Summary struct {
	Total      int                       `json:"total"`
	Ranked     int                       `json:"ranked"`
	Duplicates int                       `json:"duplicates"`
	BySystem   map[System]map[string]int `json:"by_system"`
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results), BySystem: make(map[System]map[string]int)}
	for _, res := range results {
		if res.Duplicate {
			s.Duplicates++
		}
		if res.Match.Ranked() {
			s.Ranked++
		}
		ranks := s.BySystem[res.Match.System]
		if ranks == nil {
			ranks = make(map[string]int)
			s.BySystem[res.Match.System] = ranks
		}
		ranks[res.Match.Rank]++
	}
	return s
}

var rankOrder = map[string]int{
	"A*": 0, "A": 1, "B": 2, "C": 3,
	"Q1": 0, "Q2": 1, "Q3": 2, "Q4": 3,
	RankNA: 9,
}

// SortedRanks returns the ranks present for a system, best first.
func (s Summary) SortedRanks(system System) []string {
	var ranks []string
	for r := range s.BySystem[system] {
		ranks = append(ranks, r)
	}
	sort.Slice(ranks, func(i, j int) bool {
		oi, oj := rankOrder[ranks[i]], rankOrder[ranks[j]]
		if oi != oj {
			return oi < oj
		}
		return ranks[i] < ranks[j]
	})
	return ranks
}
