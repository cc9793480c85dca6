// Package acronym derives candidate venue acronyms from unstructured venue
// strings such as "Proc. of the 36th Int'l Conf. on Machine Learning (ICML'19)".
package acronym

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxLength bounds the length of an acronym candidate.
const MaxLength = 12

var (
	parenthetical = regexp.MustCompile(`\(([^()]*)\)`)
	yearSuffix    = regexp.MustCompile(`(?:['’]?\d{2}|\s*\d{4})$`)
	separators    = regexp.MustCompile(`[\s,;:/()\[\]]+`)
)

// publishers are capitalised tokens that name a sponsor or series rather
// than a venue.
var publishers = map[string]bool{
	"ACM": true, "IEEE": true, "CVF": true, "USENIX": true, "SIAM": true,
	"IFIP": true, "SPIE": true, "LNCS": true, "LNAI": true, "CEUR": true,
	"PMLR": true, "JMLR": true, "AIP": true, "IOS": true, "II": true,
	"III": true, "IV": true, "VI": true, "VII": true, "VIII": true,
}

// Extract returns candidate acronyms in priority order: parenthetical
// content first, then capitalisation patterns, and only when neither found
// anything, the whole string if it is short enough to be an acronym itself. Duplicates (case-insensitive) are
// dropped.
func Extract(venue string) []string {
	venue = strings.TrimSpace(venue)
	if venue == "" {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	add := func(c string) {
		c = clean(c)
		key := strings.ToUpper(c)
		if c == "" || seen[key] || publishers[key] {
			return
		}
		seen[key] = true
		out = append(out, c)
	}

	for _, m := range parenthetical.FindAllStringSubmatch(venue, -1) {
		for _, tok := range separators.Split(m[1], -1) {
			if looksLikeAcronym(tok) {
				add(tok)
			}
		}
	}

	withoutParens := parenthetical.ReplaceAllString(venue, " ")
	for _, tok := range separators.Split(withoutParens, -1) {
		if looksLikeAcronym(tok) {
			add(tok)
		}
	}

	if fields := strings.Fields(withoutParens); len(out) == 0 && len(fields) <= 2 {
		whole := clean(strings.Join(fields, " "))
		if len(whole) <= MaxLength && hasLetter(whole) {
			add(whole)
		}
	}

	return out
}

// clean strips a trailing year ("ICML'19", "CVPR2019", "KDD 2020") and
// surrounding punctuation.
func clean(s string) string {
	s = strings.Trim(s, ".-'’\"")
	stripped := strings.TrimSpace(yearSuffix.ReplaceAllString(s, ""))
	if hasLetter(stripped) {
		s = stripped
	}
	return strings.Trim(s, ".-'’\" ")
}

// looksLikeAcronym reports whether a token has at least two uppercase
// letters and no long lowercase run ("NeurIPS", "SIGMOD", "CVPR2019", but
// not "Conference" or "ACL-IJCNLP's").
func looksLikeAcronym(tok string) bool {
	tok = clean(tok)
	if tok == "" || len(tok) > MaxLength {
		return false
	}
	upper, lowerRun, maxLowerRun := 0, 0, 0
	for _, r := range tok {
		switch {
		case unicode.IsUpper(r):
			upper++
			lowerRun = 0
		case unicode.IsLower(r):
			lowerRun++
			if lowerRun > maxLowerRun {
				maxLowerRun = lowerRun
			}
		case unicode.IsDigit(r), r == '&', r == '-', r == '*':
			lowerRun = 0
		default:
			return false
		}
	}
	return upper >= 2 && maxLowerRun <= 3
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
