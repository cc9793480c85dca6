package textnorm

import (
	"regexp"
	"strings"
)

// MinTokenLength is the shortest token considered significant.
const MinTokenLength = 3

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"into": true, "its": true, "des": true, "der": true, "und": true,
	"les": true, "del": true, "journal": true, "international": true,
	"proceedings": true, "transactions": true,
}

// SignificantTokens returns the distinct tokens of an already normalized
// string that are at least MinTokenLength long and not stop words.
func SignificantTokens(normalized string) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, tok := range strings.Fields(normalized) {
		if len(tok) < MinTokenLength || stopWords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}
	return tokens
}

// orgPrefixes are sponsoring organizations that precede venue titles in
// reference tables ("ACM SIGPLAN Conference on ..."). Each entry is matched
// as a whole-token prefix of a normalized title.
var orgPrefixes = []string{
	"acm", "ieee", "cvf", "iee", "usenix", "aaai", "siam", "ifip", "ifac",
	"springer", "elsevier", "eurographics", "euromicro", "iapr", "iaria",
	"isca", "acl", "eacl", "afips", "ieice", "ipsj", "joint", "the",
}

var sigPrefix = regexp.MustCompile(`^sig[a-z]+\s`)

// StripOrgPrefixes removes sponsoring-organization prefixes from the front of
// a normalized title, repeating until nothing more strips. A prefix is only
// removed when at least two tokens remain, so "sigmod conference" stays put.
func StripOrgPrefixes(normalized string) string {
	s := normalized
	for {
		next := stripOnePrefix(s)
		if next == s {
			return s
		}
		s = next
	}
}

func stripOnePrefix(s string) string {
	if loc := sigPrefix.FindStringIndex(s); loc != nil {
		if rest := s[loc[1]:]; len(strings.Fields(rest)) >= 2 {
			return rest
		}
	}
	for _, p := range orgPrefixes {
		if !strings.HasPrefix(s, p+" ") {
			continue
		}
		rest := s[len(p)+1:]
		if len(strings.Fields(rest)) >= 2 {
			return rest
		}
	}
	return s
}
