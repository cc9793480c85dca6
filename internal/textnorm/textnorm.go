// Package textnorm canonicalizes venue, journal and author strings before matching.
//
// Every matcher in venuerank compares normalized text, so the functions here
// define what "the same venue" means at the string level: case folding,
// accent folding, abbreviation expansion and punctuation removal, plus a few
// venue-specific cleanups (edition numbers, trailing years, sponsoring
// organization prefixes).
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// abbreviation is a whole-word substitution applied after lowercasing.
type abbreviation struct {
	pattern     *regexp.Regexp
	replacement string
}

// abbreviations expands the shorthand that shows up in harvested venue strings.
// Patterns run against lowercase text that still carries its punctuation, so
// "int'l" and "proc." can be recognised before punctuation is stripped.
var abbreviations = []abbreviation{
	{regexp.MustCompile(`\bint'?l\b\.?`), "international"},
	{regexp.MustCompile(`\binternat\b\.?`), "international"},
	{regexp.MustCompile(`\bprocs?\b\.?`), "proceedings"},
	{regexp.MustCompile(`\bconf\b\.?`), "conference"},
	{regexp.MustCompile(`\bsymp\b\.?`), "symposium"},
	{regexp.MustCompile(`\bj\.`), "journal "},
	{regexp.MustCompile(`\btrans\b\.?`), "transactions"},
	{regexp.MustCompile(`\bassoc\b\.?`), "association"},
	{regexp.MustCompile(`\bsoc\b\.?`), "society"},
	{regexp.MustCompile(`\bmach\b\.?`), "machine"},
	{regexp.MustCompile(`\bintell\b\.?`), "intelligence"},
	{regexp.MustCompile(`\bsci\b\.?`), "science"},
	{regexp.MustCompile(`\beng\b\.?`), "engineering"},
	{regexp.MustCompile(`\bres\b\.?`), "research"},
	{regexp.MustCompile(`\bann\b\.?`), "annual"},
	{regexp.MustCompile(`\bnatl\b\.?`), "national"},
	{regexp.MustCompile(`\btechnol\b\.?`), "technology"},
	{regexp.MustCompile(`\bsyst\b\.?`), "systems"},
	{regexp.MustCompile(`\blett\b\.?`), "letters"},
	{regexp.MustCompile(`\brev\b\.?`), "review"},
}

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]+`)

	trailingCommaYear  = regexp.MustCompile(`\s*,\s*(19|20)\d{2}\s*$`)
	trailingParenYear  = regexp.MustCompile(`\s*\(\s*(19|20)\d{2}\s*\)\s*$`)
	trailingBareYear   = regexp.MustCompile(`\s+(19|20)\d{2}$`)
	leadingYear        = regexp.MustCompile(`^(19|20)\d{2}\s+`)
	leadingOrdinal     = regexp.MustCompile(`^\d{1,3}(st|nd|rd|th)?\s+`)
	leadingOrdinalWord = regexp.MustCompile(`^(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth|eleventh|twelfth)\s+`)

	dblpSuffix = regexp.MustCompile(`\s+\d{4}$`)
)

// FoldAccents removes combining marks, turning "Gödel" into "Godel".
func FoldAccents(s string) string {
	out, _, err := transform.String(foldAccents, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize canonicalizes free text for comparison.
//
// Pipeline: accent folding, lowercase, abbreviation expansion, "&" to "and",
// punctuation to spaces, whitespace collapse.
func Normalize(s string) string {
	s = strings.ToLower(FoldAccents(s))
	s = expandAbbreviations(s)
	return finish(s)
}

// NormalizeVenue is Normalize plus venue-specific cleanup: a trailing
// ", <year>" or "(<year>)" and leading edition numbers, ordinals and years
// are removed.
func NormalizeVenue(s string) string {
	s = strings.ToLower(FoldAccents(strings.TrimSpace(s)))
	s = trailingCommaYear.ReplaceAllString(s, "")
	s = trailingParenYear.ReplaceAllString(s, "")
	s = expandAbbreviations(s)
	s = finish(s)
	s = trailingBareYear.ReplaceAllString(s, "")

	for {
		stripped := leadingYear.ReplaceAllString(s, "")
		stripped = leadingOrdinal.ReplaceAllString(stripped, "")
		stripped = leadingOrdinalWord.ReplaceAllString(stripped, "")
		if stripped == s {
			break
		}
		s = stripped
	}
	return s
}

func expandAbbreviations(s string) string {
	for _, a := range abbreviations {
		s = a.pattern.ReplaceAllString(s, a.replacement)
	}
	return s
}

func finish(s string) string {
	s = strings.ReplaceAll(s, "&", " and ")
	s = nonAlphanumeric.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// SanitizeName prepares an author display name for comparison. DBLP's
// homonym suffix ("Wei Wang 0003") is dropped along with punctuation.
func SanitizeName(name string) string {
	name = strings.TrimSpace(FoldAccents(name))
	name = dblpSuffix.ReplaceAllString(name, "")
	name = strings.ToLower(name)
	name = nonAlphanumeric.ReplaceAllString(name, " ")
	return strings.Join(strings.Fields(name), " ")
}
