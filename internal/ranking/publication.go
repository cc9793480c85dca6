// Package ranking turns publication records into CORE ranks or SJR quartiles.
package ranking

import (
	"regexp"
	"strings"
)

// Kind classifies the source record of a publication.
type Kind string

const (
	KindConference Kind = "conference"
	KindJournal    Kind = "journal"
	KindUnknown    Kind = "unknown"
)

// Publication is one record from a profile scan or a DBLP publication list.
// Optional fields are left at their zero value when unknown.
type Publication struct {
	Title          string `json:"title"`
	Venue          string `json:"venue"`
	Acronym        string `json:"acronym,omitempty"`
	FullVenueTitle string `json:"full_venue_title,omitempty"`
	Year           int    `json:"year,omitempty"`
	Pages          int    `json:"pages,omitempty"`
	Key            string `json:"key,omitempty"`
	Kind           Kind   `json:"kind,omitempty"`
}

var (
	journalHint    = regexp.MustCompile(`(?i)\b(journal|transactions|letters|review|magazine|annals|j\.|trans\.)`)
	conferenceHint = regexp.MustCompile(`(?i)\b(conference|proceedings|symposium|workshop|congress|meeting|proc\.|conf\.|symp\.)`)
)

// ResolvedKind returns p.Kind, or a guess from the venue strings when the
// record carries no recognised kind. Kind matching ignores case. Journal
// wording is checked first; an acronym with no other hint marks a conference.
func (p Publication) ResolvedKind() Kind {
	switch k := Kind(strings.ToLower(strings.TrimSpace(string(p.Kind)))); k {
	case KindConference, KindJournal, KindUnknown:
		return k
	}
	text := strings.TrimSpace(p.Venue + " " + p.FullVenueTitle)
	if journalHint.MatchString(text) {
		return KindJournal
	}
	if conferenceHint.MatchString(text) || p.Acronym != "" {
		return KindConference
	}
	return KindUnknown
}
