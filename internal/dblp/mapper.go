package dblp

import (
	"strconv"
	"strings"

	"github.com/matsen/venuerank/internal/ranking"
)

// MapRecordToPublication converts a DBLP record to a ranking publication.
// Articles become journal records and inproceedings conference records;
// informal articles (CoRR) and everything else are left unclassified.
func MapRecordToPublication(rec Record) ranking.Publication {
	pub := ranking.Publication{
		Title: rec.Title,
		Year:  rec.Year,
		Pages: PageCount(rec.Pages),
		Key:   rec.Key,
		Kind:  ranking.KindUnknown,
	}

	switch {
	case rec.Informal():
		pub.Venue = firstNonEmpty(rec.Journal, rec.BookTitle)
	case rec.Type == TypeArticle:
		pub.Kind = ranking.KindJournal
		pub.Venue = rec.Journal
	case rec.Type == TypeInproceedings:
		pub.Kind = ranking.KindConference
		pub.Venue = rec.BookTitle
		pub.Acronym = AcronymFromKey(rec.Key)
	default:
		pub.Venue = firstNonEmpty(rec.BookTitle, rec.Journal)
	}
	return pub
}

// MapRecords converts all records, preserving order.
func MapRecords(records []Record) []ranking.Publication {
	pubs := make([]ranking.Publication, 0, len(records))
	for _, rec := range records {
		pubs = append(pubs, MapRecordToPublication(rec))
	}
	return pubs
}

// AcronymFromKey returns the venue segment of a conference key, uppercased:
// "conf/icml/SmithJ19" gives "ICML". Other keys give "".
func AcronymFromKey(key string) string {
	parts := strings.Split(key, "/")
	if len(parts) < 3 || parts[0] != "conf" || parts[1] == "" {
		return ""
	}
	return strings.ToUpper(parts[1])
}

// PageCount parses DBLP page ranges. "101-110" gives 10, "7" gives 1 and
// article-numbered ranges such as "12:1-12:20" give 20. Anything unparseable
// gives 0.
func PageCount(pages string) int {
	pages = strings.TrimSpace(pages)
	if pages == "" {
		return 0
	}

	first, last, isRange := strings.Cut(pages, "-")
	if !isRange {
		if _, err := strconv.Atoi(lastSegment(first)); err == nil {
			return 1
		}
		return 0
	}

	start, err1 := strconv.Atoi(lastSegment(first))
	end, err2 := strconv.Atoi(lastSegment(last))
	if err1 != nil || err2 != nil || end < start {
		return 0
	}
	return end - start + 1
}

// lastSegment drops an article-number prefix ("12:5" -> "5").
func lastSegment(s string) string {
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
