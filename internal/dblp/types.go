package dblp

import (
	"encoding/xml"
	"strings"
)

// AuthorHit is one result of an author search.
type AuthorHit struct {
	PID  string `json:"pid"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Person is a DBLP person page with its publication records.
type Person struct {
	PID     string   `json:"pid"`
	Name    string   `json:"name"`
	Records []Record `json:"records"`
}

// Titles returns the titles of all records.
func (p *Person) Titles() []string {
	titles := make([]string, 0, len(p.Records))
	for _, r := range p.Records {
		titles = append(titles, r.Title)
	}
	return titles
}

// Record types as they appear in dblpperson XML.
const (
	TypeArticle       = "article"
	TypeInproceedings = "inproceedings"
	TypeProceedings   = "proceedings"
	TypeIncollection  = "incollection"
	TypeBook          = "book"
	TypePhdThesis     = "phdthesis"
)

// Record is one publication on a person page.
type Record struct {
	Key       string   `json:"key"`
	Type      string   `json:"type"`
	PublType  string   `json:"publtype,omitempty"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors,omitempty"`
	Year      int      `json:"year,omitempty"`
	Journal   string   `json:"journal,omitempty"`
	BookTitle string   `json:"booktitle,omitempty"`
	Pages     string   `json:"pages,omitempty"`
}

// Informal reports whether DBLP marks the record as informal (preprints,
// CoRR entries).
func (r Record) Informal() bool {
	return r.PublType == "informal" || r.PublType == "withdrawn"
}

// searchResponse mirrors https://dblp.org/search/author/api?format=json.
type searchResponse struct {
	Result struct {
		Status struct {
			Code string `json:"@code"`
			Text string `json:"text"`
		} `json:"status"`
		Hits struct {
			Total string `json:"@total"`
			Hit   []struct {
				Info struct {
					Author string `json:"author"`
					URL    string `json:"url"`
				} `json:"info"`
			} `json:"hit"`
		} `json:"hits"`
	} `json:"result"`
}

// xmlPerson mirrors https://dblp.org/pid/<pid>.xml.
type xmlPerson struct {
	XMLName xml.Name `xml:"dblpperson"`
	Name    string   `xml:"name,attr"`
	PID     string   `xml:"pid,attr"`
	Records []struct {
		Items []xmlRecord `xml:",any"`
	} `xml:"r"`
}

type xmlRecord struct {
	XMLName  xml.Name
	Key      string    `xml:"key,attr"`
	PublType string    `xml:"publtype,attr"`
	Authors  []xmlText `xml:"author"`
	Title    xmlText   `xml:"title"`
	Year     string    `xml:"year"`
	Journal  string    `xml:"journal"`
	Book     string    `xml:"booktitle"`
	Pages    string    `xml:"pages"`
}

// xmlText collects the character data of an element including text inside
// inline markup such as <i> or <sub>, which DBLP uses in titles.
type xmlText string

func (t *xmlText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			b.Write(tok)
		}
	}
	*t = xmlText(strings.Join(strings.Fields(b.String()), " "))
	return nil
}
