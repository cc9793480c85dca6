// Package dblp talks to the DBLP computer science bibliography and resolves
// an author display name to a DBLP person identifier (PID).
package dblp

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the DBLP site root.
	BaseURL = "https://dblp.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is the client-side request rate. DBLP asks crawlers to stay
	// around one request per second and answers 429 otherwise.
	RateLimit = 1.0

	// DefaultUserAgent identifies venuerank to DBLP.
	DefaultUserAgent = "venuerank/1.0 (+https://github.com/matsen/venuerank)"

	// DefaultSearchLimit caps author search hits.
	DefaultSearchLimit = 30
)

// Client is a rate-limited HTTP client for the DBLP search API and person
// pages.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing or a mirror such as
// https://dblp.uni-trier.de).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRate sets requests per second. Non-positive values disable the limit.
func WithRate(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewClient creates a new DBLP client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       "api_error",
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}

// get performs a rate-limited GET and returns the response for a 2xx status.
// The caller closes the body.
func (c *Client) get(ctx context.Context, path string, query url.Values, accept string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	if err := checkHTTPErrors(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// SearchAuthors queries the author search API. Hits without a person URL
// are skipped.
func (c *Client) SearchAuthors(ctx context.Context, name string, limit int) ([]AuthorHit, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query := url.Values{}
	query.Set("q", name)
	query.Set("format", "json")
	query.Set("h", strconv.Itoa(limit))

	resp, err := c.get(ctx, "/search/author/api", query, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: parsing author search: %v", ErrInvalidResponse, err)
	}

	hits := make([]AuthorHit, 0, len(parsed.Result.Hits.Hit))
	for _, h := range parsed.Result.Hits.Hit {
		pid := PIDFromURL(h.Info.URL)
		if pid == "" {
			continue
		}
		hits = append(hits, AuthorHit{PID: pid, Name: h.Info.Author, URL: h.Info.URL})
	}
	return hits, nil
}

// PersonPublications fetches the publication list of a person.
func (c *Client) PersonPublications(ctx context.Context, pid string) (*Person, error) {
	if pid == "" {
		return nil, fmt.Errorf("%w: empty pid", ErrNotFound)
	}

	resp, err := c.get(ctx, "/pid/"+pid+".xml", nil, "application/xml")
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			apiErr.PID = pid
		}
		return nil, err
	}
	defer resp.Body.Close()

	dec := xml.NewDecoder(resp.Body)
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charsetReader

	var parsed xmlPerson
	if err := dec.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: parsing person %s: %v", ErrInvalidResponse, pid, err)
	}

	person := &Person{PID: parsed.PID, Name: parsed.Name}
	if person.PID == "" {
		person.PID = pid
	}
	for _, r := range parsed.Records {
		for _, item := range r.Items {
			person.Records = append(person.Records, item.toRecord())
		}
	}
	return person, nil
}

// charsetReader handles the encodings DBLP declares. Person pages are
// US-ASCII with character references, which is already valid UTF-8.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "us-ascii", "ascii", "utf-8", "utf8":
		return input, nil
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("%w: unsupported charset %q", ErrInvalidResponse, label)
}

func (x xmlRecord) toRecord() Record {
	rec := Record{
		Key:       x.Key,
		Type:      x.XMLName.Local,
		PublType:  x.PublType,
		Title:     strings.TrimSuffix(string(x.Title), "."),
		Journal:   strings.TrimSpace(x.Journal),
		BookTitle: strings.TrimSpace(x.Book),
		Pages:     strings.TrimSpace(x.Pages),
	}
	if year, err := strconv.Atoi(strings.TrimSpace(x.Year)); err == nil {
		rec.Year = year
	}
	for _, a := range x.Authors {
		rec.Authors = append(rec.Authors, string(a))
	}
	return rec
}

// PIDFromURL extracts the PID from a person URL such as
// https://dblp.org/pid/123/4567 or https://dblp.org/pid/w/WeiWang3.html.
func PIDFromURL(u string) string {
	_, rest, ok := strings.Cut(u, "/pid/")
	if !ok {
		return ""
	}
	rest, _, _ = strings.Cut(rest, "?")
	rest = strings.TrimSuffix(rest, ".html")
	rest = strings.TrimSuffix(rest, ".xml")
	return strings.Trim(rest, "/")
}
