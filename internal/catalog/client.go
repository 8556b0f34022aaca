// Package catalog provides a client for the radio-browser station directory.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrResponseTooLarge is returned when an upstream body exceeds the read cap.
var ErrResponseTooLarge = errors.New("response too large")

const (
	DefaultBaseURL   = "https://de2.api.radio-browser.info/json"
	DefaultUserAgent = "airwaves/1.0 (https://github.com/llehouerou/airwaves)"
	defaultTimeout   = 10 * time.Second

	// maxBodySize caps upstream responses read into memory.
	maxBodySize = 16 << 20
)

// StatusError is returned when the directory answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return "unexpected status: " + e.Status
}

// Client is a radio-browser API client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

// New creates a new catalog client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchParams are the supported station search filters. Zero values are
// omitted from the query.
type SearchParams struct {
	Name         string
	NameExact    bool
	Tag          string
	TagExact     bool
	Country      string
	CountryExact bool
	Language     string
	Order        string // e.g. "votes", "clickcount", "name"
	Reverse      bool
	HideBroken   bool
	Offset       int
	Limit        int
}

// Values encodes the parameters as a radio-browser query.
func (p SearchParams) Values() url.Values {
	v := url.Values{}
	if p.Name != "" {
		v.Set("name", p.Name)
	}
	if p.NameExact {
		v.Set("nameExact", "true")
	}
	if p.Tag != "" {
		v.Set("tag", p.Tag)
	}
	if p.TagExact {
		v.Set("tagExact", "true")
	}
	if p.Country != "" {
		v.Set("country", p.Country)
	}
	if p.CountryExact {
		v.Set("countryExact", "true")
	}
	if p.Language != "" {
		v.Set("language", p.Language)
	}
	if p.Order != "" {
		v.Set("order", p.Order)
	}
	if p.Reverse {
		v.Set("reverse", "true")
	}
	if p.HideBroken {
		v.Set("hidebroken", "true")
	}
	if p.Offset > 0 {
		v.Set("offset", strconv.Itoa(p.Offset))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v
}

// DefaultSearch returns the query used when no filter is given: the top
// 100 stations by votes.
func DefaultSearch() url.Values {
	v := url.Values{}
	v.Set("limit", "100")
	v.Set("order", "votes")
	v.Set("reverse", "true")
	return v
}

// Search runs a station search.
func (c *Client) Search(ctx context.Context, p SearchParams) ([]Station, error) {
	return c.SearchValues(ctx, p.Values())
}

// SearchValues runs a station search with raw query values. An empty query
// falls back to DefaultSearch.
func (c *Client) SearchValues(ctx context.Context, q url.Values) ([]Station, error) {
	if len(q) == 0 {
		q = DefaultSearch()
	}
	var stations []Station
	if err := c.getJSON(ctx, "/stations/search", q, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// SearchByName returns up to limit stations whose name matches name,
// best voted first.
func (c *Client) SearchByName(ctx context.Context, name string, limit int) ([]Station, error) {
	return c.Search(ctx, SearchParams{
		Name:       name,
		Order:      "votes",
		Reverse:    true,
		HideBroken: true,
		Limit:      limit,
	})
}

// ByTag returns up to limit working stations carrying exactly tag, best
// voted first.
func (c *Client) ByTag(ctx context.Context, tag string, limit int) ([]Station, error) {
	return c.Search(ctx, SearchParams{
		Tag:        tag,
		TagExact:   true,
		Order:      "votes",
		Reverse:    true,
		HideBroken: true,
		Limit:      limit,
	})
}

// ByCountry returns up to limit working stations from country, best voted
// first.
func (c *Client) ByCountry(ctx context.Context, country string, limit int) ([]Station, error) {
	return c.Search(ctx, SearchParams{
		Country:      country,
		CountryExact: true,
		Order:        "votes",
		Reverse:      true,
		HideBroken:   true,
		Limit:        limit,
	})
}

// ByUUIDs returns the stations with the given identifiers. Unknown
// identifiers are silently absent from the result.
func (c *Client) ByUUIDs(ctx context.Context, ids ...string) ([]Station, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	escaped := make([]string, len(ids))
	for i, id := range ids {
		escaped[i] = url.PathEscape(id)
	}
	var stations []Station
	path := "/stations/byuuid/" + strings.Join(escaped, ",")
	if err := c.getJSON(ctx, path, nil, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// BrowseQuery lists categories with the most stations first, counting
// working stations only. A zero limit returns every category.
func BrowseQuery(limit int) url.Values {
	v := url.Values{}
	v.Set("order", "stationcount")
	v.Set("reverse", "true")
	v.Set("hidebroken", "true")
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	return v
}

// Tags lists tags. q may carry order/reverse/hidebroken/limit filters.
func (c *Client) Tags(ctx context.Context, q url.Values) ([]Tag, error) {
	var tags []Tag
	if err := c.getJSON(ctx, "/tags", q, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// Countries lists countries. q may carry order/reverse/hidebroken filters.
func (c *Client) Countries(ctx context.Context, q url.Values) ([]Country, error) {
	var countries []Country
	if err := c.getJSON(ctx, "/countries", q, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

// Forward performs a GET on path and returns the upstream body untouched.
// It backs the pass-through proxy of the favorites server. A body larger
// than the read cap yields ErrResponseTooLarge.
func (c *Client) Forward(ctx context.Context, path string, q url.Values) ([]byte, error) {
	resp, err := c.do(ctx, path, q)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("%s: %w", path, ErrResponseTooLarge)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	resp, err := c.do(ctx, path, q)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// do issues the request and returns the response when the status is 2xx.
func (c *Client) do(ctx context.Context, path string, q url.Values) (*http.Response, error) {
	reqURL := c.baseURL + path
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp, nil
}
