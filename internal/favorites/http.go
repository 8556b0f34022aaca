package favorites

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultHTTPTimeout = 10 * time.Second

// HTTPStore is a Store backed by the favorites server.
type HTTPStore struct {
	baseURL    string
	httpClient *http.Client
}

// HTTPOption configures an HTTPStore.
type HTTPOption func(*HTTPStore)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(s *HTTPStore) { s.httpClient = hc }
}

// WithHTTPTimeout sets the request timeout.
func WithHTTPTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPStore) { s.httpClient = &http.Client{Timeout: d} }
}

// NewHTTPStore creates a store talking to the server at baseURL.
func NewHTTPStore(baseURL string, opts ...HTTPOption) *HTTPStore {
	s := &HTTPStore{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// envelope is the server response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type mutationBody struct {
	StationID string `json:"stationuuid"`
}

// Get fetches the user's record.
func (s *HTTPStore) Get(ctx context.Context, userID string) (Record, error) {
	return s.do(ctx, http.MethodGet, userID, "")
}

// Add inserts stationID into the user's record, creating it if needed.
func (s *HTTPStore) Add(ctx context.Context, userID, stationID string) (Record, error) {
	if stationID == "" {
		return Record{}, ErrInvalidStationID
	}
	return s.do(ctx, http.MethodPost, userID, stationID)
}

// Remove deletes stationID from the user's record.
func (s *HTTPStore) Remove(ctx context.Context, userID, stationID string) (Record, error) {
	if stationID == "" {
		return Record{}, ErrInvalidStationID
	}
	return s.do(ctx, http.MethodDelete, userID, stationID)
}

func (s *HTTPStore) do(ctx context.Context, method, userID, stationID string) (Record, error) {
	var reader io.Reader = http.NoBody
	if stationID != "" {
		b, err := json.Marshal(mutationBody{StationID: stationID})
		if err != nil {
			return Record{}, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	reqURL := s.baseURL + "/api/favorites/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return Record{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if stationID != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Record{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Record{}, ErrNotFound
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return Record{}, fmt.Errorf("unexpected status: %s", resp.Status)
		}
		return Record{}, fmt.Errorf("decode response: %w", err)
	}
	if !env.Success || resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Error
		if msg == "" {
			msg = resp.Status
		}
		return Record{}, fmt.Errorf("favorites server: %s", msg)
	}

	var rec Record
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	if rec.UserID == "" {
		rec.UserID = userID
	}
	return rec, nil
}
