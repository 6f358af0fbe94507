package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/janmeier/studyplan/internal/domain"
	"github.com/janmeier/studyplan/internal/projection"
)

// Client provides access to the university data sources. Each fetch is an
// opaque async operation that either returns decoded data or fails; callers
// own retry policy beyond the client's bounded attempts.
type Client interface {
	FetchTerms(ctx context.Context) ([]projection.TermInfo, error)
	FetchEnrollments(ctx context.Context, termID string) ([]domain.RawCourse, error)
	FetchCatalog(ctx context.Context, cisID string) ([]domain.RawCourse, error)
	FetchScorecards(ctx context.Context) (map[string][]domain.ScorecardItem, error)
	FetchRatings(ctx context.Context) (map[string]float64, error)
}

type httpClient struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a Client against the configured base URL.
func NewClient(cfg Config) Client {
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

func (c *httpClient) FetchTerms(ctx context.Context) ([]projection.TermInfo, error) {
	var terms []projection.TermInfo
	if err := c.getJSON(ctx, "/eventapi/timeLines/currentTermAndNext", nil, &terms); err != nil {
		return nil, fmt.Errorf("fetching term list: %w", err)
	}
	return terms, nil
}

func (c *httpClient) FetchEnrollments(ctx context.Context, termID string) ([]domain.RawCourse, error) {
	var courses []domain.RawCourse
	query := url.Values{"termId": {termID}}
	if err := c.getJSON(ctx, "/eventapi/myEnrollments", query, &courses); err != nil {
		return nil, fmt.Errorf("fetching enrollments for term %s: %w", termID, err)
	}
	return courses, nil
}

func (c *httpClient) FetchCatalog(ctx context.Context, cisID string) ([]domain.RawCourse, error) {
	var courses []domain.RawCourse
	query := url.Values{"cisTermId": {cisID}}
	if err := c.getJSON(ctx, "/eventapi/events", query, &courses); err != nil {
		return nil, fmt.Errorf("fetching catalog for term %s: %w", cisID, err)
	}
	return courses, nil
}

// scorecardResponse is the per-program transcript payload.
type scorecardResponse struct {
	Program string                 `json:"program"`
	Items   []domain.ScorecardItem `json:"items"`
}

func (c *httpClient) FetchScorecards(ctx context.Context) (map[string][]domain.ScorecardItem, error) {
	var payload []scorecardResponse
	if err := c.getJSON(ctx, "/scorecardapi/myScorecards", nil, &payload); err != nil {
		return nil, fmt.Errorf("fetching scorecards: %w", err)
	}
	out := make(map[string][]domain.ScorecardItem, len(payload))
	for _, sc := range payload {
		out[sc.Program] = sc.Items
	}
	return out, nil
}

// ratingRecord is one row of the rating source's flat list.
type ratingRecord struct {
	ID        string   `json:"_id"`
	AvgRating *float64 `json:"avgRating"`
}

func (c *httpClient) FetchRatings(ctx context.Context) (map[string]float64, error) {
	var records []ratingRecord
	if err := c.getJSON(ctx, "/ratingapi/ratings", nil, &records); err != nil {
		return nil, fmt.Errorf("fetching ratings: %w", err)
	}
	out := make(map[string]float64, len(records))
	for _, r := range records {
		if r.ID == "" || r.AvgRating == nil {
			continue
		}
		out[r.ID] = *r.AvgRating
	}
	return out, nil
}

// getJSON performs a GET with auth and bounded retries, decoding the 200
// response body into v.
func (c *httpClient) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	endpoint := c.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			break
		}
		lastErr = c.doRequest(ctx, endpoint, v)
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func (c *httpClient) doRequest(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, endpoint, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", endpoint, err)
	}
	return nil
}
