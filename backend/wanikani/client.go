package wanikani

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/example/wkstats/backend/models"
)

// maxPages bounds the pagination walk so a misbehaving upstream that keeps
// returning a next_url cannot loop forever.
const maxPages = 1000

// UpstreamError reports a non-success response from the WaniKani API.
type UpstreamError struct {
	Op     string
	Status int
	Reason string
}

func (e *UpstreamError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("wanikani: %s failed: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("wanikani: %s failed with status %d", e.Op, e.Status)
}

// Client calls the WaniKani v2 REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a client for the given API origin (e.g. https://api.wanikani.com)
// and bearer token. Every request is bounded by the given timeout.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// assignmentsPage mirrors one page of GET /v2/assignments.
type assignmentsPage struct {
	Data []struct {
		Data struct {
			SRSStage int `json:"srs_stage"`
		} `json:"data"`
	} `json:"data"`
	Pages struct {
		NextURL *string `json:"next_url"`
	} `json:"pages"`
}

// userResponse mirrors GET /v2/user.
type userResponse struct {
	Data struct {
		Level *int `json:"level"`
	} `json:"data"`
}

// FetchAssignmentTotals walks the paginated assignments collection and counts
// every assignment into its SRS bucket. Assignments with an unmapped stage are
// skipped. Any failed page aborts the whole aggregation; partial totals are
// never returned.
func (c *Client) FetchAssignmentTotals(ctx context.Context) (models.BucketTotals, error) {
	totals := models.BucketTotals{}
	next := "/v2/assignments"

	for page := 0; next != ""; page++ {
		if page >= maxPages {
			return nil, &UpstreamError{Op: "assignments", Reason: fmt.Sprintf("next_url still present after %d pages", maxPages)}
		}

		var body assignmentsPage
		if err := c.get(ctx, "assignments", next, &body); err != nil {
			return nil, err
		}

		for _, item := range body.Data {
			if bucket, ok := models.ClassifyStage(item.Data.SRSStage); ok {
				totals[bucket]++
			}
		}

		// next_url comes back absolute; strip our origin so the next
		// request goes through the same path-based fetch.
		next = ""
		if body.Pages.NextURL != nil {
			next = strings.TrimPrefix(*body.Pages.NextURL, c.baseURL)
		}
	}

	return totals, nil
}

// FetchUserLevel returns the user's current level.
func (c *Client) FetchUserLevel(ctx context.Context) (int, error) {
	var body userResponse
	if err := c.get(ctx, "user", "/v2/user", &body); err != nil {
		return 0, err
	}
	if body.Data.Level == nil {
		return 0, &UpstreamError{Op: "user", Reason: "response is missing data.level"}
	}
	return *body.Data.Level, nil
}

// get performs one authorized GET against the API and decodes the JSON body.
func (c *Client) get(ctx context.Context, op, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return &UpstreamError{Op: op, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{Op: op, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{Op: op, Reason: "failed to decode response: " + err.Error()}
	}
	return nil
}
