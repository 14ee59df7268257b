package wanikani

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/wkstats/backend/models"
)

func newTestClient(server *httptest.Server) *Client {
	return New(server.URL, "test-token", 5*time.Second)
}

func TestFetchAssignmentTotalsPaginates(t *testing.T) {
	var paths []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RequestURI())
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.RequestURI() {
		case "/v2/assignments":
			// next_url comes back absolute, including our origin.
			fmt.Fprintf(w, `{
				"data": [
					{"data": {"srs_stage": 1}},
					{"data": {"srs_stage": 2}},
					{"data": {"srs_stage": 5}}
				],
				"pages": {"next_url": %q}
			}`, serverURL(r)+"/v2/assignments?page_after_id=1000")
		case "/v2/assignments?page_after_id=1000":
			fmt.Fprint(w, `{
				"data": [
					{"data": {"srs_stage": 7}},
					{"data": {"srs_stage": 9}},
					{"data": {"srs_stage": 9}}
				],
				"pages": {"next_url": null}
			}`)
		default:
			t.Errorf("unexpected request: %s", r.URL.RequestURI())
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	totals, err := newTestClient(server).FetchAssignmentTotals(context.Background())
	assert.NoError(t, err)

	// Exactly one fetch per page.
	assert.Equal(t, []string{"/v2/assignments", "/v2/assignments?page_after_id=1000"}, paths)

	assert.Equal(t, 2, totals[models.BucketApprentice])
	assert.Equal(t, 1, totals[models.BucketGuru])
	assert.Equal(t, 1, totals[models.BucketMaster])
	assert.Equal(t, 0, totals[models.BucketEnlightened])
	assert.Equal(t, 2, totals[models.BucketBurned])
}

func TestFetchAssignmentTotalsSkipsUnmappedStages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"data": [
				{"data": {"srs_stage": 0}},
				{"data": {"srs_stage": 42}},
				{"data": {"srs_stage": 3}}
			],
			"pages": {"next_url": null}
		}`)
	}))
	defer server.Close()

	totals, err := newTestClient(server).FetchAssignmentTotals(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, totals.Sum())
	assert.Equal(t, 1, totals[models.BucketApprentice])
}

func TestFetchAssignmentTotalsAbortsOnFailedPage(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprintf(w, `{
				"data": [{"data": {"srs_stage": 1}}],
				"pages": {"next_url": %q}
			}`, serverURL(r)+"/v2/assignments?page_after_id=1000")
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	totals, err := newTestClient(server).FetchAssignmentTotals(context.Background())
	assert.Nil(t, totals)

	var upstream *UpstreamError
	assert.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusInternalServerError, upstream.Status)
	assert.Equal(t, 2, calls)
}

func TestFetchAssignmentTotalsRejectsNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server).FetchAssignmentTotals(context.Background())

	var upstream *UpstreamError
	assert.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnauthorized, upstream.Status)
}

func TestFetchAssignmentTotalsCapsRunawayPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Upstream that never stops advertising a next page.
		fmt.Fprintf(w, `{"data": [], "pages": {"next_url": %q}}`, serverURL(r)+"/v2/assignments")
	}))
	defer server.Close()

	totals, err := newTestClient(server).FetchAssignmentTotals(context.Background())
	assert.Nil(t, totals)

	var upstream *UpstreamError
	assert.ErrorAs(t, err, &upstream)
	assert.Contains(t, err.Error(), "next_url still present")
}

func TestFetchUserLevel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/user", r.URL.Path)
		fmt.Fprint(w, `{"data": {"level": 12, "username": "crabigator"}}`)
	}))
	defer server.Close()

	level, err := newTestClient(server).FetchUserLevel(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 12, level)
}

func TestFetchUserLevelMissingField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"username": "crabigator"}}`)
	}))
	defer server.Close()

	_, err := newTestClient(server).FetchUserLevel(context.Background())

	var upstream *UpstreamError
	assert.ErrorAs(t, err, &upstream)
	assert.Contains(t, err.Error(), "data.level")
}

// serverURL reconstructs the test server origin from the incoming request.
func serverURL(r *http.Request) string {
	return "http://" + r.Host
}
