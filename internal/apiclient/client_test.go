package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Token = "test-token"
	cfg.MaxRetries = 0
	return NewClient(cfg)
}

func TestFetchTerms(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/eventapi/timeLines/currentTermAndNext", r.URL.Path)
		w.Write([]byte(`[
			{"shortName":"FS25","id":"t1","cisId":"c1","isCurrent":false},
			{"shortName":"HS25","id":"t2","cisId":"c2","isCurrent":true}
		]`))
	})

	terms, err := client.FetchTerms(context.Background())
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "HS25", string(terms[1].ShortName))
	assert.True(t, terms[1].IsCurrent)
}

func TestFetchEnrollments_MixedShapes(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "term-1", r.URL.Query().Get("termId"))
		w.Write([]byte(`[
			{"eventCourseNumber":"8,100","shortName":"Algorithms","credits":400},
			{"courses":[{"courseNumber":"8,200"}],"shortName":"Databases","credits":"600"}
		]`))
	})

	courses, err := client.FetchEnrollments(context.Background(), "term-1")
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "8,100", courses[0].EventCourseNumber)
	assert.Equal(t, 400.0, courses[0].Credits.Value)
	assert.Equal(t, "8,200", courses[1].Courses[0].CourseNumber)
	assert.Equal(t, 600.0, courses[1].Credits.Value, "string credits decode too")
}

func TestFetchScorecards(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"program":"master","items":[{"isTitle":true,"description":"Core","items":[
				{"sumOfCredits":"4.0","mark":"5.0","shortName":"Algo"}
			]}]}
		]`))
	})

	cards, err := client.FetchScorecards(context.Background())
	require.NoError(t, err)
	require.Contains(t, cards, "master")
	require.Len(t, cards["master"], 1)
	assert.True(t, cards["master"][0].IsTitle)
	assert.Equal(t, 4.0, cards["master"][0].Items[0].SumOfCredits.Value)
}

func TestFetchRatings_SkipsIncompleteRecords(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"_id":"a","avgRating":4.5},
			{"_id":"b","avgRating":0},
			{"_id":"","avgRating":3},
			{"_id":"c"}
		]`))
	})

	ratings, err := client.FetchRatings(context.Background())
	require.NoError(t, err)
	assert.Len(t, ratings, 2)
	assert.Equal(t, 4.5, ratings["a"])
	r, ok := ratings["b"]
	assert.True(t, ok, "zero rating is a real rating")
	assert.Equal(t, 0.0, r)
}

func TestGetJSON_RetriesOnFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.MaxRetries = 1
	client := NewClient(cfg)

	_, err := client.FetchTerms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetJSON_ErrorStatusSurfaces(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})

	_, err := client.FetchTerms(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STUDYPLAN_API_BASE", "https://uni.example")
	t.Setenv("STUDYPLAN_TOKEN", "tok")
	t.Setenv("STUDYPLAN_TIMEOUT_MS", "2500")
	t.Setenv("STUDYPLAN_MAX_RETRIES", "3")

	cfg := LoadConfig()
	assert.Equal(t, "https://uni.example", cfg.BaseURL)
	assert.Equal(t, "tok", cfg.Token)
	assert.Equal(t, 2500, cfg.TimeoutMs)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestLoadConfig_IgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("STUDYPLAN_TIMEOUT_MS", "not-a-number")
	t.Setenv("STUDYPLAN_MAX_RETRIES", "-2")

	cfg := LoadConfig()
	assert.Equal(t, DefaultConfig().TimeoutMs, cfg.TimeoutMs)
	assert.Equal(t, DefaultConfig().MaxRetries, cfg.MaxRetries)
}
