package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosswarped.com/blocks/internal/config"
	"crosswarped.com/blocks/internal/lexicon"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.BigQueryProject = "test-project"
	cfg.BigQueryTable = "test-project.words.all_words"
	return cfg
}

func testWords(t *testing.T) []string {
	t.Helper()
	words, err := lexicon.LoadFile(t.Context(), "../testdata/words.txt", lexicon.Params{})
	require.NoError(t, err)
	return words
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, SearchResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var resp SearchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestSearchHandler_CORS(t *testing.T) {
	h := searchHandler(testConfig(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/search", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "Method GET not allowed")
}

func TestSearchHandler_InvalidJSON(t *testing.T) {
	rec, resp := post(t, searchHandler(testConfig(t)), "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "Invalid JSON")
}

func TestSearchHandler_Random(t *testing.T) {
	body, err := json.Marshal(SearchRequest{
		Strategy:   "random",
		Cubes:      6,
		Iterations: 50,
		Capacity:   3,
		Seed:       7,
		Words:      testWords(t),
	})
	require.NoError(t, err)

	rec, resp := post(t, searchHandler(testConfig(t)), string(body))
	require.Equal(t, http.StatusOK, rec.Code, resp.Error)
	assert.True(t, resp.Success)
	assert.Equal(t, 50, resp.Explored)
	for _, name := range []string{"mono", "rainbow", "sum"} {
		recs := resp.Records[name]
		require.Len(t, recs, 3, name)
		assert.GreaterOrEqual(t, recs[0].Score, recs[2].Score)
		assert.Len(t, recs[0].Arrangement, 36)
	}
}

func TestSearchHandler_Rejects(t *testing.T) {
	h := searchHandler(testConfig(t))
	for name, req := range map[string]SearchRequest{
		"no words":         {Strategy: "random", Iterations: 5},
		"unknown strategy": {Strategy: "tabu", Words: []string{"ab"}},
		"too few cubes":    {Cubes: 3, Words: []string{"ab"}},
		"budget too large": {Iterations: maxBudget + 1, Words: []string{"ab"}},
	} {
		t.Run(name, func(t *testing.T) {
			body, err := json.Marshal(req)
			require.NoError(t, err)
			rec, resp := post(t, h, string(body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestExecute_WordScope(t *testing.T) {
	words := testWords(t)
	var got lexicon.BigQueryParams
	loadBigQuery = func(_ context.Context, p lexicon.BigQueryParams) ([]string, error) {
		got = p
		return words, nil
	}
	t.Cleanup(func() { loadBigQuery = lexicon.LoadBigQuery })

	sum, err := execute(t.Context(), testConfig(t), SearchRequest{
		Strategy:   "greedy",
		Objective:  "mono",
		Iterations: 100,
		WordScope:  "common",
	})
	require.NoError(t, err)
	assert.Equal(t, "common", got.Scope)
	assert.Equal(t, "test-project", got.Project)
	assert.NotEmpty(t, sum.Records)
	assert.Positive(t, sum.Explored)
}

func TestSearchTimeout(t *testing.T) {
	assert.Equal(t, time.Minute, searchTimeout(t.Context()))

	ctx, cancel := context.WithTimeout(t.Context(), time.Minute)
	defer cancel()
	got := searchTimeout(ctx)
	assert.Greater(t, got, 50*time.Second)
	assert.LessOrEqual(t, got, 55*time.Second)

	ctx, cancel = context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()
	got = searchTimeout(ctx)
	assert.Greater(t, got, 500*time.Millisecond)
	assert.LessOrEqual(t, got, time.Second)
}

func TestExecute_ShortDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), 3*time.Second)
	defer cancel()

	sum, err := execute(ctx, testConfig(t), SearchRequest{
		Strategy:   "random",
		Iterations: 20,
		Words:      testWords(t),
	})
	require.NoError(t, err)
	assert.Equal(t, 20, sum.Explored)
	assert.NotEmpty(t, sum.Records)
}
