/*
handlers_test.go - Tests for the Sync API handlers

Tests for:
- Exact response shapes of every endpoint
- Snapshot idempotence
- Blank inputs as acknowledged no-ops
- 400 / 404 / 500 mapping
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monkmode/monkmode/habit"
	"github.com/monkmode/monkmode/habit/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var fixedNow = time.Date(2024, 3, 10, 21, 15, 0, 0, time.UTC)

func newTestServer(t *testing.T, s habit.DocumentStore) *httptest.Server {
	t.Helper()
	h := NewHandler(s, log.New(io.Discard))
	h.Now = func() time.Time { return fixedNow }
	srv := httptest.NewServer(NewRouter(h, nil))
	t.Cleanup(srv.Close)
	return srv
}

func postRaw(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return postRaw(t, url, string(body))
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func sampleSave() SaveRequest {
	today := habit.DefaultRoutines()
	today[1].Completed = true
	today = append(today, habit.Routine{Name: "Read", Completed: true})
	return SaveRequest{
		CurrentDate: "2024-03-10",
		Today:       today,
		History: habit.History{
			"2024-03-09": {{Name: "Gym", Completed: true, IsDefault: true}},
		},
	}
}

// seeded returns a server whose store already holds sampleSave.
func seeded(t *testing.T) *httptest.Server {
	t.Helper()
	srv := newTestServer(t, store.NewMemory())
	resp := postJSON(t, srv.URL+"/save", sampleSave())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return srv
}

type failingStore struct{}

var errBoom = errors.New("disk on fire")

func (failingStore) Load(context.Context) (*habit.Document, error) { return nil, errBoom }
func (failingStore) SaveSnapshot(context.Context, habit.Snapshot) (*habit.Document, error) {
	return nil, errBoom
}
func (failingStore) SetLog(context.Context, habit.Date, string) (*habit.Document, error) {
	return nil, errBoom
}
func (failingStore) AppendRule(context.Context, habit.Rule) ([]habit.Rule, error) {
	return nil, errBoom
}
func (failingStore) Close() error { return nil }

// =============================================================================
// GET / and GET /data
// =============================================================================

func TestHealth(t *testing.T) {
	srv := newTestServer(t, store.NewMemory())

	resp := get(t, srv.URL+"/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "MonkMode backend running")
}

func TestGetData_NoDocument_404(t *testing.T) {
	// GIVEN: An empty store
	srv := newTestServer(t, store.NewMemory())

	// WHEN: Fetching
	resp := get(t, srv.URL+"/data")

	// THEN: 404 with the fixed error body
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, ErrorResponse{Error: "Not found"}, decodeJSON[ErrorResponse](t, resp))
}

func TestGetData_ReturnsAllFields(t *testing.T) {
	// GIVEN: A saved snapshot
	srv := seeded(t)

	// WHEN: Fetching the raw document
	resp := get(t, srv.URL+"/data")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw := decodeJSON[map[string]json.RawMessage](t, resp)

	// THEN: All five fields are present; logs and rules are empty, not null
	for _, key := range []string{"currentDate", "today", "history", "logs", "rules"} {
		assert.Contains(t, raw, key)
	}
	assert.JSONEq(t, `{}`, string(raw["logs"]))
	assert.JSONEq(t, `[]`, string(raw["rules"]))
	assert.JSONEq(t, `"2024-03-10"`, string(raw["currentDate"]))
}

// =============================================================================
// POST /save
// =============================================================================

func TestSave_Idempotent(t *testing.T) {
	// GIVEN: An empty store
	srv := newTestServer(t, store.NewMemory())
	req := sampleSave()

	// WHEN: Saving the same snapshot twice
	first := decodeJSON[DocumentDTO](t, postJSON(t, srv.URL+"/save", req))
	second := decodeJSON[DocumentDTO](t, postJSON(t, srv.URL+"/save", req))

	// THEN: Identical documents, equal to what GET /data returns
	assert.Equal(t, first, second)
	assert.Equal(t, second, decodeJSON[DocumentDTO](t, get(t, srv.URL+"/data")))
	assert.Equal(t, req.Today, second.Today)
	assert.Equal(t, req.History, second.History)
}

func TestSave_MalformedJSON_400(t *testing.T) {
	srv := newTestServer(t, store.NewMemory())

	resp := postRaw(t, srv.URL+"/save", `{"currentDate":`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid input", decodeJSON[ErrorResponse](t, resp).Error)
}

func TestSave_StoreFailure_500PlainText(t *testing.T) {
	// GIVEN: A store that always fails
	srv := newTestServer(t, failingStore{})

	// WHEN: Saving
	resp := postJSON(t, srv.URL+"/save", sampleSave())

	// THEN: 500 with the status text only, cause not leaked
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Internal Server Error")
	assert.NotContains(t, body, "disk on fire")
}

// =============================================================================
// POST /save-log
// =============================================================================

func TestSaveLog_InvalidInput_400(t *testing.T) {
	srv := seeded(t)

	cases := map[string]string{
		"missing date":    `{"text":"hello"}`,
		"empty date":      `{"date":"","text":"hello"}`,
		"missing text":    `{"date":"2024-03-10"}`,
		"null text":       `{"date":"2024-03-10","text":null}`,
		"numeric text":    `{"date":"2024-03-10","text":42}`,
		"malformed body":  `{"date":`,
		"non-string date": `{"date":7,"text":"hello"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := postRaw(t, srv.URL+"/save-log", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, ErrorResponse{Error: "Invalid input"}, decodeJSON[ErrorResponse](t, resp))
		})
	}
}

func TestSaveLog_BlankText_Skipped(t *testing.T) {
	// GIVEN: A stored document
	srv := seeded(t)
	before := decodeJSON[DocumentDTO](t, get(t, srv.URL+"/data"))

	// WHEN: Saving a whitespace-only log
	resp := postJSON(t, srv.URL+"/save-log", map[string]string{"date": "2024-03-10", "text": "  \n\t "})

	// THEN: Acknowledged without a write
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, SkippedResponse{Success: true, Skipped: true}, decodeJSON[SkippedResponse](t, resp))
	assert.Equal(t, before, decodeJSON[DocumentDTO](t, get(t, srv.URL+"/data")))
}

func TestSaveLog_NoDocument_404(t *testing.T) {
	srv := newTestServer(t, store.NewMemory())

	resp := postJSON(t, srv.URL+"/save-log", map[string]string{"date": "2024-03-10", "text": "hi"})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSaveLog_SetsOnlyThatDate(t *testing.T) {
	// GIVEN: A document with yesterday's log
	srv := seeded(t)
	postJSON(t, srv.URL+"/save-log", map[string]string{"date": "2024-03-09", "text": "yesterday"})

	// WHEN: Writing today's log
	resp := postJSON(t, srv.URL+"/save-log", map[string]string{"date": "2024-03-10", "text": "## Today\nshipped"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := decodeJSON[DocumentDTO](t, resp)

	// THEN: Both logs present, the rest of the document untouched
	assert.Equal(t, map[habit.Date]string{
		"2024-03-09": "yesterday",
		"2024-03-10": "## Today\nshipped",
	}, doc.Logs)
	assert.Equal(t, sampleSave().Today, doc.Today)
}

// =============================================================================
// POST /add-rule
// =============================================================================

func TestAddRule_Blank_Skipped(t *testing.T) {
	srv := newTestServer(t, store.NewMemory())

	for _, body := range []string{`{}`, `{"text":""}`, `{"text":"   "}`, `{"text":null}`} {
		resp := postRaw(t, srv.URL+"/add-rule", body)
		assert.Equal(t, http.StatusOK, resp.StatusCode, body)
		assert.Equal(t, SkippedResponse{Success: true, Skipped: true}, decodeJSON[SkippedResponse](t, resp), body)
	}
}

func TestAddRule_Blank_RulesUnchanged(t *testing.T) {
	// GIVEN: A stored document with one rule
	srv := seeded(t)
	resp := postJSON(t, srv.URL+"/add-rule", map[string]string{"text": "Never skip twice"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	before := decodeJSON[DocumentDTO](t, get(t, srv.URL+"/data"))
	require.Len(t, before.Rules, 1)

	// WHEN: Posting blank rules
	for _, body := range []string{`{"text":"  "}`, `{"text":null}`, `{}`} {
		resp := postRaw(t, srv.URL+"/add-rule", body)
		assert.Equal(t, http.StatusOK, resp.StatusCode, body)
		assert.Equal(t, SkippedResponse{Success: true, Skipped: true}, decodeJSON[SkippedResponse](t, resp), body)
	}

	// THEN: The stored rules are exactly as before
	after := decodeJSON[DocumentDTO](t, get(t, srv.URL+"/data"))
	assert.Equal(t, before.Rules, after.Rules)
}

func TestAddRule_NonString_400(t *testing.T) {
	srv := seeded(t)

	resp := postRaw(t, srv.URL+"/add-rule", `{"text":["a"]}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddRule_NoDocument_404(t *testing.T) {
	srv := newTestServer(t, store.NewMemory())

	resp := postJSON(t, srv.URL+"/add-rule", map[string]string{"text": "sleep by 11"})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, ErrorResponse{Error: "Not found"}, decodeJSON[ErrorResponse](t, resp))
}

func TestAddRule_AppendsWithServerTimestamp(t *testing.T) {
	// GIVEN: A document with one rule
	srv := seeded(t)
	postJSON(t, srv.URL+"/add-rule", map[string]string{"text": "no phone in bed"})

	// WHEN: Adding a second rule
	resp := postJSON(t, srv.URL+"/add-rule", map[string]string{"text": "sleep by 11"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeJSON[AddRuleResponse](t, resp)

	// THEN: Full list in insertion order, ids assigned, createdAt from the server clock
	assert.True(t, out.Success)
	require.Len(t, out.Rules, 2)
	assert.Equal(t, "no phone in bed", out.Rules[0].Text)
	assert.Equal(t, "sleep by 11", out.Rules[1].Text)
	assert.NotEmpty(t, out.Rules[1].ID)
	assert.NotEqual(t, out.Rules[0].ID, out.Rules[1].ID)
	assert.True(t, out.Rules[1].CreatedAt.Equal(fixedNow))
}

func TestGetData_StoreFailure_500(t *testing.T) {
	srv := newTestServer(t, failingStore{})

	resp := get(t, srv.URL+"/data")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
