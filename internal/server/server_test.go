package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cliphist/internal/config"
	"cliphist/internal/service"
)

type testMonitor struct {
	handler func(string)
}

func (m *testMonitor) Start() error                  { return nil }
func (m *testMonitor) Stop() error                   { return nil }
func (m *testMonitor) OnChange(handler func(string)) { m.handler = handler }

type testAccessor struct {
	copied []string
}

func (a *testAccessor) Text() (string, error) { return "", nil }

func (a *testAccessor) SetText(text string) error {
	a.copied = append(a.copied, text)
	return nil
}

func setupTestServer(t *testing.T) (*httptest.Server, *testMonitor, *testAccessor) {
	t.Helper()

	monitor := &testMonitor{}
	accessor := &testAccessor{}
	svc := service.New(service.Options{
		DataDir:  t.TempDir(),
		Monitor:  monitor,
		Accessor: accessor,
		Settings: config.Default(),
	})
	require.NoError(t, svc.Start())
	t.Cleanup(func() { svc.Stop() })

	srv := httptest.NewServer(New(svc, Config{}).routes())
	t.Cleanup(srv.Close)
	return srv, monitor, accessor
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp
}

func TestSearchEndpoint(t *testing.T) {
	srv, monitor, _ := setupTestServer(t)

	monitor.handler("foobar")
	monitor.handler("foo")
	monitor.handler("barfoo")

	var results []service.SearchResult
	getJSON(t, srv.URL+"/api/search?q=foo", &results)

	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, "barfoo", results[0].Text)
	assert.Equal(t, 3, results[2].Rank)
	assert.Equal(t, "foobar", results[2].Text)
	assert.Contains(t, results[0].Actions, service.ActionCopy)
}

func TestSearchEndpointFuzzyOverride(t *testing.T) {
	srv, monitor, _ := setupTestServer(t)
	monitor.handler("foobar")

	var results []service.SearchResult
	getJSON(t, srv.URL+"/api/search?q=fbr", &results)
	assert.Empty(t, results)

	getJSON(t, srv.URL+"/api/search?q=fbr&fuzzy=true", &results)
	assert.Len(t, results, 1)
}

func TestHistoryBrowseAndRemove(t *testing.T) {
	srv, monitor, _ := setupTestServer(t)
	monitor.handler("keep")
	monitor.handler("drop")

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/history?text=drop", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var results []service.SearchResult
	getJSON(t, srv.URL+"/api/history", &results)
	require.Len(t, results, 1)
	assert.Equal(t, "keep", results[0].Text)
}

func TestCopyEndpoint(t *testing.T) {
	srv, monitor, accessor := setupTestServer(t)
	monitor.handler("older")
	monitor.handler("newer")

	resp, err := http.Post(srv.URL+"/api/history/1/copy", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"older"}, accessor.copied)

	resp, err = http.Post(srv.URL+"/api/history/9/copy", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSettingsEndpoint(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	var settings config.Settings
	getJSON(t, srv.URL+"/api/settings", &settings)
	assert.Equal(t, config.Default(), settings)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/settings",
		strings.NewReader(`{"history_limit": 5, "fuzzy": true}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&settings))

	assert.Equal(t, 5, settings.HistoryLimit)
	assert.True(t, settings.Fuzzy)
	assert.False(t, settings.Persist, "untouched field keeps its value")
}

func TestSnippetsUnavailable(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	resp, err := http.Post(srv.URL+"/api/snippets", "application/json",
		strings.NewReader(`{"text": "snip"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
