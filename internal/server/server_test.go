package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DipWatch/internal/model"
	"DipWatch/internal/scanner"
)

type stubScanner struct {
	results []model.DipResult
	err     error
}

func (s *stubScanner) Scan(_ context.Context) ([]model.DipResult, error) {
	return s.results, s.err
}

func newTestServer(scn DipScanner) *Server {
	return NewServer(DefaultConfig("127.0.0.1", 8000), scn, nil, nil)
}

func doRequest(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleRoot(t *testing.T) {
	rec := doRequest(t, newTestServer(&stubScanner{}), http.MethodGet, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "Dip Buying Trigger API", body["message"])
}

func TestHandlePing(t *testing.T) {
	rec := doRequest(t, newTestServer(&stubScanner{}), http.MethodHead, "/ping")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleDip_FieldNames(t *testing.T) {
	scn := &stubScanner{results: []model.DipResult{{
		Index:        "S&P 500",
		Ticker:       "^GSPC",
		CurrentPrice: 90,
		MA200:        100,
		DipPercent:   10,
		Action:       "🟢 Deploy 100%",
		DeployAmount: 100,
	}}}
	rec := doRequest(t, newTestServer(scn), http.MethodGet, "/dip")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []map[string]interface{} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)

	entry := body.Results[0]
	for _, field := range []string{"Index", "Ticker", "Current Price", "200 DMA", "Dip %", "Action", "Deploy"} {
		assert.Contains(t, entry, field)
	}
	assert.Equal(t, "S&P 500", entry["Index"])
	assert.Equal(t, 90.0, entry["Current Price"])
	assert.Equal(t, 100.0, entry["200 DMA"])
}

func TestHandleDip_NoResults(t *testing.T) {
	scn := &stubScanner{err: scanner.ErrNoResults}
	rec := doRequest(t, newTestServer(scn), http.MethodGet, "/dip")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No results available. Data may be missing or API limits reached.", body["detail"])
}

func TestHandleRoutes(t *testing.T) {
	rec := doRequest(t, newTestServer(&stubScanner{}), http.MethodGet, "/routes")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Routes []struct {
			Path    string   `json:"path"`
			Methods []string `json:"methods"`
		} `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	paths := make(map[string]bool)
	for _, r := range body.Routes {
		paths[r.Path] = true
	}
	assert.True(t, paths["/dip"], "dip route registered")
	assert.True(t, paths["/ping"], "ping route registered")
	assert.True(t, paths["/routes"], "routes route registered")
}

func TestRequestIDHeader(t *testing.T) {
	rec := doRequest(t, newTestServer(&stubScanner{}), http.MethodGet, "/")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestNotFound(t *testing.T) {
	rec := doRequest(t, newTestServer(&stubScanner{}), http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
