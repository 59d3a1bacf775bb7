package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func doGet(s *DashboardServer, target string, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set(adminTokenHeader, token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// -----------------------------------------------------------------------------
// Public Endpoint
// -----------------------------------------------------------------------------

func TestGenerateReportDefaults(t *testing.T) {
	s, builder := newTestServer(t, "")

	w := doGet(s, "/reports/generate", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, builder.Calls())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=full_report_")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "full", payload["report_type"])
}

// -----------------------------------------------------------------------------

func TestGenerateReportCSV(t *testing.T) {
	s, _ := newTestServer(t, "")

	w := doGet(s, "/reports/generate?rtype=summary&fmt=csv&tickers=AAPL&tickers=MSFT", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "ticker,records,min_price")
}

// -----------------------------------------------------------------------------

func TestGenerateReportRejectsUnknownEnums(t *testing.T) {
	s, builder := newTestServer(t, "")

	for _, target := range []string{
		"/reports/generate?rtype=bogus",
		"/reports/generate?fmt=docx",
		"/reports/generate?include_raw=maybe",
		"/reports/generate?date_from=not-a-date",
	} {
		w := doGet(s, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "target %s", target)
	}

	// Validation failures short-circuit before the pipeline runs
	assert.Equal(t, 0, builder.Calls())
}

// -----------------------------------------------------------------------------

func TestGenerateReportPipelineFailure(t *testing.T) {
	s, builder := newTestServer(t, "")
	builder.err = fmt.Errorf("simulation store unreachable")

	w := doGet(s, "/reports/generate", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "simulation store unreachable")
}

// -----------------------------------------------------------------------------
// Secure Endpoint
// -----------------------------------------------------------------------------

func TestSecureEndpointRequiresToken(t *testing.T) {
	s, builder := newTestServer(t, "s3cret")

	// Missing token
	w := doGet(s, "/admin/reports/generate?save=true", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong token
	w = doGet(s, "/admin/reports/generate?save=true", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// No pipeline work and no filesystem writes happened
	assert.Equal(t, 0, builder.Calls())
	_, err := os.Stat(s.Archive.Dir)
	assert.True(t, os.IsNotExist(err), "archive directory must not be created on auth failure")
}

// -----------------------------------------------------------------------------

func TestSecureGenerateWithSave(t *testing.T) {
	s, _ := newTestServer(t, "s3cret")

	w := doGet(s, "/admin/reports/generate?save=true", "s3cret")
	require.Equal(t, http.StatusOK, w.Code)

	entries, err := os.ReadDir(s.Archive.Dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "full_report_")

	// Archived bytes match the served artifact
	data, err := os.ReadFile(filepath.Join(s.Archive.Dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, w.Body.Bytes(), data)
}

// -----------------------------------------------------------------------------

func TestSecureGenerateWithoutSave(t *testing.T) {
	s, _ := newTestServer(t, "s3cret")

	w := doGet(s, "/admin/reports/generate", "s3cret")
	require.Equal(t, http.StatusOK, w.Code)

	_, err := os.Stat(s.Archive.Dir)
	assert.True(t, os.IsNotExist(err))
}

// -----------------------------------------------------------------------------

func TestRecentReportsSortedAndCapped(t *testing.T) {
	s, _ := newTestServer(t, "s3cret")

	require.NoError(t, s.Archive.EnsureDir())
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 55; i++ {
		name := filepath.Join(s.Archive.Dir, fmt.Sprintf("report_%02d.json", i))
		require.NoError(t, os.WriteFile(name, []byte("{}"), 0644))
		mtime := base.Add(time.Duration(i) * time.Second)
		require.NoError(t, os.Chtimes(name, mtime, mtime))
	}

	w := doGet(s, "/admin/reports/recent", "s3cret")
	require.Equal(t, http.StatusOK, w.Code)

	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 50)

	// Newest first
	assert.Equal(t, "report_54.json", entries[0]["name"])
	assert.Equal(t, "report_05.json", entries[49]["name"])
	assert.Equal(t, "/admin/reports/file/report_54.json", entries[0]["url"])
}

// -----------------------------------------------------------------------------

func TestReportFileRetrieval(t *testing.T) {
	s, _ := newTestServer(t, "s3cret")

	require.NoError(t, s.Archive.EnsureDir())
	path := filepath.Join(s.Archive.Dir, "20260828_110000_full_report.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ok":true}`), 0644))

	w := doGet(s, "/admin/reports/file/20260828_110000_full_report.json", "s3cret")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, w.Body.String())

	// Absent file
	w = doGet(s, "/admin/reports/file/nope.json", "s3cret")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// -----------------------------------------------------------------------------

func TestReportFileTraversalNeutralized(t *testing.T) {
	s, _ := newTestServer(t, "s3cret")

	// Plant a file outside the archive directory
	outside := filepath.Join(filepath.Dir(s.Archive.Dir), "secret")
	require.NoError(t, os.MkdirAll(filepath.Dir(outside), 0755))
	require.NoError(t, os.WriteFile(outside, []byte("top secret"), 0644))

	w := doGet(s, "/admin/reports/file/..%2fsecret", "s3cret")
	assert.NotEqual(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "top secret")
}

// -----------------------------------------------------------------------------

func TestAdminRoutesDisabledWithoutToken(t *testing.T) {
	s, _ := newTestServer(t, "")

	w := doGet(s, "/admin/reports/recent", "anything")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
