package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func postIngest(t *testing.T, s *DashboardServer, body string) map[string]interface{} {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// -----------------------------------------------------------------------------

func receiveEvent(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case event := <-c.send:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
		return nil
	}
}

// -----------------------------------------------------------------------------

func TestIngestSingleObject(t *testing.T) {
	s, _ := newTestServer(t, "")
	go s.runHub()
	defer s.Stop()

	a := newFakeClient(s, 4)
	b := newFakeClient(s, 4)
	s.addClient(a)
	s.addClient(b)

	resp := postIngest(t, s, `{"a": 1}`)
	assert.Equal(t, "ok", resp["status"])

	want := map[string]interface{}{"a": float64(1)}
	assert.Equal(t, want, receiveEvent(t, a))
	assert.Equal(t, want, receiveEvent(t, b))
}

// -----------------------------------------------------------------------------

func TestIngestArraySkipsNonObjects(t *testing.T) {
	s, _ := newTestServer(t, "")
	go s.runHub()
	defer s.Stop()

	c := newFakeClient(s, 8)
	s.addClient(c)

	resp := postIngest(t, s, `[{"a": 1}, "not-an-object", {"b": 2}]`)
	assert.Equal(t, "ok", resp["status"])

	// Exactly two events, in input order
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, receiveEvent(t, c))
	assert.Equal(t, map[string]interface{}{"b": float64(2)}, receiveEvent(t, c))

	select {
	case extra := <-c.send:
		t.Fatalf("unexpected extra event: %v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

// -----------------------------------------------------------------------------

func TestIngestUnrecognizedShapeIgnored(t *testing.T) {
	s, _ := newTestServer(t, "")
	go s.runHub()
	defer s.Stop()

	c := newFakeClient(s, 4)
	s.addClient(c)

	for _, body := range []string{`"hello"`, `42`, `true`, `not json at all`} {
		resp := postIngest(t, s, body)
		assert.Equal(t, "ignored", resp["status"], "body %s", body)
	}

	select {
	case extra := <-c.send:
		t.Fatalf("ignored payload must not broadcast, got %v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

// -----------------------------------------------------------------------------

func TestIngestNeverFailsPublisher(t *testing.T) {
	s, _ := newTestServer(t, "")
	go s.runHub()
	defer s.Stop()

	// A subscriber with a full buffer must not affect the ingest response
	dead := newFakeClient(s, 0)
	s.addClient(dead)

	resp := postIngest(t, s, `{"x": 9}`)
	assert.Equal(t, "ok", resp["status"])
}

// -----------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t, "")

	s.addClient(newFakeClient(s, 1))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, float64(1), resp["connections"])
}
