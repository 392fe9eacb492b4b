package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetricsEndpoint(t *testing.T) {
	RecordTrackLookup("html", OutcomeFound)

	srv := httptest.NewServer(newMux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "webvtt_track_lookups_total") {
		t.Error("Expected webvtt_track_lookups_total in metrics output")
	}
}

func TestHealthEndpoint(t *testing.T) {
	w := httptest.NewRecorder()
	healthHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Errorf("Unexpected health response %d %q", w.Code, w.Body.String())
	}
}

func TestNewServer(t *testing.T) {
	s := NewServer(9999, nil)
	if s.server.Addr != ":9999" {
		t.Errorf("Expected addr :9999, got %s", s.server.Addr)
	}
}
