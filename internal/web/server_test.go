package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gambit-robotics/cm5-sentinel/internal/logic"
	"github.com/gambit-robotics/cm5-sentinel/internal/status"
)

func testTracker() *status.Tracker {
	tr := status.NewTracker(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), status.Config{
		Instance: "ina219",
		Unit:     "%",
		PollMs:   10000,
		Broker:   "tcp://127.0.0.1:1883",
	})
	tr.Update(logic.StateWarning, 14.2, time.Now())
	return tr
}

func TestHandleJSON(t *testing.T) {
	srv := New(":0", testTracker())
	req := httptest.NewRequest(http.MethodGet, "/index.json", nil)
	rec := httptest.NewRecorder()

	srv.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type: %q", ct)
	}

	var parsed status.StatusJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Instance != "ina219" || parsed.Status.State != "WARNING" {
		t.Errorf("unexpected status: %+v", parsed.Status)
	}
}

func TestHandleIndex(t *testing.T) {
	srv := New(":0", testTracker())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	srv.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "ina219") {
		t.Error("expected instance name in HTML")
	}
	if !strings.Contains(string(body), "WARNING") {
		t.Error("expected state in HTML")
	}
}

func TestHandleNotFound(t *testing.T) {
	srv := New(":0", testTracker())
	req := httptest.NewRequest(http.MethodGet, "/nonsense", nil)
	rec := httptest.NewRecorder()

	srv.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
