package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

type failingChecker struct{}

func (failingChecker) Check(context.Context) error { return errors.New("down") }

func TestHealthHandler(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectPing()

	rec := httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{"database": &DatabaseHealthChecker{DB: db}})(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{"database": failingChecker{}})(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var body HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Checks["database"].Message != "down" {
		t.Fatalf("unexpected checks: %+v", body.Checks)
	}
}

func TestAPIHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	APIHealthHandler(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" || body["message"] != "AI HealthCare API is running!" || body["timestamp"] == "" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestCountersFeedMetrics(t *testing.T) {
	before := GetMetrics()
	c := Counters{}
	c.AIRequested("analyze")
	c.AIFailed("analyze")
	c.DecisionRecorded()
	after := GetMetrics()

	for _, key := range []string{"analyses_total", "analyses_fallback", "ai_failures", "decisions_total"} {
		if after[key].(uint64) != before[key].(uint64)+1 {
			t.Errorf("%s did not increase: %v -> %v", key, before[key], after[key])
		}
	}
}
