package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"adsales_backend/internal/automations/transport"
	"adsales_backend/internal/events"
	"adsales_backend/platform/apperr"
	"adsales_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type fakeDeadlines struct {
	gotDays int
	err     error
}

func (f *fakeDeadlines) Run(_ context.Context, days int) (transport.DeadlineAlertsResponse, error) {
	f.gotDays = days
	if f.err != nil {
		return transport.DeadlineAlertsResponse{}, f.err
	}
	return transport.DeadlineAlertsResponse{Success: true, ThresholdDays: days, Alerts: []transport.DeadlineAlert{}}, nil
}

type fakeStale struct{ gotDays int }

func (f *fakeStale) Run(_ context.Context, days int) (transport.StaleContactsResponse, error) {
	f.gotDays = days
	return transport.StaleContactsResponse{Success: true, ThresholdDays: days}, nil
}

type fakeWaffling struct{ err error }

func (f fakeWaffling) Run(context.Context) (transport.WafflingResponse, error) {
	return transport.WafflingResponse{Success: true, AccountsChecked: 3}, f.err
}

type fakeOrchestrator struct{ trigger events.Trigger }

func (f *fakeOrchestrator) RunAll(_ context.Context, trigger events.Trigger) transport.RunAllResponse {
	f.trigger = trigger
	return transport.RunAllResponse{Success: false, Errors: []string{"deadline-alerts: store unavailable"}}
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/recalculate-waffling", h.RecalculateWaffling)
	r.POST("/deadline-alerts", h.DeadlineAlerts)
	r.POST("/stale-contacts", h.StaleContacts)
	r.POST("/run-all", h.RunAll)
	return r
}

func TestDeadlineAlertsThresholdResolution(t *testing.T) {
	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"default", "/deadline-alerts", "", 7},
		{"body number", "/deadline-alerts", `{"days_threshold": 14}`, 14},
		{"body string", "/deadline-alerts", `{"days_threshold": "3"}`, 3},
		{"query", "/deadline-alerts?days_threshold=10", "", 10},
		{"body wins over query", "/deadline-alerts?days_threshold=10", `{"days_threshold": 2}`, 2},
		{"out of range", "/deadline-alerts", `{"days_threshold": 0}`, 7},
		{"malformed body", "/deadline-alerts", `{days`, 7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deadlines := &fakeDeadlines{}
			h := New(Deps{Deadlines: deadlines, DeadlineDays: 7}, validator.New())

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(tc.body))
			newTestRouter(h).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if deadlines.gotDays != tc.want {
				t.Fatalf("expected %d days, got %d", tc.want, deadlines.gotDays)
			}
		})
	}
}

func TestStaleContactsUsesOwnDefault(t *testing.T) {
	stale := &fakeStale{}
	h := New(Deps{Stale: stale, StaleDays: 5}, validator.New())

	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stale-contacts", nil))

	if stale.gotDays != 5 {
		t.Fatalf("expected 5 days, got %d", stale.gotDays)
	}
}

func TestStoreFailureIsServiceUnavailable(t *testing.T) {
	deadlines := &fakeDeadlines{err: apperr.Unavailable("store unavailable", context.DeadlineExceeded)}
	h := New(Deps{Deadlines: deadlines, DeadlineDays: 7}, validator.New())

	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/deadline-alerts", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON body, got %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Fatalf("expected error field, got %v", body)
	}
}

func TestRecalculateWafflingReturnsReport(t *testing.T) {
	h := New(Deps{Waffling: fakeWaffling{}}, validator.New())

	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/recalculate-waffling", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp transport.WafflingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.AccountsChecked != 3 {
		t.Fatalf("unexpected report %+v", resp)
	}
}

func TestRunAllReportsPartialFailureWith200(t *testing.T) {
	orch := &fakeOrchestrator{}
	h := New(Deps{Orchestrator: orch}, validator.New())

	rec := httptest.NewRecorder()
	newTestRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/run-all", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if orch.trigger != events.TriggerHTTP {
		t.Fatalf("expected http trigger, got %s", orch.trigger)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Fatalf("expected success=false in body, got %s", rec.Body.String())
	}
}
