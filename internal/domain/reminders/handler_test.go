package reminders_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"personal-agenda/internal/domain/events"
	"personal-agenda/internal/domain/reminders"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(s *reminders.Scheduler) http.Handler {
	r := chi.NewRouter()
	reminders.RegisterRoutes(r, s)
	return r
}

func TestNotificationsHandler(t *testing.T) {
	repo := newRepo(t,
		events.Event{ID: "soon", Title: "Standup", ScheduledAt: morning.Add(10 * time.Minute), Priority: events.PriorityHigh},
		events.Event{ID: "later", Title: "Lunch", ScheduledAt: morning.Add(3 * time.Hour)},
	)
	h := newTestRouter(newScheduler(repo, morning, &recordingSink{}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var got []struct {
		ID               string `json:"id"`
		MinutesRemaining int    `json:"minutes_remaining"`
		Priority         string `json:"priority"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 1 || got[0].ID != "soon" || got[0].MinutesRemaining != 10 || got[0].Priority != "high" {
		t.Fatalf("unexpected notifications %+v", got)
	}

	// Lectura pura: no marca notified.
	if mustGet(t, repo, "soon").Notified {
		t.Fatalf("notifications endpoint must not write")
	}
}

func TestNotificationsHandler_Degraded(t *testing.T) {
	h := newTestRouter(newScheduler(nil, morning, &recordingSink{}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestLastCycleHandler(t *testing.T) {
	repo := newRepo(t, events.Event{ID: "standup", Title: "Standup", ScheduledAt: morning.Add(10 * time.Minute)})
	s := newScheduler(repo, morning, &recordingSink{})
	h := newTestRouter(s)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/reminders/last-cycle", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 before any cycle, got %d", rr.Code)
	}

	if _, err := s.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle returned error: %v", err)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/reminders/last-cycle", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var rep reminders.Report
	if err := json.Unmarshal(rr.Body.Bytes(), &rep); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rep.DueToday != 1 || rep.MarkedNotified != 1 || rep.Imminent != 1 {
		t.Fatalf("unexpected report %+v", rep)
	}
}
