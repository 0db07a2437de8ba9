package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"personal-agenda/internal/domain/events"
	"personal-agenda/internal/platform/timewindow"
)

func seed(t *testing.T, repo events.Repository, items ...events.Event) {
	t.Helper()
	for _, e := range items {
		if err := repo.Create(context.Background(), e); err != nil {
			t.Fatalf("seed %s: %v", e.ID, err)
		}
	}
}

func TestEventRepo_QueryOrdersAscendingAndFilters(t *testing.T) {
	repo := NewEventRepo()
	now := time.Date(2024, 1, 1, 8, 50, 0, 0, time.UTC)

	seed(t, repo,
		events.Event{ID: "c", Title: "late", ScheduledAt: now.Add(20 * time.Minute)},
		events.Event{ID: "a", Title: "soon", ScheduledAt: now.Add(10 * time.Minute)},
		events.Event{ID: "b", Title: "done", ScheduledAt: now.Add(5 * time.Minute), Completed: true},
		events.Event{ID: "d", Title: "far", ScheduledAt: now.Add(3 * time.Hour)},
	)

	w := timewindow.Ahead(now, 30*time.Minute)
	got, err := repo.Query(context.Background(), events.ListFilter{
		Window:    &w,
		Completed: events.Bool(false),
	})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected result: %#v", got)
	}

	all, _ := repo.Query(context.Background(), events.ListFilter{Limit: 3})
	if len(all) != 3 || all[0].ID != "b" {
		t.Fatalf("expected 3 items starting with b, got %#v", all)
	}
}

func TestEventRepo_BulkSetNotified(t *testing.T) {
	repo := NewEventRepo()
	now := time.Now()

	seed(t, repo,
		events.Event{ID: "a", Title: "a", ScheduledAt: now},
		events.Event{ID: "b", Title: "b", ScheduledAt: now, Notified: true},
	)

	n, err := repo.BulkSetNotified(context.Background(), []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("BulkSetNotified returned error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 affected row, got %d", n)
	}

	a, _ := repo.GetByID(context.Background(), "a")
	if !a.Notified {
		t.Fatalf("expected a notified")
	}

	n, err = repo.BulkSetNotified(context.Background(), nil)
	if err != nil || n != 0 {
		t.Fatalf("empty set must be a no-op, got n=%d err=%v", n, err)
	}
}

func TestEventRepo_UpdateNeverRevertsCompleted(t *testing.T) {
	repo := NewEventRepo()
	seed(t, repo, events.Event{ID: "a", Title: "a", ScheduledAt: time.Now(), Completed: true})

	title := "renamed"
	if err := repo.Update(context.Background(), "a", events.Patch{
		Title:     &title,
		Completed: events.Bool(false),
	}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	a, _ := repo.GetByID(context.Background(), "a")
	if a.Title != "renamed" || !a.Completed {
		t.Fatalf("unexpected event after update: %#v", a)
	}
}

func TestEventRepo_NotFound(t *testing.T) {
	repo := NewEventRepo()

	if _, err := repo.GetByID(context.Background(), "x"); !errors.Is(err, events.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(context.Background(), "x"); !errors.Is(err, events.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
	if err := repo.Complete(context.Background(), "x"); !errors.Is(err, events.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on complete, got %v", err)
	}
}
