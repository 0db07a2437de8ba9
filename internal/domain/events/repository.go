package events

import (
	"context"
	"errors"
	"time"

	"personal-agenda/internal/platform/timewindow"
)

var (
	ErrNotFound = errors.New("not found")
)

type Repository interface {
	Create(ctx context.Context, e Event) error
	GetByID(ctx context.Context, id string) (Event, error)
	Update(ctx context.Context, id string, patch Patch) error
	Complete(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	// Query devuelve los eventos que cumplen el filtro, ordenados por ScheduledAt asc.
	Query(ctx context.Context, filter ListFilter) ([]Event, error)
	// BulkSetNotified marca notified=true para todo el set en una sola operación.
	BulkSetNotified(ctx context.Context, ids []string) (int64, error)
}

// ListFilter es el predicado de Query. Campos nil no filtran.
// From es una cota inferior inclusiva, independiente de Window.
type ListFilter struct {
	Window    *timewindow.Window
	From      *time.Time
	Completed *bool
	Notified  *bool
	Limit     int
}

// Patch es una actualización parcial. Notified no se expone: solo lo toca el scheduler.
type Patch struct {
	Title       *string
	Description *string
	ScheduledAt *time.Time
	Priority    *Priority
	Completed   *bool
}

func Bool(v bool) *bool { return &v }

// Matches evalúa el filtro en memoria (adapter memory y tests).
func (f ListFilter) Matches(e Event) bool {
	if f.Window != nil && !f.Window.Contains(e.ScheduledAt) {
		return false
	}
	if f.From != nil && e.ScheduledAt.Before(*f.From) {
		return false
	}
	if f.Completed != nil && e.Completed != *f.Completed {
		return false
	}
	if f.Notified != nil && e.Notified != *f.Notified {
		return false
	}
	return true
}
