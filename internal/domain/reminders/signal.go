package reminders

import (
	"context"
	"time"

	"personal-agenda/internal/domain/events"
	"personal-agenda/internal/platform/logger"
)

type Kind string

const (
	KindDueToday Kind = "due_today"
	KindImminent Kind = "imminent"
	KindOverdue  Kind = "overdue"
)

// Signal es un recordatorio emitido por un ciclo. Minutes es "faltan" para
// due_today/imminent y "hace" para overdue.
type Signal struct {
	Kind    Kind
	Event   events.Event
	Minutes int
	At      time.Time
}

// Sink recibe las señales de cada ciclo. La entrega real (push, email) queda fuera.
type Sink interface {
	Emit(ctx context.Context, s Signal)
}

type SinkFunc func(ctx context.Context, s Signal)

func (f SinkFunc) Emit(ctx context.Context, s Signal) { f(ctx, s) }

// LogSink escribe cada señal en el log.
type LogSink struct {
	Log      logger.Logger
	Location *time.Location
}

func (l LogSink) Emit(_ context.Context, s Signal) {
	loc := l.Location
	if loc == nil {
		loc = time.Local
	}
	fields := map[string]any{
		"event_id": s.Event.ID,
		"title":    s.Event.Title,
		"priority": string(s.Event.Priority),
		"at":       s.Event.ScheduledAt.In(loc).Format("15:04"),
	}

	switch s.Kind {
	case KindImminent:
		fields["minutes_remaining"] = s.Minutes
		l.Log.Info("reminder", fields)
	case KindOverdue:
		fields["minutes_overdue"] = s.Minutes
		l.Log.Warn("event overdue and not completed", fields)
	default:
		l.Log.Info("event scheduled for today", fields)
	}
}
