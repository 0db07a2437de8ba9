package events

import "time"

type Event struct {
	ID string

	Title       string
	Description string

	ScheduledAt time.Time
	Priority    Priority

	// Completed y Notified solo pasan de false a true.
	Completed bool
	Notified  bool

	CreatedAt time.Time
}
