package reminders

import (
	"errors"
	"fmt"
)

type Pass string

const (
	PassDueToday Pass = "due_today"
	PassImminent Pass = "imminent"
	PassOverdue  Pass = "overdue"
)

var (
	ErrCycleInProgress = errors.New("reminder cycle already running")
	ErrLockUnavailable = errors.New("reminder cycle lock unavailable")
)

// CycleError aborta el ciclo actual; el siguiente tick corre igual.
type CycleError struct {
	Pass Pass
	Err  error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("reminder cycle aborted in %s pass: %v", e.Pass, e.Err)
}

func (e *CycleError) Unwrap() error { return e.Err }
