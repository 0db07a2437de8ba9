package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"personal-agenda/internal/platform/timewindow"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

type Service struct {
	repo  Repository
	clock timewindow.Clock
	loc   *time.Location
}

type Option func(*Service)

func WithClock(c timewindow.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLocation fija la zona usada para "hoy".
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService acepta repo nil: en ese caso todas las operaciones devuelven
// ErrStorageUnavailable (modo degradado).
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		clock: timewindow.System,
		loc:   time.Local,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) now() time.Time {
	return s.clock.Now().In(s.loc)
}

// Location es la zona usada para fechas locales (hoy, HH:MM).
func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) Available() bool {
	return s.repo != nil
}

type CreateInput struct {
	Title       string
	Description string
	ScheduledAt time.Time
	Priority    string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Event, error) {
	if s.repo == nil {
		return Event{}, ErrStorageUnavailable
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Event{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.ScheduledAt.IsZero() {
		return Event{}, fmt.Errorf("%w: scheduled_at is required", ErrInvalidInput)
	}
	prio, ok := ParsePriority(in.Priority)
	if !ok {
		return Event{}, fmt.Errorf("%w: priority must be low, normal or high", ErrInvalidInput)
	}

	e := Event{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		ScheduledAt: in.ScheduledAt,
		Priority:    prio,
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Event, error) {
	if s.repo == nil {
		return Event{}, ErrStorageUnavailable
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// List devuelve todos los eventos por fecha ascendente.
func (s *Service) List(ctx context.Context) ([]Event, error) {
	if s.repo == nil {
		return nil, ErrStorageUnavailable
	}
	return s.repo.Query(ctx, ListFilter{})
}

// Today son los eventos del día calendario actual, completados o no.
func (s *Service) Today(ctx context.Context) ([]Event, error) {
	if s.repo == nil {
		return nil, ErrStorageUnavailable
	}
	day := timewindow.Day(s.now())
	return s.repo.Query(ctx, ListFilter{Window: &day})
}

// Pending son los no completados desde ahora en adelante.
func (s *Service) Pending(ctx context.Context) ([]Event, error) {
	if s.repo == nil {
		return nil, ErrStorageUnavailable
	}
	now := s.now()
	return s.repo.Query(ctx, ListFilter{From: &now, Completed: Bool(false)})
}

type UpdateInput struct {
	Title       *string
	Description *string
	ScheduledAt *time.Time
	Priority    *string
	Completed   *bool
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Event, error) {
	if s.repo == nil {
		return Event{}, ErrStorageUnavailable
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrInvalidInput
	}

	var patch Patch
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return Event{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		patch.Title = &t
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		patch.Description = &d
	}
	if in.ScheduledAt != nil {
		if in.ScheduledAt.IsZero() {
			return Event{}, fmt.Errorf("%w: scheduled_at cannot be empty", ErrInvalidInput)
		}
		at := *in.ScheduledAt
		patch.ScheduledAt = &at
	}
	if in.Priority != nil {
		p, ok := ParsePriority(*in.Priority)
		if !ok {
			return Event{}, fmt.Errorf("%w: priority must be low, normal or high", ErrInvalidInput)
		}
		patch.Priority = &p
	}
	// completed no se revierte: false se ignora.
	if in.Completed != nil && *in.Completed {
		patch.Completed = Bool(true)
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return Event{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Complete(ctx context.Context, id string) (Event, error) {
	if s.repo == nil {
		return Event{}, ErrStorageUnavailable
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrInvalidInput
	}
	if err := s.repo.Complete(ctx, id); err != nil {
		return Event{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete borra en duro, sin soft-delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.repo == nil {
		return ErrStorageUnavailable
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func todayPendingFilter(now time.Time, limit int) ListFilter {
	day := timewindow.Day(now)
	return ListFilter{Window: &day, Completed: Bool(false), Limit: limit}
}
