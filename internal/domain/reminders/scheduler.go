// Package reminders corre el ciclo periódico de recordatorios: marca los eventos
// de hoy como notificados y reporta los inminentes y los vencidos.
package reminders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"personal-agenda/internal/domain/events"
	"personal-agenda/internal/platform/logger"
	"personal-agenda/internal/platform/timewindow"

	"github.com/robfig/cron/v3"
)

const (
	DefaultInterval = 60 * time.Second
	ImminentWindow  = 30 * time.Minute
	OverdueWindow   = 60 * time.Minute
)

// Store es el subconjunto del gateway de eventos que usa el scheduler.
type Store interface {
	Query(ctx context.Context, filter events.ListFilter) ([]events.Event, error)
	BulkSetNotified(ctx context.Context, ids []string) (int64, error)
}

type Options struct {
	Interval time.Duration
	// CycleTimeout acota cada ciclo; por defecto igual a Interval.
	CycleTimeout time.Duration
	Clock        timewindow.Clock
	Location     *time.Location
	Logger       logger.Logger
	Sink         Sink
	Locker       Locker
}

// Report resume el último ciclo ejecutado.
type Report struct {
	RanAt          time.Time `json:"ran_at"`
	DueToday       int       `json:"due_today"`
	MarkedNotified int64     `json:"marked_notified"`
	Imminent       int       `json:"imminent"`
	Overdue        int       `json:"overdue"`
	Error          string    `json:"error,omitempty"`
}

// Reminder es un evento inminente con los minutos que faltan.
type Reminder struct {
	Event            events.Event
	MinutesRemaining int
}

type Scheduler struct {
	store        Store
	interval     time.Duration
	cycleTimeout time.Duration
	clock        timewindow.Clock
	loc          *time.Location
	log          logger.Logger
	sink         Sink
	locker       Locker

	// cycle garantiza que dos ciclos nunca se solapen en este proceso.
	cycle sync.Mutex

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
	last   *Report
}

// New acepta store nil: los ciclos son no-op hasta que haya almacenamiento.
func New(store Store, opts Options) *Scheduler {
	s := &Scheduler{
		store:        store,
		interval:     opts.Interval,
		cycleTimeout: opts.CycleTimeout,
		clock:        opts.Clock,
		loc:          opts.Location,
		log:          opts.Logger,
		sink:         opts.Sink,
		locker:       opts.Locker,
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.cycleTimeout <= 0 {
		s.cycleTimeout = s.interval
	}
	if s.clock == nil {
		s.clock = timewindow.System
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.With(map[string]any{"component": "reminders"})
	if s.sink == nil {
		s.sink = LogSink{Log: s.log, Location: s.loc}
	}
	return s
}

func (s *Scheduler) Available() bool {
	return s.store != nil
}

func (s *Scheduler) now() time.Time {
	return s.clock.Now().In(s.loc)
}

// Start programa un tick cada Interval. Llamarlo dos veces es un error.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return errors.New("reminder scheduler already started")
	}

	cl := cronLogger{log: s.log}
	c := cron.New(
		cron.WithLocation(s.loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	base, cancel := context.WithCancel(context.Background())
	c.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		s.Tick(base)
	}))
	c.Start()

	s.cron = c
	s.cancel = cancel
	s.log.Info("reminder scheduler started", map[string]any{"interval": s.interval.String()})
	return nil
}

// Stop deja de programar ticks. El ciclo en curso, si lo hay, termina con su
// propio timeout; el contexto devuelto se cierra cuando terminó.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()

	if c == nil {
		ctx, done := context.WithCancel(context.Background())
		done()
		return ctx
	}

	ctx := c.Stop()
	go func() {
		<-ctx.Done()
		cancel()
	}()
	s.log.Info("reminder scheduler stopped", nil)
	return ctx
}

// Tick corre un ciclo y absorbe cualquier error: el siguiente tick corre igual.
func (s *Scheduler) Tick(ctx context.Context) {
	rep, err := s.RunCycle(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrCycleInProgress):
		s.log.Debug("previous reminder cycle still running, skipping tick", nil)
	case errors.Is(err, ErrLockUnavailable):
		s.log.Warn("cycle lock unavailable, skipping tick", map[string]any{"err": err})
	default:
		s.log.Error("reminder cycle failed", map[string]any{"err": err, "ran_at": rep.RanAt})
	}
}

// RunCycle ejecuta las tres pasadas en orden: hoy, inminentes, vencidos.
// Devuelve ErrCycleInProgress si otro ciclo (local o de otra réplica) está corriendo
// y ErrLockUnavailable si el Locker falla: sin lock no se escribe.
func (s *Scheduler) RunCycle(ctx context.Context) (Report, error) {
	if s.store == nil {
		return Report{}, nil
	}

	if !s.cycle.TryLock() {
		return Report{}, ErrCycleInProgress
	}
	defer s.cycle.Unlock()

	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, s.cycleTimeout)
		if err != nil {
			return Report{}, fmt.Errorf("%w: %w", ErrLockUnavailable, err)
		}
		if !ok {
			return Report{}, ErrCycleInProgress
		}
		defer release()
	}

	ctx, cancel := context.WithTimeout(ctx, s.cycleTimeout)
	defer cancel()

	now := s.now()
	rep := Report{RanAt: now}

	err := s.runPasses(ctx, now, &rep)
	if err != nil {
		rep.Error = err.Error()
	}
	s.setLast(rep)
	return rep, err
}

func (s *Scheduler) runPasses(ctx context.Context, now time.Time, rep *Report) error {
	found, marked, err := s.dueTodayPass(ctx, now)
	rep.DueToday, rep.MarkedNotified = found, marked
	if err != nil {
		return err
	}

	imminent, err := s.imminent(ctx, now)
	if err != nil {
		return &CycleError{Pass: PassImminent, Err: err}
	}
	rep.Imminent = len(imminent)
	for _, r := range imminent {
		s.sink.Emit(ctx, Signal{Kind: KindImminent, Event: r.Event, Minutes: r.MinutesRemaining, At: now})
	}

	overdue, err := s.overduePass(ctx, now)
	rep.Overdue = overdue
	return err
}

// dueTodayPass es la única pasada con escritura: notified false -> true.
func (s *Scheduler) dueTodayPass(ctx context.Context, now time.Time) (int, int64, error) {
	day := timewindow.Day(now)
	items, err := s.store.Query(ctx, events.ListFilter{
		Window:    &day,
		Completed: events.Bool(false),
		Notified:  events.Bool(false),
	})
	if err != nil {
		return 0, 0, &CycleError{Pass: PassDueToday, Err: err}
	}
	if len(items) == 0 {
		return 0, 0, nil
	}

	ids := make([]string, 0, len(items))
	for _, e := range items {
		ids = append(ids, e.ID)
	}

	marked, err := s.store.BulkSetNotified(ctx, ids)
	if err != nil {
		return len(items), 0, &CycleError{Pass: PassDueToday, Err: err}
	}

	s.log.Info("events scheduled for today", map[string]any{"count": len(items), "marked": marked})
	for _, e := range items {
		s.sink.Emit(ctx, Signal{
			Kind:    KindDueToday,
			Event:   e,
			Minutes: timewindow.MinutesUntil(e.ScheduledAt, now),
			At:      now,
		})
	}
	return len(items), marked, nil
}

func (s *Scheduler) overduePass(ctx context.Context, now time.Time) (int, error) {
	w := timewindow.Behind(now, OverdueWindow)
	items, err := s.store.Query(ctx, events.ListFilter{
		Window:    &w,
		Completed: events.Bool(false),
	})
	if err != nil {
		return 0, &CycleError{Pass: PassOverdue, Err: err}
	}
	if len(items) == 0 {
		return 0, nil
	}

	s.log.Warn("overdue events not completed", map[string]any{"count": len(items)})
	for _, e := range items {
		s.sink.Emit(ctx, Signal{
			Kind:    KindOverdue,
			Event:   e,
			Minutes: timewindow.MinutesSince(e.ScheduledAt, now),
			At:      now,
		})
	}
	return len(items), nil
}

func (s *Scheduler) imminent(ctx context.Context, now time.Time) ([]Reminder, error) {
	w := timewindow.Ahead(now, ImminentWindow)
	items, err := s.store.Query(ctx, events.ListFilter{
		Window:    &w,
		Completed: events.Bool(false),
	})
	if err != nil {
		return nil, err
	}

	out := make([]Reminder, 0, len(items))
	for _, e := range items {
		out = append(out, Reminder{Event: e, MinutesRemaining: timewindow.MinutesUntil(e.ScheduledAt, now)})
	}
	return out, nil
}

// Imminent es la misma lectura de la pasada de inminentes, sin emitir señales.
func (s *Scheduler) Imminent(ctx context.Context) ([]Reminder, error) {
	if s.store == nil {
		return nil, events.ErrStorageUnavailable
	}
	return s.imminent(ctx, s.now())
}

func (s *Scheduler) LastReport() (Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Report{}, false
	}
	return *s.last, true
}

func (s *Scheduler) setLast(r Report) {
	s.mu.Lock()
	s.last = &r
	s.mu.Unlock()
}

// cronLogger adapta nuestro Logger a cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, kvFields(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	f := kvFields(keysAndValues)
	f["err"] = err
	l.log.Error(msg, f)
}

func kvFields(kv []interface{}) map[string]any {
	f := make(map[string]any, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			f[k] = kv[i+1]
		}
	}
	return f
}
