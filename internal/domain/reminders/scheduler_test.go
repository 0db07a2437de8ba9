package reminders_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"personal-agenda/internal/adapters/storage/memory"
	"personal-agenda/internal/domain/events"
	"personal-agenda/internal/domain/reminders"
	"personal-agenda/internal/platform/timewindow"
)

var morning = time.Date(2024, 1, 1, 8, 50, 0, 0, time.UTC)

type recordingSink struct {
	mu      sync.Mutex
	signals []reminders.Signal
}

func (s *recordingSink) Emit(_ context.Context, sig reminders.Signal) {
	s.mu.Lock()
	s.signals = append(s.signals, sig)
	s.mu.Unlock()
}

func (s *recordingSink) ofKind(k reminders.Kind) []reminders.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []reminders.Signal
	for _, sig := range s.signals {
		if sig.Kind == k {
			out = append(out, sig)
		}
	}
	return out
}

func newRepo(t *testing.T, items ...events.Event) events.Repository {
	t.Helper()
	repo := memory.NewEventRepo()
	for _, e := range items {
		if err := repo.Create(context.Background(), e); err != nil {
			t.Fatalf("seed %s: %v", e.ID, err)
		}
	}
	return repo
}

func newScheduler(store reminders.Store, now time.Time, sink reminders.Sink) *reminders.Scheduler {
	return reminders.New(store, reminders.Options{
		Clock:    timewindow.Fixed(now),
		Location: time.UTC,
		Sink:     sink,
	})
}

func mustGet(t *testing.T, repo events.Repository, id string) events.Event {
	t.Helper()
	e, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID(%s): %v", id, err)
	}
	return e
}

func TestRunCycle_StandupScenario(t *testing.T) {
	repo := newRepo(t, events.Event{ID: "standup", Title: "Standup", ScheduledAt: morning.Add(10 * time.Minute)})
	sink := &recordingSink{}
	s := newScheduler(repo, morning, sink)

	rep, err := s.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle returned error: %v", err)
	}
	if rep.DueToday != 1 || rep.MarkedNotified != 1 || rep.Imminent != 1 || rep.Overdue != 0 {
		t.Fatalf("unexpected first report %+v", rep)
	}
	if !mustGet(t, repo, "standup").Notified {
		t.Fatalf("expected standup to be notified after first cycle")
	}

	imm := sink.ofKind(reminders.KindImminent)
	if len(imm) != 1 || imm[0].Minutes != 10 {
		t.Fatalf("expected one imminent signal with 10 minutes, got %+v", imm)
	}

	rep, err = s.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("second RunCycle returned error: %v", err)
	}
	if rep.DueToday != 0 || rep.MarkedNotified != 0 {
		t.Fatalf("due-today pass must be idempotent, got %+v", rep)
	}
	if rep.Imminent != 1 {
		t.Fatalf("imminent pass must report again, got %+v", rep)
	}
	if got := len(sink.ofKind(reminders.KindDueToday)); got != 1 {
		t.Fatalf("expected a single due-today signal across cycles, got %d", got)
	}
}

func TestRunCycle_CompletedEventsUntouched(t *testing.T) {
	repo := newRepo(t,
		events.Event{ID: "done", Title: "done", ScheduledAt: morning.Add(5 * time.Minute), Completed: true},
		events.Event{ID: "late-done", Title: "late", ScheduledAt: morning.Add(-20 * time.Minute), Completed: true},
	)
	s := newScheduler(repo, morning, &recordingSink{})

	rep, err := s.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle returned error: %v", err)
	}
	if rep.DueToday != 0 || rep.Imminent != 0 || rep.Overdue != 0 {
		t.Fatalf("completed events must not be reported, got %+v", rep)
	}
	if mustGet(t, repo, "done").Notified {
		t.Fatalf("completed event must never become notified")
	}
}

func TestRunCycle_WindowBoundaries(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := newRepo(t,
		events.Event{ID: "in15", Title: "a", ScheduledAt: now.Add(15 * time.Minute)},
		events.Event{ID: "in31", Title: "b", ScheduledAt: now.Add(31 * time.Minute)},
		events.Event{ID: "ago45", Title: "c", ScheduledAt: now.Add(-45 * time.Minute)},
		events.Event{ID: "ago61", Title: "d", ScheduledAt: now.Add(-61 * time.Minute)},
	)
	sink := &recordingSink{}
	s := newScheduler(repo, now, sink)

	if _, err := s.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle returned error: %v", err)
	}

	imm := sink.ofKind(reminders.KindImminent)
	if len(imm) != 1 || imm[0].Event.ID != "in15" || imm[0].Minutes != 15 {
		t.Fatalf("expected only in15 as imminent, got %+v", imm)
	}
	over := sink.ofKind(reminders.KindOverdue)
	if len(over) != 1 || over[0].Event.ID != "ago45" || over[0].Minutes != 45 {
		t.Fatalf("expected only ago45 as overdue, got %+v", over)
	}

	// Todos son de hoy: la pasada de hoy marca los cuatro.
	if got := len(sink.ofKind(reminders.KindDueToday)); got != 4 {
		t.Fatalf("expected 4 due-today signals, got %d", got)
	}
}

func TestRunCycle_OverdueCrossesMidnight(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 10, 0, 0, time.UTC)
	repo := newRepo(t, events.Event{ID: "y", Title: "late night", ScheduledAt: now.Add(-20 * time.Minute)})
	s := newScheduler(repo, now, &recordingSink{})

	rep, err := s.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle returned error: %v", err)
	}
	if rep.DueToday != 0 || rep.Overdue != 1 {
		t.Fatalf("expected yesterday's event only as overdue, got %+v", rep)
	}
	if mustGet(t, repo, "y").Notified {
		t.Fatalf("yesterday's event must not be marked by today's pass")
	}
}

func TestRunCycle_NilStoreIsNoop(t *testing.T) {
	s := newScheduler(nil, morning, &recordingSink{})

	rep, err := s.RunCycle(context.Background())
	if err != nil || rep != (reminders.Report{}) {
		t.Fatalf("expected silent no-op, got %+v, %v", rep, err)
	}
	if _, ok := s.LastReport(); ok {
		t.Fatalf("no-op cycle must not record a report")
	}
	if _, err := s.Imminent(context.Background()); !errors.Is(err, events.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

type flakyStore struct {
	reminders.Store
	failures atomic.Int32
}

func (f *flakyStore) Query(ctx context.Context, filter events.ListFilter) ([]events.Event, error) {
	if f.failures.Add(-1) >= 0 {
		return nil, errors.New("connection reset")
	}
	return f.Store.Query(ctx, filter)
}

func TestRunCycle_StoreFailureAbortsCycleOnly(t *testing.T) {
	repo := newRepo(t, events.Event{ID: "standup", Title: "Standup", ScheduledAt: morning.Add(10 * time.Minute)})
	store := &flakyStore{Store: repo}
	store.failures.Store(1)
	s := newScheduler(store, morning, &recordingSink{})

	_, err := s.RunCycle(context.Background())
	var ce *reminders.CycleError
	if !errors.As(err, &ce) || ce.Pass != reminders.PassDueToday {
		t.Fatalf("expected CycleError in due_today pass, got %v", err)
	}
	if last, ok := s.LastReport(); !ok || last.Error == "" {
		t.Fatalf("expected failed report to be recorded, got %+v", last)
	}

	// Tick absorbe el error; el siguiente ciclo funciona.
	s.Tick(context.Background())
	rep, ok := s.LastReport()
	if !ok || rep.Error != "" || rep.MarkedNotified != 1 {
		t.Fatalf("expected recovered cycle, got %+v", rep)
	}
}

type blockingStore struct {
	reminders.Store
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingStore) Query(ctx context.Context, filter events.ListFilter) ([]events.Event, error) {
	b.once.Do(func() {
		close(b.entered)
		<-b.release
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.Store.Query(ctx, filter)
}

func TestRunCycle_NeverOverlaps(t *testing.T) {
	store := &blockingStore{
		Store:   newRepo(t),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newScheduler(store, morning, &recordingSink{})

	done := make(chan error, 1)
	go func() {
		_, err := s.RunCycle(context.Background())
		done <- err
	}()

	select {
	case <-store.entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("first cycle never reached the store")
	}

	if _, err := s.RunCycle(context.Background()); !errors.Is(err, reminders.ErrCycleInProgress) {
		t.Fatalf("expected ErrCycleInProgress while a cycle runs, got %v", err)
	}

	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("first cycle returned error: %v", err)
	}
}

type denyLocker struct{ calls int }

func (d *denyLocker) TryLock(context.Context, time.Duration) (func(), bool, error) {
	d.calls++
	return nil, false, nil
}

func TestRunCycle_LockerHeldElsewhere(t *testing.T) {
	repo := newRepo(t, events.Event{ID: "standup", Title: "Standup", ScheduledAt: morning.Add(10 * time.Minute)})
	locker := &denyLocker{}
	s := reminders.New(repo, reminders.Options{
		Clock:    timewindow.Fixed(morning),
		Location: time.UTC,
		Sink:     &recordingSink{},
		Locker:   locker,
	})

	if _, err := s.RunCycle(context.Background()); !errors.Is(err, reminders.ErrCycleInProgress) {
		t.Fatalf("expected ErrCycleInProgress, got %v", err)
	}
	if locker.calls != 1 {
		t.Fatalf("expected locker to be consulted once, got %d", locker.calls)
	}
	if mustGet(t, repo, "standup").Notified {
		t.Fatalf("skipped cycle must not write")
	}
}

type failingLocker struct{ calls int }

func (f *failingLocker) TryLock(context.Context, time.Duration) (func(), bool, error) {
	f.calls++
	return nil, false, errors.New("dial tcp 127.0.0.1:6379: connection refused")
}

func TestRunCycle_LockerErrorSkipsCycle(t *testing.T) {
	repo := newRepo(t, events.Event{ID: "standup", Title: "Standup", ScheduledAt: morning.Add(10 * time.Minute)})
	sink := &recordingSink{}
	s := reminders.New(repo, reminders.Options{
		Clock:    timewindow.Fixed(morning),
		Location: time.UTC,
		Sink:     sink,
		Locker:   &failingLocker{},
	})

	rep, err := s.RunCycle(context.Background())
	if !errors.Is(err, reminders.ErrLockUnavailable) {
		t.Fatalf("expected ErrLockUnavailable, got %v", err)
	}
	if rep != (reminders.Report{}) {
		t.Fatalf("expected empty report, got %+v", rep)
	}
	if mustGet(t, repo, "standup").Notified {
		t.Fatalf("cycle without lock must not write")
	}
	if len(sink.ofKind(reminders.KindImminent)) != 0 {
		t.Fatalf("cycle without lock must not emit signals")
	}

	// Tick absorbe el error sin registrar reporte.
	s.Tick(context.Background())
	if _, ok := s.LastReport(); ok {
		t.Fatalf("skipped ticks must not record a report")
	}
}

type countingStore struct {
	reminders.Store
	queries atomic.Int64
}

func (c *countingStore) Query(ctx context.Context, filter events.ListFilter) ([]events.Event, error) {
	c.queries.Add(1)
	return c.Store.Query(ctx, filter)
}

func TestStartStop(t *testing.T) {
	store := &countingStore{Store: newRepo(t)}
	s := reminders.New(store, reminders.Options{
		Interval: time.Second,
		Location: time.UTC,
		Sink:     &recordingSink{},
	})

	if err := s.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := s.Start(); err == nil {
		t.Fatalf("expected error on double Start")
	}

	deadline := time.Now().Add(4 * time.Second)
	for store.queries.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if store.queries.Load() == 0 {
		t.Fatalf("scheduler never ticked")
	}

	select {
	case <-s.Stop().Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not finish in time")
	}

	after := store.queries.Load()
	time.Sleep(1500 * time.Millisecond)
	if got := store.queries.Load(); got != after {
		t.Fatalf("expected no ticks after Stop, got %d more queries", got-after)
	}

	// Stop sin Start en curso no bloquea.
	<-s.Stop().Done()
}

func TestStop_LetsInFlightCycleFinish(t *testing.T) {
	repo := newRepo(t, events.Event{ID: "standup", Title: "Standup", ScheduledAt: morning.Add(10 * time.Minute)})
	store := &blockingStore{
		Store:   repo,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := reminders.New(store, reminders.Options{
		Interval:     time.Second,
		CycleTimeout: 10 * time.Second,
		Clock:        timewindow.Fixed(morning),
		Location:     time.UTC,
		Sink:         &recordingSink{},
	})

	if err := s.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	select {
	case <-store.entered:
	case <-time.After(4 * time.Second):
		t.Fatalf("scheduler never ticked")
	}

	done := s.Stop().Done()
	select {
	case <-done:
		t.Fatalf("Stop must wait for the running cycle")
	case <-time.After(100 * time.Millisecond):
	}

	close(store.release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not finish after the cycle was released")
	}

	rep, ok := s.LastReport()
	if !ok || rep.Error != "" || rep.MarkedNotified != 1 {
		t.Fatalf("expected in-flight cycle to complete cleanly, got %+v", rep)
	}
	if !mustGet(t, repo, "standup").Notified {
		t.Fatalf("expected in-flight cycle to persist its write")
	}
}
