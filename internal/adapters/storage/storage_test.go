package storage

import (
	"context"
	"testing"
	"time"

	"personal-agenda/internal/domain/events"
	"personal-agenda/internal/platform/config"
)

func TestOpen_Memory(t *testing.T) {
	h, err := Open(context.Background(), config.Database{Driver: config.DriverMemory})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer h.Close(context.Background())

	if err := h.Ping(context.Background()); err != nil {
		t.Fatalf("memory ping failed: %v", err)
	}

	e := events.Event{ID: "1", Title: "x", ScheduledAt: time.Now()}
	if err := h.Events.Create(context.Background(), e); err != nil {
		t.Fatalf("create via handle failed: %v", err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.Database{Driver: "mysql"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestOpen_PostgresUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Open(ctx, config.Database{
		Driver:           config.DriverPostgres,
		Host:             "127.0.0.1",
		Port:             1,
		User:             "postgres",
		Name:             "agenda_db",
		ConnectTimeoutMS: 1000,
	})
	if err == nil {
		t.Fatalf("expected connection error against closed port")
	}
}
