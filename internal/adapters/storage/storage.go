// Package storage elige el adapter según DB_DRIVER y devuelve un Handle listo
// para compartir entre el CRUD y el scheduler.
package storage

import (
	"context"
	"fmt"

	mem "personal-agenda/internal/adapters/storage/memory"
	mdb "personal-agenda/internal/adapters/storage/mongodb"
	pg "personal-agenda/internal/adapters/storage/postgres"
	"personal-agenda/internal/domain/events"
	"personal-agenda/internal/platform/config"
)

// Handle es el gateway de eventos más su ciclo de vida (ping/close).
// Es seguro para uso concurrente: cada driver trae su propio pool.
type Handle struct {
	Driver string
	Events events.Repository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (h *Handle) Ping(ctx context.Context) error {
	if h == nil || h.ping == nil {
		return nil
	}
	return h.ping(ctx)
}

func (h *Handle) Close(ctx context.Context) error {
	if h == nil || h.close == nil {
		return nil
	}
	return h.close(ctx)
}

// Open hace un único intento de conexión (los reintentos son del bootstrap).
func Open(ctx context.Context, c config.Database) (*Handle, error) {
	switch c.Driver {
	case config.DriverMemory:
		return &Handle{Driver: c.Driver, Events: mem.NewEventRepo()}, nil

	case config.DriverPostgres:
		db, err := pg.Open(ctx, pg.DSN(c))
		if err != nil {
			return nil, err
		}
		return &Handle{
			Driver: c.Driver,
			Events: pg.NewEventsRepo(db),
			ping:   db.PingContext,
			close:  func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverMongo:
		client, db, err := mdb.Open(ctx, c)
		if err != nil {
			return nil, err
		}
		return &Handle{
			Driver: c.Driver,
			Events: mdb.NewEventsRepo(db),
			ping:   func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:  client.Disconnect,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", c.Driver)
	}
}
