// Package bootstrap obtiene un handle de storage tolerando indisponibilidad
// transitoria: hasta MaxAttempts intentos con una pausa fija entre ellos.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"personal-agenda/internal/platform/logger"
)

const (
	DefaultMaxAttempts    = 10
	DefaultRetryDelay     = 5 * time.Second
	DefaultAttemptTimeout = 10 * time.Second
)

// ConnectFunc hace un único intento de conexión. ctx ya trae el timeout del intento.
type ConnectFunc[H any] func(ctx context.Context) (H, error)

type Options struct {
	MaxAttempts    int
	RetryDelay     time.Duration
	AttemptTimeout time.Duration

	Logger logger.Logger

	// Sleep permite reemplazar la espera entre intentos (tests).
	Sleep func(ctx context.Context, d time.Duration) error
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.AttemptTimeout <= 0 {
		o.AttemptTimeout = DefaultAttemptTimeout
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.Sleep == nil {
		o.Sleep = sleepContext
	}
	return o
}

// ConnectionError indica que se agotaron los intentos.
type ConnectionError struct {
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("storage unreachable after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Establish reintenta connect hasta obtener un handle. Nunca termina el proceso:
// el caller decide si seguir degradado o abortar.
func Establish[H any](ctx context.Context, connect ConnectFunc[H], opts Options) (H, error) {
	opts = opts.withDefaults()
	log := opts.Logger.With(map[string]any{"component": "bootstrap"})

	var (
		zero    H
		lastErr error
	)

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		log.Info("connecting to storage", map[string]any{
			"attempt":      attempt,
			"max_attempts": opts.MaxAttempts,
		})

		h, err := tryOnce(ctx, connect, opts.AttemptTimeout)
		if err == nil {
			log.Info("storage connection established", map[string]any{"attempt": attempt})
			return h, nil
		}
		lastErr = err

		log.Warn("storage connection failed", map[string]any{
			"attempt":      attempt,
			"max_attempts": opts.MaxAttempts,
			"err":          err,
		})

		if attempt == opts.MaxAttempts {
			break
		}

		log.Info("retrying storage connection", map[string]any{"delay": opts.RetryDelay.String()})
		if err := opts.Sleep(ctx, opts.RetryDelay); err != nil {
			return zero, &ConnectionError{Attempts: attempt, Err: errors.Join(lastErr, err)}
		}
	}

	log.Error("giving up on storage connection", map[string]any{
		"attempts": opts.MaxAttempts,
		"err":      lastErr,
	})
	return zero, &ConnectionError{Attempts: opts.MaxAttempts, Err: lastErr}
}

func tryOnce[H any](ctx context.Context, connect ConnectFunc[H], timeout time.Duration) (H, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return connect(attemptCtx)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
