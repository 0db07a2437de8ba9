package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"personal-agenda/internal/adapters/lock/redislock"
	"personal-agenda/internal/adapters/storage"
	"personal-agenda/internal/domain/events"
	"personal-agenda/internal/domain/reminders"
	"personal-agenda/internal/platform/bootstrap"
	"personal-agenda/internal/platform/config"
	"personal-agenda/internal/platform/logger"
	"personal-agenda/internal/router"
)

// @title Personal Agenda API
// @version 1.0
// @description Agenda personal de eventos con recordatorios periódicos.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	defer syncLogger(log)

	loc, err := cfg.Location()
	if err != nil {
		log.Error("invalid timezone", map[string]any{"timezone": cfg.Timezone, "err": err})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handle, err := bootstrap.Establish(ctx, func(ctx context.Context) (*storage.Handle, error) {
		return storage.Open(ctx, cfg.Database)
	}, bootstrap.Options{
		AttemptTimeout: cfg.Database.ConnectTimeout(),
		Logger:         log,
	})
	if err != nil {
		// Modo degradado: el server escucha igual y las rutas de datos responden 503.
		log.Error("running without storage", map[string]any{"driver": cfg.Database.Driver, "err": err})
	}

	var repo events.Repository
	var ready func(ctx context.Context) error
	if handle != nil {
		repo = handle.Events
		ready = handle.Ping
	}

	eventsSvc := events.NewService(repo, events.WithLocation(loc))

	var store reminders.Store
	if repo != nil {
		store = repo
	}
	scheduler := reminders.New(store, reminders.Options{
		Location: loc,
		Logger:   log,
		Locker:   cycleLocker(ctx, cfg.Redis, log),
	})
	if scheduler.Available() {
		if err := scheduler.Start(); err != nil {
			log.Error("reminder scheduler not started", map[string]any{"err": err})
		}
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			AppName:         cfg.AppName,
			Events:          eventsSvc,
			Reminders:       scheduler,
			Ready:           ready,
			Logger:          log,
			AllowedOrigin:   cfg.FrontendURL,
			RateLimitPerMin: cfg.RateLimitPerMin,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":     srv.Addr,
			"driver":   cfg.Database.Driver,
			"timezone": loc.String(),
			"degraded": handle == nil,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received", nil)
	case err := <-serveErr:
		if err != nil {
			log.Error("server error", map[string]any{"err": err})
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn("reminder cycle still running at shutdown", nil)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", map[string]any{"err": err})
	}
	if err := handle.Close(shutdownCtx); err != nil {
		log.Error("storage close error", map[string]any{"err": err})
	}
	log.Info("bye", nil)
}

// cycleLocker devuelve nil (solo exclusión local) si REDIS_ADDR no está configurado
// o Redis no responde.
func cycleLocker(ctx context.Context, c config.Redis, log logger.Logger) reminders.Locker {
	if c.Addr == "" {
		return nil
	}

	client, err := redislock.Connect(ctx, c)
	if err != nil {
		log.Warn("redis unavailable, reminder cycles use local lock only", map[string]any{"addr": c.Addr, "err": err})
		return nil
	}
	return redislock.New(client, "")
}

func syncLogger(l logger.Logger) {
	if s, ok := l.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}
