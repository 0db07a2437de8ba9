package router

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	_ "personal-agenda/docs"
	"personal-agenda/internal/domain/events"
	"personal-agenda/internal/domain/reminders"
	"personal-agenda/internal/middleware"
	"personal-agenda/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

const Version = "1.0.0"

type Options struct {
	AppName string

	// Pueden ser nil (modo degradado): las rutas responden 503.
	Events    *events.Service
	Reminders *reminders.Scheduler

	// Ready verifica el almacenamiento para /ready. nil => no listo.
	Ready func(ctx context.Context) error

	Logger          logger.Logger
	AllowedOrigin   string
	RateLimitPerMin int
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	if opts.AppName == "" {
		opts.AppName = "personal-agenda"
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLog(log))
	r.Use(cors.Handler(corsOptions(opts.AllowedOrigin)))
	r.Use(middleware.RateLimit(opts.RateLimitPerMin, log))

	r.Get("/", bannerHandler(opts.AppName))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		if opts.Ready == nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := opts.Ready(ctx); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	eventsSvc := opts.Events
	if eventsSvc == nil {
		eventsSvc = events.NewService(nil)
	}
	scheduler := opts.Reminders
	if scheduler == nil {
		scheduler = reminders.New(nil, reminders.Options{Logger: log})
	}

	// Rutas por módulo
	events.RegisterRoutes(r, eventsSvc)
	reminders.RegisterRoutes(r, scheduler)

	return r
}

func corsOptions(origin string) cors.Options {
	origins := []string{"*"}
	if o := strings.TrimSpace(origin); o != "" && o != "*" {
		origins = strings.Split(o, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}
}

type bannerResponse struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Features  []string  `json:"features"`
}

func bannerHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(bannerResponse{
			Name:      name,
			Version:   Version,
			Timestamp: time.Now().UTC(),
			Features: []string{
				"events crud",
				"today and pending views",
				"reminders every minute",
				"device feed",
				"icalendar feed",
			},
		})
	}
}
