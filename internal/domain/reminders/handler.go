package reminders

import (
	"encoding/json"
	"net/http"
	"time"

	"personal-agenda/internal/domain/events"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, s *Scheduler) {
	r.Get("/api/notifications", notificationsHandler(s))
	r.Get("/api/reminders/last-cycle", lastCycleHandler(s))
}

// notificationResponse es un evento inminente (próximos 30 minutos).
type notificationResponse struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	ScheduledAt      time.Time       `json:"scheduled_at"`
	Priority         events.Priority `json:"priority"`
	MinutesRemaining int             `json:"minutes_remaining"`
}

// notificationsHandler godoc
// @Summary Notificaciones inminentes
// @Description Eventos no completados de los próximos 30 minutos, con minutos restantes.
// @Tags reminders
// @Produce json
// @Success 200 {array} notificationResponse
// @Failure 503 {string} string "storage unavailable"
// @Router /api/notifications [get]
func notificationsHandler(s *Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.Imminent(r.Context())
		if err != nil {
			if !s.Available() {
				http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]notificationResponse, 0, len(items))
		for _, it := range items {
			out = append(out, notificationResponse{
				ID:               it.Event.ID,
				Title:            it.Event.Title,
				Description:      it.Event.Description,
				ScheduledAt:      it.Event.ScheduledAt,
				Priority:         it.Event.Priority,
				MinutesRemaining: it.MinutesRemaining,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// lastCycleHandler godoc
// @Summary Último ciclo de recordatorios
// @Tags reminders
// @Produce json
// @Success 200 {object} Report
// @Success 204 "todavía no corrió ningún ciclo"
// @Router /api/reminders/last-cycle [get]
func lastCycleHandler(s *Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, ok := s.LastReport()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
