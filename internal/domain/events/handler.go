package events

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/events", func(er chi.Router) {
		er.Get("/", listEventsHandler(svc))
		er.Post("/", createEventHandler(svc))

		// Vistas (rutas estáticas: chi las prioriza sobre {eventID})
		er.Get("/today", todayEventsHandler(svc))
		er.Get("/pending", pendingEventsHandler(svc))
		er.Get("/device", deviceFeedHandler(svc))
		er.Get("/calendar.ics", calendarHandler(svc))

		er.Get("/{eventID}", getEventHandler(svc))
		er.Put("/{eventID}", updateEventHandler(svc))
		er.Delete("/{eventID}", deleteEventHandler(svc))
		er.Post("/{eventID}/complete", completeEventHandler(svc))
	})
}

// createEventRequest es el cuerpo para registrar un nuevo evento.
type createEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ScheduledAt string `json:"scheduled_at"` // RFC3339 o fecha local "2006-01-02T15:04"
	Priority    string `json:"priority" enums:"low,normal,high"`
}

// updateEventRequest: todos los campos son opcionales; completed solo admite true.
type updateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ScheduledAt *string `json:"scheduled_at"`
	Priority    *string `json:"priority" enums:"low,normal,high"`
	Completed   *bool   `json:"completed"`
}

// eventResponse representa un evento devuelto por la API.
type eventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Priority    Priority  `json:"priority"`
	Completed   bool      `json:"completed"`
	Notified    bool      `json:"notified"`
	CreatedAt   time.Time `json:"created_at"`
}

// listEventsHandler godoc
// @Summary Listar eventos
// @Description Lista todos los eventos ordenados por fecha ascendente.
// @Tags events
// @Produce json
// @Success 200 {array} eventResponse
// @Failure 503 {string} string "storage unavailable"
// @Router /api/events [get]
func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponses(items))
	}
}

// createEventHandler godoc
// @Summary Crear evento
// @Description Crea un evento. title y scheduled_at son obligatorios; priority por defecto es normal.
// @Tags events
// @Accept json
// @Produce json
// @Param payload body createEventRequest true "Datos del evento"
// @Success 201 {object} eventResponse
// @Failure 400 {string} string "invalid json / scheduled_at inválido / reglas de negocio"
// @Failure 503 {string} string "storage unavailable"
// @Router /api/events [post]
func createEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.ScheduledAt) == "" {
			http.Error(w, "title and scheduled_at are required", http.StatusBadRequest)
			return
		}

		at, err := parseScheduledAt(req.ScheduledAt, svc.Location())
		if err != nil {
			http.Error(w, msgInvalidScheduledAt, http.StatusBadRequest)
			return
		}

		e, err := svc.Create(r.Context(), CreateInput{
			Title:       req.Title,
			Description: req.Description,
			ScheduledAt: at,
			Priority:    req.Priority,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

// getEventHandler godoc
// @Summary Obtener evento
// @Tags events
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {object} eventResponse
// @Failure 404 {string} string "event not found"
// @Router /api/events/{eventID} [get]
func getEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.GetByID(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

// updateEventHandler godoc
// @Summary Actualizar evento
// @Description Actualización parcial. completed=false se ignora: un evento completado no vuelve a pendiente.
// @Tags events
// @Accept json
// @Produce json
// @Param eventID path string true "ID del evento"
// @Param payload body updateEventRequest true "Campos a modificar"
// @Success 200 {object} eventResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 404 {string} string "event not found"
// @Router /api/events/{eventID} [put]
func updateEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Title:       req.Title,
			Description: req.Description,
			Priority:    req.Priority,
			Completed:   req.Completed,
		}
		if req.ScheduledAt != nil {
			at, err := parseScheduledAt(*req.ScheduledAt, svc.Location())
			if err != nil {
				http.Error(w, msgInvalidScheduledAt, http.StatusBadRequest)
				return
			}
			in.ScheduledAt = &at
		}

		e, err := svc.Update(r.Context(), chi.URLParam(r, "eventID"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

// completeEventHandler godoc
// @Summary Marcar evento como completado
// @Tags events
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {object} eventResponse
// @Failure 404 {string} string "event not found"
// @Router /api/events/{eventID}/complete [post]
func completeEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.Complete(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

// deleteEventHandler godoc
// @Summary Eliminar evento
// @Description Borrado inmediato, sin papelera.
// @Tags events
// @Param eventID path string true "ID del evento"
// @Success 204
// @Failure 404 {string} string "event not found"
// @Router /api/events/{eventID} [delete]
func deleteEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "eventID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// todayEventsHandler godoc
// @Summary Eventos de hoy
// @Tags events
// @Produce json
// @Success 200 {array} eventResponse
// @Router /api/events/today [get]
func todayEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Today(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponses(items))
	}
}

// pendingEventsHandler godoc
// @Summary Eventos pendientes
// @Description No completados con fecha igual o posterior a ahora.
// @Tags events
// @Produce json
// @Success 200 {array} eventResponse
// @Router /api/events/pending [get]
func pendingEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Pending(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponses(items))
	}
}

// deviceFeedHandler godoc
// @Summary Feed simplificado para dispositivos
// @Description Pendientes de hoy (máx. 10) con claves cortas: t=título (30 caracteres), h=HH:MM, p=L|N|H.
// @Tags events
// @Produce json
// @Success 200 {object} DeviceFeed
// @Router /api/events/device [get]
func deviceFeedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feed, err := svc.DeviceFeed(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, feed)
	}
}

// calendarHandler godoc
// @Summary Calendario iCalendar
// @Description Todos los eventos en formato .ics, con alarma 30 minutos antes para los pendientes.
// @Tags events
// @Produce text/calendar
// @Success 200 {string} string
// @Router /api/events/calendar.ics [get]
func calendarHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := svc.Calendar(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}

const msgInvalidScheduledAt = "scheduled_at must be RFC3339 or local time as YYYY-MM-DDTHH:MM[:SS] or YYYY-MM-DD HH:MM[:SS]"

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseScheduledAt acepta RFC3339 o una fecha local sin zona (se interpreta en loc).
func parseScheduledAt(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("invalid time")
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "event not found", http.StatusNotFound)
	case errors.Is(err, ErrStorageUnavailable):
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toEventResponse(e Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		ScheduledAt: e.ScheduledAt,
		Priority:    e.Priority,
		Completed:   e.Completed,
		Notified:    e.Notified,
		CreatedAt:   e.CreatedAt,
	}
}

func toEventResponses(items []Event) []eventResponse {
	out := make([]eventResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toEventResponse(e))
	}
	return out
}

// writeJSON también existe en reminders; cada módulo trae el suyo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
