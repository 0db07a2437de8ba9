package events

import (
	"context"
	"time"

	ics "github.com/arran4/golang-ical"
)

// Los eventos no tienen duración; en el calendario ocupan un bloque fijo.
const calendarBlock = 30 * time.Minute

// Calendar serializa todos los eventos como iCalendar (RFC 5545). Los pendientes
// llevan una alarma 30 minutos antes.
func (s *Service) Calendar(ctx context.Context) (string, error) {
	if s.repo == nil {
		return "", ErrStorageUnavailable
	}

	items, err := s.repo.Query(ctx, ListFilter{})
	if err != nil {
		return "", err
	}

	stamp := s.now().UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//personal-agenda//events//ES")
	cal.SetXWRCalName("Agenda")

	for _, e := range items {
		ev := cal.AddEvent(e.ID + "@personal-agenda")
		ev.SetDtStampTime(stamp)
		if !e.CreatedAt.IsZero() {
			ev.SetCreatedTime(e.CreatedAt.UTC())
		}
		ev.SetStartAt(e.ScheduledAt.UTC())
		ev.SetEndAt(e.ScheduledAt.Add(calendarBlock).UTC())
		ev.SetSummary(e.Title)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		ev.SetProperty(ics.ComponentPropertyPriority, icsPriority(e.Priority))

		if e.Completed {
			ev.SetProperty(ics.ComponentProperty("X-AGENDA-COMPLETED"), "TRUE")
			continue
		}

		alarm := ev.AddAlarm()
		alarm.SetAction(ics.ActionDisplay)
		alarm.SetTrigger("-PT30M")
		alarm.SetProperty(ics.ComponentPropertyDescription, e.Title)
	}

	return cal.Serialize(), nil
}

// icsPriority mapea a la escala 1 (alta) .. 9 (baja) de RFC 5545.
func icsPriority(p Priority) string {
	switch p {
	case PriorityHigh:
		return "1"
	case PriorityLow:
		return "9"
	default:
		return "5"
	}
}
