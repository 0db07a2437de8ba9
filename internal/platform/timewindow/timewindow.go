// Package timewindow agrupa la aritmética de ventanas de tiempo usada por los
// recordatorios: "hoy", "próximos N minutos" y "últimos N minutos".
//
// Todas las funciones son puras: reciben "now" explícito. El reloj real vive
// detrás de Clock para poder fijarlo en tests.
package timewindow

import (
	"math"
	"time"
)

type Clock interface {
	Now() time.Time
}

// ClockFunc adapta una función a Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// System es el reloj de pared.
var System Clock = ClockFunc(time.Now)

// Fixed devuelve siempre t.
func Fixed(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Window es un intervalo con inicio inclusivo.
// ClosedEnd=true => [Start, End]; ClosedEnd=false => [Start, End).
type Window struct {
	Start     time.Time
	End       time.Time
	ClosedEnd bool
}

func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	if w.ClosedEnd {
		return !t.After(w.End)
	}
	return t.Before(w.End)
}

// Day es el día calendario de now, en la zona de now: [00:00, 00:00 siguiente).
func Day(now time.Time) Window {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return Window{
		Start: start,
		End:   start.AddDate(0, 0, 1),
	}
}

// Ahead es [now, now+d].
func Ahead(now time.Time, d time.Duration) Window {
	return Window{
		Start:     now,
		End:       now.Add(d),
		ClosedEnd: true,
	}
}

// Behind es [now-d, now).
func Behind(now time.Time, d time.Duration) Window {
	return Window{
		Start: now.Add(-d),
		End:   now,
	}
}

func SameDay(t, now time.Time) bool {
	return Day(now).Contains(t)
}

// MinutesUntil son los minutos enteros (floor) que faltan para t. Negativo si ya pasó.
func MinutesUntil(t, now time.Time) int {
	return int(math.Floor(t.Sub(now).Minutes()))
}

// MinutesSince son los minutos enteros (floor) transcurridos desde t.
func MinutesSince(t, now time.Time) int {
	return int(math.Floor(now.Sub(t).Minutes()))
}
