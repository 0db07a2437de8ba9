package events

import "strings"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	default:
		return false
	}
}

// Short es la inicial en mayúscula (L/N/H) usada por el feed del dispositivo.
func (p Priority) Short() string {
	if p == "" {
		return "N"
	}
	return strings.ToUpper(string(p)[:1])
}

// ParsePriority normaliza el valor recibido; vacío => normal.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PriorityNormal, true
	}
	return p, p.Valid()
}
