package events

import "context"

const (
	deviceFeedLimit    = 10
	deviceTitleMaxRune = 30
)

// DeviceItem usa claves de una letra para que el payload quepa holgado en un
// microcontrolador con pantalla pequeña.
type DeviceItem struct {
	T string `json:"t"`
	H string `json:"h"`
	P string `json:"p"`
}

type DeviceFeed struct {
	Count  int          `json:"count"`
	Events []DeviceItem `json:"events"`
}

// DeviceFeed resume los pendientes de hoy: máximo 10, título recortado, hora HH:MM.
func (s *Service) DeviceFeed(ctx context.Context) (DeviceFeed, error) {
	if s.repo == nil {
		return DeviceFeed{}, ErrStorageUnavailable
	}

	items, err := s.repo.Query(ctx, todayPendingFilter(s.now(), deviceFeedLimit))
	if err != nil {
		return DeviceFeed{}, err
	}

	out := DeviceFeed{Count: len(items), Events: make([]DeviceItem, 0, len(items))}
	for _, e := range items {
		out.Events = append(out.Events, DeviceItem{
			T: truncateRunes(e.Title, deviceTitleMaxRune),
			H: e.ScheduledAt.In(s.loc).Format("15:04"),
			P: e.Priority.Short(),
		})
	}
	return out, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
