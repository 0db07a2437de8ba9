package reminders

import (
	"context"
	"time"
)

// Locker extiende la exclusión de ciclos entre réplicas. ok=false significa que
// otra instancia tiene el ciclo; release debe llamarse solo si ok=true.
type Locker interface {
	TryLock(ctx context.Context, ttl time.Duration) (release func(), ok bool, err error)
}
