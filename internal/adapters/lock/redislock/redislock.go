// Package redislock implementa reminders.Locker sobre Redis para que, con
// varias réplicas, solo una corra cada ciclo de recordatorios.
package redislock

import (
	"context"
	"time"

	"personal-agenda/internal/platform/config"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const DefaultKey = "personal-agenda:reminders:cycle"

// releaseScript borra la clave solo si sigue siendo nuestra.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Locker struct {
	client *redis.Client
	key    string
}

func New(client *redis.Client, key string) *Locker {
	if key == "" {
		key = DefaultKey
	}
	return &Locker{client: client, key: key}
}

// Connect abre el cliente y verifica con un ping acotado.
func Connect(ctx context.Context, c config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.LockDB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (l *Locker) TryLock(ctx context.Context, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, l.key, token, ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{l.key}, token).Err()
	}
	return release, true, nil
}
