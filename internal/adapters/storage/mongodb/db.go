package mongodb

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"personal-agenda/internal/platform/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const eventsCollection = "events"

// URI arma la cadena de conexión a partir de la config.
func URI(c config.Database) string {
	u := url.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.EffectivePort())),
		Path:   "/",
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}

	q := url.Values{}
	q.Set("connectTimeoutMS", strconv.FormatInt(c.ConnectTimeout().Milliseconds(), 10))
	u.RawQuery = q.Encode()

	return u.String()
}

// Open conecta, hace ping y asegura índices. El ctx del caller acota el intento.
func Open(ctx context.Context, c config.Database) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(URI(c)).
		SetConnectTimeout(c.ConnectTimeout()).
		SetServerSelectionTimeout(c.ConnectTimeout())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	db := client.Database(c.Name)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	return client, db, nil
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(eventsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "scheduledAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}
