package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"personal-agenda/internal/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DSN arma la URL de conexión pgx a partir de la config.
func DSN(c config.Database) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.EffectivePort())),
		Path:   "/" + c.Name,
	}
	if c.User != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}

	q := url.Values{}
	secs := int(c.ConnectTimeout() / time.Second)
	if secs < 1 {
		secs = 1
	}
	q.Set("connect_timeout", strconv.Itoa(secs))
	if enc := clientEncoding(c.Charset); enc != "" {
		q.Set("client_encoding", enc)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// clientEncoding traduce nombres estilo MySQL (utf8mb4) al de Postgres.
func clientEncoding(charset string) string {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "":
		return ""
	case "utf8", "utf8mb4", "utf-8":
		return "UTF8"
	default:
		return strings.ToUpper(charset)
	}
}

// Open abre un pool a Postgres usando pgx (database/sql) y verifica con ping.
// El timeout lo pone el ctx del caller (un intento del bootstrap).
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

var schema = []string{`
CREATE TABLE IF NOT EXISTS events (
	id           TEXT PRIMARY KEY,
	title        TEXT        NOT NULL,
	description  TEXT        NOT NULL DEFAULT '',
	scheduled_at TIMESTAMPTZ NOT NULL,
	priority     TEXT        NOT NULL DEFAULT 'normal',
	completed    BOOLEAN     NOT NULL DEFAULT FALSE,
	notified     BOOLEAN     NOT NULL DEFAULT FALSE,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS events_scheduled_at_idx ON events (scheduled_at)`,
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
