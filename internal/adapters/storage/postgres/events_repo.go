package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"personal-agenda/internal/domain/events"
)

const eventColumns = `
			id,
			title, description,
			scheduled_at, priority,
			completed, notified,
			created_at`

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

func (r *EventsRepo) Create(ctx context.Context, e events.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.ID,
		e.Title,
		e.Description,
		e.ScheduledAt,
		string(e.Priority),
		e.Completed,
		e.Notified,
		e.CreatedAt,
	)
	return err
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return events.Event{}, events.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT`+eventColumns+`
		FROM events
		WHERE id = $1
	`, id)

	e, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return events.Event{}, events.ErrNotFound
		}
		return events.Event{}, err
	}
	return e, nil
}

func (r *EventsRepo) Update(ctx context.Context, id string, p events.Patch) error {
	query, args := buildUpdate(id, p)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return events.ErrNotFound
	}
	return nil
}

// buildUpdate usa COALESCE para que los campos nil conserven su valor.
// completed se combina con OR: nunca vuelve a false.
func buildUpdate(id string, p events.Patch) (string, []any) {
	var prio *string
	if p.Priority != nil {
		s := string(*p.Priority)
		prio = &s
	}

	query := `
		UPDATE events
		SET title        = COALESCE($1, title),
		    description  = COALESCE($2, description),
		    scheduled_at = COALESCE($3, scheduled_at),
		    priority     = COALESCE($4, priority),
		    completed    = completed OR COALESCE($5, FALSE)
		WHERE id = $6
	`
	return query, []any{p.Title, p.Description, p.ScheduledAt, prio, p.Completed, strings.TrimSpace(id)}
}

func (r *EventsRepo) Complete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET completed = TRUE
		WHERE id = $1
	`, strings.TrimSpace(id))
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventsRepo) Query(ctx context.Context, filter events.ListFilter) ([]events.Event, error) {
	query, args := buildQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

func buildQuery(filter events.ListFilter) (string, []any) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT` + eventColumns + `
		FROM events
		WHERE TRUE
	`)

	args := []any{}
	argN := 1

	if w := filter.Window; w != nil {
		sb.WriteString(fmt.Sprintf(" AND scheduled_at >= $%d", argN))
		args = append(args, w.Start)
		argN++

		op := "<"
		if w.ClosedEnd {
			op = "<="
		}
		sb.WriteString(fmt.Sprintf(" AND scheduled_at %s $%d", op, argN))
		args = append(args, w.End)
		argN++
	}
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND scheduled_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.Completed != nil {
		sb.WriteString(fmt.Sprintf(" AND completed = $%d", argN))
		args = append(args, *filter.Completed)
		argN++
	}
	if filter.Notified != nil {
		sb.WriteString(fmt.Sprintf(" AND notified = $%d", argN))
		args = append(args, *filter.Notified)
		argN++
	}

	sb.WriteString(" ORDER BY scheduled_at ASC, id ASC")

	if filter.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
		args = append(args, filter.Limit)
	}

	return sb.String(), args
}

// BulkSetNotified: una sola sentencia UPDATE ... WHERE id IN (...).
func (r *EventsRepo) BulkSetNotified(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args := buildBulkNotified(ids)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// buildBulkNotified pasa los ids como un único text[]: Postgres admite como
// máximo 65535 parámetros por sentencia.
func buildBulkNotified(ids []string) (string, []any) {
	query := "UPDATE events SET notified = TRUE WHERE notified = FALSE AND id = ANY($1::text[])"
	return query, []any{ids}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (events.Event, error) {
	var e events.Event
	var prio string
	if err := s.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.ScheduledAt,
		&prio,
		&e.Completed,
		&e.Notified,
		&e.CreatedAt,
	); err != nil {
		return events.Event{}, err
	}
	e.Priority = events.Priority(prio)
	return e, nil
}
