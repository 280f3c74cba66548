package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "carelink/pkg/domain"
	"carelink/pkg/platform/tx"
)

// PostgresStore persists audit events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO audit_events (ts, user_id, actor, subject, action, reason)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.Timestamp, uuid.UUID(event.UserID), event.Actor, event.Subject, event.Action, event.Reason)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]Event, error) {
	q := tx.QuerierFrom(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT ts, user_id, actor, subject, action, reason
		FROM audit_events WHERE user_id = $1 ORDER BY ts`, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var uid uuid.UUID
		if err := rows.Scan(&e.Timestamp, &uid, &e.Actor, &e.Subject, &e.Action, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.UserID = id.UserID(uid)
		out = append(out, e)
	}
	return out, rows.Err()
}
