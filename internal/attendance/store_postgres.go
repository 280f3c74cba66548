package attendance

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "carelink/pkg/domain"
	"carelink/pkg/platform/tx"
)

// PostgresStore persists absence response logs in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, log AbsenceResponseLog) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO absence_response_logs
			(id, user_id, absence_date, linked_plan_id, response_supporter_id, response_method, response_summary, response_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(log.ID), uuid.UUID(log.UserID), log.AbsenceDate, uuid.UUID(log.LinkedPlanID),
		uuid.UUID(log.SupporterID), string(log.Method), log.Summary, log.RecordedAt)
	if err != nil {
		return fmt.Errorf("append absence response log: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountLinkedEvidence(ctx context.Context, userID id.UserID, planID id.PlanID) (int, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM absence_response_logs
		WHERE user_id = $1 AND linked_plan_id = $2`,
		uuid.UUID(userID), uuid.UUID(planID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count absence evidence: %w", err)
	}
	return count, nil
}
