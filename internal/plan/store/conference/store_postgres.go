package conference

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"carelink/internal/plan/models"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/tx"
)

// PostgresStore persists conference logs in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, log models.ConferenceLog) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO support_conference_logs
			(id, plan_id, conference_date, minutes, user_participated,
			 absence_reason, digital_declaration, monitoring_summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(log.ID), uuid.UUID(log.PlanID), log.ConferenceDate, log.Minutes,
		log.UserParticipated, log.AbsenceReason, log.DigitalDeclaration,
		log.MonitoringSummary, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("append conference log: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByPlan(ctx context.Context, planID id.PlanID) ([]models.ConferenceLog, error) {
	q := tx.QuerierFrom(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, plan_id, conference_date, minutes, user_participated,
			absence_reason, digital_declaration, monitoring_summary, created_at
		FROM support_conference_logs WHERE plan_id = $1
		ORDER BY conference_date`, uuid.UUID(planID))
	if err != nil {
		return nil, fmt.Errorf("list conference logs: %w", err)
	}
	defer rows.Close()

	var logs []models.ConferenceLog
	for rows.Next() {
		var log models.ConferenceLog
		var cid, pid uuid.UUID
		if err := rows.Scan(&cid, &pid, &log.ConferenceDate, &log.Minutes, &log.UserParticipated,
			&log.AbsenceReason, &log.DigitalDeclaration, &log.MonitoringSummary, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conference log: %w", err)
		}
		log.ID = id.ConferenceID(cid)
		log.PlanID = id.PlanID(pid)
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list conference logs: %w", err)
	}
	return logs, nil
}
