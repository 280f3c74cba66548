package gap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"carelink/internal/plan/models"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
	"carelink/pkg/platform/tx"
)

// PostgresStore persists continuity gap logs in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, log models.ContinuityGapLog) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO continuity_gap_logs
			(id, previous_plan_id, reason_type, reason_detail, gap_start, gap_end,
			 responsible_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(log.ID), uuid.UUID(log.PreviousPlanID), string(log.ReasonType),
		log.ReasonDetail, log.GapStart, log.GapEnd, uuid.UUID(log.ResponsibleID), log.CreatedAt)
	if err != nil {
		return fmt.Errorf("append gap log: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByPreviousPlan(ctx context.Context, planID id.PlanID) (models.ContinuityGapLog, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, previous_plan_id, reason_type, reason_detail, gap_start, gap_end,
			responsible_id, created_at
		FROM continuity_gap_logs WHERE previous_plan_id = $1
		ORDER BY created_at DESC LIMIT 1`, uuid.UUID(planID))

	var log models.ContinuityGapLog
	var gid, pid, rid uuid.UUID
	var reason string
	err := row.Scan(&gid, &pid, &reason, &log.ReasonDetail, &log.GapStart, &log.GapEnd, &rid, &log.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ContinuityGapLog{}, sentinel.ErrNotFound
		}
		return models.ContinuityGapLog{}, fmt.Errorf("find gap log: %w", err)
	}
	log.ID = id.GapLogID(gid)
	log.PreviousPlanID = id.PlanID(pid)
	log.ReasonType = models.GapReason(reason)
	log.ResponsibleID = id.SupporterID(rid)
	return log, nil
}
