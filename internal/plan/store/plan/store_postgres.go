package plan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"carelink/internal/plan/models"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
	"carelink/pkg/platform/tx"
)

const planColumns = `id, user_id, version, status, sabikan_id, policy_id,
	start_date, end_date, sabikan_approved_at, consent_id, consented_at, created_at`

// PostgresStore persists support plans in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, planID id.PlanID) (models.SupportPlan, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT `+planColumns+`
		FROM support_plans WHERE id = $1`, uuid.UUID(planID))
	return scanPlan(row, "get plan")
}

// GetForUpdate takes a row lock so concurrent lifecycle transitions on the
// same plan serialize. Must run inside a transaction.
func (s *PostgresStore) GetForUpdate(ctx context.Context, planID id.PlanID) (models.SupportPlan, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT `+planColumns+`
		FROM support_plans WHERE id = $1
		FOR UPDATE`, uuid.UUID(planID))
	return scanPlan(row, "get plan for update")
}

func (s *PostgresStore) FindLatestByUser(ctx context.Context, userID id.UserID) (models.SupportPlan, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT `+planColumns+`
		FROM support_plans WHERE user_id = $1
		ORDER BY start_date DESC LIMIT 1`, uuid.UUID(userID))
	return scanPlan(row, "find latest plan")
}

func (s *PostgresStore) FindPreviousByEnd(ctx context.Context, userID id.UserID, exclude id.PlanID) (models.SupportPlan, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT `+planColumns+`
		FROM support_plans WHERE user_id = $1 AND id <> $2
		ORDER BY end_date DESC LIMIT 1`, uuid.UUID(userID), uuid.UUID(exclude))
	return scanPlan(row, "find previous plan")
}

func (s *PostgresStore) FindActiveByUser(ctx context.Context, userID id.UserID) (models.SupportPlan, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT `+planColumns+`
		FROM support_plans WHERE user_id = $1 AND status = $2
		LIMIT 1`, uuid.UUID(userID), string(models.StatusActive))
	return scanPlan(row, "find active plan")
}

func (s *PostgresStore) Insert(ctx context.Context, plan models.SupportPlan) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO support_plans (`+planColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		uuid.UUID(plan.ID), uuid.UUID(plan.UserID), plan.Version, string(plan.Status),
		uuid.UUID(plan.SabikanID), uuid.UUID(plan.PolicyID),
		plan.StartDate, plan.EndDate,
		nullTime(plan.SabikanApprovedAt), nullID(plan.ConsentID), nullTime(plan.ConsentedAt),
		plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, plan models.SupportPlan) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE support_plans
		SET status = $2, sabikan_id = $3, sabikan_approved_at = $4,
			consent_id = $5, consented_at = $6
		WHERE id = $1`,
		uuid.UUID(plan.ID), string(plan.Status), uuid.UUID(plan.SabikanID),
		nullTime(plan.SabikanApprovedAt), nullID(plan.ConsentID), nullTime(plan.ConsentedAt))
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanPlan(row *sql.Row, op string) (models.SupportPlan, error) {
	var p models.SupportPlan
	var pid, uid, sid, polID uuid.UUID
	var status string
	var approvedAt, consentedAt sql.NullTime
	var consentID uuid.NullUUID
	err := row.Scan(&pid, &uid, &p.Version, &status, &sid, &polID,
		&p.StartDate, &p.EndDate, &approvedAt, &consentID, &consentedAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SupportPlan{}, sentinel.ErrNotFound
		}
		return models.SupportPlan{}, fmt.Errorf("%s: %w", op, err)
	}
	p.ID = id.PlanID(pid)
	p.UserID = id.UserID(uid)
	p.SabikanID = id.SupporterID(sid)
	p.PolicyID = id.PolicyID(polID)
	p.Status = models.Status(status)
	if approvedAt.Valid {
		p.SabikanApprovedAt = &approvedAt.Time
	}
	if consentID.Valid {
		cid := id.ConsentID(consentID.UUID)
		p.ConsentID = &cid
	}
	if consentedAt.Valid {
		p.ConsentedAt = &consentedAt.Time
	}
	return p, nil
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}

func nullID(value *id.ConsentID) uuid.NullUUID {
	if value == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*value), Valid: true}
}
