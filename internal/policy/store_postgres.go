package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
	"carelink/pkg/platform/tx"
)

// PostgresStore persists holistic support policies in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, policyID id.PolicyID) (HolisticSupportPolicy, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, user_id, effective_date, user_intention, support_policy, considerations, created_at
		FROM holistic_support_policies WHERE id = $1`, uuid.UUID(policyID))

	var p HolisticSupportPolicy
	var pid, uid uuid.UUID
	if err := row.Scan(&pid, &uid, &p.EffectiveDate, &p.UserIntention, &p.SupportPolicy, &p.Considerations, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return HolisticSupportPolicy{}, sentinel.ErrNotFound
		}
		return HolisticSupportPolicy{}, fmt.Errorf("get policy: %w", err)
	}
	p.ID = id.PolicyID(pid)
	p.UserID = id.UserID(uid)
	return p, nil
}

func (s *PostgresStore) Save(ctx context.Context, policy HolisticSupportPolicy) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO holistic_support_policies
			(id, user_id, effective_date, user_intention, support_policy, considerations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(policy.ID), uuid.UUID(policy.UserID), policy.EffectiveDate,
		policy.UserIntention, policy.SupportPolicy, policy.Considerations, policy.CreatedAt)
	if err != nil {
		return fmt.Errorf("save policy: %w", err)
	}
	return nil
}
