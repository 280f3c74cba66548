package master

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

// PostgresStore persists service-type master data in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, serviceTypeID id.ServiceTypeID) (ServiceType, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, name, service_code, required_review_months
		FROM service_type_master WHERE id = $1`, uuid.UUID(serviceTypeID))

	var st ServiceType
	var sid uuid.UUID
	if err := row.Scan(&sid, &st.Name, &st.Code, &st.RequiredReviewMonths); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ServiceType{}, sentinel.ErrNotFound
		}
		return ServiceType{}, fmt.Errorf("get service type: %w", err)
	}
	st.ID = id.ServiceTypeID(sid)
	return st, nil
}

func (s *PostgresStore) Save(ctx context.Context, serviceType ServiceType) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO service_type_master (id, name, service_code, required_review_months)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    service_code = EXCLUDED.service_code,
		    required_review_months = EXCLUDED.required_review_months`,
		uuid.UUID(serviceType.ID), serviceType.Name, serviceType.Code, serviceType.RequiredReviewMonths)
	if err != nil {
		return fmt.Errorf("save service type: %w", err)
	}
	return nil
}
