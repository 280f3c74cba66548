package user

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

// PostgresStore persists users in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, userID id.UserID) (User, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, name, service_start_date, service_type_id, created_at
		FROM users WHERE id = $1`, uuid.UUID(userID))

	var u User
	var uid, serviceTypeID uuid.UUID
	var serviceStart sql.NullTime
	if err := row.Scan(&uid, &u.Name, &serviceStart, &serviceTypeID, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, sentinel.ErrNotFound
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	u.ID = id.UserID(uid)
	u.ServiceTypeID = id.ServiceTypeID(serviceTypeID)
	if serviceStart.Valid {
		start := serviceStart.Time
		u.ServiceStartDate = &start
	}
	return u, nil
}

func (s *PostgresStore) Save(ctx context.Context, user User) error {
	q := tx.QuerierFrom(ctx, s.db)
	var serviceStart sql.NullTime
	if user.ServiceStartDate != nil {
		serviceStart = sql.NullTime{Time: *user.ServiceStartDate, Valid: true}
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO users (id, name, service_start_date, service_type_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    service_start_date = EXCLUDED.service_start_date,
		    service_type_id = EXCLUDED.service_type_id`,
		uuid.UUID(user.ID), user.Name, serviceStart, uuid.UUID(user.ServiceTypeID), user.CreatedAt)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}
