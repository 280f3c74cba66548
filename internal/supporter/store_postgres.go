package supporter

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

// PostgresStore persists supporters in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, supporterID id.SupporterID) (Supporter, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, name, role, password_hash, created_at
		FROM supporters WHERE id = $1`, uuid.UUID(supporterID))

	var sup Supporter
	var sid uuid.UUID
	var role string
	if err := row.Scan(&sid, &sup.Name, &role, &sup.PasswordHash, &sup.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Supporter{}, sentinel.ErrNotFound
		}
		return Supporter{}, fmt.Errorf("get supporter: %w", err)
	}
	sup.ID = id.SupporterID(sid)
	sup.Role = Role(role)
	return sup, nil
}

func (s *PostgresStore) Save(ctx context.Context, supporter Supporter) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO supporters (id, name, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    role = EXCLUDED.role,
		    password_hash = EXCLUDED.password_hash`,
		uuid.UUID(supporter.ID), supporter.Name, string(supporter.Role),
		supporter.PasswordHash, supporter.CreatedAt)
	if err != nil {
		return fmt.Errorf("save supporter: %w", err)
	}
	return nil
}
