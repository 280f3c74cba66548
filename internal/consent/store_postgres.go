package consent

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

// PostgresStore persists document consent logs in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, consentID id.ConsentID) (Record, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, user_id, document_type, document_id, consent_timestamp, consent_proof, document_url
		FROM document_consent_logs WHERE id = $1`, uuid.UUID(consentID))
	return scanRecord(row)
}

func (s *PostgresStore) Append(ctx context.Context, record Record) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO document_consent_logs
			(id, user_id, document_type, document_id, consent_timestamp, consent_proof, document_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(record.ID), uuid.UUID(record.UserID), string(record.DocumentType),
		record.DocumentID, record.ConsentedAt, record.Proof, record.DocumentURL)
	if err != nil {
		return fmt.Errorf("append consent log: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]Record, error) {
	q := tx.QuerierFrom(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, document_type, document_id, consent_timestamp, consent_proof, document_url
		FROM document_consent_logs WHERE user_id = $1
		ORDER BY consent_timestamp`, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list consent logs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var r Record
	var cid, uid uuid.UUID
	var docType string
	if err := row.Scan(&cid, &uid, &docType, &r.DocumentID, &r.ConsentedAt, &r.Proof, &r.DocumentURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, sentinel.ErrNotFound
		}
		return Record{}, fmt.Errorf("scan consent log: %w", err)
	}
	r.ID = id.ConsentID(cid)
	r.UserID = id.UserID(uid)
	r.DocumentType = DocumentType(docType)
	return r, nil
}
