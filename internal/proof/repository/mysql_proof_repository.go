package repository

import (
	"context"
	"database/sql"

	apperrors "github.com/allisson/dataproof/internal/errors"
	proofDomain "github.com/allisson/dataproof/internal/proof/domain"
)

// MySQLProofRepository implements the record index for MySQL.
type MySQLProofRepository struct {
	db *sql.DB
}

// Append inserts a record into the MySQL index.
func (m *MySQLProofRepository) Append(
	ctx context.Context,
	record *proofDomain.ProofRecord,
) error {
	query := `INSERT INTO proof_records
			  (id, date, cid, url, encrypted, nonce, data_hash, algorithm, size_bytes, key_source, kms_enabled, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := m.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.Date,
		record.CID,
		record.URL,
		record.Encrypted,
		record.Nonce,
		record.DataHash,
		record.Algorithm,
		record.SizeBytes,
		string(record.KeySource),
		record.KMSEnabled,
		record.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to append proof record")
	}
	return nil
}

// List returns records in insertion order, optionally filtered by exact date.
func (m *MySQLProofRepository) List(
	ctx context.Context,
	date string,
	offset, limit int,
) ([]*proofDomain.ProofRecord, error) {
	query := `SELECT id, date, cid, url, encrypted, nonce, data_hash, algorithm, size_bytes, key_source, kms_enabled, created_at
			  FROM proof_records`
	args := []any{}

	if date != "" {
		query += ` WHERE date = ?`
		args = append(args, date)
	}
	query += ` ORDER BY seq ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list proof records")
	}
	defer func() { _ = rows.Close() }()

	return scanProofRecords(rows)
}

// NewMySQLProofRepository creates a new MySQL-backed record index.
func NewMySQLProofRepository(db *sql.DB) *MySQLProofRepository {
	return &MySQLProofRepository{db: db}
}
