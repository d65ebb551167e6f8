package repository

import (
	"context"
	"database/sql"

	cryptoDomain "github.com/allisson/dataproof/internal/crypto/domain"
	apperrors "github.com/allisson/dataproof/internal/errors"
	proofDomain "github.com/allisson/dataproof/internal/proof/domain"
)

// PostgreSQLProofRepository implements the record index for PostgreSQL.
type PostgreSQLProofRepository struct {
	db *sql.DB
}

// Append inserts a record into the PostgreSQL index.
func (p *PostgreSQLProofRepository) Append(
	ctx context.Context,
	record *proofDomain.ProofRecord,
) error {
	query := `INSERT INTO proof_records
			  (id, date, cid, url, encrypted, nonce, data_hash, algorithm, size_bytes, key_source, kms_enabled, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := p.db.ExecContext(
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
func (p *PostgreSQLProofRepository) List(
	ctx context.Context,
	date string,
	offset, limit int,
) ([]*proofDomain.ProofRecord, error) {
	query := `SELECT id, date, cid, url, encrypted, nonce, data_hash, algorithm, size_bytes, key_source, kms_enabled, created_at
			  FROM proof_records`
	args := []any{}

	if date != "" {
		query += ` WHERE date = $1`
		args = append(args, date)
		query += ` ORDER BY seq ASC LIMIT $2 OFFSET $3`
	} else {
		query += ` ORDER BY seq ASC LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list proof records")
	}
	defer func() { _ = rows.Close() }()

	return scanProofRecords(rows)
}

// scanProofRecords reads the shared column set into records.
func scanProofRecords(rows *sql.Rows) ([]*proofDomain.ProofRecord, error) {
	records := make([]*proofDomain.ProofRecord, 0)
	for rows.Next() {
		var record proofDomain.ProofRecord
		var keySource string
		err := rows.Scan(
			&record.ID,
			&record.Date,
			&record.CID,
			&record.URL,
			&record.Encrypted,
			&record.Nonce,
			&record.DataHash,
			&record.Algorithm,
			&record.SizeBytes,
			&keySource,
			&record.KMSEnabled,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan proof record")
		}
		record.KeySource = cryptoDomain.KeySource(keySource)
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate proof records")
	}

	return records, nil
}

// NewPostgreSQLProofRepository creates a new PostgreSQL-backed record index.
func NewPostgreSQLProofRepository(db *sql.DB) *PostgreSQLProofRepository {
	return &PostgreSQLProofRepository{db: db}
}
