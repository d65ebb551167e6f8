// Package repository implements persistence for the append-only proof record
// index. PostgreSQL and MySQL back production deployments; the in-memory
// repository serves development and tests.
package repository

import (
	"context"
	"sync"

	proofDomain "github.com/allisson/dataproof/internal/proof/domain"
)

// MemoryProofRepository keeps records in an insertion-ordered in-process
// slice. Appends serialize under a single lock so a reader never observes a
// partially written record.
type MemoryProofRepository struct {
	mu      sync.Mutex
	records []proofDomain.ProofRecord
}

// Append adds a record to the index.
func (m *MemoryProofRepository) Append(ctx context.Context, record *proofDomain.ProofRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, *record)
	return nil
}

// List returns records in insertion order, optionally filtered by exact date.
func (m *MemoryProofRepository) List(
	ctx context.Context,
	date string,
	offset, limit int,
) ([]*proofDomain.ProofRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]*proofDomain.ProofRecord, 0)
	for i := range m.records {
		if date != "" && m.records[i].Date != date {
			continue
		}
		record := m.records[i]
		matched = append(matched, &record)
	}

	if offset >= len(matched) {
		return []*proofDomain.ProofRecord{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[offset:end], nil
}

// NewMemoryProofRepository creates an empty in-memory record index.
func NewMemoryProofRepository() *MemoryProofRepository {
	return &MemoryProofRepository{}
}
