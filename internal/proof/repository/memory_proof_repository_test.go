package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/dataproof/internal/crypto/domain"
	proofDomain "github.com/allisson/dataproof/internal/proof/domain"
)

func testRecord(id, date string) *proofDomain.ProofRecord {
	return &proofDomain.ProofRecord{
		ID:        id,
		Date:      date,
		CID:       "bafkreigh2akiscaildcqabsyg3dfr6chu3fgpregiymsck7e7aqa4s52zy",
		URL:       "https://gateway.pinata.cloud/ipfs/bafkreigh2akiscaildcqabsyg3dfr6chu3fgpregiymsck7e7aqa4s52zy",
		Encrypted: true,
		Nonce:     "bm9uY2U=",
		DataHash:  "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		Algorithm: "AES-256-GCM",
		SizeBytes: 512,
		KeySource: cryptoDomain.SourceLocal,
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryProofRepository_AppendAndList(t *testing.T) {
	repo := NewMemoryProofRepository()
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, testRecord("proof_1", "2024-01-01")))
	require.NoError(t, repo.Append(ctx, testRecord("proof_2", "2024-01-02")))
	require.NoError(t, repo.Append(ctx, testRecord("proof_3", "2024-01-01")))

	records, err := repo.List(ctx, "", 0, 50)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "proof_1", records[0].ID)
	assert.Equal(t, "proof_2", records[1].ID)
	assert.Equal(t, "proof_3", records[2].ID)
}

func TestMemoryProofRepository_ListByDate(t *testing.T) {
	repo := NewMemoryProofRepository()
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, testRecord("proof_1", "2024-01-01")))
	require.NoError(t, repo.Append(ctx, testRecord("proof_2", "2024-01-02")))
	require.NoError(t, repo.Append(ctx, testRecord("proof_3", "2024-01-01")))

	records, err := repo.List(ctx, "2024-01-01", 0, 50)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "proof_1", records[0].ID)
	assert.Equal(t, "proof_3", records[1].ID)
}

func TestMemoryProofRepository_ListPagination(t *testing.T) {
	repo := NewMemoryProofRepository()
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, repo.Append(ctx, testRecord(fmt.Sprintf("proof_%d", i), "2024-01-01")))
	}

	records, err := repo.List(ctx, "", 2, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "proof_2", records[0].ID)
	assert.Equal(t, "proof_3", records[1].ID)

	records, err = repo.List(ctx, "", 10, 2)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMemoryProofRepository_RecordsAreImmutable(t *testing.T) {
	repo := NewMemoryProofRepository()
	ctx := context.Background()

	original := testRecord("proof_1", "2024-01-01")
	require.NoError(t, repo.Append(ctx, original))

	// Mutating the caller's copy must not change the stored record.
	original.Date = "2099-12-31"

	records, err := repo.List(ctx, "", 0, 50)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-01-01", records[0].Date)

	// Mutating a listed record must not change the stored record either.
	records[0].Date = "2098-01-01"
	records, err = repo.List(ctx, "", 0, 50)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", records[0].Date)
}

func TestMemoryProofRepository_ConcurrentAppends(t *testing.T) {
	repo := NewMemoryProofRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Append(ctx, testRecord(fmt.Sprintf("proof_%d", i), "2024-01-01"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	records, err := repo.List(ctx, "", 0, 100)
	require.NoError(t, err)
	assert.Len(t, records, 50)
}
