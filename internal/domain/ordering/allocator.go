package ordering

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/shared"
)

// maxAllocateRetries bounds the internal retry loop when an issuance race is
// lost. Contention on a single (code, tenant) pair is short-lived, so a small
// bound is enough; beyond it the conflict surfaces to the caller.
const maxAllocateRetries = 3

// SequenceAllocator issues unique formatted reference codes per
// (code, tenant). The read-modify-write is serialized by the repository: a
// row-level lock where the store supports it, backed by an optimistic version
// check. A lost race comes back as CONCURRENCY_CONFLICT and is retried a
// bounded number of times.
//
// The allocator writes through the repository it is given, so when that
// repository is bound to a transaction the counter increment commits or rolls
// back together with the caller's other writes.
type SequenceAllocator struct {
	sequences SequenceRepository
}

// NewSequenceAllocator creates an allocator over the given repository
func NewSequenceAllocator(sequences SequenceRepository) *SequenceAllocator {
	return &SequenceAllocator{sequences: sequences}
}

// NextReference returns the next formatted reference for (code, tenantID),
// creating the sequence row with defaults on first use.
func (a *SequenceAllocator) NextReference(ctx context.Context, code string, tenantID uuid.UUID) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxAllocateRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		ref, err := a.tryNext(ctx, code, tenantID)
		if err == nil {
			return ref, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) && !errors.Is(err, shared.ErrAlreadyExists) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

func (a *SequenceAllocator) tryNext(ctx context.Context, code string, tenantID uuid.UUID) (string, error) {
	seq, err := a.sequences.FindForUpdate(ctx, code, tenantID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return "", err
		}
		seq, err = NewSequence(code, tenantID)
		if err != nil {
			return "", err
		}
		// A concurrent first caller may win the insert; the unique index
		// turns that into ErrAlreadyExists and the outer loop re-reads.
		if err := a.sequences.Create(ctx, seq); err != nil {
			return "", err
		}
	}

	ref := seq.Advance()
	if err := a.sequences.Update(ctx, seq); err != nil {
		return "", err
	}
	return ref, nil
}
