package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/property-billing-ledger/internal/domain/ledger"
	"github.com/property-billing-ledger/internal/domain/shared"
)

// ProcessingService defines the interface for processing billing record requests.
type ProcessingService interface {
	ProcessRecord(ctx context.Context, request *shared.RecordRequest) error
}

// RecordValidator validates billing record requests before processing
type RecordValidator interface {
	Validate(ctx context.Context, request *shared.RecordRequest) error
	CheckIdempotency(ctx context.Context, request *shared.RecordRequest) (bool, error)
}

// RecordWriter persists the raw record and derives its audit entry
type RecordWriter interface {
	WriteRecord(ctx context.Context, tx pgx.Tx, request *shared.RecordRequest) (*ledger.Entry, error)
}

// OutboxManager handles the creation of outbox entries for processed records
type OutboxManager interface {
	CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.RecordRequest, entry *ledger.Entry) error
}

// FailureRecorder handles recording rejected records
type FailureRecorder interface {
	RecordFailure(ctx context.Context, request *shared.RecordRequest, failureReason string) error
}
