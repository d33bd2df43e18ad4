package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/property-billing-ledger/internal/domain/billing"
	"github.com/property-billing-ledger/internal/domain/ledger"
	"github.com/property-billing-ledger/internal/domain/property"
	"github.com/property-billing-ledger/internal/domain/shared"
	"github.com/property-billing-ledger/internal/platform/persistence"
)

type ProcessingServiceImpl struct {
	pgDB            *persistence.PostgresDB
	validator       RecordValidator
	recordWriter    RecordWriter
	outboxManager   OutboxManager
	failureRecorder FailureRecorder
	logger          *slog.Logger
}

func NewProcessingService(
	pgDB *persistence.PostgresDB,
	validator RecordValidator,
	recordWriter RecordWriter,
	outboxManager OutboxManager,
	failureRecorder FailureRecorder,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		pgDB:            pgDB,
		validator:       validator,
		recordWriter:    recordWriter,
		outboxManager:   outboxManager,
		failureRecorder: failureRecorder,
		logger:          logger,
	}
}

// ProcessRecord handles the core logic for ingesting one billing record.
func (s *ProcessingServiceImpl) ProcessRecord(ctx context.Context, request *shared.RecordRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Processing billing record", "record_id", request.RecordID.String(), "apartment_id", request.ApartmentID, "kind", request.Kind)

	// 1. Validate the record
	if err := s.validator.Validate(ctx, request); err != nil {
		logger.Error("Record validation failed", "record_id", request.RecordID.String(), "error", err)

		// Record the failure based on the specific error
		var failureReason string
		switch {
		case errors.Is(err, shared.ErrInvalidRecordKind):
			failureReason = string(shared.FailureReasonUnknownRecordKind)
		case errors.Is(err, shared.ErrInvalidCurrency):
			failureReason = string(shared.FailureReasonInvalidCurrency)
		case errors.Is(err, shared.ErrInvalidParty):
			failureReason = string(shared.FailureReasonInvalidParty)
		case errors.Is(err, billing.ErrNegativeReading):
			failureReason = string(shared.FailureReasonNegativeReading)
		case errors.Is(err, billing.ErrNegativeAmount):
			failureReason = string(shared.FailureReasonNegativeAmount)
		default:
			failureReason = string(shared.FailureReasonUnknownError)
		}

		if recordErr := s.failureRecorder.RecordFailure(ctx, request, failureReason); recordErr != nil {
			logger.Error("Failed to record billing record failure", "record_id", request.RecordID.String(), "error", recordErr)
		}

		return nil // Return nil to Kafka consumer to acknowledge the message
	}

	// 2. Check idempotency
	skip, err := s.validator.CheckIdempotency(ctx, request)
	if err != nil {
		return err // Let Kafka retry
	}
	if skip {
		return nil // Already processed, return success
	}

	// 3. Begin database transaction
	var tx pgx.Tx
	tx, err = s.pgDB.Pool().Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin database transaction", "record_id", request.RecordID.String(), "error", err)
		return fmt.Errorf("failed to begin DB transaction for %s: %w", request.RecordID.String(), err)
	}
	defer func() {
		if p := recover(); p != nil {
			logger.Error("Panic recovered, rolling back transaction", "panic", p, "record_id", request.RecordID.String())
			_ = tx.Rollback(ctx)
			panic(p) // Re-panic
		} else if err != nil {
			logger.Error("Error occurred, rolling back transaction", "error", err, "record_id", request.RecordID.String())
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logger.Error("Failed to rollback transaction after error", "rollback_error", rbErr, "original_error", err, "record_id", request.RecordID.String())
			}
		}
	}()

	// 4. Persist the raw record and derive its audit entry
	var auditEntry *ledger.Entry
	auditEntry, err = s.recordWriter.WriteRecord(ctx, tx, request)
	if err != nil {
		// Handle specific business errors
		if errors.Is(err, property.ErrApartmentNotFound{}) {
			if recordErr := s.failureRecorder.RecordFailure(ctx, request, string(shared.FailureReasonApartmentNotFound)); recordErr != nil {
				logger.Error("Failed to record apartment not found failure", "record_id", request.RecordID.String(), "error", recordErr)
			}
			return nil // Return nil to Kafka consumer
		} else if errors.Is(err, property.ErrServiceTypeNotFound{}) {
			if recordErr := s.failureRecorder.RecordFailure(ctx, request, string(shared.FailureReasonServiceTypeNotFound)); recordErr != nil {
				logger.Error("Failed to record service type not found failure", "record_id", request.RecordID.String(), "error", recordErr)
			}
			return nil // Return nil to Kafka consumer
		} else if errors.Is(err, billing.ErrNegativeReading) {
			if recordErr := s.failureRecorder.RecordFailure(ctx, request, string(shared.FailureReasonNegativeReading)); recordErr != nil {
				logger.Error("Failed to record negative reading failure", "record_id", request.RecordID.String(), "error", recordErr)
			}
			return nil // Return nil to Kafka consumer
		}

		// For other errors, let them propagate for retry
		return err
	}

	// 5. Create outbox entry
	if err = s.outboxManager.CreateOutboxEntry(ctx, tx, request, auditEntry); err != nil {
		return err // Let the defer handle rollback
	}

	// 6. Commit transaction
	if err = tx.Commit(ctx); err != nil {
		logger.Error("Failed to commit database transaction",
			"record_id", request.RecordID.String(),
			"apartment_id", request.ApartmentID,
			"error", err,
		)
		return fmt.Errorf("failed to commit DB transaction for record %s: %w", request.RecordID.String(), err)
	}

	logger.Info("Database transaction committed successfully", "record_id", request.RecordID.String(), "apartment_id", request.ApartmentID)
	return nil
}
