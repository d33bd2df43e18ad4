package components

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/property-billing-ledger/internal/billing_processor/service"
	"github.com/property-billing-ledger/internal/domain/ledger"
	"github.com/property-billing-ledger/internal/domain/shared"
)

type FailureRecorderImpl struct {
	ledgerRepo ledger.Repository
	logger     *slog.Logger
}

func NewFailureRecorder(ledgerRepo ledger.Repository, logger *slog.Logger) service.FailureRecorder {
	return &FailureRecorderImpl{
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

// RecordFailure records a rejected record in the audit ledger
func (r *FailureRecorderImpl) RecordFailure(ctx context.Context, request *shared.RecordRequest, failureReason string) error {
	logger := r.logger
	if request.CorrelationID != "" {
		logger = r.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Recording failed billing record", "record_id", request.RecordID.String(), "reason", failureReason)

	now := time.Now()
	entry := &ledger.Entry{
		RecordID:      request.RecordID,
		ApartmentID:   request.ApartmentID,
		BookingID:     request.BookingID,
		Kind:          request.Kind,
		Party:         requestParty(request),
		CorrelationID: request.CorrelationID,
		Status:        shared.EntryStatusFailed,
		FailureReason: failureReason,
		CreatedAt:     request.Timestamp,
		ProcessedAt:   &now,
	}

	existingEntry, err := r.ledgerRepo.GetByRecordID(ctx, request.RecordID)
	if err != nil && !errors.Is(err, ledger.ErrEntryNotFound{}) {
		logger.Error("Failed to get existing audit entry for failed record", "record_id", request.RecordID.String(), "error", err)
	}

	if existingEntry != nil {
		if existingEntry.Status != shared.EntryStatusFailed {
			logger.Info("Updating existing audit entry to FAILED", "record_id", request.RecordID.String())
			updateErr := r.ledgerRepo.UpdateStatus(ctx, request.RecordID, shared.EntryStatusFailed, failureReason)
			if updateErr != nil {
				logger.Error("Failed to update audit entry to FAILED", "record_id", request.RecordID.String(), "error", updateErr)
				return updateErr
			}
			logger.Info("Successfully updated audit entry to FAILED", "record_id", request.RecordID.String())
			return nil
		}
		logger.Info("Audit entry already marked as FAILED", "record_id", request.RecordID.String())
		return nil
	}

	logger.Info("Creating new FAILED audit entry", "record_id", request.RecordID.String())
	createErr := r.ledgerRepo.Create(ctx, entry)
	if createErr != nil {
		logger.Error("Failed to create FAILED audit entry", "record_id", request.RecordID.String(), "error", createErr)
		return createErr
	}
	logger.Info("Successfully created FAILED audit entry", "record_id", request.RecordID.String())
	return nil
}

// requestParty extracts the responsible party from whichever payload the
// request carries. Rejected requests may carry none.
func requestParty(request *shared.RecordRequest) shared.Party {
	switch {
	case request.Payment != nil:
		return request.Payment.UserType
	case request.ServiceCharge != nil:
		return request.ServiceCharge.WhoPays
	case request.MeterReading != nil:
		return request.MeterReading.WhoPays
	}
	return ""
}
