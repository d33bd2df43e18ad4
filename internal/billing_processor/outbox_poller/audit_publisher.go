package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/property-billing-ledger/internal/domain/ledger"
	"github.com/property-billing-ledger/internal/domain/outbox"
	"github.com/property-billing-ledger/internal/domain/shared"
)

// AuditPublisher publishes outbox messages to the audit ledger
type AuditPublisher interface {
	PublishToLedger(ctx context.Context, message *outbox.Message) error
}

// AuditPublisherImpl implements AuditPublisher
type AuditPublisherImpl struct {
	outboxRepo outbox.Repository
	ledgerRepo ledger.Repository
	logger     *slog.Logger
}

// NewAuditPublisher creates a new publisher
func NewAuditPublisher(
	outboxRepo outbox.Repository,
	ledgerRepo ledger.Repository,
	logger *slog.Logger,
) AuditPublisher {
	return &AuditPublisherImpl{
		outboxRepo: outboxRepo,
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

// PublishToLedger writes an outbox message's audit entry to MongoDB. The entry
// keeps the status the processor derived (RECORDED, UNPRICED or INCOMPLETE);
// the publisher only stamps ProcessedAt.
func (p *AuditPublisherImpl) PublishToLedger(ctx context.Context, message *outbox.Message) error {
	entryToPublish, err := message.GetAuditEntry()
	if err != nil {
		p.logger.Error("Failed to unmarshal audit entry from outbox payload",
			"outbox_id", message.ID, "record_id", message.RecordID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	// Add correlation ID to logger
	logger := p.logger
	if entryToPublish.CorrelationID != "" {
		logger = p.logger.With("correlation_id", entryToPublish.CorrelationID)
	}

	logger.Info("Attempting to publish outbox message to audit ledger", "outbox_id", message.ID, "record_id", message.RecordID)

	now := time.Now().UTC()
	entryToPublish.ProcessedAt = &now

	existingEntry, err := p.ledgerRepo.GetByRecordID(ctx, entryToPublish.RecordID)
	if err != nil && !errors.Is(err, ledger.ErrEntryNotFound{}) {
		logger.Error("Failed to check existing audit entry before publishing", "record_id", entryToPublish.RecordID, "error", err)
		return fmt.Errorf("failed to check existing audit entry %s: %w", entryToPublish.RecordID, err)
	}

	if existingEntry != nil {
		if existingEntry.Status == entryToPublish.Status {
			logger.Info("Audit entry already published with same status", "record_id", entryToPublish.RecordID, "status", existingEntry.Status)
		} else {
			err = p.ledgerRepo.UpdateStatus(ctx, entryToPublish.RecordID, entryToPublish.Status, entryToPublish.FailureReason)
			if err != nil {
				logger.Error("Failed to update existing audit entry status", "record_id", entryToPublish.RecordID, "status", entryToPublish.Status, "error", err)
				return fmt.Errorf("failed to update audit entry %s to %s: %w", entryToPublish.RecordID, entryToPublish.Status, err)
			}
			logger.Info("Updated existing audit entry status", "record_id", entryToPublish.RecordID, "status", entryToPublish.Status)
		}
	} else {
		// Create new audit entry
		err = p.ledgerRepo.Create(ctx, entryToPublish)
		if err != nil {
			logger.Error("Failed to create audit entry in MongoDB", "record_id", entryToPublish.RecordID, "error", err)
			return fmt.Errorf("failed to create audit entry %s: %w", entryToPublish.RecordID, err)
		}
		logger.Info("Successfully created audit entry in MongoDB", "record_id", entryToPublish.RecordID)
	}

	// Mark outbox message as processed
	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "record_id", message.RecordID, "error", err,
		)
		return fmt.Errorf("audit write for %s OK, but failed to mark outbox %d as PROCESSED: %w", message.RecordID, message.ID, err)
	}

	logger.Info("Outbox message successfully processed and marked as PROCESSED", "outbox_id", message.ID, "record_id", message.RecordID)
	return nil
}
