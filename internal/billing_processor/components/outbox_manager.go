package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/property-billing-ledger/internal/billing_processor/service"
	"github.com/property-billing-ledger/internal/domain/ledger"
	"github.com/property-billing-ledger/internal/domain/outbox"
	"github.com/property-billing-ledger/internal/domain/shared"
)

type OutboxManagerImpl struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewOutboxManager(outboxRepo outbox.Repository, logger *slog.Logger) service.OutboxManager {
	return &OutboxManagerImpl{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// CreateOutboxEntry stores the derived audit entry in the outbox, inside the
// same transaction that persisted the raw record. The poller ships it to the
// audit ledger afterwards.
func (m *OutboxManagerImpl) CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.RecordRequest, entry *ledger.Entry) error {
	logger := m.logger
	if request.CorrelationID != "" {
		logger = m.logger.With("correlation_id", request.CorrelationID)
	}

	outboxRepoTx := m.outboxRepo.WithTx(tx)

	outboxMessage, err := outbox.NewMessage(entry)
	if err != nil {
		logger.Error("Failed to create new outbox message (marshal payload)",
			"record_id", request.RecordID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message payload for record %s: %w", request.RecordID.String(), err)
	}

	if err = outboxRepoTx.Create(ctx, outboxMessage); err != nil {
		logger.Error("Failed to create outbox message",
			"record_id", request.RecordID.String(),
			"apartment_id", request.ApartmentID,
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message for record %s: %w", request.RecordID.String(), err)
	}
	logger.Info("Outbox message created successfully",
		"record_id", request.RecordID.String(),
		"outbox_id", outboxMessage.ID,
	)

	return nil
}
