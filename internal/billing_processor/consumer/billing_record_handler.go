package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/property-billing-ledger/internal/billing_processor/service"
	"github.com/property-billing-ledger/internal/domain/shared"
	"github.com/property-billing-ledger/internal/platform/messaging/producers"
)

// BillingRecordHandler handles incoming billing record messages from Kafka
type BillingRecordHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewBillingRecordHandler creates a new handler
func NewBillingRecordHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *BillingRecordHandler {
	return &BillingRecordHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages
func (h *BillingRecordHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var request shared.RecordRequest
	if err := json.Unmarshal(value, &request); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal billing record request from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if request.CorrelationID != "" {
		logger = h.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Received billing record for processing",
		"record_id", request.RecordID.String(),
		"apartment_id", request.ApartmentID,
		"kind", request.Kind,
	)

	if err := h.processingService.ProcessRecord(ctx, &request); err != nil {
		logger.Error("Failed to process billing record",
			"record_id", request.RecordID.String(),
			"apartment_id", request.ApartmentID,
			"error", err,
		)
		return fmt.Errorf("processing record %s failed: %w", request.RecordID.String(), err)
	}

	logger.Info("Successfully processed billing record", "record_id", request.RecordID.String())
	return nil // Success, commit offset
}
