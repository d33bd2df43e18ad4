package service

import (
	"context"
	"log/slog"

	"github.com/property-billing-ledger/internal/domain/shared"
	"github.com/property-billing-ledger/internal/platform/messaging/producers"
)

// RecordServiceImpl implements the RecordService interface
type RecordServiceImpl struct {
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewRecordService creates a new record submission service
func NewRecordService(logger *slog.Logger, producer producers.MessagePublisher) RecordService {
	return &RecordServiceImpl{
		producer: producer,
		logger:   logger,
	}
}

// SubmitRecord publishes a billing record for async ingestion and returns the
// generated record ID
func (s *RecordServiceImpl) SubmitRecord(ctx context.Context, request *shared.RecordRequest) (string, error) {
	key := request.RecordID.String()
	if err := s.producer.Publish(ctx, key, request); err != nil {
		s.logger.Error("Failed to publish billing record",
			"apartment_id", request.ApartmentID,
			"kind", string(request.Kind),
			"error", err,
		)
		return "", err
	}

	s.logger.Info("Billing record published",
		"record_id", request.RecordID,
		"apartment_id", request.ApartmentID,
		"kind", string(request.Kind),
	)

	return key, nil
}
