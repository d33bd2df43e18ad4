package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/property-billing-ledger/internal/billing_processor/service"
	"github.com/property-billing-ledger/internal/domain/billing"
	"github.com/property-billing-ledger/internal/domain/ledger"
	"github.com/property-billing-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

type RecordValidatorImpl struct {
	ledgerRepo ledger.Repository
	logger     *slog.Logger
}

func NewRecordValidator(ledgerRepo ledger.Repository, logger *slog.Logger) service.RecordValidator {
	return &RecordValidatorImpl{
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

// Validate checks record request validity
func (v *RecordValidatorImpl) Validate(ctx context.Context, request *shared.RecordRequest) error {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}

	switch request.Kind {
	case shared.RecordKindPayment:
		if request.Payment == nil {
			logger.Error("Payment record without payment payload", "record_id", request.RecordID.String())
			return fmt.Errorf("payment payload is missing: %w", shared.ErrInvalidRecordKind)
		}
		return v.validatePayment(logger, request)
	case shared.RecordKindServiceRequest:
		if request.ServiceCharge == nil {
			logger.Error("Service request record without service charge payload", "record_id", request.RecordID.String())
			return fmt.Errorf("service charge payload is missing: %w", shared.ErrInvalidRecordKind)
		}
		return v.validateServiceCharge(logger, request)
	case shared.RecordKindUtilityReading:
		if request.MeterReading == nil {
			logger.Error("Utility reading record without meter reading payload", "record_id", request.RecordID.String())
			return fmt.Errorf("meter reading payload is missing: %w", shared.ErrInvalidRecordKind)
		}
		return v.validateMeterReading(logger, request)
	default:
		logger.Error("Unknown record kind", "record_id", request.RecordID.String(), "kind", request.Kind)
		return shared.ErrInvalidRecordKind
	}
}

func (v *RecordValidatorImpl) validatePayment(logger *slog.Logger, request *shared.RecordRequest) error {
	p := request.Payment
	if !p.Currency.Valid() {
		logger.Error("Invalid payment currency", "record_id", request.RecordID.String(), "currency", p.Currency)
		return shared.ErrInvalidCurrency
	}
	if !p.UserType.Valid() {
		logger.Error("Invalid payment user type", "record_id", request.RecordID.String(), "user_type", p.UserType)
		return shared.ErrInvalidParty
	}
	if p.Amount.IsNegative() {
		logger.Error("Negative payment amount", "record_id", request.RecordID.String(), "amount", p.Amount.String())
		return billing.ErrNegativeAmount
	}
	return nil
}

func (v *RecordValidatorImpl) validateServiceCharge(logger *slog.Logger, request *shared.RecordRequest) error {
	sc := request.ServiceCharge
	if !sc.WhoPays.Valid() {
		logger.Error("Invalid service charge payer", "record_id", request.RecordID.String(), "who_pays", sc.WhoPays)
		return shared.ErrInvalidParty
	}
	if sc.Currency != nil && !sc.Currency.Valid() {
		logger.Error("Invalid service charge currency", "record_id", request.RecordID.String(), "currency", *sc.Currency)
		return shared.ErrInvalidCurrency
	}
	if sc.Cost != nil && sc.Cost.IsNegative() {
		logger.Error("Negative service charge cost", "record_id", request.RecordID.String(), "cost", sc.Cost.String())
		return billing.ErrNegativeAmount
	}
	return nil
}

func (v *RecordValidatorImpl) validateMeterReading(logger *slog.Logger, request *shared.RecordRequest) error {
	mr := request.MeterReading
	if !mr.WhoPays.Valid() {
		logger.Error("Invalid meter reading payer", "record_id", request.RecordID.String(), "who_pays", mr.WhoPays)
		return shared.ErrInvalidParty
	}
	for _, value := range []*decimal.Decimal{mr.WaterStart, mr.WaterEnd, mr.ElectricityStart, mr.ElectricityEnd} {
		if value != nil && value.IsNegative() {
			logger.Error("Negative meter value", "record_id", request.RecordID.String(), "value", value.String())
			return billing.ErrNegativeReading
		}
	}
	return nil
}

// CheckIdempotency checks if the record was already processed
func (v *RecordValidatorImpl) CheckIdempotency(ctx context.Context, request *shared.RecordRequest) (bool, error) {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}

	existingEntry, err := v.ledgerRepo.GetByRecordID(ctx, request.RecordID)
	if err != nil && !errors.Is(err, ledger.ErrEntryNotFound{}) {
		logger.Error("Failed to check audit ledger for idempotency", "record_id", request.RecordID.String(), "error", err)
		return false, fmt.Errorf("idempotency check failed for record %s: %w", request.RecordID.String(), err)
	}

	if existingEntry != nil {
		logger.Info("Record already processed (idempotency)", "record_id", request.RecordID.String(), "status", existingEntry.Status)
		return true, nil // Skip processing
	}

	return false, nil // Continue processing
}
