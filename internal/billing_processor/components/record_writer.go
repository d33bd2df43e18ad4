package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/property-billing-ledger/internal/billing_processor/service"
	"github.com/property-billing-ledger/internal/domain/billing"
	"github.com/property-billing-ledger/internal/domain/ledger"
	"github.com/property-billing-ledger/internal/domain/property"
	"github.com/property-billing-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

type RecordWriterImpl struct {
	apartmentRepo      property.ApartmentRepository
	villageRepo        property.VillageRepository
	serviceTypeRepo    property.ServiceTypeRepository
	paymentRepo        billing.PaymentRepository
	serviceRequestRepo billing.ServiceRequestRepository
	utilityReadingRepo billing.UtilityReadingRepository
	logger             *slog.Logger
}

func NewRecordWriter(
	apartmentRepo property.ApartmentRepository,
	villageRepo property.VillageRepository,
	serviceTypeRepo property.ServiceTypeRepository,
	paymentRepo billing.PaymentRepository,
	serviceRequestRepo billing.ServiceRequestRepository,
	utilityReadingRepo billing.UtilityReadingRepository,
	logger *slog.Logger,
) service.RecordWriter {
	return &RecordWriterImpl{
		apartmentRepo:      apartmentRepo,
		villageRepo:        villageRepo,
		serviceTypeRepo:    serviceTypeRepo,
		paymentRepo:        paymentRepo,
		serviceRequestRepo: serviceRequestRepo,
		utilityReadingRepo: utilityReadingRepo,
		logger:             logger,
	}
}

// WriteRecord persists the raw record inside the transaction and derives the
// audit entry that will travel through the outbox. UNPRICED and INCOMPLETE are
// normal outcomes, not errors: the raw record is still persisted and the entry
// carries the reason.
func (w *RecordWriterImpl) WriteRecord(ctx context.Context, tx pgx.Tx, request *shared.RecordRequest) (*ledger.Entry, error) {
	logger := w.logger
	if request.CorrelationID != "" {
		logger = w.logger.With("correlation_id", request.CorrelationID)
	}

	apartment, err := w.apartmentRepo.GetByID(ctx, request.ApartmentID)
	if err != nil {
		if errors.Is(err, property.ErrApartmentNotFound{}) {
			logger.Error("Apartment not found for record", "record_id", request.RecordID.String(), "apartment_id", request.ApartmentID)
			return nil, err
		}
		return nil, fmt.Errorf("failed to get apartment %d: %w", request.ApartmentID, err)
	}

	entry := &ledger.Entry{
		RecordID:      request.RecordID,
		ApartmentID:   request.ApartmentID,
		BookingID:     request.BookingID,
		Kind:          request.Kind,
		CorrelationID: request.CorrelationID,
		Status:        shared.EntryStatusRecorded,
		CreatedAt:     request.Timestamp,
	}

	switch request.Kind {
	case shared.RecordKindPayment:
		err = w.writePayment(ctx, tx, request, entry)
	case shared.RecordKindServiceRequest:
		err = w.writeServiceCharge(ctx, tx, request, apartment, entry)
	case shared.RecordKindUtilityReading:
		err = w.writeMeterReading(ctx, tx, request, apartment, entry)
	default:
		return nil, shared.ErrInvalidRecordKind
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Raw record persisted",
		"record_id", request.RecordID.String(),
		"apartment_id", request.ApartmentID,
		"kind", request.Kind,
		"status", entry.Status,
	)
	return entry, nil
}

func (w *RecordWriterImpl) writePayment(ctx context.Context, tx pgx.Tx, request *shared.RecordRequest, entry *ledger.Entry) error {
	payload := request.Payment
	payment := &billing.Payment{
		ApartmentID: request.ApartmentID,
		BookingID:   request.BookingID,
		Amount:      payload.Amount,
		Currency:    payload.Currency,
		UserType:    payload.UserType,
		Date:        payload.Date,
	}
	if err := w.paymentRepo.WithTx(tx).Create(ctx, payment); err != nil {
		return fmt.Errorf("failed to create payment for record %s: %w", request.RecordID.String(), err)
	}

	entry.Party = payload.UserType
	entry.Amount = &payload.Amount
	entry.Currency = &payload.Currency
	return nil
}

func (w *RecordWriterImpl) writeServiceCharge(ctx context.Context, tx pgx.Tx, request *shared.RecordRequest, apartment *property.Apartment, entry *ledger.Entry) error {
	payload := request.ServiceCharge
	serviceRequest := &billing.ServiceRequest{
		TypeID:      payload.ServiceTypeID,
		ApartmentID: request.ApartmentID,
		BookingID:   request.BookingID,
		WhoPays:     payload.WhoPays,
		Cost:        payload.Cost,
		Currency:    payload.Currency,
		DateCreated: payload.DateCreated,
	}
	if err := w.serviceRequestRepo.WithTx(tx).Create(ctx, serviceRequest); err != nil {
		return fmt.Errorf("failed to create service request for record %s: %w", request.RecordID.String(), err)
	}

	entry.Party = payload.WhoPays

	serviceType, err := w.serviceTypeRepo.GetByID(ctx, payload.ServiceTypeID)
	if err != nil {
		if errors.Is(err, property.ErrServiceTypeNotFound{}) {
			return err
		}
		return fmt.Errorf("failed to get service type %d: %w", payload.ServiceTypeID, err)
	}

	quote, err := billing.ResolveServicePrice(*serviceType, apartment.VillageID, &billing.PriceOverride{
		Cost:     payload.Cost,
		Currency: payload.Currency,
	})
	if err != nil {
		if errors.Is(err, billing.ErrPricingUnavailable) {
			entry.Status = shared.EntryStatusUnpriced
			entry.FailureReason = string(shared.FailureReasonPricingUnavailable)
			return nil
		}
		return fmt.Errorf("failed to resolve service price for record %s: %w", request.RecordID.String(), err)
	}

	entry.Amount = &quote.Cost
	entry.Currency = &quote.Currency
	return nil
}

func (w *RecordWriterImpl) writeMeterReading(ctx context.Context, tx pgx.Tx, request *shared.RecordRequest, apartment *property.Apartment, entry *ledger.Entry) error {
	payload := request.MeterReading
	reading := &billing.UtilityReading{
		ApartmentID:      request.ApartmentID,
		BookingID:        request.BookingID,
		WaterStart:       payload.WaterStart,
		WaterEnd:         payload.WaterEnd,
		ElectricityStart: payload.ElectricityStart,
		ElectricityEnd:   payload.ElectricityEnd,
		WhoPays:          payload.WhoPays,
		StartDate:        payload.StartDate,
		EndDate:          payload.EndDate,
	}
	if err := w.utilityReadingRepo.WithTx(tx).Create(ctx, reading); err != nil {
		return fmt.Errorf("failed to create utility reading for record %s: %w", request.RecordID.String(), err)
	}

	entry.Party = payload.WhoPays

	village, err := w.villageRepo.GetByID(ctx, apartment.VillageID)
	if err != nil {
		if errors.Is(err, property.ErrVillageNotFound{}) {
			entry.Status = shared.EntryStatusUnpriced
			entry.FailureReason = string(shared.FailureReasonVillageNotFound)
			return nil
		}
		return fmt.Errorf("failed to get village %d: %w", apartment.VillageID, err)
	}

	// Water and electricity are billed independently; the entry keeps one
	// line per utility so neither bill is lost in a combined amount.
	total := decimal.Zero
	var bills []ledger.UtilityBill
	for _, kind := range []shared.UtilityKind{shared.UtilityWater, shared.UtilityElectricity} {
		if !reading.HasValues(kind) {
			continue
		}
		start, end := reading.Pair(kind)
		bill, err := billing.CalculateUtilityBill(kind, start, end, *village)
		if err != nil {
			if errors.Is(err, billing.ErrIncompleteReading) {
				continue
			}
			return err
		}
		bills = append(bills, ledger.UtilityBill{
			Utility:     kind,
			Consumption: bill.Consumption,
			Cost:        bill.Cost,
		})
		total = total.Add(bill.Cost)
	}

	if len(bills) == 0 {
		entry.Status = shared.EntryStatusIncomplete
		return nil
	}

	entry.Amount = &total
	entry.Currency = &village.PricingCurrency
	entry.UtilityBills = bills
	return nil
}
