package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/property-billing-ledger/internal/domain/billing"
	"github.com/property-billing-ledger/internal/domain/ledger"
	"github.com/property-billing-ledger/internal/domain/property"
)

// BillingQueryServiceImpl implements the BillingQueryService interface
type BillingQueryServiceImpl struct {
	apartmentRepo      property.ApartmentRepository
	villageRepo        property.VillageRepository
	serviceTypeRepo    property.ServiceTypeRepository
	bookingRepo        property.BookingRepository
	paymentRepo        billing.PaymentRepository
	serviceRequestRepo billing.ServiceRequestRepository
	utilityReadingRepo billing.UtilityReadingRepository
	ledgerRepo         ledger.Repository
	logger             *slog.Logger
}

// NewBillingQueryService creates a new billing query service
func NewBillingQueryService(
	logger *slog.Logger,
	apartmentRepo property.ApartmentRepository,
	villageRepo property.VillageRepository,
	serviceTypeRepo property.ServiceTypeRepository,
	bookingRepo property.BookingRepository,
	paymentRepo billing.PaymentRepository,
	serviceRequestRepo billing.ServiceRequestRepository,
	utilityReadingRepo billing.UtilityReadingRepository,
	ledgerRepo ledger.Repository,
) BillingQueryService {
	return &BillingQueryServiceImpl{
		apartmentRepo:      apartmentRepo,
		villageRepo:        villageRepo,
		serviceTypeRepo:    serviceTypeRepo,
		bookingRepo:        bookingRepo,
		paymentRepo:        paymentRepo,
		serviceRequestRepo: serviceRequestRepo,
		utilityReadingRepo: utilityReadingRepo,
		ledgerRepo:         ledgerRepo,
		logger:             logger,
	}
}

// loadSnapshot fetches every collection the engine needs in one pass. The
// optional villageID narrows the fetch to one village's records; the filter
// still applies during aggregation.
func (s *BillingQueryServiceImpl) loadSnapshot(ctx context.Context, villageID *int64) (billing.Snapshot, error) {
	var snap billing.Snapshot

	apartments, err := s.apartmentRepo.List(ctx, villageID)
	if err != nil {
		return snap, fmt.Errorf("failed to list apartments: %w", err)
	}
	for _, apt := range apartments {
		snap.Apartments = append(snap.Apartments, *apt)
	}

	villages, err := s.villageRepo.List(ctx)
	if err != nil {
		return snap, fmt.Errorf("failed to list villages: %w", err)
	}
	snap.VillagesByID = make(map[int64]property.Village, len(villages))
	for _, v := range villages {
		snap.VillagesByID[v.ID] = *v
	}

	serviceTypes, err := s.serviceTypeRepo.List(ctx)
	if err != nil {
		return snap, fmt.Errorf("failed to list service types: %w", err)
	}
	snap.ServiceTypesByID = make(map[int64]property.ServiceType, len(serviceTypes))
	for _, st := range serviceTypes {
		snap.ServiceTypesByID[st.ID] = *st
	}

	bookings, err := s.bookingRepo.List(ctx, villageID)
	if err != nil {
		return snap, fmt.Errorf("failed to list bookings: %w", err)
	}
	for _, b := range bookings {
		snap.Bookings = append(snap.Bookings, *b)
	}

	payments, err := s.paymentRepo.List(ctx, villageID)
	if err != nil {
		return snap, fmt.Errorf("failed to list payments: %w", err)
	}
	for _, p := range payments {
		snap.Payments = append(snap.Payments, *p)
	}

	serviceRequests, err := s.serviceRequestRepo.List(ctx, villageID)
	if err != nil {
		return snap, fmt.Errorf("failed to list service requests: %w", err)
	}
	for _, sr := range serviceRequests {
		snap.ServiceRequests = append(snap.ServiceRequests, *sr)
	}

	readings, err := s.utilityReadingRepo.List(ctx, villageID)
	if err != nil {
		return snap, fmt.Errorf("failed to list utility readings: %w", err)
	}
	for _, r := range readings {
		snap.UtilityReadings = append(snap.UtilityReadings, *r)
	}

	return snap, nil
}

// Overview aggregates the full filtered apartment set
func (s *BillingQueryServiceImpl) Overview(ctx context.Context, filter billing.Filter) (*billing.Report, error) {
	snap, err := s.loadSnapshot(ctx, filter.VillageID)
	if err != nil {
		s.logger.Error("Failed to load billing snapshot", "error", err)
		return nil, err
	}

	report, err := billing.Aggregate(snap, filter)
	if err != nil {
		s.logger.Error("Aggregation failed", "error", err)
		return nil, err
	}

	s.logger.Info("Billing overview computed",
		"apartments", len(report.Apartments),
		"entries", len(report.Entries),
		"warnings", len(report.Warnings),
	)
	return report, nil
}

// ApartmentLedger aggregates one apartment's ledger with renter attribution
func (s *BillingQueryServiceImpl) ApartmentLedger(ctx context.Context, apartmentID int64, filter billing.Filter) (*ApartmentLedger, error) {
	apartment, err := s.apartmentRepo.GetByID(ctx, apartmentID)
	if err != nil {
		return nil, err
	}

	snap, err := s.loadSnapshot(ctx, &apartment.VillageID)
	if err != nil {
		s.logger.Error("Failed to load billing snapshot", "apartment_id", apartmentID, "error", err)
		return nil, err
	}

	report, err := billing.Aggregate(snap, filter)
	if err != nil {
		s.logger.Error("Aggregation failed", "apartment_id", apartmentID, "error", err)
		return nil, err
	}

	result := &ApartmentLedger{Apartment: *apartment}
	if totals, ok := report.Apartments[apartmentID]; ok {
		result.Totals = totals.Totals
		result.ByParty = totals.ByParty
	}
	for _, e := range report.Entries {
		if e.ApartmentID == apartmentID {
			result.Entries = append(result.Entries, e)
		}
	}
	for _, w := range report.Warnings {
		if w.ApartmentID == apartmentID {
			result.Warnings = append(result.Warnings, w)
		}
	}
	for _, p := range report.Pending {
		if p.ApartmentID == apartmentID {
			result.Pending = append(result.Pending, p)
		}
	}

	if summary, ok := billing.RenterLedgerSummary(apartmentID, snap.Bookings, result.Entries, time.Now()); ok {
		result.RenterSummary = summary
	}

	return result, nil
}

// RenterSummary returns the current renter booking's slice of the ledger
func (s *BillingQueryServiceImpl) RenterSummary(ctx context.Context, apartmentID int64) (*billing.RenterSummary, bool, error) {
	apartmentLedger, err := s.ApartmentLedger(ctx, apartmentID, billing.Filter{})
	if err != nil {
		return nil, false, err
	}
	if apartmentLedger.RenterSummary == nil {
		return nil, false, nil
	}
	return apartmentLedger.RenterSummary, true, nil
}

// Rollup partitions the filtered ledger by year
func (s *BillingQueryServiceImpl) Rollup(ctx context.Context, filter billing.Filter, beforeYear *int) (*Rollup, error) {
	snap, err := s.loadSnapshot(ctx, filter.VillageID)
	if err != nil {
		s.logger.Error("Failed to load billing snapshot", "error", err)
		return nil, err
	}

	report, err := billing.Aggregate(snap, filter)
	if err != nil {
		s.logger.Error("Aggregation failed", "error", err)
		return nil, err
	}

	rollup := &Rollup{
		ByYear:     billing.ByYear(report.Entries),
		BeforeYear: beforeYear,
	}
	if beforeYear != nil {
		carry := billing.PreviousYearsTotal(report.Entries, *beforeYear)
		rollup.PreviousYearsTotal = &carry
	}

	return rollup, nil
}

// GetAuditEntries retrieves paginated derived audit entries for an apartment
// Returns entries, total count, and any error
func (s *BillingQueryServiceImpl) GetAuditEntries(ctx context.Context, apartmentID int64, page, perPage int) ([]*ledger.Entry, int64, error) {
	offset := (page - 1) * perPage

	entries, err := s.ledgerRepo.GetByApartmentID(ctx, apartmentID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.ledgerRepo.CountByApartmentID(ctx, apartmentID)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
