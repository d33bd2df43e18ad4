package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/property-billing-ledger/internal/domain/billing"
	"github.com/property-billing-ledger/internal/domain/ledger"
	"github.com/property-billing-ledger/internal/domain/property"
	"github.com/property-billing-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockApartmentRepo mocks property.ApartmentRepository
type MockApartmentRepo struct {
	mock.Mock
}

func (m *MockApartmentRepo) GetByID(ctx context.Context, id int64) (*property.Apartment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Apartment), args.Error(1)
}

func (m *MockApartmentRepo) List(ctx context.Context, villageID *int64) ([]*property.Apartment, error) {
	args := m.Called(ctx, villageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*property.Apartment), args.Error(1)
}

// MockVillageRepo mocks property.VillageRepository
type MockVillageRepo struct {
	mock.Mock
}

func (m *MockVillageRepo) GetByID(ctx context.Context, id int64) (*property.Village, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Village), args.Error(1)
}

func (m *MockVillageRepo) List(ctx context.Context) ([]*property.Village, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*property.Village), args.Error(1)
}

// MockServiceTypeRepo mocks property.ServiceTypeRepository
type MockServiceTypeRepo struct {
	mock.Mock
}

func (m *MockServiceTypeRepo) GetByID(ctx context.Context, id int64) (*property.ServiceType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.ServiceType), args.Error(1)
}

func (m *MockServiceTypeRepo) List(ctx context.Context) ([]*property.ServiceType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*property.ServiceType), args.Error(1)
}

// MockBookingRepo mocks property.BookingRepository
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) GetByApartmentID(ctx context.Context, apartmentID int64) ([]*property.Booking, error) {
	args := m.Called(ctx, apartmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*property.Booking), args.Error(1)
}

func (m *MockBookingRepo) List(ctx context.Context, villageID *int64) ([]*property.Booking, error) {
	args := m.Called(ctx, villageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*property.Booking), args.Error(1)
}

// MockPaymentRepo mocks billing.PaymentRepository
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *billing.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepo) List(ctx context.Context, villageID *int64) ([]*billing.Payment, error) {
	args := m.Called(ctx, villageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepo) WithTx(tx pgx.Tx) billing.PaymentRepository {
	m.Called(tx)
	return m
}

// MockServiceRequestRepo mocks billing.ServiceRequestRepository
type MockServiceRequestRepo struct {
	mock.Mock
}

func (m *MockServiceRequestRepo) Create(ctx context.Context, sr *billing.ServiceRequest) error {
	args := m.Called(ctx, sr)
	return args.Error(0)
}

func (m *MockServiceRequestRepo) List(ctx context.Context, villageID *int64) ([]*billing.ServiceRequest, error) {
	args := m.Called(ctx, villageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.ServiceRequest), args.Error(1)
}

func (m *MockServiceRequestRepo) WithTx(tx pgx.Tx) billing.ServiceRequestRepository {
	m.Called(tx)
	return m
}

// MockUtilityReadingRepo mocks billing.UtilityReadingRepository
type MockUtilityReadingRepo struct {
	mock.Mock
}

func (m *MockUtilityReadingRepo) Create(ctx context.Context, r *billing.UtilityReading) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockUtilityReadingRepo) List(ctx context.Context, villageID *int64) ([]*billing.UtilityReading, error) {
	args := m.Called(ctx, villageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.UtilityReading), args.Error(1)
}

func (m *MockUtilityReadingRepo) WithTx(tx pgx.Tx) billing.UtilityReadingRepository {
	m.Called(tx)
	return m
}

// MockLedgerRepo mocks ledger.Repository
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Create(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepo) GetByRecordID(ctx context.Context, recordID uuid.UUID) (*ledger.Entry, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepo) GetByApartmentID(ctx context.Context, apartmentID int64, limit, offset int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, apartmentID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepo) CountByApartmentID(ctx context.Context, apartmentID int64) (int64, error) {
	args := m.Called(ctx, apartmentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepo) UpdateStatus(ctx context.Context, recordID uuid.UUID, status shared.EntryStatus, reason string) error {
	args := m.Called(ctx, recordID, status, reason)
	return args.Error(0)
}

func (m *MockLedgerRepo) GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, startTime, endTime, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

type billingServiceMocks struct {
	apartmentRepo      *MockApartmentRepo
	villageRepo        *MockVillageRepo
	serviceTypeRepo    *MockServiceTypeRepo
	bookingRepo        *MockBookingRepo
	paymentRepo        *MockPaymentRepo
	serviceRequestRepo *MockServiceRequestRepo
	utilityReadingRepo *MockUtilityReadingRepo
	ledgerRepo         *MockLedgerRepo
}

func newBillingService() (BillingQueryService, *billingServiceMocks) {
	mocks := &billingServiceMocks{
		apartmentRepo:      &MockApartmentRepo{},
		villageRepo:        &MockVillageRepo{},
		serviceTypeRepo:    &MockServiceTypeRepo{},
		bookingRepo:        &MockBookingRepo{},
		paymentRepo:        &MockPaymentRepo{},
		serviceRequestRepo: &MockServiceRequestRepo{},
		utilityReadingRepo: &MockUtilityReadingRepo{},
		ledgerRepo:         &MockLedgerRepo{},
	}
	svc := NewBillingQueryService(
		slog.Default(),
		mocks.apartmentRepo,
		mocks.villageRepo,
		mocks.serviceTypeRepo,
		mocks.bookingRepo,
		mocks.paymentRepo,
		mocks.serviceRequestRepo,
		mocks.utilityReadingRepo,
		mocks.ledgerRepo,
	)
	return svc, mocks
}

func (m *billingServiceMocks) assertExpectations(t *testing.T) {
	m.apartmentRepo.AssertExpectations(t)
	m.villageRepo.AssertExpectations(t)
	m.serviceTypeRepo.AssertExpectations(t)
	m.bookingRepo.AssertExpectations(t)
	m.paymentRepo.AssertExpectations(t)
	m.serviceRequestRepo.AssertExpectations(t)
	m.utilityReadingRepo.AssertExpectations(t)
	m.ledgerRepo.AssertExpectations(t)
}

// expectSnapshot wires the full snapshot fetch with the given collections
func (m *billingServiceMocks) expectSnapshot(
	villageID *int64,
	apartments []*property.Apartment,
	villages []*property.Village,
	serviceTypes []*property.ServiceType,
	bookings []*property.Booking,
	payments []*billing.Payment,
	serviceRequests []*billing.ServiceRequest,
	readings []*billing.UtilityReading,
) {
	m.apartmentRepo.On("List", mock.Anything, villageID).Return(apartments, nil).Once()
	m.villageRepo.On("List", mock.Anything).Return(villages, nil).Once()
	m.serviceTypeRepo.On("List", mock.Anything).Return(serviceTypes, nil).Once()
	m.bookingRepo.On("List", mock.Anything, villageID).Return(bookings, nil).Once()
	m.paymentRepo.On("List", mock.Anything, villageID).Return(payments, nil).Once()
	m.serviceRequestRepo.On("List", mock.Anything, villageID).Return(serviceRequests, nil).Once()
	m.utilityReadingRepo.On("List", mock.Anything, villageID).Return(readings, nil).Once()
}

func TestBillingQueryService_Overview(t *testing.T) {
	village := &property.Village{
		ID:                   1,
		Name:                 "North Coast",
		WaterUnitPrice:       decimal.RequireFromString("0.75"),
		ElectricityUnitPrice: decimal.RequireFromString("1.5"),
		PricingCurrency:      shared.CurrencyEGP,
		PhaseCount:           2,
	}
	apartment := &property.Apartment{ID: 101, VillageID: 1, OwnerID: 7, Name: "A-101"}

	t.Run("aggregates payments and readings into a report", func(t *testing.T) {
		svc, mocks := newBillingService()

		waterStart := decimal.NewFromInt(100)
		waterEnd := decimal.NewFromInt(150)
		mocks.expectSnapshot(nil,
			[]*property.Apartment{apartment},
			[]*property.Village{village},
			[]*property.ServiceType{},
			[]*property.Booking{},
			[]*billing.Payment{
				{
					ID:          1,
					ApartmentID: 101,
					Amount:      decimal.NewFromInt(500),
					Currency:    shared.CurrencyEGP,
					UserType:    shared.PartyOwner,
					Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
				},
			},
			[]*billing.ServiceRequest{},
			[]*billing.UtilityReading{
				{
					ID:          1,
					ApartmentID: 101,
					WaterStart:  &waterStart,
					WaterEnd:    &waterEnd,
					WhoPays:     shared.PartyOwner,
					StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
					EndDate:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
				},
			},
		)

		report, err := svc.Overview(context.Background(), billing.Filter{})

		assert.NoError(t, err)
		assert.Len(t, report.Entries, 2)
		assert.Len(t, report.Apartments, 1)
		// 50 water units at 0.75 requested, 500 paid
		totals := report.Apartments[101].Totals
		assert.Equal(t, "37.5", totals.Requested.EGP.String())
		assert.Equal(t, "500", totals.Spent.EGP.String())
		mocks.assertExpectations(t)
	})

	t.Run("village filter narrows the fetch", func(t *testing.T) {
		svc, mocks := newBillingService()

		villageID := int64(1)
		mocks.expectSnapshot(&villageID,
			[]*property.Apartment{apartment},
			[]*property.Village{village},
			[]*property.ServiceType{},
			[]*property.Booking{},
			[]*billing.Payment{},
			[]*billing.ServiceRequest{},
			[]*billing.UtilityReading{},
		)

		report, err := svc.Overview(context.Background(), billing.Filter{VillageID: &villageID})

		assert.NoError(t, err)
		assert.Len(t, report.Apartments, 1)
		assert.Empty(t, report.Entries)
		mocks.assertExpectations(t)
	})

	t.Run("snapshot fetch error is propagated", func(t *testing.T) {
		svc, mocks := newBillingService()

		mocks.apartmentRepo.On("List", mock.Anything, (*int64)(nil)).Return(nil, errors.New("db error")).Once()

		report, err := svc.Overview(context.Background(), billing.Filter{})

		assert.Error(t, err)
		assert.Nil(t, report)
		assert.Contains(t, err.Error(), "failed to list apartments")
		mocks.assertExpectations(t)
	})
}

func TestBillingQueryService_ApartmentLedger(t *testing.T) {
	village := &property.Village{
		ID:              1,
		Name:            "North Coast",
		PricingCurrency: shared.CurrencyEGP,
	}
	apartment := &property.Apartment{ID: 101, VillageID: 1, OwnerID: 7, Name: "A-101"}
	neighbour := &property.Apartment{ID: 102, VillageID: 1, OwnerID: 8, Name: "A-102"}
	villageID := int64(1)

	t.Run("returns only the apartment's entries with renter summary", func(t *testing.T) {
		svc, mocks := newBillingService()

		now := time.Now()
		bookingID := int64(55)
		mocks.apartmentRepo.On("GetByID", mock.Anything, int64(101)).Return(apartment, nil).Once()
		mocks.expectSnapshot(&villageID,
			[]*property.Apartment{apartment, neighbour},
			[]*property.Village{village},
			[]*property.ServiceType{},
			[]*property.Booking{
				{
					ID:          55,
					ApartmentID: 101,
					UserID:      9,
					UserType:    shared.PartyRenter,
					ArrivalDate: now.AddDate(0, -1, 0),
					LeavingDate: now.AddDate(0, 1, 0),
				},
			},
			[]*billing.Payment{
				{
					ID:          1,
					ApartmentID: 101,
					BookingID:   &bookingID,
					Amount:      decimal.NewFromInt(300),
					Currency:    shared.CurrencyEGP,
					UserType:    shared.PartyRenter,
					Date:        now.AddDate(0, 0, -5),
				},
				{
					ID:          2,
					ApartmentID: 102,
					Amount:      decimal.NewFromInt(900),
					Currency:    shared.CurrencyEGP,
					UserType:    shared.PartyOwner,
					Date:        now.AddDate(0, 0, -3),
				},
			},
			[]*billing.ServiceRequest{},
			[]*billing.UtilityReading{},
		)

		result, err := svc.ApartmentLedger(context.Background(), 101, billing.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(101), result.Apartment.ID)
		assert.Len(t, result.Entries, 1)
		assert.Equal(t, int64(101), result.Entries[0].ApartmentID)
		assert.Equal(t, "300", result.Totals.Spent.EGP.String())
		assert.NotNil(t, result.RenterSummary)
		mocks.assertExpectations(t)
	})

	t.Run("apartment not found", func(t *testing.T) {
		svc, mocks := newBillingService()

		mocks.apartmentRepo.On("GetByID", mock.Anything, int64(999)).
			Return(nil, property.ErrApartmentNotFound{ApartmentID: 999}).Once()

		result, err := svc.ApartmentLedger(context.Background(), 999, billing.Filter{})

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, property.ErrApartmentNotFound{})
		mocks.assertExpectations(t)
	})
}

func TestBillingQueryService_RenterSummary(t *testing.T) {
	village := &property.Village{ID: 1, Name: "North Coast", PricingCurrency: shared.CurrencyEGP}
	apartment := &property.Apartment{ID: 101, VillageID: 1, OwnerID: 7, Name: "A-101"}
	villageID := int64(1)

	t.Run("no renter bookings", func(t *testing.T) {
		svc, mocks := newBillingService()

		mocks.apartmentRepo.On("GetByID", mock.Anything, int64(101)).Return(apartment, nil).Once()
		mocks.expectSnapshot(&villageID,
			[]*property.Apartment{apartment},
			[]*property.Village{village},
			[]*property.ServiceType{},
			[]*property.Booking{},
			[]*billing.Payment{},
			[]*billing.ServiceRequest{},
			[]*billing.UtilityReading{},
		)

		summary, ok, err := svc.RenterSummary(context.Background(), 101)

		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, summary)
		mocks.assertExpectations(t)
	})
}

func TestBillingQueryService_Rollup(t *testing.T) {
	village := &property.Village{ID: 1, Name: "North Coast", PricingCurrency: shared.CurrencyEGP}
	apartment := &property.Apartment{ID: 101, VillageID: 1, OwnerID: 7, Name: "A-101"}

	t.Run("partitions entries by year with carry-forward", func(t *testing.T) {
		svc, mocks := newBillingService()

		mocks.expectSnapshot(nil,
			[]*property.Apartment{apartment},
			[]*property.Village{village},
			[]*property.ServiceType{},
			[]*property.Booking{},
			[]*billing.Payment{
				{
					ID:          1,
					ApartmentID: 101,
					Amount:      decimal.NewFromInt(100),
					Currency:    shared.CurrencyEGP,
					UserType:    shared.PartyOwner,
					Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				},
				{
					ID:          2,
					ApartmentID: 101,
					Amount:      decimal.NewFromInt(200),
					Currency:    shared.CurrencyEGP,
					UserType:    shared.PartyOwner,
					Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				},
			},
			[]*billing.ServiceRequest{},
			[]*billing.UtilityReading{},
		)

		beforeYear := 2025
		rollup, err := svc.Rollup(context.Background(), billing.Filter{}, &beforeYear)

		assert.NoError(t, err)
		assert.Len(t, rollup.ByYear, 2)
		assert.Equal(t, "100", rollup.ByYear[2024].Spent.EGP.String())
		assert.Equal(t, "200", rollup.ByYear[2025].Spent.EGP.String())
		assert.NotNil(t, rollup.PreviousYearsTotal)
		assert.Equal(t, "100", rollup.PreviousYearsTotal.Spent.EGP.String())
		mocks.assertExpectations(t)
	})

	t.Run("no carry-forward without beforeYear", func(t *testing.T) {
		svc, mocks := newBillingService()

		mocks.expectSnapshot(nil,
			[]*property.Apartment{apartment},
			[]*property.Village{village},
			[]*property.ServiceType{},
			[]*property.Booking{},
			[]*billing.Payment{},
			[]*billing.ServiceRequest{},
			[]*billing.UtilityReading{},
		)

		rollup, err := svc.Rollup(context.Background(), billing.Filter{}, nil)

		assert.NoError(t, err)
		assert.Empty(t, rollup.ByYear)
		assert.Nil(t, rollup.PreviousYearsTotal)
		mocks.assertExpectations(t)
	})
}

func TestBillingQueryService_GetAuditEntries(t *testing.T) {
	t.Run("paginates with offset", func(t *testing.T) {
		svc, mocks := newBillingService()

		entries := []*ledger.Entry{
			{RecordID: uuid.New(), ApartmentID: 101, Kind: shared.RecordKindPayment, Status: shared.EntryStatusRecorded},
		}
		mocks.ledgerRepo.On("GetByApartmentID", mock.Anything, int64(101), 10, 10).Return(entries, nil).Once()
		mocks.ledgerRepo.On("CountByApartmentID", mock.Anything, int64(101)).Return(int64(11), nil).Once()

		result, total, err := svc.GetAuditEntries(context.Background(), 101, 2, 10)

		assert.NoError(t, err)
		assert.Len(t, result, 1)
		assert.Equal(t, int64(11), total)
		mocks.assertExpectations(t)
	})

	t.Run("fetch error", func(t *testing.T) {
		svc, mocks := newBillingService()

		mocks.ledgerRepo.On("GetByApartmentID", mock.Anything, int64(101), 10, 0).Return(nil, errors.New("db error")).Once()

		result, total, err := svc.GetAuditEntries(context.Background(), 101, 1, 10)

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, int64(0), total)
		mocks.assertExpectations(t)
	})
}
