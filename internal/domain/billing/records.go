package billing

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/property-billing-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Payment is money actually paid for an apartment ("money spent"). UserType
// records whether the owner or the renter paid; it selects the sub-bucket the
// amount is attributed to but never changes the apartment-level spent total.
type Payment struct {
	ID          int64           `json:"id"`
	ApartmentID int64           `json:"apartment_id"`
	BookingID   *int64          `json:"booking_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    shared.Currency `json:"currency"`
	UserType    shared.Party    `json:"user_type"`
	Date        time.Time       `json:"date"`
}

// ServiceRequest is money owed for a service ("money requested"). Cost and
// Currency are optional overrides; when absent the price is resolved from the
// service type catalog.
type ServiceRequest struct {
	ID          int64            `json:"id"`
	TypeID      int64            `json:"type_id"`
	ApartmentID int64            `json:"apartment_id"`
	BookingID   *int64           `json:"booking_id,omitempty"`
	WhoPays     shared.Party     `json:"who_pays"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	Currency    *shared.Currency `json:"currency,omitempty"`
	DateCreated time.Time        `json:"date_created"`
}

// UtilityReading is a pair of meter readings for a period. A reading
// contributes a bill for a utility kind only when both values of that kind
// are present and the end value exceeds the start value; otherwise it is
// incomplete and contributes nothing. The bill's recognition date is EndDate.
type UtilityReading struct {
	ID               int64            `json:"id"`
	ApartmentID      int64            `json:"apartment_id"`
	BookingID        *int64           `json:"booking_id,omitempty"`
	WaterStart       *decimal.Decimal `json:"water_start,omitempty"`
	WaterEnd         *decimal.Decimal `json:"water_end,omitempty"`
	ElectricityStart *decimal.Decimal `json:"electricity_start,omitempty"`
	ElectricityEnd   *decimal.Decimal `json:"electricity_end,omitempty"`
	WhoPays          shared.Party     `json:"who_pays"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
}

// Pair returns the start/end meter values for the given utility kind
func (r UtilityReading) Pair(kind shared.UtilityKind) (start, end *decimal.Decimal) {
	if kind == shared.UtilityElectricity {
		return r.ElectricityStart, r.ElectricityEnd
	}
	return r.WaterStart, r.WaterEnd
}

// HasValues reports whether the reading carries any meter value for the kind
func (r UtilityReading) HasValues(kind shared.UtilityKind) bool {
	start, end := r.Pair(kind)
	return start != nil || end != nil
}

// PaymentRepository defines payment persistence operations
type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	List(ctx context.Context, villageID *int64) ([]*Payment, error)
	WithTx(tx pgx.Tx) PaymentRepository
}

// ServiceRequestRepository defines service request persistence operations
type ServiceRequestRepository interface {
	Create(ctx context.Context, sr *ServiceRequest) error
	List(ctx context.Context, villageID *int64) ([]*ServiceRequest, error)
	WithTx(tx pgx.Tx) ServiceRequestRepository
}

// UtilityReadingRepository defines utility reading persistence operations
type UtilityReadingRepository interface {
	Create(ctx context.Context, r *UtilityReading) error
	List(ctx context.Context, villageID *int64) ([]*UtilityReading, error)
	WithTx(tx pgx.Tx) UtilityReadingRepository
}
