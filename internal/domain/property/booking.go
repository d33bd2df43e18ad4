package property

import (
	"context"
	"time"

	"github.com/property-billing-ledger/internal/domain/shared"
)

// Booking is a stay of an owner or renter in an apartment. Renter bookings
// drive renter attribution of ledger entries.
type Booking struct {
	ID          int64        `json:"id"`
	ApartmentID int64        `json:"apartment_id"`
	UserID      int64        `json:"user_id"`
	UserType    shared.Party `json:"user_type"`
	ArrivalDate time.Time    `json:"arrival_date"`
	LeavingDate time.Time    `json:"leaving_date"`
}

// Overlaps reports whether the booking's stay covers the given instant
func (b Booking) Overlaps(at time.Time) bool {
	return !at.Before(b.ArrivalDate) && !at.After(b.LeavingDate)
}

// BookingRepository defines booking persistence operations
type BookingRepository interface {
	GetByApartmentID(ctx context.Context, apartmentID int64) ([]*Booking, error)
	List(ctx context.Context, villageID *int64) ([]*Booking, error)
}
