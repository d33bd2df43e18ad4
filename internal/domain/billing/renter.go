package billing

import (
	"time"

	"github.com/property-billing-ledger/internal/domain/property"
	"github.com/property-billing-ledger/internal/domain/shared"
)

// RenterSummary is the slice of an apartment ledger belonging to the current
// renter booking, separated from owner/company totals.
type RenterSummary struct {
	Booking property.Booking `json:"booking"`
	Totals  Totals           `json:"totals"`
	Entries []LedgerEntry    `json:"entries"`
}

// CurrentRenterBooking selects the renter booking an apartment's renter
// figures should be attributed to:
//  1. among renter bookings overlapping now, the one with the latest arrival;
//  2. otherwise the most recent past booking (latest leaving date);
//  3. otherwise the next upcoming booking (earliest arrival).
//
// Ties are broken by the higher booking ID. Returns false only when the
// apartment has no renter bookings at all.
func CurrentRenterBooking(bookings []property.Booking, now time.Time) (property.Booking, bool) {
	var current, past, upcoming *property.Booking

	for i := range bookings {
		b := bookings[i]
		if b.UserType != shared.PartyRenter {
			continue
		}

		switch {
		case b.Overlaps(now):
			if current == nil ||
				b.ArrivalDate.After(current.ArrivalDate) ||
				(b.ArrivalDate.Equal(current.ArrivalDate) && b.ID > current.ID) {
				current = &bookings[i]
			}
		case b.LeavingDate.Before(now):
			if past == nil ||
				b.LeavingDate.After(past.LeavingDate) ||
				(b.LeavingDate.Equal(past.LeavingDate) && b.ID > past.ID) {
				past = &bookings[i]
			}
		default:
			if upcoming == nil ||
				b.ArrivalDate.Before(upcoming.ArrivalDate) ||
				(b.ArrivalDate.Equal(upcoming.ArrivalDate) && b.ID > upcoming.ID) {
				upcoming = &bookings[i]
			}
		}
	}

	switch {
	case current != nil:
		return *current, true
	case past != nil:
		return *past, true
	case upcoming != nil:
		return *upcoming, true
	}
	return property.Booking{}, false
}

// RenterLedgerSummary recomputes totals restricted to the current renter
// booking's entries. The booking list may span a whole village; only the
// apartment's own bookings participate in the selection. Entries without a
// booking id still count when they are renter-attributed, since older records
// were booked against the apartment only. Returns false when the apartment
// has no renter bookings.
func RenterLedgerSummary(apartmentID int64, bookings []property.Booking, entries []LedgerEntry, now time.Time) (*RenterSummary, bool) {
	var own []property.Booking
	for _, b := range bookings {
		if b.ApartmentID == apartmentID {
			own = append(own, b)
		}
	}

	booking, ok := CurrentRenterBooking(own, now)
	if !ok {
		return nil, false
	}

	summary := &RenterSummary{Booking: booking}
	for _, e := range entries {
		if e.ApartmentID != apartmentID {
			continue
		}

		attributed := false
		if e.BookingID != nil {
			attributed = *e.BookingID == booking.ID
		} else {
			attributed = e.Party == shared.PartyRenter
		}
		if !attributed {
			continue
		}

		summary.Entries = append(summary.Entries, e)
		if e.IsSpend() {
			summary.Totals = summary.Totals.addSpent(e.Currency, e.Amount)
		} else {
			summary.Totals = summary.Totals.addRequested(e.Currency, e.Amount)
		}
	}

	return summary, true
}
