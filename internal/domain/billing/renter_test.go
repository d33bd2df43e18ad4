package billing

import (
	"testing"
	"time"

	"github.com/property-billing-ledger/internal/domain/property"
	"github.com/property-billing-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renterBooking(id, apartmentID int64, arrival, leaving time.Time) property.Booking {
	return property.Booking{
		ID:          id,
		ApartmentID: apartmentID,
		UserID:      100 + id,
		UserType:    shared.PartyRenter,
		ArrivalDate: arrival,
		LeavingDate: leaving,
	}
}

func TestCurrentRenterBooking(t *testing.T) {
	now := date(2024, 6, 15)

	t.Run("ActiveBookingWins", func(t *testing.T) {
		bookings := []property.Booking{
			renterBooking(1, 101, date(2024, 1, 1), date(2024, 2, 1)),
			renterBooking(2, 101, date(2024, 6, 1), date(2024, 7, 1)),
			renterBooking(3, 101, date(2024, 9, 1), date(2024, 10, 1)),
		}

		booking, ok := CurrentRenterBooking(bookings, now)

		require.True(t, ok)
		assert.Equal(t, int64(2), booking.ID)
	})

	t.Run("LatestArrivalAmongOverlapping", func(t *testing.T) {
		bookings := []property.Booking{
			renterBooking(1, 101, date(2024, 5, 1), date(2024, 8, 1)),
			renterBooking(2, 101, date(2024, 6, 1), date(2024, 7, 1)),
		}

		booking, ok := CurrentRenterBooking(bookings, now)

		require.True(t, ok)
		assert.Equal(t, int64(2), booking.ID)
	})

	t.Run("MostRecentPastWhenNothingActive", func(t *testing.T) {
		bookings := []property.Booking{
			renterBooking(1, 101, date(2023, 1, 1), date(2023, 2, 1)),
			renterBooking(2, 101, date(2024, 1, 1), date(2024, 2, 1)),
		}

		booking, ok := CurrentRenterBooking(bookings, now)

		require.True(t, ok)
		assert.Equal(t, int64(2), booking.ID)
	})

	t.Run("NextUpcomingWhenNoPastOrActive", func(t *testing.T) {
		bookings := []property.Booking{
			renterBooking(1, 101, date(2024, 9, 1), date(2024, 10, 1)),
			renterBooking(2, 101, date(2024, 7, 1), date(2024, 8, 1)),
		}

		booking, ok := CurrentRenterBooking(bookings, now)

		require.True(t, ok)
		assert.Equal(t, int64(2), booking.ID)
	})

	t.Run("TieBreaksOnHigherID", func(t *testing.T) {
		bookings := []property.Booking{
			renterBooking(7, 101, date(2024, 6, 1), date(2024, 7, 1)),
			renterBooking(4, 101, date(2024, 6, 1), date(2024, 7, 1)),
		}

		booking, ok := CurrentRenterBooking(bookings, now)

		require.True(t, ok)
		assert.Equal(t, int64(7), booking.ID)
	})

	t.Run("OwnerBookingsAreIgnored", func(t *testing.T) {
		bookings := []property.Booking{
			{ID: 1, ApartmentID: 101, UserType: shared.PartyOwner, ArrivalDate: date(2024, 6, 1), LeavingDate: date(2024, 7, 1)},
		}

		_, ok := CurrentRenterBooking(bookings, now)
		assert.False(t, ok)
	})

	t.Run("NoBookings", func(t *testing.T) {
		_, ok := CurrentRenterBooking(nil, now)
		assert.False(t, ok)
	})
}

func TestRenterLedgerSummary(t *testing.T) {
	now := date(2024, 6, 15)
	bookings := []property.Booking{
		renterBooking(1, 101, date(2024, 1, 1), date(2024, 2, 1)),
		renterBooking(2, 101, date(2024, 6, 1), date(2024, 7, 1)),
	}

	entries := []LedgerEntry{
		// attributed by booking id
		{ApartmentID: 101, BookingID: i64Ptr(2), Source: shared.SourcePayment, SourceID: 1, Party: shared.PartyRenter, Amount: decimal.RequireFromString("300"), Currency: shared.CurrencyEGP, Date: date(2024, 6, 5)},
		// different booking, excluded
		{ApartmentID: 101, BookingID: i64Ptr(1), Source: shared.SourcePayment, SourceID: 2, Party: shared.PartyRenter, Amount: decimal.RequireFromString("999"), Currency: shared.CurrencyEGP, Date: date(2024, 1, 10)},
		// legacy entry with no booking id, renter party: counted
		{ApartmentID: 101, Source: shared.SourceServiceRequest, SourceID: 3, Party: shared.PartyRenter, Amount: decimal.RequireFromString("80"), Currency: shared.CurrencyEGP, Date: date(2024, 6, 8)},
		// no booking id, owner party: excluded
		{ApartmentID: 101, Source: shared.SourcePayment, SourceID: 4, Party: shared.PartyOwner, Amount: decimal.RequireFromString("500"), Currency: shared.CurrencyEGP, Date: date(2024, 6, 9)},
		// another apartment entirely
		{ApartmentID: 102, BookingID: i64Ptr(2), Source: shared.SourcePayment, SourceID: 5, Party: shared.PartyRenter, Amount: decimal.RequireFromString("50"), Currency: shared.CurrencyEGP, Date: date(2024, 6, 10)},
	}

	t.Run("AttributesByBookingWithLegacyFallback", func(t *testing.T) {
		summary, ok := RenterLedgerSummary(101, bookings, entries, now)

		require.True(t, ok)
		assert.Equal(t, int64(2), summary.Booking.ID)
		require.Len(t, summary.Entries, 2)
		assert.Equal(t, int64(1), summary.Entries[0].SourceID)
		assert.Equal(t, int64(3), summary.Entries[1].SourceID)
		assertDecEqual(t, "300", summary.Totals.Spent.EGP)
		assertDecEqual(t, "80", summary.Totals.Requested.EGP)
		assertDecEqual(t, "-220", summary.Totals.Net.EGP)
	})

	t.Run("OtherApartmentsBookingsDoNotMask", func(t *testing.T) {
		// Village-wide booking list: apartment 102's renter arrived later, but
		// apartment 101's own active booking must still be selected.
		villageWide := []property.Booking{
			renterBooking(2, 101, date(2024, 6, 1), date(2024, 7, 1)),
			renterBooking(9, 102, date(2024, 6, 10), date(2024, 7, 10)),
		}

		summary, ok := RenterLedgerSummary(101, villageWide, entries, now)

		require.True(t, ok)
		assert.Equal(t, int64(2), summary.Booking.ID)
		assert.Equal(t, int64(101), summary.Booking.ApartmentID)
		assertDecEqual(t, "300", summary.Totals.Spent.EGP)
	})

	t.Run("NoRenterBookings", func(t *testing.T) {
		owner := []property.Booking{
			{ID: 1, ApartmentID: 101, UserType: shared.PartyOwner, ArrivalDate: date(2024, 6, 1), LeavingDate: date(2024, 7, 1)},
		}

		summary, ok := RenterLedgerSummary(101, owner, entries, now)

		assert.False(t, ok)
		assert.Nil(t, summary)
	})
}
