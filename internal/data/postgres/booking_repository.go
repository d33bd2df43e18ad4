package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/property-billing-ledger/internal/domain/property"
	"github.com/property-billing-ledger/internal/platform/persistence"
)

// BookingRepository implements the property.BookingRepository interface for PostgreSQL
type BookingRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewBookingRepository creates a new PostgreSQL booking repository
func NewBookingRepository(logger *slog.Logger, db *persistence.PostgresDB) property.BookingRepository {
	return &BookingRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetByApartmentID retrieves every booking for one apartment
func (r *BookingRepository) GetByApartmentID(ctx context.Context, apartmentID int64) ([]*property.Booking, error) {
	query := `
		SELECT id, apartment_id, user_id, user_type, arrival_date, leaving_date
		FROM bookings
		WHERE apartment_id = $1
		ORDER BY arrival_date, id
	`

	rows, err := r.querier.Query(ctx, query, apartmentID)
	if err != nil {
		r.logger.Error("Failed to get bookings by apartment", "apartment_id", apartmentID, "error", err)
		return nil, fmt.Errorf("failed to get bookings by apartment: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// List retrieves bookings, optionally restricted to apartments of one village
func (r *BookingRepository) List(ctx context.Context, villageID *int64) ([]*property.Booking, error) {
	query := `
		SELECT b.id, b.apartment_id, b.user_id, b.user_type, b.arrival_date, b.leaving_date
		FROM bookings b
		JOIN apartments a ON a.id = b.apartment_id
		WHERE ($1::bigint IS NULL OR a.village_id = $1)
		ORDER BY b.apartment_id, b.arrival_date, b.id
	`

	rows, err := r.querier.Query(ctx, query, villageID)
	if err != nil {
		r.logger.Error("Failed to list bookings", "error", err)
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func scanBookings(rows pgx.Rows) ([]*property.Booking, error) {
	var bookings []*property.Booking
	for rows.Next() {
		var b property.Booking
		err := rows.Scan(
			&b.ID,
			&b.ApartmentID,
			&b.UserID,
			&b.UserType,
			&b.ArrivalDate,
			&b.LeavingDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over bookings: %w", err)
	}

	return bookings, nil
}
