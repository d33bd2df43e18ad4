package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/property-billing-ledger/internal/domain/billing"
	"github.com/property-billing-ledger/internal/platform/persistence"
)

// UtilityReadingRepository implements the billing.UtilityReadingRepository interface for PostgreSQL
type UtilityReadingRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewUtilityReadingRepository creates a new PostgreSQL utility reading repository
func NewUtilityReadingRepository(logger *slog.Logger, db *persistence.PostgresDB) billing.UtilityReadingRepository {
	return &UtilityReadingRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *UtilityReadingRepository) WithTx(tx pgx.Tx) billing.UtilityReadingRepository {
	return &UtilityReadingRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new utility reading
func (r *UtilityReadingRepository) Create(ctx context.Context, reading *billing.UtilityReading) error {
	query := `
		INSERT INTO utility_readings
			(apartment_id, booking_id, water_start, water_end, electricity_start, electricity_end, who_pays, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		reading.ApartmentID,
		reading.BookingID,
		reading.WaterStart,
		reading.WaterEnd,
		reading.ElectricityStart,
		reading.ElectricityEnd,
		reading.WhoPays,
		reading.StartDate,
		reading.EndDate,
	).Scan(&reading.ID)
	if err != nil {
		r.logger.Error("Failed to create utility reading", "apartment_id", reading.ApartmentID, "error", err)
		return fmt.Errorf("failed to create utility reading: %w", err)
	}

	return nil
}

// List retrieves utility readings, optionally restricted to apartments of one village
func (r *UtilityReadingRepository) List(ctx context.Context, villageID *int64) ([]*billing.UtilityReading, error) {
	query := `
		SELECT ur.id, ur.apartment_id, ur.booking_id, ur.water_start, ur.water_end,
		       ur.electricity_start, ur.electricity_end, ur.who_pays, ur.start_date, ur.end_date
		FROM utility_readings ur
		JOIN apartments a ON a.id = ur.apartment_id
		WHERE ($1::bigint IS NULL OR a.village_id = $1)
		ORDER BY ur.end_date, ur.id
	`

	rows, err := r.querier.Query(ctx, query, villageID)
	if err != nil {
		r.logger.Error("Failed to list utility readings", "error", err)
		return nil, fmt.Errorf("failed to list utility readings: %w", err)
	}
	defer rows.Close()

	var readings []*billing.UtilityReading
	for rows.Next() {
		var ur billing.UtilityReading
		err := rows.Scan(
			&ur.ID,
			&ur.ApartmentID,
			&ur.BookingID,
			&ur.WaterStart,
			&ur.WaterEnd,
			&ur.ElectricityStart,
			&ur.ElectricityEnd,
			&ur.WhoPays,
			&ur.StartDate,
			&ur.EndDate,
		)
		if err != nil {
			r.logger.Error("Failed to scan utility reading", "error", err)
			return nil, fmt.Errorf("failed to scan utility reading: %w", err)
		}
		readings = append(readings, &ur)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over utility readings", "error", err)
		return nil, fmt.Errorf("error iterating over utility readings: %w", err)
	}

	return readings, nil
}
