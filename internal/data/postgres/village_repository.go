// Package postgres provides PostgreSQL implementations of the domain
// repositories. It handles all database operations while maintaining
// transaction safety and proper error handling for the billing ledger.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/property-billing-ledger/internal/domain/property"
	"github.com/property-billing-ledger/internal/platform/persistence"
)

// VillageRepository implements the property.VillageRepository interface for PostgreSQL
type VillageRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewVillageRepository creates a new PostgreSQL village repository
func NewVillageRepository(logger *slog.Logger, db *persistence.PostgresDB) property.VillageRepository {
	return &VillageRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetByID retrieves a village by its ID
func (r *VillageRepository) GetByID(ctx context.Context, id int64) (*property.Village, error) {
	query := `
		SELECT id, name, water_unit_price, electricity_unit_price, pricing_currency, phase_count
		FROM villages
		WHERE id = $1
	`

	var v property.Village
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&v.ID,
		&v.Name,
		&v.WaterUnitPrice,
		&v.ElectricityUnitPrice,
		&v.PricingCurrency,
		&v.PhaseCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, property.ErrVillageNotFound{VillageID: id}
		}
		r.logger.Error("Failed to get village", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get village: %w", err)
	}

	return &v, nil
}

// List retrieves all villages
func (r *VillageRepository) List(ctx context.Context) ([]*property.Village, error) {
	query := `
		SELECT id, name, water_unit_price, electricity_unit_price, pricing_currency, phase_count
		FROM villages
		ORDER BY id
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list villages", "error", err)
		return nil, fmt.Errorf("failed to list villages: %w", err)
	}
	defer rows.Close()

	var villages []*property.Village
	for rows.Next() {
		var v property.Village
		err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.WaterUnitPrice,
			&v.ElectricityUnitPrice,
			&v.PricingCurrency,
			&v.PhaseCount,
		)
		if err != nil {
			r.logger.Error("Failed to scan village", "error", err)
			return nil, fmt.Errorf("failed to scan village: %w", err)
		}
		villages = append(villages, &v)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over villages", "error", err)
		return nil, fmt.Errorf("error iterating over villages: %w", err)
	}

	return villages, nil
}
