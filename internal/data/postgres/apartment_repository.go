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

// ApartmentRepository implements the property.ApartmentRepository interface for PostgreSQL
type ApartmentRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewApartmentRepository creates a new PostgreSQL apartment repository
func NewApartmentRepository(logger *slog.Logger, db *persistence.PostgresDB) property.ApartmentRepository {
	return &ApartmentRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetByID retrieves an apartment by its ID
func (r *ApartmentRepository) GetByID(ctx context.Context, id int64) (*property.Apartment, error) {
	query := `
		SELECT id, village_id, owner_id, name
		FROM apartments
		WHERE id = $1
	`

	var a property.Apartment
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.VillageID,
		&a.OwnerID,
		&a.Name,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, property.ErrApartmentNotFound{ApartmentID: id}
		}
		r.logger.Error("Failed to get apartment", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get apartment: %w", err)
	}

	return &a, nil
}

// List retrieves apartments, optionally restricted to one village
func (r *ApartmentRepository) List(ctx context.Context, villageID *int64) ([]*property.Apartment, error) {
	query := `
		SELECT id, village_id, owner_id, name
		FROM apartments
		WHERE ($1::bigint IS NULL OR village_id = $1)
		ORDER BY id
	`

	rows, err := r.querier.Query(ctx, query, villageID)
	if err != nil {
		r.logger.Error("Failed to list apartments", "error", err)
		return nil, fmt.Errorf("failed to list apartments: %w", err)
	}
	defer rows.Close()

	var apartments []*property.Apartment
	for rows.Next() {
		var a property.Apartment
		err := rows.Scan(
			&a.ID,
			&a.VillageID,
			&a.OwnerID,
			&a.Name,
		)
		if err != nil {
			r.logger.Error("Failed to scan apartment", "error", err)
			return nil, fmt.Errorf("failed to scan apartment: %w", err)
		}
		apartments = append(apartments, &a)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over apartments", "error", err)
		return nil, fmt.Errorf("error iterating over apartments: %w", err)
	}

	return apartments, nil
}
