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

// ServiceTypeRepository implements the property.ServiceTypeRepository interface for PostgreSQL
type ServiceTypeRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewServiceTypeRepository creates a new PostgreSQL service type repository
func NewServiceTypeRepository(logger *slog.Logger, db *persistence.PostgresDB) property.ServiceTypeRepository {
	return &ServiceTypeRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetByID retrieves a service type with its village price list
func (r *ServiceTypeRepository) GetByID(ctx context.Context, id int64) (*property.ServiceType, error) {
	query := `
		SELECT id, name, cost, currency
		FROM service_types
		WHERE id = $1
	`

	var st property.ServiceType
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&st.ID,
		&st.Name,
		&st.Cost,
		&st.Currency,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, property.ErrServiceTypeNotFound{ServiceTypeID: id}
		}
		r.logger.Error("Failed to get service type", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get service type: %w", err)
	}

	prices, err := r.villagePrices(ctx, id)
	if err != nil {
		return nil, err
	}
	st.VillagePrices = prices

	return &st, nil
}

// List retrieves every service type with its village price list
func (r *ServiceTypeRepository) List(ctx context.Context) ([]*property.ServiceType, error) {
	query := `
		SELECT id, name, cost, currency
		FROM service_types
		ORDER BY id
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list service types", "error", err)
		return nil, fmt.Errorf("failed to list service types: %w", err)
	}

	var types []*property.ServiceType
	byID := make(map[int64]*property.ServiceType)
	for rows.Next() {
		var st property.ServiceType
		err := rows.Scan(&st.ID, &st.Name, &st.Cost, &st.Currency)
		if err != nil {
			rows.Close()
			r.logger.Error("Failed to scan service type", "error", err)
			return nil, fmt.Errorf("failed to scan service type: %w", err)
		}
		types = append(types, &st)
		byID[st.ID] = &st
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over service types", "error", err)
		return nil, fmt.Errorf("error iterating over service types: %w", err)
	}

	priceQuery := `
		SELECT service_type_id, village_id, cost, currency
		FROM village_prices
		ORDER BY service_type_id, id
	`

	priceRows, err := r.querier.Query(ctx, priceQuery)
	if err != nil {
		r.logger.Error("Failed to list village prices", "error", err)
		return nil, fmt.Errorf("failed to list village prices: %w", err)
	}
	defer priceRows.Close()

	for priceRows.Next() {
		var serviceTypeID int64
		var vp property.VillagePrice
		err := priceRows.Scan(&serviceTypeID, &vp.VillageID, &vp.Cost, &vp.Currency)
		if err != nil {
			r.logger.Error("Failed to scan village price", "error", err)
			return nil, fmt.Errorf("failed to scan village price: %w", err)
		}
		if st, ok := byID[serviceTypeID]; ok {
			st.VillagePrices = append(st.VillagePrices, vp)
		}
	}

	if err := priceRows.Err(); err != nil {
		r.logger.Error("Error iterating over village prices", "error", err)
		return nil, fmt.Errorf("error iterating over village prices: %w", err)
	}

	return types, nil
}

func (r *ServiceTypeRepository) villagePrices(ctx context.Context, serviceTypeID int64) ([]property.VillagePrice, error) {
	query := `
		SELECT village_id, cost, currency
		FROM village_prices
		WHERE service_type_id = $1
		ORDER BY id
	`

	rows, err := r.querier.Query(ctx, query, serviceTypeID)
	if err != nil {
		r.logger.Error("Failed to get village prices", "service_type_id", serviceTypeID, "error", err)
		return nil, fmt.Errorf("failed to get village prices: %w", err)
	}
	defer rows.Close()

	var prices []property.VillagePrice
	for rows.Next() {
		var vp property.VillagePrice
		if err := rows.Scan(&vp.VillageID, &vp.Cost, &vp.Currency); err != nil {
			r.logger.Error("Failed to scan village price", "error", err)
			return nil, fmt.Errorf("failed to scan village price: %w", err)
		}
		prices = append(prices, vp)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over village prices", "error", err)
		return nil, fmt.Errorf("error iterating over village prices: %w", err)
	}

	return prices, nil
}
