package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/property-billing-ledger/internal/domain/billing"
	"github.com/property-billing-ledger/internal/platform/persistence"
)

// ServiceRequestRepository implements the billing.ServiceRequestRepository interface for PostgreSQL
type ServiceRequestRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewServiceRequestRepository creates a new PostgreSQL service request repository
func NewServiceRequestRepository(logger *slog.Logger, db *persistence.PostgresDB) billing.ServiceRequestRepository {
	return &ServiceRequestRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *ServiceRequestRepository) WithTx(tx pgx.Tx) billing.ServiceRequestRepository {
	return &ServiceRequestRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new service request
func (r *ServiceRequestRepository) Create(ctx context.Context, sr *billing.ServiceRequest) error {
	query := `
		INSERT INTO service_requests (type_id, apartment_id, booking_id, who_pays, cost, currency, date_created)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		sr.TypeID,
		sr.ApartmentID,
		sr.BookingID,
		sr.WhoPays,
		sr.Cost,
		sr.Currency,
		sr.DateCreated,
	).Scan(&sr.ID)
	if err != nil {
		r.logger.Error("Failed to create service request", "apartment_id", sr.ApartmentID, "error", err)
		return fmt.Errorf("failed to create service request: %w", err)
	}

	return nil
}

// List retrieves service requests, optionally restricted to apartments of one village
func (r *ServiceRequestRepository) List(ctx context.Context, villageID *int64) ([]*billing.ServiceRequest, error) {
	query := `
		SELECT sr.id, sr.type_id, sr.apartment_id, sr.booking_id, sr.who_pays, sr.cost, sr.currency, sr.date_created
		FROM service_requests sr
		JOIN apartments a ON a.id = sr.apartment_id
		WHERE ($1::bigint IS NULL OR a.village_id = $1)
		ORDER BY sr.date_created, sr.id
	`

	rows, err := r.querier.Query(ctx, query, villageID)
	if err != nil {
		r.logger.Error("Failed to list service requests", "error", err)
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}
	defer rows.Close()

	var requests []*billing.ServiceRequest
	for rows.Next() {
		var sr billing.ServiceRequest
		err := rows.Scan(
			&sr.ID,
			&sr.TypeID,
			&sr.ApartmentID,
			&sr.BookingID,
			&sr.WhoPays,
			&sr.Cost,
			&sr.Currency,
			&sr.DateCreated,
		)
		if err != nil {
			r.logger.Error("Failed to scan service request", "error", err)
			return nil, fmt.Errorf("failed to scan service request: %w", err)
		}
		requests = append(requests, &sr)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over service requests", "error", err)
		return nil, fmt.Errorf("error iterating over service requests: %w", err)
	}

	return requests, nil
}
