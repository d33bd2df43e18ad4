package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/property-billing-ledger/internal/domain/billing"
	"github.com/property-billing-ledger/internal/platform/persistence"
)

// PaymentRepository implements the billing.PaymentRepository interface for PostgreSQL
type PaymentRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewPaymentRepository creates a new PostgreSQL payment repository
func NewPaymentRepository(logger *slog.Logger, db *persistence.PostgresDB) billing.PaymentRepository {
	return &PaymentRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *PaymentRepository) WithTx(tx pgx.Tx) billing.PaymentRepository {
	return &PaymentRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new payment
func (r *PaymentRepository) Create(ctx context.Context, p *billing.Payment) error {
	query := `
		INSERT INTO payments (apartment_id, booking_id, amount, currency, user_type, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		p.ApartmentID,
		p.BookingID,
		p.Amount,
		p.Currency,
		p.UserType,
		p.Date,
	).Scan(&p.ID)
	if err != nil {
		r.logger.Error("Failed to create payment", "apartment_id", p.ApartmentID, "error", err)
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// List retrieves payments, optionally restricted to apartments of one village
func (r *PaymentRepository) List(ctx context.Context, villageID *int64) ([]*billing.Payment, error) {
	query := `
		SELECT p.id, p.apartment_id, p.booking_id, p.amount, p.currency, p.user_type, p.date
		FROM payments p
		JOIN apartments a ON a.id = p.apartment_id
		WHERE ($1::bigint IS NULL OR a.village_id = $1)
		ORDER BY p.date, p.id
	`

	rows, err := r.querier.Query(ctx, query, villageID)
	if err != nil {
		r.logger.Error("Failed to list payments", "error", err)
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*billing.Payment
	for rows.Next() {
		var p billing.Payment
		err := rows.Scan(
			&p.ID,
			&p.ApartmentID,
			&p.BookingID,
			&p.Amount,
			&p.Currency,
			&p.UserType,
			&p.Date,
		)
		if err != nil {
			r.logger.Error("Failed to scan payment", "error", err)
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, &p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over payments", "error", err)
		return nil, fmt.Errorf("error iterating over payments: %w", err)
	}

	return payments, nil
}
