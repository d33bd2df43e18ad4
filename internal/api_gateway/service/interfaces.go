package service

import (
	"context"

	"github.com/property-billing-ledger/internal/domain/billing"
	"github.com/property-billing-ledger/internal/domain/ledger"
	"github.com/property-billing-ledger/internal/domain/property"
	"github.com/property-billing-ledger/internal/domain/shared"
)

// ApartmentLedger is one apartment's slice of a billing report plus, when a
// renter booking exists, the renter-attributed summary.
type ApartmentLedger struct {
	Apartment     property.Apartment              `json:"apartment"`
	Entries       []billing.LedgerEntry           `json:"entries"`
	Totals        billing.Totals                  `json:"totals"`
	ByParty       map[shared.Party]billing.Totals `json:"by_party"`
	Warnings      []billing.Warning               `json:"warnings,omitempty"`
	Pending       []billing.PendingReading        `json:"pending,omitempty"`
	RenterSummary *billing.RenterSummary          `json:"renter_summary,omitempty"`
}

// Rollup is the per-year partition of a filtered ledger with an optional
// carry-forward total for everything before BeforeYear.
type Rollup struct {
	ByYear             map[int]billing.Totals `json:"by_year"`
	BeforeYear         *int                   `json:"before_year,omitempty"`
	PreviousYearsTotal *billing.Totals        `json:"previous_years_total,omitempty"`
}

// BillingQueryService computes billing reports over consistent snapshots.
// Each call fetches all collections once before invoking the engine; the
// engine itself performs no I/O.
type BillingQueryService interface {
	// Overview aggregates the full filtered apartment set
	Overview(ctx context.Context, filter billing.Filter) (*billing.Report, error)

	// ApartmentLedger aggregates one apartment's ledger with renter attribution
	// Returns ErrApartmentNotFound if the apartment doesn't exist
	ApartmentLedger(ctx context.Context, apartmentID int64, filter billing.Filter) (*ApartmentLedger, error)

	// RenterSummary returns the current renter booking's slice of the ledger.
	// The bool is false when the apartment has no renter bookings.
	RenterSummary(ctx context.Context, apartmentID int64) (*billing.RenterSummary, bool, error)

	// Rollup partitions the filtered ledger by year; beforeYear is optional
	Rollup(ctx context.Context, filter billing.Filter, beforeYear *int) (*Rollup, error)

	// GetAuditEntries retrieves paginated derived audit entries for an apartment
	// Returns entries, total count, and any error
	GetAuditEntries(ctx context.Context, apartmentID int64, page, perPage int) ([]*ledger.Entry, int64, error)
}

// RecordService defines the interface for billing record submission
type RecordService interface {
	// SubmitRecord publishes a billing record for async ingestion and returns
	// the generated record ID
	SubmitRecord(ctx context.Context, request *shared.RecordRequest) (string, error)
}
