package billing

import (
	"time"

	"github.com/property-billing-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LedgerEntry is one derived line item of an apartment ledger. Entries are
// computed on demand from raw records and are not owned state; they carry
// enough provenance (source kind, record id, description, date) to render an
// audit trail.
type LedgerEntry struct {
	ApartmentID     int64             `json:"apartment_id"`
	BookingID       *int64            `json:"booking_id,omitempty"`
	Source          shared.SourceKind `json:"source_kind"`
	SourceID        int64             `json:"source_id"`
	Party           shared.Party      `json:"responsible_party"`
	Amount          decimal.Decimal   `json:"amount"`
	Currency        shared.Currency   `json:"currency"`
	Consumption     *decimal.Decimal  `json:"consumption,omitempty"`
	Date            time.Time         `json:"date"`
	Description     string            `json:"description"`
	FallbackPricing bool              `json:"fallback_pricing,omitempty"`
}

// IsSpend reports whether the entry is money spent (a payment) as opposed to
// money requested (a charge)
func (e LedgerEntry) IsSpend() bool {
	return e.Source == shared.SourcePayment
}

// Year returns the year of the entry's recognition date
func (e LedgerEntry) Year() int {
	return e.Date.Year()
}
