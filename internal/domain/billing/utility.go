package billing

import (
	"errors"

	"github.com/property-billing-ledger/internal/domain/property"
	"github.com/property-billing-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	// ErrIncompleteReading means one of the reading pair is missing or the end
	// value has not advanced past the start. This is an expected steady state
	// ("pending"), not a fault; the reading contributes nothing to totals.
	ErrIncompleteReading = errors.New("incomplete utility reading")

	// ErrNegativeReading means a meter value is negative. Meters only count up,
	// so this indicates a caller or data-layer bug.
	ErrNegativeReading = errors.New("negative meter reading")

	// ErrNegativeUnitPrice means the village carries a negative unit price
	ErrNegativeUnitPrice = errors.New("negative utility unit price")
)

// UtilityBill is the consumption and money amount derived from one reading
// pair for one utility kind.
type UtilityBill struct {
	Kind        shared.UtilityKind `json:"kind"`
	Consumption decimal.Decimal    `json:"consumption"`
	Cost        decimal.Decimal    `json:"cost"`
	Currency    shared.Currency    `json:"currency"`
}

// CalculateUtilityBill converts a pair of meter readings into a bill for one
// utility kind, priced with the village's per-unit price in the village's
// pricing currency. Consumption must be strictly positive; the cost is
// rounded half-up to 2 decimal places exactly once, after the multiplication.
func CalculateUtilityBill(kind shared.UtilityKind, start, end *decimal.Decimal, village property.Village) (UtilityBill, error) {
	if (start != nil && start.IsNegative()) || (end != nil && end.IsNegative()) {
		return UtilityBill{}, ErrNegativeReading
	}
	if start == nil || end == nil {
		return UtilityBill{}, ErrIncompleteReading
	}
	if end.LessThanOrEqual(*start) {
		return UtilityBill{}, ErrIncompleteReading
	}

	unitPrice := village.UnitPrice(kind)
	if unitPrice.IsNegative() {
		return UtilityBill{}, ErrNegativeUnitPrice
	}

	consumption := end.Sub(*start)
	return UtilityBill{
		Kind:        kind,
		Consumption: consumption,
		Cost:        consumption.Mul(unitPrice).Round(2),
		Currency:    village.PricingCurrency,
	}, nil
}
