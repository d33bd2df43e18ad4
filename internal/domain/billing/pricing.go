package billing

import (
	"errors"

	"github.com/property-billing-ledger/internal/domain/property"
	"github.com/property-billing-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ErrPricingUnavailable means no override, no village price, no fallback and
// no legacy price exists. Callers must surface this distinctly from a zero
// price; it is never silently defaulted.
var ErrPricingUnavailable = errors.New("no price available for service type")

// PriceSource tags which layer of the resolution chain produced a quote
type PriceSource string

const (
	PriceSourceOverride PriceSource = "override"
	PriceSourceVillage  PriceSource = "village"
	// PriceSourceFallback - the first listed village price was used because the
	// apartment's own village has no entry. Not a true match; callers may want
	// to flag it.
	PriceSourceFallback PriceSource = "fallback"
	PriceSourceLegacy   PriceSource = "legacy"
)

// PriceOverride lets a caller force a custom price. It only applies when both
// cost and currency are present.
type PriceOverride struct {
	Cost     *decimal.Decimal `json:"cost,omitempty"`
	Currency *shared.Currency `json:"currency,omitempty"`
}

func (o *PriceOverride) complete() bool {
	return o != nil && o.Cost != nil && o.Currency != nil
}

// PriceQuote is a resolved price with its provenance
type PriceQuote struct {
	Cost     decimal.Decimal `json:"cost"`
	Currency shared.Currency `json:"currency"`
	Source   PriceSource     `json:"source"`
}

// IsFallback reports whether the quote is a first-listed fallback rather than
// an exact village match
func (q PriceQuote) IsFallback() bool {
	return q.Source == PriceSourceFallback
}

// ResolveServicePrice resolves the applicable price for a service type in a
// village. Resolution order, first match wins:
//  1. complete override
//  2. the village's own listed price
//  3. the first listed village price (tagged fallback)
//  4. the legacy flat cost/currency pair
//  5. ErrPricingUnavailable
func ResolveServicePrice(st property.ServiceType, villageID int64, override *PriceOverride) (PriceQuote, error) {
	if override.complete() {
		return PriceQuote{Cost: *override.Cost, Currency: *override.Currency, Source: PriceSourceOverride}, nil
	}

	if vp, ok := st.PriceForVillage(villageID); ok {
		return PriceQuote{Cost: vp.Cost, Currency: vp.Currency, Source: PriceSourceVillage}, nil
	}

	if len(st.VillagePrices) > 0 {
		first := st.VillagePrices[0]
		return PriceQuote{Cost: first.Cost, Currency: first.Currency, Source: PriceSourceFallback}, nil
	}

	if st.Cost != nil && st.Currency != nil {
		return PriceQuote{Cost: *st.Cost, Currency: *st.Currency, Source: PriceSourceLegacy}, nil
	}

	return PriceQuote{}, ErrPricingUnavailable
}
