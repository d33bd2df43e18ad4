// Package billing implements the invoice/ledger engine: price resolution for
// service charges, consumption-based utility bills, per-apartment per-currency
// ledger aggregation, renter attribution and period rollups. Everything in
// this package is a pure function over immutable snapshot values; it performs
// no I/O and is safe to call concurrently.
package billing

import (
	"github.com/property-billing-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Money is a currency-keyed bucket. Both buckets are always present and
// default to zero; amounts in different currencies are never summed together.
// Money is a value type - all operations return a new Money.
type Money struct {
	EGP decimal.Decimal `json:"EGP"`
	GBP decimal.Decimal `json:"GBP"`
}

// Get returns the bucket for the given currency
func (m Money) Get(c shared.Currency) decimal.Decimal {
	if c == shared.CurrencyGBP {
		return m.GBP
	}
	return m.EGP
}

// AddAmount returns m with amount added to the bucket for currency c
func (m Money) AddAmount(c shared.Currency, amount decimal.Decimal) Money {
	switch c {
	case shared.CurrencyGBP:
		m.GBP = m.GBP.Add(amount)
	default:
		m.EGP = m.EGP.Add(amount)
	}
	return m
}

// Add returns the per-currency sum of m and other
func (m Money) Add(other Money) Money {
	return Money{
		EGP: m.EGP.Add(other.EGP),
		GBP: m.GBP.Add(other.GBP),
	}
}

// Sub returns the per-currency difference m - other. Negative buckets are
// valid results (spent exceeding requested).
func (m Money) Sub(other Money) Money {
	return Money{
		EGP: m.EGP.Sub(other.EGP),
		GBP: m.GBP.Sub(other.GBP),
	}
}

// IsZero reports whether every bucket is zero
func (m Money) IsZero() bool {
	return m.EGP.IsZero() && m.GBP.IsZero()
}

// Totals is the requested/spent/net triple for one scope (an apartment, a
// party within an apartment, a year, or a whole filtered set).
type Totals struct {
	Requested Money `json:"total_requested"`
	Spent     Money `json:"total_spent"`
	Net       Money `json:"net"`
}

// addRequested accumulates a charged amount and keeps Net consistent
func (t Totals) addRequested(c shared.Currency, amount decimal.Decimal) Totals {
	t.Requested = t.Requested.AddAmount(c, amount)
	t.Net = t.Requested.Sub(t.Spent)
	return t
}

// addSpent accumulates a paid amount and keeps Net consistent
func (t Totals) addSpent(c shared.Currency, amount decimal.Decimal) Totals {
	t.Spent = t.Spent.AddAmount(c, amount)
	t.Net = t.Requested.Sub(t.Spent)
	return t
}

// Add returns the per-currency sum of two totals
func (t Totals) Add(other Totals) Totals {
	t.Requested = t.Requested.Add(other.Requested)
	t.Spent = t.Spent.Add(other.Spent)
	t.Net = t.Requested.Sub(t.Spent)
	return t
}
