// Package property holds the master data the billing engine is computed
// against: villages with their utility unit prices, apartments, bookings and
// the service type catalog. All values are read-only snapshots for the engine.
package property

import (
	"context"
	"strconv"

	"github.com/property-billing-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Village carries the per-village utility pricing context. Water and
// electricity bills are priced in the village's single pricing currency.
type Village struct {
	ID                   int64           `json:"id"`
	Name                 string          `json:"name"`
	WaterUnitPrice       decimal.Decimal `json:"water_unit_price"`
	ElectricityUnitPrice decimal.Decimal `json:"electricity_unit_price"`
	PricingCurrency      shared.Currency `json:"pricing_currency"`
	PhaseCount           int             `json:"phase_count"`
}

// UnitPrice returns the per-unit price for the given utility kind
func (v Village) UnitPrice(kind shared.UtilityKind) decimal.Decimal {
	if kind == shared.UtilityElectricity {
		return v.ElectricityUnitPrice
	}
	return v.WaterUnitPrice
}

// VillageRepository defines village persistence operations
type VillageRepository interface {
	GetByID(ctx context.Context, id int64) (*Village, error)
	List(ctx context.Context) ([]*Village, error)
}

// ErrVillageNotFound indicates missing village
type ErrVillageNotFound struct {
	VillageID int64
}

func (e ErrVillageNotFound) Error() string {
	return "village not found: " + strconv.FormatInt(e.VillageID, 10)
}

// Is implements the errors.Is interface for ErrVillageNotFound
func (e ErrVillageNotFound) Is(target error) bool {
	t, ok := target.(ErrVillageNotFound)
	if !ok {
		return false
	}
	return t.VillageID == 0 || t.VillageID == e.VillageID
}
