package property

import (
	"context"
	"strconv"

	"github.com/property-billing-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// VillagePrice is a per-village price for a service type. A service type's
// list holds at most one entry per village.
type VillagePrice struct {
	VillageID int64           `json:"village_id"`
	Cost      decimal.Decimal `json:"cost"`
	Currency  shared.Currency `json:"currency"`
}

// ServiceType is a catalog entry for chargeable services. The flat
// Cost/Currency pair is the legacy pre-migration pricing schema and is only
// consulted when the village price list is empty.
type ServiceType struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Cost          *decimal.Decimal `json:"cost,omitempty"`
	Currency      *shared.Currency `json:"currency,omitempty"`
	VillagePrices []VillagePrice   `json:"village_prices"`
}

// PriceForVillage returns the exact per-village price, if one is listed
func (s ServiceType) PriceForVillage(villageID int64) (VillagePrice, bool) {
	for _, vp := range s.VillagePrices {
		if vp.VillageID == villageID {
			return vp, true
		}
	}
	return VillagePrice{}, false
}

// ServiceTypeRepository defines service type catalog persistence operations
type ServiceTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*ServiceType, error)
	List(ctx context.Context) ([]*ServiceType, error)
}

// ErrServiceTypeNotFound indicates missing service type
type ErrServiceTypeNotFound struct {
	ServiceTypeID int64
}

func (e ErrServiceTypeNotFound) Error() string {
	return "service type not found: " + strconv.FormatInt(e.ServiceTypeID, 10)
}

// Is implements the errors.Is interface for ErrServiceTypeNotFound
func (e ErrServiceTypeNotFound) Is(target error) bool {
	t, ok := target.(ErrServiceTypeNotFound)
	if !ok {
		return false
	}
	return t.ServiceTypeID == 0 || t.ServiceTypeID == e.ServiceTypeID
}
