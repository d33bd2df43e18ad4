package property

import (
	"context"
	"strconv"
)

// Apartment belongs to a village; the village supplies the pricing context
// for the apartment's utility and service charges.
type Apartment struct {
	ID        int64  `json:"id"`
	VillageID int64  `json:"village_id"`
	OwnerID   int64  `json:"owner_id"`
	Name      string `json:"name"`
}

// ApartmentRepository defines apartment persistence operations
type ApartmentRepository interface {
	GetByID(ctx context.Context, id int64) (*Apartment, error)

	// List returns apartments, optionally restricted to one village when
	// villageID is non-nil
	List(ctx context.Context, villageID *int64) ([]*Apartment, error)
}

// ErrApartmentNotFound indicates missing apartment
type ErrApartmentNotFound struct {
	ApartmentID int64
}

func (e ErrApartmentNotFound) Error() string {
	return "apartment not found: " + strconv.FormatInt(e.ApartmentID, 10)
}

// Is implements the errors.Is interface for ErrApartmentNotFound
func (e ErrApartmentNotFound) Is(target error) bool {
	t, ok := target.(ErrApartmentNotFound)
	if !ok {
		return false
	}
	return t.ApartmentID == 0 || t.ApartmentID == e.ApartmentID
}
