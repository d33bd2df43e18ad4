package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/property-billing-ledger/internal/domain/shared"
)

// Repository manages audit entry persistence with pagination support
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByRecordID(ctx context.Context, recordID uuid.UUID) (*Entry, error)
	GetByApartmentID(ctx context.Context, apartmentID int64, limit, offset int) ([]*Entry, error)
	CountByApartmentID(ctx context.Context, apartmentID int64) (int64, error)
	UpdateStatus(ctx context.Context, recordID uuid.UUID, status shared.EntryStatus, reason string) error
	GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*Entry, error)
}

// ErrEntryNotFound indicates missing audit entry
type ErrEntryNotFound struct {
	RecordID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "audit entry not found: " + e.RecordID.String()
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	// An empty target RecordID matches any ErrEntryNotFound
	if t.RecordID == uuid.Nil {
		return true
	}
	return e.RecordID == t.RecordID
}

// ErrDuplicateEntry indicates record uniqueness violation
type ErrDuplicateEntry struct {
	RecordID uuid.UUID
}

func (e ErrDuplicateEntry) Error() string {
	return "duplicate audit entry: " + e.RecordID.String()
}

// Is implements the errors.Is interface for ErrDuplicateEntry
func (e ErrDuplicateEntry) Is(target error) bool {
	t, ok := target.(ErrDuplicateEntry)
	if !ok {
		return false
	}
	if t.RecordID == uuid.Nil {
		return true
	}
	return e.RecordID == t.RecordID
}
