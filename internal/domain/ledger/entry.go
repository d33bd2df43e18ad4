package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/property-billing-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// UtilityBill is one utility's share of a meter-reading entry. Water and
// electricity are billed independently; the entry keeps them apart so the
// audit trail shows which meter produced which cost.
type UtilityBill struct {
	Utility     shared.UtilityKind `json:"utility" bson:"utility"`
	Consumption decimal.Decimal    `json:"consumption" bson:"consumption"`
	Cost        decimal.Decimal    `json:"cost" bson:"cost"`
}

// Entry is the audit trail record written for every billing record that went
// through the processor, successful or not.
type Entry struct {
	RecordID      uuid.UUID          `json:"record_id" bson:"record_id"`
	ApartmentID   int64              `json:"apartment_id" bson:"apartment_id"`
	BookingID     *int64             `json:"booking_id,omitempty" bson:"booking_id,omitempty"`
	Kind          shared.RecordKind  `json:"kind" bson:"kind"`
	Party         shared.Party       `json:"party" bson:"party"`
	Amount        *decimal.Decimal   `json:"amount,omitempty" bson:"amount,omitempty"`
	Currency      *shared.Currency   `json:"currency,omitempty" bson:"currency,omitempty"`
	UtilityBills  []UtilityBill      `json:"utility_bills,omitempty" bson:"utility_bills,omitempty"`
	CorrelationID string             `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	Status        shared.EntryStatus `json:"status" bson:"status"`
	FailureReason string             `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	ProcessedAt   *time.Time         `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
}
