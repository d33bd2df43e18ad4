package shared

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRecordKind = errors.New("invalid record kind")
	ErrInvalidCurrency   = errors.New("invalid currency")
	ErrInvalidParty      = errors.New("invalid responsible party")
)

// RecordRequest defines a Kafka message carrying one raw billing record for
// ingestion. Exactly one of the payload fields matching Kind is populated.
type RecordRequest struct {
	RecordID      uuid.UUID             `json:"record_id"`
	Kind          RecordKind            `json:"kind"`
	ApartmentID   int64                 `json:"apartment_id"`
	BookingID     *int64                `json:"booking_id,omitempty"`
	Payment       *PaymentPayload       `json:"payment,omitempty"`
	ServiceCharge *ServiceChargePayload `json:"service_charge,omitempty"`
	MeterReading  *MeterReadingPayload  `json:"meter_reading,omitempty"`
	CorrelationID string                `json:"correlation_id"`
	Timestamp     time.Time             `json:"timestamp"`
}

// PaymentPayload carries money actually paid for an apartment
type PaymentPayload struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
	UserType Party           `json:"user_type"`
	Date     time.Time       `json:"date"`
}

// ServiceChargePayload carries a service-request charge. Cost and Currency are
// optional; when absent the price is resolved from the service type catalog.
type ServiceChargePayload struct {
	ServiceTypeID int64            `json:"service_type_id"`
	WhoPays       Party            `json:"who_pays"`
	Cost          *decimal.Decimal `json:"cost,omitempty"`
	Currency      *Currency        `json:"currency,omitempty"`
	DateCreated   time.Time        `json:"date_created"`
}

// MeterReadingPayload carries a pair of utility meter readings for a period.
// Any of the four meter values may be absent; an incomplete pair is a normal
// pending state, not an error.
type MeterReadingPayload struct {
	WaterStart       *decimal.Decimal `json:"water_start,omitempty"`
	WaterEnd         *decimal.Decimal `json:"water_end,omitempty"`
	ElectricityStart *decimal.Decimal `json:"electricity_start,omitempty"`
	ElectricityEnd   *decimal.Decimal `json:"electricity_end,omitempty"`
	WhoPays          Party            `json:"who_pays"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
}
