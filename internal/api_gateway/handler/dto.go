package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmitRecordRequest represents a request to submit a billing record for
// ingestion. Exactly one of the payload fields matching Kind must be set.
type SubmitRecordRequest struct {
	Kind          string                 `json:"kind" binding:"required,oneof=PAYMENT SERVICE_REQUEST UTILITY_READING"`
	ApartmentID   int64                  `json:"apartment_id" binding:"required,gt=0"`
	BookingID     *int64                 `json:"booking_id,omitempty"`
	Payment       *PaymentPayloadRequest `json:"payment,omitempty"`
	ServiceCharge *ServiceChargeRequest  `json:"service_charge,omitempty"`
	MeterReading  *MeterReadingRequest   `json:"meter_reading,omitempty"`
}

// PaymentPayloadRequest carries money paid for an apartment
type PaymentPayloadRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"required,oneof=EGP GBP"`
	UserType string          `json:"user_type" binding:"required,oneof=owner renter company"`
	Date     time.Time       `json:"date" binding:"required"`
}

// ServiceChargeRequest carries a service charge; cost and currency are
// optional overrides of the catalog price
type ServiceChargeRequest struct {
	ServiceTypeID int64            `json:"service_type_id" binding:"required,gt=0"`
	WhoPays       string           `json:"who_pays" binding:"required,oneof=owner renter company"`
	Cost          *decimal.Decimal `json:"cost,omitempty"`
	Currency      *string          `json:"currency,omitempty" binding:"omitempty,oneof=EGP GBP"`
	DateCreated   time.Time        `json:"date_created" binding:"required"`
}

// MeterReadingRequest carries a pair of utility meter readings for a period.
// Any meter value may be absent; an incomplete pair is accepted as pending.
type MeterReadingRequest struct {
	WaterStart       *decimal.Decimal `json:"water_start,omitempty"`
	WaterEnd         *decimal.Decimal `json:"water_end,omitempty"`
	ElectricityStart *decimal.Decimal `json:"electricity_start,omitempty"`
	ElectricityEnd   *decimal.Decimal `json:"electricity_end,omitempty"`
	WhoPays          string           `json:"who_pays" binding:"required,oneof=owner renter company"`
	StartDate        time.Time        `json:"start_date" binding:"required"`
	EndDate          time.Time        `json:"end_date" binding:"required"`
}

// AuditEntryResponse represents a derived audit ledger entry in API responses
type AuditEntryResponse struct {
	RecordID      string                `json:"record_id"`
	ApartmentID   int64                 `json:"apartment_id"`
	BookingID     *int64                `json:"booking_id,omitempty"`
	Kind          string                `json:"kind"`
	Party         string                `json:"party"`
	Amount        *string               `json:"amount,omitempty"`
	Currency      *string               `json:"currency,omitempty"`
	UtilityBills  []UtilityBillResponse `json:"utility_bills,omitempty"`
	Status        string                `json:"status"`
	FailureReason string                `json:"failure_reason,omitempty"`
	CreatedAt     string                `json:"created_at"`
	ProcessedAt   string                `json:"processed_at,omitempty"`
}

// UtilityBillResponse is one utility's share of a meter-reading audit entry
type UtilityBillResponse struct {
	Utility     string `json:"utility"`
	Consumption string `json:"consumption"`
	Cost        string `json:"cost"`
}

// BillingFilterParams represents the query filters accepted by the billing
// report endpoints. The date range applies to each record's recognition date.
type BillingFilterParams struct {
	VillageID *int64     `form:"village_id" binding:"omitempty,gt=0"`
	UserType  *string    `form:"user_type" binding:"omitempty,oneof=owner renter company"`
	Year      *int       `form:"year" binding:"omitempty,gt=0"`
	DateFrom  *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo    *time.Time `form:"date_to" time_format:"2006-01-02"`
}

// RollupParams extends the billing filters with the optional carry-forward
// boundary year
type RollupParams struct {
	BillingFilterParams
	BeforeYear *int `form:"before_year" binding:"omitempty,gt=0"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
