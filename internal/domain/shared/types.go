package shared

// Currency is a closed two-value set. EGP and GBP amounts are tracked in
// separate buckets and are never summed together.
type Currency string

const (
	CurrencyEGP Currency = "EGP"
	CurrencyGBP Currency = "GBP"
)

// Currencies lists every supported currency, in a stable order
var Currencies = []Currency{CurrencyEGP, CurrencyGBP}

// Valid reports whether c is one of the supported currencies
func (c Currency) Valid() bool {
	return c == CurrencyEGP || c == CurrencyGBP
}

// Party identifies who is financially responsible for a charge or who made a payment
type Party string

const (
	PartyOwner   Party = "owner"
	PartyRenter  Party = "renter"
	PartyCompany Party = "company"
)

// Valid reports whether p is a known responsible party
func (p Party) Valid() bool {
	return p == PartyOwner || p == PartyRenter || p == PartyCompany
}

// UtilityKind identifies a metered utility
type UtilityKind string

const (
	UtilityWater       UtilityKind = "water"
	UtilityElectricity UtilityKind = "electricity"
)

// SourceKind identifies the raw record a derived ledger entry was computed from
type SourceKind string

const (
	SourcePayment            SourceKind = "payment"
	SourceServiceRequest     SourceKind = "service_request"
	SourceUtilityWater       SourceKind = "utility_water"
	SourceUtilityElectricity SourceKind = "utility_electricity"
)

// RecordKind defines the raw billing record types accepted for ingestion
type RecordKind string

const (
	RecordKindPayment        RecordKind = "PAYMENT"
	RecordKindServiceRequest RecordKind = "SERVICE_REQUEST"
	RecordKindUtilityReading RecordKind = "UTILITY_READING"
)

// EntryStatus defines audit ledger entry states
type EntryStatus string

const (
	// EntryStatusRecorded - the record was persisted and its derived amount entered the ledger
	EntryStatusRecorded EntryStatus = "RECORDED"
	// EntryStatusIncomplete - a utility reading pair is missing a value or has not advanced;
	// expected steady state, the entry contributes nothing to totals
	EntryStatusIncomplete EntryStatus = "INCOMPLETE"
	// EntryStatusUnpriced - no price could be resolved for the charge; excluded from
	// totals and surfaced distinctly from a zero amount
	EntryStatusUnpriced EntryStatus = "UNPRICED"
	// EntryStatusFailed - the record was rejected at validation
	EntryStatusFailed EntryStatus = "FAILED"
)

// FailureReason defines record rejection categories
type FailureReason string

const (
	FailureReasonNegativeAmount      FailureReason = "NEGATIVE_AMOUNT"
	FailureReasonNegativeReading     FailureReason = "NEGATIVE_READING"
	FailureReasonInvalidCurrency     FailureReason = "INVALID_CURRENCY"
	FailureReasonInvalidParty        FailureReason = "INVALID_PARTY"
	FailureReasonUnknownRecordKind   FailureReason = "UNKNOWN_RECORD_KIND"
	FailureReasonApartmentNotFound   FailureReason = "APARTMENT_NOT_FOUND"
	FailureReasonServiceTypeNotFound FailureReason = "SERVICE_TYPE_NOT_FOUND"
	FailureReasonVillageNotFound     FailureReason = "VILLAGE_NOT_FOUND"
	FailureReasonPricingUnavailable  FailureReason = "PRICING_UNAVAILABLE"
	FailureReasonRecordCommitFailed  FailureReason = "RECORD_COMMIT_FAILED"
	FailureReasonUnknownError        FailureReason = "UNKNOWN_ERROR"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
