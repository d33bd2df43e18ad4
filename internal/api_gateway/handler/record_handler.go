package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/property-billing-ledger/internal/api_gateway/middleware"
	"github.com/property-billing-ledger/internal/api_gateway/service"
	"github.com/property-billing-ledger/internal/domain/shared"
)

// RecordHandler handles HTTP requests for billing record submission
type RecordHandler struct {
	recordService service.RecordService
	logger        *slog.Logger
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(logger *slog.Logger, recordService service.RecordService) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
		logger:        logger,
	}
}

// Submit accepts a billing record and queues it for async ingestion
func (h *RecordHandler) Submit(c *gin.Context) {
	var req SubmitRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	recordRequest, err := buildRecordRequest(&req)
	if err != nil {
		h.logger.Error("Invalid record payload", "kind", req.Kind, "error", err)
		RespondBadRequest(c, err.Error())
		return
	}
	recordRequest.CorrelationID = middleware.GetCorrelationID(c)
	recordRequest.Timestamp = time.Now()

	recordID, err := h.recordService.SubmitRecord(c.Request.Context(), recordRequest)
	if err != nil {
		h.logger.Error("Failed to submit record", "error", err)
		RespondInternalError(c)
		return
	}

	RespondAccepted(c, gin.H{
		"record_id": recordID,
		"status":    "PENDING",
	})
}

// buildRecordRequest maps the API payload to the ingestion message, checking
// that the payload matches the declared kind
func buildRecordRequest(req *SubmitRecordRequest) (*shared.RecordRequest, error) {
	recordRequest := &shared.RecordRequest{
		RecordID:    uuid.New(),
		Kind:        shared.RecordKind(req.Kind),
		ApartmentID: req.ApartmentID,
		BookingID:   req.BookingID,
	}

	switch recordRequest.Kind {
	case shared.RecordKindPayment:
		if req.Payment == nil {
			return nil, errMissingPayload("payment")
		}
		recordRequest.Payment = &shared.PaymentPayload{
			Amount:   req.Payment.Amount,
			Currency: shared.Currency(req.Payment.Currency),
			UserType: shared.Party(req.Payment.UserType),
			Date:     req.Payment.Date,
		}
	case shared.RecordKindServiceRequest:
		if req.ServiceCharge == nil {
			return nil, errMissingPayload("service_charge")
		}
		payload := &shared.ServiceChargePayload{
			ServiceTypeID: req.ServiceCharge.ServiceTypeID,
			WhoPays:       shared.Party(req.ServiceCharge.WhoPays),
			Cost:          req.ServiceCharge.Cost,
			DateCreated:   req.ServiceCharge.DateCreated,
		}
		if req.ServiceCharge.Currency != nil {
			currency := shared.Currency(*req.ServiceCharge.Currency)
			payload.Currency = &currency
		}
		recordRequest.ServiceCharge = payload
	case shared.RecordKindUtilityReading:
		if req.MeterReading == nil {
			return nil, errMissingPayload("meter_reading")
		}
		recordRequest.MeterReading = &shared.MeterReadingPayload{
			WaterStart:       req.MeterReading.WaterStart,
			WaterEnd:         req.MeterReading.WaterEnd,
			ElectricityStart: req.MeterReading.ElectricityStart,
			ElectricityEnd:   req.MeterReading.ElectricityEnd,
			WhoPays:          shared.Party(req.MeterReading.WhoPays),
			StartDate:        req.MeterReading.StartDate,
			EndDate:          req.MeterReading.EndDate,
		}
	default:
		return nil, shared.ErrInvalidRecordKind
	}

	return recordRequest, nil
}

type missingPayloadError struct {
	field string
}

func (e missingPayloadError) Error() string {
	return "Missing " + e.field + " payload for the declared kind"
}

func errMissingPayload(field string) error {
	return missingPayloadError{field: field}
}
