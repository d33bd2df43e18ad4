package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/property-billing-ledger/internal/api_gateway/service"
	"github.com/property-billing-ledger/internal/domain/billing"
	"github.com/property-billing-ledger/internal/domain/ledger"
	"github.com/property-billing-ledger/internal/domain/property"
	"github.com/property-billing-ledger/internal/domain/shared"
)

// BillingHandler handles HTTP requests for billing reports and audit queries
type BillingHandler struct {
	billingService service.BillingQueryService
	logger         *slog.Logger
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(logger *slog.Logger, billingService service.BillingQueryService) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		logger:         logger,
	}
}

// Overview computes the aggregated billing report for the filtered apartment set
func (h *BillingHandler) Overview(c *gin.Context) {
	var params BillingFilterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Error("Invalid filter parameters", "error", err)
		RespondBadRequest(c, "Invalid filter parameters: "+err.Error())
		return
	}

	report, err := h.billingService.Overview(c.Request.Context(), mapFilter(params))
	if err != nil {
		h.logger.Error("Failed to compute billing overview", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, report)
}

// ApartmentLedger returns one apartment's ledger slice with renter attribution
func (h *BillingHandler) ApartmentLedger(c *gin.Context) {
	apartmentID, ok := h.apartmentIDParam(c)
	if !ok {
		return
	}

	var params BillingFilterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Error("Invalid filter parameters", "error", err)
		RespondBadRequest(c, "Invalid filter parameters: "+err.Error())
		return
	}

	result, err := h.billingService.ApartmentLedger(c.Request.Context(), apartmentID, mapFilter(params))
	if err != nil {
		if errors.Is(err, property.ErrApartmentNotFound{}) {
			RespondNotFound(c, "Apartment not found")
			return
		}
		h.logger.Error("Failed to compute apartment ledger", "apartment_id", apartmentID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, result)
}

// RenterSummary returns the current renter booking's slice of the ledger,
// 404 when the apartment has no renter bookings
func (h *BillingHandler) RenterSummary(c *gin.Context) {
	apartmentID, ok := h.apartmentIDParam(c)
	if !ok {
		return
	}

	summary, found, err := h.billingService.RenterSummary(c.Request.Context(), apartmentID)
	if err != nil {
		if errors.Is(err, property.ErrApartmentNotFound{}) {
			RespondNotFound(c, "Apartment not found")
			return
		}
		h.logger.Error("Failed to compute renter summary", "apartment_id", apartmentID, "error", err)
		RespondInternalError(c)
		return
	}
	if !found {
		RespondNotFound(c, "No renter bookings for apartment")
		return
	}

	RespondOK(c, summary)
}

// Rollup partitions the filtered ledger by year with an optional carry-forward
func (h *BillingHandler) Rollup(c *gin.Context) {
	var params RollupParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Error("Invalid rollup parameters", "error", err)
		RespondBadRequest(c, "Invalid rollup parameters: "+err.Error())
		return
	}

	rollup, err := h.billingService.Rollup(c.Request.Context(), mapFilter(params.BillingFilterParams), params.BeforeYear)
	if err != nil {
		h.logger.Error("Failed to compute rollup", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, rollup)
}

// Audit retrieves the paginated ingestion audit trail for an apartment
func (h *BillingHandler) Audit(c *gin.Context) {
	apartmentID, ok := h.apartmentIDParam(c)
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	entries, total, err := h.billingService.GetAuditEntries(
		c.Request.Context(),
		apartmentID,
		pagination.Page,
		pagination.PerPage,
	)
	if err != nil {
		h.logger.Error("Failed to get audit entries", "apartment_id", apartmentID, "error", err)
		RespondInternalError(c)
		return
	}

	var responses []AuditEntryResponse
	for _, entry := range entries {
		responses = append(responses, mapAuditEntryToResponse(entry))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, pagination.Page, pagination.PerPage, int(total))
}

func (h *BillingHandler) apartmentIDParam(c *gin.Context) (int64, bool) {
	idParam := c.Param("id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || id <= 0 {
		h.logger.Error("Invalid apartment ID", "id", idParam)
		RespondBadRequest(c, "Invalid apartment ID")
		return 0, false
	}
	return id, true
}

// mapFilter maps the bound query parameters to an engine filter
func mapFilter(params BillingFilterParams) billing.Filter {
	filter := billing.Filter{
		VillageID: params.VillageID,
		Year:      params.Year,
		DateFrom:  params.DateFrom,
		DateTo:    params.DateTo,
	}
	if params.UserType != nil {
		party := shared.Party(*params.UserType)
		filter.UserType = &party
	}
	return filter
}

// mapAuditEntryToResponse maps an audit ledger entry to a response DTO
func mapAuditEntryToResponse(entry *ledger.Entry) AuditEntryResponse {
	response := AuditEntryResponse{
		RecordID:      entry.RecordID.String(),
		ApartmentID:   entry.ApartmentID,
		BookingID:     entry.BookingID,
		Kind:          string(entry.Kind),
		Party:         string(entry.Party),
		Status:        string(entry.Status),
		FailureReason: entry.FailureReason,
		CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
	}

	if entry.Amount != nil {
		amount := entry.Amount.String()
		response.Amount = &amount
	}
	if entry.Currency != nil {
		currency := string(*entry.Currency)
		response.Currency = &currency
	}
	if entry.ProcessedAt != nil {
		response.ProcessedAt = entry.ProcessedAt.Format(time.RFC3339)
	}
	for _, bill := range entry.UtilityBills {
		response.UtilityBills = append(response.UtilityBills, UtilityBillResponse{
			Utility:     string(bill.Utility),
			Consumption: bill.Consumption.String(),
			Cost:        bill.Cost.String(),
		})
	}

	return response
}
