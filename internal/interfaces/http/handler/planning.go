package handler

import (
	"errors"
	"time"

	planningapp "github.com/erp/planner/internal/application/planning"
	"github.com/erp/planner/internal/domain/planning"
	"github.com/erp/planner/internal/domain/shared"
	"github.com/erp/planner/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PlanningHandler handles planning run API endpoints
type PlanningHandler struct {
	BaseHandler
	planningService *planningapp.Service
	maxRangeDays    int
}

// NewPlanningHandler creates a new PlanningHandler
func NewPlanningHandler(planningService *planningapp.Service, maxRangeDays int) *PlanningHandler {
	return &PlanningHandler{
		planningService: planningService,
		maxRangeDays:    maxRangeDays,
	}
}

// ===================== Request DTOs =====================

// GenerateRunRequest defines the input of a planning run
// @Description Parameters for generating a purchase planning run
type GenerateRunRequest struct {
	VendorID           string   `json:"vendor_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	DateBegin          string   `json:"date_begin" binding:"required" example:"2026-08-01"`
	DateEnd            string   `json:"date_end" binding:"required" example:"2026-08-31"`
	ShowVendorProducts bool     `json:"show_vendor_products"`
	ShowAllPurchasable bool     `json:"show_all_purchasable"`
	CategoryIDs        []string `json:"category_ids"`
	WarehouseIDs       []string `json:"warehouse_ids"`
}

// ===================== Response DTOs =====================

// RunResponse represents a planning run header
// @Description Planning run header
type RunResponse struct {
	ID                 string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	VendorID           *string `json:"vendor_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	DateBegin          string  `json:"date_begin" example:"2026-08-01"`
	DateEnd            string  `json:"date_end" example:"2026-08-31"`
	ShowVendorProducts bool    `json:"show_vendor_products"`
	ShowAllPurchasable bool    `json:"show_all_purchasable"`
	TotalDays          int     `json:"total_days" example:"31"`
	LineCount          int     `json:"line_count" example:"42"`
	CreatedAt          string  `json:"created_at" example:"2026-08-30T12:00:00Z"`
}

// LineResponse represents one recommendation line of a run
// @Description Purchase recommendation line
type LineResponse struct {
	ID                string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ProductID         string  `json:"product_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ProductCode       string  `json:"product_code" example:"SKU-001"`
	ProductName       string  `json:"product_name" example:"Sample Product"`
	PurchaseUnit      string  `json:"purchase_unit" example:"pcs"`
	VendorID          *string `json:"vendor_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	UnitPrice         *string `json:"unit_price,omitempty" example:"4.50"`
	Currency          string  `json:"currency,omitempty" example:"EUR"`
	TimesReceived     int64   `json:"times_received" example:"3"`
	TimesDelivered    int64   `json:"times_delivered" example:"12"`
	UnitsReceived     string  `json:"units_received" example:"120"`
	UnitsDelivered    string  `json:"units_delivered" example:"96"`
	UnitsAvgDelivered string  `json:"units_avg_delivered" example:"3.2"`
	UnitsAvailable    string  `json:"units_available" example:"18"`
	UnitsForecasted   string  `json:"units_forecasted" example:"10"`
}

func toRunResponse(run *planning.Run) RunResponse {
	resp := RunResponse{
		ID:                 run.ID.String(),
		DateBegin:          run.DateBegin.Format("2006-01-02"),
		DateEnd:            run.DateEnd.Format("2006-01-02"),
		ShowVendorProducts: run.ShowVendorProducts,
		ShowAllPurchasable: run.ShowAllPurchasable,
		TotalDays:          run.TotalDays,
		LineCount:          run.LineCount,
		CreatedAt:          run.CreatedAt.Format(time.RFC3339),
	}
	if run.VendorID != nil {
		id := run.VendorID.String()
		resp.VendorID = &id
	}
	return resp
}

func toLineResponse(line *planning.RecommendationLine) LineResponse {
	resp := LineResponse{
		ID:                line.ID.String(),
		ProductID:         line.ProductID.String(),
		ProductCode:       line.ProductCode,
		ProductName:       line.ProductName,
		PurchaseUnit:      line.PurchaseUnit,
		Currency:          line.Currency,
		TimesReceived:     line.TimesReceived,
		TimesDelivered:    line.TimesDelivered,
		UnitsReceived:     line.UnitsReceived.String(),
		UnitsDelivered:    line.UnitsDelivered.String(),
		UnitsAvgDelivered: line.UnitsAvgDelivered.String(),
		UnitsAvailable:    line.UnitsAvailable.String(),
		UnitsForecasted:   line.UnitsForecasted.String(),
	}
	if line.VendorID != nil {
		id := line.VendorID.String()
		resp.VendorID = &id
	}
	if line.UnitPrice != nil {
		price := line.UnitPrice.String()
		resp.UnitPrice = &price
	}
	return resp
}

// ===================== Endpoints =====================

// Generate godoc
// @Summary      Generate a planning run
// @Description  Aggregates stock movements for the requested vendor and period and materializes purchase recommendations
// @Tags         planning
// @Accept       json
// @Produce      json
// @Param        request body GenerateRunRequest true "Run parameters"
// @Success      201 {object} dto.Response{data=RunResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /planning/runs [post]
func (h *PlanningHandler) Generate(c *gin.Context) {
	var req GenerateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	domainReq, err := h.parseRequest(req)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	run, err := h.planningService.GeneratePlan(c.Request.Context(), domainReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toRunResponse(run))
}

// GetRun godoc
// @Summary      Get a planning run
// @Description  Returns one planning run header
// @Tags         planning
// @Produce      json
// @Param        id path string true "Run ID"
// @Success      200 {object} dto.Response{data=RunResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /planning/runs/{id} [get]
func (h *PlanningHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid run ID")
		return
	}

	run, err := h.planningService.GetRun(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toRunResponse(run))
}

// ListLines godoc
// @Summary      List recommendation lines
// @Description  Returns a page of a run's recommendation lines ordered by product code
// @Tags         planning
// @Produce      json
// @Param        id path string true "Run ID"
// @Param        page query int false "Page number (default 1)"
// @Param        page_size query int false "Page size (default 20, max 100)"
// @Param        search query string false "Filter by product code or name"
// @Success      200 {object} dto.Response{data=[]LineResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /planning/runs/{id}/lines [get]
func (h *PlanningHandler) ListLines(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid run ID")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.Page(listReq.Page, listReq.PageSize)
	filter.Search = listReq.Search

	lines, total, err := h.planningService.ListLines(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]LineResponse, 0, len(lines))
	for _, line := range lines {
		responses = append(responses, toLineResponse(line))
	}

	h.SuccessWithMeta(c, responses, total, listReq.Page, listReq.PageSize)
}

// DeleteRun godoc
// @Summary      Delete a planning run
// @Description  Removes a planning run and all of its lines
// @Tags         planning
// @Param        id path string true "Run ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /planning/runs/{id} [delete]
func (h *PlanningHandler) DeleteRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid run ID")
		return
	}

	if err := h.planningService.DeleteRun(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all planning routes
func (h *PlanningHandler) RegisterRoutes(rg *gin.RouterGroup) {
	runs := rg.Group("/planning/runs")
	{
		runs.POST("", h.Generate)
		runs.GET("/:id", h.GetRun)
		runs.GET("/:id/lines", h.ListLines)
		runs.DELETE("/:id", h.DeleteRun)
	}
}

// ===================== Helpers =====================

func (h *PlanningHandler) parseRequest(req GenerateRunRequest) (planning.Request, error) {
	dateBegin, err := time.Parse("2006-01-02", req.DateBegin)
	if err != nil {
		return planning.Request{}, errors.New("date_begin: Invalid date format, expected YYYY-MM-DD")
	}

	dateEnd, err := time.Parse("2006-01-02", req.DateEnd)
	if err != nil {
		return planning.Request{}, errors.New("date_end: Invalid date format, expected YYYY-MM-DD")
	}

	if h.maxRangeDays > 0 && dateEnd.Sub(dateBegin) > time.Duration(h.maxRangeDays)*24*time.Hour {
		return planning.Request{}, errors.New("date_end: Date range exceeds the configured maximum")
	}

	domainReq := planning.Request{
		DateBegin:          dateBegin,
		DateEnd:            dateEnd,
		ShowVendorProducts: req.ShowVendorProducts,
		ShowAllPurchasable: req.ShowAllPurchasable,
	}

	if req.VendorID != "" {
		vendorID, err := uuid.Parse(req.VendorID)
		if err != nil {
			return planning.Request{}, errors.New("vendor_id: Invalid UUID format")
		}
		domainReq.VendorID = &vendorID
	}

	if domainReq.CategoryIDs, err = parseUUIDList("category_ids", req.CategoryIDs); err != nil {
		return planning.Request{}, err
	}
	if domainReq.WarehouseIDs, err = parseUUIDList("warehouse_ids", req.WarehouseIDs); err != nil {
		return planning.Request{}, err
	}

	return domainReq, nil
}

func parseUUIDList(field string, values []string) ([]uuid.UUID, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, errors.New(field + ": Invalid UUID format")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
