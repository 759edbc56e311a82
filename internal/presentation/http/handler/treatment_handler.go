package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dentiq/dentiq-api/internal/application/service"
	"github.com/dentiq/dentiq-api/internal/domain/enum"
	domainRepo "github.com/dentiq/dentiq-api/internal/domain/repository"
	"github.com/dentiq/dentiq-api/internal/presentation/http/dto/request"
	"github.com/dentiq/dentiq-api/internal/presentation/http/dto/response"
	"github.com/dentiq/dentiq-api/pkg/pagination"
)

// TreatmentHandler handles treatment HTTP requests
type TreatmentHandler struct {
	treatmentService *service.TreatmentService
}

// NewTreatmentHandler creates a new treatment handler
func NewTreatmentHandler(treatmentService *service.TreatmentService) *TreatmentHandler {
	return &TreatmentHandler{treatmentService: treatmentService}
}

// Create handles creating a treatment
func (h *TreatmentHandler) Create(c *gin.Context) {
	var req request.CreateTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		response.BadRequest(c, "Invalid patient ID")
		return
	}
	dentistID, err := uuid.Parse(req.DentistID)
	if err != nil {
		response.BadRequest(c, "Invalid dentist ID")
		return
	}

	input := &service.CreateTreatmentInput{
		PatientID:      patientID,
		DentistID:      dentistID,
		ChiefComplaint: req.ChiefComplaint,
		Diagnosis:      req.Diagnosis,
		TreatmentPlan:  req.TreatmentPlan,
		Notes:          req.Notes,
	}
	if req.TreatmentDate != nil {
		input.TreatmentDate = *req.TreatmentDate
	}

	treatment, err := h.treatmentService.CreateTreatment(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Treatment created successfully", treatment)
}

// Get handles getting a single treatment with its items
func (h *TreatmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid treatment ID")
		return
	}

	treatment, err := h.treatmentService.GetTreatment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Treatment retrieved successfully", treatment)
}

// List handles listing treatments with filters
func (h *TreatmentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &domainRepo.TreatmentFilterParams{
		Pagination: &pagination.PaginationParams{Page: page, PerPage: perPage},
	}
	params.Pagination.Validate()

	if patientIDStr := c.Query("patient_id"); patientIDStr != "" {
		patientID, err := uuid.Parse(patientIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid patient ID")
			return
		}
		params.PatientID = &patientID
	}
	if dentistIDStr := c.Query("dentist_id"); dentistIDStr != "" {
		dentistID, err := uuid.Parse(dentistIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid dentist ID")
			return
		}
		params.DentistID = &dentistID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status, ok := enum.ParsePaymentStatus(statusStr)
		if !ok {
			response.BadRequest(c, "Invalid payment status")
			return
		}
		params.Status = &status
	}
	if from, ok := parseDateQuery(c, "start_date"); ok {
		params.StartDate = from
	}
	if to, ok := parseDateQuery(c, "end_date"); ok {
		params.EndDate = to
	}

	result, err := h.treatmentService.ListTreatments(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Treatments retrieved successfully", result)
}

// AddItem handles adding a procedure to a treatment
func (h *TreatmentHandler) AddItem(c *gin.Context) {
	treatmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid treatment ID")
		return
	}

	var req request.AddTreatmentItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	procedureID, err := uuid.Parse(req.ProcedureID)
	if err != nil {
		response.BadRequest(c, "Invalid procedure ID")
		return
	}

	item, err := h.treatmentService.AddProcedureToTooth(c.Request.Context(), &service.AddTreatmentItemInput{
		TreatmentID:   treatmentID,
		ProcedureID:   procedureID,
		ToothNumbers:  req.ToothNumbers,
		ToothSurfaces: req.ToothSurfaces,
		Quantity:      req.Quantity,
		Notes:         req.Notes,
		ActorID:       GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Treatment item added successfully", item)
}

// DeleteItem handles removing a treatment item
func (h *TreatmentHandler) DeleteItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	if err := h.treatmentService.DeleteTreatmentItem(c.Request.Context(), itemID, GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// UpdateItemStatus handles changing a treatment item's clinical status
func (h *TreatmentHandler) UpdateItemStatus(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	var req request.UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	status, ok := enum.ParseItemStatus(req.Status)
	if !ok {
		response.BadRequest(c, "Invalid item status")
		return
	}

	if err := h.treatmentService.UpdateTreatmentItemStatus(c.Request.Context(), itemID, status, GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item status updated successfully", nil)
}

// SetDiscount handles applying a manual discount to a treatment
func (h *TreatmentHandler) SetDiscount(c *gin.Context) {
	treatmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid treatment ID")
		return
	}

	var req request.SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	treatment, err := h.treatmentService.SetTreatmentDiscount(c.Request.Context(), treatmentID, toCents(req.Discount), GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount applied successfully", treatment)
}

// Recalculate handles forcing a recomputation of a treatment's totals
func (h *TreatmentHandler) Recalculate(c *gin.Context) {
	treatmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid treatment ID")
		return
	}

	if err := h.treatmentService.RecalculateTreatmentCost(c.Request.Context(), treatmentID); err != nil {
		response.Error(c, err)
		return
	}

	treatment, err := h.treatmentService.GetTreatment(c.Request.Context(), treatmentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Treatment recalculated successfully", treatment)
}

// parseDateQuery reads an RFC 3339 or YYYY-MM-DD date from a query param
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}
	return nil, false
}
