package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dentiq/dentiq-api/internal/application/service"
	"github.com/dentiq/dentiq-api/internal/presentation/http/dto/response"
	"github.com/dentiq/dentiq-api/pkg/discount"
	"github.com/dentiq/dentiq-api/pkg/pagination"
)

// DirectoryHandler handles the read-only patient, procedure and discount
// code endpoints
type DirectoryHandler struct {
	directoryService *service.DirectoryService
	discounts        discount.Registry
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(directoryService *service.DirectoryService, discounts discount.Registry) *DirectoryHandler {
	return &DirectoryHandler{
		directoryService: directoryService,
		discounts:        discounts,
	}
}

// ListDiscountCodes handles listing the configured discount codes
func (h *DirectoryHandler) ListDiscountCodes(c *gin.Context) {
	response.OK(c, "Discount codes retrieved successfully", h.discounts.List())
}

// ListPatients handles listing patients with optional name search
func (h *DirectoryHandler) ListPatients(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	search := c.Query("search")

	params := &pagination.PaginationParams{Page: page, PerPage: perPage}

	result, err := h.directoryService.ListPatients(c.Request.Context(), params, search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Patients retrieved successfully", result)
}

// GetPatient handles getting a single patient
func (h *DirectoryHandler) GetPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid patient ID")
		return
	}

	patient, err := h.directoryService.GetPatient(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Patient retrieved successfully", patient)
}

// ListProcedures handles listing the procedure catalog
func (h *DirectoryHandler) ListProcedures(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "true") == "true"

	procedures, err := h.directoryService.ListProcedures(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Procedures retrieved successfully", procedures)
}

// GetProcedure handles getting a single procedure
func (h *DirectoryHandler) GetProcedure(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid procedure ID")
		return
	}

	procedure, err := h.directoryService.GetProcedure(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Procedure retrieved successfully", procedure)
}
