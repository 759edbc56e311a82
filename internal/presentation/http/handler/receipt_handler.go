package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dentiq/dentiq-api/internal/application/service"
	"github.com/dentiq/dentiq-api/internal/domain/enum"
	domainRepo "github.com/dentiq/dentiq-api/internal/domain/repository"
	"github.com/dentiq/dentiq-api/internal/presentation/http/dto/request"
	"github.com/dentiq/dentiq-api/internal/presentation/http/dto/response"
	"github.com/dentiq/dentiq-api/pkg/pagination"
)

// ReceiptHandler handles receipt and payment HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
	paymentService *service.PaymentService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService, paymentService *service.PaymentService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		paymentService: paymentService,
	}
}

// Generate handles issuing the receipt for a treatment
func (h *ReceiptHandler) Generate(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	treatmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid treatment ID")
		return
	}

	var req request.GenerateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.receiptService.GenerateReceipt(c.Request.Context(), &service.GenerateReceiptInput{
		TreatmentID:    treatmentID,
		IssuedByID:     *userID,
		PaymentMethod:  enum.PaymentMethod(req.PaymentMethod),
		CustomDiscount: toCents(req.CustomDiscount),
		DiscountCode:   req.DiscountCode,
		EmailAddress:   req.EmailAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt generated successfully", receipt)
}

// Get handles getting a single receipt
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// GetByNumber handles looking up a receipt by its receipt number
func (h *ReceiptHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		response.BadRequest(c, "Receipt number is required")
		return
	}

	receipt, err := h.receiptService.GetReceiptByNumber(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// List handles listing receipts with filters
func (h *ReceiptHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &domainRepo.ReceiptFilterParams{
		Pagination: &pagination.PaginationParams{Page: page, PerPage: perPage},
	}
	params.Pagination.Validate()

	if statusStr := c.Query("status"); statusStr != "" {
		status, ok := enum.ParsePaymentStatus(statusStr)
		if !ok {
			response.BadRequest(c, "Invalid receipt status")
			return
		}
		intStatus := int(status)
		params.Status = &intStatus
	}
	if from, ok := parseDateQuery(c, "start_date"); ok {
		params.StartDate = from
	}
	if to, ok := parseDateQuery(c, "end_date"); ok {
		params.EndDate = to
	}

	result, err := h.receiptService.ListReceipts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Receipts retrieved successfully", result)
}

// Pay handles recording a payment against a receipt
func (h *ReceiptHandler) Pay(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req request.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.paymentService.ProcessPayment(c.Request.Context(), &service.ProcessPaymentInput{
		ReceiptID:     receiptID,
		ActorID:       *userID,
		Amount:        toCents(req.Amount),
		PaymentMethod: enum.PaymentMethod(req.PaymentMethod),
		TransactionID: req.TransactionID,
		PaymentDate:   req.PaymentDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", receipt)
}
