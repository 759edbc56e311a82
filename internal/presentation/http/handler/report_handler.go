package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dentiq/dentiq-api/internal/application/service"
	"github.com/dentiq/dentiq-api/internal/presentation/http/dto/response"
)

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// BillingSummary handles the billing summary report. Defaults to the
// current calendar month when no range is given.
func (h *ReportHandler) BillingSummary(c *gin.Context) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	if parsed, ok := parseDateQuery(c, "from"); ok {
		from = *parsed
	}
	if parsed, ok := parseDateQuery(c, "to"); ok {
		to = *parsed
	}

	summary, err := h.reportService.GetBillingSummary(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Billing summary retrieved successfully", summary)
}
