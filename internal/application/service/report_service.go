package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dentiq/dentiq-api/internal/domain/repository"
	"github.com/dentiq/dentiq-api/pkg/apperror"
)

// ReportService produces billing aggregates over issued receipts
type ReportService struct {
	reportRepo repository.ReportRepository
	logger     zerolog.Logger
}

// NewReportService creates a new report service
func NewReportService(reportRepo repository.ReportRepository, logger zerolog.Logger) *ReportService {
	return &ReportService{reportRepo: reportRepo, logger: logger}
}

// BillingSummaryResponse represents the billing summary with decimal amounts
type BillingSummaryResponse struct {
	From             time.Time `json:"from"`
	To               time.Time `json:"to"`
	TotalBilled      float64   `json:"total_billed"`
	TotalCollected   float64   `json:"total_collected"`
	TotalOutstanding float64   `json:"total_outstanding"`
	ReceiptCount     int64     `json:"receipt_count"`
	PaidCount        int64     `json:"paid_count"`
}

// GetBillingSummary aggregates receipts issued within [from, to)
func (s *ReportService) GetBillingSummary(ctx context.Context, from, to time.Time) (*BillingSummaryResponse, error) {
	if !to.After(from) {
		return nil, apperror.NewBadRequestError("End of period must be after its start")
	}

	summary, err := s.reportRepo.GetBillingSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &BillingSummaryResponse{
		From:             from,
		To:               to,
		TotalBilled:      float64(summary.TotalBilled) / 100,
		TotalCollected:   float64(summary.TotalCollected) / 100,
		TotalOutstanding: float64(summary.TotalOutstanding) / 100,
		ReceiptCount:     summary.ReceiptCount,
		PaidCount:        summary.PaidCount,
	}, nil
}
