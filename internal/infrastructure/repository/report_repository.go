package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	"github.com/dentiq/dentiq-api/internal/domain/enum"
	domainRepo "github.com/dentiq/dentiq-api/internal/domain/repository"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetBillingSummary(ctx context.Context, from, to time.Time) (*domainRepo.BillingSummary, error) {
	var summary domainRepo.BillingSummary

	row := dbFrom(ctx, r.db).WithContext(ctx).Model(&entity.Receipt{}).
		Select(
			"COALESCE(SUM(total_amount), 0) AS total_billed, "+
				"COALESCE(SUM(paid_amount), 0) AS total_collected, "+
				"COALESCE(SUM(balance_due), 0) AS total_outstanding, "+
				"COUNT(*) AS receipt_count",
		).
		Where("created_at >= ? AND created_at < ?", from, to).
		Row()

	if err := row.Scan(&summary.TotalBilled, &summary.TotalCollected,
		&summary.TotalOutstanding, &summary.ReceiptCount); err != nil {
		return nil, err
	}

	err := dbFrom(ctx, r.db).WithContext(ctx).Model(&entity.Receipt{}).
		Where("created_at >= ? AND created_at < ? AND status = ?", from, to, enum.PaymentStatusPaid).
		Count(&summary.PaidCount).Error
	if err != nil {
		return nil, err
	}

	return &summary, nil
}
