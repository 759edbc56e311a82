package repository

import (
	"context"
	"time"
)

// BillingSummary aggregates receipt figures over a date range. Amounts are
// in cents.
type BillingSummary struct {
	TotalBilled      int64 `json:"-"`
	TotalCollected   int64 `json:"-"`
	TotalOutstanding int64 `json:"-"`
	ReceiptCount     int64 `json:"receipt_count"`
	PaidCount        int64 `json:"paid_count"`
}

// ReportRepository runs read-only aggregate queries for billing reports
type ReportRepository interface {
	GetBillingSummary(ctx context.Context, from, to time.Time) (*BillingSummary, error)
}
