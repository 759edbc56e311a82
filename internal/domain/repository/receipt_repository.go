package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	"github.com/dentiq/dentiq-api/pkg/pagination"
)

// ReceiptRepository defines the interface for receipt data operations
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	// GetByIDForUpdate loads a receipt under a row lock; only meaningful
	// inside a transaction
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	GetByTreatmentID(ctx context.Context, treatmentID uuid.UUID) (*entity.Receipt, error)
	GetByNumber(ctx context.Context, receiptNumber string) (*entity.Receipt, error)
	Update(ctx context.Context, receipt *entity.Receipt) error
	List(ctx context.Context, params *ReceiptFilterParams) ([]entity.Receipt, int64, error)
	// CountIssuedBetween counts receipts created in [from, to), used for
	// daily receipt numbering
	CountIssuedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// ReceiptFilterParams contains filtering parameters for receipt queries
type ReceiptFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *int
	StartDate  *time.Time
	EndDate    *time.Time
}
