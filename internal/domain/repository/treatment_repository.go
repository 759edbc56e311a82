package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	"github.com/dentiq/dentiq-api/internal/domain/enum"
	"github.com/dentiq/dentiq-api/pkg/pagination"
)

// TreatmentRepository defines the interface for treatment data operations
type TreatmentRepository interface {
	Create(ctx context.Context, treatment *entity.Treatment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Treatment, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Treatment, error)
	Update(ctx context.Context, treatment *entity.Treatment) error
	List(ctx context.Context, params *TreatmentFilterParams) ([]entity.Treatment, int64, error)

	CreateItem(ctx context.Context, item *entity.TreatmentItem) error
	GetItem(ctx context.Context, id uuid.UUID) (*entity.TreatmentItem, error)
	ListItems(ctx context.Context, treatmentID uuid.UUID) ([]entity.TreatmentItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	UpdateItemStatus(ctx context.Context, id uuid.UUID, status enum.ItemStatus) error
}

// TreatmentFilterParams contains filtering parameters for treatment queries
type TreatmentFilterParams struct {
	Pagination *pagination.PaginationParams
	PatientID  *uuid.UUID
	DentistID  *uuid.UUID
	Status     *enum.PaymentStatus
	StartDate  *time.Time
	EndDate    *time.Time
}
