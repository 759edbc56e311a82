package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	"github.com/dentiq/dentiq-api/internal/domain/enum"
	domainRepo "github.com/dentiq/dentiq-api/internal/domain/repository"
)

type treatmentRepository struct {
	db *gorm.DB
}

// NewTreatmentRepository creates a new treatment repository
func NewTreatmentRepository(db *gorm.DB) domainRepo.TreatmentRepository {
	return &treatmentRepository{db: db}
}

func (r *treatmentRepository) Create(ctx context.Context, treatment *entity.Treatment) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(treatment).Error
}

func (r *treatmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Treatment, error) {
	var treatment entity.Treatment
	err := dbFrom(ctx, r.db).WithContext(ctx).
		First(&treatment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &treatment, err
}

func (r *treatmentRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Treatment, error) {
	var treatment entity.Treatment
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Preload("Items").
		Preload("Items.Procedure").
		Preload("Patient").
		Preload("Dentist").
		First(&treatment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &treatment, err
}

func (r *treatmentRepository) Update(ctx context.Context, treatment *entity.Treatment) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(treatment).Error
}

func (r *treatmentRepository) List(ctx context.Context, params *domainRepo.TreatmentFilterParams) ([]entity.Treatment, int64, error) {
	var treatments []entity.Treatment
	var total int64

	query := dbFrom(ctx, r.db).WithContext(ctx).Model(&entity.Treatment{})

	if params.PatientID != nil {
		query = query.Where("patient_id = ?", *params.PatientID)
	}

	if params.DentistID != nil {
		query = query.Where("dentist_id = ?", *params.DentistID)
	}

	if params.Status != nil {
		query = query.Where("payment_status = ?", *params.Status)
	}

	if params.StartDate != nil {
		query = query.Where("treatment_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("treatment_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Patient").
		Order("treatment_date DESC, created_at DESC").
		Find(&treatments).Error

	return treatments, total, err
}

func (r *treatmentRepository) CreateItem(ctx context.Context, item *entity.TreatmentItem) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(item).Error
}

func (r *treatmentRepository) GetItem(ctx context.Context, id uuid.UUID) (*entity.TreatmentItem, error) {
	var item entity.TreatmentItem
	err := dbFrom(ctx, r.db).WithContext(ctx).
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *treatmentRepository) ListItems(ctx context.Context, treatmentID uuid.UUID) ([]entity.TreatmentItem, error) {
	var items []entity.TreatmentItem
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("treatment_id = ?", treatmentID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *treatmentRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Delete(&entity.TreatmentItem{}, "id = ?", id).Error
}

func (r *treatmentRepository) UpdateItemStatus(ctx context.Context, id uuid.UUID, status enum.ItemStatus) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Model(&entity.TreatmentItem{}).
		Where("id = ?", id).
		Update("status", status).Error
}
