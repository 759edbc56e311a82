package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	domainRepo "github.com/dentiq/dentiq-api/internal/domain/repository"
	"github.com/dentiq/dentiq-api/pkg/pagination"
)

type patientRepository struct {
	db *gorm.DB
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *gorm.DB) domainRepo.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := dbFrom(ctx, r.db).WithContext(ctx).First(&patient, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &patient, err
}

func (r *patientRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Patient, int64, error) {
	var patients []entity.Patient
	var total int64

	query := dbFrom(ctx, r.db).WithContext(ctx).Model(&entity.Patient{})

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("last_name ASC, first_name ASC").
		Find(&patients).Error

	return patients, total, err
}

type dentistRepository struct {
	db *gorm.DB
}

// NewDentistRepository creates a new dentist repository
func NewDentistRepository(db *gorm.DB) domainRepo.DentistRepository {
	return &dentistRepository{db: db}
}

func (r *dentistRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Dentist, error) {
	var dentist entity.Dentist
	err := dbFrom(ctx, r.db).WithContext(ctx).First(&dentist, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &dentist, err
}

func (r *dentistRepository) GetByEmail(ctx context.Context, email string) (*entity.Dentist, error) {
	var dentist entity.Dentist
	err := dbFrom(ctx, r.db).WithContext(ctx).First(&dentist, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &dentist, err
}
