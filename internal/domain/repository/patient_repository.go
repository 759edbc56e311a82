package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	"github.com/dentiq/dentiq-api/pkg/pagination"
)

// PatientRepository defines read access to the patient directory. The
// billing core never mutates patients.
type PatientRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Patient, int64, error)
}

// DentistRepository defines read access to clinic staff
type DentistRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Dentist, error)
	GetByEmail(ctx context.Context, email string) (*entity.Dentist, error)
}
