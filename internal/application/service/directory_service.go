package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	"github.com/dentiq/dentiq-api/internal/domain/repository"
	"github.com/dentiq/dentiq-api/pkg/apperror"
	"github.com/dentiq/dentiq-api/pkg/pagination"
)

// DirectoryService is the read-only surface over the patient directory and
// the procedure catalog. Both are managed elsewhere; billing only looks
// things up.
type DirectoryService struct {
	patientRepo   repository.PatientRepository
	procedureRepo repository.ProcedureRepository
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(patientRepo repository.PatientRepository, procedureRepo repository.ProcedureRepository) *DirectoryService {
	return &DirectoryService{
		patientRepo:   patientRepo,
		procedureRepo: procedureRepo,
	}
}

// GetPatient retrieves a patient by ID
func (s *DirectoryService) GetPatient(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}
	return patient, nil
}

// ListPatients lists patients with optional name search
func (s *DirectoryService) ListPatients(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Patient], error) {
	params.Validate()
	patients, total, err := s.patientRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(patients, pag), nil
}

// GetProcedure retrieves a procedure by ID
func (s *DirectoryService) GetProcedure(ctx context.Context, id uuid.UUID) (*entity.Procedure, error) {
	procedure, err := s.procedureRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if procedure == nil {
		return nil, apperror.NewNotFoundError("Procedure")
	}
	return procedure, nil
}

// ListProcedures lists the procedure catalog
func (s *DirectoryService) ListProcedures(ctx context.Context, activeOnly bool) ([]entity.Procedure, error) {
	return s.procedureRepo.List(ctx, activeOnly)
}
