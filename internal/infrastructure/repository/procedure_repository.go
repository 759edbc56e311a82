package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	domainRepo "github.com/dentiq/dentiq-api/internal/domain/repository"
)

type procedureRepository struct {
	db *gorm.DB
}

// NewProcedureRepository creates a new procedure repository
func NewProcedureRepository(db *gorm.DB) domainRepo.ProcedureRepository {
	return &procedureRepository{db: db}
}

func (r *procedureRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Procedure, error) {
	var procedure entity.Procedure
	err := dbFrom(ctx, r.db).WithContext(ctx).First(&procedure, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &procedure, err
}

func (r *procedureRepository) GetByCode(ctx context.Context, code string) (*entity.Procedure, error) {
	var procedure entity.Procedure
	err := dbFrom(ctx, r.db).WithContext(ctx).First(&procedure, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &procedure, err
}

func (r *procedureRepository) List(ctx context.Context, activeOnly bool) ([]entity.Procedure, error) {
	var procedures []entity.Procedure
	query := dbFrom(ctx, r.db).WithContext(ctx).Model(&entity.Procedure{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("category ASC, code ASC").Find(&procedures).Error
	return procedures, err
}
