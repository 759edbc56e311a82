package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
)

// ProcedureRepository defines read access to the procedure catalog
type ProcedureRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Procedure, error)
	GetByCode(ctx context.Context, code string) (*entity.Procedure, error)
	List(ctx context.Context, activeOnly bool) ([]entity.Procedure, error)
}
