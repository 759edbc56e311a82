package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	domainRepo "github.com/dentiq/dentiq-api/internal/domain/repository"
)

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) domainRepo.AuditRepository {
	return &auditRepository{db: db}
}

// Create deliberately ignores any in-flight transaction: an audit row
// written inside a rolled-back transaction would vanish with it, and a
// failed audit write must never roll back the primary operation.
func (r *auditRepository) Create(ctx context.Context, record *entity.AuditLog) error {
	return r.db.WithContext(ctx).Create(record).Error
}
