package repository

import (
	"context"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
)

// AuditRepository persists audit records. Callers treat failures as
// non-fatal.
type AuditRepository interface {
	Create(ctx context.Context, record *entity.AuditLog) error
}
