package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	"github.com/dentiq/dentiq-api/internal/domain/repository"
)

// Auditor writes best-effort audit records for state-changing operations.
// Failures are logged and swallowed; the primary operation never rolls back
// because of a missing audit row.
type Auditor struct {
	repo   repository.AuditRepository
	logger zerolog.Logger
}

// NewAuditor creates an auditor. repo may be nil, in which case entries go
// to the structured log only.
func NewAuditor(repo repository.AuditRepository, logger zerolog.Logger) *Auditor {
	return &Auditor{repo: repo, logger: logger}
}

// Record persists one audit entry. oldData and newData are marshaled to
// JSON; marshal failures degrade to omitting the payload.
func (a *Auditor) Record(ctx context.Context, actorID *uuid.UUID, action, entityType, entityID string, oldData, newData any) {
	record := &entity.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OldData:    marshalAuditData(oldData),
		NewData:    marshalAuditData(newData),
	}

	if a.repo == nil {
		a.logger.Info().
			Str("action", action).
			Str("entity_type", entityType).
			Str("entity_id", entityID).
			Msg("audit")
		return
	}

	if err := a.repo.Create(ctx, record); err != nil {
		a.logger.Warn().Err(err).
			Str("action", action).
			Str("entity_type", entityType).
			Str("entity_id", entityID).
			Msg("audit write failed")
	}
}

func marshalAuditData(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
