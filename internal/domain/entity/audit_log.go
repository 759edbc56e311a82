package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog records a state-changing operation. Writes are best-effort; a
// failed audit insert never rolls back the operation it describes.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index" json:"actor_id,omitempty"`
	Action     string     `gorm:"size:100;not null" json:"action"`
	EntityType string     `gorm:"size:100;not null;index" json:"entity_type"`
	EntityID   string     `gorm:"size:100;not null;index" json:"entity_id"`
	OldData    string     `gorm:"type:jsonb" json:"old_data,omitempty"`
	NewData    string     `gorm:"type:jsonb" json:"new_data,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new audit log entry
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
