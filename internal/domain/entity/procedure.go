package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Procedure is a catalog entry for a billable dental procedure. The catalog
// is read-only from the billing core's point of view; prices are snapshotted
// onto treatment items at the moment an item is created.
type Procedure struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Code          string         `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Category      string         `gorm:"size:100;index" json:"category"`
	DefaultCost   int64          `gorm:"not null" json:"-"`  // Stored in cents, excluded from JSON
	InsuranceCost int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	PerTooth      bool           `gorm:"default:true" json:"per_tooth"`
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Procedure) MarshalJSON() ([]byte, error) {
	type Alias Procedure
	return json.Marshal(&struct {
		Alias
		DefaultCost   float64 `json:"default_cost"`
		InsuranceCost float64 `json:"insurance_cost"`
	}{
		Alias:         Alias(p),
		DefaultCost:   float64(p.DefaultCost) / 100,
		InsuranceCost: float64(p.InsuranceCost) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new procedure
func (p *Procedure) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Procedure model
func (Procedure) TableName() string {
	return "procedures"
}
