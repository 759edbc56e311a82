package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dentist roles
const (
	RoleDentist      = "dentist"
	RoleOrthodontist = "orthodontist"
	RoleHygienist    = "hygienist"
	RoleReceptionist = "receptionist"
	RoleAdmin        = "admin"
)

// Dentist represents clinic staff. Despite the name the table holds all
// staff who log in; Role distinguishes clinical from front-desk users.
type Dentist struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	FirstName    string         `gorm:"size:100;not null" json:"first_name"`
	LastName     string         `gorm:"size:100;not null" json:"last_name"`
	Email        string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Role         string         `gorm:"size:50;not null;default:'dentist'" json:"role"`
	LicenseNo    string         `gorm:"size:100" json:"license_no,omitempty"`
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// CanAuthorTreatments reports whether the staff member's role permits
// creating treatments
func (d *Dentist) CanAuthorTreatments() bool {
	return d.Role == RoleDentist || d.Role == RoleOrthodontist
}

// FullName returns the display name
func (d *Dentist) FullName() string {
	return d.FirstName + " " + d.LastName
}

// BeforeCreate generates a UUID before creating a new dentist
func (d *Dentist) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Dentist model
func (Dentist) TableName() string {
	return "dentists"
}
