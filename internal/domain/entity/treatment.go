package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dentiq/dentiq-api/internal/domain/enum"
)

// ToothNumbers is a set of universal-notation tooth positions (1-32),
// serialized as a JSONB column.
type ToothNumbers []int

func (t ToothNumbers) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *ToothNumbers) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	}
	return fmt.Errorf("unsupported tooth numbers column type %T", value)
}

// GormDataType tells the migrator which column type to use
func (ToothNumbers) GormDataType() string {
	return "jsonb"
}

// ToothSurfaces is a set of surface tags (M, O, D, B, L, I),
// serialized as a JSONB column.
type ToothSurfaces []string

func (t ToothSurfaces) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *ToothSurfaces) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	}
	return fmt.Errorf("unsupported tooth surfaces column type %T", value)
}

func (ToothSurfaces) GormDataType() string {
	return "jsonb"
}

// Treatment represents one billable clinical session for one patient.
// TotalCost and PaymentStatus are denormalized; they are recomputed by the
// treatment service whenever items, discount or payments change.
type Treatment struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	PatientID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"patient_id"`
	DentistID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"dentist_id"`
	ChiefComplaint string             `gorm:"type:text" json:"chief_complaint"`
	Diagnosis      string             `gorm:"type:text" json:"diagnosis"`
	TreatmentPlan  string             `gorm:"type:text" json:"treatment_plan"`
	Notes          string             `gorm:"type:text" json:"notes"`
	TreatmentDate  time.Time          `gorm:"type:date;not null" json:"treatment_date"`
	TotalCost      int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	PaidAmount     int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Discount       int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	PaymentStatus  enum.PaymentStatus `gorm:"default:0;index" json:"payment_status"`
	PaymentMethod  enum.PaymentMethod `gorm:"size:50" json:"payment_method,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Patient *Patient        `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Dentist *Dentist        `gorm:"foreignKey:DentistID" json:"dentist,omitempty"`
	Items   []TreatmentItem `gorm:"foreignKey:TreatmentID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Receipt *Receipt        `gorm:"foreignKey:TreatmentID" json:"receipt,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (t Treatment) MarshalJSON() ([]byte, error) {
	type Alias Treatment
	return json.Marshal(&struct {
		Alias
		TotalCost  float64 `json:"total_cost"`
		PaidAmount float64 `json:"paid_amount"`
		Discount   float64 `json:"discount"`
	}{
		Alias:      Alias(t),
		TotalCost:  float64(t.TotalCost) / 100,
		PaidAmount: float64(t.PaidAmount) / 100,
		Discount:   float64(t.Discount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new treatment
func (t *Treatment) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Treatment model
func (Treatment) TableName() string {
	return "treatments"
}

// TreatmentItem represents one procedure applied to a set of teeth within
// a treatment. UnitCost is a snapshot of the procedure price at creation
// time and is never re-read from the catalog.
type TreatmentItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TreatmentID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"treatment_id"`
	ProcedureID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"procedure_id"`
	ToothNumbers  ToothNumbers    `gorm:"not null" json:"tooth_numbers"`
	ToothSurfaces ToothSurfaces   `json:"tooth_surfaces,omitempty"`
	Quantity      int             `gorm:"not null;default:1" json:"quantity"`
	UnitCost      int64           `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	TotalCost     int64           `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Status        enum.ItemStatus `gorm:"default:0" json:"status"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Treatment Treatment `gorm:"foreignKey:TreatmentID" json:"-"`
	Procedure Procedure `gorm:"foreignKey:ProcedureID" json:"procedure,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (ti TreatmentItem) MarshalJSON() ([]byte, error) {
	type Alias TreatmentItem
	return json.Marshal(&struct {
		Alias
		UnitCost  float64 `json:"unit_cost"`
		TotalCost float64 `json:"total_cost"`
	}{
		Alias:     Alias(ti),
		UnitCost:  float64(ti.UnitCost) / 100,
		TotalCost: float64(ti.TotalCost) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new treatment item
func (ti *TreatmentItem) BeforeCreate(tx *gorm.DB) error {
	if ti.ID == uuid.Nil {
		ti.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TreatmentItem model
func (TreatmentItem) TableName() string {
	return "treatment_items"
}
