package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dentiq/dentiq-api/internal/domain/enum"
)

// Receipt is the financial document derived from a treatment. Exactly one
// exists per treatment; the unique index on TreatmentID enforces that even
// under concurrent issuance. Only the payment fields mutate after creation,
// and only through the payment service.
type Receipt struct {
	ID                  uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TreatmentID         uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"treatment_id"`
	IssuedByID          uuid.UUID          `gorm:"type:uuid;not null" json:"issued_by_id"`
	ReceiptNumber       string             `gorm:"size:100;uniqueIndex;not null" json:"receipt_number"`
	Subtotal            int64              `gorm:"not null" json:"-"`  // Stored in cents, excluded from JSON
	Discount            int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	DiscountCodeApplied string             `gorm:"size:50" json:"discount_code_applied,omitempty"`
	Tax                 int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	TotalAmount         int64              `gorm:"not null" json:"-"`  // Stored in cents, excluded from JSON
	PaidAmount          int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	BalanceDue          int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	PaymentMethod       enum.PaymentMethod `gorm:"size:50" json:"payment_method,omitempty"`
	PaymentDate         *time.Time         `json:"payment_date,omitempty"`
	TransactionID       string             `gorm:"size:255" json:"transaction_id,omitempty"`
	QRCode              string             `gorm:"type:text" json:"qr_code,omitempty"`
	EmailAddress        string             `gorm:"size:255" json:"email_address,omitempty"`
	Status              enum.PaymentStatus `gorm:"default:1" json:"status"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
	DeletedAt           gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Treatment Treatment `gorm:"foreignKey:TreatmentID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r Receipt) MarshalJSON() ([]byte, error) {
	type Alias Receipt
	return json.Marshal(&struct {
		Alias
		Subtotal    float64 `json:"subtotal"`
		Discount    float64 `json:"discount"`
		Tax         float64 `json:"tax"`
		TotalAmount float64 `json:"total_amount"`
		PaidAmount  float64 `json:"paid_amount"`
		BalanceDue  float64 `json:"balance_due"`
	}{
		Alias:       Alias(r),
		Subtotal:    float64(r.Subtotal) / 100,
		Discount:    float64(r.Discount) / 100,
		Tax:         float64(r.Tax) / 100,
		TotalAmount: float64(r.TotalAmount) / 100,
		PaidAmount:  float64(r.PaidAmount) / 100,
		BalanceDue:  float64(r.BalanceDue) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}
