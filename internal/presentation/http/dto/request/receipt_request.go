package request

import "time"

// GenerateReceiptRequest represents a receipt generation request
type GenerateReceiptRequest struct {
	PaymentMethod  string  `json:"payment_method"`
	CustomDiscount float64 `json:"custom_discount" binding:"min=0"`
	DiscountCode   string  `json:"discount_code"`
	EmailAddress   string  `json:"email_address" binding:"omitempty,email"`
}

// ProcessPaymentRequest represents a payment against an issued receipt
type ProcessPaymentRequest struct {
	Amount        float64    `json:"amount" binding:"required,gt=0"`
	PaymentMethod string     `json:"payment_method"`
	TransactionID string     `json:"transaction_id"`
	PaymentDate   *time.Time `json:"payment_date"`
}
