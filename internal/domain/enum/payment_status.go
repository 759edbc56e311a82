package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// PaymentStatus represents how much of a treatment or receipt has been paid
type PaymentStatus int

const (
	PaymentStatusPending   PaymentStatus = 0
	PaymentStatusPartial   PaymentStatus = 1
	PaymentStatusPaid      PaymentStatus = 2
	PaymentStatusRefunded  PaymentStatus = 3
	PaymentStatusCancelled PaymentStatus = 4
)

// PaymentStatusFor derives the payment status from paid and total amounts
// in cents. This is the only place the derivation lives; every write path
// that touches paidAmount or totalCost goes through it.
func PaymentStatusFor(paid, total int64) PaymentStatus {
	switch {
	case paid <= 0:
		return PaymentStatusPending
	case paid >= total:
		return PaymentStatusPaid
	default:
		return PaymentStatusPartial
	}
}

func (s PaymentStatus) String() string {
	names := [...]string{"Pending", "Partial", "Paid", "Refunded", "Cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Pending"
	}
	return names[s]
}

// ParsePaymentStatus maps a status name to its value, case-insensitively
func ParsePaymentStatus(str string) (PaymentStatus, bool) {
	switch strings.ToLower(str) {
	case "pending":
		return PaymentStatusPending, true
	case "partial":
		return PaymentStatusPartial, true
	case "paid":
		return PaymentStatusPaid, true
	case "refunded":
		return PaymentStatusRefunded, true
	case "cancelled":
		return PaymentStatusCancelled, true
	}
	return PaymentStatusPending, false
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentStatus(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = PaymentStatusPending
	case "Partial":
		*s = PaymentStatusPartial
	case "Paid":
		*s = PaymentStatusPaid
	case "Refunded":
		*s = PaymentStatusRefunded
	case "Cancelled":
		*s = PaymentStatusCancelled
	}
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentStatus(v)
	case int:
		*s = PaymentStatus(v)
	}
	return nil
}
