package enum

// PaymentMethod is the channel a payment arrived through
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodInsurance    PaymentMethod = "insurance"
	PaymentMethodMobile       PaymentMethod = "mobile"
)

// IsValid reports whether the method is one of the known channels.
// The empty string is valid because the method is optional until payment.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case "", PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer,
		PaymentMethodInsurance, PaymentMethodMobile:
		return true
	}
	return false
}
