package enums

import "fmt"

// PaymentMethod describes how a shopper intends to settle an order.
type PaymentMethod string

const (
	PaymentMethodCard           PaymentMethod = "CARD"
	PaymentMethodBankTransfer   PaymentMethod = "BANK_TRANSFER"
	PaymentMethodVirtualAccount PaymentMethod = "VIRTUAL_ACCOUNT"
	PaymentMethodMobile         PaymentMethod = "MOBILE"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodBankTransfer,
	PaymentMethodVirtualAccount,
	PaymentMethodMobile,
}

var paymentMethodLabels = map[PaymentMethod]string{
	PaymentMethodCard:           "신용카드",
	PaymentMethodBankTransfer:   "계좌이체",
	PaymentMethodVirtualAccount: "가상계좌",
	PaymentMethodMobile:         "휴대폰 결제",
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	_, ok := paymentMethodLabels[p]
	return ok
}

// Label returns the shopper-facing name, or the raw value for unknown methods.
func (p PaymentMethod) Label() string {
	if label, ok := paymentMethodLabels[p]; ok {
		return label
	}
	return string(p)
}

// PaymentMethods lists the closed set in display order.
func PaymentMethods() []PaymentMethod {
	out := make([]PaymentMethod, len(validPaymentMethods))
	copy(out, validPaymentMethods)
	return out
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
