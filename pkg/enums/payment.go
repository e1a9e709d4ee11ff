package enums

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a customer settles an order at delivery.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodNet  PaymentMethod = "net"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodNet,
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts the raw string to PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

// PaymentStatus is derived from collected vs total amount and is never set
// directly by callers.
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "unpaid"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusFullyPaid     PaymentStatus = "fully_paid"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusUnpaid,
	PaymentStatusPartiallyPaid,
	PaymentStatusFullyPaid,
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// DerivePaymentStatus recomputes the payment status from collected and total
// amounts. Every write path that touches either amount must call this.
func DerivePaymentStatus(collected, total decimal.Decimal) PaymentStatus {
	switch {
	case collected.LessThanOrEqual(decimal.Zero):
		return PaymentStatusUnpaid
	case collected.GreaterThanOrEqual(total):
		return PaymentStatusFullyPaid
	default:
		return PaymentStatusPartiallyPaid
	}
}
