package appointment

import (
	"strings"

	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
)

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentYape         PaymentMethod = "yape"
	PaymentPlin         PaymentMethod = "plin"
	PaymentBankTransfer PaymentMethod = "bank-transfer"
)

var paymentMethods = []PaymentMethod{
	PaymentCash,
	PaymentCard,
	PaymentYape,
	PaymentPlin,
	PaymentBankTransfer,
}

func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", httperr.ErrValidation("payment_method_required", "payment method is required")
	}
	for _, m := range paymentMethods {
		if PaymentMethod(raw) == m {
			return m, nil
		}
	}
	return "", httperr.ErrValidation("invalid_payment_method", "invalid payment method")
}
