package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Order values are stored as NUMERIC(12,2); anything outside that is rejected
// before settlement rather than rounded afterwards.
const maxPaymentScale = 2

var maxPaymentValue = decimal.RequireFromString("9999999999.99")

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// decimal.Decimal has no tag the validator understands, so the positive
	// amount rule lives at struct level.
	v.RegisterStructValidation(placeOrderStructValidation, PlaceOrderRequest{})

	return v
}

func placeOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(PlaceOrderRequest)

	if !req.PaymentValue.IsPositive() {
		sl.ReportError(req.PaymentValue, "payment_value", "PaymentValue", "gt", "0")
		return
	}
	if !req.PaymentValue.Equal(req.PaymentValue.Truncate(maxPaymentScale)) {
		sl.ReportError(req.PaymentValue, "payment_value", "PaymentValue", "max_scale", "2")
		return
	}
	if req.PaymentValue.GreaterThan(maxPaymentValue) {
		sl.ReportError(req.PaymentValue, "payment_value", "PaymentValue", "lte", maxPaymentValue.String())
	}
}
