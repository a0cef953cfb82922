package validation

import "github.com/shopspring/decimal"

// PlaceOrderRequest is the payload for POST /orders.
type PlaceOrderRequest struct {
	PaymentMethod string          `json:"payment_method" validate:"required"`    // case-insensitive method name
	PaymentValue  decimal.Decimal `json:"payment_value"`                         // must be > 0, checked at struct level
	CustomerID    int64           `json:"customer_id" validate:"required,min=1"` // existing customer id
}

// PageQuery carries ?page=&page_size= for listing endpoints. Out-of-range
// values are normalised by the catalog service, not rejected here.
type PageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// CanPurchaseQuery carries ?value= for the eligibility check. Sign checks are
// left to the evaluator so they surface as invalid-argument errors.
type CanPurchaseQuery struct {
	Value string `form:"value" validate:"required,numeric"`
}

// Decimal parses Value. Call after validation.
func (q CanPurchaseQuery) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(q.Value)
}
