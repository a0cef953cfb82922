package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-purchase-orderflow/internal/domain"
	"github.com/imrishuroy/go-purchase-orderflow/internal/envelope"
)

// displayZone is Brasília time. Brazil has observed no DST since 2019, so a
// fixed offset is exact and needs no tzdata on the Lambda image.
var displayZone = time.FixedZone("BRT", -3*60*60)

// orderResponse is the wire form of an order. Only here is OrderDate shifted
// out of UTC.
type orderResponse struct {
	ID         int64           `json:"id"`
	CustomerID int64           `json:"customer_id"`
	Value      decimal.Decimal `json:"value"`
	OrderDate  time.Time       `json:"order_date"`
}

func newOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Value:      o.Value,
		OrderDate:  o.OrderDate.In(displayZone),
	}
}

func orderResult(res envelope.Result[domain.Order]) envelope.Result[orderResponse] {
	out := envelope.Result[orderResponse]{Success: res.Success, Message: res.Message}
	if res.Data != nil {
		resp := newOrderResponse(*res.Data)
		out.Data = &resp
	}
	return out
}
