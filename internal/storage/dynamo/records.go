package dynamo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-purchase-orderflow/internal/domain"
)

// orderDateLayout is fixed width so that string comparison on the GSI range
// key matches chronological order. RFC3339Nano trims trailing zeros and does not.
const orderDateLayout = "2006-01-02T15:04:05.000000000Z"

type customerItem struct {
	CustomerID int64  `dynamodbav:"customer_id"` // PK
	Name       string `dynamodbav:"name"`
}

type productItem struct {
	ProductID int64  `dynamodbav:"product_id"` // PK
	Name      string `dynamodbav:"name"`
}

type orderItem struct {
	OrderID    int64  `dynamodbav:"order_id"` // PK
	CustomerID int64  `dynamodbav:"customer_id"`
	Value      string `dynamodbav:"value"` // decimal string
	OrderDate  string `dynamodbav:"order_date"`
}

type numberItem struct {
	NumberID int64 `dynamodbav:"number_id"` // PK
	Number   int   `dynamodbav:"number"`
}

func formatOrderDate(t time.Time) string {
	return t.UTC().Format(orderDateLayout)
}

func newOrderItem(o domain.Order) orderItem {
	return orderItem{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Value:      o.Value.String(),
		OrderDate:  formatOrderDate(o.OrderDate),
	}
}

func (it orderItem) toDomain() (domain.Order, error) {
	value, err := decimal.NewFromString(it.Value)
	if err != nil {
		return domain.Order{}, fmt.Errorf("parse order value %q: %w", it.Value, err)
	}
	at, err := time.Parse(orderDateLayout, it.OrderDate)
	if err != nil {
		return domain.Order{}, fmt.Errorf("parse order date %q: %w", it.OrderDate, err)
	}
	return domain.Order{
		ID:         it.OrderID,
		CustomerID: it.CustomerID,
		Value:      value,
		OrderDate:  at.UTC(),
	}, nil
}
