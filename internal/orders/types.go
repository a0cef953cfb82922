package orders

import (
	"context"
	"time"

	"github.com/imrishuroy/go-purchase-orderflow/internal/domain"
)

// Repository persists new orders. InsertOrder assigns order.ID; GetOrder
// returns (nil, nil) for an unknown id.
type Repository interface {
	InsertOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
}

// PlacedEvent is the message emitted after an order has been persisted.
// Value is a decimal string to avoid float rounding in transit.
type PlacedEvent struct {
	OrderID       int64     `json:"order_id"`
	CustomerID    int64     `json:"customer_id"`
	Value         string    `json:"value"`
	OrderDate     time.Time `json:"order_date"`
	PaymentMethod string    `json:"payment_method"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// Notifier is told about every persisted order. Failures are logged by the
// caller and never undo the order.
type Notifier interface {
	OrderPlaced(ctx context.Context, ev PlacedEvent) error
}

const (
	msgOrderCreated      = "order created successfully"
	msgSettlementFailed  = "payment could not be processed"
	msgUnsupportedMethod = "payment method '%s' is not supported"
)
