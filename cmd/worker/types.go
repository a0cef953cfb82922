package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-purchase-orderflow/internal/idempotency"
)

// DeliveryStore deduplicates SQS deliveries. idempotency.Store implements it.
type DeliveryStore interface {
	CreateIfNotExists(ctx context.Context, key, requestHash string) (bool, error)
	Reclaim(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (*idempotency.IdempotencyRecord, error)
	MarkDone(ctx context.Context, key string, orderID int64, responseBody string, responseStatus int) error
	MarkFailed(ctx context.Context, key, note string) error
}

// MetricsRecorder is implemented by aws.MetricsPublisher.
type MetricsRecorder interface {
	RecordOrderPlaced(ctx context.Context, paymentMethod string, value decimal.Decimal, at time.Time) error
}

// deliveryKey is the idempotency key for one order-placed event. It is
// namespaced so it never collides with client Idempotency-Key values.
func deliveryKey(orderID int64) string {
	return fmt.Sprintf("order-placed:%d", orderID)
}
