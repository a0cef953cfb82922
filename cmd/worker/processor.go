package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-purchase-orderflow/internal/idempotency"
	"github.com/imrishuroy/go-purchase-orderflow/internal/orders"
)

// Processor consumes order-placed events and records order metrics exactly
// once per order, however often SQS redelivers the message.
type Processor struct {
	deliveries DeliveryStore
	metrics    MetricsRecorder
	logger     *zap.Logger
}

// NewProcessor creates a new worker processor.
func NewProcessor(deliveries DeliveryStore, metrics MetricsRecorder, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		deliveries: deliveries,
		metrics:    metrics,
		logger:     logger,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	p.logger.Info("received sqs batch", zap.Int("records", len(ev.Records)))
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			p.logger.Error("worker error", zap.String("message_id", rec.MessageId), zap.Error(err))
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var ev orders.PlacedEvent
	if err := json.Unmarshal([]byte(rec.Body), &ev); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if ev.OrderID < 1 {
		return fmt.Errorf("invalid message body: order_id %d", ev.OrderID)
	}
	value, err := decimal.NewFromString(ev.Value)
	if err != nil {
		return fmt.Errorf("invalid order value %q: %w", ev.Value, err)
	}

	key := deliveryKey(ev.OrderID)
	log := p.logger.With(
		zap.Int64("order_id", ev.OrderID),
		zap.String("correlation_id", ev.CorrelationID),
		zap.String("message_id", rec.MessageId),
	)

	proceed, err := p.claim(ctx, key, rec.MessageId, log)
	if err != nil || !proceed {
		return err
	}

	if err := p.metrics.RecordOrderPlaced(ctx, ev.PaymentMethod, value, ev.OrderDate); err != nil {
		// mark failed so the redelivery can reclaim the key
		if mErr := p.deliveries.MarkFailed(ctx, key, fmt.Sprintf("record_metrics_failed: %v", err)); mErr != nil {
			log.Warn("mark delivery failed", zap.Error(mErr))
		}
		return fmt.Errorf("record metrics for order=%d: %w", ev.OrderID, err)
	}

	if err := p.deliveries.MarkDone(ctx, key, ev.OrderID, "", 0); err != nil {
		return fmt.Errorf("failed to update idempotency: %w", err)
	}

	log.Info("order event processed", zap.String("payment_method", ev.PaymentMethod))
	return nil
}

// claim reserves key for this delivery. It returns false with a nil error when
// the event was already handled or is being handled elsewhere.
func (p *Processor) claim(ctx context.Context, key, messageID string, log *zap.Logger) (bool, error) {
	created, err := p.deliveries.CreateIfNotExists(ctx, key, messageID)
	if err != nil {
		return false, fmt.Errorf("claim delivery: %w", err)
	}
	if created {
		return true, nil
	}

	existing, err := p.deliveries.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read delivery: %w", err)
	}
	if existing == nil {
		return false, errors.New("delivery record disappeared after failed create")
	}

	switch existing.Status {
	case idempotency.StatusDone:
		log.Info("duplicate delivery, already processed")
		return false, nil
	case idempotency.StatusInProgress:
		// another invocation took it; swallow the duplicate
		log.Info("duplicate delivery, in progress elsewhere")
		return false, nil
	case idempotency.StatusFailed:
		reclaimed, err := p.deliveries.Reclaim(ctx, key)
		if err != nil {
			return false, fmt.Errorf("reclaim delivery: %w", err)
		}
		if !reclaimed {
			log.Info("failed delivery reclaimed elsewhere")
		}
		return reclaimed, nil
	default:
		return false, fmt.Errorf("unexpected delivery status %q", existing.Status)
	}
}
