package aws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/imrishuroy/go-purchase-orderflow/internal/observability"
	"github.com/imrishuroy/go-purchase-orderflow/internal/orders"
)

// Publisher wraps an SQS client and a queue URL.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// OrderPlaced publishes ev as JSON. The correlation id is taken from ctx when
// the event does not carry one.
func (p *Publisher) OrderPlaced(ctx context.Context, ev orders.PlacedEvent) error {
	if ev.CorrelationID == "" {
		ev.CorrelationID = observability.RequestID(ctx)
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal order placed event: %w", err)
	}
	attrs := map[string]string{
		"event_type":     "order_placed",
		"order_id":       strconv.FormatInt(ev.OrderID, 10),
		"customer_id":    strconv.FormatInt(ev.CustomerID, 10),
		"payment_method": ev.PaymentMethod,
		"correlation_id": ev.CorrelationID,
	}
	return p.SendMessage(ctx, string(body), attrs)
}

// SendMessage sends a raw message body. Empty attribute values are skipped
// because SQS rejects them.
func (p *Publisher) SendMessage(ctx context.Context, messageBody string, attributes map[string]string) error {
	if p.QueueURL == "" {
		return errors.New("send message: queue url is not configured")
	}
	input := &sqs.SendMessageInput{
		QueueUrl:    &p.QueueURL,
		MessageBody: &messageBody,
	}
	if len(attributes) > 0 {
		msgAttrs := map[string]sqstypes.MessageAttributeValue{}
		for k, v := range attributes {
			if v == "" {
				continue
			}
			msgAttrs[k] = sqstypes.MessageAttributeValue{
				DataType:    awsString("String"),
				StringValue: awsString(v),
			}
		}
		input.MessageAttributes = msgAttrs
	}

	if _, err := p.SQS.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
