package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/shopspring/decimal"
)

const defaultMetricsNamespace = "PurchaseOrderflow"

// MetricsPublisher writes business metrics to CloudWatch.
type MetricsPublisher struct {
	client    CloudWatchAPI
	namespace string
}

func NewMetricsPublisher(client CloudWatchAPI, namespace string) *MetricsPublisher {
	if namespace == "" {
		namespace = defaultMetricsNamespace
	}
	return &MetricsPublisher{client: client, namespace: namespace}
}

// RecordOrderPlaced emits OrdersPlaced (count) and OrderValue for one order,
// both dimensioned by payment method.
func (m *MetricsPublisher) RecordOrderPlaced(ctx context.Context, paymentMethod string, value decimal.Decimal, at time.Time) error {
	dims := []cwtypes.Dimension{
		{Name: awsString("PaymentMethod"), Value: awsString(paymentMethod)},
	}
	amount, _ := value.Float64()

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: awsString(m.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString("OrdersPlaced"),
				Dimensions: dims,
				Timestamp:  &at,
				Unit:       cwtypes.StandardUnitCount,
				Value:      float64Ptr(1),
			},
			{
				MetricName: awsString("OrderValue"),
				Dimensions: dims,
				Timestamp:  &at,
				Unit:       cwtypes.StandardUnitNone,
				Value:      float64Ptr(amount),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}

func float64Ptr(v float64) *float64 { return &v }
