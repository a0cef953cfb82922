package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-purchase-orderflow/internal/aws"
	"github.com/imrishuroy/go-purchase-orderflow/internal/config"
	"github.com/imrishuroy/go-purchase-orderflow/internal/idempotency"
	"github.com/imrishuroy/go-purchase-orderflow/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.ValidateWorker(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		logger.Fatal("failed to init aws clients", zap.Error(err))
	}
	logger.Info("worker configured", zap.String("aws_region", clients.Region), zap.String("metrics_namespace", cfg.Metrics.Namespace))

	processor := NewProcessor(
		idempotency.NewStore(clients.DynamoDB, cfg.Idempotency.Table, cfg.Idempotency.TTL),
		aws.NewMetricsPublisher(clients.CloudWatch, cfg.Metrics.Namespace),
		logger.Named("worker"),
	)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if cfg.Server.RunLocal {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"order_id":1,"customer_id":1,"value":"10.00","order_date":"2025-08-20T13:00:00Z","payment_method":"pix"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{MessageId: "local-1", Body: testBody},
			},
		}
		if err := processor.Handle(context.Background(), event); err != nil {
			logger.Fatal("local handler error", zap.Error(err))
		}
		return
	}

	lambda.Start(processor.Handle)
}
