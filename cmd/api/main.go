package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-purchase-orderflow/internal/aws"
	"github.com/imrishuroy/go-purchase-orderflow/internal/catalog"
	"github.com/imrishuroy/go-purchase-orderflow/internal/clock"
	"github.com/imrishuroy/go-purchase-orderflow/internal/config"
	"github.com/imrishuroy/go-purchase-orderflow/internal/eligibility"
	"github.com/imrishuroy/go-purchase-orderflow/internal/handlers"
	"github.com/imrishuroy/go-purchase-orderflow/internal/idempotency"
	"github.com/imrishuroy/go-purchase-orderflow/internal/observability"
	"github.com/imrishuroy/go-purchase-orderflow/internal/orders"
	"github.com/imrishuroy/go-purchase-orderflow/internal/payments"
	"github.com/imrishuroy/go-purchase-orderflow/internal/random"
	"github.com/imrishuroy/go-purchase-orderflow/internal/storage/dynamo"
	"github.com/imrishuroy/go-purchase-orderflow/internal/storage/postgres"
)

// repository is satisfied by both storage backends.
type repository interface {
	eligibility.Repository
	orders.Repository
	catalog.Repository
	random.Repository
}

func setupRouter(logger *zap.Logger, cfg handlers.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))

	handlers.Register(r, cfg)

	return r
}

func openStore(ctx context.Context, cfg config.Config, clients *aws.AWSClients, logger *zap.Logger) (repository, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		store, err := postgres.Open(ctx, cfg.Storage.DatabaseURL, cfg.Storage.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		store := dynamo.NewStore(clients.DynamoDB, dynamo.Tables{
			Customers: cfg.Storage.Tables.Customers,
			Orders:    cfg.Storage.Tables.Orders,
			Products:  cfg.Storage.Tables.Products,
			Numbers:   cfg.Storage.Tables.Numbers,
			Counters:  cfg.Storage.Tables.Counters,
		})
		if cfg.Storage.SeedDemoData {
			if err := store.SeedCatalog(ctx, cfg.Storage.SeedCustomers, cfg.Storage.SeedProducts); err != nil {
				return nil, nil, err
			}
			logger.Info("demo catalog seeded")
		}
		return store, func() {}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	clients, err := aws.NewAWSClients(ctx)
	if err != nil {
		logger.Fatal("failed to init aws clients", zap.Error(err))
	}

	store, closeStore, err := openStore(ctx, cfg, clients, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer closeStore()

	methods, err := payments.Select(cfg.Payments.Methods)
	if err != nil {
		logger.Fatal("invalid payment methods", zap.Error(err))
	}
	registry, err := payments.NewRegistry(methods...)
	if err != nil {
		logger.Fatal("failed to build payment registry", zap.Error(err))
	}

	clk := clock.NewSystem()
	orderOpts := []orders.Option{orders.WithLogger(logger.Named("orders"))}
	if cfg.Queue.OrdersURL != "" {
		orderOpts = append(orderOpts, orders.WithNotifier(aws.NewPublisher(clients.SQS, cfg.Queue.OrdersURL)))
	}

	hcfg := handlers.Config{
		Catalog:     catalog.NewService(store),
		Eligibility: eligibility.NewEvaluator(store, clk, logger.Named("eligibility")),
		Orders:      orders.NewService(store, registry, clk, orderOpts...),
		Random:      random.NewService(store, time.Now().UnixNano()),
	}
	if cfg.Idempotency.Enabled() {
		hcfg.Idempotency = idempotency.NewStore(clients.DynamoDB, cfg.Idempotency.Table, cfg.Idempotency.TTL)
	}

	r := setupRouter(logger, hcfg)
	logger.Info("api configured",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("aws_region", clients.Region),
		zap.Strings("payment_methods", registry.Names()),
		zap.Bool("idempotency", cfg.Idempotency.Enabled()),
	)

	// if RUN_LOCAL is set, run local HTTP server for development.
	if cfg.Server.RunLocal {
		addr := ":" + cfg.Server.Port
		logger.Info("running local server", zap.String("addr", addr))
		if err := r.Run(addr); err != nil {
			logger.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		// use ProxyWithContext for proper context propagation
		return adapter.ProxyWithContext(ctx, req)
	})
}
