// Package handlers exposes the catalog, eligibility, order and random-number
// services over HTTP with gin.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-purchase-orderflow/internal/domain"
	"github.com/imrishuroy/go-purchase-orderflow/internal/envelope"
	"github.com/imrishuroy/go-purchase-orderflow/internal/idempotency"
	"github.com/imrishuroy/go-purchase-orderflow/internal/validation"
)

// CatalogService lists products and customers page by page.
type CatalogService interface {
	ListProducts(ctx context.Context, page, pageSize int) (envelope.Page[domain.Product], error)
	ListCustomers(ctx context.Context, page, pageSize int) (envelope.Page[domain.Customer], error)
}

// EligibilityChecker decides whether a customer may buy.
type EligibilityChecker interface {
	CanPurchase(ctx context.Context, customerID int64, purchaseValue decimal.Decimal) (bool, error)
}

// OrderService settles and records orders.
type OrderService interface {
	PayOrder(ctx context.Context, paymentMethod string, paymentValue decimal.Decimal, customerID int64) (envelope.Result[domain.Order], error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
}

// NumberDrawer draws audited random numbers.
type NumberDrawer interface {
	GetRandom(ctx context.Context) (int, error)
}

// IdempotencyStore is the subset of idempotency.Store used by POST /orders.
type IdempotencyStore interface {
	CreateIfNotExists(ctx context.Context, key, requestHash string) (bool, error)
	Reclaim(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (*idempotency.IdempotencyRecord, error)
	MarkDone(ctx context.Context, key string, orderID int64, responseBody string, responseStatus int) error
	MarkFailed(ctx context.Context, key, note string) error
}

// Config groups dependencies for the HTTP handlers. Idempotency is optional;
// when nil the Idempotency-Key header is ignored. Handlers log through the
// request-scoped logger installed by observability.RequestLogger.
type Config struct {
	Catalog     CatalogService
	Eligibility EligibilityChecker
	Orders      OrderService
	Random      NumberDrawer
	Idempotency IdempotencyStore
	Validator   *validatorv10.Validate
}

type api struct {
	Config
}

// Register mounts every route on r.
func Register(r *gin.Engine, cfg Config) {
	if cfg.Validator == nil {
		cfg.Validator = validation.New()
	}
	h := &api{Config: cfg}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/products", h.listProducts)
	r.GET("/customers", h.listCustomers)
	r.GET("/customers/:id/can-purchase", h.canPurchase)
	r.POST("/orders", h.placeOrder)
	r.GET("/orders/:id", h.getOrder)
	r.GET("/random", h.random)
}

// writeError maps service errors onto status codes and a uniform JSON body.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_argument", "detail": err.Error()})
	case errors.Is(err, domain.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "customer_not_found", "detail": err.Error()})
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found", "detail": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request_cancelled", "detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "detail": err.Error()})
	}
}
