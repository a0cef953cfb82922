package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-purchase-orderflow/internal/clock"
	"github.com/imrishuroy/go-purchase-orderflow/internal/domain"
	"github.com/imrishuroy/go-purchase-orderflow/internal/envelope"
	"github.com/imrishuroy/go-purchase-orderflow/internal/payments"
)

// Service settles payments and records the resulting orders.
type Service struct {
	repo     Repository
	methods  *payments.Registry
	clock    clock.Clock
	notifier Notifier
	logger   *zap.Logger
}

// Option configures optional collaborators.
type Option func(*Service)

// WithNotifier attaches a notifier that is called after each persisted order.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(repo Repository, methods *payments.Registry, clk clock.Clock, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		methods: methods,
		clock:   clk,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PayOrder settles paymentValue with the named method and, only if settlement
// succeeds, persists a new order stamped with the current UTC time.
//
// Unsupported methods and declined settlements are failed results; a settlement
// error is a failed result marked Retryable. A returned
// error means the order could not be persisted after the payment went through;
// the settlement is not reversed.
func (s *Service) PayOrder(ctx context.Context, paymentMethod string, paymentValue decimal.Decimal, customerID int64) (envelope.Result[domain.Order], error) {
	log := s.logger.With(
		zap.String("payment_method", paymentMethod),
		zap.Int64("customer_id", customerID),
		zap.String("payment_value", paymentValue.String()),
	)

	method, ok := s.methods.Lookup(paymentMethod)
	if !ok {
		log.Info("unsupported payment method")
		return envelope.Fail[domain.Order](fmt.Sprintf(msgUnsupportedMethod, paymentMethod)), nil
	}

	settled, err := method.Pay(ctx, paymentValue, customerID)
	if err != nil {
		log.Warn("settlement error", zap.Error(err))
		return envelope.FailRetryable[domain.Order](msgSettlementFailed), nil
	}
	if !settled {
		log.Info("settlement declined")
		return envelope.Fail[domain.Order](msgSettlementFailed), nil
	}

	order := domain.Order{
		CustomerID: customerID,
		Value:      paymentValue,
		OrderDate:  s.clock.Now().UTC(),
	}
	if err := s.repo.InsertOrder(ctx, &order); err != nil {
		log.Error("order persistence failed after settlement", zap.Error(err))
		return envelope.Result[domain.Order]{}, fmt.Errorf("insert order: %w", err)
	}

	log.Info("order placed", zap.Int64("order_id", order.ID))
	s.notify(ctx, method.Name(), order, log)

	return envelope.Ok(order, msgOrderCreated), nil
}

// GetOrder returns a stored order. Unknown ids wrap domain.ErrOrderNotFound.
func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if id < 1 {
		return nil, &domain.InvalidArgumentError{Param: "orderID", Reason: "must be >= 1"}
	}
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("order id %d: %w", id, domain.ErrOrderNotFound)
	}
	return order, nil
}

func (s *Service) notify(ctx context.Context, method string, order domain.Order, log *zap.Logger) {
	if s.notifier == nil {
		return
	}
	ev := PlacedEvent{
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		Value:         order.Value.String(),
		OrderDate:     order.OrderDate,
		PaymentMethod: method,
	}
	if err := s.notifier.OrderPlaced(ctx, ev); err != nil {
		log.Warn("order placed notification failed", zap.Int64("order_id", order.ID), zap.Error(err))
	}
}
