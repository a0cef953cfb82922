package eligibility

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-purchase-orderflow/internal/clock"
	"github.com/imrishuroy/go-purchase-orderflow/internal/domain"
)

const (
	businessOpenHour  = 8
	businessCloseHour = 18
)

// firstPurchaseCap is the largest amount a customer without any order history may spend.
var firstPurchaseCap = decimal.NewFromInt(100)

// Repository is the read-only view of customers and orders the evaluator needs.
type Repository interface {
	// GetCustomer returns (nil, nil) when the customer does not exist.
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	CountOrdersSince(ctx context.Context, customerID int64, since time.Time) (int, error)
	CountOrders(ctx context.Context, customerID int64) (int, error)
}

// Evaluator decides whether a customer may currently make a purchase.
type Evaluator struct {
	repo   Repository
	clock  clock.Clock
	logger *zap.Logger
}

func NewEvaluator(repo Repository, clk clock.Clock, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{repo: repo, clock: clk, logger: logger}
}

// CanPurchase applies the purchase rules in order and stops at the first denial:
// one order per calendar month, a 100.00 cap on a first purchase, business hours
// 08:00-18:59 UTC, weekdays only. Invalid input and unknown customers are errors;
// a denial is a plain false.
func (e *Evaluator) CanPurchase(ctx context.Context, customerID int64, purchaseValue decimal.Decimal) (bool, error) {
	if customerID < 1 {
		return false, &domain.InvalidArgumentError{Param: "customerID", Reason: "must be >= 1"}
	}
	if !purchaseValue.IsPositive() {
		return false, &domain.InvalidArgumentError{Param: "purchaseValue", Reason: "must be > 0"}
	}

	customer, err := e.repo.GetCustomer(ctx, customerID)
	if err != nil {
		return false, fmt.Errorf("get customer: %w", err)
	}
	if customer == nil {
		return false, &domain.CustomerNotFoundError{ID: customerID}
	}

	now := e.clock.Now().UTC()
	log := e.logger.With(zap.Int64("customer_id", customerID), zap.String("purchase_value", purchaseValue.String()))

	baseDate := OneMonthBefore(now)
	recent, err := e.repo.CountOrdersSince(ctx, customerID, baseDate)
	if err != nil {
		return false, fmt.Errorf("count recent orders: %w", err)
	}
	if recent > 0 {
		log.Debug("purchase denied", zap.String("rule", "monthly_frequency"), zap.Int("recent_orders", recent))
		return false, nil
	}

	total, err := e.repo.CountOrders(ctx, customerID)
	if err != nil {
		return false, fmt.Errorf("count orders: %w", err)
	}
	if total == 0 && purchaseValue.GreaterThan(firstPurchaseCap) {
		log.Debug("purchase denied", zap.String("rule", "first_purchase_cap"))
		return false, nil
	}

	if !withinBusinessHours(now) {
		log.Debug("purchase denied", zap.String("rule", "business_hours"), zap.Int("hour", now.Hour()))
		return false, nil
	}
	if !isBusinessDay(now) {
		log.Debug("purchase denied", zap.String("rule", "business_day"), zap.Stringer("weekday", now.Weekday()))
		return false, nil
	}

	return true, nil
}

// OneMonthBefore steps back one calendar month, clamping the day to the end of
// the shorter month (Mar 31 -> Feb 28) instead of overflowing like time.AddDate.
func OneMonthBefore(t time.Time) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month-1, 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

func withinBusinessHours(t time.Time) bool {
	h := t.Hour()
	return h >= businessOpenHour && h <= businessCloseHour
}

func isBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}
