package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Simulated backends. None of them talk to a real gateway; each settles
// immediately unless the context is already done.

// Pix settles instant bank transfers.
type Pix struct{}

func (Pix) Name() string { return "pix" }

func (Pix) Pay(ctx context.Context, _ decimal.Decimal, _ int64) (bool, error) {
	return settle(ctx)
}

// CreditCard settles card payments.
type CreditCard struct{}

func (CreditCard) Name() string { return "creditcard" }

func (CreditCard) Pay(ctx context.Context, _ decimal.Decimal, _ int64) (bool, error) {
	return settle(ctx)
}

// PayPal settles wallet payments.
type PayPal struct{}

func (PayPal) Name() string { return "paypal" }

func (PayPal) Pay(ctx context.Context, _ decimal.Decimal, _ int64) (bool, error) {
	return settle(ctx)
}

func settle(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return true, nil
}

// Builtin returns every simulated method shipped with the service.
func Builtin() []Method {
	return []Method{Pix{}, CreditCard{}, PayPal{}}
}

// Select picks the builtin methods whose names appear in enabled. An empty
// enabled list selects all of them.
func Select(enabled []string) ([]Method, error) {
	all := Builtin()
	if len(enabled) == 0 {
		return all, nil
	}
	byName := make(map[string]Method, len(all))
	for _, m := range all {
		byName[m.Name()] = m
	}
	out := make([]Method, 0, len(enabled))
	for _, name := range enabled {
		m, ok := byName[normalize(name)]
		if !ok {
			return nil, fmt.Errorf("payments: unknown method %q (available: %s)", name, strings.Join(names(all), ", "))
		}
		out = append(out, m)
	}
	return out, nil
}

func names(methods []Method) []string {
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		out = append(out, m.Name())
	}
	return out
}
