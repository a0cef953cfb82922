package payments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Method is a named settlement strategy. Pay reports whether the amount was
// collected; a returned error means the backend could not be reached.
type Method interface {
	Name() string
	Pay(ctx context.Context, amount decimal.Decimal, customerID int64) (bool, error)
}

// ErrNoMethods is returned when a registry is built without any strategy.
var ErrNoMethods = errors.New("payments: at least one method is required")

// Registry resolves settlement strategies by case-insensitive name.
type Registry struct {
	methods map[string]Method
}

// NewRegistry indexes the supplied methods by lower-cased name. Empty or
// duplicate names are rejected.
func NewRegistry(methods ...Method) (*Registry, error) {
	if len(methods) == 0 {
		return nil, ErrNoMethods
	}
	index := make(map[string]Method, len(methods))
	for _, m := range methods {
		if m == nil {
			return nil, errors.New("payments: nil method registration")
		}
		key := normalize(m.Name())
		if key == "" {
			return nil, fmt.Errorf("payments: invalid method name %q", m.Name())
		}
		if _, dup := index[key]; dup {
			return nil, fmt.Errorf("payments: duplicate method %q", key)
		}
		index[key] = m
	}
	return &Registry{methods: index}, nil
}

// Lookup returns the method registered under name. There is no default:
// an unknown name reports ok=false.
func (r *Registry) Lookup(name string) (Method, bool) {
	if r == nil {
		return nil, false
	}
	m, ok := r.methods[normalize(name)]
	return m, ok
}

// Names lists the registered method names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.methods))
	for k := range r.methods {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
