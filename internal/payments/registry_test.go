package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedMethod struct{ name string }

func (n namedMethod) Name() string { return n.name }
func (namedMethod) Pay(context.Context, decimal.Decimal, int64) (bool, error) {
	return true, nil
}

func TestNewRegistry(t *testing.T) {
	t.Run("requires at least one method", func(t *testing.T) {
		_, err := NewRegistry()
		require.ErrorIs(t, err, ErrNoMethods)
	})

	t.Run("rejects blank names", func(t *testing.T) {
		_, err := NewRegistry(namedMethod{name: "  "})
		require.Error(t, err)
	})

	t.Run("rejects duplicates ignoring case", func(t *testing.T) {
		_, err := NewRegistry(namedMethod{name: "pix"}, namedMethod{name: "PIX"})
		require.Error(t, err)
	})

	t.Run("rejects nil", func(t *testing.T) {
		_, err := NewRegistry(nil)
		require.Error(t, err)
	})
}

func TestRegistryLookup(t *testing.T) {
	r, err := NewRegistry(Builtin()...)
	require.NoError(t, err)

	for _, name := range []string{"pix", "PIX", " Pix ", "CreditCard", "paypal", "PayPal"} {
		m, ok := r.Lookup(name)
		assert.Truef(t, ok, "expected %q to resolve", name)
		assert.NotNil(t, m)
	}

	_, ok := r.Lookup("unknownmethod")
	assert.False(t, ok)
	_, ok = r.Lookup("")
	assert.False(t, ok)

	assert.Equal(t, []string{"creditcard", "paypal", "pix"}, r.Names())
}

func TestNilRegistryLookup(t *testing.T) {
	var r *Registry
	_, ok := r.Lookup("pix")
	assert.False(t, ok)
	assert.Nil(t, r.Names())
}

func TestBuiltinMethodsSettle(t *testing.T) {
	for _, m := range Builtin() {
		ok, err := m.Pay(context.Background(), decimal.NewFromInt(10), 1)
		require.NoError(t, err)
		assert.Truef(t, ok, "%s should settle", m.Name())
	}
}

func TestBuiltinMethodsHonourCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := Pix{}.Pay(ctx, decimal.NewFromInt(10), 1)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSelect(t *testing.T) {
	all, err := Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := Select([]string{"PIX", "paypal"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "pix", some[0].Name())
	assert.Equal(t, "paypal", some[1].Name())

	_, err = Select([]string{"boleto"})
	require.Error(t, err)
}
