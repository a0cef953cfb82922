package catalog

import (
	"context"
	"fmt"
	"math"

	"github.com/imrishuroy/go-purchase-orderflow/internal/domain"
	"github.com/imrishuroy/go-purchase-orderflow/internal/envelope"
)

// DefaultPageSize is used when the caller does not ask for a specific size.
const DefaultPageSize = 10

// MaxPageSize caps a single listing request.
const MaxPageSize = 100

// Repository lists records ordered by id ascending, skipping offset records and
// returning at most limit, together with the total record count.
type Repository interface {
	ListProducts(ctx context.Context, offset, limit int) ([]domain.Product, int, error)
	ListCustomers(ctx context.Context, offset, limit int) ([]domain.Customer, int, error)
}

// Service serves paginated read-only projections of the catalog.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListProducts(ctx context.Context, page, pageSize int) (envelope.Page[domain.Product], error) {
	page, pageSize = Normalize(page, pageSize)
	items, total, err := s.repo.ListProducts(ctx, Offset(page, pageSize), pageSize)
	if err != nil {
		return envelope.Page[domain.Product]{}, fmt.Errorf("list products: %w", err)
	}
	return envelope.NewPage(items, page, pageSize, total), nil
}

func (s *Service) ListCustomers(ctx context.Context, page, pageSize int) (envelope.Page[domain.Customer], error) {
	page, pageSize = Normalize(page, pageSize)
	items, total, err := s.repo.ListCustomers(ctx, Offset(page, pageSize), pageSize)
	if err != nil {
		return envelope.Page[domain.Customer]{}, fmt.Errorf("list customers: %w", err)
	}
	return envelope.NewPage(items, page, pageSize, total), nil
}

// Normalize clamps page to at least 1 and pageSize into [1, MaxPageSize],
// substituting DefaultPageSize for non-positive sizes. It never fails.
func Normalize(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Offset returns the number of records before page. A page so large that the
// product overflows saturates at math.MaxInt, which is past the end of any listing.
func Offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

// Window applies offset/limit to an already ordered slice. Stores that cannot
// skip server-side use it after loading the full ordered set.
func Window[T any](items []T, offset, limit int) []T {
	if offset < 0 || offset >= len(items) || limit <= 0 {
		return []T{}
	}
	end := len(items)
	if limit < end-offset {
		end = offset + limit
	}
	out := make([]T, end-offset)
	copy(out, items[offset:end])
	return out
}
