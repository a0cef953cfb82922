package dynamo

import (
	"context"
	"fmt"

	"github.com/imrishuroy/go-purchase-orderflow/internal/domain"
)

// SeedCatalog writes demo customers and products when the customers table is
// empty. It is a no-op otherwise.
func (s *Store) SeedCatalog(ctx context.Context, customers, products int) error {
	_, total, err := s.ListCustomers(ctx, 0, 1)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}
	for i := 1; i <= customers; i++ {
		c := domain.Customer{Name: fmt.Sprintf("Customer %d", i)}
		if err := s.InsertCustomer(ctx, &c); err != nil {
			return fmt.Errorf("seed customer %d: %w", i, err)
		}
	}
	for i := 1; i <= products; i++ {
		p := domain.Product{Name: fmt.Sprintf("Product %d", i)}
		if err := s.InsertProduct(ctx, &p); err != nil {
			return fmt.Errorf("seed product %d: %w", i, err)
		}
	}
	return nil
}
