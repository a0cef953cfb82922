package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"github.com/imrishuroy/go-purchase-orderflow/internal/catalog"
	"github.com/imrishuroy/go-purchase-orderflow/internal/domain"
)

// ListProducts returns products ordered by id, windowed in memory.
func (s *Store) ListProducts(ctx context.Context, offset, limit int) ([]domain.Product, int, error) {
	raw, err := s.scanAll(ctx, s.tables.Products)
	if err != nil {
		return nil, 0, err
	}
	var items []productItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, 0, fmt.Errorf("unmarshal products: %w", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	all := make([]domain.Product, 0, len(items))
	for _, it := range items {
		all = append(all, domain.Product{ID: it.ProductID, Name: it.Name})
	}
	return catalog.Window(all, offset, limit), len(all), nil
}

// InsertProduct stores p, assigning an id when p.ID is zero.
func (s *Store) InsertProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == 0 {
		id, err := s.nextID(ctx, seqProducts)
		if err != nil {
			return err
		}
		p.ID = id
	}
	item, err := attributevalue.MarshalMap(productItem{ProductID: p.ID, Name: p.Name})
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	return s.putNew(ctx, s.tables.Products, "product_id", item)
}
