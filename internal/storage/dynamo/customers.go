package dynamo

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/go-purchase-orderflow/internal/catalog"
	"github.com/imrishuroy/go-purchase-orderflow/internal/domain"
)

// GetCustomer fetches a customer by id. Returns (nil, nil) if not found.
func (s *Store) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tables.Customers,
		Key: map[string]types.AttributeValue{
			"customer_id": &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var it customerItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal customer: %w", err)
	}
	return &domain.Customer{ID: it.CustomerID, Name: it.Name}, nil
}

// ListCustomers returns customers ordered by id. DynamoDB has no ordered scan,
// so the table is read in full and windowed in memory.
func (s *Store) ListCustomers(ctx context.Context, offset, limit int) ([]domain.Customer, int, error) {
	raw, err := s.scanAll(ctx, s.tables.Customers)
	if err != nil {
		return nil, 0, err
	}
	var items []customerItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, 0, fmt.Errorf("unmarshal customers: %w", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CustomerID < items[j].CustomerID })

	all := make([]domain.Customer, 0, len(items))
	for _, it := range items {
		all = append(all, domain.Customer{ID: it.CustomerID, Name: it.Name})
	}
	return catalog.Window(all, offset, limit), len(all), nil
}

// InsertCustomer stores c, assigning an id when c.ID is zero.
func (s *Store) InsertCustomer(ctx context.Context, c *domain.Customer) error {
	if c.ID == 0 {
		id, err := s.nextID(ctx, seqCustomers)
		if err != nil {
			return err
		}
		c.ID = id
	}
	item, err := attributevalue.MarshalMap(customerItem{CustomerID: c.ID, Name: c.Name})
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}
	return s.putNew(ctx, s.tables.Customers, "customer_id", item)
}

// putNew writes item guarded by attribute_not_exists on its key.
func (s *Store) putNew(ctx context.Context, table, keyAttr string, item map[string]types.AttributeValue) error {
	_, err := s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &table,
		Item:                item,
		ConditionExpression: awsString(fmt.Sprintf("attribute_not_exists(%s)", keyAttr)),
	})
	if err != nil {
		if isConditionalFailure(err) {
			return fmt.Errorf("put %s: %w", table, ErrDuplicateID)
		}
		return fmt.Errorf("put %s: %w", table, err)
	}
	return nil
}
