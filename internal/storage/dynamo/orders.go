package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/go-purchase-orderflow/internal/domain"
)

// InsertOrder assigns the next order id and writes the order. OrderDate is
// normalised to UTC before it is stored.
func (s *Store) InsertOrder(ctx context.Context, order *domain.Order) error {
	id, err := s.nextID(ctx, seqOrders)
	if err != nil {
		return err
	}
	order.ID = id
	order.OrderDate = order.OrderDate.UTC()

	item, err := attributevalue.MarshalMap(newOrderItem(*order))
	if err != nil {
		return fmt.Errorf("marshal order item: %w", err)
	}
	return s.putNew(ctx, s.tables.Orders, "order_id", item)
}

// GetOrder fetches an order by id. Returns (nil, nil) if not found.
func (s *Store) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tables.Orders,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	o, err := it.toDomain()
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CountOrdersSince counts the customer's orders dated at or after since.
func (s *Store) CountOrdersSince(ctx context.Context, customerID int64, since time.Time) (int, error) {
	return s.count(ctx, &dyn.QueryInput{
		TableName:              &s.tables.Orders,
		IndexName:              &s.tables.OrdersByCustomerIndex,
		KeyConditionExpression: awsString("customer_id = :cid AND order_date >= :since"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid":   &types.AttributeValueMemberN{Value: strconv.FormatInt(customerID, 10)},
			":since": &types.AttributeValueMemberS{Value: formatOrderDate(since)},
		},
	})
}

// CountOrders counts all of the customer's orders.
func (s *Store) CountOrders(ctx context.Context, customerID int64) (int, error) {
	return s.count(ctx, &dyn.QueryInput{
		TableName:              &s.tables.Orders,
		IndexName:              &s.tables.OrdersByCustomerIndex,
		KeyConditionExpression: awsString("customer_id = :cid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": &types.AttributeValueMemberN{Value: strconv.FormatInt(customerID, 10)},
		},
	})
}
