// Package dynamo implements the service repositories on DynamoDB.
package dynamo

import (
	"context"
	"errors"
	"fmt"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/imrishuroy/go-purchase-orderflow/internal/aws"
)

// Tables names every table the store touches.
type Tables struct {
	Customers string
	Orders    string
	Products  string
	Numbers   string
	Counters  string
	// OrdersByCustomerIndex is a GSI on Orders with hash key customer_id and
	// range key order_date.
	OrdersByCustomerIndex string
}

// DefaultOrdersByCustomerIndex is the GSI name used when none is configured.
const DefaultOrdersByCustomerIndex = "customer_id-order_date-index"

// Store encapsulates customer, order, product and audit-number tables.
type Store struct {
	client aws.DynamoDBAPI
	tables Tables
}

// NewStore creates a new Store.
func NewStore(client aws.DynamoDBAPI, tables Tables) *Store {
	if tables.OrdersByCustomerIndex == "" {
		tables.OrdersByCustomerIndex = DefaultOrdersByCustomerIndex
	}
	return &Store{client: client, tables: tables}
}

// ErrDuplicateID is returned when a generated id collides with an existing item.
var ErrDuplicateID = errors.New("dynamo: item with this id already exists")

// scanAll reads every item of table, following LastEvaluatedKey.
func (s *Store) scanAll(ctx context.Context, table string) ([]map[string]types.AttributeValue, error) {
	var (
		items []map[string]types.AttributeValue
		start map[string]types.AttributeValue
	)
	for {
		out, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName:         &table,
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		start = out.LastEvaluatedKey
	}
}

// count runs a COUNT query, following LastEvaluatedKey.
func (s *Store) count(ctx context.Context, in *dyn.QueryInput) (int, error) {
	in.Select = types.SelectCount
	total := 0
	for {
		out, err := s.client.Query(ctx, in)
		if err != nil {
			return 0, fmt.Errorf("query %s: %w", *in.TableName, err)
		}
		total += int(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			return total, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func isConditionalFailure(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException"
}

func awsString(s string) *string { return &s }
