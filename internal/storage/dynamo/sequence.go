package dynamo

import (
	"context"
	"fmt"
	"strconv"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Sequence names in the counters table.
const (
	seqOrders    = "orders"
	seqCustomers = "customers"
	seqProducts  = "products"
	seqNumbers   = "numbers"
)

// nextID atomically increments the named counter and returns the new value.
func (s *Store) nextID(ctx context.Context, sequence string) (int64, error) {
	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tables.Counters,
		Key: map[string]types.AttributeValue{
			"name": &types.AttributeValueMemberS{Value: sequence},
		},
		UpdateExpression:         awsString("ADD #v :inc"),
		ExpressionAttributeNames: map[string]string{"#v": "value"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":inc": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("increment %s counter: %w", sequence, err)
	}
	n, ok := out.Attributes["value"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("increment %s counter: missing value in response", sequence)
	}
	id, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s counter: %w", sequence, err)
	}
	return id, nil
}
