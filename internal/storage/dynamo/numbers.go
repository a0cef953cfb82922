package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"github.com/imrishuroy/go-purchase-orderflow/internal/domain"
)

// InsertNumber records a drawn random number.
func (s *Store) InsertNumber(ctx context.Context, n *domain.RandomNumber) error {
	id, err := s.nextID(ctx, seqNumbers)
	if err != nil {
		return err
	}
	n.ID = id
	item, err := attributevalue.MarshalMap(numberItem{NumberID: n.ID, Number: n.Number})
	if err != nil {
		return fmt.Errorf("marshal number: %w", err)
	}
	return s.putNew(ctx, s.tables.Numbers, "number_id", item)
}
