package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// tableMock is an in-memory DynamoDB that understands the expressions Store
// issues. pageSize > 0 splits Scan and Query results into pages so the
// LastEvaluatedKey loops get exercised.
type tableMock struct {
	mu       sync.Mutex
	keys     map[string]string // table -> hash key attribute
	tables   map[string]map[string]map[string]types.AttributeValue
	pageSize int
	queries  int
	scans    int
	failWith error
}

func newTableMock(t Tables) *tableMock {
	return &tableMock{
		keys: map[string]string{
			t.Customers: "customer_id",
			t.Orders:    "order_id",
			t.Products:  "product_id",
			t.Numbers:   "number_id",
			t.Counters:  "name",
		},
		tables: map[string]map[string]map[string]types.AttributeValue{},
	}
}

func attrString(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	}
	return ""
}

func (m *tableMock) rows(table string) map[string]map[string]types.AttributeValue {
	rows, ok := m.tables[table]
	if !ok {
		rows = map[string]map[string]types.AttributeValue{}
		m.tables[table] = rows
	}
	return rows
}

// sorted returns table items in a stable order so offsets survive between pages.
func (m *tableMock) sorted(table string) []map[string]types.AttributeValue {
	rows := m.rows(table)
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]map[string]types.AttributeValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, rows[k])
	}
	return out
}

func (m *tableMock) page(start map[string]types.AttributeValue, total int) (int, int, map[string]types.AttributeValue) {
	from := 0
	if start != nil {
		from, _ = strconv.Atoi(attrString(start["__offset"]))
	}
	to := total
	if m.pageSize > 0 && from+m.pageSize < total {
		to = from + m.pageSize
		return from, to, map[string]types.AttributeValue{
			"__offset": &types.AttributeValueMemberN{Value: strconv.Itoa(to)},
		}
	}
	return from, to, nil
}

func (m *tableMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	keyAttr := m.keys[*params.TableName]
	k := attrString(params.Item[keyAttr])
	if k == "" {
		return nil, errors.New("missing key")
	}
	rows := m.rows(*params.TableName)
	if params.ConditionExpression != nil && *params.ConditionExpression == fmt.Sprintf("attribute_not_exists(%s)", keyAttr) {
		if _, ok := rows[k]; ok {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	rows[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *tableMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	k := attrString(params.Key[m.keys[*params.TableName]])
	item, ok := m.rows(*params.TableName)[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *tableMock) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if params.UpdateExpression == nil || !strings.HasPrefix(*params.UpdateExpression, "ADD") {
		return nil, errors.New("only ADD updates are supported")
	}
	keyAttr := m.keys[*params.TableName]
	k := attrString(params.Key[keyAttr])
	rows := m.rows(*params.TableName)
	item, ok := rows[k]
	if !ok {
		item = map[string]types.AttributeValue{keyAttr: params.Key[keyAttr]}
	}
	curr, _ := strconv.ParseInt(attrString(item["value"]), 10, 64)
	inc, _ := strconv.ParseInt(attrString(params.ExpressionAttributeValues[":inc"]), 10, 64)
	item["value"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(curr+inc, 10)}
	rows[k] = item
	return &dyn.UpdateItemOutput{Attributes: map[string]types.AttributeValue{"value": item["value"]}}, nil
}

func (m *tableMock) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	if m.failWith != nil {
		return nil, m.failWith
	}
	vals := params.ExpressionAttributeValues
	cid := attrString(vals[":cid"])
	since, bounded := vals[":since"]

	var matched []map[string]types.AttributeValue
	for _, item := range m.sorted(*params.TableName) {
		if attrString(item["customer_id"]) != cid {
			continue
		}
		if bounded && attrString(item["order_date"]) < attrString(since) {
			continue
		}
		matched = append(matched, item)
	}
	from, to, next := m.page(params.ExclusiveStartKey, len(matched))
	out := &dyn.QueryOutput{Count: int32(to - from), LastEvaluatedKey: next}
	if params.Select != types.SelectCount {
		out.Items = matched[from:to]
	}
	return out, nil
}

func (m *tableMock) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scans++
	if m.failWith != nil {
		return nil, m.failWith
	}
	all := m.sorted(*params.TableName)
	from, to, next := m.page(params.ExclusiveStartKey, len(all))
	return &dyn.ScanOutput{Items: all[from:to], Count: int32(to - from), LastEvaluatedKey: next}, nil
}
