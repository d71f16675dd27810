package catalog

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// stockMock is an in-memory stand-in for the stock table. It honors the two
// update expressions the Store uses, including the conditional guard, so the
// no-oversell behavior can be exercised under real goroutine contention.
type stockMock struct {
	mu    sync.Mutex
	items map[string]Product
}

func newStockMock(products ...Product) *stockMock {
	m := &stockMock{items: map[string]Product{}}
	for _, p := range products {
		m.items[p.ProductID] = p
	}
	return m
}

func (m *stockMock) stock(productID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[productID].StockQuantity
}

func keyID(key map[string]types.AttributeValue) (string, error) {
	id, ok := key["product_id"].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing product_id")
	}
	return id.Value, nil
}

func qtyArg(values map[string]types.AttributeValue) (int, error) {
	n, ok := values[":q"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, errors.New("missing :q")
	}
	return strconv.Atoi(n.Value)
}

func (m *stockMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := keyID(params.Key)
	if err != nil {
		return nil, err
	}
	p, ok := m.items[id]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return nil, err
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *stockMock) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := keyID(params.Key)
	if err != nil {
		return nil, err
	}
	qty, err := qtyArg(params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}

	switch *params.UpdateExpression {
	case "SET stock_quantity = stock_quantity - :q":
		p, ok := m.items[id]
		if !ok || !p.Enabled || p.StockQuantity < qty {
			return nil, &types.ConditionalCheckFailedException{}
		}
		p.StockQuantity -= qty
		m.items[id] = p
		attrs, err := attributevalue.MarshalMap(p)
		if err != nil {
			return nil, err
		}
		return &dyn.UpdateItemOutput{Attributes: attrs}, nil

	case "ADD stock_quantity :q":
		p := m.items[id]
		p.ProductID = id
		p.StockQuantity += qty
		m.items[id] = p
		return &dyn.UpdateItemOutput{}, nil
	}
	return nil, errors.New("unexpected update expression: " + *params.UpdateExpression)
}

func (m *stockMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	return nil, errors.New("not implemented")
}

func (m *stockMock) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	return nil, errors.New("not implemented")
}

func (m *stockMock) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	return nil, errors.New("not implemented")
}

func (m *stockMock) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	return nil, errors.New("not implemented")
}
