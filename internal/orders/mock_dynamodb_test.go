package orders

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/grommetlabs/storefront-api/internal/catalog"
)

const (
	testStockTable      = "stock"
	testOrdersTable     = "orders"
	testUserOrdersTable = "user_orders"
)

// mockDynamo backs all three tables the order workflow touches. Requests are
// routed by table name; the stock update honors the conditional decrement so
// reservation and compensation behave like the real table.
type mockDynamo struct {
	mu         sync.Mutex
	stock      map[string]catalog.Product
	orders     map[string]map[string]types.AttributeValue
	userOrders map[string]map[string]types.AttributeValue

	// cancelNextTransact forces the next N transactions to fail as canceled,
	// simulating order id collisions.
	cancelNextTransact int
	// transactErr, when set, fails every transaction outright.
	transactErr   error
	transactCalls int
}

func newMockDynamo(products ...catalog.Product) *mockDynamo {
	m := &mockDynamo{
		stock:      map[string]catalog.Product{},
		orders:     map[string]map[string]types.AttributeValue{},
		userOrders: map[string]map[string]types.AttributeValue{},
	}
	for _, p := range products {
		m.stock[p.ProductID] = p
	}
	return m
}

func (m *mockDynamo) stockOf(productID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stock[productID].StockQuantity
}

func (m *mockDynamo) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func attrString(attrs map[string]types.AttributeValue, name string) (string, error) {
	v, ok := attrs[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing " + name)
	}
	return v.Value, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch *params.TableName {
	case testStockTable:
		id, err := attrString(params.Key, "product_id")
		if err != nil {
			return nil, err
		}
		p, ok := m.stock[id]
		if !ok {
			return &dyn.GetItemOutput{}, nil
		}
		item, err := attributevalue.MarshalMap(p)
		if err != nil {
			return nil, err
		}
		return &dyn.GetItemOutput{Item: item}, nil
	case testOrdersTable:
		id, err := attrString(params.Key, "order_id")
		if err != nil {
			return nil, err
		}
		return &dyn.GetItemOutput{Item: m.orders[id]}, nil
	}
	return nil, errors.New("unexpected table: " + *params.TableName)
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if *params.TableName != testStockTable {
		return nil, errors.New("unexpected table: " + *params.TableName)
	}
	id, err := attrString(params.Key, "product_id")
	if err != nil {
		return nil, err
	}
	n, ok := params.ExpressionAttributeValues[":q"].(*types.AttributeValueMemberN)
	if !ok {
		return nil, errors.New("missing :q")
	}
	qty, err := strconv.Atoi(n.Value)
	if err != nil {
		return nil, err
	}

	switch *params.UpdateExpression {
	case "SET stock_quantity = stock_quantity - :q":
		p, ok := m.stock[id]
		if !ok || !p.Enabled || p.StockQuantity < qty {
			return nil, &types.ConditionalCheckFailedException{}
		}
		p.StockQuantity -= qty
		m.stock[id] = p
		attrs, err := attributevalue.MarshalMap(p)
		if err != nil {
			return nil, err
		}
		return &dyn.UpdateItemOutput{Attributes: attrs}, nil
	case "ADD stock_quantity :q":
		p := m.stock[id]
		p.ProductID = id
		p.StockQuantity += qty
		m.stock[id] = p
		return &dyn.UpdateItemOutput{}, nil
	}
	return nil, errors.New("unexpected update expression: " + *params.UpdateExpression)
}

func (m *mockDynamo) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactCalls++
	if m.transactErr != nil {
		return nil, m.transactErr
	}
	if m.cancelNextTransact > 0 {
		m.cancelNextTransact--
		return nil, &types.TransactionCanceledException{}
	}

	// First pass checks conditions so a rejected transaction writes nothing.
	for _, item := range params.TransactItems {
		if item.Put == nil {
			return nil, errors.New("only Put items supported")
		}
		if item.Put.ConditionExpression != nil && *item.Put.ConditionExpression == "attribute_not_exists(order_id)" {
			id, err := attrString(item.Put.Item, "order_id")
			if err != nil {
				return nil, err
			}
			if _, exists := m.orders[id]; exists {
				return nil, &types.TransactionCanceledException{}
			}
		}
	}

	for _, item := range params.TransactItems {
		switch *item.Put.TableName {
		case testOrdersTable:
			id, err := attrString(item.Put.Item, "order_id")
			if err != nil {
				return nil, err
			}
			m.orders[id] = item.Put.Item
		case testUserOrdersTable:
			ek, err := attrString(item.Put.Item, "email_key")
			if err != nil {
				return nil, err
			}
			id, err := attrString(item.Put.Item, "order_id")
			if err != nil {
				return nil, err
			}
			m.userOrders[ek+"|"+id] = item.Put.Item
		default:
			return nil, errors.New("unexpected table: " + *item.Put.TableName)
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if *params.TableName != testUserOrdersTable {
		return nil, errors.New("unexpected table: " + *params.TableName)
	}
	ek, ok := params.ExpressionAttributeValues[":ek"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing :ek")
	}
	out := &dyn.QueryOutput{}
	for k, item := range m.userOrders {
		if len(k) > len(ek.Value) && k[:len(ek.Value)+1] == ek.Value+"|" {
			out.Items = append(out.Items, item)
		}
	}
	return out, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	return nil, errors.New("not implemented")
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	return nil, errors.New("not implemented")
}
