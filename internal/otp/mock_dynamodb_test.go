package otp

import (
	"context"
	"errors"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// simpleMock is a minimal in-memory stand-in for the verification table. Items
// are keyed by email_key + record_type. Only the calls the Store makes are
// implemented.
type simpleMock struct {
	mu          sync.Mutex
	table       map[string]map[string]types.AttributeValue
	getCalls    int
	putCalls    int
	deleteCalls int
}

func newSimpleMock() *simpleMock {
	return &simpleMock{table: map[string]map[string]types.AttributeValue{}}
}

func itemKey(attrs map[string]types.AttributeValue) (string, error) {
	ek, ok := attrs["email_key"].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing email_key")
	}
	rt, ok := attrs["record_type"].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing record_type")
	}
	return ek.Value + "|" + rt.Value, nil
}

func (m *simpleMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	k, err := itemKey(params.Item)
	if err != nil {
		return nil, err
	}
	m.table[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *simpleMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	k, err := itemKey(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *simpleMock) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	k, err := itemKey(params.Key)
	if err != nil {
		return nil, err
	}
	item, exists := m.table[k]
	// support ConditionExpression: code = :code
	if params.ConditionExpression != nil && *params.ConditionExpression == "code = :code" {
		want := params.ExpressionAttributeValues[":code"].(*types.AttributeValueMemberS).Value
		if !exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
		have, ok := item["code"].(*types.AttributeValueMemberS)
		if !ok || have.Value != want {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	delete(m.table, k)
	return &dyn.DeleteItemOutput{}, nil
}

// UpdateItem, Query and TransactWriteItems are unused by the OTP store.
func (m *simpleMock) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	return nil, errors.New("not implemented")
}

func (m *simpleMock) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	return nil, errors.New("not implemented")
}

func (m *simpleMock) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	return nil, errors.New("not implemented")
}
