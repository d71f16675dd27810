package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/grommetlabs/storefront-api/internal/apperr"
	"github.com/grommetlabs/storefront-api/internal/aws"
)

// Store encapsulates operations on the stock table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewStore returns a Store bound to the stock table.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{client: client, tableName: tableName}
}

func productKey(productID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"product_id": &types.AttributeValueMemberS{Value: productID},
	}
}

// Get fetches a product record. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, productID string) (*Product, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       productKey(productID),
	})
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var p Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

// Reserve decrements stock for one product in a single conditional update.
// The condition guards existence, enablement and sufficient stock, so the
// quantity can never go negative no matter how many submissions race. On
// success the updated product record is returned, carrying the authoritative
// name and unit price for re-pricing.
//
// displayName is the client-supplied item name, used only in failure messages
// when the record itself is absent.
func (s *Store) Reserve(ctx context.Context, productID, displayName string, qty int) (*Product, error) {
	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:           &s.tableName,
		Key:                 productKey(productID),
		UpdateExpression:    awsString("SET stock_quantity = stock_quantity - :q"),
		ConditionExpression: awsString("attribute_exists(product_id) AND enabled = :true AND stock_quantity >= :q"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":q":    &types.AttributeValueMemberN{Value: strconv.Itoa(qty)},
			":true": &types.AttributeValueMemberBOOL{Value: true},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var cf *types.ConditionalCheckFailedException
		if errors.As(err, &cf) {
			return nil, s.attributeFailure(ctx, productID, displayName, qty)
		}
		return nil, fmt.Errorf("reserve stock: %w", err)
	}

	var p Product
	if err := attributevalue.UnmarshalMap(out.Attributes, &p); err != nil {
		return nil, fmt.Errorf("unmarshal reserved product: %w", err)
	}
	return &p, nil
}

// attributeFailure re-reads the record to tell absent / disabled / short stock
// apart after a failed conditional reserve.
func (s *Store) attributeFailure(ctx context.Context, productID, displayName string, qty int) error {
	p, err := s.Get(ctx, productID)
	if err != nil {
		return fmt.Errorf("attribute reserve failure: %w", err)
	}
	if p == nil || !p.Enabled {
		name := displayName
		if p != nil && p.Name != "" {
			name = p.Name
		}
		return apperr.ProductNotFound(productID, name)
	}
	return apperr.InsufficientStock(productID, p.Name, p.StockQuantity, qty)
}

// Release re-increments stock after a reservation that cannot be kept. Used
// only to compensate earlier line items when a later one fails.
func (s *Store) Release(ctx context.Context, productID string, qty int) error {
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:        &s.tableName,
		Key:              productKey(productID),
		UpdateExpression: awsString("ADD stock_quantity :q"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":q": &types.AttributeValueMemberN{Value: strconv.Itoa(qty)},
		},
	})
	if err != nil {
		return fmt.Errorf("release stock: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
