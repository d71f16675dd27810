package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/grommetlabs/storefront-api/internal/aws"
)

// ErrOrderIDTaken indicates the generated order id already exists; the caller
// regenerates and retries.
var ErrOrderIDTaken = errors.New("order id already exists")

// Store encapsulates operations on the orders table and the per-customer
// order index table.
type Store struct {
	client          aws.DynamoDBAPI
	ordersTable     string
	userOrdersTable string
}

// NewStore returns a Store bound to both tables.
func NewStore(client aws.DynamoDBAPI, ordersTable, userOrdersTable string) *Store {
	return &Store{
		client:          client,
		ordersTable:     ordersTable,
		userOrdersTable: userOrdersTable,
	}
}

// CreateWithIndexTransaction atomically writes the order record and its index
// entry. The order put is guarded by attribute_not_exists(order_id) so an id
// collision cancels the whole transaction instead of silently overwriting a
// previous order.
func (s *Store) CreateWithIndexTransaction(ctx context.Context, order Order, ref OrderRef) error {
	orderItem, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	refItem, err := attributevalue.MarshalMap(ref)
	if err != nil {
		return fmt.Errorf("marshal order ref: %w", err)
	}

	input := &dyn.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           &s.ordersTable,
					Item:                orderItem,
					ConditionExpression: awsString("attribute_not_exists(order_id)"),
				},
			},
			{
				Put: &types.Put{
					TableName: &s.userOrdersTable,
					Item:      refItem,
				},
			},
		},
	}

	if _, err := s.client.TransactWriteItems(ctx, input); err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			return ErrOrderIDTaken
		}
		// smithy wrapping can hide the typed exception
		var sc smithy.APIError
		if errors.As(err, &sc) && sc.ErrorCode() == "TransactionCanceledException" {
			return ErrOrderIDTaken
		}
		return fmt.Errorf("transact write order: %w", err)
	}
	return nil
}

// Get fetches an order by order_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.ordersTable,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// ListByEmailKey returns the customer's index entries, newest first not
// guaranteed; callers sort if they care.
func (s *Store) ListByEmailKey(ctx context.Context, emailKey string) ([]OrderRef, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.userOrdersTable,
		KeyConditionExpression: awsString("email_key = :ek"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ek": &types.AttributeValueMemberS{Value: emailKey},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query user orders: %w", err)
	}

	refs := make([]OrderRef, 0, len(out.Items))
	for _, item := range out.Items {
		var ref OrderRef
		if err := attributevalue.UnmarshalMap(item, &ref); err != nil {
			return nil, fmt.Errorf("unmarshal order ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func awsString(s string) *string { return &s }
