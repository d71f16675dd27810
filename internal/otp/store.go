package otp

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/grommetlabs/storefront-api/internal/aws"
)

// Store encapsulates OTP record operations against the verification table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewStore returns a Store bound to the verification table.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
	}
}

func codeKey(emailKey string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"email_key":   &types.AttributeValueMemberS{Value: emailKey},
		"record_type": &types.AttributeValueMemberS{Value: RecordTypeCode},
	}
}

// PutCode writes the pending code slot, overwriting any prior code for the
// same email. Last writer wins; the slot is single-writer in practice.
func (s *Store) PutCode(ctx context.Context, rec CodeRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal code record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put code record: %w", err)
	}
	return nil
}

// GetCode fetches the pending code slot. Returns (nil, nil) if none exists.
func (s *Store) GetCode(ctx context.Context, emailKey string) (*CodeRecord, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       codeKey(emailKey),
	})
	if err != nil {
		return nil, fmt.Errorf("get code record: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec CodeRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal code record: %w", err)
	}
	return &rec, nil
}

// ConsumeCode deletes the slot only while it still holds the given code.
// Returns (false, nil) when the slot is gone or holds a different code, so a
// code can be consumed at most once even under concurrent verify calls.
func (s *Store) ConsumeCode(ctx context.Context, emailKey, code string) (bool, error) {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:           &s.tableName,
		Key:                 codeKey(emailKey),
		ConditionExpression: awsString("code = :code"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":code": &types.AttributeValueMemberS{Value: code},
		},
	})
	if err != nil {
		var cf *types.ConditionalCheckFailedException
		if errors.As(err, &cf) {
			return false, nil
		}
		return false, fmt.Errorf("consume code record: %w", err)
	}
	return true, nil
}

// DeleteCode removes the slot unconditionally. Used on expiry detection.
func (s *Store) DeleteCode(ctx context.Context, emailKey string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key:       codeKey(emailKey),
	})
	if err != nil {
		return fmt.Errorf("delete code record: %w", err)
	}
	return nil
}

// PutVerified writes the verification audit entry.
func (s *Store) PutVerified(ctx context.Context, rec VerifiedRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal verified record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put verified record: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
