package ledger

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"s3-file-writer/internal/models"
)

// PutItemAPI is the subset of *dynamodb.Client used by DynamoLedger.
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoLedger records written objects in a DynamoDB table keyed by object_key.
type DynamoLedger struct {
	table  string
	client PutItemAPI
}

func NewDynamoLedger(client PutItemAPI, table string) *DynamoLedger {
	return &DynamoLedger{table: table, client: client}
}

// Record writes entry unconditionally; an existing item with the same key is replaced.
func (l *DynamoLedger) Record(ctx context.Context, entry models.LedgerEntry) error {
	item := map[string]types.AttributeValue{
		"object_key": &types.AttributeValueMemberS{Value: entry.ObjectKey},
		"bucket":     &types.AttributeValueMemberS{Value: entry.Bucket},
		"message_id": &types.AttributeValueMemberS{Value: entry.MessageID},
		"created_at": &types.AttributeValueMemberS{Value: entry.CreatedAt},
	}

	_, err := l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamodb put error: %w", err)
	}
	return nil
}
