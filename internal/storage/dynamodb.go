package storage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/printstudio/docengine/internal/config"
	ierr "github.com/printstudio/docengine/internal/errors"
)

// DynamoDBStore keeps each key as one item with a string partition key "pk"
type DynamoDBStore struct {
	db        *dynamodb.Client
	tableName string
}

type dynamoItem struct {
	PK        string    `dynamodbav:"pk"`
	Value     string    `dynamodbav:"value"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

func NewDynamoDBStore(ctx context.Context, cfg config.DynamoDBConfig) (*DynamoDBStore, error) {
	if cfg.TableName == "" {
		return nil, ierr.NewError("dynamodb table is not configured").
			WithHint("Set storage.dynamodb.table_name").
			Mark(ierr.ErrConfiguration)
	}

	awsCfg, err := cfg.Load(ctx)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("unable to load AWS SDK config").
			Mark(ierr.ErrConfiguration)
	}

	return &DynamoDBStore{
		db:        dynamodb.NewFromConfig(awsCfg),
		tableName: cfg.TableName,
	}, nil
}

func (s *DynamoDBStore) itemKey(key string) (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMap(struct {
		PK string `dynamodbav:"pk"`
	}{PK: key})
}

func (s *DynamoDBStore) Get(ctx context.Context, key string) ([]byte, error) {
	k, err := s.itemKey(key)
	if err != nil {
		return nil, storageFailed(err, "marshal key", key)
	}

	out, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            k,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, storageFailed(err, "get item", key)
	}
	if len(out.Item) == 0 {
		return nil, notFound(key)
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, storageFailed(err, "unmarshal item", key)
	}
	return []byte(item.Value), nil
}

func (s *DynamoDBStore) Put(ctx context.Context, key string, value []byte) error {
	item, err := attributevalue.MarshalMap(&dynamoItem{
		PK:        key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return storageFailed(err, "marshal item", key)
	}

	_, err = s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return storageFailed(err, "put item", key)
	}
	return nil
}

func (s *DynamoDBStore) Delete(ctx context.Context, key string) error {
	k, err := s.itemKey(key)
	if err != nil {
		return storageFailed(err, "marshal key", key)
	}
	_, err = s.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       k,
	})
	if err != nil {
		return storageFailed(err, "delete item", key)
	}
	return nil
}

func (s *DynamoDBStore) Close() error {
	return nil
}
