package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"s3-file-writer/internal/config"
	"s3-file-writer/internal/ledger"
	"s3-file-writer/internal/models"
	"s3-file-writer/internal/processor"
	"s3-file-writer/internal/storage"
)

func main() {
	settings, err := config.Load(context.Background())
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	lambda.Start(newHandler(buildProcessor(settings)))
}

func buildProcessor(settings config.Settings) *processor.Processor {
	store := storage.NewS3Store(s3.NewFromConfig(settings.AWSConfig), settings.BucketName)

	var opts []processor.Option
	if settings.LedgerTableName != "" {
		db := dynamodb.NewFromConfig(settings.AWSConfig)
		opts = append(opts, processor.WithLedger(ledger.NewDynamoLedger(db, settings.LedgerTableName)))
	}
	if settings.UniqueObjectKeys {
		opts = append(opts, processor.WithKeySuffix(shortID))
	}
	return processor.New(store, opts...)
}

func newHandler(p *processor.Processor) func(context.Context, events.SQSEvent) (models.Result, error) {
	return func(ctx context.Context, event events.SQSEvent) (models.Result, error) {
		return p.Process(ctx, event.Records)
	}
}

func shortID() string {
	return uuid.NewString()[:8]
}
