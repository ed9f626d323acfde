package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// ErrMissingBucket is returned when S3_BUCKET is not set.
var ErrMissingBucket = errors.New("missing S3_BUCKET")

// ErrMissingQueueURL is returned when SQS_QUEUE_URL is not set.
var ErrMissingQueueURL = errors.New("missing SQS_QUEUE_URL")

// Settings holds resolved configuration for the writer function.
type Settings struct {
	AWSConfig        aws.Config
	BucketName       string
	UniqueObjectKeys bool
	LedgerTableName  string
}

// IngestSettings holds resolved configuration for the ingest function.
type IngestSettings struct {
	AWSConfig   aws.Config
	SQSQueueURL string
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads environment variables and AWS configuration for the writer.
func Load(ctx context.Context) (Settings, error) {
	settings, err := FromEnv(os.LookupEnv)
	if err != nil {
		return Settings{}, err
	}

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("load AWS config: %w", err)
	}
	settings.AWSConfig = awsCfg
	return settings, nil
}

// FromEnv resolves writer settings from lookup without touching AWS.
func FromEnv(lookup LookupFunc) (Settings, error) {
	bucket, _ := lookup("S3_BUCKET")
	if bucket == "" {
		return Settings{}, ErrMissingBucket
	}

	unique := false
	if raw, ok := lookup("UNIQUE_OBJECT_KEYS"); ok && raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid UNIQUE_OBJECT_KEYS %q: %w", raw, err)
		}
		unique = v
	}

	table, _ := lookup("LEDGER_TABLE_NAME")

	return Settings{
		BucketName:       bucket,
		UniqueObjectKeys: unique,
		LedgerTableName:  table,
	}, nil
}

// LoadIngest reads environment variables and AWS configuration for the ingest function.
func LoadIngest(ctx context.Context) (IngestSettings, error) {
	sqsURL := os.Getenv("SQS_QUEUE_URL")
	if sqsURL == "" {
		return IngestSettings{}, ErrMissingQueueURL
	}

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return IngestSettings{}, fmt.Errorf("load AWS config: %w", err)
	}

	return IngestSettings{
		AWSConfig:   awsCfg,
		SQSQueueURL: sqsURL,
	}, nil
}
