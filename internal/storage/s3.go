package storage

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore writes a single object under key.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Bucket() string
}

// PutObjectAPI is the subset of *s3.Client used by S3Store.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes objects into one bucket.
type S3Store struct {
	bucket string
	client PutObjectAPI
}

// NewS3Store returns a store bound to bucket.
func NewS3Store(client PutObjectAPI, bucket string) *S3Store {
	return &S3Store{bucket: bucket, client: client}
}

// Bucket returns the destination bucket name.
func (s *S3Store) Bucket() string {
	return s.bucket
}

// Put uploads body synchronously.
func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put object %s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// Object is a stored body and its content type.
type Object struct {
	Body        []byte
	ContentType string
}

// MemoryStore keeps objects in memory. Later writes to a key overwrite earlier ones.
type MemoryStore struct {
	mu      sync.Mutex
	bucket  string
	objects map[string]Object
	order   []string
}

// NewMemoryStore returns an empty store reporting bucket as its destination.
func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{bucket: bucket, objects: make(map[string]Object)}
}

// Bucket returns the configured bucket name.
func (m *MemoryStore) Bucket() string {
	return m.bucket
}

func (m *MemoryStore) Put(_ context.Context, key string, body []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[key]; !ok {
		m.order = append(m.order, key)
	}
	m.objects[key] = Object{Body: append([]byte(nil), body...), ContentType: contentType}
	return nil
}

// Get returns the object stored under key.
func (m *MemoryStore) Get(key string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	return obj, ok
}

// Keys lists keys in first-write order.
func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}
