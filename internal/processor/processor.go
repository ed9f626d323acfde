package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"s3-file-writer/internal/models"
	"s3-file-writer/internal/storage"
)

// TimestampLayout renders UTC time as YYYYMMDD-HHMMSS.
const TimestampLayout = "20060102-150405"

const contentType = "application/json"

var pathSeparators = strings.NewReplacer("/", "-", `\`, "-")

// Ledger records each object after it is written.
type Ledger interface {
	Record(ctx context.Context, entry models.LedgerEntry) error
}

// Error reports the message that stopped a batch.
type Error struct {
	MessageID string
	Key       string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("process message %s: %v", e.MessageID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Processor turns SQS records into S3 objects, one at a time.
type Processor struct {
	store  storage.ObjectStore
	ledger Ledger
	logger *log.Logger
	now    func() time.Time
	suffix func() string
}

// Option configures a Processor.
type Option func(*Processor)

// WithLedger records every written object in l. Ledger failures are logged
// and do not fail the message, whose object is already stored.
func WithLedger(l Ledger) Option {
	return func(p *Processor) { p.ledger = l }
}

// WithLogger sets the destination for diagnostic lines.
func WithLogger(l *log.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithKeySuffix appends "-<suffix>" after the timestamp in every key.
func WithKeySuffix(suffix func() string) Option {
	return func(p *Processor) { p.suffix = suffix }
}

// New returns a Processor writing to store, logging to stdout by default.
func New(store storage.ObjectStore, opts ...Option) *Processor {
	p := &Processor{
		store:  store,
		logger: log.New(os.Stdout, "", log.LstdFlags),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process handles records in order and stops at the first failure.
func (p *Processor) Process(ctx context.Context, records []events.SQSMessage) (models.Result, error) {
	for _, record := range records {
		if err := p.processRecord(ctx, record); err != nil {
			p.logger.Printf("Error processing message: %v", err)
			return models.Result{}, err
		}
	}
	return models.Success(), nil
}

func (p *Processor) processRecord(ctx context.Context, record events.SQSMessage) error {
	body := record.Body
	name := Sanitize(NameSource(body))
	timestamp := p.now().UTC().Format(TimestampLayout)

	var suffix string
	if p.suffix != nil {
		suffix = p.suffix()
	}
	key := ObjectKey(name, timestamp, suffix)

	payload, err := EncodeObject(models.StoredObject{
		Message:   body,
		Timestamp: timestamp,
		MessageID: record.MessageId,
	})
	if err != nil {
		return &Error{MessageID: record.MessageId, Key: key, Err: err}
	}

	if err := p.store.Put(ctx, key, payload, contentType); err != nil {
		return &Error{MessageID: record.MessageId, Key: key, Err: err}
	}

	if p.ledger != nil {
		err := p.ledger.Record(ctx, models.LedgerEntry{
			ObjectKey: key,
			Bucket:    p.store.Bucket(),
			MessageID: record.MessageId,
			CreatedAt: timestamp,
		})
		if err != nil {
			p.logger.Printf("Ledger record failed for file: %s message: %s: %v", key, record.MessageId, err)
		}
	}

	p.logger.Printf("Successfully created file: %s in bucket: %s", key, p.store.Bucket())
	return nil
}

// NameSource returns the "filename" field of a JSON object body, or body itself
// when the body is not a JSON object or has no string filename.
// encoding/json rejects NaN and Infinity, so bodies using them fall back too.
func NameSource(body string) string {
	var fields map[string]any
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return body
	}
	if name, ok := fields["filename"].(string); ok {
		return name
	}
	return body
}

// Sanitize trims whitespace and replaces path separators with "-".
func Sanitize(name string) string {
	return pathSeparators.Replace(strings.TrimSpace(name))
}

// ObjectKey composes "{name}-{timestamp}.txt", with an optional suffix before the extension.
func ObjectKey(name, timestamp, suffix string) string {
	if suffix == "" {
		return fmt.Sprintf("%s-%s.txt", name, timestamp)
	}
	return fmt.Sprintf("%s-%s-%s.txt", name, timestamp, suffix)
}

// EncodeObject renders obj as two-space indented JSON without a trailing newline.
func EncodeObject(obj models.StoredObject) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(obj); err != nil {
		return nil, fmt.Errorf("encode stored object: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
