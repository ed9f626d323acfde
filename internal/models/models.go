package models

import (
	"net/http"
)

// ConfirmationBody is the JSON-encoded confirmation returned after a full batch.
const ConfirmationBody = `"Files created successfully"`

// StoredObject is the envelope written to S3 for every message.
// Field order is the serialized key order.
type StoredObject struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	MessageID string `json:"message_id"`
}

// Result is returned to the Lambda runtime once every record is stored.
type Result struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// LedgerEntry describes one written object.
type LedgerEntry struct {
	ObjectKey string
	Bucket    string
	MessageID string
	CreatedAt string
}

// EnqueueResponse is returned after enqueueing a message.
type EnqueueResponse struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id"`
	RequestID string `json:"request_id"`
}

// ErrorResponse is the body of a rejected ingest request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Success builds the fixed confirmation result.
func Success() Result {
	return Result{
		StatusCode: http.StatusOK,
		Body:       ConfirmationBody,
	}
}
