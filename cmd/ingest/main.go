package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"

	"s3-file-writer/internal/config"
	"s3-file-writer/internal/models"
)

// SendMessageAPI is the subset of *sqs.Client used by the ingest handler.
type SendMessageAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type ingestHandler struct {
	client   SendMessageAPI
	queueURL string
}

func main() {
	settings, err := config.LoadIngest(context.Background())
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	h := &ingestHandler{
		client:   sqs.NewFromConfig(settings.AWSConfig),
		queueURL: settings.SQSQueueURL,
	}
	lambda.Start(h.handleRequest)
}

func (h *ingestHandler) handleRequest(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body, err := requestBody(req)
	if err != nil {
		return jsonResponse(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()}), nil
	}

	requestID := uuid.NewString()
	out, err := h.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(h.queueURL),
		MessageBody: aws.String(body),
	})
	if err != nil {
		log.Printf("failed to enqueue message request_id=%s: %v", requestID, err)
		return jsonResponse(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to enqueue message"}), nil
	}

	resp := models.EnqueueResponse{
		Status:    "enqueued",
		MessageID: aws.ToString(out.MessageId),
		RequestID: requestID,
	}
	log.Printf("enqueued request_id=%s message_id=%s", requestID, resp.MessageID)
	return jsonResponse(http.StatusAccepted, resp), nil
}

// requestBody returns the message to enqueue: a JSON object or non-empty text.
func requestBody(req events.APIGatewayV2HTTPRequest) (string, error) {
	body := req.Body
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return "", errors.New("invalid base64 body")
		}
		body = string(decoded)
	}

	mediaType, _, _ := mime.ParseMediaType(req.Headers["content-type"])
	switch mediaType {
	case "application/json":
		var fields map[string]json.RawMessage
		if err := json.Unmarshal([]byte(body), &fields); err != nil || fields == nil {
			return "", errors.New("body must be a JSON object")
		}
	case "text/plain":
		if strings.TrimSpace(body) == "" {
			return "", errors.New("empty body")
		}
	default:
		return "", errors.New("unsupported content type, use application/json or text/plain")
	}
	return body, nil
}

func jsonResponse(code int, v any) events.APIGatewayV2HTTPResponse {
	payload, _ := json.Marshal(v)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: code,
		Body:       string(payload),
		Headers: map[string]string{
			"content-type": "application/json",
		},
	}
}
