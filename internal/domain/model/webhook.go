package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Outcome is the result classification of a webhook attempt or a response code.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
)

// Webhook events recorded in the log.
const (
	EventPayment          = "payment"
	EventRefund           = "refund"
	EventMock             = "mock"
	EventValidationError  = "validation_error"
	EventDuplicate        = "duplicate"
	EventAlreadyProcessed = "already_processed"
	EventOrderNotFound    = "order_not_found"
	EventProcessingError  = "processing_error"
)

// WebhookLogEntry is an immutable audit record of one inbound webhook attempt.
type WebhookLogEntry struct {
	ID        string          `json:"id"`
	Source    string          `json:"source"`
	Event     string          `json:"event"`
	OrderID   string          `json:"orderId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Outcome   Outcome         `json:"outcome"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
}

// DefaultAttemptIndex is used when the processor omits the attempt index.
const DefaultAttemptIndex = "default"

// IdempotencyKey identifies a logical webhook event.
type IdempotencyKey struct {
	Source       string
	OrderID      string
	AttemptIndex string
}

// NewIdempotencyKey builds key falling back to DefaultAttemptIndex.
func NewIdempotencyKey(source, orderID, attemptIndex string) IdempotencyKey {
	if attemptIndex == "" {
		attemptIndex = DefaultAttemptIndex
	}
	return IdempotencyKey{Source: source, OrderID: orderID, AttemptIndex: attemptIndex}
}

func (k IdempotencyKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Source, k.OrderID, k.AttemptIndex)
}

// ResponseCodeEntry is a row of the processor response-code table.
type ResponseCodeEntry struct {
	Code             string  `json:"code"`
	Outcome          Outcome `json:"outcome"`
	Message          string  `json:"message"`
	LocalizedMessage string  `json:"localizedMessage,omitempty"`
}

// Translation is the canonical interpretation of a processor code.
// Code is the trimmed code it was looked up by; empty for outcomes not reported by a processor.
type Translation struct {
	Code    string
	Outcome Outcome
	Message string
}
