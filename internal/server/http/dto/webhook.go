package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// AttemptIndex accepts the processor attempt counter as a JSON string or number.
type AttemptIndex string

func (a *AttemptIndex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AttemptIndex(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("attemptIndex: %w", err)
	}
	*a = AttemptIndex(n.String())
	return nil
}

// PaymentWebhookRequest is the primary processor notification body.
type PaymentWebhookRequest struct {
	OrderID          string       `json:"orderId"`
	ResultCode       string       `json:"resultCode"`
	ConfirmationCode string       `json:"confirmationCode,omitempty"`
	AttemptIndex     AttemptIndex `json:"attemptIndex,omitempty"`
}

// RefundWebhookRequest is the refund notification body. RefundedAmount is in minor units.
type RefundWebhookRequest struct {
	OrderID          string       `json:"orderId"`
	ResultCode       string       `json:"resultCode"`
	ConfirmationCode string       `json:"confirmationCode,omitempty"`
	AttemptIndex     AttemptIndex `json:"attemptIndex,omitempty"`
	RefundedAmount   *int64       `json:"refundedAmount,omitempty"`
}

// MockWebhookRequest drives the pipeline in development.
type MockWebhookRequest struct {
	OrderID      string       `json:"orderId"`
	Status       string       `json:"status"`
	AttemptIndex AttemptIndex `json:"attemptIndex,omitempty"`
	DelayMs      int64        `json:"delayMs,omitempty"`
}

// WebhookResponse acknowledges a webhook to the processor.
type WebhookResponse struct {
	Success          bool   `json:"success"`
	Processed        bool   `json:"processed,omitempty"`
	Duplicate        bool   `json:"duplicate,omitempty"`
	AlreadyProcessed bool   `json:"alreadyProcessed,omitempty"`
	OrderID          string `json:"orderId,omitempty"`
	Status           string `json:"status,omitempty"`
	Message          string `json:"message,omitempty"`
	Error            string `json:"error,omitempty"`
}

// ErrorResponse is returned for rejected requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WebhookLogEntryResponse is one audit record.
type WebhookLogEntryResponse struct {
	ID        string          `json:"id"`
	Source    string          `json:"source"`
	Event     string          `json:"event"`
	OrderID   string          `json:"orderId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Outcome   string          `json:"outcome"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
}

// WebhookLogsResponse lists audit records, most recent first.
type WebhookLogsResponse struct {
	Count   int                       `json:"count"`
	Entries []WebhookLogEntryResponse `json:"entries"`
}
