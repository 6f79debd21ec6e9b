// Package mailer posts customer notifications to an email delivery service.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/polkiloo/paywebhook/internal/domain/model"
)

// TooManyRequestsError represents rate limiting signal from the email service.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// HTTPClient delivers notifications as JSON over HTTP.
type HTTPClient struct {
	endpoint   *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// message mirrors JSON payload accepted by the email service.
type message struct {
	ID        string                 `json:"id"`
	Template  model.NotificationKind `json:"template"`
	To        recipient              `json:"to"`
	Order     orderSummary           `json:"order"`
	Amount    int64                  `json:"amount,omitempty"`
	Reason    string                 `json:"reason,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

type recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type orderSummary struct {
	ID     string            `json:"id"`
	Number string            `json:"number"`
	Status model.OrderStatus `json:"status"`
	Total  int64             `json:"total"`
}

// NewHTTPClient creates HTTP mailer client with default timeout.
func NewHTTPClient(endpoint string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse notify endpoint: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("notify endpoint must be absolute")
	}
	return &HTTPClient{
		endpoint: parsed,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (c *HTTPClient) Name() string { return "mailer" }

// Deliver posts notification. The Idempotency-Key header carries the notification id.
func (c *HTTPClient) Deliver(ctx context.Context, n model.Notification) error {
	body, err := json.Marshal(message{
		ID:       n.ID,
		Template: n.Kind,
		To:       recipient{Name: n.CustomerName, Email: n.CustomerEmail},
		Order: orderSummary{
			ID:     n.OrderID,
			Number: n.OrderNumber,
			Status: n.Status,
			Total:  n.Total,
		},
		Amount:    n.Amount,
		Reason:    n.Reason,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", n.ID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("mailer request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(respBody)))
		return fmt.Errorf("mailer error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
