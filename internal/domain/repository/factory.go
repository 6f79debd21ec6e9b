package repository

import (
	"context"
	"time"
)

// Factory describes access to different domain repositories.
type Factory interface {
	Orders() OrderRepository
	Ledger(window time.Duration) IdempotencyLedger
	WebhookLogs() WebhookLogRepository
	HealthCheck(ctx context.Context) error
	Close()
}
