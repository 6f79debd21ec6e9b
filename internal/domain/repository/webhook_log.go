package repository

import (
	"context"

	"github.com/polkiloo/paywebhook/internal/domain/model"
)

// WebhookLogRepository stores a bounded audit trail of webhook attempts.
type WebhookLogRepository interface {
	Append(ctx context.Context, entry model.WebhookLogEntry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]model.WebhookLogEntry, error)
}
