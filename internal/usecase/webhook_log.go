package usecase

import (
	"context"

	"github.com/polkiloo/paywebhook/internal/config"
	"github.com/polkiloo/paywebhook/internal/domain/model"
	"github.com/polkiloo/paywebhook/internal/domain/repository"
)

// DefaultLogLimit is used when the caller does not ask for a specific page size.
const DefaultLogLimit = 50

// WebhookLogUseCase serves the audit trail.
type WebhookLogUseCase struct {
	logs     repository.WebhookLogRepository
	maxLimit int
}

func NewWebhookLogUseCase(logs repository.WebhookLogRepository, cfg *config.Config) *WebhookLogUseCase {
	return &WebhookLogUseCase{logs: logs, maxLimit: cfg.WebhookLogMaxLimit}
}

// Recent returns newest entries first. limit is clamped to (0, maxLimit].
func (u *WebhookLogUseCase) Recent(ctx context.Context, limit int) ([]model.WebhookLogEntry, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	if u.maxLimit > 0 && limit > u.maxLimit {
		limit = u.maxLimit
	}
	return u.logs.Recent(ctx, limit)
}
