package memory

import (
	"context"
	"sync"

	"github.com/polkiloo/paywebhook/internal/domain/model"
)

// WebhookLog is a fixed capacity ring; the oldest entry is overwritten when full.
type WebhookLog struct {
	mu      sync.RWMutex
	entries []model.WebhookLogEntry
	next    int
	size    int
}

// NewWebhookLog constructs ring with capacity (at least 1).
func NewWebhookLog(capacity int) *WebhookLog {
	if capacity <= 0 {
		capacity = 1
	}
	return &WebhookLog{entries: make([]model.WebhookLogEntry, capacity)}
}

func (l *WebhookLog) Append(_ context.Context, entry model.WebhookLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[l.next] = entry
	l.next = (l.next + 1) % len(l.entries)
	if l.size < len(l.entries) {
		l.size++
	}
	return nil
}

func (l *WebhookLog) Recent(_ context.Context, limit int) ([]model.WebhookLogEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if limit <= 0 || limit > l.size {
		limit = l.size
	}
	result := make([]model.WebhookLogEntry, 0, limit)
	idx := l.next
	for i := 0; i < limit; i++ {
		idx = (idx - 1 + len(l.entries)) % len(l.entries)
		result = append(result, l.entries[idx])
	}
	return result, nil
}
