// Package memory keeps orders, the idempotency ledger and the webhook log in process memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/polkiloo/paywebhook/internal/domain/repository"
)

// Storage groups in-memory repositories.
type Storage struct {
	orders *OrderStore
	logs   *WebhookLog
	now    func() time.Time

	ledgerOnce sync.Once
	ledger     *Ledger
}

// New creates storage with webhook log bounded to logCapacity entries.
func New(logCapacity int) *Storage {
	return &Storage{
		orders: NewOrderStore(),
		logs:   NewWebhookLog(logCapacity),
		now:    time.Now,
	}
}

func (s *Storage) Orders() repository.OrderRepository {
	return s.orders
}

// Ledger returns the shared ledger; window is fixed by the first call.
func (s *Storage) Ledger(window time.Duration) repository.IdempotencyLedger {
	s.ledgerOnce.Do(func() {
		s.ledger = NewLedger(window, s.now)
	})
	return s.ledger
}

func (s *Storage) WebhookLogs() repository.WebhookLogRepository {
	return s.logs
}

// HealthCheck always succeeds.
func (s *Storage) HealthCheck(context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Storage) Close() {}
