package test

import (
	"context"

	"github.com/polkiloo/paywebhook/internal/domain/model"
	"github.com/polkiloo/paywebhook/internal/domain/repository"
)

// OrderRepositoryStub wraps a repository and injects failures.
type OrderRepositoryStub struct {
	repository.OrderRepository

	GetErr    error
	UpdateErr error
	UpdateFn  func(context.Context, string, model.StatusUpdate) (*model.Order, bool, error)
}

// Get returns GetErr when set, otherwise delegates.
func (s *OrderRepositoryStub) Get(ctx context.Context, id string) (*model.Order, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	return s.OrderRepository.Get(ctx, id)
}

// UpdateStatus returns UpdateErr or calls UpdateFn when set, otherwise delegates.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id string, update model.StatusUpdate) (*model.Order, bool, error) {
	if s.UpdateErr != nil {
		return nil, false, s.UpdateErr
	}
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, update)
	}
	return s.OrderRepository.UpdateStatus(ctx, id, update)
}

// LedgerStub fails Seen or Record on demand.
type LedgerStub struct {
	repository.IdempotencyLedger

	SeenErr   error
	RecordErr error
}

func (s *LedgerStub) Seen(ctx context.Context, key string) (bool, error) {
	if s.SeenErr != nil {
		return false, s.SeenErr
	}
	return s.IdempotencyLedger.Seen(ctx, key)
}

func (s *LedgerStub) Record(ctx context.Context, key string) error {
	if s.RecordErr != nil {
		return s.RecordErr
	}
	return s.IdempotencyLedger.Record(ctx, key)
}

// WebhookLogStub fails appends.
type WebhookLogStub struct {
	AppendErr error
	Entries   []model.WebhookLogEntry
}

func (s *WebhookLogStub) Append(_ context.Context, entry model.WebhookLogEntry) error {
	if s.AppendErr != nil {
		return s.AppendErr
	}
	s.Entries = append(s.Entries, entry)
	return nil
}

func (s *WebhookLogStub) Recent(_ context.Context, limit int) ([]model.WebhookLogEntry, error) {
	if limit > len(s.Entries) {
		limit = len(s.Entries)
	}
	out := make([]model.WebhookLogEntry, 0, limit)
	for i := len(s.Entries) - 1; i >= len(s.Entries)-limit; i-- {
		out = append(out, s.Entries[i])
	}
	return out, nil
}
