package memory

import (
	"context"
	"sync"

	domainErrors "github.com/polkiloo/paywebhook/internal/domain/errors"
	"github.com/polkiloo/paywebhook/internal/domain/model"
)

// OrderStore keeps orders in a map guarded by a mutex. Orders are copied on the way in and out.
// Order numbers are unique like ids; an empty number is not indexed.
type OrderStore struct {
	mu       sync.RWMutex
	orders   map[string]*model.Order
	byNumber map[string]string
}

// NewOrderStore constructs empty store.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders:   make(map[string]*model.Order),
		byNumber: make(map[string]string),
	}
}

func (s *OrderStore) Create(_ context.Context, order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	if order.OrderNumber != "" {
		if _, taken := s.byNumber[order.OrderNumber]; taken {
			return domainErrors.ErrAlreadyExists
		}
		s.byNumber[order.OrderNumber] = order.ID
	}
	s.orders[order.ID] = order.Clone()
	return nil
}

func (s *OrderStore) Get(_ context.Context, id string) (*model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return order.Clone(), nil
}

func (s *OrderStore) UpdateStatus(_ context.Context, id string, update model.StatusUpdate) (*model.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, false, domainErrors.ErrNotFound
	}
	if !update.Allows(order.Status) {
		return order.Clone(), false, nil
	}
	order.Apply(update)
	return order.Clone(), true, nil
}
