package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/paywebhook/internal/config"
	domainErrors "github.com/polkiloo/paywebhook/internal/domain/errors"
	"github.com/polkiloo/paywebhook/internal/domain/model"
	"github.com/polkiloo/paywebhook/internal/domain/repository"
)

// CreateOrderInput is what checkout hands over when an order is placed.
type CreateOrderInput struct {
	OrderNumber      string
	Items            []model.OrderItem
	PaymentMethod    string
	PaymentSessionID string
	CustomerName     string
	CustomerEmail    string
}

// OrderUseCase encapsulates order intake and lookup.
type OrderUseCase struct {
	orders     repository.OrderRepository
	taxRateBps int64
	now        func() time.Time
	newID      func() string
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, cfg *config.Config) *OrderUseCase {
	return &OrderUseCase{
		orders:     orders,
		taxRateBps: int64(cfg.TaxRateBps),
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// Create stores a pending order with totals computed in minor units.
func (u *OrderUseCase) Create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	if err := validateOrderInput(in); err != nil {
		return nil, err
	}

	id := u.newID()
	number := strings.TrimSpace(in.OrderNumber)
	if number == "" {
		number = orderNumber(id)
	}
	method := in.PaymentMethod
	if method == "" {
		method = "card"
	}

	subtotal, tax, total, ok := model.Totals(in.Items, u.taxRateBps)
	if !ok {
		return nil, domainErrors.ErrInvalidOrder
	}
	now := u.now()
	order := &model.Order{
		ID:            id,
		OrderNumber:   number,
		Status:        model.OrderStatusPending,
		Items:         append([]model.OrderItem(nil), in.Items...),
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		PaymentMethod: method,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: in.CustomerEmail,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.PaymentSessionID != "" {
		session := in.PaymentSessionID
		order.PaymentSessionID = &session
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// Get returns order by identifier.
func (u *OrderUseCase) Get(ctx context.Context, id string) (*model.Order, error) {
	return u.orders.Get(ctx, id)
}

func orderNumber(id string) string {
	short := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(short) > 10 {
		short = short[:10]
	}
	return "ORD-" + short
}
