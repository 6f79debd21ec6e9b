package model

import (
	"math"
	"slices"
	"time"
)

// OrderStatus describes order lifecycle stage.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
	OrderStatusCancelled  OrderStatus = "cancelled"

	// Reserved for fulfillment; webhooks never write these.
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
)

// IsTerminal reports whether no further webhook may change the status.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusFailed, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsPipelineStatus reports whether the webhook pipeline may write the status.
func (s OrderStatus) IsPipelineStatus() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusFailed, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// OrderItem is a single order line. Prices are in minor currency units.
type OrderItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	UnitPrice   int64  `json:"unitPrice"`
	Quantity    int64  `json:"quantity"`
}

// LineTotal returns unit price multiplied by quantity; ok is false when the product overflows int64.
func (i OrderItem) LineTotal() (total int64, ok bool) {
	if i.UnitPrice < 0 || i.Quantity < 0 {
		return 0, false
	}
	if i.UnitPrice != 0 && i.Quantity > math.MaxInt64/i.UnitPrice {
		return 0, false
	}
	return i.UnitPrice * i.Quantity, true
}

// Order is the unit tracked by the payment pipeline.
type Order struct {
	ID               string
	OrderNumber      string
	Status           OrderStatus
	Items            []OrderItem
	Subtotal         int64
	Tax              int64
	Total            int64
	PaymentMethod    string
	PaymentSessionID *string
	TransactionID    *string
	CustomerName     string
	CustomerEmail    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
}

// StatusUpdate carries the fields written by a lifecycle transition.
// From lists the stored statuses the update may replace; empty means any non-terminal status.
type StatusUpdate struct {
	Status        OrderStatus
	TransactionID *string
	UpdatedAt     time.Time
	CompletedAt   *time.Time
	From          []OrderStatus
}

// Allows reports whether the update may replace an order currently in status current.
func (u StatusUpdate) Allows(current OrderStatus) bool {
	if current.IsTerminal() {
		return false
	}
	return len(u.From) == 0 || slices.Contains(u.From, current)
}

// Apply writes the update onto the order. Nil optional fields keep existing values.
func (o *Order) Apply(update StatusUpdate) {
	o.Status = update.Status
	o.UpdatedAt = update.UpdatedAt
	if update.TransactionID != nil {
		o.TransactionID = update.TransactionID
	}
	if update.CompletedAt != nil {
		o.CompletedAt = update.CompletedAt
	}
}

// Clone returns a deep copy safe to hand out of a store.
func (o *Order) Clone() *Order {
	c := *o
	c.Items = append([]OrderItem(nil), o.Items...)
	if o.PaymentSessionID != nil {
		v := *o.PaymentSessionID
		c.PaymentSessionID = &v
	}
	if o.TransactionID != nil {
		v := *o.TransactionID
		c.TransactionID = &v
	}
	if o.CompletedAt != nil {
		v := *o.CompletedAt
		c.CompletedAt = &v
	}
	return &c
}

// Totals computes subtotal, tax and total for items with the tax rate in basis points.
// Tax is rounded half up, so subtotal+tax always equals total.
// ok is false when any intermediate amount would not fit in int64.
func Totals(items []OrderItem, taxRateBps int64) (subtotal, tax, total int64, ok bool) {
	if taxRateBps < 0 {
		return 0, 0, 0, false
	}
	for _, item := range items {
		line, lineOK := item.LineTotal()
		if !lineOK || subtotal > math.MaxInt64-line {
			return 0, 0, 0, false
		}
		subtotal += line
	}
	if taxRateBps != 0 && subtotal > (math.MaxInt64-5000)/taxRateBps {
		return 0, 0, 0, false
	}
	tax = (subtotal*taxRateBps + 5000) / 10000
	if subtotal > math.MaxInt64-tax {
		return 0, 0, 0, false
	}
	return subtotal, tax, subtotal + tax, true
}
