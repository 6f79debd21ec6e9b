package model

import "time"

// NotificationKind names a customer-facing notification.
type NotificationKind string

const (
	NotificationOrderConfirmed NotificationKind = "order_confirmed"
	NotificationPaymentFailed  NotificationKind = "payment_failed"
	NotificationRefundIssued   NotificationKind = "refund_issued"
)

// Notification is the message handed to notification sinks.
type Notification struct {
	ID            string           `json:"id"`
	Kind          NotificationKind `json:"kind"`
	OrderID       string           `json:"orderId"`
	OrderNumber   string           `json:"orderNumber"`
	Status        OrderStatus      `json:"status"`
	CustomerName  string           `json:"customerName"`
	CustomerEmail string           `json:"customerEmail"`
	Total         int64            `json:"total"`
	Amount        int64            `json:"amount,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}
