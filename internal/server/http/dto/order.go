package dto

import "time"

// OrderItem is a line of an order. Prices are in minor currency units.
type OrderItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	UnitPrice   int64  `json:"unitPrice"`
	Quantity    int64  `json:"quantity"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	OrderNumber      string      `json:"orderNumber,omitempty"`
	Items            []OrderItem `json:"items"`
	PaymentMethod    string      `json:"paymentMethod,omitempty"`
	PaymentSessionID string      `json:"paymentSessionId,omitempty"`
	CustomerName     string      `json:"customerName"`
	CustomerEmail    string      `json:"customerEmail"`
}

// OrderResponse describes an order.
type OrderResponse struct {
	ID               string      `json:"id"`
	OrderNumber      string      `json:"orderNumber"`
	Status           string      `json:"status"`
	Items            []OrderItem `json:"items"`
	Subtotal         int64       `json:"subtotal"`
	Tax              int64       `json:"tax"`
	Total            int64       `json:"total"`
	PaymentMethod    string      `json:"paymentMethod"`
	PaymentSessionID *string     `json:"paymentSessionId,omitempty"`
	TransactionID    *string     `json:"transactionId,omitempty"`
	CustomerName     string      `json:"customerName"`
	CustomerEmail    string      `json:"customerEmail"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
	CompletedAt      *time.Time  `json:"completedAt,omitempty"`
}
