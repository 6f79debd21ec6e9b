// Package websocket pushes order status changes to connected browsers.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/polkiloo/paywebhook/internal/domain/model"
)

// OrderUpdate is the message pushed to subscribers of an order.
type OrderUpdate struct {
	OrderID string                 `json:"orderId"`
	Status  model.OrderStatus      `json:"status"`
	Kind    model.NotificationKind `json:"kind,omitempty"`
	Amount  int64                  `json:"amount,omitempty"`
	Reason  string                 `json:"reason,omitempty"`
}

// Hub tracks clients per order id. All client bookkeeping happens on the Run goroutine.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan OrderUpdate
	clients    map[string]map[*Client]bool
	logger     *slog.Logger

	done   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan OrderUpdate, 64),
		clients:    make(map[string]map[*Client]bool),
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Start runs the hub until Stop is called or ctx is cancelled.
func (h *Hub) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.Run(runCtx)
	}()
}

// Stop disconnects every client and waits for the hub to exit.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.mu.Unlock()
	h.wg.Wait()
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			set, ok := h.clients[c.orderID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[c.orderID] = set
			}
			set[c] = true
		case c := <-h.unregister:
			h.remove(c)
		case upd := <-h.broadcast:
			msg, err := json.Marshal(upd)
			if err != nil {
				h.logger.Error("encode order update", slog.String("error", err.Error()))
				continue
			}
			for c := range h.clients[upd.OrderID] {
				select {
				case c.send <- msg:
				default:
					h.remove(c)
				}
			}
		case <-ctx.Done():
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			return
		}
	}
}

func (h *Hub) remove(c *Client) {
	set, ok := h.clients[c.orderID]
	if !ok {
		return
	}
	if _, exists := set[c]; exists {
		delete(set, c)
		close(c.send)
	}
	if len(set) == 0 {
		delete(h.clients, c.orderID)
	}
}

func (h *Hub) Name() string { return "websocket" }

// Deliver forwards the notification to subscribers of its order.
func (h *Hub) Deliver(ctx context.Context, n model.Notification) error {
	upd := OrderUpdate{OrderID: n.OrderID, Status: n.Status, Kind: n.Kind, Amount: n.Amount, Reason: n.Reason}
	select {
	case h.broadcast <- upd:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) subscribe(ctx context.Context, c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	case <-ctx.Done():
		return false
	}
}

func (h *Hub) unsubscribe(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
