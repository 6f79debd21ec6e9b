package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/paywebhook/internal/domain/errors"
	"github.com/polkiloo/paywebhook/internal/domain/model"
	"github.com/polkiloo/paywebhook/internal/server/http/dto"
	"github.com/polkiloo/paywebhook/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
	logger *slog.Logger
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{facade: facade, logger: logger}
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid order payload"})
		return
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), usecase.CreateOrderInput{
		OrderNumber:      req.OrderNumber,
		Items:            items,
		PaymentMethod:    req.PaymentMethod,
		PaymentSessionID: req.PaymentSessionID,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidOrder):
			c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "order already exists"})
		default:
			h.logger.Error("create order", slog.String("error", err.Error()))
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "order not found"})
			return
		}
		h.logger.Error("load order", slog.String("order_id", c.Param("id")), slog.String("error", err.Error()))
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	items := make([]dto.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return dto.OrderResponse{
		ID:               order.ID,
		OrderNumber:      order.OrderNumber,
		Status:           string(order.Status),
		Items:            items,
		Subtotal:         order.Subtotal,
		Tax:              order.Tax,
		Total:            order.Total,
		PaymentMethod:    order.PaymentMethod,
		PaymentSessionID: order.PaymentSessionID,
		TransactionID:    order.TransactionID,
		CustomerName:     order.CustomerName,
		CustomerEmail:    order.CustomerEmail,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
		CompletedAt:      order.CompletedAt,
	}
}
