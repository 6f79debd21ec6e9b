package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/paywebhook/internal/domain/errors"
	"github.com/polkiloo/paywebhook/internal/domain/model"
	"github.com/polkiloo/paywebhook/internal/server/http/dto"
	"github.com/polkiloo/paywebhook/internal/usecase"
)

const internalErrorMessage = "internal processing error"

// WebhookHandler serves processor webhooks and the webhook audit log.
type WebhookHandler struct {
	facade WebhookFacade
	source string
	logger *slog.Logger
}

// NewWebhookHandler constructs WebhookHandler. source names the primary processor.
func NewWebhookHandler(facade WebhookFacade, source string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{facade: facade, source: source, logger: logger}
}

// Payment handles POST /webhooks/<processor>.
func (h *WebhookHandler) Payment(c *gin.Context) {
	defer h.recover(c)

	var req dto.PaymentWebhookRequest
	body, ok := h.decode(c, h.source, &req)
	if !ok {
		return
	}
	result, err := h.facade.ProcessPayment(c.Request.Context(), usecase.PaymentInput{
		OrderID:          req.OrderID,
		ResultCode:       req.ResultCode,
		ConfirmationCode: req.ConfirmationCode,
		AttemptIndex:     string(req.AttemptIndex),
		Payload:          body,
	})
	h.respond(c, result, err)
}

// Refund handles POST /webhooks/refund.
func (h *WebhookHandler) Refund(c *gin.Context) {
	defer h.recover(c)

	var req dto.RefundWebhookRequest
	body, ok := h.decode(c, usecase.SourceRefund, &req)
	if !ok {
		return
	}
	result, err := h.facade.ProcessRefund(c.Request.Context(), usecase.RefundInput{
		OrderID:          req.OrderID,
		ResultCode:       req.ResultCode,
		ConfirmationCode: req.ConfirmationCode,
		AttemptIndex:     string(req.AttemptIndex),
		RefundedAmount:   req.RefundedAmount,
		Payload:          body,
	})
	h.respond(c, result, err)
}

// Mock handles POST /webhooks/mock. It is only routed in development.
func (h *WebhookHandler) Mock(c *gin.Context) {
	defer h.recover(c)

	var req dto.MockWebhookRequest
	body, ok := h.decode(c, usecase.SourceMock, &req)
	if !ok {
		return
	}
	if req.DelayMs < 0 {
		h.facade.RejectWebhook(c.Request.Context(), usecase.SourceMock, body, domainErrors.ErrInvalidPayload)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domainErrors.ErrInvalidPayload.Error()})
		return
	}
	result, err := h.facade.ProcessMock(c.Request.Context(), usecase.MockInput{
		OrderID:      req.OrderID,
		Outcome:      usecase.MockOutcome(req.Status),
		AttemptIndex: string(req.AttemptIndex),
		Delay:        time.Duration(req.DelayMs) * time.Millisecond,
		Payload:      body,
	})
	h.respond(c, result, err)
}

// Logs handles GET /webhooks/logs.
func (h *WebhookHandler) Logs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	entries, err := h.facade.WebhookLogs(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("load webhook logs", slog.String("error", err.Error()))
		c.Status(http.StatusInternalServerError)
		return
	}

	response := dto.WebhookLogsResponse{
		Count:   len(entries),
		Entries: make([]dto.WebhookLogEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		response.Entries = append(response.Entries, toLogEntryResponse(e))
	}
	c.JSON(http.StatusOK, response)
}

func (h *WebhookHandler) decode(c *gin.Context, source string, dst any) (json.RawMessage, bool) {
	body, err := RawBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domainErrors.ErrInvalidPayload.Error()})
		return nil, false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		h.facade.RejectWebhook(c.Request.Context(), source, body, domainErrors.ErrInvalidPayload)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domainErrors.ErrInvalidPayload.Error()})
		return nil, false
	}
	return body, true
}

func (h *WebhookHandler) respond(c *gin.Context, result *usecase.WebhookResult, err error) {
	switch {
	case err == nil && result != nil:
		c.JSON(http.StatusOK, toWebhookResponse(*result))
	case errors.Is(err, domainErrors.ErrMissingOrderID),
		errors.Is(err, domainErrors.ErrMissingResultCode),
		errors.Is(err, domainErrors.ErrInvalidPayload),
		errors.Is(err, domainErrors.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "order not found"})
	default:
		// Internal failures still answer 200.
		c.JSON(http.StatusOK, dto.WebhookResponse{Success: false, Error: internalErrorMessage})
	}
}

func (h *WebhookHandler) recover(c *gin.Context) {
	if r := recover(); r != nil {
		h.logger.Error("webhook handler panic",
			slog.String("path", c.Request.URL.Path),
			slog.Any("panic", r))
		c.AbortWithStatusJSON(http.StatusOK, dto.WebhookResponse{Success: false, Error: internalErrorMessage})
	}
}

func toWebhookResponse(r usecase.WebhookResult) dto.WebhookResponse {
	return dto.WebhookResponse{
		Success:          r.Success,
		Processed:        r.Processed,
		Duplicate:        r.Duplicate,
		AlreadyProcessed: r.AlreadyProcessed,
		OrderID:          r.OrderID,
		Status:           string(r.Status),
		Message:          r.Message,
	}
}

func toLogEntryResponse(e model.WebhookLogEntry) dto.WebhookLogEntryResponse {
	return dto.WebhookLogEntryResponse{
		ID:        e.ID,
		Source:    e.Source,
		Event:     e.Event,
		OrderID:   e.OrderID,
		Payload:   e.Payload,
		Outcome:   string(e.Outcome),
		Message:   e.Message,
		Timestamp: e.Timestamp,
	}
}
