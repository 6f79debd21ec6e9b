package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/polkiloo/paywebhook/internal/config"
	domainErrors "github.com/polkiloo/paywebhook/internal/domain/errors"
	"github.com/polkiloo/paywebhook/internal/domain/model"
	"github.com/polkiloo/paywebhook/internal/domain/repository"
	"github.com/polkiloo/paywebhook/internal/metrics"
	"github.com/polkiloo/paywebhook/internal/pkg/keylock"
	"github.com/polkiloo/paywebhook/internal/pkg/responsecode"
)

// Webhook sources besides the configured processor name.
const (
	SourceRefund = "refund"
	SourceMock   = "mock"
)

// Notifier accepts notification requests without blocking the caller.
type Notifier interface {
	NotifyOrderConfirmed(order model.Order)
	NotifyPaymentFailed(order model.Order, reason string)
	NotifyRefundIssued(order model.Order, amount int64)
}

// PaymentInput is a validated processor payment notification.
type PaymentInput struct {
	OrderID          string
	ResultCode       string
	ConfirmationCode string
	AttemptIndex     string
	Payload          json.RawMessage
}

// RefundInput is a processor refund notification. RefundedAmount defaults to the order total.
type RefundInput struct {
	OrderID          string
	ResultCode       string
	ConfirmationCode string
	AttemptIndex     string
	RefundedAmount   *int64
	Payload          json.RawMessage
}

// MockOutcome is the explicit result requested from the development webhook.
type MockOutcome string

const (
	MockSuccess   MockOutcome = "success"
	MockFailed    MockOutcome = "failed"
	MockCancelled MockOutcome = "cancelled"
)

// MockInput drives the pipeline without a processor.
type MockInput struct {
	OrderID      string
	Outcome      MockOutcome
	AttemptIndex string
	Delay        time.Duration
	Payload      json.RawMessage
}

// WebhookResult is the acknowledgment returned to the processor.
type WebhookResult struct {
	Success          bool
	Processed        bool
	Duplicate        bool
	AlreadyProcessed bool
	OrderID          string
	Status           model.OrderStatus
	Message          string
}

// WebhookParams groups WebhookUseCase dependencies.
type WebhookParams struct {
	fx.In

	Config     *config.Config
	Translator *responsecode.Translator
	Ledger     repository.IdempotencyLedger
	Logs       repository.WebhookLogRepository
	Engine     *LifecycleEngine
	Notifier   Notifier
	Logger     *slog.Logger
	Metrics    *metrics.Metrics `optional:"true"`
}

// WebhookUseCase applies processor webhooks to orders exactly once.
type WebhookUseCase struct {
	source        string
	successStatus model.OrderStatus
	storeTimeout  time.Duration
	mockMaxDelay  time.Duration

	translator *responsecode.Translator
	ledger     repository.IdempotencyLedger
	logs       repository.WebhookLogRepository
	engine     *LifecycleEngine
	notifier   Notifier
	locks      *keylock.Locker
	logger     *slog.Logger
	metrics    *metrics.Metrics

	now   func() time.Time
	newID func() string
	sleep func(context.Context, time.Duration)
}

// NewWebhookUseCase constructs WebhookUseCase.
func NewWebhookUseCase(p WebhookParams) *WebhookUseCase {
	successStatus := model.OrderStatus(p.Config.SuccessStatus)
	if successStatus != model.OrderStatusCompleted {
		successStatus = model.OrderStatusProcessing
	}
	return &WebhookUseCase{
		source:        p.Config.ProcessorName,
		successStatus: successStatus,
		storeTimeout:  p.Config.StoreTimeout,
		mockMaxDelay:  p.Config.MockMaxDelay,
		translator:    p.Translator,
		ledger:        p.Ledger,
		logs:          p.Logs,
		engine:        p.Engine,
		notifier:      p.Notifier,
		locks:         keylock.New(),
		logger:        p.Logger,
		metrics:       p.Metrics,
		now:           func() time.Time { return time.Now().UTC() },
		newID:         uuid.NewString,
		sleep:         sleepContext,
	}
}

// Source is the processor name used for primary webhooks.
func (u *WebhookUseCase) Source() string {
	return u.source
}

// transition describes one webhook's requested state change. from limits the stored
// statuses this event may still change; nil means any open order.
type transition struct {
	source        string
	event         string
	key           string
	orderID       string
	target        model.OrderStatus
	transactionID string
	outcome       model.Outcome
	message       string
	payload       json.RawMessage
	from          []model.OrderStatus
}

// ProcessPayment handles a processor payment notification.
func (u *WebhookUseCase) ProcessPayment(ctx context.Context, in PaymentInput) (*WebhookResult, error) {
	started := u.now()
	if err := u.validate(ctx, u.source, in.OrderID, in.ResultCode, in.Payload, started); err != nil {
		return nil, err
	}

	translation := u.translator.Translate(in.ResultCode)
	t := transition{
		source:        u.source,
		event:         model.EventPayment,
		key:           model.NewIdempotencyKey(u.source, in.OrderID, in.AttemptIndex).String(),
		orderID:       in.OrderID,
		target:        u.paymentTarget(translation),
		transactionID: in.ConfirmationCode,
		outcome:       translation.Outcome,
		message:       translation.Message,
		payload:       in.Payload,
		from:          pendingOnly,
	}

	result, order, err := u.run(ctx, t, started)
	if err != nil || order == nil {
		return result, err
	}
	u.notifyPayment(*order, translation)
	return result, nil
}

// ProcessRefund handles a processor refund notification.
func (u *WebhookUseCase) ProcessRefund(ctx context.Context, in RefundInput) (*WebhookResult, error) {
	started := u.now()
	if err := u.validate(ctx, SourceRefund, in.OrderID, in.ResultCode, in.Payload, started); err != nil {
		return nil, err
	}
	if in.RefundedAmount != nil && *in.RefundedAmount < 0 {
		u.reject(ctx, SourceRefund, in.OrderID, in.Payload, domainErrors.ErrInvalidPayload, started)
		return nil, domainErrors.ErrInvalidPayload
	}

	translation := u.translator.Translate(in.ResultCode)
	if translation.Outcome != model.OutcomeSuccess {
		u.record(ctx, u.entry(SourceRefund, model.EventRefund, in.OrderID, in.Payload, model.OutcomeError, translation.Message), started)
		return &WebhookResult{Success: true, OrderID: in.OrderID, Message: translation.Message}, nil
	}

	attempt := in.AttemptIndex
	if attempt == "" {
		attempt = in.ConfirmationCode
	}
	t := transition{
		source:  SourceRefund,
		event:   model.EventRefund,
		key:     model.NewIdempotencyKey(SourceRefund, in.OrderID, attempt).String(),
		orderID: in.OrderID,
		target:  model.OrderStatusCancelled,
		outcome: model.OutcomeSuccess,
		message: "Refund processed",
		payload: in.Payload,
	}

	result, order, err := u.run(ctx, t, started)
	if err != nil || order == nil {
		return result, err
	}
	amount := order.Total
	if in.RefundedAmount != nil {
		amount = *in.RefundedAmount
	}
	u.notifier.NotifyRefundIssued(*order, amount)
	return result, nil
}

// ProcessMock applies an explicit outcome after an optional capped delay.
func (u *WebhookUseCase) ProcessMock(ctx context.Context, in MockInput) (*WebhookResult, error) {
	started := u.now()
	if in.OrderID == "" {
		u.reject(ctx, SourceMock, "", in.Payload, domainErrors.ErrMissingOrderID, started)
		return nil, domainErrors.ErrMissingOrderID
	}

	var (
		target      model.OrderStatus
		translation model.Translation
	)
	switch in.Outcome {
	case MockSuccess:
		target = u.successStatus
		translation = model.Translation{Outcome: model.OutcomeSuccess, Message: "Mock payment succeeded"}
	case MockFailed:
		target = model.OrderStatusFailed
		translation = model.Translation{Outcome: model.OutcomeError, Message: "Mock payment failed"}
	case MockCancelled:
		target = model.OrderStatusCancelled
		translation = model.Translation{Outcome: model.OutcomeError, Message: "Mock payment cancelled by user"}
	default:
		err := fmt.Errorf("%w: mock status %q", domainErrors.ErrInvalidStatus, in.Outcome)
		u.reject(ctx, SourceMock, in.OrderID, in.Payload, err, started)
		return nil, err
	}

	if delay := min(in.Delay, u.mockMaxDelay); delay > 0 {
		u.sleep(ctx, delay)
	}

	t := transition{
		source:  SourceMock,
		event:   model.EventMock,
		key:     model.NewIdempotencyKey(SourceMock, in.OrderID, in.AttemptIndex).String(),
		orderID: in.OrderID,
		target:  target,
		outcome: translation.Outcome,
		message: translation.Message,
		payload: in.Payload,
		from:    pendingOnly,
	}

	result, order, err := u.run(ctx, t, started)
	if err != nil || order == nil {
		return result, err
	}
	u.notifyPayment(*order, translation)
	return result, nil
}

func (u *WebhookUseCase) validate(ctx context.Context, source, orderID, code string, payload json.RawMessage, started time.Time) error {
	switch {
	case orderID == "":
		u.reject(ctx, source, "", payload, domainErrors.ErrMissingOrderID, started)
		return domainErrors.ErrMissingOrderID
	case code == "":
		u.reject(ctx, source, orderID, payload, domainErrors.ErrMissingResultCode, started)
		return domainErrors.ErrMissingResultCode
	}
	return nil
}

// Reject logs a webhook that could not be decoded into an input.
func (u *WebhookUseCase) Reject(ctx context.Context, source string, payload json.RawMessage, err error) {
	u.reject(ctx, source, "", payload, err, u.now())
}

func (u *WebhookUseCase) reject(ctx context.Context, source, orderID string, payload json.RawMessage, err error, started time.Time) {
	u.record(ctx, u.entry(source, model.EventValidationError, orderID, payload, model.OutcomeError, err.Error()), started)
}

func (u *WebhookUseCase) paymentTarget(translation model.Translation) model.OrderStatus {
	switch {
	case translation.Outcome == model.OutcomeSuccess:
		return u.successStatus
	case translation.Code == responsecode.CodeUserCancelled:
		return model.OrderStatusCancelled
	default:
		return model.OrderStatusFailed
	}
}

func (u *WebhookUseCase) notifyPayment(order model.Order, translation model.Translation) {
	if translation.Outcome == model.OutcomeSuccess {
		u.notifier.NotifyOrderConfirmed(order)
		return
	}
	u.notifier.NotifyPaymentFailed(order, translation.Message)
}

// run executes the check-then-act sequence under the per-order lock, then logs.
// A non-nil order is returned only when this call changed it.
func (u *WebhookUseCase) run(ctx context.Context, t transition, started time.Time) (*WebhookResult, *model.Order, error) {
	unlock := u.locks.Lock(t.orderID)
	result, order, entry, err := u.apply(ctx, t)
	unlock()

	u.record(ctx, entry, started)
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		u.logger.Warn("webhook for unknown order", slog.String("source", t.source), slog.String("order_id", t.orderID))
	case err != nil:
		u.logger.Error("webhook processing failed",
			slog.String("source", t.source),
			slog.String("order_id", t.orderID),
			slog.String("key", t.key),
			slog.String("error", err.Error()))
	}
	return result, order, err
}

func (u *WebhookUseCase) apply(ctx context.Context, t transition) (*WebhookResult, *model.Order, model.WebhookLogEntry, error) {
	ctx, cancel := u.storeContext(ctx)
	defer cancel()

	seen, err := u.ledger.Seen(ctx, t.key)
	if err != nil {
		return nil, nil, u.failure(t, err), fmt.Errorf("check idempotency key: %w", err)
	}

	current, err := u.engine.Order(ctx, t.orderID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		entry := u.entry(t.source, model.EventOrderNotFound, t.orderID, t.payload, model.OutcomeError, "order not found")
		return nil, nil, entry, domainErrors.ErrNotFound
	}
	if err != nil {
		return nil, nil, u.failure(t, err), fmt.Errorf("load order: %w", err)
	}
	if seen {
		entry := u.entry(t.source, model.EventDuplicate, t.orderID, t.payload, model.OutcomeSuccess, "duplicate delivery ignored")
		return &WebhookResult{Success: true, Duplicate: true, OrderID: t.orderID, Status: current.Status}, nil, entry, nil
	}
	if !(model.StatusUpdate{From: t.from}).Allows(current.Status) {
		return u.alreadyProcessed(ctx, t, current)
	}

	updated, changed, err := u.engine.Transition(ctx, t.orderID, t.target, t.transactionID, t.from...)
	if err != nil {
		return nil, nil, u.failure(t, err), err
	}
	if !changed {
		return u.alreadyProcessed(ctx, t, updated)
	}

	if err := u.ledger.Record(ctx, t.key); err != nil {
		// The stored status already blocks reapplication, so the key is best effort here.
		u.logger.Warn("record idempotency key failed", slog.String("key", t.key), slog.String("error", err.Error()))
	}

	entry := u.entry(t.source, t.event, t.orderID, t.payload, t.outcome, t.message)
	result := &WebhookResult{
		Success:   true,
		Processed: true,
		OrderID:   t.orderID,
		Status:    updated.Status,
		Message:   t.message,
	}
	return result, updated, entry, nil
}

func (u *WebhookUseCase) alreadyProcessed(ctx context.Context, t transition, current *model.Order) (*WebhookResult, *model.Order, model.WebhookLogEntry, error) {
	if err := u.ledger.Record(ctx, t.key); err != nil {
		return nil, nil, u.failure(t, err), fmt.Errorf("record idempotency key: %w", err)
	}
	message := fmt.Sprintf("order already %s", current.Status)
	entry := u.entry(t.source, model.EventAlreadyProcessed, t.orderID, t.payload, model.OutcomeSuccess, message)
	result := &WebhookResult{
		Success:          true,
		AlreadyProcessed: true,
		OrderID:          t.orderID,
		Status:           current.Status,
		Message:          message,
	}
	return result, nil, entry, nil
}

func (u *WebhookUseCase) failure(t transition, err error) model.WebhookLogEntry {
	return u.entry(t.source, model.EventProcessingError, t.orderID, t.payload, model.OutcomeError, err.Error())
}

func (u *WebhookUseCase) entry(source, event, orderID string, payload json.RawMessage, outcome model.Outcome, message string) model.WebhookLogEntry {
	return model.WebhookLogEntry{
		ID:        u.newID(),
		Source:    source,
		Event:     event,
		OrderID:   orderID,
		Payload:   snapshot(payload),
		Outcome:   outcome,
		Message:   message,
		Timestamp: u.now(),
	}
}

// record appends to the webhook log; failures there never change the response.
func (u *WebhookUseCase) record(ctx context.Context, entry model.WebhookLogEntry, started time.Time) {
	u.metrics.ObserveWebhook(entry.Source, entry.Event, string(entry.Outcome), u.now().Sub(started))

	ctx, cancel := u.storeContext(ctx)
	defer cancel()
	if err := u.logs.Append(ctx, entry); err != nil {
		u.logger.Error("append webhook log failed",
			slog.String("event", entry.Event),
			slog.String("order_id", entry.OrderID),
			slog.String("error", err.Error()))
	}
}

func (u *WebhookUseCase) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if u.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.storeTimeout)
}

// snapshot keeps payload as JSON; undecodable bodies are stored as a JSON string.
func snapshot(payload json.RawMessage) json.RawMessage {
	if len(payload) == 0 || json.Valid(payload) {
		return payload
	}
	quoted, err := json.Marshal(string(payload))
	if err != nil {
		return nil
	}
	return quoted
}

var pendingOnly = []model.OrderStatus{model.OrderStatusPending}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
