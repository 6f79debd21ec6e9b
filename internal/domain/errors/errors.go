package errors

import "errors"

var (
	ErrAlreadyExists     = errors.New("already exists")
	ErrNotFound          = errors.New("not found")
	ErrMissingOrderID    = errors.New("orderId is required")
	ErrMissingResultCode = errors.New("resultCode is required")
	ErrInvalidPayload    = errors.New("invalid webhook payload")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidOrder      = errors.New("invalid order")
	ErrInvalidSignature  = errors.New("invalid webhook signature")
)
