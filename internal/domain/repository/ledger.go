package repository

import "context"

// IdempotencyLedger tracks webhook events that were already applied.
type IdempotencyLedger interface {
	Seen(ctx context.Context, key string) (bool, error)
	Record(ctx context.Context, key string) error
}
