package usecase

import (
	"context"
	"testing"

	"github.com/polkiloo/paywebhook/internal/config"
	"github.com/polkiloo/paywebhook/internal/domain/model"
)

type limitRecorder struct {
	limit int
}

func (r *limitRecorder) Append(context.Context, model.WebhookLogEntry) error { return nil }

func (r *limitRecorder) Recent(_ context.Context, limit int) ([]model.WebhookLogEntry, error) {
	r.limit = limit
	return nil, nil
}

func TestWebhookLogRecentClampsLimit(t *testing.T) {
	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, DefaultLogLimit},
		{"negative", -3, DefaultLogLimit},
		{"within bounds", 10, 10},
		{"above max", 1000, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &limitRecorder{}
			uc := NewWebhookLogUseCase(rec, &config.Config{WebhookLogMaxLimit: 100})
			if _, err := uc.Recent(context.Background(), tc.limit); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.limit != tc.want {
				t.Fatalf("expected limit %d, got %d", tc.want, rec.limit)
			}
		})
	}
}
