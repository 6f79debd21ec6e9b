package memory

import (
	"context"
	"sync"
	"time"
)

// Ledger is a set of idempotency keys with optional expiry.
// Entries older than window are evicted; a zero window keeps them forever.
// order keeps keys in insertion order so eviction stops at the first fresh key.
type Ledger struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	entries map[string]time.Time
	order   []string
}

// NewLedger constructs ledger. now defaults to time.Now.
func NewLedger(window time.Duration, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{window: window, now: now, entries: make(map[string]time.Time)}
}

func (l *Ledger) Seen(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evict()
	_, ok := l.entries[key]
	return ok, nil
}

func (l *Ledger) Record(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evict()
	if _, ok := l.entries[key]; ok {
		return nil
	}
	l.entries[key] = l.now()
	l.order = append(l.order, key)
	return nil
}

// Len returns number of live keys.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evict()
	return len(l.entries)
}

func (l *Ledger) evict() {
	if l.window <= 0 {
		return
	}
	cutoff := l.now().Add(-l.window)
	n := 0
	for n < len(l.order) {
		recorded := l.entries[l.order[n]]
		if recorded.After(cutoff) {
			break
		}
		delete(l.entries, l.order[n])
		n++
	}
	if n > 0 {
		l.order = append(l.order[:0], l.order[n:]...)
	}
}
