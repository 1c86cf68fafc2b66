package stripewebhooks

import (
	"context"
	"sync"
)

type memLedger struct {
	mu   sync.Mutex
	seen map[string]string
}

func newMemLedger() *memLedger {
	return &memLedger{seen: map[string]string{}}
}

func (l *memLedger) Seen(_ context.Context, eventID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[eventID]
	return ok, nil
}

func (l *memLedger) Record(_ context.Context, eventID, _ string, outcome string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[eventID] = outcome
	return nil
}
