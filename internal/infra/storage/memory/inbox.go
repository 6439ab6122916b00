package memory

import (
	"context"
	"sync"

	"roomrates/internal/app/policies"
)

type Inbox struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

var _ policies.Inbox = (*Inbox)(nil)

func NewInbox() *Inbox {
	return &Inbox{seen: make(map[string]struct{})}
}

func (i *Inbox) Seen(_ context.Context, eventID string) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, ok := i.seen[eventID]
	return ok, nil
}

func (i *Inbox) Mark(_ context.Context, eventID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.seen[eventID] = struct{}{}
	return nil
}
