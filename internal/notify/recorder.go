package notify

import (
	"context"
	"sync"

	"rollcall/internal/account"
	"rollcall/pkg/domain"
)

// Recorder is an in-memory sink that remembers every dispatched event per
// account. It backs unit tests and single-process runs without a broker.
type Recorder struct {
	mu         sync.Mutex
	dispatched map[domain.AccountID][]account.Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{dispatched: make(map[domain.AccountID][]account.Event)}
}

// Dispatch records the event under the account's identifier.
func (r *Recorder) Dispatch(ctx context.Context, id domain.AccountID, ev account.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatched[id] = append(r.dispatched[id], ev)
	return nil
}

// Dispatched returns a copy of the events recorded for the account, in
// dispatch order.
func (r *Recorder) Dispatched(id domain.AccountID) []account.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]account.Event, len(r.dispatched[id]))
	copy(out, r.dispatched[id])
	return out
}
