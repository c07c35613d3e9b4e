// Package notify delivers committed account events to interested listeners.
//
// Listeners subscribe by event kind in a Registry that is built once at
// process start and read-only afterwards; the Dispatcher fans each event out
// to the listeners registered for its kind. The unit of work feeds the
// dispatcher, so listeners only ever see durably appended events.
package notify

import (
	"context"
	"fmt"

	"rollcall/internal/account"
	"rollcall/pkg/domain"
)

// Listener handles one committed event for one account.
type Listener interface {
	Handle(ctx context.Context, id domain.AccountID, ev account.Event) error
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(ctx context.Context, id domain.AccountID, ev account.Event) error

func (f ListenerFunc) Handle(ctx context.Context, id domain.AccountID, ev account.Event) error {
	return f(ctx, id, ev)
}

// Registry maps event kinds to their listeners. Subscribe during startup
// wiring only; the registry is not synchronized and must be read-only once
// dispatching begins.
type Registry struct {
	listeners map[string][]Listener
}

// NewRegistry creates an empty listener registry.
func NewRegistry() *Registry {
	return &Registry{listeners: make(map[string][]Listener)}
}

// Subscribe registers a listener for an event kind.
func (r *Registry) Subscribe(kind string, l Listener) {
	r.listeners[kind] = append(r.listeners[kind], l)
}

// ListenersFor returns the listeners registered for the kind.
func (r *Registry) ListenersFor(kind string) []Listener {
	return r.listeners[kind]
}

// Dispatcher fans committed events out to registered listeners. It is the
// notification sink the unit of work commits through.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher builds a dispatcher over a registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch delivers one event to every listener registered for its kind, in
// subscription order. The first listener failure stops delivery and is
// returned to the caller; by then the event is already durable, so recovery
// is redelivery at this layer, never a storage rollback.
func (d *Dispatcher) Dispatch(ctx context.Context, id domain.AccountID, ev account.Event) error {
	for _, l := range d.registry.ListenersFor(ev.Kind()) {
		if err := l.Handle(ctx, id, ev); err != nil {
			return fmt.Errorf("dispatch %s for account %s: %w", ev.Kind(), id, err)
		}
	}
	return nil
}
