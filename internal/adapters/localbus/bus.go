// Package localbus implements ports.Bus in process memory. It is the
// default transport for a single-process signal mesh and the fixture every
// other Bus adapter's contract test is compared against.
package localbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/signalmesh/signalmesh/pkg/ports"
)

// Bus is an in-memory, goroutine-safe ports.Bus. It has no dispatch
// goroutines of its own: Publish runs every subscriber's handler on the
// publisher's goroutine and returns only after they have all returned, so
// messages from one publisher to one topic reach each subscriber in publish
// order.
type Bus struct {
	mu       sync.Mutex
	topics   map[string]*topic
	closed   bool
	reqSeq   uint64
}

type topic struct {
	mu        sync.Mutex
	handlers  map[int]ports.Handler
	responder ports.RequestHandler
	nextID    int
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{topics: make(map[string]*topic)}
}

func (b *Bus) topicFor(name string) *topic {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.topics[name]
	if !ok {
		t = &topic{handlers: make(map[int]ports.Handler)}
		b.topics[name] = t
	}
	return t
}

// Publish delivers payload to every subscriber of name, synchronously; the
// order in which the subscribers of one topic are called is not defined.
// Since each topic is only ever touched by callers
// holding b's lock briefly to look it up, and delivery runs outside that
// lock, one slow handler does not block publishes on other topics.
func (b *Bus) Publish(ctx context.Context, name string, payload []byte) error {
	t := b.topicFor(name)
	t.mu.Lock()
	handlers := make([]ports.Handler, 0, len(t.handlers))
	for _, h := range t.handlers {
		handlers = append(handlers, h)
	}
	t.mu.Unlock()

	msg := ports.Message{Topic: name, Payload: payload}
	for _, h := range handlers {
		h(msg)
	}
	return nil
}

// Subscribe registers handler on name.
func (b *Bus) Subscribe(ctx context.Context, name string, handler ports.Handler) (ports.Unsubscribe, error) {
	t := b.topicFor(name)
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.handlers[id] = handler
	t.mu.Unlock()

	return func() error {
		t.mu.Lock()
		delete(t.handlers, id)
		t.mu.Unlock()
		return nil
	}, nil
}

// Respond registers handler as the sole responder for name.
func (b *Bus) Respond(ctx context.Context, name string, handler ports.RequestHandler) (ports.Unsubscribe, error) {
	t := b.topicFor(name)
	t.mu.Lock()
	t.responder = handler
	t.mu.Unlock()

	return func() error {
		t.mu.Lock()
		t.responder = nil
		t.mu.Unlock()
		return nil
	}, nil
}

// Request invokes the registered responder for name directly; there is no
// network hop to simulate in-process.
func (b *Bus) Request(ctx context.Context, name string, payload []byte) ([]byte, error) {
	t := b.topicFor(name)
	t.mu.Lock()
	responder := t.responder
	t.mu.Unlock()

	if responder == nil {
		return nil, fmt.Errorf("localbus: no responder registered for %q", name)
	}
	return responder(ctx, payload)
}

// Close is a no-op: there is no underlying connection to release.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
