// Package redisbus implements ports.Bus over Redis PUBLISH/SUBSCRIBE, for
// running a signal mesh across processes.
package redisbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/signalmesh/signalmesh/pkg/ports"
)

// Bus is a Redis-backed ports.Bus.
type Bus struct {
	client *backend.Client
	prefix string

	mu   sync.Mutex
	subs map[string]*backend.PubSub

	replySeq uint64
}

// Option configures a Bus.
type Option func(*Bus)

// WithPrefix namespaces every channel name the Bus uses, so multiple
// meshes can share one Redis instance.
func WithPrefix(prefix string) Option {
	return func(b *Bus) { b.prefix = prefix }
}

// New connects to a Redis server and returns a Bus.
func New(address, password string, db int, opts ...Option) *Bus {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient builds a Bus around an existing Redis client, letting
// callers (and tests, via miniredis) supply their own connection.
func NewFromClient(client *backend.Client, opts ...Option) *Bus {
	b := &Bus{
		client: client,
		prefix: "signalmesh:",
		subs:   make(map[string]*backend.PubSub),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bus) channel(name string) string {
	return b.prefix + name
}

// Publish sends payload to every subscriber of name.
func (b *Bus) Publish(ctx context.Context, name string, payload []byte) error {
	if err := b.client.Publish(ctx, b.channel(name), payload).Err(); err != nil {
		return fmt.Errorf("redisbus: publish %q: %w", name, err)
	}
	return nil
}

// Subscribe registers handler for messages on name. Each call opens its own
// Redis subscription so FIFO order per (publisher, topic) is preserved:
// Redis delivers messages on one channel to one subscription connection in
// publish order, and this implementation dispatches them to handler on a
// single goroutine per subscription.
func (b *Bus) Subscribe(ctx context.Context, name string, handler ports.Handler) (ports.Unsubscribe, error) {
	sub := b.client.Subscribe(ctx, b.channel(name))
	if _, err := sub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("redisbus: subscribe %q: %w", name, err)
	}

	ch := sub.Channel()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handler(ports.Message{Topic: name, Payload: []byte(msg.Payload)})
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() error {
		var err error
		once.Do(func() {
			close(done)
			err = sub.Close()
		})
		return err
	}, nil
}

// envelope wraps a request payload with the private reply channel the
// responder should publish its answer on.
type envelope struct {
	ReplyTo string `json:"replyTo"`
	Payload []byte `json:"payload"`
}

// Respond registers handler as the responder for name. Requests arrive as
// envelopes on the shared topic; handler's result is published back on the
// envelope's private reply channel.
func (b *Bus) Respond(ctx context.Context, name string, handler ports.RequestHandler) (ports.Unsubscribe, error) {
	return b.Subscribe(ctx, name, func(m ports.Message) {
		env, err := decodeEnvelope(m.Payload)
		if err != nil {
			return
		}
		reply, err := handler(ctx, env.Payload)
		if err != nil {
			return
		}
		_ = b.Publish(ctx, env.ReplyTo, reply)
	})
}

// Request publishes an enveloped payload on name carrying a freshly minted
// private reply topic, subscribes to it, and returns the first reply or
// ctx.Err().
func (b *Bus) Request(ctx context.Context, name string, payload []byte) ([]byte, error) {
	replyTopic := b.nextReplyTopic()

	replies := make(chan []byte, 1)
	unsub, err := b.Subscribe(ctx, replyTopic, func(m ports.Message) {
		select {
		case replies <- m.Payload:
		default:
		}
	})
	if err != nil {
		return nil, err
	}
	defer unsub()

	body, err := encodeEnvelope(envelope{ReplyTo: replyTopic, Payload: payload})
	if err != nil {
		return nil, err
	}
	if err := b.Publish(ctx, name, body); err != nil {
		return nil, err
	}

	select {
	case reply := <-replies:
		return reply, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *Bus) nextReplyTopic() string {
	b.mu.Lock()
	b.replySeq++
	seq := b.replySeq
	b.mu.Unlock()
	return fmt.Sprintf("_reply.%d.%d", time.Now().UnixNano(), seq)
}

// Close closes the underlying Redis client.
func (b *Bus) Close() error {
	return b.client.Close()
}
