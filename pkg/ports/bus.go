// Package ports declares the boundary interfaces signal actors and
// commands depend on, so that domain and application code never imports a
// concrete transport.
package ports

import "context"

// Message is a single delivery on the bus.
type Message struct {
	Topic   string
	Payload []byte
}

// Handler processes one inbound message. It must not block for long: a
// slow handler delays every other message on the same (publisher, topic)
// pair. redisbus calls a handler on a goroutine it owns per subscription;
// localbus calls it on the publisher's goroutine, inside Publish.
type Handler func(Message)

// RequestHandler answers a request published on a topic registered with
// Respond. Its return value becomes the reply payload. On a returned error,
// redisbus sends no reply, so the caller's Request observes ctx.Err() once
// ctx is done; localbus returns the error from Request directly.
type RequestHandler func(ctx context.Context, payload []byte) ([]byte, error)

// Unsubscribe detaches a previously registered handler. It is safe to call
// more than once.
type Unsubscribe func() error

// Bus is an address-keyed publish/subscribe message bus. Implementations
// must guarantee best-effort delivery and strict FIFO ordering of messages
// published by the same publisher to the same topic, as observed by any
// single subscriber.
type Bus interface {
	// Publish delivers payload to every current subscriber of topic.
	// Whether Publish waits for subscriber processing is adapter-defined:
	// localbus returns only after every handler has run; redisbus returns
	// once Redis has accepted the message.
	Publish(ctx context.Context, topic string, payload []byte) error

	// Subscribe registers handler for every message published to topic
	// from the point of subscription onward. The returned Unsubscribe
	// detaches the handler.
	Subscribe(ctx context.Context, topic string, handler Handler) (Unsubscribe, error)

	// Respond registers a request/reply responder for topic. Only one
	// responder should be active per topic; behavior with more than one
	// is adapter-defined (localbus keeps only the most recently registered
	// responder; redisbus delivers each request to every responder and
	// Request returns the first reply).
	Respond(ctx context.Context, topic string, handler RequestHandler) (Unsubscribe, error)

	// Request publishes payload to topic and waits for the first reply
	// from a responder registered via Respond, or returns ctx.Err() if
	// ctx is done first.
	Request(ctx context.Context, topic string, payload []byte) ([]byte, error)

	// Close releases any resources held by the bus. Subsequent calls to
	// the other methods are not guaranteed to succeed.
	Close() error
}
