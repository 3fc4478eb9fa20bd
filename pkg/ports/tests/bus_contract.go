// Package tests holds implementation-agnostic contract suites that every
// ports.Bus adapter must pass, mirroring the store contract this repo's
// teacher exercised its StateStore adapters with.
package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalmesh/signalmesh/pkg/ports"
)

// RunBusContract exercises newBus (called once per subtest, so adapters can
// return a fresh, isolated instance) against the behavior every ports.Bus
// implementation must provide.
func RunBusContract(t *testing.T, newBus func(t *testing.T) ports.Bus) {
	t.Run("publish and subscribe", func(t *testing.T) {
		bus := newBus(t)
		ctx := context.Background()

		received := make(chan ports.Message, 1)
		unsub, err := bus.Subscribe(ctx, "signals.a.value", func(m ports.Message) {
			received <- m
		})
		require.NoError(t, err)
		defer unsub()

		require.NoError(t, bus.Publish(ctx, "signals.a.value", []byte("hello")))

		select {
		case msg := <-received:
			assert.Equal(t, "signals.a.value", msg.Topic)
			assert.Equal(t, []byte("hello"), msg.Payload)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for message")
		}
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		bus := newBus(t)
		ctx := context.Background()

		received := make(chan ports.Message, 1)
		unsub, err := bus.Subscribe(ctx, "signals.a.value", func(m ports.Message) {
			received <- m
		})
		require.NoError(t, err)
		require.NoError(t, unsub())

		require.NoError(t, bus.Publish(ctx, "signals.a.value", []byte("after unsub")))

		select {
		case <-received:
			t.Fatal("received a message after unsubscribing")
		case <-time.After(200 * time.Millisecond):
		}
	})

	t.Run("topics are isolated", func(t *testing.T) {
		bus := newBus(t)
		ctx := context.Background()

		received := make(chan ports.Message, 1)
		unsub, err := bus.Subscribe(ctx, "signals.a.value", func(m ports.Message) {
			received <- m
		})
		require.NoError(t, err)
		defer unsub()

		require.NoError(t, bus.Publish(ctx, "signals.b.value", []byte("wrong topic")))

		select {
		case <-received:
			t.Fatal("received a message published to a different topic")
		case <-time.After(200 * time.Millisecond):
		}
	})

	t.Run("fifo per publisher and topic", func(t *testing.T) {
		bus := newBus(t)
		ctx := context.Background()

		var order []string
		done := make(chan struct{})
		unsub, err := bus.Subscribe(ctx, "signals.a.value", func(m ports.Message) {
			order = append(order, string(m.Payload))
			if len(order) == 3 {
				close(done)
			}
		})
		require.NoError(t, err)
		defer unsub()

		require.NoError(t, bus.Publish(ctx, "signals.a.value", []byte("1")))
		require.NoError(t, bus.Publish(ctx, "signals.a.value", []byte("2")))
		require.NoError(t, bus.Publish(ctx, "signals.a.value", []byte("3")))

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for all messages")
		}
		assert.Equal(t, []string{"1", "2", "3"}, order)
	})

	t.Run("request and respond", func(t *testing.T) {
		bus := newBus(t)
		ctx := context.Background()

		unsub, err := bus.Respond(ctx, "signals.a.sendGraph", func(ctx context.Context, payload []byte) ([]byte, error) {
			return []byte(`{"id":"a","dependencies":[]}`), nil
		})
		require.NoError(t, err)
		defer unsub()

		reqCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		reply, err := bus.Request(reqCtx, "signals.a.sendGraph", nil)
		require.NoError(t, err)
		assert.Contains(t, string(reply), `"id":"a"`)
	})

	t.Run("request with no responder times out", func(t *testing.T) {
		bus := newBus(t)

		reqCtx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		_, err := bus.Request(reqCtx, "signals.nobody.sendGraph", nil)
		require.Error(t, err)
	})
}
