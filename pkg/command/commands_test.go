package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/signalmesh/signalmesh/pkg/domain"
	"github.com/signalmesh/signalmesh/pkg/ports"
)

func TestIncrement_Execute(t *testing.T) {
	d := newDispatcher()
	a, err := CreateSignal{ID: "a", InitialValue: 1}.Execute(context.Background(), d)
	require.NoError(t, err)
	defer a.Stop()

	require.NoError(t, Increment{ID: "a"}.Execute(context.Background(), d.bus))

	require.Eventually(t, func() bool { return a.Value() == 2 }, time.Second, 10*time.Millisecond)
}

func TestBlockSignal_Execute(t *testing.T) {
	d := newDispatcher()
	a, err := CreateSignal{ID: "a", InitialValue: 1}.Execute(context.Background(), d)
	require.NoError(t, err)
	defer a.Stop()

	require.NoError(t, BlockSignal{ID: "a", Blocked: true}.Execute(context.Background(), d.bus))
	require.Eventually(t, func() bool { return a.Blocked() }, time.Second, 10*time.Millisecond)
}

func TestGlitchSignal_Execute(t *testing.T) {
	d := newDispatcher()
	a, err := CreateSignal{ID: "a", InitialValue: 1}.Execute(context.Background(), d)
	require.NoError(t, err)
	defer a.Stop()

	require.NoError(t, GlitchSignal{ID: "a", Enabled: true}.Execute(context.Background(), d.bus))
	require.Eventually(t, func() bool { return a.GlitchAvoidance() }, time.Second, 10*time.Millisecond)
}

func TestCombineSymbols_Execute(t *testing.T) {
	d := newDispatcher()
	a, err := CreateSignal{ID: "a", InitialValue: 2}.Execute(context.Background(), d)
	require.NoError(t, err)
	defer a.Stop()
	b, err := CreateSignal{ID: "b", InitialValue: 3}.Execute(context.Background(), d)
	require.NoError(t, err)
	defer b.Stop()

	sum, err := CombineSymbols{ID: "sum", Left: "a", Right: "b", Operator: domain.OpAdd}.Execute(context.Background(), d)
	require.NoError(t, err)
	defer sum.Stop()

	bus := d.bus
	received := make(chan int64, 1)
	unsub, err := bus.Subscribe(context.Background(), ports.Topic("sum", ports.ChannelValue), func(m ports.Message) {
		update, err := domain.UnmarshalValueUpdate(m.Payload)
		require.NoError(t, err)
		received <- update.Value
	})
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, Increment{ID: "a"}.Execute(context.Background(), bus))
	require.NoError(t, Increment{ID: "b"}.Execute(context.Background(), bus))

	select {
	case v := <-received:
		require.Equal(t, int64(7), v)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for combined value")
	}
}
