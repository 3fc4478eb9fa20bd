package signal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/signalmesh/signalmesh/internal/adapters/localbus"
	"github.com/signalmesh/signalmesh/pkg/domain"
	"github.com/signalmesh/signalmesh/pkg/ports"
)

// expectValue subscribes to topic immediately and returns a function that
// waits for an update carrying want. Call it before publishing the message
// that triggers the update: localbus delivers synchronously, so an update
// published before the subscription exists is never observed.
func expectValue(t *testing.T, bus ports.Bus, topic string, want int64) func() domain.ValueUpdate {
	t.Helper()
	received := make(chan domain.ValueUpdate, 1)
	unsub, err := bus.Subscribe(context.Background(), topic, func(m ports.Message) {
		update, err := domain.UnmarshalValueUpdate(m.Payload)
		require.NoError(t, err)
		if update.Value == want {
			select {
			case received <- update:
			default:
			}
		}
	})
	require.NoError(t, err)

	return func() domain.ValueUpdate {
		t.Helper()
		defer unsub()
		select {
		case u := <-received:
			return u
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s == %d", topic, want)
			return domain.ValueUpdate{}
		}
	}
}

func spawnLeaf(t *testing.T, bus ports.Bus, id string, initial int64) *Actor {
	t.Helper()
	a, err := Spawn(context.Background(), domain.SignalConfig{ID: id, InitialValue: &initial}, bus)
	require.NoError(t, err)
	t.Cleanup(a.Stop)
	return a
}

func TestActor_Leaf(t *testing.T) {
	bus := localbus.New()
	a := spawnLeaf(t, bus, "a", 1)

	require.Equal(t, int64(1), a.Value())
	require.True(t, a.Graph().IsLeaf())
}

func TestActor_Increment(t *testing.T) {
	bus := localbus.New()
	a := spawnLeaf(t, bus, "a", 5)

	wait := expectValue(t, bus, ports.Topic("a", ports.ChannelValue), 6)
	require.NoError(t, bus.Publish(context.Background(), ports.Topic("a", ports.ChannelIncrement), nil))

	wait()
	require.Equal(t, int64(6), a.Value())
}

func TestActor_MapSignal(t *testing.T) {
	bus := localbus.New()
	spawnLeaf(t, bus, "a", 10)

	mapped, err := Spawn(context.Background(), domain.SignalConfig{
		ID:           "b",
		Operator:     domain.OpIdentity,
		Dependencies: []string{"a"},
	}, bus)
	require.NoError(t, err)
	t.Cleanup(mapped.Stop)

	wait := expectValue(t, bus, ports.Topic("b", ports.ChannelValue), 11)
	require.NoError(t, bus.Publish(context.Background(), ports.Topic("a", ports.ChannelIncrement), nil))
	wait()
}

func TestActor_CombineFanIn(t *testing.T) {
	bus := localbus.New()
	spawnLeaf(t, bus, "a", 2)
	spawnLeaf(t, bus, "b", 3)

	sum, err := Spawn(context.Background(), domain.SignalConfig{
		ID:           "sum",
		Operator:     domain.OpAdd,
		Dependencies: []string{"a", "b"},
	}, bus)
	require.NoError(t, err)
	t.Cleanup(sum.Stop)

	// Neither upstream has broadcast yet (sendGraph only resolves
	// structure, not a current value), so fan-in only completes once
	// both have fired at least once.
	waitSeven := expectValue(t, bus, ports.Topic("sum", ports.ChannelValue), 7)
	require.NoError(t, bus.Publish(context.Background(), ports.Topic("a", ports.ChannelIncrement), nil))
	require.NoError(t, bus.Publish(context.Background(), ports.Topic("b", ports.ChannelIncrement), nil))
	waitSeven()

	waitEight := expectValue(t, bus, ports.Topic("sum", ports.ChannelValue), 8)
	require.NoError(t, bus.Publish(context.Background(), ports.Topic("a", ports.ChannelIncrement), nil))
	waitEight()
}

func TestActor_Block(t *testing.T) {
	bus := localbus.New()
	a := spawnLeaf(t, bus, "a", 1)

	payload, err := domain.MarshalBool(true)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), ports.Topic("a", ports.ChannelBlock), payload))

	received := make(chan struct{}, 1)
	unsub, err := bus.Subscribe(context.Background(), ports.Topic("a", ports.ChannelValue), func(ports.Message) {
		received <- struct{}{}
	})
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, bus.Publish(context.Background(), ports.Topic("a", ports.ChannelIncrement), nil))

	select {
	case <-received:
		t.Fatal("blocked signal should not broadcast")
	case <-time.After(200 * time.Millisecond):
	}
	require.Equal(t, int64(2), a.Value())
	require.True(t, a.Blocked())
}

func TestActor_DivideByZeroLeavesValueUnchanged(t *testing.T) {
	bus := localbus.New()
	spawnLeaf(t, bus, "a", 10)
	spawnLeaf(t, bus, "zero", 0)

	initial := int64(99)
	quotient, err := Spawn(context.Background(), domain.SignalConfig{
		ID:           "q",
		InitialValue: &initial,
		Operator:     domain.OpDiv,
		Dependencies: []string{"a", "zero"},
	}, bus)
	require.NoError(t, err)
	t.Cleanup(quotient.Stop)

	publishValue(t, bus, "a", 10)
	publishValue(t, bus, "zero", 0)

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int64(99), quotient.Value())
}

func publishValue(t *testing.T, bus ports.Bus, id string, value int64) {
	t.Helper()
	chain := domain.NewSignalChain(domain.NewSignalGraph(id))
	payload, err := domain.MarshalValueUpdate(value, chain)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), ports.Topic(id, ports.ChannelValue), payload))
}

func TestActor_SendGraphReply(t *testing.T) {
	bus := localbus.New()
	spawnLeaf(t, bus, "a", 1)

	reply, err := bus.Request(context.Background(), ports.Topic("a", ports.ChannelSendGraph), nil)
	require.NoError(t, err)

	graph, err := domain.GraphFromJSON(reply)
	require.NoError(t, err)
	require.Equal(t, "a", graph.ID())
}
