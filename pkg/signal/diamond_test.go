package signal

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signalmesh/signalmesh/internal/adapters/localbus"
	"github.com/signalmesh/signalmesh/pkg/domain"
	"github.com/signalmesh/signalmesh/pkg/ports"
)

// spawnDiamond builds the canonical glitch-avoidance fixture: a leaf x, a
// single-dependency y that mirrors x, and a two-dependency z = x + y. Every
// increment of x reaches z by two independent paths (directly, and via y
// one hop later), so z is the one signal in this shape that can observe a
// fan-in where one upstream has already advanced and the other hasn't.
func spawnDiamond(t *testing.T) (ports.Bus, *Actor, *Actor, *Actor) {
	t.Helper()
	bus := localbus.New()
	x := spawnLeaf(t, bus, "x", 0)

	y, err := Spawn(context.Background(), domain.SignalConfig{
		ID: "y", Operator: domain.OpIdentity, Dependencies: []string{"x"},
	}, bus)
	require.NoError(t, err)
	t.Cleanup(y.Stop)

	zInit := int64(0)
	z, err := Spawn(context.Background(), domain.SignalConfig{
		ID: "z", InitialValue: &zInit, Operator: domain.OpAdd, Dependencies: []string{"x", "y"},
	}, bus)
	require.NoError(t, err)
	t.Cleanup(z.Stop)

	return bus, x, y, z
}

// collectValues subscribes to topic and returns a function that snapshots
// every value observed on it so far, in arrival order.
func collectValues(t *testing.T, bus ports.Bus, topic string) func() []int64 {
	t.Helper()
	var mu sync.Mutex
	var values []int64
	unsub, err := bus.Subscribe(context.Background(), topic, func(m ports.Message) {
		update, err := domain.UnmarshalValueUpdate(m.Payload)
		require.NoError(t, err)
		mu.Lock()
		values = append(values, update.Value)
		mu.Unlock()
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = unsub() })

	return func() []int64 {
		mu.Lock()
		defer mu.Unlock()
		return append([]int64(nil), values...)
	}
}

// incrementThreeTimes publishes three real .increment messages against x,
// one at a time. localbus.Publish only returns once every handler it
// invoked (including the handlers those handlers' own publishes invoked)
// has returned, so by the time this loop exits the entire x->{y,z} and
// x->y->z cascade from all three increments has already settled.
func incrementThreeTimes(t *testing.T, bus ports.Bus) {
	t.Helper()
	for i := 0; i < 3; i++ {
		require.NoError(t, bus.Publish(context.Background(), ports.Topic("x", ports.ChannelIncrement), nil))
	}
}

// TestDiamond_GlitchAvoidanceSuppressesStaleFanIn drives the real diamond
// through three increments of x with glitch avoidance on and checks the
// actual sequence published on signals.z.value: z must settle evenly at
// 2, 4, 6 and never broadcast the stale 1, 3, or 5 a fan-in race would
// otherwise produce.
func TestDiamond_GlitchAvoidanceSuppressesStaleFanIn(t *testing.T) {
	bus, _, _, z := spawnDiamond(t)

	enable, err := domain.MarshalBool(true)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), ports.Topic("z", ports.ChannelGlitches), enable))
	require.True(t, z.GlitchAvoidance())

	seq := collectValues(t, bus, ports.Topic("z", ports.ChannelValue))
	incrementThreeTimes(t, bus)

	got := seq()
	for _, v := range got {
		require.NotEqual(t, int64(1), v, "z glitched to 1")
		require.NotEqual(t, int64(3), v, "z glitched to 3")
		require.NotEqual(t, int64(5), v, "z glitched to 5")
	}
	require.Equal(t, []int64{2, 4, 6}, got)
}

// TestDiamond_DisablingGlitchAvoidanceExposesStaleFanIn is the same
// diamond with glitch avoidance left off (its default), confirming the
// stale fan-in recompute this runtime otherwise suppresses is real: z
// visibly passes through 1, 3, and 5 on its way to 2, 4, and 6.
func TestDiamond_DisablingGlitchAvoidanceExposesStaleFanIn(t *testing.T) {
	bus, _, _, z := spawnDiamond(t)
	require.False(t, z.GlitchAvoidance())

	seq := collectValues(t, bus, ports.Topic("z", ports.ChannelValue))
	incrementThreeTimes(t, bus)

	got := seq()
	oddSeen := false
	for _, v := range got {
		if v == 1 || v == 3 || v == 5 {
			oddSeen = true
		}
	}
	require.True(t, oddSeen, "expected a stale odd value with glitch avoidance disabled")
	require.Equal(t, []int64{2, 3, 4, 5, 6}, got)
}
