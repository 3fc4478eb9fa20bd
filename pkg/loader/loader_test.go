package loader

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalmesh/signalmesh/internal/adapters/localbus"
	"github.com/signalmesh/signalmesh/pkg/command"
	"github.com/signalmesh/signalmesh/pkg/domain"
	"github.com/signalmesh/signalmesh/pkg/ports"
	"github.com/signalmesh/signalmesh/pkg/signal"
)

const doc = `
signals:
  - id: a
    initialValue: 2
  - id: b
    initialValue: 3
  - id: sum
    operator: add
    dependencies: [a, b]
`

func TestParse(t *testing.T) {
	configs, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, configs, 3)

	assert.Equal(t, "a", configs[0].ID)
	require.NotNil(t, configs[0].InitialValue)
	assert.Equal(t, int64(2), *configs[0].InitialValue)

	assert.Equal(t, "sum", configs[2].ID)
	assert.Equal(t, domain.OpAdd, configs[2].Operator)
	assert.Equal(t, []string{"a", "b"}, configs[2].Dependencies)
}

func TestParse_RejectsBadOperator(t *testing.T) {
	_, err := Parse([]byte(`
signals:
  - id: a
    operator: bogus
    dependencies: [x, y]
`))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	bus := localbus.New()
	dispatcher := command.NewDispatcher(bus, signal.NewRegistry(), nil)

	configs, err := Parse([]byte(doc))
	require.NoError(t, err)

	actors, err := Apply(context.Background(), dispatcher, configs)
	require.NoError(t, err)
	defer func() {
		for _, a := range actors {
			a.Stop()
		}
	}()

	require.Len(t, actors, 3)
	assert.Equal(t, int64(2), actors[0].Value())
	assert.Equal(t, int64(3), actors[1].Value())
	assert.Equal(t, int64(0), actors[2].Value(), "sum has not seen either upstream fire yet")

	require.NoError(t, bus.Publish(context.Background(), ports.Topic("a", ports.ChannelIncrement), nil))
	require.NoError(t, bus.Publish(context.Background(), ports.Topic("b", ports.ChannelIncrement), nil))
	require.Eventually(t, func() bool { return actors[2].Value() == 7 }, time.Second, 10*time.Millisecond)
}
