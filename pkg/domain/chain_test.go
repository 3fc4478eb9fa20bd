package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalChain_ChainAndContains(t *testing.T) {
	a := NewSignalGraph("a")
	b := NewSignalGraph("b")

	c := NewSignalChain(a)
	c.Chain(b, 3)

	assert.True(t, c.Contains("a"))
	assert.True(t, c.Contains("b"))
	assert.False(t, c.Contains("z"))
	assert.Equal(t, "b", c.GetLast())
	assert.Equal(t, -1, c.GetEventCounterFor("a"))
	assert.Equal(t, 3, c.GetEventCounterFor("b"))
	assert.Equal(t, -1, c.GetEventCounterFor("missing"))
}

func TestSignalChain_NextSignal(t *testing.T) {
	a, b, d := NewSignalGraph("a"), NewSignalGraph("b"), NewSignalGraph("d")
	c := NewSignalChain(a)
	c.Chain(b, 0)
	c.Chain(d, 1)

	assert.Equal(t, "b", c.NextSignal("a"))
	assert.Equal(t, "d", c.NextSignal("b"))
	assert.Equal(t, "", c.NextSignal("d"))
	assert.Equal(t, "", c.NextSignal("missing"))
}

func TestSignalChain_GetConflicts_Symmetric(t *testing.T) {
	a := NewSignalGraph("a")
	b := NewSignalGraph("b", a)
	c := NewSignalGraph("c", a)

	left := NewSignalChain(a)
	left.Chain(b, 0)

	right := NewSignalChain(a)
	right.Chain(c, 0)

	conflicts := left.GetConflicts(right)
	require.Equal(t, []string{"a"}, conflicts)

	reverse := right.GetConflicts(left)
	assert.Equal(t, conflicts, reverse)
}

func TestSignalChain_GetConflicts_NoSharedTail(t *testing.T) {
	a := NewSignalGraph("a")
	b := NewSignalGraph("b")

	left := NewSignalChain(a)
	right := NewSignalChain(b)

	assert.Empty(t, left.GetConflicts(right))
}

func TestSignalChain_JSONRoundTrip(t *testing.T) {
	a, b := NewSignalGraph("a"), NewSignalGraph("b")
	orig := NewSignalChain(a)
	orig.Chain(b, 7)

	data, err := ChainToJSON(orig)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"entries"`)

	decoded, err := ChainFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, decoded.ToList())
	assert.Equal(t, 7, decoded.GetEventCounterFor("b"))
}

func TestSignalChain_CopyIsIndependent(t *testing.T) {
	a := NewSignalGraph("a")
	orig := NewSignalChain(a)

	cp := NewSignalChainFrom(orig)
	cp.Chain(NewSignalGraph("b"), 0)

	assert.False(t, orig.Contains("b"))
	assert.True(t, cp.Contains("b"))
}
