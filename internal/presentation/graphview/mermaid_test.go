package graphview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/signalmesh/signalmesh/pkg/domain"
)

func TestGenerateMermaid_Diamond(t *testing.T) {
	a := domain.NewSignalGraph("a")
	b := domain.NewSignalGraph("b", a)
	c := domain.NewSignalGraph("c", a)
	d := domain.NewSignalGraph("d", b, c)

	out := GenerateMermaid(d)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, `d["d"]`)
	assert.Contains(t, out, "b --> d")
	assert.Contains(t, out, "c --> d")
	assert.Contains(t, out, "a --> b")
	assert.Contains(t, out, "a --> c")
}

func TestGenerateMermaid_Nil(t *testing.T) {
	assert.Equal(t, "graph TD\n", GenerateMermaid(nil))
}
