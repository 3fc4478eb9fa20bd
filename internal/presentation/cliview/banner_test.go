package cliview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_IncludesValue(t *testing.T) {
	out := Status("a", 42, false, false)
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "a")
}

func TestGraphMarkdown_FencesMermaid(t *testing.T) {
	out := GraphMarkdown("a", "graph TD\n")
	assert.Contains(t, out, "```mermaid")
	assert.Contains(t, out, "## a")
}

func TestMarkdownTable_ListsSignals(t *testing.T) {
	out := MarkdownTable(map[string]int64{"a": 1})
	assert.Contains(t, out, "| a | 1 |")
}
