// Package graphview renders a domain.SignalGraph as a Mermaid flowchart,
// the same string-building technique the teacher used to render its
// node/transition graphs, retargeted from DFA nodes to signal dependency
// trees.
package graphview

import (
	"fmt"
	"strings"

	"github.com/signalmesh/signalmesh/pkg/domain"
)

// GenerateMermaid renders graph as a top-down Mermaid flowchart, with one
// edge per dependency pointing from upstream to downstream.
func GenerateMermaid(graph *domain.SignalGraph) string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	if graph == nil {
		return b.String()
	}

	visited := make(map[string]bool)
	var walk func(g *domain.SignalGraph)
	walk = func(g *domain.SignalGraph) {
		id := sanitizeMermaidID(g.ID())
		if visited[id] {
			return
		}
		visited[id] = true
		b.WriteString(fmt.Sprintf("    %s[%q]\n", id, g.ID()))
		for _, dep := range g.Dependencies() {
			depID := sanitizeMermaidID(dep.ID())
			b.WriteString(fmt.Sprintf("    %s --> %s\n", depID, id))
			walk(dep)
		}
	}
	walk(graph)

	return b.String()
}

// sanitizeMermaidID replaces characters Mermaid node ids cannot contain
// with underscores.
func sanitizeMermaidID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
