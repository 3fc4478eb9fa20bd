package domain

import "encoding/json"

// SignalGraph is an immutable description of a signal and the upstream
// signals it depends on, in the order the signal declared them. It is the
// shape exchanged on the sendGraph request/reply topic; a SignalChain entry
// records only a graph's id, not the graph itself.
type SignalGraph struct {
	id           string
	dependencies []*SignalGraph
}

// NewSignalGraph builds a graph node for id with the given upstream
// dependency graphs, in declaration order. A signal with no dependencies is
// a leaf.
func NewSignalGraph(id string, dependencies ...*SignalGraph) *SignalGraph {
	deps := make([]*SignalGraph, len(dependencies))
	copy(deps, dependencies)
	return &SignalGraph{id: id, dependencies: deps}
}

// ID returns the signal identifier this node represents.
func (g *SignalGraph) ID() string {
	if g == nil {
		return ""
	}
	return g.id
}

// Dependencies returns the upstream graphs in declaration order. The
// returned slice is owned by the caller; mutating it does not affect g.
func (g *SignalGraph) Dependencies() []*SignalGraph {
	if g == nil {
		return nil
	}
	out := make([]*SignalGraph, len(g.dependencies))
	copy(out, g.dependencies)
	return out
}

// IsLeaf reports whether g has no upstream dependencies.
func (g *SignalGraph) IsLeaf() bool {
	return g != nil && len(g.dependencies) == 0
}

// AllPaths enumerates every root-to-leaf path through g as a SignalChain,
// with every entry's counter left unset (-1). A leaf graph produces exactly
// one chain containing only itself. A graph with n dependencies produces the
// concatenation of each dependency's own paths, each with g appended at the
// end (g is the root of the chain, its leaf-most ancestor is first).
func (g *SignalGraph) AllPaths() []*SignalChain {
	if g == nil {
		return nil
	}
	if g.IsLeaf() {
		return []*SignalChain{NewSignalChain(g)}
	}

	var paths []*SignalChain
	for _, dep := range g.dependencies {
		for _, depPath := range dep.AllPaths() {
			chain := NewSignalChainFrom(depPath)
			chain.Chain(g, -1)
			paths = append(paths, chain)
		}
	}
	return paths
}

type signalGraphJSON struct {
	ID           string            `json:"id"`
	Dependencies []signalGraphJSON `json:"dependencies,omitempty"`
}

// MarshalJSON encodes the graph as {"id":..., "dependencies":[...]}.
func (g *SignalGraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.toJSON())
}

func (g *SignalGraph) toJSON() signalGraphJSON {
	if g == nil {
		return signalGraphJSON{}
	}
	deps := make([]signalGraphJSON, 0, len(g.dependencies))
	for _, d := range g.dependencies {
		deps = append(deps, d.toJSON())
	}
	return signalGraphJSON{ID: g.id, Dependencies: deps}
}

// UnmarshalJSON decodes a graph previously produced by MarshalJSON.
func (g *SignalGraph) UnmarshalJSON(data []byte) error {
	var raw signalGraphJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = *raw.toGraph()
	return nil
}

func (raw signalGraphJSON) toGraph() *SignalGraph {
	deps := make([]*SignalGraph, 0, len(raw.Dependencies))
	for _, d := range raw.Dependencies {
		deps = append(deps, d.toGraph())
	}
	return &SignalGraph{id: raw.ID, dependencies: deps}
}

// GraphToJSON marshals a graph to its wire representation. A nil graph
// marshals to the JSON literal null, matching the sendGraph reply shape for
// an as-yet-unresolved signal.
func GraphToJSON(g *SignalGraph) ([]byte, error) {
	if g == nil {
		return []byte("null"), nil
	}
	return json.Marshal(g)
}

// GraphFromJSON parses a sendGraph reply body. A JSON null yields a nil
// graph and a nil error.
func GraphFromJSON(data []byte) (*SignalGraph, error) {
	var g SignalGraph
	trimmed := string(data)
	if trimmed == "null" || trimmed == "" {
		return nil, nil
	}
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}
