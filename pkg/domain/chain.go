package domain

import "encoding/json"

// chainEntry pairs a signal id with the event counter observed for it at
// the point this link was appended to a chain.
type chainEntry struct {
	ID      string `json:"id"`
	Counter int    `json:"counter"`
}

// SignalChain is a mutable, append-only provenance token: the ordered
// sequence of signals a value propagated through on its way to whoever
// holds the chain, each tagged with the event counter of the upstream that
// produced it. It is carried alongside every value update so downstream
// signals can detect when two upstreams observed a shared ancestor at
// different points in its history (a glitch).
type SignalChain struct {
	entries []chainEntry
}

// NewSignalChain starts a chain at head, with its counter unset (-1).
func NewSignalChain(head *SignalGraph) *SignalChain {
	c := &SignalChain{}
	if head != nil {
		c.Chain(head, -1)
	}
	return c
}

// NewSignalChainFrom returns a deep copy of other.
func NewSignalChainFrom(other *SignalChain) *SignalChain {
	c := &SignalChain{}
	if other == nil {
		return c
	}
	c.entries = append(c.entries, other.entries...)
	return c
}

// Chain appends link to the end of the chain with the given event counter.
// Use -1 for "counter not yet assigned".
func (c *SignalChain) Chain(link *SignalGraph, eventCounter int) *SignalChain {
	if link == nil {
		return c
	}
	c.entries = append(c.entries, chainEntry{ID: link.ID(), Counter: eventCounter})
	return c
}

// Contains reports whether signal appears anywhere in the chain.
func (c *SignalChain) Contains(signal string) bool {
	if c == nil {
		return false
	}
	for _, e := range c.entries {
		if e.ID == signal {
			return true
		}
	}
	return false
}

// GetLast returns the id of the most recently appended entry, or "" if the
// chain is empty.
func (c *SignalChain) GetLast() string {
	if c == nil || len(c.entries) == 0 {
		return ""
	}
	return c.entries[len(c.entries)-1].ID
}

// GetEventCounterFor returns the counter recorded for signal's first
// occurrence in the chain, or -1 if it does not appear.
func (c *SignalChain) GetEventCounterFor(signal string) int {
	if c == nil {
		return -1
	}
	for _, e := range c.entries {
		if e.ID == signal {
			return e.Counter
		}
	}
	return -1
}

// NextSignal returns the id of the entry immediately following the first
// occurrence of signal, or "" if signal does not appear or is the last
// entry.
func (c *SignalChain) NextSignal(signal string) string {
	if c == nil {
		return ""
	}
	for i, e := range c.entries {
		if e.ID == signal {
			if i+1 < len(c.entries) {
				return c.entries[i+1].ID
			}
			return ""
		}
	}
	return ""
}

// GetConflicts returns the ids shared by both chains whose immediate
// successor differs between c and other. GetConflicts is symmetric:
// c.GetConflicts(other) and other.GetConflicts(c) always agree as sets,
// because the comparison only considers ids present in both chains and
// compares NextSignal in both directions for that shared id.
func (c *SignalChain) GetConflicts(other *SignalChain) []string {
	if c == nil || other == nil {
		return nil
	}

	shared := make(map[string]struct{})
	seen := make(map[string]struct{})
	for _, e := range c.entries {
		seen[e.ID] = struct{}{}
	}
	for _, e := range other.entries {
		if _, ok := seen[e.ID]; ok {
			shared[e.ID] = struct{}{}
		}
	}

	var conflicts []string
	for id := range shared {
		if c.NextSignal(id) != other.NextSignal(id) {
			conflicts = append(conflicts, id)
		}
	}
	return conflicts
}

// ToList returns the chain ids in order, earliest first.
func (c *SignalChain) ToList() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.ID
	}
	return out
}

func (c *SignalChain) String() string {
	if c == nil {
		return "[]"
	}
	out := "["
	for i, e := range c.entries {
		if i > 0 {
			out += ","
		}
		out += "[" + e.ID + "," + itoa(e.Counter) + "]"
	}
	return out + "]"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

type signalChainJSON struct {
	Entries []chainEntry `json:"entries"`
}

// MarshalJSON encodes the chain as {"entries":[{"id":...,"counter":...}]}.
func (c *SignalChain) MarshalJSON() ([]byte, error) {
	entries := c.entries
	if entries == nil {
		entries = []chainEntry{}
	}
	return json.Marshal(signalChainJSON{Entries: entries})
}

// UnmarshalJSON decodes a chain previously produced by MarshalJSON.
func (c *SignalChain) UnmarshalJSON(data []byte) error {
	var raw signalChainJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.entries = raw.Entries
	return nil
}

// ChainToJSON marshals a chain to its wire representation.
func ChainToJSON(c *SignalChain) ([]byte, error) {
	if c == nil {
		c = &SignalChain{}
	}
	return json.Marshal(c)
}

// ChainFromJSON parses a chain from its wire representation.
func ChainFromJSON(data []byte) (*SignalChain, error) {
	var c SignalChain
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
