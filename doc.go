/*
Package signalmesh runs functional-reactive signals as independent actors
that communicate exclusively through a topic-addressed pub/sub bus.

# Concept

A signal is a named value with zero or more upstream dependencies. Leaf
signals hold a value directly; derived signals recompute theirs from their
upstreams' latest values through a combine operator (identity, add, sub,
mul, div) whenever a dependency changes. Every signal runs as its own
goroutine-confined actor, processing one message at a time from its inbox,
so no two updates to the same signal ever race. Signals never call one
another directly: all coordination happens over Bus topics of the shape
signals.<id>.<channel>, which means a mesh can span one process or many,
over an in-memory bus or Redis, without the signals themselves changing.

# Key Features

  - Actor-per-signal concurrency: each signal serializes its own state
    through a private inbox, eliminating locks at the domain layer.
  - Diamond-shaped dependency graphs resolve consistently: glitch
    avoidance detects when two upstreams disagree about a shared
    ancestor's latest event before recomputing, suppressing the
    recompute rather than rolling back state.
  - Pluggable Bus: the same actor and command code runs unmodified over
    an in-process bus or a Redis-backed one shared across processes.
  - Batch definitions: a whole mesh can be described in one YAML file and
    spawned in dependency order.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/signalmesh/signalmesh"
		"github.com/signalmesh/signalmesh/pkg/domain"
	)

	func main() {
		mesh := signalmesh.New()
		defer mesh.Close()

		ctx := context.Background()
		a, err := mesh.CreateSignal(ctx, domain.SignalConfig{ID: "a", InitialValue: ptr(1)})
		if err != nil {
			log.Fatal(err)
		}
		b, err := mesh.CreateSignal(ctx, domain.SignalConfig{ID: "b", InitialValue: ptr(2)})
		if err != nil {
			log.Fatal(err)
		}
		_, err = mesh.CreateSignal(ctx, domain.SignalConfig{
			ID: "sum", Operator: domain.OpAdd, Dependencies: []string{"a", "b"},
		})
		if err != nil {
			log.Fatal(err)
		}

		log.Println(a.Value(), b.Value())
	}

	func ptr(v int64) *int64 { return &v }
*/
package signalmesh
