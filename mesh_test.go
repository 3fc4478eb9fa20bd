package signalmesh_test

import (
	"context"
	"testing"
	"time"

	"github.com/signalmesh/signalmesh"
	"github.com/signalmesh/signalmesh/pkg/domain"
)

func TestMesh_CombineFanIn(t *testing.T) {
	mesh := signalmesh.New()
	defer mesh.Close()

	ctx := context.Background()
	initA, initB := int64(1), int64(2)

	if _, err := mesh.CreateSignal(ctx, domain.SignalConfig{ID: "a", InitialValue: &initA}); err != nil {
		t.Fatalf("create a: %v", err)
	}
	if _, err := mesh.CreateSignal(ctx, domain.SignalConfig{ID: "b", InitialValue: &initB}); err != nil {
		t.Fatalf("create b: %v", err)
	}
	sum, err := mesh.CreateSignal(ctx, domain.SignalConfig{
		ID: "sum", Operator: domain.OpAdd, Dependencies: []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("create sum: %v", err)
	}

	a, _ := mesh.Get("a")
	if err := mesh.Bus().Publish(ctx, "signals.a.increment", nil); err != nil {
		t.Fatalf("increment a: %v", err)
	}
	if err := mesh.Bus().Publish(ctx, "signals.b.increment", nil); err != nil {
		t.Fatalf("increment b: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for sum.Value() != 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := sum.Value(); got != 5 {
		t.Errorf("expected sum to settle at 5, got %d", got)
	}

	if got := a.Value(); got != 2 {
		t.Errorf("expected a to read 2 after one increment, got %d", got)
	}
	if ids := mesh.IDs(); len(ids) != 3 {
		t.Errorf("expected 3 registered signals, got %d: %v", len(ids), ids)
	}
}
