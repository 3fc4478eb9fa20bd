// Package loader decodes a batch of signal definitions from a YAML (or
// JSON) document and spawns them in dependency order, so a whole mesh can
// be stood up from one file instead of one command at a time.
package loader

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/signalmesh/signalmesh/pkg/command"
	"github.com/signalmesh/signalmesh/pkg/domain"
	"github.com/signalmesh/signalmesh/pkg/signal"
)

// Document is the top-level shape of a batch-apply file.
type Document struct {
	Signals []map[string]any `yaml:"signals"`
}

// Parse decodes raw YAML into a slice of SignalConfig, in file order. Each
// entry is first unmarshaled into a generic map so yaml.v3 handles the
// document syntax, then decoded into domain.SignalConfig through
// mapstructure, matching the two-step decode the teacher uses for node
// metadata.
func Parse(raw []byte) ([]domain.SignalConfig, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("loader: parse yaml: %w", err)
	}

	configs := make([]domain.SignalConfig, 0, len(doc.Signals))
	for i, entry := range doc.Signals {
		var cfg domain.SignalConfig
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
		})
		if err != nil {
			return nil, fmt.Errorf("loader: build decoder: %w", err)
		}
		if err := decoder.Decode(entry); err != nil {
			return nil, fmt.Errorf("loader: decode signal at index %d: %w", i, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("loader: signal %q: %w", cfg.ID, err)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// Apply spawns every config in order through dispatcher, stopping at the
// first error. Signals are listed in the order they must be spawned in: a
// signal with dependencies must appear after the signals it depends on,
// since the dependency tracker requires its upstreams to already be
// answering sendGraph when it starts.
func Apply(ctx context.Context, dispatcher *command.Dispatcher, configs []domain.SignalConfig) ([]*signal.Actor, error) {
	spawned := make([]*signal.Actor, 0, len(configs))
	for _, cfg := range configs {
		a, err := dispatcher.CreateSignal(ctx, cfg)
		if err != nil {
			for _, running := range spawned {
				running.Stop()
			}
			return nil, fmt.Errorf("loader: spawn %q: %w", cfg.ID, err)
		}
		spawned = append(spawned, a)
	}
	return spawned, nil
}
