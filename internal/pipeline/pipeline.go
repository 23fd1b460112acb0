// Package pipeline connects an event source, the grouping engine, and an
// output into one processing flow.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/knot/internal/grouping"
	"github.com/crimson-sun/knot/internal/grouping/fingerprint"
	"github.com/crimson-sun/knot/internal/output"
	"github.com/crimson-sun/knot/internal/source"
)

// Pipeline connects a source, engine, and output.
type Pipeline struct {
	source source.Source
	engine *grouping.Engine
	output output.Output
}

// New creates a Pipeline from the given components.
func New(src source.Source, eng *grouping.Engine, out output.Output) *Pipeline {
	return &Pipeline{source: src, engine: eng, output: out}
}

// Stream processes events as they arrive, blocking until the source is
// exhausted or the context is cancelled. Events that carry nothing to group
// on are logged and skipped; a stream of mixed traffic must not die on one
// bad event.
func (p *Pipeline) Stream(ctx context.Context, cfg source.Config) error {
	ch, err := p.source.Stream(ctx, cfg)
	if err != nil {
		return fmt.Errorf("pipeline stream: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			ge, err := p.engine.Process(ev)
			if errors.Is(err, fingerprint.ErrInsufficientData) {
				slog.Warn("event has nothing to group on, skipping", "event_id", ev.ID)
				continue
			}
			if err != nil {
				return fmt.Errorf("pipeline process: %w", err)
			}
			if err := p.output.Write(ctx, ge); err != nil {
				return fmt.Errorf("pipeline output: %w", err)
			}
		}
	}
}

// Batch runs the pipeline in one-shot mode: fetch everything, group
// concurrently, write in order.
func (p *Pipeline) Batch(ctx context.Context, cfg source.Config) error {
	events, err := p.source.Fetch(ctx, cfg)
	if err != nil {
		return fmt.Errorf("pipeline fetch: %w", err)
	}

	grouped, err := p.engine.ProcessBatch(ctx, events)
	if err != nil {
		return fmt.Errorf("pipeline process batch: %w", err)
	}

	for _, ge := range grouped {
		if err := p.output.Write(ctx, ge); err != nil {
			return fmt.Errorf("pipeline output: %w", err)
		}
	}
	return nil
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}
