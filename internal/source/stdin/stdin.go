// Package stdin reads NDJSON events from standard input.
package stdin

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/crimson-sun/knot/internal/model"
	"github.com/crimson-sun/knot/internal/source"
)

func init() {
	source.Register("stdin", func() source.Source { return &Source{} })
}

// Source reads NDJSON events from os.Stdin.
type Source struct{}

func (s *Source) Stream(ctx context.Context, cfg source.Config) (<-chan model.Event, error) {
	ch := make(chan model.Event)
	go func() {
		if err := source.StreamReader(ctx.Done(), os.Stdin, cfg, ch); err != nil {
			slog.Error("stdin source stream failed", "error", err)
		}
	}()
	return ch, nil
}

func (s *Source) Fetch(_ context.Context, cfg source.Config) ([]model.Event, error) {
	events, err := source.DecodeEvents(os.Stdin, cfg)
	if err != nil {
		return nil, fmt.Errorf("stdin source: %w", err)
	}
	return events, nil
}
