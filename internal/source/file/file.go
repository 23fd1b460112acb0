// Package file reads events from an NDJSON file, one event per line.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/crimson-sun/knot/internal/model"
	"github.com/crimson-sun/knot/internal/source"
)

func init() {
	source.Register("file", func() source.Source { return &Source{} })
}

// Source reads NDJSON events from the file named by cfg.Path.
type Source struct{}

// Stream reads the file line by line and delivers events on the returned
// channel. Decode failures stop the stream; the channel closes either way.
func (s *Source) Stream(ctx context.Context, cfg source.Config) (<-chan model.Event, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("file source: %w", err)
	}
	ch := make(chan model.Event)
	go func() {
		defer f.Close()
		if err := streamFile(ctx, f, cfg, ch); err != nil {
			slog.Error("file source stream failed", "path", cfg.Path, "error", err)
		}
	}()
	return ch, nil
}

// Fetch reads the whole file at once.
func (s *Source) Fetch(_ context.Context, cfg source.Config) ([]model.Event, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("file source: %w", err)
	}
	defer f.Close()
	events, err := source.DecodeEvents(f, cfg)
	if err != nil {
		return nil, fmt.Errorf("file source: %w", err)
	}
	return events, nil
}

func streamFile(ctx context.Context, f *os.File, cfg source.Config, ch chan<- model.Event) error {
	return source.StreamReader(ctx.Done(), f, cfg, ch)
}
