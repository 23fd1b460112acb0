// Package sqlite adapts the issue store to the output interface: every
// grouped event written rolls up into its issue row.
package sqlite

import (
	"context"
	"fmt"

	"github.com/crimson-sun/knot/internal/issuestore"
	"github.com/crimson-sun/knot/internal/model"
)

// Output records grouped events into a sqlite-backed issue store.
type Output struct {
	store *issuestore.Store
}

// New opens (or creates) the issue database at path.
func New(path string) (*Output, error) {
	store, err := issuestore.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sqlite output: %w", err)
	}
	return &Output{store: store}, nil
}

func (o *Output) Write(ctx context.Context, event model.GroupedEvent) error {
	if err := o.store.Record(ctx, event); err != nil {
		return fmt.Errorf("sqlite output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return o.store.Close()
}
