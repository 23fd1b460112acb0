// Package source defines where events enter knot. Sources hand over
// already-symbolicated events; transport and symbolication live upstream.
package source

import (
	"context"

	"github.com/crimson-sun/knot/internal/model"
)

// Config carries provider-specific settings.
type Config struct {
	Provider string
	Path     string // input file, for providers that read one
	Project  string // stamped onto events that do not carry one
}

// Source defines the interface for event providers.
type Source interface {
	// Stream delivers events as they are read. The channel closes when the
	// input is exhausted or the context is cancelled.
	Stream(ctx context.Context, cfg Config) (<-chan model.Event, error)

	// Fetch reads all available events at once.
	Fetch(ctx context.Context, cfg Config) ([]model.Event, error)
}
