package output

import (
	"context"

	"github.com/crimson-sun/knot/internal/model"
)

// Output defines the interface for grouped-event destinations.
type Output interface {
	Write(ctx context.Context, event model.GroupedEvent) error
	Close() error
}
