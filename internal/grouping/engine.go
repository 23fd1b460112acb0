// Package grouping computes stable grouping keys for error events. An
// Engine holds one project's compiled rulesets and algorithm version;
// evaluation is pure computation with no shared mutable state, so one Engine
// serves any number of concurrent events.
package grouping

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/knot/internal/grouping/enhancer"
	"github.com/crimson-sun/knot/internal/grouping/fingerprint"
	"github.com/crimson-sun/knot/internal/grouping/rules"
	"github.com/crimson-sun/knot/internal/model"
)

// Engine derives grouping keys for one (project, algorithm version, ruleset)
// selection. Immutable after construction.
type Engine struct {
	project        string
	version        int
	enhancements   *rules.Enhancements
	fingerprinting *rules.Fingerprinting
}

// NewEngine builds an Engine from already-compiled rulesets. Either ruleset
// may be nil.
func NewEngine(project string, version int, enh *rules.Enhancements, fp *rules.Fingerprinting) *Engine {
	return &Engine{project: project, version: version, enhancements: enh, fingerprinting: fp}
}

// Process derives the grouping key and hash for one event: classify frames,
// compute the default key, test fingerprinting overrides, then assemble with
// the client-declared fingerprint. Returns ErrInsufficientData (wrapped from
// the fingerprint package) when no input can produce a key.
func (e *Engine) Process(ev model.Event) (model.GroupedEvent, error) {
	cls := enhancer.Classify(ev.Frames(), e.enhancements)

	defaultKey, derr := fingerprint.ComputeDefault(&ev, cls)
	overrideKey := fingerprint.EvaluateOverride(&ev, cls, e.fingerprinting)

	key, origin := Assemble(ev.Fingerprint, defaultKey, overrideKey)
	if len(key) == 0 {
		// Only reachable when the default computation failed and neither a
		// client fingerprint nor an override stepped in.
		return model.GroupedEvent{}, derr
	}

	return model.GroupedEvent{
		EventID:          ev.ID,
		Project:          e.project,
		Timestamp:        ev.Timestamp,
		Key:              key,
		Hash:             Hash(key),
		Origin:           origin,
		AlgorithmVersion: e.version,
		Summary:          summarize(&ev),
	}, nil
}

// ProcessBatch groups a slice of events concurrently, preserving input
// order in the result. The first failure cancels remaining work.
func (e *Engine) ProcessBatch(ctx context.Context, events []model.Event) ([]model.GroupedEvent, error) {
	out := make([]model.GroupedEvent, len(events))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, ev := range events {
		i, ev := i, ev
		g.Go(func() error {
			ge, err := e.Process(ev)
			if err != nil {
				return err
			}
			out[i] = ge
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// summarize produces the human-readable one-liner outputs attach to an
// issue: exception first, then message, then the crash-site function.
func summarize(ev *model.Event) string {
	if ev.Exception != nil && ev.Exception.Type != "" {
		if ev.Exception.Value != "" {
			return ev.Exception.Type + ": " + ev.Exception.Value
		}
		return ev.Exception.Type
	}
	if ev.Message != nil {
		if ev.Message.Formatted != "" {
			return ev.Message.Formatted
		}
		if ev.Message.Raw != "" {
			return ev.Message.Raw
		}
	}
	if frames := ev.Frames(); len(frames) > 0 {
		crash := frames[len(frames)-1]
		if crash.Function != "" {
			return "crash in " + crash.Function
		}
	}
	return ""
}
