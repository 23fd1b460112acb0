package knot

import (
	"context"
	"fmt"

	"github.com/crimson-sun/knot/internal/grouping"
	"github.com/crimson-sun/knot/internal/grouping/fingerprint"
	"github.com/crimson-sun/knot/internal/model"
)

// ErrInsufficientData reports an event with no stacktrace, no exception
// type or value, and no message: nothing to derive a key from.
var ErrInsufficientData = fingerprint.ErrInsufficientData

// Knot is a compiled grouping engine. Safe for concurrent use.
type Knot struct {
	engine *grouping.Engine
}

// New compiles the configured rulesets into a ready engine. Rule text errors
// carry the line number and offending token.
func New(opts ...Option) (*Knot, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	cfg, err := grouping.CompileConfig(o.version, o.enhancements, o.fingerprinting)
	if err != nil {
		return nil, fmt.Errorf("knot: %w", err)
	}
	return &Knot{
		engine: grouping.NewEngine(o.project, cfg.AlgorithmVersion, cfg.Enhancements, cfg.Fingerprinting),
	}, nil
}

// Group derives the grouping key and hash for one event.
func (k *Knot) Group(e Event) (Result, error) {
	ge, err := k.engine.Process(toModel(e))
	if err != nil {
		return Result{}, err
	}
	return resultFromGrouped(ge), nil
}

// GroupBatch groups events concurrently, preserving input order. Any single
// failure fails the batch; filter events with no groupable content up front
// if partial results are needed.
func (k *Knot) GroupBatch(ctx context.Context, events []Event) ([]Result, error) {
	in := make([]model.Event, len(events))
	for i, e := range events {
		in[i] = toModel(e)
	}
	ges, err := k.engine.ProcessBatch(ctx, in)
	if err != nil {
		return nil, err
	}
	out := make([]Result, len(ges))
	for i, ge := range ges {
		out[i] = resultFromGrouped(ge)
	}
	return out, nil
}
