// Package fingerprint derives grouping keys: the default algorithm that
// inspects event interfaces in strict priority order, and the override
// engine that lets server-side fingerprinting rules replace the result.
package fingerprint

import (
	"errors"

	"github.com/crimson-sun/knot/internal/grouping/enhancer"
	"github.com/crimson-sun/knot/internal/model"
	"github.com/crimson-sun/knot/internal/normalize"
)

// ErrInsufficientData means the event carries none of the interfaces the
// default algorithm can derive a key from. The caller decides what
// placeholder to group such events under.
var ErrInsufficientData = errors.New("event has no stacktrace, exception, or message")

// ComputeDefault derives the default grouping key. Priority, first
// applicable branch wins: classified stack frames, exception type+value,
// raw message, formatted message.
func ComputeDefault(e *model.Event, cls enhancer.Result) ([]string, error) {
	if len(cls.Frames) > 0 {
		// Frames carrying no keyable attributes at all fall through to the
		// next branch; the key must never be empty.
		if key := frameKey(cls); len(key) > 0 {
			return key, nil
		}
	}
	if e.Exception != nil && e.Exception.Type != "" && e.Exception.Value != "" {
		return []string{e.Exception.Type, e.Exception.Value}, nil
	}
	if e.Message != nil && e.Message.Raw != "" {
		return []string{e.Message.Raw}, nil
	}
	if e.Message != nil && e.Message.Formatted != "" {
		return []string{e.Message.Formatted}, nil
	}
	return nil, ErrInsufficientData
}

// frameKey builds the stacktrace branch of the key: contributing frames,
// narrowed to in-app when any frame declares in_app, bounded by max-frames
// counted back from the crash site. Grouping never uses an empty frame set
// while frames exist, so every narrowing step falls back when it would
// empty the set.
func frameKey(cls enhancer.Result) []string {
	relevant := make([]enhancer.Frame, 0, len(cls.Frames))
	for _, f := range cls.Frames {
		if f.InGroup {
			relevant = append(relevant, f)
		}
	}
	if len(relevant) == 0 {
		relevant = cls.Frames
	}

	anyKnown := false
	for _, f := range relevant {
		if f.InApp != nil {
			anyKnown = true
			break
		}
	}
	if anyKnown {
		inApp := make([]enhancer.Frame, 0, len(relevant))
		for _, f := range relevant {
			if f.InApp != nil && *f.InApp {
				inApp = append(inApp, f)
			}
		}
		if len(inApp) > 0 {
			relevant = inApp
		}
	}

	if cls.MaxFrames > 0 && len(relevant) > cls.MaxFrames {
		relevant = relevant[len(relevant)-cls.MaxFrames:]
	}

	var key []string
	for _, f := range relevant {
		if f.Frame.Module != "" {
			key = append(key, f.Frame.Module)
		}
		if fn := normalize.Filename(f.Frame.Filename); fn != "" {
			key = append(key, fn)
		}
		if cl := normalize.ContextLine(f.Frame.ContextLine); cl != "" {
			key = append(key, cl)
		}
	}
	return key
}
