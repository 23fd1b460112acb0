// Package enhancer applies a compiled enhancement ruleset to an ordered
// stack-frame sequence. Rules run in file order; each matching rule mutates
// frame flags over its direction range, so later rules win on conflicts.
// The input frames are never modified.
package enhancer

import (
	"github.com/crimson-sun/knot/internal/grouping/rules"
	"github.com/crimson-sun/knot/internal/model"
)

// Frame is one classified stack entry: the original frame plus the flags
// rules may rewrite. InGroup starts true; InApp starts at the SDK-provided
// value (nil when the SDK did not say).
type Frame struct {
	Frame   model.Frame
	InApp   *bool
	InGroup bool
}

// current returns the frame with its live in_app state, for matcher
// evaluation against mutations made by earlier rules.
func (f *Frame) current() *model.Frame {
	fr := f.Frame
	fr.InApp = f.InApp
	return &fr
}

// Result is the classifier output: same-length frame sequence with final
// flags, and the effective max-frames bound (0 = unbounded).
type Result struct {
	Frames    []Frame
	MaxFrames int
}

// Classify runs the ruleset over the frame sequence. Index 0 is the
// outermost call; the last index is the crash site.
func Classify(frames []model.Frame, rs *rules.Enhancements) Result {
	res := Result{Frames: make([]Frame, len(frames))}
	for i, f := range frames {
		res.Frames[i] = Frame{Frame: f, InApp: f.InApp, InGroup: true}
	}
	if rs == nil {
		return res
	}

	for _, rule := range rs.Rules {
		matchedAny := false
		for i := range res.Frames {
			if !frameMatches(&res.Frames[i], rule) {
				continue
			}
			matchedAny = true
			for _, fa := range rule.Flags {
				applyFlag(res.Frames, i, fa)
			}
		}
		if !matchedAny {
			continue
		}
		// Narrowest matched bound wins; 0 means unbounded.
		for _, va := range rule.Vars {
			if va.Name != rules.VarMaxFrames || va.Value == 0 {
				continue
			}
			if res.MaxFrames == 0 || va.Value < res.MaxFrames {
				res.MaxFrames = va.Value
			}
		}
	}
	return res
}

func frameMatches(f *Frame, rule *rules.EnhancementRule) bool {
	cur := f.current()
	for _, m := range rule.Matchers {
		if !m.MatchFrame(cur) {
			return false
		}
	}
	return true
}

// applyFlag sets one flag on the matched frame and, for directional actions,
// on every frame toward (higher index) or away from (lower index) the crash.
func applyFlag(frames []Frame, i int, fa rules.FlagAction) {
	lo, hi := i, i
	switch fa.Direction {
	case rules.TowardCrash:
		hi = len(frames) - 1
	case rules.AwayFromCrash:
		lo = 0
	}
	for j := lo; j <= hi; j++ {
		switch fa.Target {
		case rules.TargetApp:
			v := fa.Set
			frames[j].InApp = &v
		case rules.TargetGroup:
			frames[j].InGroup = fa.Set
		}
	}
}
