package fingerprint

import (
	"github.com/crimson-sun/knot/internal/grouping/enhancer"
	"github.com/crimson-sun/knot/internal/grouping/matcher"
	"github.com/crimson-sun/knot/internal/grouping/rules"
	"github.com/crimson-sun/knot/internal/model"
)

// EvaluateOverride tests fingerprinting rules in file order and returns the
// first full match's key, or nil when no rule matches. Event-scoped matchers
// run against the event; frame-scoped matchers match when any single frame
// satisfies all of them at once.
func EvaluateOverride(e *model.Event, cls enhancer.Result, rs *rules.Fingerprinting) []string {
	if rs == nil {
		return nil
	}
	for _, rule := range rs.Rules {
		if ruleMatches(e, cls, rule) {
			key := make([]string, len(rule.Fingerprint))
			copy(key, rule.Fingerprint)
			return key
		}
	}
	return nil
}

func ruleMatches(e *model.Event, cls enhancer.Result, rule *rules.FingerprintRule) bool {
	var frameScoped []*matcher.Matcher
	for _, m := range rule.Matchers {
		if m.Kind.FrameScoped() {
			frameScoped = append(frameScoped, m)
			continue
		}
		if !m.MatchEvent(e) {
			return false
		}
	}
	if len(frameScoped) == 0 {
		return true
	}

	for i := range cls.Frames {
		cur := cls.Frames[i].Frame
		cur.InApp = cls.Frames[i].InApp
		ok := true
		for _, m := range frameScoped {
			if !m.MatchFrame(&cur) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
