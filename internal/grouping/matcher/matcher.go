// Package matcher evaluates one typed rule predicate against a stack frame
// or an event attribute. Matchers are compiled once when a ruleset is built
// and are read-only afterwards, so a single matcher may serve any number of
// concurrent evaluations.
package matcher

import (
	"fmt"
	"strings"

	"github.com/crimson-sun/knot/internal/model"
	"github.com/crimson-sun/knot/internal/normalize"
)

// Kind names a predicate type.
type Kind string

const (
	KindFamily   Kind = "family"
	KindPath     Kind = "path"
	KindModule   Kind = "module"
	KindFunction Kind = "function"
	KindPackage  Kind = "package"
	KindApp      Kind = "app"
	KindType     Kind = "type"
	KindValue    Kind = "value"
	KindMessage  Kind = "message"
)

// KindOf resolves a matcher name from rule text. ok is false for unknown
// names.
func KindOf(name string) (Kind, bool) {
	switch k := Kind(name); k {
	case KindFamily, KindPath, KindModule, KindFunction, KindPackage, KindApp,
		KindType, KindValue, KindMessage:
		return k, true
	}
	return "", false
}

// FrameScoped reports whether the predicate reads frame attributes (as
// opposed to event-level ones). Frame-scoped matchers on a fingerprinting
// rule must all hold on one and the same frame.
func (k Kind) FrameScoped() bool {
	switch k {
	case KindType, KindValue, KindMessage:
		return false
	}
	return true
}

// Matcher is one compiled predicate: a kind, its pattern, and an optional
// negation. All matchers on a rule line are ANDed by the caller.
type Matcher struct {
	Kind    Kind
	Pattern string
	Negated bool

	families map[model.Family]bool
	appWant  bool
	g        *glob
	gRel     *glob // "**/" + pattern, for relative candidates
}

// New compiles a matcher. The glob (or family set, or app flag) is parsed
// here so evaluation is allocation-free.
func New(kind Kind, pattern string, negated bool) (*Matcher, error) {
	m := &Matcher{Kind: kind, Pattern: pattern, Negated: negated}

	switch kind {
	case KindFamily:
		m.families = make(map[model.Family]bool)
		for _, part := range strings.Split(pattern, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			m.families[model.ParseFamily(part)] = true
		}
		if len(m.families) == 0 {
			return nil, fmt.Errorf("family matcher needs at least one family")
		}

	case KindApp:
		switch pattern {
		case "yes", "1", "true":
			m.appWant = true
		case "no", "0", "false":
			m.appWant = false
		default:
			return nil, fmt.Errorf("app matcher takes yes or no, got %q", pattern)
		}

	case KindPath, KindPackage:
		// Case-insensitive glob over a /-normalized value. A pattern without
		// a leading **/ also matches relative candidates as if it had one.
		g, err := compileGlob(pattern, true)
		if err != nil {
			return nil, err
		}
		m.g = g
		if !strings.HasPrefix(pattern, "**/") {
			rel, err := compileGlob("**/"+pattern, true)
			if err != nil {
				return nil, err
			}
			m.gRel = rel
		}

	case KindModule, KindFunction, KindType, KindValue, KindMessage:
		g, err := compileGlob(pattern, false)
		if err != nil {
			return nil, err
		}
		m.g = g

	default:
		return nil, fmt.Errorf("unknown matcher kind %q", kind)
	}
	return m, nil
}

// MatchFrame evaluates a frame-scoped predicate. Calling it on an
// event-scoped matcher always reports false.
func (m *Matcher) MatchFrame(f *model.Frame) bool {
	var ok bool
	switch m.Kind {
	case KindFamily:
		ok = m.families[model.ParseFamily(string(f.Family))]
	case KindPath:
		ok = m.matchPath(normalize.Path(f.Filename))
	case KindPackage:
		ok = m.matchPath(normalize.Path(f.Package))
	case KindModule:
		ok = f.Module != "" && m.g.Match(f.Module)
	case KindFunction:
		ok = f.Function != "" && m.g.Match(f.Function)
	case KindApp:
		// Unset in_app matches neither yes nor no.
		ok = f.InApp != nil && *f.InApp == m.appWant
	default:
		return false
	}
	if m.Negated {
		return !ok
	}
	return ok
}

// MatchEvent evaluates an event-scoped predicate. An absent attribute never
// matches (but a negated matcher on an absent attribute does).
func (m *Matcher) MatchEvent(e *model.Event) bool {
	var ok bool
	switch m.Kind {
	case KindType:
		ok = e.Exception != nil && e.Exception.Type != "" && m.g.Match(e.Exception.Type)
	case KindValue:
		ok = e.Exception != nil && e.Exception.Value != "" && m.g.Match(e.Exception.Value)
	case KindMessage:
		if msg := eventMessage(e); msg != "" {
			ok = m.g.Match(msg)
		}
	default:
		return false
	}
	if m.Negated {
		return !ok
	}
	return ok
}

func (m *Matcher) matchPath(value string) bool {
	if value == "" {
		return false
	}
	if m.g.Match(value) {
		return true
	}
	return m.gRel != nil && normalize.IsRelative(value) && m.gRel.Match(value)
}

func eventMessage(e *model.Event) string {
	if e.Message == nil {
		return ""
	}
	if e.Message.Formatted != "" {
		return e.Message.Formatted
	}
	return e.Message.Raw
}

// String renders the matcher back in rule-text form.
func (m *Matcher) String() string {
	neg := ""
	if m.Negated {
		neg = "!"
	}
	return fmt.Sprintf("%s%s:%s", neg, m.Kind, m.Pattern)
}
