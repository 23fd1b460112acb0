package output

import "github.com/crimson-sun/knot/internal/model"

// Verbosity controls how much of a grouped event destinations emit.
type Verbosity int

const (
	Minimal  Verbosity = iota // key and hash only
	Standard                  // plus summary, origin, version
	Full                      // everything
)

// ParseVerbosity maps a config string onto a Verbosity. Unknown strings
// mean Standard.
func ParseVerbosity(s string) Verbosity {
	switch s {
	case "minimal":
		return Minimal
	case "full":
		return Full
	default:
		return Standard
	}
}

// FormatEvent returns a copy of the event with fields stripped according to
// verbosity. Stripped fields carry omitempty so they vanish from JSON.
func FormatEvent(e model.GroupedEvent, v Verbosity) model.GroupedEvent {
	if v == Minimal {
		e.Summary = ""
		e.Origin = ""
		e.AlgorithmVersion = 0
		e.Project = ""
	}
	return e
}
