package knot

import (
	"time"

	"github.com/crimson-sun/knot/internal/model"
)

// Event is the public input type. See the field docs on the internal model;
// this mirrors it so callers never import internal packages.
type Event struct {
	ID          string
	Timestamp   time.Time
	Exception   *Exception
	Stacktrace  *Stacktrace
	Message     *Message
	Fingerprint []string
}

// Exception describes a caught or fatal error.
type Exception struct {
	Type       string
	Value      string
	Stacktrace *Stacktrace
}

// Stacktrace is an ordered frame sequence; the last frame is the crash site.
type Stacktrace struct {
	Frames []Frame
}

// Frame is one stack entry. InApp is tri-state: nil when the SDK did not say.
type Frame struct {
	Module      string
	Filename    string
	ContextLine string
	Function    string
	Package     string
	Family      string
	InApp       *bool
}

// Message carries the log-message interface.
type Message struct {
	Formatted string
	Raw       string
}

// Result is the grouping outcome for one event.
type Result struct {
	Key              []string
	Hash             string
	Origin           string // "default", "client", or "override"
	AlgorithmVersion int
	Summary          string
}

func toModel(e Event) model.Event {
	ev := model.Event{
		ID:          e.ID,
		Timestamp:   e.Timestamp,
		Fingerprint: e.Fingerprint,
	}
	if e.Exception != nil {
		ev.Exception = &model.Exception{
			Type:       e.Exception.Type,
			Value:      e.Exception.Value,
			Stacktrace: stacktraceToModel(e.Exception.Stacktrace),
		}
	}
	ev.Stacktrace = stacktraceToModel(e.Stacktrace)
	if e.Message != nil {
		ev.Message = &model.Message{Formatted: e.Message.Formatted, Raw: e.Message.Raw}
	}
	return ev
}

func stacktraceToModel(st *Stacktrace) *model.Stacktrace {
	if st == nil {
		return nil
	}
	frames := make([]model.Frame, len(st.Frames))
	for i, f := range st.Frames {
		frames[i] = model.Frame{
			Module:      f.Module,
			Filename:    f.Filename,
			ContextLine: f.ContextLine,
			Function:    f.Function,
			Package:     f.Package,
			Family:      model.ParseFamily(f.Family),
			InApp:       f.InApp,
		}
	}
	return &model.Stacktrace{Frames: frames}
}

func resultFromGrouped(ge model.GroupedEvent) Result {
	return Result{
		Key:              ge.Key,
		Hash:             ge.Hash,
		Origin:           string(ge.Origin),
		AlgorithmVersion: ge.AlgorithmVersion,
		Summary:          ge.Summary,
	}
}
