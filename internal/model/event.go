package model

import "time"

// Event is the input record: one error/event occurrence with its interfaces
// already resolved by the upstream pipeline (symbolication happens before
// events reach this engine). Events are read-only once constructed.
type Event struct {
	ID        string    `json:"id,omitempty"`
	Project   string    `json:"project,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`

	Exception  *Exception  `json:"exception,omitempty"`
	Stacktrace *Stacktrace `json:"stacktrace,omitempty"`
	Message    *Message    `json:"message,omitempty"`

	// Fingerprint is the client-declared grouping key, if any. The literal
	// token "{{ default }}" expands to the server-computed default key.
	Fingerprint []string `json:"fingerprint,omitempty"`
}

// Exception describes a caught or fatal error. Stacktrace, when present,
// takes priority over a top-level event stacktrace for grouping.
type Exception struct {
	Type       string      `json:"type,omitempty"`
	Value      string      `json:"value,omitempty"`
	Stacktrace *Stacktrace `json:"stacktrace,omitempty"`
}

// Stacktrace is an ordered frame sequence. Index 0 is the outermost (oldest)
// call; the last index is the crash site. Rule directionality ("toward
// crash" / "away from crash") is defined in terms of this ordering.
type Stacktrace struct {
	Frames []Frame `json:"frames"`
}

// Message carries the log-message interface. Raw is the parameter-stripped
// template form; Formatted is the fully interpolated text.
type Message struct {
	Formatted string `json:"formatted,omitempty"`
	Raw       string `json:"raw,omitempty"`
}

// Frames returns the frame sequence grouping should inspect: the exception
// stacktrace when present, otherwise the event-level stacktrace. Nil when
// the event carries neither.
func (e *Event) Frames() []Frame {
	if e.Exception != nil && e.Exception.Stacktrace != nil && len(e.Exception.Stacktrace.Frames) > 0 {
		return e.Exception.Stacktrace.Frames
	}
	if e.Stacktrace != nil && len(e.Stacktrace.Frames) > 0 {
		return e.Stacktrace.Frames
	}
	return nil
}
