package model

import "time"

// KeyOrigin records which input produced the final grouping key.
type KeyOrigin string

const (
	OriginDefault  KeyOrigin = "default"  // default fingerprint algorithm
	OriginClient   KeyOrigin = "client"   // client-declared fingerprint
	OriginOverride KeyOrigin = "override" // server-side fingerprinting rule
)

// GroupedEvent is the engine's output: the event identity plus its grouping
// key and stable hash. Handed to issue-resolution outputs; never mutated
// after construction.
type GroupedEvent struct {
	EventID          string    `json:"event_id"`
	Project          string    `json:"project,omitempty"`
	Timestamp        time.Time `json:"timestamp,omitempty"`
	Key              []string  `json:"key"`
	Hash             string    `json:"hash"`
	Origin           KeyOrigin `json:"origin,omitempty"`
	AlgorithmVersion int       `json:"algorithm_version,omitempty"`
	Summary          string    `json:"summary,omitempty"`
}
