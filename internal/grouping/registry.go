package grouping

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/crimson-sun/knot/internal/grouping/rules"
)

// ErrVersionDowngrade is returned by Update when the new config carries a
// lower algorithm version than the active one. Downgrades are an explicit
// administrative act; use ForceUpdate.
var ErrVersionDowngrade = errors.New("algorithm version downgrade")

// ProjectConfig selects a project's grouping behavior: the algorithm version
// and the active compiled rulesets. Immutable once built.
type ProjectConfig struct {
	AlgorithmVersion int
	Enhancements     *rules.Enhancements
	Fingerprinting   *rules.Fingerprinting
}

// CompileConfig parses both rule texts into a ProjectConfig. Compilation is
// all-or-nothing: a parse failure in either text leaves nothing published,
// so callers keep their previous config. Empty texts compile to empty
// rulesets.
func CompileConfig(version int, enhancementText, fingerprintText string) (*ProjectConfig, error) {
	enh, err := rules.ParseEnhancements(enhancementText)
	if err != nil {
		return nil, fmt.Errorf("enhancements: %w", err)
	}
	fp, err := rules.ParseFingerprinting(fingerprintText)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting: %w", err)
	}
	return &ProjectConfig{AlgorithmVersion: version, Enhancements: enh, Fingerprinting: fp}, nil
}

// Registry holds the active ProjectConfig per project behind an atomically
// swapped snapshot. Readers never block and never observe a half-updated
// config: Lookup loads one immutable snapshot and updates publish a fresh
// copy of the whole map.
type Registry struct {
	mu   sync.Mutex // serializes writers only
	snap atomic.Pointer[map[string]*ProjectConfig]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	empty := make(map[string]*ProjectConfig)
	r.snap.Store(&empty)
	return r
}

// Lookup returns the active config for a project.
func (r *Registry) Lookup(project string) (*ProjectConfig, bool) {
	cfg, ok := (*r.snap.Load())[project]
	return cfg, ok
}

// EngineFor builds an Engine from the project's active config.
func (r *Registry) EngineFor(project string) (*Engine, bool) {
	cfg, ok := r.Lookup(project)
	if !ok {
		return nil, false
	}
	return NewEngine(project, cfg.AlgorithmVersion, cfg.Enhancements, cfg.Fingerprinting), true
}

// Update publishes a new config for the project. The algorithm version must
// not decrease; in-flight evaluations keep the snapshot they already loaded.
func (r *Registry) Update(project string, cfg *ProjectConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := (*r.snap.Load())[project]; ok && cfg.AlgorithmVersion < cur.AlgorithmVersion {
		return fmt.Errorf("project %s: %d < %d: %w",
			project, cfg.AlgorithmVersion, cur.AlgorithmVersion, ErrVersionDowngrade)
	}
	r.publish(project, cfg)
	return nil
}

// ForceUpdate publishes a config regardless of version ordering.
func (r *Registry) ForceUpdate(project string, cfg *ProjectConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publish(project, cfg)
}

// publish copies the current snapshot, applies the change, and swaps the
// pointer. Caller must hold r.mu.
func (r *Registry) publish(project string, cfg *ProjectConfig) {
	old := *r.snap.Load()
	next := make(map[string]*ProjectConfig, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[project] = cfg
	r.snap.Store(&next)
}
