package grouping

import (
	"errors"
	"sync"
	"testing"

	"github.com/crimson-sun/knot/internal/model"
)

func TestRegistryLookupEmpty(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Lookup("nope"); ok {
		t.Fatal("empty registry must not resolve")
	}
}

func TestRegistryUpdateAndEngineFor(t *testing.T) {
	r := NewRegistry()
	cfg, err := CompileConfig(1, "path:**/vendor/** -group", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Update("proj", cfg); err != nil {
		t.Fatal(err)
	}
	eng, ok := r.EngineFor("proj")
	if !ok {
		t.Fatal("expected engine")
	}
	ge, err := eng.Process(model.Event{Message: &model.Message{Formatted: "boom"}})
	if err != nil {
		t.Fatal(err)
	}
	if ge.AlgorithmVersion != 1 {
		t.Fatalf("version = %d", ge.AlgorithmVersion)
	}
}

func TestRegistryRejectsDowngrade(t *testing.T) {
	r := NewRegistry()
	v2, _ := CompileConfig(2, "", "")
	v1, _ := CompileConfig(1, "", "")
	if err := r.Update("proj", v2); err != nil {
		t.Fatal(err)
	}
	if err := r.Update("proj", v1); !errors.Is(err, ErrVersionDowngrade) {
		t.Fatalf("expected ErrVersionDowngrade, got %v", err)
	}
	// Same version republish is allowed (rule text changed, version did not).
	if err := r.Update("proj", v2); err != nil {
		t.Fatal(err)
	}
	// Explicit administrative downgrade.
	r.ForceUpdate("proj", v1)
	cfg, _ := r.Lookup("proj")
	if cfg.AlgorithmVersion != 1 {
		t.Fatalf("version = %d", cfg.AlgorithmVersion)
	}
}

func TestRegistryBadRulesLeavePreviousConfigActive(t *testing.T) {
	r := NewRegistry()
	good, err := CompileConfig(1, "path:**/vendor/** -group", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Update("proj", good); err != nil {
		t.Fatal(err)
	}

	// Compilation fails before anything is published.
	if _, err := CompileConfig(2, "foo:bar -app", ""); err == nil {
		t.Fatal("expected compile failure")
	}

	cfg, ok := r.Lookup("proj")
	if !ok || len(cfg.Enhancements.Rules) != 1 {
		t.Fatal("previous config must remain active")
	}
}

func TestRegistryConcurrentReadersDuringSwap(t *testing.T) {
	r := NewRegistry()
	base, _ := CompileConfig(1, "", "")
	if err := r.Update("proj", base); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				cfg, ok := r.Lookup("proj")
				if !ok || cfg == nil {
					t.Error("reader observed missing config")
					return
				}
				// A snapshot is internally consistent: both rulesets non-nil.
				if cfg.Enhancements == nil || cfg.Fingerprinting == nil {
					t.Error("reader observed partial config")
					return
				}
			}
		}()
	}
	for v := 2; v < 50; v++ {
		cfg, _ := CompileConfig(v, "path:a -app", "type:X -> y")
		if err := r.Update("proj", cfg); err != nil {
			t.Fatal(err)
		}
	}
	close(stop)
	wg.Wait()
}
