package grouping

import (
	"reflect"
	"testing"

	"github.com/crimson-sun/knot/internal/model"
)

func TestAssembleClientTokenExpandsInPlace(t *testing.T) {
	key, origin := Assemble(
		[]string{"{{ default }}", "/api/x"},
		[]string{"GET", "/api/x", "500"},
		nil,
	)
	want := []string{"GET", "/api/x", "500", "/api/x"}
	if !reflect.DeepEqual(key, want) {
		t.Fatalf("key = %v, want %v", key, want)
	}
	if origin != model.OriginClient {
		t.Fatalf("origin = %v", origin)
	}
}

func TestAssembleClientReplacesWithoutToken(t *testing.T) {
	key, _ := Assemble([]string{"checkout", "payment"}, []string{"a", "b"}, []string{"c"})
	if !reflect.DeepEqual(key, []string{"checkout", "payment"}) {
		t.Fatalf("key = %v", key)
	}
}

func TestAssembleTokenSpellingVariants(t *testing.T) {
	for _, tok := range []string{"{{ default }}", "{{default}}", "{{  default  }}"} {
		key, _ := Assemble([]string{tok}, []string{"a"}, nil)
		if !reflect.DeepEqual(key, []string{"a"}) {
			t.Fatalf("token %q did not expand: %v", tok, key)
		}
	}
	// Not the token: passes through literally.
	key, _ := Assemble([]string{"{{ defaults }}"}, []string{"a"}, nil)
	if !reflect.DeepEqual(key, []string{"{{ defaults }}"}) {
		t.Fatalf("key = %v", key)
	}
}

func TestAssembleOverrideBeatsDefault(t *testing.T) {
	key, origin := Assemble(nil, []string{"a", "b"}, []string{"system-down"})
	if !reflect.DeepEqual(key, []string{"system-down"}) {
		t.Fatalf("key = %v", key)
	}
	if origin != model.OriginOverride {
		t.Fatalf("origin = %v", origin)
	}
}

func TestAssembleDefaultFallback(t *testing.T) {
	key, origin := Assemble(nil, []string{"a", "b"}, nil)
	if !reflect.DeepEqual(key, []string{"a", "b"}) {
		t.Fatalf("key = %v", key)
	}
	if origin != model.OriginDefault {
		t.Fatalf("origin = %v", origin)
	}
}

func TestAssembleClientBeatsOverride(t *testing.T) {
	key, origin := Assemble([]string{"mine"}, []string{"a"}, []string{"theirs"})
	if !reflect.DeepEqual(key, []string{"mine"}) || origin != model.OriginClient {
		t.Fatalf("key = %v origin = %v", key, origin)
	}
}

func TestHashOrderSensitive(t *testing.T) {
	a := Hash([]string{"x", "y"})
	b := Hash([]string{"y", "x"})
	if a == b {
		t.Fatal("hash must be order-sensitive")
	}
}

func TestHashBoundarySensitive(t *testing.T) {
	if Hash([]string{"ab", "c"}) == Hash([]string{"a", "bc"}) {
		t.Fatal("component boundaries must affect the hash")
	}
}

func TestHashDeterministic(t *testing.T) {
	key := []string{"GET", "/api/x", "500"}
	if Hash(key) != Hash(key) {
		t.Fatal("hash must be deterministic")
	}
}
