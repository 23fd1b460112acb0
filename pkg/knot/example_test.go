package knot_test

import (
	"fmt"
	"log"

	"github.com/crimson-sun/knot/pkg/knot"
)

func Example() {
	k, err := knot.New(
		knot.WithProject("shop"),
		knot.WithEnhancements("path:**/vendor/** -group"),
		knot.WithFingerprinting("type:DatabaseUnavailable -> db-down"),
	)
	if err != nil {
		log.Fatal(err)
	}

	res, err := k.Group(knot.Event{
		Exception: &knot.Exception{Type: "DatabaseUnavailable", Value: "connection refused (host=db-primary)"},
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Key: %v, Origin: %s\n", res.Key, res.Origin)
	fmt.Printf("Summary: %s\n", res.Summary)
	// Output:
	// Key: [db-down], Origin: override
	// Summary: DatabaseUnavailable: connection refused (host=db-primary)
}

func ExampleKnot_Group_clientFingerprint() {
	k, err := knot.New()
	if err != nil {
		log.Fatal(err)
	}

	res, err := k.Group(knot.Event{
		Exception:   &knot.Exception{Type: "TimeoutError", Value: "deadline exceeded"},
		Fingerprint: []string{"checkout", "{{ default }}"},
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Key: %v, Origin: %s\n", res.Key, res.Origin)
	// Output:
	// Key: [checkout TimeoutError deadline exceeded], Origin: client
}
