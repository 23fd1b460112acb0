// Package knot computes stable grouping keys ("fingerprints") for error
// events, so semantically similar occurrences collapse into one issue.
//
// Quick start:
//
//	k, err := knot.New(knot.WithEnhancements("path:**/vendor/** -app"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, _ := k.Group(knot.Event{
//	    Exception: &knot.Exception{Type: "TypeError", Value: "x is undefined"},
//	})
//	fmt.Println(res.Hash, res.Key)
//
// A Knot instance is immutable and safe for concurrent use: compile the
// rulesets once, reuse across events. See the README for the rule
// languages.
package knot
