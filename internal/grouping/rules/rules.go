// Package rules compiles line-oriented rule text into immutable rulesets.
// Two grammars share one matcher syntax: enhancement rules rewrite frame
// classification before key derivation, fingerprinting rules replace the
// derived key outright. Compiled rulesets are read-only and safe for
// concurrent use by any number of evaluations.
package rules

import "github.com/crimson-sun/knot/internal/grouping/matcher"

// FlagTarget names the frame flag an enhancement action mutates.
type FlagTarget string

const (
	TargetApp   FlagTarget = "app"   // in_app
	TargetGroup FlagTarget = "group" // include_in_grouping
)

// Direction controls which frames an enhancement flag action reaches,
// relative to the matched frame. Frame index grows toward the crash site.
type Direction int

const (
	Self        Direction = iota // the matched frame only
	TowardCrash                  // matched frame and every higher index
	AwayFromCrash                // matched frame and every lower index
)

// FlagAction sets a boolean frame flag over a direction range.
type FlagAction struct {
	Target    FlagTarget
	Direction Direction
	Set       bool
}

// VarAction proposes a numeric variable. The only variable today is
// max-frames; matched proposals combine by minimum.
type VarAction struct {
	Name  string
	Value int
}

// EnhancementRule is one compiled enhancement line: ANDed matchers plus at
// least one action.
type EnhancementRule struct {
	Matchers []*matcher.Matcher
	Flags    []FlagAction
	Vars     []VarAction
}

// FingerprintRule is one compiled fingerprinting line: ANDed matchers plus
// the literal override key.
type FingerprintRule struct {
	Matchers    []*matcher.Matcher
	Fingerprint []string
}

// Enhancements is an ordered, immutable enhancement ruleset.
type Enhancements struct {
	Rules []*EnhancementRule
}

// Fingerprinting is an ordered, immutable fingerprinting ruleset.
type Fingerprinting struct {
	Rules []*FingerprintRule
}
