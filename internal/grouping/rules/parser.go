package rules

import (
	"strconv"
	"strings"

	"github.com/crimson-sun/knot/internal/grouping/matcher"
)

// VarMaxFrames is the only recognized rule variable.
const VarMaxFrames = "max-frames"

// ParseEnhancements compiles enhancement rule text. One rule per non-empty,
// non-comment line: one or more matchers followed by one or more actions.
// Compilation is all-or-nothing; the first bad line aborts with a ParseError
// carrying its 1-based line number.
func ParseEnhancements(text string) (*Enhancements, error) {
	rs := &Enhancements{}
	for i, line := range strings.Split(text, "\n") {
		rule, err := parseEnhancementLine(i+1, line)
		if err != nil {
			return nil, err
		}
		if rule != nil {
			rs.Rules = append(rs.Rules, rule)
		}
	}
	return rs, nil
}

// ParseFingerprinting compiles fingerprinting rule text. Grammar per line:
// one or more matchers, "->", one or more comma-separated key tokens.
func ParseFingerprinting(text string) (*Fingerprinting, error) {
	rs := &Fingerprinting{}
	for i, line := range strings.Split(text, "\n") {
		rule, err := parseFingerprintLine(i+1, line)
		if err != nil {
			return nil, err
		}
		if rule != nil {
			rs.Rules = append(rs.Rules, rule)
		}
	}
	return rs, nil
}

func skippable(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

func parseEnhancementLine(lineno int, line string) (*EnhancementRule, error) {
	if skippable(line) {
		return nil, nil
	}
	tokens, err := lex(lineno, line)
	if err != nil {
		return nil, err
	}

	rule := &EnhancementRule{}
	i := 0
	for ; i < len(tokens); i++ {
		if !isMatcherToken(tokens[i]) {
			break
		}
		m, err := parseMatcherToken(lineno, tokens[i], false)
		if err != nil {
			return nil, err
		}
		rule.Matchers = append(rule.Matchers, m)
	}
	if len(rule.Matchers) == 0 {
		return nil, parseErr(lineno, firstToken(tokens), "rule has no matchers")
	}
	if i == len(tokens) {
		return nil, parseErr(lineno, "", "rule has no actions")
	}
	for ; i < len(tokens); i++ {
		if err := parseAction(lineno, tokens[i], rule); err != nil {
			return nil, err
		}
	}
	return rule, nil
}

func parseFingerprintLine(lineno int, line string) (*FingerprintRule, error) {
	if skippable(line) {
		return nil, nil
	}
	left, right, found := cutArrow(line)
	if !found {
		return nil, parseErr(lineno, "", `fingerprint rule has no "->"`)
	}

	tokens, err := lex(lineno, left)
	if err != nil {
		return nil, err
	}
	rule := &FingerprintRule{}
	for _, tok := range tokens {
		if !isMatcherToken(tok) {
			return nil, parseErr(lineno, tok, "expected matcher before ->")
		}
		m, err := parseMatcherToken(lineno, tok, true)
		if err != nil {
			return nil, err
		}
		rule.Matchers = append(rule.Matchers, m)
	}
	if len(rule.Matchers) == 0 {
		return nil, parseErr(lineno, "", "rule has no matchers")
	}

	for _, part := range strings.Split(right, ",") {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, `"`)
		if part == "" {
			continue
		}
		rule.Fingerprint = append(rule.Fingerprint, part)
	}
	if len(rule.Fingerprint) == 0 {
		return nil, parseErr(lineno, "", "fingerprint rule has an empty key")
	}
	return rule, nil
}

// isMatcherToken reports whether a token has matcher shape (name:expr).
// Anything else is handed to the action parsers.
func isMatcherToken(tok string) bool {
	body := strings.TrimPrefix(tok, "!")
	i := strings.IndexByte(body, ':')
	return i > 0
}

func parseMatcherToken(lineno int, tok string, fingerprinting bool) (*matcher.Matcher, error) {
	body := tok
	negated := false
	if strings.HasPrefix(body, "!") {
		negated = true
		body = body[1:]
	}
	name, expr, _ := strings.Cut(body, ":")
	expr = strings.Trim(expr, `"`)
	if expr == "" {
		return nil, parseErr(lineno, tok, "matcher has an empty pattern")
	}

	kind, ok := matcher.KindOf(name)
	if !ok {
		return nil, parseErrWrap(lineno, tok, "unknown matcher "+strconv.Quote(name), ErrUnknownMatcher)
	}
	if !fingerprinting && !kind.FrameScoped() {
		return nil, parseErrWrap(lineno, tok,
			"matcher "+strconv.Quote(name)+" is only valid in fingerprinting rules", ErrUnknownMatcher)
	}

	m, err := matcher.New(kind, expr, negated)
	if err != nil {
		return nil, parseErr(lineno, tok, err.Error())
	}
	return m, nil
}

// parseAction compiles one enhancement action token into the rule:
// either a flag action ([^|v]?[+|-]flag) or a variable (name=value).
func parseAction(lineno int, tok string, rule *EnhancementRule) error {
	// Any token containing '=' is a variable assignment; flag actions never
	// carry one.
	if name, value, ok := strings.Cut(tok, "="); ok {
		if name != VarMaxFrames {
			return parseErrWrap(lineno, tok, "unknown variable "+strconv.Quote(name), ErrUnknownFlag)
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return parseErr(lineno, tok, "max-frames takes a non-negative integer")
		}
		rule.Vars = append(rule.Vars, VarAction{Name: name, Value: n})
		return nil
	}

	body := tok
	dir := Self
	switch {
	case strings.HasPrefix(body, "^"):
		dir = TowardCrash
		body = body[1:]
	case strings.HasPrefix(body, "v"):
		dir = AwayFromCrash
		body = body[1:]
	}

	var set bool
	switch {
	case strings.HasPrefix(body, "+"):
		set = true
	case strings.HasPrefix(body, "-"):
		set = false
	default:
		return parseErr(lineno, tok, "expected an action")
	}
	flag := body[1:]

	switch FlagTarget(flag) {
	case TargetApp, TargetGroup:
	default:
		return parseErrWrap(lineno, tok, "unknown flag "+strconv.Quote(flag), ErrUnknownFlag)
	}
	rule.Flags = append(rule.Flags, FlagAction{Target: FlagTarget(flag), Direction: dir, Set: set})
	return nil
}

// lex splits a line into whitespace-separated tokens. A double-quoted span
// joins into its surrounding token so patterns may contain spaces.
func lex(lineno int, line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case !inQuote && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if inQuote {
		return nil, parseErr(lineno, cur.String(), "unterminated quote")
	}
	flush()
	return tokens, nil
}

// cutArrow splits a fingerprint line at the first "->" outside quotes.
func cutArrow(line string) (left, right string, found bool) {
	inQuote := false
	for i := 0; i+1 < len(line); i++ {
		switch {
		case line[i] == '"':
			inQuote = !inQuote
		case !inQuote && line[i] == '-' && line[i+1] == '>':
			return line[:i], line[i+2:], true
		}
	}
	return line, "", false
}

func firstToken(tokens []string) string {
	if len(tokens) > 0 {
		return tokens[0]
	}
	return ""
}
