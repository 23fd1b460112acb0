package matcher

import (
	"fmt"
	"regexp"
	"strings"
)

// glob is a compiled wildcard pattern. `*` matches within one path segment,
// `**` matches across segments. A `**/` prefix and a `/**` suffix at a
// segment boundary match zero segments too, so `**/x/**` covers `x/b` and
// `a/x` as well as `a/x/b`. Compilation happens once at ruleset build time;
// Match is a single anchored regexp test.
type glob struct {
	re *regexp.Regexp
}

func compileGlob(pattern string, caseInsensitive bool) (*glob, error) {
	var b strings.Builder
	b.WriteString(`\A`)
	if caseInsensitive {
		b.WriteString(`(?i)`)
	}
	for i := 0; i < len(pattern); {
		rest := pattern[i:]
		switch {
		case rest == "/**":
			b.WriteString(`(?:/.*)?`)
			i += 3
		case strings.HasPrefix(rest, "**/") && (i == 0 || pattern[i-1] == '/'):
			b.WriteString(`(?:.*/)?`)
			i += 3
		case strings.HasPrefix(rest, "**"):
			b.WriteString(`.*`)
			i += 2
		case rest[0] == '*':
			b.WriteString(`[^/]*`)
			i++
		default:
			b.WriteString(regexp.QuoteMeta(rest[:1]))
			i++
		}
	}
	b.WriteString(`\z`)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	return &glob{re: re}, nil
}

func (g *glob) Match(s string) bool {
	return g.re.MatchString(s)
}
