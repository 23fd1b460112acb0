// Package normalize prepares frame and message text for grouping. Filenames
// lose build-specific noise (revision hashes, version directories, drive
// letters) so the same source file hashes identically across releases;
// context lines are unicode-normalized and whitespace-collapsed so cosmetic
// edits do not split issues.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const maxContextLen = 120

var (
	driveRe   = regexp.MustCompile(`^[a-zA-Z]:/`)
	hexSegRe  = regexp.MustCompile(`^[0-9a-fA-F]{8,}$`)
	versionRe = regexp.MustCompile(`^v?[0-9]+(\.[0-9]+)+$`)
)

// Path converts a platform path to forward slashes and strips any Windows
// drive-letter prefix. Empty input stays empty.
func Path(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	return driveRe.ReplaceAllString(p, "/")
}

// IsRelative reports whether a normalized path has no root anchor.
func IsRelative(p string) bool {
	return p != "" && !strings.HasPrefix(p, "/")
}

// Filename normalizes a frame filename for key derivation: slash
// normalization plus collapsing of path segments that vary per build.
// Long hex segments (content hashes, commit ids) become "<hash>";
// version-number segments become "<version>".
func Filename(p string) string {
	p = Path(p)
	if p == "" {
		return ""
	}
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		switch {
		case hexSegRe.MatchString(seg):
			segs[i] = "<hash>"
		case versionRe.MatchString(seg):
			segs[i] = "<version>"
		}
	}
	return strings.Join(segs, "/")
}

// ContextLine normalizes a source line for key derivation: NFC unicode
// normalization, interior whitespace collapsed to single spaces, and a
// length cap so pathological minified lines do not dominate the key.
func ContextLine(s string) string {
	s = norm.NFC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxContextLen {
		s = s[:maxContextLen]
	}
	return s
}
