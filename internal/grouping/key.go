package grouping

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"regexp"

	"github.com/crimson-sun/knot/internal/model"
)

// defaultTokenRe recognizes the client fingerprint token that expands to the
// server-computed default key. The canonical spelling is "{{ default }}";
// whitespace inside the braces is tolerated.
var defaultTokenRe = regexp.MustCompile(`\A\{\{\s*default\s*\}\}\z`)

// Assemble merges the client fingerprint, the override key, and the default
// key into the final grouping key, with client > override > default
// precedence. A client fingerprint containing the default token extends the
// default rather than replacing it. The result also reports where the key
// came from.
func Assemble(clientFP, defaultKey, overrideKey []string) ([]string, model.KeyOrigin) {
	if len(clientFP) > 0 {
		if !containsDefaultToken(clientFP) {
			return append([]string(nil), clientFP...), model.OriginClient
		}
		key := make([]string, 0, len(clientFP)+len(defaultKey))
		for _, part := range clientFP {
			if defaultTokenRe.MatchString(part) {
				key = append(key, defaultKey...)
				continue
			}
			key = append(key, part)
		}
		return key, model.OriginClient
	}
	if len(overrideKey) > 0 {
		return append([]string(nil), overrideKey...), model.OriginOverride
	}
	return append([]string(nil), defaultKey...), model.OriginDefault
}

func containsDefaultToken(fp []string) bool {
	for _, part := range fp {
		if defaultTokenRe.MatchString(part) {
			return true
		}
	}
	return false
}

// Hash computes the stable grouping identifier: sha256 over the ordered key
// with length-prefixed components, so component boundaries contribute to the
// digest and ["ab","c"] differs from ["a","bc"].
func Hash(key []string) string {
	h := sha256.New()
	var n [4]byte
	for _, part := range key {
		binary.BigEndian.PutUint32(n[:], uint32(len(part)))
		h.Write(n[:])
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}
