package antirep

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// CanonicalSignature flattens a parameter map into a stable string: keys
// sorted, "k=v" pairs joined with "|". The format must stay stable across
// releases; recorded hashes outlive any single build.
func CanonicalSignature(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// HashSignature hashes a canonical signature to its stored hex form.
func HashSignature(sig string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(sig))
}

// hashes returns the full and primary-only hashes of a candidate. The full
// hash covers primary and cosmetic parameters plus difficulty; the primary
// hash covers only the gameplay-salient set and drives near-duplicate checks.
func (c Candidate) hashes() (full, primary string) {
	primarySig := CanonicalSignature(c.Primary)
	fullSig := primarySig + "||" + CanonicalSignature(c.Cosmetic) + "||" + c.Difficulty
	return HashSignature(fullSig), HashSignature(primarySig)
}
