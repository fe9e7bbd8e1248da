package propmod

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Fingerprint returns a deterministic hex digest of a table's summaries.
// Two tables with the same properties, states and values have the same
// fingerprint regardless of insertion order.
func Fingerprint(t *Table) string {
	if t == nil || t.Len() == 0 {
		return "empty"
	}
	var b strings.Builder
	for _, key := range t.SortedKeys() {
		sum, _ := t.Get(key)
		// key|state|value
		fmt.Fprintf(&b, "%s|%s|%s\n", key, sum.ApplyState(), sum.Value())
	}
	h := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", h[:])
}
