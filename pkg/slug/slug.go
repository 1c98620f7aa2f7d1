// Package slug derives URL-safe identifiers from display names.
package slug

import "strings"

// Make lowercases s, collapses every run of non-alphanumeric characters
// into a single hyphen, and trims leading/trailing hyphens. The transform
// is deterministic: the same input always yields the same slug.
func Make(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
