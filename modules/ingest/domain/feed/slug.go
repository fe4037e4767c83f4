package feed

import "strings"

// Slug folds a free-form name into a token usable in synthetic e-mail
// local parts: lower-case, alphanumerics kept, every other run of
// characters collapsed to a single dot.
func Slug(s string) string {
	var b strings.Builder
	lastDot := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDot = false
		default:
			if !lastDot {
				b.WriteByte('.')
				lastDot = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), ".")
}
