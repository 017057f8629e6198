package counter

import "strings"

const (
	// DefaultKey replaces a key that normalizes to nothing.
	DefaultKey = "default"
	// MaxKeyLength bounds a normalized key.
	MaxKeyLength = 64

	// ReservedKey is the project's own counter. It starts at ReservedSeed+1.
	ReservedKey = "web2and3"
	// ReservedSeed is stored before the first increment of ReservedKey.
	ReservedSeed int64 = 9810
)

// NormalizeKey trims raw, replaces every rune outside [A-Za-z0-9_-] with '-'
// and truncates the result to MaxKeyLength.
func NormalizeKey(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if b.Len() == MaxKeyLength {
			break
		}
		if isKeyRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return DefaultKey
	}
	return b.String()
}

func isKeyRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}
