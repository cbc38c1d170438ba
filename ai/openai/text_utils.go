package openai

import "strings"

// scrubString strips markup punctuation and trims whitespace from clinical
// text before prompting. Measurement punctuation (decimal points, slashes in
// blood pressures, percent signs) carries clinical meaning and is kept.
func scrubString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '!', '?', ';', '"', '\'', '(', ')', '[', ']', '{', '}':
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// isLetter reports whether the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
