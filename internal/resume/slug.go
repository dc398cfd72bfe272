package resume

import "strings"

// Slugify derives a stable identifier from a human title: lower-cased
// ASCII letters and digits, runs of anything else collapsed to a single
// hyphen. Used as the render/filter key for entries.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevDash := true // suppress a leading dash
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case isAccented(r):
			b.WriteRune(stripAccent(r))
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Portuguese content carries accented vowels and ç; fold the common
// ones so "Gestão de Produto" and "Gestao de Produto" slug identically.
func isAccented(r rune) bool {
	return strings.ContainsRune("àáâãäèéêëìíîïòóôõöùúûüç", r)
}

func stripAccent(r rune) rune {
	switch r {
	case 'à', 'á', 'â', 'ã', 'ä':
		return 'a'
	case 'è', 'é', 'ê', 'ë':
		return 'e'
	case 'ì', 'í', 'î', 'ï':
		return 'i'
	case 'ò', 'ó', 'ô', 'õ', 'ö':
		return 'o'
	case 'ù', 'ú', 'û', 'ü':
		return 'u'
	case 'ç':
		return 'c'
	}
	return r
}
