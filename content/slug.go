package content

import "strings"

// accentMap folds common accented characters before slug filtering so
// "Métier" becomes "metier", not "m-tier".
var accentMap = map[rune]rune{
	'á': 'a', 'à': 'a', 'ã': 'a', 'â': 'a', 'ä': 'a', 'å': 'a', 'ā': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e', 'ē': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i', 'ī': 'i',
	'ó': 'o', 'ò': 'o', 'õ': 'o', 'ô': 'o', 'ö': 'o', 'ø': 'o', 'ō': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u', 'ū': 'u',
	'ç': 'c', 'ć': 'c', 'č': 'c',
	'ñ': 'n', 'ń': 'n',
	'ý': 'y', 'ÿ': 'y',
	'ß': 's',
}

// Slugify turns a title into a URL slug: lowercase, accents folded, every run
// of non-alphanumeric characters collapsed into a single hyphen, no leading
// or trailing hyphen. Pure and deterministic.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = strings.Map(func(r rune) rune {
		if replacement, ok := accentMap[r]; ok {
			return replacement
		}
		return r
	}, slug)

	var b strings.Builder
	lastHyphen := false
	for _, r := range slug {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
