package content

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var plainPolicy = bluemonday.StrictPolicy()

// richAllowedTags is the fixed allow-list for rich-mode fields.
var richAllowedTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true,
	"p": true, "br": true,
	"strong": true, "em": true,
	"a":  true,
	"ul": true, "ol": true, "li": true,
	"code": true, "pre": true,
	"img":        true,
	"blockquote": true,
}

// richAllowedAttrs lists the attributes kept per allowed tag.
var richAllowedAttrs = map[string]map[string]bool{
	"a":   {"href": true, "target": true, "rel": true},
	"img": {"src": true, "alt": true},
}

var (
	tagRe      = regexp.MustCompile(`<\s*(/?)\s*([a-zA-Z][a-zA-Z0-9]*)([^>]*?)(/?)>`)
	attrRe     = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9-]*)\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	scriptRe   = regexp.MustCompile(`(?is)<\s*script\b[^>]*>.*?<\s*/\s*script\s*>`)
	styleElRe  = regexp.MustCompile(`(?is)<\s*style\b[^>]*>.*?<\s*/\s*style\s*>`)
	nonSlugRe  = regexp.MustCompile(`[^a-z0-9-]+`)
	jsSchemeRe = regexp.MustCompile(`(?i)^\s*javascript\s*:`)
)

// SanitizePlain strips all markup from an untrusted string. Used on titles,
// excerpts, meta fields and individual tags.
func SanitizePlain(s string) string {
	return strings.TrimSpace(plainPolicy.Sanitize(s))
}

// SanitizeRich removes every tag outside the rich allow-list and every
// attribute outside the per-tag allow-list, leaving non-tag text untouched so
// Markdown source survives the pass byte-for-byte. script and style element
// bodies are removed along with their tags. Never fails; unparseable markup
// degrades to stripped text.
func SanitizeRich(s string) string {
	s = scriptRe.ReplaceAllString(s, "")
	s = styleElRe.ReplaceAllString(s, "")

	return tagRe.ReplaceAllStringFunc(s, func(tag string) string {
		m := tagRe.FindStringSubmatch(tag)
		closing, name, rawAttrs, selfClose := m[1], strings.ToLower(m[2]), m[3], m[4]

		if !richAllowedTags[name] {
			return ""
		}
		if closing != "" {
			return "</" + name + ">"
		}

		var b strings.Builder
		b.WriteByte('<')
		b.WriteString(name)
		allowed := richAllowedAttrs[name]
		for _, am := range attrRe.FindAllStringSubmatch(rawAttrs, -1) {
			attr := strings.ToLower(am[1])
			if !allowed[attr] {
				continue
			}
			val := strings.Trim(am[2], `"'`)
			if (attr == "href" || attr == "src") && jsSchemeRe.MatchString(val) {
				continue
			}
			b.WriteByte(' ')
			b.WriteString(attr)
			b.WriteString(`="`)
			b.WriteString(strings.ReplaceAll(val, `"`, "&quot;"))
			b.WriteString(`"`)
		}
		if selfClose != "" {
			b.WriteString(" /")
		}
		b.WriteByte('>')
		return b.String()
	})
}

// SanitizeSlug restricts a slug to [a-z0-9-], lowercasing first. It does not
// collapse or trim hyphens; Slugify does the full normalization.
func SanitizeSlug(s string) string {
	return nonSlugRe.ReplaceAllString(strings.ToLower(s), "")
}
