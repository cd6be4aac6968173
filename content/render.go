package content

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// SafeHTML is a rendered, sanitized HTML fragment. Values can only be
// produced inside this package, after the fragment sanitizer has run, so a
// SafeHTML in a response is guaranteed to have passed the allow-list.
type SafeHTML struct {
	html string
}

func (h SafeHTML) String() string { return h.html }

func (h SafeHTML) MarshalJSON() ([]byte, error) { return json.Marshal(h.html) }

// collapseThreshold is the code-block line count past which the rendered
// block starts collapsed with a Show More toggle.
const collapseThreshold = 15

// fragmentPolicy sanitizes the assembled fragment. It is the rich allow-list
// plus the wrapper markup the renderer itself emits (code-block containers,
// language badges, toggle buttons, styling classes).
var fragmentPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowElements("h1", "h2", "h3", "h4", "p", "br", "strong", "em",
		"ul", "ol", "li", "pre", "code", "blockquote", "div", "span", "button")
	p.AllowAttrs("href", "target", "rel", "class").OnElements("a")
	p.AllowAttrs("src", "alt", "class").OnElements("img")
	p.AllowAttrs("class").OnElements("pre", "code", "div", "span", "button", "ul", "ol")
	p.AllowAttrs("id").OnElements("div")
	p.AllowAttrs("type").OnElements("button")
	p.AllowDataAttributes()
	return p
}()

var (
	fencedCodeRe = regexp.MustCompile("(?s)```([a-zA-Z0-9+#-]*)\n(.*?)\n?```")
	inlineCodeRe = regexp.MustCompile("`([^`\n]+)`")
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.*?)\*`)
	h1Re         = regexp.MustCompile(`(?m)^# (.*)$`)
	h2Re         = regexp.MustCompile(`(?m)^## (.*)$`)
	h3Re         = regexp.MustCompile(`(?m)^### (.*)$`)
	h4Re         = regexp.MustCompile(`(?m)^#### (.*)$`)
	ulItemRe     = regexp.MustCompile(`^[*-] (.+)$`)
	olItemRe     = regexp.MustCompile(`^\d+\. (.+)$`)
	blankSplitRe = regexp.MustCompile(`\n{2,}`)

	htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// Stash token formats. Fenced blocks and inline spans get distinct prefixes
// so paragraph wrapping can tell a block-level code token from a paragraph
// that merely starts with an inline span.
const (
	blockTokenFmt  = "\x00b%d\x00"
	inlineTokenFmt = "\x00i%d\x00"
)

// Render converts the constrained Markdown dialect into a sanitized HTML
// fragment. Substitutions run once, left to right, without recursion; input
// must be Markdown source, never a previous render. Malformed constructs
// (for example an unterminated fence) pass through as literal text; Render
// never fails.
func Render(markdown string) SafeHTML {
	src := strings.ReplaceAll(markdown, "\r\n", "\n")

	// Code is lifted out before anything else runs so no other substitution
	// ever touches a code body.
	src, code := extractCode(src)

	src = imageRe.ReplaceAllString(src,
		`<img src="$2" alt="$1" class="w-full max-w-2xl mx-auto my-6 rounded-lg shadow-sm" />`)

	src = h1Re.ReplaceAllString(src, "<h1>$1</h1>")
	src = h2Re.ReplaceAllString(src, "<h2>$1</h2>")
	src = h3Re.ReplaceAllString(src, "<h3>$1</h3>")
	src = h4Re.ReplaceAllString(src, "<h4>$1</h4>")

	// Bold before italic, or the single-asterisk rule eats `**`.
	src = boldRe.ReplaceAllString(src, "<strong>$1</strong>")
	src = italicRe.ReplaceAllString(src, "<em>$1</em>")

	src = linkRe.ReplaceAllString(src,
		`<a href="$2" class="text-primary hover:underline" target="_blank" rel="noopener noreferrer">$1</a>`)

	src = renderLists(src)
	src = wrapParagraphs(src)
	src = code.restore(src)

	return SafeHTML{html: fragmentPolicy.Sanitize(src)}
}

// SanitizeFragment re-admits stored fragment HTML (a previous Render output,
// for example from the disk cache) through the same allow-list. The policy is
// idempotent on its own output, so round-tripping a cached fragment does not
// change it.
func SanitizeFragment(s string) SafeHTML {
	return SafeHTML{html: fragmentPolicy.Sanitize(s)}
}

type codeStash struct {
	replacements []string // token, html, token, html, ...
}

func (s *codeStash) add(format, html string) string {
	token := fmt.Sprintf(format, len(s.replacements)/2)
	s.replacements = append(s.replacements, token, html)
	return token
}

func (s *codeStash) restore(src string) string {
	if len(s.replacements) == 0 {
		return src
	}
	return strings.NewReplacer(s.replacements...).Replace(src)
}

func extractCode(src string) (string, *codeStash) {
	stash := &codeStash{}
	blockID := 0

	src = fencedCodeRe.ReplaceAllStringFunc(src, func(match string) string {
		m := fencedCodeRe.FindStringSubmatch(match)
		blockID++
		return stash.add(blockTokenFmt, renderCodeBlock(m[1], m[2], blockID))
	})

	src = inlineCodeRe.ReplaceAllStringFunc(src, func(match string) string {
		m := inlineCodeRe.FindStringSubmatch(match)
		return stash.add(inlineTokenFmt, `<code class="bg-muted px-2 py-1 rounded text-sm">`+
			htmlEscaper.Replace(m[1])+`</code>`)
	})

	return src, stash
}

// renderCodeBlock builds the wrapper for one fenced block: language badge if
// a tag was given, escaped body, and a collapsed state with a Show More
// toggle when the body runs past the threshold. The toggle is client-side
// only, keyed by the block id.
func renderCodeBlock(lang, body string, id int) string {
	escaped := htmlEscaper.Replace(body)
	long := strings.Count(body, "\n")+1 > collapseThreshold

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="code-block" id="code-block-%d">`, id)
	if lang != "" {
		b.WriteString(`<span class="code-lang">` + lang + `</span>`)
	}
	preClass := "bg-muted p-4 rounded-lg overflow-x-auto my-4"
	if long {
		preClass += " collapsed"
	}
	b.WriteString(`<pre class="` + preClass + `"><code>` + escaped + `</code></pre>`)
	if long {
		fmt.Fprintf(&b, `<button type="button" class="code-toggle" data-target="code-block-%d">Show More</button>`, id)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// renderLists converts item lines into <li> and groups consecutive items of
// the same flavour under one <ul> or <ol>. A stray trailing backslash is a
// line-continuation artifact and is stripped before detection, otherwise it
// breaks item grouping.
func renderLists(src string) string {
	lines := strings.Split(src, "\n")
	var out []string
	flavour := "" // "", "ul" or "ol"

	closeList := func() {
		if flavour != "" {
			out = append(out, "</"+flavour+">")
			flavour = ""
		}
	}
	openList := func(f string) {
		if flavour != f {
			closeList()
			if f == "ul" {
				out = append(out, `<ul class="list-disc pl-6 my-4">`)
			} else {
				out = append(out, `<ol class="list-decimal pl-6 my-4">`)
			}
			flavour = f
		}
	}

	for _, line := range lines {
		line = strings.TrimSuffix(line, "\\")
		if m := ulItemRe.FindStringSubmatch(line); m != nil {
			openList("ul")
			out = append(out, "<li>"+m[1]+"</li>")
			continue
		}
		if m := olItemRe.FindStringSubmatch(line); m != nil {
			openList("ol")
			out = append(out, "<li>"+m[1]+"</li>")
			continue
		}
		closeList()
		out = append(out, line)
	}
	closeList()

	return strings.Join(out, "\n")
}

// wrapParagraphs splits on blank lines and wraps each block in <p> unless it
// already starts block-level. Image blocks get a centering div instead of a
// paragraph so an <img> never ends up inside a <p>.
func wrapParagraphs(src string) string {
	blockPrefixes := []string{
		"<h1", "<h2", "<h3", "<h4", "<pre", "<ul", "<ol", "<div", "<blockquote", "\x00b",
	}

	blocks := blankSplitRe.Split(src, -1)
	var out []string
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		switch {
		case hasAnyPrefix(block, blockPrefixes):
			out = append(out, block)
		case strings.HasPrefix(block, "<img"):
			out = append(out, `<div class="text-center my-6">`+block+`</div>`)
		default:
			out = append(out, "<p>"+block+"</p>")
		}
	}

	return strings.Join(out, "\n\n")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
