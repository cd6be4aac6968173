package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHeadingsAndParagraphs(t *testing.T) {
	out := Render("# Hi\n\nSome **bold** text.").String()

	assert.Contains(t, out, "<h1>Hi</h1>")
	assert.Contains(t, out, "<p>Some <strong>bold</strong> text.</p>")
}

func TestRenderAllHeadingLevels(t *testing.T) {
	out := Render("# One\n\n## Two\n\n### Three\n\n#### Four").String()

	assert.Contains(t, out, "<h1>One</h1>")
	assert.Contains(t, out, "<h2>Two</h2>")
	assert.Contains(t, out, "<h3>Three</h3>")
	assert.Contains(t, out, "<h4>Four</h4>")
}

func TestRenderBoldBeforeItalic(t *testing.T) {
	out := Render("**strong** and *soft*").String()

	assert.Contains(t, out, "<strong>strong</strong>")
	assert.Contains(t, out, "<em>soft</em>")
	assert.NotContains(t, out, "<em></em>")
}

func TestRenderLinks(t *testing.T) {
	out := Render("see [the docs](https://example.com/docs)").String()

	assert.Contains(t, out, `href="https://example.com/docs"`)
	assert.Contains(t, out, `target="_blank"`)
	assert.Contains(t, out, `rel="noopener noreferrer"`)
	assert.Contains(t, out, ">the docs</a>")
}

func TestRenderImageNeverInsideParagraph(t *testing.T) {
	out := Render("intro\n\n![diagram](/uploads/diagram.png)\n\noutro").String()

	assert.Contains(t, out, `src="/uploads/diagram.png"`)
	assert.Contains(t, out, `alt="diagram"`)
	assert.Contains(t, out, `<div class="text-center my-6">`)
	assert.NotContains(t, out, "<p><img")
}

func TestRenderCodeBlockEscapesMarkup(t *testing.T) {
	out := Render("```html\n<script>alert(1)</script> & more\n```").String()

	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "&amp; more")
	assert.NotContains(t, out, "<script>")
}

func TestRenderCodeBlockLanguageBadge(t *testing.T) {
	out := Render("```go\nfmt.Println(\"hi\")\n```").String()

	assert.Contains(t, out, `<span class="code-lang">go</span>`)
	assert.Contains(t, out, `id="code-block-1"`)
}

func TestRenderShortCodeBlockStaysExpanded(t *testing.T) {
	out := Render("```\none\ntwo\nthree\n```").String()

	assert.NotContains(t, out, "collapsed")
	assert.NotContains(t, out, "Show More")
}

func TestRenderLongCodeBlockCollapses(t *testing.T) {
	body := strings.TrimSuffix(strings.Repeat("line\n", 20), "\n")
	out := Render("```\n" + body + "\n```").String()

	assert.Contains(t, out, "collapsed")
	assert.Contains(t, out, `data-target="code-block-1"`)
	assert.Contains(t, out, ">Show More</button>")
}

func TestRenderCodeBlockNotTouchedByOtherRules(t *testing.T) {
	out := Render("```\n# not a heading\n**not bold**\n```").String()

	assert.Contains(t, out, "# not a heading")
	assert.Contains(t, out, "**not bold**")
	assert.NotContains(t, out, "<h1>")
	assert.NotContains(t, out, "<strong>")
}

func TestRenderInlineCode(t *testing.T) {
	out := Render("compare `a < b` here").String()

	assert.Contains(t, out, "a &lt; b</code>")
	assert.NotContains(t, out, "`")
}

func TestRenderParagraphStartingWithInlineCode(t *testing.T) {
	out := Render("`go vet` finds it").String()

	assert.Contains(t, out, "<p><code")
	assert.Contains(t, out, "go vet</code> finds it</p>")
}

func TestRenderFencedBlockNotParagraphWrapped(t *testing.T) {
	out := Render("```\ncode\n```").String()

	assert.NotContains(t, out, "<p>")
	assert.Contains(t, out, `<div class="code-block"`)
}

func TestRenderUnterminatedFenceIsLiteral(t *testing.T) {
	out := Render("```go\nno closing fence").String()

	assert.NotContains(t, out, "<pre")
	assert.Contains(t, out, "```go")
}

func TestRenderUnorderedList(t *testing.T) {
	out := Render("intro\n\n* first\n* second\n- third\n\noutro").String()

	assert.Contains(t, out, "<ul")
	assert.Contains(t, out, "<li>first</li>")
	assert.Contains(t, out, "<li>second</li>")
	assert.Contains(t, out, "<li>third</li>")
	assert.Equal(t, 1, strings.Count(out, "<ul"), "consecutive items share one list")
}

func TestRenderOrderedList(t *testing.T) {
	out := Render("1. alpha\n2. beta\n3. gamma").String()

	assert.Contains(t, out, "<ol")
	assert.Contains(t, out, "<li>alpha</li>")
	assert.Contains(t, out, "<li>gamma</li>")
}

func TestRenderListItemTrailingBackslash(t *testing.T) {
	out := Render("* one\\\n* two").String()

	assert.Contains(t, out, "<li>one</li>")
	assert.Contains(t, out, "<li>two</li>")
	assert.Equal(t, 1, strings.Count(out, "<ul"))
}

func TestRenderStripsRawScript(t *testing.T) {
	out := Render("hello <script>alert(1)</script> world").String()

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert(1)")
}

func TestRenderDeterministic(t *testing.T) {
	src := "# Title\n\n```go\ncode\n```\n\nbody with `span` and **bold**"

	assert.Equal(t, Render(src).String(), Render(src).String())
}
