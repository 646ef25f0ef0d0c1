package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/config"
)

func renderString(t *testing.T, h *HTML, blocks ...ast.Block) string {
	t.Helper()
	return string(h.Render(ast.RootElement{Blocks: blocks}))
}

func newHTML() *HTML {
	return NewHTML(config.New(nil), zap.NewNop().Sugar())
}

func span(s string) ast.Span { return ast.Text{Content: s} }

func TestRenderParagraph(t *testing.T) {
	out := renderString(t, newHTML(), ast.Paragraph{Content: []ast.Span{
		span("a "),
		ast.Emphasized{Content: []ast.Span{span("b")}},
		span(" & c"),
	}})
	assert.Equal(t, "<p>a <em>b</em> &amp; c</p>\n", out)
}

func TestRenderSection(t *testing.T) {
	out := renderString(t, newHTML(), ast.Section{
		Header: ast.Header{Level: 2, Content: []ast.Span{span("Title")}, Options: ast.WithId("title")},
		Content: []ast.Block{
			ast.Paragraph{Content: []ast.Span{span("body")}},
		},
	})
	assert.Equal(t, "<section>\n<h2 id=\"title\">Title</h2>\n<p>body</p>\n</section>\n", out)
}

func TestRenderHeaderLevelClamped(t *testing.T) {
	out := renderString(t, newHTML(), ast.Header{Level: 9, Content: []ast.Span{span("x")}})
	assert.Equal(t, "<h6>x</h6>\n", out)
}

func TestRenderLists(t *testing.T) {
	h := newHTML()
	out := renderString(t, h, ast.BulletList{Items: []ast.ListItem{
		{Content: []ast.Block{ast.Paragraph{Content: []ast.Span{span("a")}}}},
		{Content: []ast.Block{ast.Paragraph{Content: []ast.Span{span("b")}}}},
	}})
	assert.Equal(t, "<ul>\n<li><p>a</p>\n</li>\n<li><p>b</p>\n</li>\n</ul>\n", out)

	out = renderString(t, h, ast.EnumList{Start: 3, Items: []ast.ListItem{
		{Content: []ast.Block{ast.Paragraph{Content: []ast.Span{span("three")}}}},
	}})
	assert.Contains(t, out, `<ol start="3">`)
}

func TestRenderLinks(t *testing.T) {
	h := newHTML()
	out := renderString(t, h, ast.Paragraph{Content: []ast.Span{
		ast.SpanLink{
			Content: []ast.Span{span("ext")},
			Target:  ast.ExternalTarget{URL: "http://x.io?a=1&b=2"},
			Title:   "The Title",
		},
		ast.SpanLink{
			Content: []ast.Span{span("int")},
			Target:  ast.InternalTarget{RelPath: "../a/doc.md", Fragment: "sec"},
		},
	}})
	assert.Contains(t, out, `<a href="http://x.io?a=1&amp;b=2" title="The Title">ext</a>`)
	assert.Contains(t, out, `<a href="../a/doc.md#sec">int</a>`)
}

func TestRenderImage(t *testing.T) {
	out := renderString(t, newHTML(), ast.Paragraph{Content: []ast.Span{
		ast.Image{Alt: "pic", Target: ast.ExternalTarget{URL: "http://x.io/p.png"}, Title: "t"},
	}})
	assert.Contains(t, out, `<img src="http://x.io/p.png" alt="pic" title="t">`)
}

func TestRenderQuotedBlock(t *testing.T) {
	out := renderString(t, newHTML(), ast.QuotedBlock{
		Content:     []ast.Block{ast.Paragraph{Content: []ast.Span{span("quote")}}},
		Attribution: []ast.Span{span("author")},
	})
	assert.Equal(t, "<blockquote>\n<p>quote</p>\n<footer>author</footer>\n</blockquote>\n", out)
}

func TestRenderFootnote(t *testing.T) {
	out := renderString(t, newHTML(), ast.Footnote{
		Label:   "1",
		Content: []ast.Block{ast.Paragraph{Content: []ast.Span{span("note")}}},
		Options: ast.Options{Id: "fn-1", Styles: []string{"footnote"}},
	})
	assert.Equal(t, `<aside id="fn-1" class="footnote"><sup>1</sup><p>note</p>`+"\n</aside>\n", out)
}

func TestRenderStyledText(t *testing.T) {
	out := renderString(t, newHTML(), ast.Header{Level: 1, Content: []ast.Span{
		ast.Text{Content: "1.2 ", Options: ast.Styled("section-number")},
		span("Title"),
	}})
	assert.Contains(t, out, `<span class="section-number">1.2 </span>Title`)
}

func TestRenderTemplateMergeOutput(t *testing.T) {
	out := renderString(t, newHTML(),
		ast.RawContent{Content: "<html><body>"},
		ast.EmbeddedRoot{Blocks: []ast.Block{
			ast.Paragraph{Content: []ast.Span{span("main")}},
		}},
		ast.RawContent{Content: "</body></html>"},
	)
	assert.Equal(t, "<html><body><p>main</p>\n</body></html>", out)
}

func TestRenderMessagesPolicy(t *testing.T) {
	inv := ast.Paragraph{Content: []ast.Span{
		ast.InvalidSpan{
			Message:  ast.RuntimeMessage{Severity: ast.Error, Content: "unresolved link reference: id 'x'"},
			Fallback: span("[x]"),
		},
	}}

	// Default: the fallback renders, the message does not.
	out := renderString(t, newHTML(), inv)
	assert.Equal(t, "<p>[x]</p>\n", out)

	h := newHTML()
	h.RenderMessages = true
	out = renderString(t, h, inv)
	assert.Equal(t, `<p><span class="runtime-message error">unresolved link reference: id &#39;x&#39;</span></p>`+"\n", out)
}

func TestRenderRuntimeMessageBlock(t *testing.T) {
	msg := ast.RuntimeMessage{Severity: ast.Warning, Content: "missing document fragment: side"}

	out := renderString(t, newHTML(), msg)
	assert.Equal(t, "", out)

	h := newHTML()
	h.RenderMessages = true
	out = renderString(t, h, msg)
	assert.Contains(t, out, `<span class="runtime-message warning">`)
}

func TestRenderCodeBlock(t *testing.T) {
	out := renderString(t, newHTML(), ast.CodeBlock{Language: "go", Content: "package main"})
	assert.Contains(t, out, `<pre class="chroma"><code>`)
	assert.Contains(t, out, "</code></pre>")
}

func TestByteRenderer(t *testing.T) {
	br := &ByteRenderer{}
	br.Render("a", 12, byte('x'), []byte("yz"), nil)
	br.Renderln("!")
	assert.Equal(t, "a12xyz!\n", br.String())

	clone := br.CloneBytes()
	br.Render("more")
	assert.Equal(t, "a12xyz!\n", string(clone))
}
