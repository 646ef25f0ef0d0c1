package transform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/doctree"
	"github.com/hesusruiz/docweave/markdown"
)

func newTransformer() *Transformer {
	return New(markdown.Format(), zap.NewNop().Sugar())
}

func in(path, text string) Input {
	return Input{Path: doctree.ParsePath(path), Text: text}
}

func outputFor(res *Result, path string) []byte {
	for _, o := range res.Outputs {
		if o.Path.String() == path {
			return o.HTML
		}
	}
	return nil
}

func TestDefaultClassifier(t *testing.T) {
	tests := []struct {
		path string
		want DocumentKind
	}{
		{"/guide/intro.md", KindMarkup},
		{"/guide/directory.yaml", KindConfig},
		{"/default.template.html", KindTemplate},
		{"/styles/site.css", KindStatic},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultClassifier(doctree.ParsePath(tt.path)), tt.path)
	}
}

func TestTransformEndToEnd(t *testing.T) {
	tr := newTransformer()
	res, err := tr.Transform(context.Background(), []Input{
		in("/index.md", "---\ndocweave:\n  title: Home\n---\n# Welcome\n\nStart [here][intro].\n"),
		in("/a/intro.md", "# Introduction {#intro}\n\nwelcome text\n"),
		in("/default.template.html", "<title>{{config.docweave.title}}</title><main>{{document.content}}</main>"),
	})
	require.NoError(t, err)
	require.Len(t, res.Outputs, 2)

	// Document order: root documents come before subtrees.
	assert.Equal(t, "/index.html", res.Outputs[0].Path.String())
	assert.Equal(t, "/a/intro.html", res.Outputs[1].Path.String())

	index := string(outputFor(res, "/index.html"))
	assert.Contains(t, index, "<title>Home</title>")
	assert.Contains(t, index, `<main><section>`)
	assert.Contains(t, index, `<h1 id="welcome">Welcome</h1>`)
	assert.Contains(t, index, `<a href="a/intro.md#intro">here</a>`)

	intro := string(outputFor(res, "/a/intro.html"))
	assert.Contains(t, intro, `<h1 id="intro">Introduction</h1>`)
	assert.Empty(t, res.Errors)

	// The second document has no docweave.title; the gap is recorded as a
	// warning, which stays below the failure threshold.
	require.Len(t, res.Messages, 1)
	assert.Equal(t, "/a/intro.md", res.Messages[0].Path.String())
	assert.Equal(t, ast.Warning, res.Messages[0].Severity)
	assert.Contains(t, res.Messages[0].Content, "missing config value")
}

func TestTransformCrossDirectoryReference(t *testing.T) {
	tr := newTransformer()
	res, err := tr.Transform(context.Background(), []Input{
		in("/a/intro.md", "# Introduction {#intro}\n"),
		in("/b/child.md", "see [details][intro]\n"),
	})
	require.NoError(t, err)

	child := string(outputFor(res, "/b/child.html"))
	assert.Contains(t, child, `<a href="../a/intro.md#intro">details</a>`)
}

func TestTransformFailsOnUnresolvedReference(t *testing.T) {
	tr := newTransformer()
	res, err := tr.Transform(context.Background(), []Input{
		in("/doc.md", "see [missing]\n"),
	})
	require.Error(t, err)
	var merr *MessageError
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Messages, 1)
	assert.Equal(t, "/doc.md", merr.Messages[0].Path.String())
	assert.Equal(t, ast.Error, merr.Messages[0].Severity)
	assert.Contains(t, merr.Messages[0].Content, "unresolved link reference")

	// Output is still produced, with the source text as fallback.
	require.Len(t, res.Outputs, 1)
	assert.Contains(t, string(res.Outputs[0].HTML), "[missing]")
}

func TestTransformRenderMessagesMode(t *testing.T) {
	tr := newTransformer()
	tr.RenderMessages = true
	res, err := tr.Transform(context.Background(), []Input{
		in("/doc.md", "see [missing]\n"),
	})
	require.NoError(t, err)
	assert.Contains(t, string(res.Outputs[0].HTML), `class="runtime-message error"`)
}

func TestTransformFragments(t *testing.T) {
	tr := newTransformer()
	res, err := tr.Transform(context.Background(), []Input{
		in("/doc.md", "::: sidebar\nHello there.\n:::\n\nMain text.\n"),
		in("/default.template.html", "<aside>{{document.fragments.sidebar}}</aside>{{document.content}}"),
	})
	require.NoError(t, err)

	html := string(res.Outputs[0].HTML)
	assert.Contains(t, html, "<aside><p>Hello there.</p>\n</aside>")
	assert.Contains(t, html, "<p>Main text.</p>")
	assert.NotContains(t, html, "sidebar")
}

func TestTransformDirectoryConfigChain(t *testing.T) {
	tr := newTransformer()
	res, err := tr.Transform(context.Background(), []Input{
		in("/directory.yaml", "docweave:\n  autonumbering:\n    scope: sections\n"),
		in("/guide/one.md", "# First\n\n## Nested\n"),
	})
	require.NoError(t, err)

	html := string(outputFor(res, "/guide/one.html"))
	assert.Contains(t, html, `<span class="section-number">1 </span>First`)
	assert.Contains(t, html, `<span class="section-number">1.1 </span>Nested`)
}

func TestTransformBadDirectoryConfig(t *testing.T) {
	tr := newTransformer()
	res, err := tr.Transform(context.Background(), []Input{
		in("/directory.yaml", "- this\n- is a list\n"),
		in("/doc.md", "plain text\n"),
	})
	require.NoError(t, err)

	// The bad config is reported but does not block the document.
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "/directory.yaml", res.Errors[0].Path.String())
	require.Len(t, res.Outputs, 1)
	assert.Contains(t, string(res.Outputs[0].HTML), "plain text")
}

func TestTransformIgnoresStaticInputs(t *testing.T) {
	tr := newTransformer()
	res, err := tr.Transform(context.Background(), []Input{
		in("/doc.md", "text\n"),
		in("/site.css", "body { margin: 0 }\n"),
	})
	require.NoError(t, err)
	require.Len(t, res.Outputs, 1)
	assert.Equal(t, "/doc.html", res.Outputs[0].Path.String())
}

func TestTransformNormalizesLineEndings(t *testing.T) {
	tr := newTransformer()
	res, err := tr.Transform(context.Background(), []Input{
		in("/doc.md", "# Title\r\n\r\nwindows text\r\n"),
	})
	require.NoError(t, err)
	html := string(res.Outputs[0].HTML)
	assert.Contains(t, html, `<h1 id="title">Title</h1>`)
	assert.Contains(t, html, "<p>windows text</p>")
}

func TestTransformFrontMatterPositions(t *testing.T) {
	tr := newTransformer()
	res, err := tr.Transform(context.Background(), []Input{
		in("/doc.md", "---\ndocweave:\n  title: T\n---\nbody\n"),
	})
	require.NoError(t, err)
	require.Len(t, res.Tree.Root.Documents, 1)
	doc := res.Tree.Root.Documents[0]
	assert.Equal(t, "T", doc.Config.String("docweave.title", ""))
	assert.Equal(t, "T", doc.Title())
}

func TestTransformBadTemplate(t *testing.T) {
	tr := newTransformer()
	res, err := tr.Transform(context.Background(), []Input{
		in("/default.template.html", "{{not.a.placeholder}}"),
		in("/doc.md", "text\n"),
	})
	require.NoError(t, err)

	// The broken template is reported; rendering falls back to the
	// built-in passthrough.
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "/default.template.html", res.Errors[0].Path.String())
	assert.Contains(t, string(res.Outputs[0].HTML), "<p>text</p>")
}
