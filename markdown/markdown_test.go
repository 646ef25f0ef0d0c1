package markdown_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/engine"
	"github.com/hesusruiz/docweave/markdown"
	"github.com/hesusruiz/docweave/source"
)

func parseBlocks(t *testing.T, text string) []ast.Block {
	t.Helper()
	rp := engine.NewRootParser(markdown.Format())
	root, err := rp.ParseDocument(source.NewFragment("test.md", text))
	require.NoError(t, err)
	return root.Blocks
}

func text(s string) ast.Span { return ast.Text{Content: s} }

func TestDocumentScenario(t *testing.T) {
	input := "# Title\n\nSome *emphasized* text with a [link][ref].\n\n[ref]: http://example.com\n"
	blocks := parseBlocks(t, input)

	want := []ast.Block{
		ast.Header{Level: 1, Content: []ast.Span{text("Title")}},
		ast.Paragraph{Content: []ast.Span{
			text("Some "),
			ast.Emphasized{Content: []ast.Span{text("emphasized")}},
			text(" text with a "),
			ast.LinkIdReference{
				Content: []ast.Span{text("link")},
				Sel:     ast.TargetIdSelector{Name: "ref"},
				Source:  "[link][ref]",
			},
			text("."),
		}},
		ast.LinkDefinition{Id: "ref", URL: "http://example.com"},
	}
	assert.Equal(t, want, blocks)
}

func TestAtxHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ast.Block
	}{
		{
			name:  "level and text",
			input: "### Deep Title\n",
			want:  ast.Header{Level: 3, Content: []ast.Span{text("Deep Title")}},
		},
		{
			name:  "explicit id",
			input: "# Title {#custom-id}\n",
			want:  ast.Header{Level: 1, Content: []ast.Span{text("Title")}, Options: ast.Options{Id: "custom-id"}},
		},
		{
			name:  "trailing hashes stripped",
			input: "## Title ##\n",
			want:  ast.Header{Level: 2, Content: []ast.Span{text("Title")}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := parseBlocks(t, tt.input)
			require.Len(t, blocks, 1)
			assert.Equal(t, tt.want, blocks[0])
		})
	}
}

func TestHeaderWithoutSpaceIsParagraph(t *testing.T) {
	blocks := parseBlocks(t, "#nospace\n")
	require.Len(t, blocks, 1)
	assert.IsType(t, ast.Paragraph{}, blocks[0])
}

func TestSetextHeader(t *testing.T) {
	blocks := parseBlocks(t, "Title\n=====\n\nSubtitle\n--------\n\nBody text.\n")
	require.Len(t, blocks, 3)
	assert.Equal(t, ast.Header{Level: 1, Content: []ast.Span{text("Title")}}, blocks[0])
	assert.Equal(t, ast.Header{Level: 2, Content: []ast.Span{text("Subtitle")}}, blocks[1])
	assert.IsType(t, ast.Paragraph{}, blocks[2])
}

func TestRuleVersusSetext(t *testing.T) {
	// A dash line after a blank line is a rule, directly after text it is
	// a header underline.
	blocks := parseBlocks(t, "before\n\n-----\n\nafter\n")
	require.Len(t, blocks, 3)
	assert.Equal(t, ast.Rule{}, blocks[1])
	blocks = parseBlocks(t, "* * *\n")
	require.Len(t, blocks, 1)
	assert.Equal(t, ast.Rule{}, blocks[0])
}

func TestFencedCodeBlock(t *testing.T) {
	blocks := parseBlocks(t, "```go\nfmt.Println(1)\n\nreturn\n```\nafter\n")
	require.Len(t, blocks, 2)
	assert.Equal(t, ast.CodeBlock{Language: "go", Content: "fmt.Println(1)\n\nreturn"}, blocks[0])

	// Unclosed fences run to end of input.
	blocks = parseBlocks(t, "~~~\ncode\n")
	require.Len(t, blocks, 1)
	assert.Equal(t, ast.CodeBlock{Content: "code"}, blocks[0])
}

func TestIndentedCodeBlock(t *testing.T) {
	blocks := parseBlocks(t, "    one\n    two\n\nback to text\n")
	require.Len(t, blocks, 2)
	assert.Equal(t, ast.CodeBlock{Content: "one\ntwo"}, blocks[0])
	assert.IsType(t, ast.Paragraph{}, blocks[1])
}

func TestBlockquote(t *testing.T) {
	blocks := parseBlocks(t, "> quoted line\n> second line\n")
	require.Len(t, blocks, 1)
	q, ok := blocks[0].(ast.QuotedBlock)
	require.True(t, ok)
	require.Len(t, q.Content, 1)
	assert.Equal(t, ast.Paragraph{Content: []ast.Span{text("quoted line\nsecond line")}}, q.Content[0])
	assert.Nil(t, q.Attribution)
}

func TestBlockquoteAttribution(t *testing.T) {
	blocks := parseBlocks(t, "> Brevity is the soul of wit.\n> -- Polonius\n")
	require.Len(t, blocks, 1)
	q := blocks[0].(ast.QuotedBlock)
	assert.Equal(t, []ast.Span{text("Polonius")}, q.Attribution)
	require.Len(t, q.Content, 1)
}

func TestBulletListNested(t *testing.T) {
	blocks := parseBlocks(t, "- a\n  - b\n- c\n")
	require.Len(t, blocks, 1)
	list, ok := blocks[0].(ast.BulletList)
	require.True(t, ok)
	assert.Equal(t, "-", list.Bullet)
	require.Len(t, list.Items, 2)

	// The first item holds its paragraph plus the nested list.
	first := list.Items[0].Content
	require.Len(t, first, 2)
	assert.Equal(t, ast.Paragraph{Content: []ast.Span{text("a")}}, first[0])
	nested, ok := first[1].(ast.BulletList)
	require.True(t, ok)
	require.Len(t, nested.Items, 1)
	assert.Equal(t, []ast.Block{ast.Paragraph{Content: []ast.Span{text("b")}}}, nested.Items[0].Content)

	assert.Equal(t, []ast.Block{ast.Paragraph{Content: []ast.Span{text("c")}}}, list.Items[1].Content)
}

func TestEnumListStart(t *testing.T) {
	blocks := parseBlocks(t, "3. three\n4. four\n")
	require.Len(t, blocks, 1)
	list := blocks[0].(ast.EnumList)
	assert.Equal(t, 3, list.Start)
	require.Len(t, list.Items, 2)
}

func TestListLooseItems(t *testing.T) {
	blocks := parseBlocks(t, "- first\n\n  still first\n- second\n")
	require.Len(t, blocks, 1)
	list := blocks[0].(ast.BulletList)
	require.Len(t, list.Items, 2)
	assert.Len(t, list.Items[0].Content, 2, "blank line inside an item makes two paragraphs")
}

func TestFootnoteDefinition(t *testing.T) {
	blocks := parseBlocks(t, "[^note]: Footnote text\n    continues here\n")
	require.Len(t, blocks, 1)
	def := blocks[0].(ast.FootnoteDefinition)
	assert.Equal(t, ast.FootnoteLabel{Kind: ast.LabelId, Name: "note"}, def.Label)
	assert.Equal(t, "[^note]", def.Source)
	require.Len(t, def.Content, 1)
	assert.Equal(t, ast.Paragraph{Content: []ast.Span{text("Footnote text\ncontinues here")}}, def.Content[0])
}

func TestFootnoteLabels(t *testing.T) {
	blocks := parseBlocks(t, "a[^#] b[^#named] c[^*] d[^id]\n")
	require.Len(t, blocks, 1)
	spans := blocks[0].(ast.Paragraph).Content
	var labels []ast.FootnoteLabel
	for _, s := range spans {
		if ref, ok := s.(ast.FootnoteReference); ok {
			labels = append(labels, ref.Label)
		}
	}
	assert.Equal(t, []ast.FootnoteLabel{
		{Kind: ast.LabelAutonumber},
		{Kind: ast.LabelAutonumberName, Name: "named"},
		{Kind: ast.LabelAutosymbol},
		{Kind: ast.LabelId, Name: "id"},
	}, labels)
}

func TestCitation(t *testing.T) {
	blocks := parseBlocks(t, "See [@knuth84].\n\n[@knuth84]: Knuth, Literate Programming.\n")
	require.Len(t, blocks, 2)
	spans := blocks[0].(ast.Paragraph).Content
	require.Len(t, spans, 3)
	assert.Equal(t, ast.CitationReference{Label: "knuth84", Source: "[@knuth84]"}, spans[1])

	cit := blocks[1].(ast.Citation)
	assert.Equal(t, "knuth84", cit.Label)
	require.Len(t, cit.Content, 1)
}

func TestLinkForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ast.Span
	}{
		{
			name:  "inline external",
			input: "[x](http://example.com)",
			want: ast.SpanLink{
				Content: []ast.Span{text("x")},
				Target:  ast.ExternalTarget{URL: "http://example.com"},
			},
		},
		{
			name:  "inline with title",
			input: `[x](doc.md "The Doc")`,
			want: ast.SpanLink{
				Content: []ast.Span{text("x")},
				Target:  ast.InternalTarget{RelPath: "doc.md"},
				Title:   "The Doc",
			},
		},
		{
			name:  "inline fragment",
			input: "[x](other.md#section)",
			want: ast.SpanLink{
				Content: []ast.Span{text("x")},
				Target:  ast.InternalTarget{RelPath: "other.md", Fragment: "section"},
			},
		},
		{
			name:  "by id",
			input: "[x][ref]",
			want: ast.LinkIdReference{
				Content: []ast.Span{text("x")},
				Sel:     ast.TargetIdSelector{Name: "ref"},
				Source:  "[x][ref]",
			},
		},
		{
			name:  "collapsed",
			input: "[Some Header][]",
			want: ast.LinkIdReference{
				Content: []ast.Span{text("Some Header")},
				Sel:     ast.TargetIdSelector{Name: "some-header"},
				Source:  "[Some Header][]",
			},
		},
		{
			name:  "shortcut",
			input: "[Introduction]",
			want: ast.LinkIdReference{
				Content: []ast.Span{text("Introduction")},
				Sel:     ast.TargetIdSelector{Name: "introduction"},
				Source:  "[Introduction]",
			},
		},
		{
			name:  "anonymous",
			input: "[x][*]",
			want: ast.LinkIdReference{
				Content: []ast.Span{text("x")},
				Sel:     ast.AnonymousSelector{},
				Source:  "[x][*]",
			},
		},
		{
			name:  "cross document id",
			input: "[x][other.md:target]",
			want: ast.LinkIdReference{
				Content: []ast.Span{text("x")},
				Sel:     ast.PathSelector{Path: "other.md", Name: "target"},
				Source:  "[x][other.md:target]",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := parseBlocks(t, "see "+tt.input+"\n")
			require.Len(t, blocks, 1)
			spans := blocks[0].(ast.Paragraph).Content
			require.Len(t, spans, 2)
			assert.Equal(t, tt.want, spans[1])
		})
	}
}

func TestImage(t *testing.T) {
	blocks := parseBlocks(t, `![diagram](img/flow.png "Flow")`)
	require.Len(t, blocks, 1)
	spans := blocks[0].(ast.Paragraph).Content
	require.Len(t, spans, 1)
	assert.Equal(t, ast.Image{
		Alt:    "diagram",
		Target: ast.InternalTarget{RelPath: "img/flow.png"},
		Title:  "Flow",
	}, spans[0])

	blocks = parseBlocks(t, "![alt][pic]\n")
	spans = blocks[0].(ast.Paragraph).Content
	assert.Equal(t, ast.ImageIdReference{
		Alt:    "alt",
		Sel:    ast.TargetIdSelector{Name: "pic"},
		Source: "![alt][pic]",
	}, spans[0])
}

func TestAutolink(t *testing.T) {
	blocks := parseBlocks(t, "go to <https://example.com/x> or <user@example.com>\n")
	spans := blocks[0].(ast.Paragraph).Content
	require.Len(t, spans, 4)
	assert.Equal(t, ast.SpanLink{
		Content: []ast.Span{text("https://example.com/x")},
		Target:  ast.ExternalTarget{URL: "https://example.com/x"},
	}, spans[1])
	assert.Equal(t, ast.SpanLink{
		Content: []ast.Span{text("user@example.com")},
		Target:  ast.ExternalTarget{URL: "mailto:user@example.com"},
	}, spans[3])
}

func TestEmphasisAndStrong(t *testing.T) {
	blocks := parseBlocks(t, "**bold** and *it* and __b2__ and _i2_\n")
	spans := blocks[0].(ast.Paragraph).Content
	require.Len(t, spans, 7)
	assert.Equal(t, ast.Strong{Content: []ast.Span{text("bold")}}, spans[0])
	assert.Equal(t, ast.Emphasized{Content: []ast.Span{text("it")}}, spans[2])
	assert.Equal(t, ast.Strong{Content: []ast.Span{text("b2")}}, spans[4])
	assert.Equal(t, ast.Emphasized{Content: []ast.Span{text("i2")}}, spans[6])
}

func TestEmphasisRejectsSpaceFringe(t *testing.T) {
	blocks := parseBlocks(t, "2 * 3 * 4\n")
	spans := blocks[0].(ast.Paragraph).Content
	require.Len(t, spans, 1)
	assert.Equal(t, text("2 * 3 * 4"), spans[0])
}

func TestLiteralSpans(t *testing.T) {
	blocks := parseBlocks(t, "use `fmt.Println` and `` a`tick ``\n")
	spans := blocks[0].(ast.Paragraph).Content
	require.Len(t, spans, 4)
	assert.Equal(t, ast.Literal{Content: "fmt.Println"}, spans[1])
	assert.Equal(t, ast.Literal{Content: "a`tick"}, spans[3])
}

func TestEscapedChars(t *testing.T) {
	blocks := parseBlocks(t, `a \*b\* c`)
	spans := blocks[0].(ast.Paragraph).Content
	assert.Equal(t, []ast.Span{
		text("a "), text("*"), text("b"), text("*"), text(" c"),
	}, spans)
}

func TestFragmentFence(t *testing.T) {
	blocks := parseBlocks(t, "::: sidebar\nHello there.\n:::\n\nMain text.\n")
	require.Len(t, blocks, 2)
	frag := blocks[0].(ast.FragmentDefinition)
	assert.Equal(t, "sidebar", frag.Name)
	require.Len(t, frag.Content, 1)
	assert.Equal(t, ast.Paragraph{Content: []ast.Span{text("Hello there.")}}, frag.Content[0])
}

func TestStandaloneLinkTarget(t *testing.T) {
	blocks := parseBlocks(t, "{#anchor-here}\n\ntext\n")
	require.Len(t, blocks, 2)
	assert.Equal(t, ast.InternalLinkTarget{Options: ast.WithId("anchor-here")}, blocks[0])
}

func TestLinkDefinitionForms(t *testing.T) {
	blocks := parseBlocks(t, "[a]: http://x.io\n[b]: <doc.md> \"Title\"\n[*]: http://anon.io\n")
	require.Len(t, blocks, 3)
	assert.Equal(t, ast.LinkDefinition{Id: "a", URL: "http://x.io"}, blocks[0])
	assert.Equal(t, ast.LinkDefinition{Id: "b", URL: "doc.md", Title: "Title"}, blocks[1])
	assert.Equal(t, ast.LinkDefinition{Id: "", URL: "http://anon.io"}, blocks[2])
}

func TestDispatchEquivalence(t *testing.T) {
	input := "# Title {#t}\n\nSome *em* with `code`, a [link][ref] and [^#].\n\n" +
		"> quote\n\n- a\n- b\n\n[ref]: http://example.com\n[^#]: note\n"

	table := engine.NewRootParser(markdown.Format())
	sequential := engine.NewRootParser(markdown.Format())
	sequential.SetSequentialSpanDispatch(true)

	a, err := table.ParseDocument(source.NewFragment("test.md", input))
	require.NoError(t, err)
	b, err := sequential.ParseDocument(source.NewFragment("test.md", input))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
