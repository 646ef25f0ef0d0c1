package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/config"
)

func TestParsePath(t *testing.T) {
	p := ParsePath("/docs/guide/intro.md")
	assert.Equal(t, "/docs/guide/intro.md", p.String())
	assert.Equal(t, "intro.md", p.Name())
	assert.Equal(t, "intro", p.Basename())
	assert.Equal(t, 3, p.Depth())
	assert.Equal(t, "/docs/guide", p.Parent().String())

	assert.True(t, ParsePath("/").IsRoot())
	assert.True(t, ParsePath("").IsRoot())
	assert.Equal(t, "/", Root.Name())
	assert.True(t, Root.Parent().IsRoot())
}

func TestWithSuffix(t *testing.T) {
	p := ParsePath("/docs/intro.md")
	assert.Equal(t, "/docs/intro.html", p.WithSuffix("html").String())
	assert.Equal(t, "/docs/intro.html", p.WithSuffix(".html").String())
	assert.True(t, Root.WithSuffix("html").IsRoot())
}

func TestRelativeTo(t *testing.T) {
	tests := []struct {
		target string
		from   string
		want   string
	}{
		{"/a/intro.md", "/b/child.md", "../a/intro.md"},
		{"/a/intro.md", "/a/other.md", "intro.md"},
		{"/a/b/deep.md", "/a/other.md", "b/deep.md"},
		{"/top.md", "/a/b/child.md", "../../top.md"},
		{"/a/same.md", "/a/same.md", "same.md"},
	}
	for _, tt := range tests {
		got := ParsePath(tt.target).RelativeTo(ParsePath(tt.from))
		assert.Equal(t, tt.want, got, "%s relative to %s", tt.target, tt.from)
	}
}

func TestResolve(t *testing.T) {
	from := ParsePath("/docs/guide/intro.md")

	assert.Equal(t, "/docs/guide/next.md", from.Resolve("next.md").String())
	assert.Equal(t, "/docs/other.md", from.Resolve("../other.md").String())
	assert.Equal(t, "/abs/doc.md", from.Resolve("/abs/doc.md").String())
	assert.Equal(t, "/docs/guide/sub/x.md", from.Resolve("./sub/x.md").String())
	// ".." never escapes the tree root.
	assert.Equal(t, "/up.md", from.Resolve("../../../../up.md").String())
}

func TestTreePosition(t *testing.T) {
	assert.Equal(t, "/", TreePosition{}.String())
	assert.Equal(t, "2.1.3", TreePosition{2, 1, 3}.String())

	a := TreePosition{1, 2}
	b := TreePosition{1, 3}
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(TreePosition{1, 2}))
	// A prefix sorts before its extensions.
	assert.Equal(t, -1, TreePosition{1}.Compare(TreePosition{1, 1}))
}

func TestSortAndAssignPositions(t *testing.T) {
	doc := func(p string) *Document {
		return &Document{Path: ParsePath(p), Config: config.New(nil)}
	}
	root := &Tree{
		Path:      Root,
		Documents: []*Document{doc("/b.md"), doc("/a.md")},
		Subtrees: []*Tree{
			{Path: ParsePath("/sub"), Documents: []*Document{doc("/sub/x.md")}},
		},
	}
	root.Sort()
	root.AssignPositions(nil)

	require.Len(t, root.Documents, 2)
	assert.Equal(t, "a.md", root.Documents[0].Path.Name())
	assert.Equal(t, TreePosition{1}, root.Documents[0].Position)
	assert.Equal(t, TreePosition{2}, root.Documents[1].Position)
	assert.Equal(t, TreePosition{3}, root.Subtrees[0].Position)
	assert.Equal(t, TreePosition{3, 1}, root.Subtrees[0].Documents[0].Position)

	all := root.AllDocuments()
	require.Len(t, all, 3)
	assert.Equal(t, "/sub/x.md", all[2].Path.String())
}

func TestSelectDocumentAndCursors(t *testing.T) {
	doc := func(p string) *Document {
		return &Document{Path: ParsePath(p), Config: config.New(nil)}
	}
	tree := &DocumentTree{Root: &Tree{
		Path:      Root,
		Documents: []*Document{doc("/index.md")},
		Subtrees: []*Tree{
			{Path: ParsePath("/guide"), Documents: []*Document{doc("/guide/intro.md")}},
		},
	}}

	d := tree.SelectDocument(ParsePath("/guide/intro.md"))
	require.NotNil(t, d)
	assert.Equal(t, "intro.md", d.Path.Name())
	assert.Nil(t, tree.SelectDocument(ParsePath("/guide/missing.md")))
	assert.Nil(t, tree.SelectDocument(ParsePath("/nodir/x.md")))

	cursors := tree.AllDocumentCursors()
	require.Len(t, cursors, 2)
	assert.Equal(t, "/index.md", cursors[0].Target.Path.String())
	// The cursor chain reaches the root directory.
	assert.Equal(t, "/guide", cursors[1].Parent.Target.Path.String())
	assert.True(t, cursors[1].Parent.Parent.Target.Path.IsRoot())
}

func TestDocumentTitle(t *testing.T) {
	cfg, err := config.Parse("docweave:\n  title: Configured\n", nil)
	require.NoError(t, err)

	d := &Document{Path: ParsePath("/intro.md"), Config: cfg}
	assert.Equal(t, "Configured", d.Title())

	d = &Document{
		Path:   ParsePath("/intro.md"),
		Config: config.New(nil),
		Content: ast.RootElement{Blocks: []ast.Block{
			ast.Header{Level: 1, Content: []ast.Span{ast.Text{Content: "From Header"}}},
		}},
	}
	assert.Equal(t, "From Header", d.Title())

	d = &Document{Path: ParsePath("/intro.md"), Config: config.New(nil)}
	assert.Equal(t, "intro", d.Title())
}
