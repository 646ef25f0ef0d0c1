package doctree

import (
	"sort"
	"strconv"
	"strings"

	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/config"
)

// TreePosition locates a document or subtree in depth-first document
// order. Positions compare lexicographically, a prefix sorting before its
// extensions.
type TreePosition []int

func (t TreePosition) String() string {
	if len(t) == 0 {
		return "/"
	}
	parts := make([]string, len(t))
	for i, n := range t {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Compare orders positions in document order.
func (t TreePosition) Compare(o TreePosition) int {
	for i := 0; i < len(t) && i < len(o); i++ {
		if t[i] != o[i] {
			if t[i] < o[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(t) < len(o):
		return -1
	case len(t) > len(o):
		return 1
	}
	return 0
}

func (t TreePosition) child(n int) TreePosition {
	pos := make(TreePosition, len(t), len(t)+1)
	copy(pos, t)
	return append(pos, n)
}

// Document is one parsed document inside the tree.
type Document struct {
	Path      Path
	Content   ast.RootElement
	Fragments map[string][]ast.Block
	Config    *config.Config
	Position  TreePosition
}

// Title returns the configured title, falling back to the first header of
// the content, then to the path basename.
func (d *Document) Title() string {
	if t := d.Config.String("docweave.title", ""); t != "" {
		return t
	}
	title := ""
	ast.Walk(d.Content, func(el ast.Element) bool {
		if h, ok := el.(ast.Header); ok && title == "" {
			title = ast.SpanText(h.Content)
			return false
		}
		return true
	})
	if title != "" {
		return title
	}
	return d.Path.Basename()
}

// Tree is one directory level: its documents, subdirectories and the
// configuration layer shared by everything below it.
type Tree struct {
	Path      Path
	Documents []*Document
	Subtrees  []*Tree
	Config    *config.Config
	Position  TreePosition
}

// Sort orders documents and subtrees by name, documents before
// subdirectories, and recurses. This fixes the document order that tree
// positions and positional resolution depend on.
func (t *Tree) Sort() {
	sort.SliceStable(t.Documents, func(i, j int) bool {
		return t.Documents[i].Path.Name() < t.Documents[j].Path.Name()
	})
	sort.SliceStable(t.Subtrees, func(i, j int) bool {
		return t.Subtrees[i].Path.Name() < t.Subtrees[j].Path.Name()
	})
	for _, sub := range t.Subtrees {
		sub.Sort()
	}
}

// AssignPositions walks the tree depth-first and stamps every document
// and subtree with its position.
func (t *Tree) AssignPositions(pos TreePosition) {
	t.Position = pos
	n := 1
	for _, d := range t.Documents {
		d.Position = pos.child(n)
		n++
	}
	for _, sub := range t.Subtrees {
		sub.AssignPositions(pos.child(n))
		n++
	}
}

// AllDocuments returns the documents of this tree and all subtrees in
// document order.
func (t *Tree) AllDocuments() []*Document {
	docs := make([]*Document, 0, len(t.Documents))
	docs = append(docs, t.Documents...)
	for _, sub := range t.Subtrees {
		docs = append(docs, sub.AllDocuments()...)
	}
	return docs
}

// DocumentTree is the root of the virtual tree.
type DocumentTree struct {
	Root *Tree
}

// SelectDocument finds a document by absolute tree path, or nil.
func (dt *DocumentTree) SelectDocument(p Path) *Document {
	t := dt.Root
	for depth := 0; t != nil && depth < p.Depth()-1; depth++ {
		next := (*Tree)(nil)
		for _, sub := range t.Subtrees {
			if sub.Path.Name() == p.segments[depth] {
				next = sub
				break
			}
		}
		t = next
	}
	if t == nil {
		return nil
	}
	for _, d := range t.Documents {
		if d.Path.Equal(p) {
			return d
		}
	}
	return nil
}

// TreeCursor navigates a directory level with access to its parents.
type TreeCursor struct {
	Target *Tree
	Parent *TreeCursor
	Tree   *DocumentTree
}

// RootCursor returns the cursor for the tree root.
func (dt *DocumentTree) RootCursor() *TreeCursor {
	return &TreeCursor{Target: dt.Root, Tree: dt}
}

// Children returns cursors for the direct subtrees.
func (c *TreeCursor) Children() []*TreeCursor {
	subs := make([]*TreeCursor, len(c.Target.Subtrees))
	for i, sub := range c.Target.Subtrees {
		subs[i] = &TreeCursor{Target: sub, Parent: c, Tree: c.Tree}
	}
	return subs
}

// Documents returns cursors for the documents directly in this directory.
func (c *TreeCursor) Documents() []*DocumentCursor {
	docs := make([]*DocumentCursor, len(c.Target.Documents))
	for i, d := range c.Target.Documents {
		docs[i] = &DocumentCursor{Target: d, Parent: c}
	}
	return docs
}

// DocumentCursor pairs a document with the directory chain above it.
type DocumentCursor struct {
	Target *Document
	Parent *TreeCursor
}

// AllDocumentCursors returns cursors for every document in the tree, in
// document order.
func (dt *DocumentTree) AllDocumentCursors() []*DocumentCursor {
	var out []*DocumentCursor
	var walk func(c *TreeCursor)
	walk = func(c *TreeCursor) {
		out = append(out, c.Documents()...)
		for _, sub := range c.Children() {
			walk(sub)
		}
	}
	walk(dt.RootCursor())
	return out
}
