// Package ast defines the format-agnostic document tree produced by parsing.
//
// The node family is a closed set of well-known variants plus capability
// interfaces (Block, Span, BlockContainer, SpanContainer, TextContainer)
// that give every traversal a default case, so an unknown node kind still
// traverses and renders gracefully.
//
// Nodes have value semantics: rewriting produces new values and never
// mutates a tree in place. No node holds a pointer to its parent; parent
// navigation exists only through the ephemeral cursors in package doctree.
package ast

// Options carries the optional identifier and style names of a node.
// Parsing may populate it from explicit markup attributes; the rewrite
// phase assigns final identifiers. An empty Id means "no id".
type Options struct {
	Id     string
	Styles []string
}

// HasStyle reports whether the given style name is present.
func (o Options) HasStyle(name string) bool {
	for _, s := range o.Styles {
		if s == name {
			return true
		}
	}
	return false
}

// WithId returns a copy of the options with the id replaced.
func (o Options) WithId(id string) Options {
	o.Id = id
	return o
}

// Styled builds options carrying only style names.
func Styled(names ...string) Options {
	return Options{Styles: names}
}

// WithId builds options carrying only an id.
func WithId(id string) Options {
	return Options{Id: id}
}

// Element is implemented by every AST node.
type Element interface {
	Opt() Options
}

// Block is a markup element that starts on a new visual line.
type Block interface {
	Element
	IsBlock()
}

// Span is an inline markup element nested within block text.
type Span interface {
	Element
	IsSpan()
}

// BlockContainer is an element holding a sequence of child blocks.
type BlockContainer interface {
	Element
	BlockChildren() []Block
	WithBlocks([]Block) Element
}

// SpanContainer is an element holding a sequence of child spans.
type SpanContainer interface {
	Element
	SpanChildren() []Span
	WithSpans([]Span) Element
}

// ListContainer is an element holding list items.
type ListContainer interface {
	Element
	ListItems() []ListItem
	WithItems([]ListItem) Element
}

// TextContainer is a leaf element holding a raw string.
type TextContainer interface {
	Element
	Text() string
}

// Reference is an unresolved placeholder node that must be replaced or
// removed by the rewrite phase. Its presence after rewriting is a defect.
// ReferenceSource returns the original markup text, used as fallback
// content when resolution fails.
type Reference interface {
	Element
	ReferenceSource() string
}
