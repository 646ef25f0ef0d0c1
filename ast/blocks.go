package ast

// RootElement is the root node of a single parsed document.
type RootElement struct {
	Blocks  []Block
	Options Options
}

func (e RootElement) Opt() Options          { return e.Options }
func (e RootElement) IsBlock()              {}
func (e RootElement) BlockChildren() []Block { return e.Blocks }
func (e RootElement) WithBlocks(b []Block) Element {
	e.Blocks = b
	return e
}

// Paragraph is a block of inline spans.
type Paragraph struct {
	Content []Span
	Options Options
}

func (e Paragraph) Opt() Options         { return e.Options }
func (e Paragraph) IsBlock()             {}
func (e Paragraph) SpanChildren() []Span { return e.Content }
func (e Paragraph) WithSpans(s []Span) Element {
	e.Content = s
	return e
}

// Header is a section headline at an arbitrary level. Levels do not have to
// be contiguous in a document.
type Header struct {
	Level   int
	Content []Span
	Options Options
}

func (e Header) Opt() Options         { return e.Options }
func (e Header) IsBlock()             {}
func (e Header) SpanChildren() []Span { return e.Content }
func (e Header) WithSpans(s []Span) Element {
	e.Content = s
	return e
}

// Section groups a header with its subordinate content and subsections.
// Sections are built from the flat header sequence by the rewrite phase,
// never by the parsers.
type Section struct {
	Header  Header
	Content []Block
	Options Options
}

func (e Section) Opt() Options           { return e.Options }
func (e Section) IsBlock()               {}
func (e Section) BlockChildren() []Block { return e.Content }
func (e Section) WithBlocks(b []Block) Element {
	e.Content = b
	return e
}

// ListItem is a single item of a bullet or enumerated list.
type ListItem struct {
	Content []Block
	Options Options
}

func (e ListItem) Opt() Options           { return e.Options }
func (e ListItem) BlockChildren() []Block { return e.Content }
func (e ListItem) WithBlocks(b []Block) Element {
	e.Content = b
	return e
}

// BulletList is an unordered list.
type BulletList struct {
	Items   []ListItem
	Bullet  string
	Options Options
}

func (e BulletList) Opt() Options          { return e.Options }
func (e BulletList) IsBlock()              {}
func (e BulletList) ListItems() []ListItem { return e.Items }
func (e BulletList) WithItems(items []ListItem) Element {
	e.Items = items
	return e
}

// EnumList is an ordered list starting at Start.
type EnumList struct {
	Items   []ListItem
	Start   int
	Options Options
}

func (e EnumList) Opt() Options          { return e.Options }
func (e EnumList) IsBlock()              {}
func (e EnumList) ListItems() []ListItem { return e.Items }
func (e EnumList) WithItems(items []ListItem) Element {
	e.Items = items
	return e
}

// CodeBlock is a verbatim block, optionally tagged with a language for
// syntax highlighting.
type CodeBlock struct {
	Language string
	Content  string
	Options  Options
}

func (e CodeBlock) Opt() Options { return e.Options }
func (e CodeBlock) IsBlock()     {}
func (e CodeBlock) Text() string { return e.Content }

// QuotedBlock is a block quotation with an optional attribution.
type QuotedBlock struct {
	Content     []Block
	Attribution []Span
	Options     Options
}

func (e QuotedBlock) Opt() Options           { return e.Options }
func (e QuotedBlock) IsBlock()               {}
func (e QuotedBlock) BlockChildren() []Block { return e.Content }
func (e QuotedBlock) WithBlocks(b []Block) Element {
	e.Content = b
	return e
}

// Rule is a horizontal rule.
type Rule struct {
	Options Options
}

func (e Rule) Opt() Options { return e.Options }
func (e Rule) IsBlock()     {}

// BlockSequence is a plain sequence of blocks without extra semantics.
type BlockSequence struct {
	Blocks  []Block
	Options Options
}

func (e BlockSequence) Opt() Options           { return e.Options }
func (e BlockSequence) IsBlock()               {}
func (e BlockSequence) BlockChildren() []Block { return e.Blocks }
func (e BlockSequence) WithBlocks(b []Block) Element {
	e.Blocks = b
	return e
}

// EmbeddedRoot marks document content that was inserted into a template by
// the merge engine.
type EmbeddedRoot struct {
	Blocks  []Block
	Options Options
}

func (e EmbeddedRoot) Opt() Options           { return e.Options }
func (e EmbeddedRoot) IsBlock()               {}
func (e EmbeddedRoot) BlockChildren() []Block { return e.Blocks }
func (e EmbeddedRoot) WithBlocks(b []Block) Element {
	e.Blocks = b
	return e
}

// RawContent is pre-rendered output emitted verbatim by renderers, used for
// the literal portions of templates.
type RawContent struct {
	Content string
	Options Options
}

func (e RawContent) Opt() Options { return e.Options }
func (e RawContent) IsBlock()     {}
func (e RawContent) Text() string { return e.Content }

// FragmentDefinition is a named block region that gets extracted from the
// main content into the document's fragment map after parsing.
type FragmentDefinition struct {
	Name    string
	Content []Block
	Options Options
}

func (e FragmentDefinition) Opt() Options           { return e.Options }
func (e FragmentDefinition) IsBlock()               {}
func (e FragmentDefinition) BlockChildren() []Block { return e.Content }
func (e FragmentDefinition) WithBlocks(b []Block) Element {
	e.Content = b
	return e
}

// LinkDefinition declares a link target, e.g. "[id]: http://..." in
// Markdown. An empty Id declares an anonymous target matched by position.
// Definitions are consumed by the rewrite phase and removed from the tree.
type LinkDefinition struct {
	Id      string
	URL     string
	Title   string
	Options Options
}

func (e LinkDefinition) Opt() Options { return e.Options }
func (e LinkDefinition) IsBlock()     {}

// FootnoteLabelKind distinguishes how a footnote is labeled.
type FootnoteLabelKind int

const (
	// LabelId is an explicit, unique label.
	LabelId FootnoteLabelKind = iota
	// LabelAutonumber requests the next sequential number.
	LabelAutonumber
	// LabelAutonumberName requests the next number while remaining
	// addressable under a name.
	LabelAutonumberName
	// LabelAutosymbol requests the next symbol (*, †, ‡, ...).
	LabelAutosymbol
)

// FootnoteLabel is the label of a footnote definition or reference.
type FootnoteLabel struct {
	Kind FootnoteLabelKind
	Name string
}

// FootnoteDefinition is an unresolved footnote body. The rewrite phase
// replaces it with a Footnote carrying its final label and id.
type FootnoteDefinition struct {
	Label   FootnoteLabel
	Content []Block
	Source  string
	Options Options
}

func (e FootnoteDefinition) Opt() Options            { return e.Options }
func (e FootnoteDefinition) IsBlock()                {}
func (e FootnoteDefinition) ReferenceSource() string { return e.Source }
func (e FootnoteDefinition) BlockChildren() []Block  { return e.Content }
func (e FootnoteDefinition) WithBlocks(b []Block) Element {
	e.Content = b
	return e
}

// Footnote is a resolved footnote with its rendered label.
type Footnote struct {
	Label   string
	Content []Block
	Options Options
}

func (e Footnote) Opt() Options           { return e.Options }
func (e Footnote) IsBlock()               {}
func (e Footnote) BlockChildren() []Block { return e.Content }
func (e Footnote) WithBlocks(b []Block) Element {
	e.Content = b
	return e
}

// Citation is a citation body, addressable by its label. The rewrite phase
// stamps it with its final id in place.
type Citation struct {
	Label   string
	Content []Block
	Options Options
}

func (e Citation) Opt() Options           { return e.Options }
func (e Citation) IsBlock()               {}
func (e Citation) BlockChildren() []Block { return e.Content }
func (e Citation) WithBlocks(b []Block) Element {
	e.Content = b
	return e
}

// InternalLinkTarget is an explicit, otherwise invisible link target.
// It can occur in both block and inline positions.
type InternalLinkTarget struct {
	Options Options
}

func (e InternalLinkTarget) Opt() Options { return e.Options }
func (e InternalLinkTarget) IsBlock()     {}
func (e InternalLinkTarget) IsSpan()      {}
