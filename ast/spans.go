package ast

// Text is a plain text run.
type Text struct {
	Content string
	Options Options
}

func (e Text) Opt() Options { return e.Options }
func (e Text) IsSpan()      {}
func (e Text) Text() string { return e.Content }

// Emphasized is emphasized inline content.
type Emphasized struct {
	Content []Span
	Options Options
}

func (e Emphasized) Opt() Options         { return e.Options }
func (e Emphasized) IsSpan()              {}
func (e Emphasized) SpanChildren() []Span { return e.Content }
func (e Emphasized) WithSpans(s []Span) Element {
	e.Content = s
	return e
}

// Strong is strongly emphasized inline content.
type Strong struct {
	Content []Span
	Options Options
}

func (e Strong) Opt() Options         { return e.Options }
func (e Strong) IsSpan()              {}
func (e Strong) SpanChildren() []Span { return e.Content }
func (e Strong) WithSpans(s []Span) Element {
	e.Content = s
	return e
}

// Literal is an inline verbatim span.
type Literal struct {
	Content string
	Options Options
}

func (e Literal) Opt() Options { return e.Options }
func (e Literal) IsSpan()      {}
func (e Literal) Text() string { return e.Content }

// SpanSequence is a plain sequence of spans without extra semantics.
type SpanSequence struct {
	Spans   []Span
	Options Options
}

func (e SpanSequence) Opt() Options         { return e.Options }
func (e SpanSequence) IsSpan()              {}
func (e SpanSequence) SpanChildren() []Span { return e.Spans }
func (e SpanSequence) WithSpans(s []Span) Element {
	e.Spans = s
	return e
}

// LineBreak is an explicit hard line break.
type LineBreak struct {
	Options Options
}

func (e LineBreak) Opt() Options { return e.Options }
func (e LineBreak) IsSpan()      {}

// SpanLink is a fully resolved link.
type SpanLink struct {
	Content []Span
	Target  Target
	Title   string
	Options Options
}

func (e SpanLink) Opt() Options         { return e.Options }
func (e SpanLink) IsSpan()              {}
func (e SpanLink) SpanChildren() []Span { return e.Content }
func (e SpanLink) WithSpans(s []Span) Element {
	e.Content = s
	return e
}

// Image is an inline image. Its target may need relative-path backfill
// during the rewrite phase when it points into the document tree.
type Image struct {
	Alt     string
	Target  Target
	Title   string
	Options Options
}

func (e Image) Opt() Options { return e.Options }
func (e Image) IsSpan()      {}

// Target is the destination of a resolved link or image.
type Target interface {
	// Href returns the value to emit in the rendered output.
	Href() string
}

// ExternalTarget points outside the document tree.
type ExternalTarget struct {
	URL string
}

func (t ExternalTarget) Href() string { return t.URL }

// InternalTarget points to an element inside the document tree. RelPath is
// the path relative from the referring document; an empty RelPath means a
// target within the same document.
type InternalTarget struct {
	RelPath  string
	Fragment string
}

func (t InternalTarget) Href() string {
	if t.Fragment == "" {
		return t.RelPath
	}
	return t.RelPath + "#" + t.Fragment
}
