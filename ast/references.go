package ast

// LinkIdReference is an unresolved link referring to a target by selector.
type LinkIdReference struct {
	Content []Span
	Sel     Selector
	Source  string
	Options Options
}

func (e LinkIdReference) Opt() Options            { return e.Options }
func (e LinkIdReference) IsSpan()                 {}
func (e LinkIdReference) ReferenceSource() string { return e.Source }
func (e LinkIdReference) SpanChildren() []Span    { return e.Content }
func (e LinkIdReference) WithSpans(s []Span) Element {
	e.Content = s
	return e
}

// ImageIdReference is an unresolved image referring to a target by selector.
type ImageIdReference struct {
	Alt     string
	Sel     Selector
	Source  string
	Options Options
}

func (e ImageIdReference) Opt() Options            { return e.Options }
func (e ImageIdReference) IsSpan()                 {}
func (e ImageIdReference) ReferenceSource() string { return e.Source }

// FootnoteReference is an unresolved reference to a footnote.
type FootnoteReference struct {
	Label   FootnoteLabel
	Source  string
	Options Options
}

func (e FootnoteReference) Opt() Options            { return e.Options }
func (e FootnoteReference) IsSpan()                 {}
func (e FootnoteReference) ReferenceSource() string { return e.Source }

// CitationReference is an unresolved reference to a citation.
type CitationReference struct {
	Label   string
	Source  string
	Options Options
}

func (e CitationReference) Opt() Options            { return e.Options }
func (e CitationReference) IsSpan()                 {}
func (e CitationReference) ReferenceSource() string { return e.Source }
