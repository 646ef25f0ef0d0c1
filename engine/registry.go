// Package engine drives the multi-pass parsing of a document: a block
// splitting pass over source lines, recursive nested-block parsing for
// container blocks, and a span pass over the raw text of leaf blocks.
//
// A markup dialect plugs in as a Format: an ordered list of block parser
// definitions and span parser definitions. Registration order is the
// precedence contract: when two parsers could match the same prefix, the
// one registered first wins, so a more specific delimiter (e.g. "**") must
// be registered before a shorter one ("*"). The dispatcher never
// disambiguates by delimiter length on its own.
package engine

import (
	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/parse"
	"github.com/hesusruiz/docweave/source"
)

// BlockParserDef registers one block-level parser of a dialect.
type BlockParserDef struct {
	// StartChars declares the characters the parser can start at. When
	// empty, the parser's own prefix declaration is consulted; if neither
	// exists the parser is tried at every block start.
	StartChars string

	// Low relegates the parser to be tried only after all normal parsers
	// have failed, regardless of prefix.
	Low bool

	// Parse builds the parser. It receives the recursion handle so that
	// container blocks can re-invoke block and span parsing on their
	// captured content.
	Parse func(rec *BlockRecursion) parse.Parser[ast.Block]
}

// SpanParserDef registers one span-level parser of a dialect.
type SpanParserDef struct {
	StartChars string
	Low        bool
	Parse      func(rec *SpanRecursion) parse.Parser[ast.Span]
}

// Format is a pluggable markup dialect.
type Format struct {
	Name   string
	Blocks []BlockParserDef
	Spans  []SpanParserDef

	// EscapedChar overrides the default escape parser (backslash followed
	// by any single character).
	EscapedChar *parse.Parser[string]
}

// BlockRecursion is handed to block parsers so they can parse the nested
// content of container blocks with the full registry.
type BlockRecursion struct {
	rp *RootParser
}

// RecursiveBlocks parses text extracted from a container block (with
// prefixes like "> " already stripped) into blocks. startLine anchors error
// positions near the original location.
func (r *BlockRecursion) RecursiveBlocks(parent *source.Fragment, text string, startLine int) []ast.Block {
	sub := source.NewNestedFragment(parent, text, startLine)
	return r.rp.parseBlocks(sub, 0)
}

// RecursiveSpans parses the raw text of a leaf block into spans.
func (r *BlockRecursion) RecursiveSpans(parent *source.Fragment, text string) []ast.Span {
	return r.rp.parseSpanText(parent, text)
}

// EscapedChar returns the dialect's escape parser.
func (r *BlockRecursion) EscapedChar() parse.Parser[string] {
	return r.rp.escape
}

// SpanRecursion is handed to span parsers so that spans containing spans
// (e.g. emphasis containing a link) can re-parse their inner text.
type SpanRecursion struct {
	rp *RootParser
}

// RecursiveSpans parses inner text into spans.
func (r *SpanRecursion) RecursiveSpans(parent *source.Fragment, text string) []ast.Span {
	return r.rp.parseSpanText(parent, text)
}

// EscapedChar returns the dialect's escape parser.
func (r *SpanRecursion) EscapedChar() parse.Parser[string] {
	return r.rp.escape
}

// DefaultEscape accepts any single character after a backslash, yielding
// the character itself.
func DefaultEscape() parse.Parser[string] {
	return parse.DropLeft(parse.Char('\\'), parse.Map(
		parse.New(func(src *source.Fragment, off int) parse.Result[byte] {
			if src.AtEnd(off) {
				return parse.Failure[byte]("end of input after escape", off)
			}
			return parse.Success(src.Byte(off), off+1)
		}),
		func(c byte) string { return string(c) },
	)).WithPrefix("\\")
}
