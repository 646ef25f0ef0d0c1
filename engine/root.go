package engine

import (
	"strings"

	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/parse"
	"github.com/hesusruiz/docweave/source"
)

type blockEntry struct {
	p        parse.Parser[ast.Block]
	prefixed bool
	prefix   parse.CharSet
}

type spanEntry struct {
	p        parse.Parser[ast.Span]
	prefixed bool
	prefix   parse.CharSet
	low      bool
}

// RootParser drives the recursive descent over one document. It is built
// once per Format and is safe for concurrent use: parsing carries no
// mutable state beyond the local offsets.
type RootParser struct {
	format *Format
	escape parse.Parser[string]

	blockTable   [256][]parse.Parser[ast.Block]
	blockPlain   []parse.Parser[ast.Block]
	blockLow     []blockEntry
	spanTable    [256][]parse.Parser[ast.Span]
	spanPlain    []parse.Parser[ast.Span]
	spanLow      []spanEntry
	spanAll      []spanEntry
	spanStartSet parse.CharSet

	// sequentialSpans disables the prefix lookup table and tries every
	// span parser in registration order at each offset. Dispatch via the
	// table must produce identical results; tests rely on this switch.
	sequentialSpans bool
}

// NewRootParser assembles the dispatch tables for a dialect.
func NewRootParser(f *Format) *RootParser {
	rp := &RootParser{format: f}
	if f.EscapedChar != nil {
		rp.escape = *f.EscapedChar
	} else {
		rp.escape = DefaultEscape()
	}

	brec := &BlockRecursion{rp: rp}
	for _, def := range f.Blocks {
		p := def.Parse(brec)
		set, prefixed := prefixOf(def.StartChars, p.Prefix)
		if def.Low {
			rp.blockLow = append(rp.blockLow, blockEntry{p: p, prefixed: prefixed, prefix: set})
			continue
		}
		if prefixed {
			for _, c := range set.Chars() {
				rp.blockTable[c] = append(rp.blockTable[c], p)
			}
		} else {
			rp.blockPlain = append(rp.blockPlain, p)
		}
	}

	srec := &SpanRecursion{rp: rp}
	for _, def := range f.Spans {
		p := def.Parse(srec)
		set, prefixed := prefixOf(def.StartChars, p.Prefix)
		entry := spanEntry{p: p, prefixed: prefixed, prefix: set, low: def.Low}
		rp.spanAll = append(rp.spanAll, entry)
		if def.Low {
			rp.spanLow = append(rp.spanLow, entry)
			continue
		}
		if prefixed {
			for _, c := range set.Chars() {
				rp.spanTable[c] = append(rp.spanTable[c], p)
			}
			rp.spanStartSet = rp.spanStartSet.Union(set)
		} else {
			rp.spanPlain = append(rp.spanPlain, p)
		}
	}
	return rp
}

func prefixOf(declared string, fromParser func() (parse.CharSet, bool)) (parse.CharSet, bool) {
	if declared != "" {
		return parse.NewCharSet(declared), true
	}
	return fromParser()
}

// SetSequentialSpanDispatch switches span dispatch between the prefix table
// and naive sequential trial. Both must produce identical trees.
func (rp *RootParser) SetSequentialSpanDispatch(on bool) {
	rp.sequentialSpans = on
}

// ParseDocument runs the block splitting pass over a whole fragment. Span
// parsing happens while blocks are constructed, through the recursion
// handles.
func (rp *RootParser) ParseDocument(src *source.Fragment) (ast.RootElement, error) {
	blocks := rp.parseBlocks(src, src.Start())
	return ast.RootElement{Blocks: blocks}, nil
}

// parseBlocks scans top to bottom; at each non-blank line start it tries
// block parsers in precedence order: prefixed candidates first, then
// unprefixed, then low-precedence ones. A line nothing claims becomes a
// plain text paragraph, so the scan always makes progress.
func (rp *RootParser) parseBlocks(src *source.Fragment, off int) []ast.Block {
	var blocks []ast.Block
	for {
		off = rp.skipBlankLines(src, off)
		if src.AtEnd(off) {
			return blocks
		}
		block, next := rp.parseOneBlock(src, off)
		if next <= off {
			// No parser consumed input: take the line verbatim.
			lineStart, lineEnd := src.LineAt(off)
			text := src.Slice(lineStart, lineEnd)
			block = ast.Paragraph{Content: []ast.Span{ast.Text{Content: strings.TrimSpace(text)}}}
			next = lineEnd + 1
		}
		if block != nil {
			blocks = append(blocks, block)
		}
		off = next
	}
}

func (rp *RootParser) parseOneBlock(src *source.Fragment, off int) (ast.Block, int) {
	c := src.Byte(off)
	for _, p := range rp.blockTable[c] {
		if r := p.Parse(src, off); r.Succeeded() && r.Next() > off {
			return r.Value(), r.Next()
		}
	}
	for _, p := range rp.blockPlain {
		if r := p.Parse(src, off); r.Succeeded() && r.Next() > off {
			return r.Value(), r.Next()
		}
	}
	for _, e := range rp.blockLow {
		if e.prefixed && !e.prefix.Contains(c) {
			continue
		}
		if r := e.p.Parse(src, off); r.Succeeded() && r.Next() > off {
			return r.Value(), r.Next()
		}
	}
	return nil, off
}

func (rp *RootParser) skipBlankLines(src *source.Fragment, off int) int {
	blank := parse.BlankLine()
	for !src.AtEnd(off) {
		r := blank.Parse(src, off)
		if !r.Succeeded() || r.Next() == off {
			return off
		}
		off = r.Next()
	}
	return off
}

// parseSpanText parses raw text into spans using the span dispatch.
func (rp *RootParser) parseSpanText(parent *source.Fragment, text string) []ast.Span {
	if text == "" {
		return nil
	}
	sub := source.NewNestedFragment(parent, text, 1)
	return rp.parseSpans(sub)
}

// parseSpans is one of the hottest paths: it is invoked at every character
// offset of every leaf block. The prefix table turns the trial of N
// alternatives into a table lookup followed by only the relevant
// candidates, in registration order.
func (rp *RootParser) parseSpans(src *source.Fragment) []ast.Span {
	var spans []ast.Span
	var run strings.Builder

	flush := func() {
		if run.Len() > 0 {
			spans = append(spans, ast.Text{Content: run.String()})
			run.Reset()
		}
	}

	off := src.Start()
	for !src.AtEnd(off) {
		c := src.Byte(off)
		if span, next, ok := rp.trySpanAt(src, off, c); ok {
			flush()
			if span != nil {
				spans = append(spans, span)
			}
			off = next
			continue
		}
		run.WriteByte(c)
		off++
	}
	flush()
	return spans
}

func (rp *RootParser) trySpanAt(src *source.Fragment, off int, c byte) (ast.Span, int, bool) {
	if rp.sequentialSpans {
		for _, e := range rp.spanAll {
			if r := e.p.Parse(src, off); r.Succeeded() && r.Next() > off {
				return r.Value(), r.Next(), true
			}
		}
		return nil, off, false
	}
	for _, p := range rp.spanTable[c] {
		if r := p.Parse(src, off); r.Succeeded() && r.Next() > off {
			return r.Value(), r.Next(), true
		}
	}
	for _, p := range rp.spanPlain {
		if r := p.Parse(src, off); r.Succeeded() && r.Next() > off {
			return r.Value(), r.Next(), true
		}
	}
	for _, e := range rp.spanLow {
		if e.prefixed && !e.prefix.Contains(c) {
			continue
		}
		if r := e.p.Parse(src, off); r.Succeeded() && r.Next() > off {
			return r.Value(), r.Next(), true
		}
	}
	return nil, off, false
}
