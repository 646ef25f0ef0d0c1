// Package source provides immutable views over input text for the parsers.
//
// A Fragment is created once per input document and shared by all parsers
// working on it. Parsers address the text with absolute byte offsets, so a
// sub-fragment of the same text can be passed around without copying.
package source

import (
	"fmt"
	"sort"
	"strings"
)

// Position is a 1-based line/column location inside an input document,
// used for error reporting.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Fragment is an immutable window over input text, bounded by byte offsets.
// It tracks line starts so any offset can be mapped back to a line/column.
type Fragment struct {
	path       string
	text       string
	start      int
	end        int
	lineStarts []int
	lineOffset int
}

// NewFragment creates a root fragment covering all of text.
// path is the virtual path of the document, used only for messages.
func NewFragment(path, text string) *Fragment {
	f := &Fragment{
		path: path,
		text: text,
		end:  len(text),
	}
	f.lineStarts = computeLineStarts(text)
	return f
}

// NewNestedFragment creates a fragment for text that was extracted from a
// parent fragment, for example the stripped content of a blockquote. The text
// is new, so positions are local, but startLine anchors line numbers near the
// original location for error messages.
func NewNestedFragment(parent *Fragment, text string, startLine int) *Fragment {
	f := NewFragment(parent.path, text)
	f.lineOffset = startLine - 1
	return f
}

func computeLineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Path returns the virtual path of the document this fragment belongs to.
func (f *Fragment) Path() string { return f.path }

// Start returns the first offset covered by the fragment.
func (f *Fragment) Start() int { return f.start }

// End returns the offset just past the last byte of the fragment.
func (f *Fragment) End() int { return f.end }

// Len returns the number of bytes covered by the fragment.
func (f *Fragment) Len() int { return f.end - f.start }

// AtEnd reports whether off is at or past the end of the fragment.
func (f *Fragment) AtEnd(off int) bool { return off >= f.end }

// Byte returns the byte at the absolute offset off.
func (f *Fragment) Byte(off int) byte { return f.text[off] }

// Slice returns the text between two absolute offsets.
func (f *Fragment) Slice(a, b int) string { return f.text[a:b] }

// String returns the full text covered by the fragment.
func (f *Fragment) String() string { return f.text[f.start:f.end] }

// Sub returns a fragment over the same backing text restricted to [a, b).
func (f *Fragment) Sub(a, b int) *Fragment {
	sub := *f
	sub.start = a
	sub.end = b
	return &sub
}

// Position maps an absolute offset to a 1-based line/column.
func (f *Fragment) Position(off int) Position {
	idx := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > off
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return Position{
		Line:   idx + 1 + f.lineOffset,
		Column: off - f.lineStarts[idx] + 1,
	}
}

// LineAt returns the absolute offsets [start, end) of the line containing off,
// excluding the trailing newline.
func (f *Fragment) LineAt(off int) (int, int) {
	idx := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > off
	}) - 1
	if idx < 0 {
		idx = 0
	}
	start := f.lineStarts[idx]
	end := len(f.text)
	if idx+1 < len(f.lineStarts) {
		end = f.lineStarts[idx+1] - 1
	}
	return start, end
}

// IsBlankLine reports whether the line containing off consists only of
// spaces and tabs.
func (f *Fragment) IsBlankLine(off int) bool {
	a, b := f.LineAt(off)
	return strings.TrimLeft(f.text[a:b], " \t") == ""
}
