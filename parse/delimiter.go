package parse

import (
	"strings"

	"github.com/hesusruiz/docweave/source"
)

// TextDelimiter builds a parser that consumes text up to the first match of
// an end parser. Options are set by chaining before calling Parser.
type TextDelimiter struct {
	end       Parser[string]
	keep      bool
	acceptEOF bool
	nonEmpty  bool
	escape    Parser[string]
	hasEscape bool
}

// DelimitedBy starts building a delimited-text parser ending at end.
// By default the delimiter itself is consumed but excluded from the value,
// end of input is a failure, and an empty span is allowed.
func DelimitedBy(end Parser[string]) *TextDelimiter {
	return &TextDelimiter{end: end}
}

// Keep includes the matched delimiter in the returned value.
func (d *TextDelimiter) Keep() *TextDelimiter {
	d.keep = true
	return d
}

// AcceptEOF makes end of input a valid terminator.
func (d *TextDelimiter) AcceptEOF() *TextDelimiter {
	d.acceptEOF = true
	return d
}

// NonEmpty requires at least one character before the delimiter.
func (d *TextDelimiter) NonEmpty() *TextDelimiter {
	d.nonEmpty = true
	return d
}

// WithEscape installs an escape parser. Wherever the escape parser matches,
// its value is taken literally and the delimiter is not checked at the
// escaped position.
func (d *TextDelimiter) WithEscape(escape Parser[string]) *TextDelimiter {
	d.escape = escape
	d.hasEscape = true
	return d
}

// Parser builds the configured parser. The value is the consumed text with
// escape sequences replaced by their escaped values.
func (d *TextDelimiter) Parser() Parser[string] {
	end := d.end
	keep, acceptEOF, nonEmpty := d.keep, d.acceptEOF, d.nonEmpty
	escape, hasEscape := d.escape, d.hasEscape
	return New(func(src *source.Fragment, off int) Result[string] {
		var sb strings.Builder
		cur := off
		for {
			if src.AtEnd(cur) {
				if acceptEOF {
					if nonEmpty && sb.Len() == 0 {
						return Failure[string]("expected non-empty delimited text", off)
					}
					return Success(sb.String(), cur)
				}
				return Failure[string]("unterminated delimited text", off)
			}
			if hasEscape {
				if er := escape.Parse(src, cur); er.Succeeded() && er.Next() > cur {
					sb.WriteString(er.Value())
					cur = er.Next()
					continue
				}
			}
			if er := end.Parse(src, cur); er.Succeeded() {
				if nonEmpty && sb.Len() == 0 {
					return Failure[string]("expected non-empty delimited text", off)
				}
				if keep {
					sb.WriteString(er.Value())
				}
				return Success(sb.String(), er.Next())
			}
			sb.WriteByte(src.Byte(cur))
			cur++
		}
	})
}
