package parse

import (
	"strconv"
	"strings"

	"github.com/hesusruiz/docweave/source"
)

// Char matches exactly the byte c.
func Char(c byte) Parser[byte] {
	return New(func(src *source.Fragment, off int) Result[byte] {
		if src.AtEnd(off) || src.Byte(off) != c {
			return Failure[byte]("expected '"+string(c)+"'", off)
		}
		return Success(c, off+1)
	}).WithPrefix(string(c))
}

// OneOf matches any single byte from chars.
func OneOf(chars string) Parser[byte] {
	set := NewCharSet(chars)
	return New(func(src *source.Fragment, off int) Result[byte] {
		if src.AtEnd(off) || !set.Contains(src.Byte(off)) {
			return Failure[byte]("expected one of \""+chars+"\"", off)
		}
		return Success(src.Byte(off), off+1)
	}).WithPrefix(chars)
}

// NoneOf matches any single byte not in chars. Fails at end of input.
func NoneOf(chars string) Parser[byte] {
	set := NewCharSet(chars)
	return New(func(src *source.Fragment, off int) Result[byte] {
		if src.AtEnd(off) || set.Contains(src.Byte(off)) {
			return Failure[byte]("expected none of \""+chars+"\"", off)
		}
		return Success(src.Byte(off), off+1)
	})
}

// Literal matches the exact string s.
func Literal(s string) Parser[string] {
	p := New(func(src *source.Fragment, off int) Result[string] {
		if off+len(s) > src.End() || src.Slice(off, off+len(s)) != s {
			return Failure[string]("expected \""+s+"\"", off)
		}
		return Success(s, off+len(s))
	})
	if len(s) > 0 {
		p = p.WithPrefix(s[:1])
	}
	return p
}

// AnyOf consumes zero or more bytes from chars, returning them as a string.
func AnyOf(chars string) Parser[string] {
	return takeFromSet(chars, 0)
}

// SomeOf consumes one or more bytes from chars.
func SomeOf(chars string) Parser[string] {
	return takeFromSet(chars, 1).WithPrefix(chars)
}

func takeFromSet(chars string, min int) Parser[string] {
	set := NewCharSet(chars)
	return New(func(src *source.Fragment, off int) Result[string] {
		cur := off
		for !src.AtEnd(cur) && set.Contains(src.Byte(cur)) {
			cur++
		}
		if cur-off < min {
			return Failure[string]("expected at least "+strconv.Itoa(min)+" of \""+chars+"\"", off)
		}
		return Success(src.Slice(off, cur), cur)
	})
}

// TakeWhile consumes bytes while pred holds, requiring at least min.
func TakeWhile(pred func(byte) bool, min int) Parser[string] {
	return New(func(src *source.Fragment, off int) Result[string] {
		cur := off
		for !src.AtEnd(cur) && pred(src.Byte(cur)) {
			cur++
		}
		if cur-off < min {
			return Failure[string]("expected at least "+strconv.Itoa(min)+" matching characters", off)
		}
		return Success(src.Slice(off, cur), cur)
	})
}

// WS consumes zero or more spaces and tabs.
func WS() Parser[string] {
	return AnyOf(" \t")
}

// RestOfLine consumes the remainder of the current line, including the
// terminating newline when present. The value excludes the newline.
func RestOfLine() Parser[string] {
	return New(func(src *source.Fragment, off int) Result[string] {
		cur := off
		for !src.AtEnd(cur) && src.Byte(cur) != '\n' {
			cur++
		}
		text := src.Slice(off, cur)
		if !src.AtEnd(cur) {
			cur++
		}
		return Success(text, cur)
	})
}

// BlankLine matches a line consisting only of spaces and tabs, consuming it
// together with its newline. The value is always the empty string.
func BlankLine() Parser[string] {
	return New(func(src *source.Fragment, off int) Result[string] {
		cur := off
		for !src.AtEnd(cur) && (src.Byte(cur) == ' ' || src.Byte(cur) == '\t') {
			cur++
		}
		if src.AtEnd(cur) {
			if cur == off {
				return Failure[string]("expected blank line, got end of input", off)
			}
			return Success("", cur)
		}
		if src.Byte(cur) != '\n' {
			return Failure[string]("expected blank line", off)
		}
		return Success("", cur+1)
	})
}

// EOF succeeds only at the end of the fragment.
func EOF() Parser[struct{}] {
	return New(func(src *source.Fragment, off int) Result[struct{}] {
		if !src.AtEnd(off) {
			return Failure[struct{}]("expected end of input", off)
		}
		return Success(struct{}{}, off)
	})
}

// EOL succeeds at a newline (consuming it) or at the end of input.
func EOL() Parser[struct{}] {
	return New(func(src *source.Fragment, off int) Result[struct{}] {
		if src.AtEnd(off) {
			return Success(struct{}{}, off)
		}
		if src.Byte(off) == '\n' {
			return Success(struct{}{}, off + 1)
		}
		return Failure[struct{}]("expected end of line", off)
	})
}

// IsAlphaNum reports whether c is an ASCII letter or digit.
func IsAlphaNum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// IsDigit reports whether c is an ASCII digit.
func IsDigit(c byte) bool { return c >= '0' && c <= '9' }

// TrimIndent removes up to n leading spaces from every line of text.
func TrimIndent(text string, n int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		removed := 0
		for removed < n && removed < len(line) && line[removed] == ' ' {
			removed++
		}
		lines[i] = line[removed:]
	}
	return strings.Join(lines, "\n")
}
