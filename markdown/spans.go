package markdown

import (
	"strings"

	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/engine"
	"github.com/hesusruiz/docweave/parse"
	"github.com/hesusruiz/docweave/source"
)

// escapedChar turns "\x" into the literal character x. A backslash at the
// end of a line becomes a hard line break.
func escapedChar(rec *engine.SpanRecursion) parse.Parser[ast.Span] {
	esc := rec.EscapedChar()
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Span] {
		r := esc.Parse(src, off)
		if !r.Succeeded() {
			return parse.Failure[ast.Span](r.Message(), off)
		}
		if r.Value() == "\n" {
			return parse.Success[ast.Span](ast.LineBreak{}, r.Next())
		}
		return parse.Success[ast.Span](ast.Text{Content: r.Value()}, r.Next())
	})
}

// rest returns the unparsed remainder of the fragment as a string.
func rest(src *source.Fragment, off int) string {
	return src.Slice(off, src.End())
}

// indexUnescaped finds the first occurrence of delim in s that is not
// preceded by a backslash.
func indexUnescaped(s, delim string) int {
	from := 0
	for {
		i := strings.Index(s[from:], delim)
		if i < 0 {
			return -1
		}
		i += from
		if i > 0 && s[i-1] == '\\' {
			from = i + 1
			continue
		}
		return i
	}
}

// doubleLiteral parses ``code`` spans, whose content may contain single
// backticks.
func doubleLiteral(rec *engine.SpanRecursion) parse.Parser[ast.Span] {
	return literalParser("``")
}

// singleLiteral parses `code` spans.
func singleLiteral(rec *engine.SpanRecursion) parse.Parser[ast.Span] {
	return literalParser("`")
}

func literalParser(delim string) parse.Parser[ast.Span] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Span] {
		t := rest(src, off)
		if !strings.HasPrefix(t, delim) {
			return parse.Failure[ast.Span]("expected "+delim, off)
		}
		body := t[len(delim):]
		end := strings.Index(body, delim)
		if end < 0 {
			return parse.Failure[ast.Span]("unclosed literal span", off)
		}
		if len(delim) == 1 && end == 0 {
			// An empty `` pair belongs to the double-backtick form.
			return parse.Failure[ast.Span]("empty literal span", off)
		}
		content := body[:end]
		// One surrounding space pads literals that start or end with a
		// backtick.
		if len(content) > 1 && strings.HasPrefix(content, " ") && strings.HasSuffix(content, " ") {
			content = content[1 : len(content)-1]
		}
		return parse.Success[ast.Span](ast.Literal{Content: content},
			off+len(delim)+end+len(delim))
	})
}

// strong parses **content** and __content__.
func strong(rec *engine.SpanRecursion) parse.Parser[ast.Span] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Span] {
		t := rest(src, off)
		if len(t) < 5 {
			return parse.Failure[ast.Span]("not a strong span", off)
		}
		delim := t[:2]
		if delim != "**" && delim != "__" {
			return parse.Failure[ast.Span]("not a strong span", off)
		}
		inner, width, ok := delimitedInner(t, delim)
		if !ok {
			return parse.Failure[ast.Span]("unclosed strong span", off)
		}
		return parse.Success[ast.Span](ast.Strong{
			Content: rec.RecursiveSpans(src, inner),
		}, off+width)
	})
}

// emphasis parses *content* and _content_.
func emphasis(rec *engine.SpanRecursion) parse.Parser[ast.Span] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Span] {
		t := rest(src, off)
		if len(t) < 3 || (t[0] != '*' && t[0] != '_') {
			return parse.Failure[ast.Span]("not an emphasis span", off)
		}
		inner, width, ok := delimitedInner(t, t[:1])
		if !ok {
			return parse.Failure[ast.Span]("unclosed emphasis span", off)
		}
		return parse.Success[ast.Span](ast.Emphasized{
			Content: rec.RecursiveSpans(src, inner),
		}, off+width)
	})
}

// delimitedInner extracts the content between a symmetric delimiter pair
// at the start of t, rejecting empty and whitespace-fringed content.
func delimitedInner(t, delim string) (inner string, width int, ok bool) {
	body := t[len(delim):]
	end := indexUnescaped(body, delim)
	if end <= 0 {
		return "", 0, false
	}
	inner = body[:end]
	if strings.HasPrefix(inner, " ") || strings.HasSuffix(inner, " ") {
		return "", 0, false
	}
	return inner, len(delim) + end + len(delim), true
}

// matchBracket finds the index of the ']' closing a '[' already consumed,
// honoring nesting and escapes. It returns -1 when unbalanced.
func matchBracket(s string) int {
	depth := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// inlineTarget parses "(url)" or `(url "title")` at the start of s.
func inlineTarget(s string) (url, title string, width int, ok bool) {
	if !strings.HasPrefix(s, "(") {
		return "", "", 0, false
	}
	end := indexUnescaped(s, ")")
	if end < 0 {
		return "", "", 0, false
	}
	body := strings.TrimSpace(s[1:end])
	url = body
	if i := strings.IndexAny(body, " \t"); i > 0 {
		tail := strings.TrimSpace(body[i+1:])
		if len(tail) >= 2 && (tail[0] == '"' || tail[0] == '\'') && tail[len(tail)-1] == tail[0] {
			url = body[:i]
			title = tail[1 : len(tail)-1]
		} else {
			return "", "", 0, false
		}
	}
	url = strings.TrimPrefix(strings.TrimSuffix(url, ">"), "<")
	return url, title, end + 1, true
}

// linkTarget classifies a destination: anything with a scheme, a leading
// slash or a "#" fragment-only form stays external text, everything else
// is a path into the document tree.
func linkTarget(url string) ast.Target {
	if externalURL(url) {
		return ast.ExternalTarget{URL: url}
	}
	path, frag, _ := strings.Cut(url, "#")
	return ast.InternalTarget{RelPath: path, Fragment: frag}
}

// image parses ![alt](src), ![alt](src "title") and ![alt][id].
func image(rec *engine.SpanRecursion) parse.Parser[ast.Span] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Span] {
		t := rest(src, off)
		if !strings.HasPrefix(t, "![") {
			return parse.Failure[ast.Span]("not an image", off)
		}
		close := matchBracket(t[2:])
		if close < 0 {
			return parse.Failure[ast.Span]("unclosed image alt text", off)
		}
		alt := t[2 : 2+close]
		after := t[2+close+1:]
		consumedAlt := 2 + close + 1

		if url, title, width, ok := inlineTarget(after); ok {
			consumed := consumedAlt + width
			return parse.Success[ast.Span](ast.Image{
				Alt:    alt,
				Target: linkTarget(url),
				Title:  title,
			}, off+consumed)
		}
		if strings.HasPrefix(after, "[") {
			idClose := matchBracket(after[1:])
			if idClose >= 0 {
				id := after[1 : 1+idClose]
				consumed := consumedAlt + idClose + 2
				sel := ast.Selector(ast.TargetIdSelector{Name: slug(alt)})
				if id == "*" {
					sel = ast.AnonymousSelector{}
				} else if id != "" {
					sel = idSelector(id)
				}
				return parse.Success[ast.Span](ast.ImageIdReference{
					Alt:    alt,
					Sel:    sel,
					Source: t[:consumed],
				}, off+consumed)
			}
		}
		return parse.Failure[ast.Span]("image without target", off)
	})
}

// footnoteRef parses [^label], where a bare "#" label is an autonumber
// request and "*" an autosymbol request.
func footnoteRef(rec *engine.SpanRecursion) parse.Parser[ast.Span] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Span] {
		t := rest(src, off)
		if !strings.HasPrefix(t, "[^") {
			return parse.Failure[ast.Span]("not a footnote reference", off)
		}
		close := strings.IndexByte(t, ']')
		if close < 0 {
			return parse.Failure[ast.Span]("unclosed footnote reference", off)
		}
		label := t[2:close]
		if strings.ContainsAny(label, " \t[") {
			return parse.Failure[ast.Span]("invalid footnote label", off)
		}
		return parse.Success[ast.Span](ast.FootnoteReference{
			Label:  footnoteLabel(label),
			Source: t[:close+1],
		}, off+close+1)
	})
}

// citationRef parses [@id].
func citationRef(rec *engine.SpanRecursion) parse.Parser[ast.Span] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Span] {
		t := rest(src, off)
		if !strings.HasPrefix(t, "[@") {
			return parse.Failure[ast.Span]("not a citation reference", off)
		}
		close := strings.IndexByte(t, ']')
		if close < 3 {
			return parse.Failure[ast.Span]("unclosed citation reference", off)
		}
		label := t[2:close]
		if strings.ContainsAny(label, " \t[") {
			return parse.Failure[ast.Span]("invalid citation label", off)
		}
		return parse.Success[ast.Span](ast.CitationReference{
			Label:  label,
			Source: t[:close+1],
		}, off+close+1)
	})
}

// link parses the four reference forms [text](url), [text][id], [text][]
// and plain [text], plus the anonymous positional form [text][*]. All
// forms except the inline one produce unresolved references carrying the
// consumed source text for error fallback.
func link(rec *engine.SpanRecursion) parse.Parser[ast.Span] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Span] {
		t := rest(src, off)
		if !strings.HasPrefix(t, "[") {
			return parse.Failure[ast.Span]("not a link", off)
		}
		close := matchBracket(t[1:])
		if close < 0 {
			return parse.Failure[ast.Span]("unclosed link text", off)
		}
		text := t[1 : 1+close]
		if text == "" {
			return parse.Failure[ast.Span]("empty link text", off)
		}
		after := t[1+close+1:]
		consumedText := 1 + close + 1

		if url, title, width, ok := inlineTarget(after); ok {
			consumed := consumedText + width
			return parse.Success[ast.Span](ast.SpanLink{
				Content: rec.RecursiveSpans(src, text),
				Target:  linkTarget(url),
				Title:   title,
			}, off+consumed)
		}
		if strings.HasPrefix(after, "[") {
			idClose := matchBracket(after[1:])
			if idClose >= 0 {
				id := after[1 : 1+idClose]
				consumed := consumedText + idClose + 2
				var sel ast.Selector
				switch id {
				case "*":
					sel = ast.AnonymousSelector{}
				case "":
					sel = ast.TargetIdSelector{Name: slug(text)}
				default:
					sel = idSelector(id)
				}
				return parse.Success[ast.Span](ast.LinkIdReference{
					Content: rec.RecursiveSpans(src, text),
					Sel:     sel,
					Source:  t[:consumed],
				}, off+consumed)
			}
		}
		// Shortcut reference: the link text doubles as the id, normalized
		// the same way header ids are.
		return parse.Success[ast.Span](ast.LinkIdReference{
			Content: rec.RecursiveSpans(src, text),
			Sel:     ast.TargetIdSelector{Name: slug(text)},
			Source:  t[:consumedText],
		}, off+consumedText)
	})
}

// autolink parses <scheme://url> and <mailto:addr>.
func autolink(rec *engine.SpanRecursion) parse.Parser[ast.Span] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Span] {
		t := rest(src, off)
		if !strings.HasPrefix(t, "<") {
			return parse.Failure[ast.Span]("not an autolink", off)
		}
		close := strings.IndexByte(t, '>')
		if close < 2 {
			return parse.Failure[ast.Span]("unclosed autolink", off)
		}
		url := t[1:close]
		if strings.ContainsAny(url, " \t<") {
			return parse.Failure[ast.Span]("not an autolink", off)
		}
		if !strings.Contains(url, "://") && !strings.HasPrefix(url, "mailto:") {
			if !strings.Contains(url, "@") || strings.Contains(url, "/") {
				return parse.Failure[ast.Span]("not an autolink", off)
			}
			// Bare e-mail address.
			return parse.Success[ast.Span](ast.SpanLink{
				Content: []ast.Span{ast.Text{Content: url}},
				Target:  ast.ExternalTarget{URL: "mailto:" + url},
			}, off+close+1)
		}
		return parse.Success[ast.Span](ast.SpanLink{
			Content: []ast.Span{ast.Text{Content: url}},
			Target:  ast.ExternalTarget{URL: url},
		}, off+close+1)
	})
}
