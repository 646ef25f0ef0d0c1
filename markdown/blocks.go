package markdown

import (
	"strconv"
	"strings"

	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/engine"
	"github.com/hesusruiz/docweave/parse"
	"github.com/hesusruiz/docweave/source"
)

// atxHeader parses "# Title" through "###### Title", with an optional
// trailing "{#explicit-id}".
func atxHeader(rec *engine.BlockRecursion) parse.Parser[ast.Block] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Block] {
		l := lineAt(src, off)
		t := l.text
		level := 0
		for level < len(t) && t[level] == '#' {
			level++
		}
		if level == 0 || level > 6 {
			return parse.Failure[ast.Block]("not an ATX header", off)
		}
		if level < len(t) && t[level] != ' ' && t[level] != '\t' {
			return parse.Failure[ast.Block]("missing space after '#'", off)
		}
		text := strings.TrimSpace(t[level:])
		text = strings.TrimSpace(strings.TrimRight(text, "#"))

		var opts ast.Options
		if id, rest, ok := trailingId(text); ok {
			opts.Id = id
			text = rest
		}
		return parse.Success[ast.Block](ast.Header{
			Level:   level,
			Content: rec.RecursiveSpans(src, text),
			Options: opts,
		}, l.next)
	})
}

// trailingId splits an explicit "{#id}" suffix off header text.
func trailingId(text string) (string, string, bool) {
	if !strings.HasSuffix(text, "}") {
		return "", text, false
	}
	i := strings.LastIndex(text, "{#")
	if i < 0 {
		return "", text, false
	}
	id := text[i+2 : len(text)-1]
	if id == "" || strings.ContainsAny(id, " \t{}") {
		return "", text, false
	}
	return id, strings.TrimSpace(text[:i]), true
}

// rule parses a horizontal rule: three or more of the same marker
// character, optionally separated by spaces.
func rule(rec *engine.BlockRecursion) parse.Parser[ast.Block] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Block] {
		l := lineAt(src, off)
		t := strings.ReplaceAll(l.text, " ", "")
		if len(t) < 3 {
			return parse.Failure[ast.Block]("not a rule", off)
		}
		c := t[0]
		if c != '*' && c != '-' && c != '_' {
			return parse.Failure[ast.Block]("not a rule", off)
		}
		for i := 0; i < len(t); i++ {
			if t[i] != c {
				return parse.Failure[ast.Block]("not a rule", off)
			}
		}
		return parse.Success[ast.Block](ast.Rule{}, l.next)
	})
}

// fencedCodeBlock parses ``` or ~~~ fences with an optional info string.
// A missing closing fence ends the block at end of input.
func fencedCodeBlock(rec *engine.BlockRecursion) parse.Parser[ast.Block] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Block] {
		l := lineAt(src, off)
		t := l.text
		fence := t[0]
		if fence != '`' && fence != '~' {
			return parse.Failure[ast.Block]("not a fence", off)
		}
		width := 0
		for width < len(t) && t[width] == fence {
			width++
		}
		if width < 3 {
			return parse.Failure[ast.Block]("fence too short", off)
		}
		info := strings.TrimSpace(t[width:])

		var lines []string
		cur := l.next
		for cur < src.End() {
			cl := lineAt(src, cur)
			trimmed := strings.TrimRight(cl.text, " ")
			if isClosingFence(trimmed, fence, width) {
				cur = cl.next
				break
			}
			lines = append(lines, cl.text)
			cur = cl.next
		}
		return parse.Success[ast.Block](ast.CodeBlock{
			Language: info,
			Content:  strings.Join(lines, "\n"),
		}, cur)
	})
}

func isClosingFence(text string, fence byte, width int) bool {
	if len(text) < width {
		return false
	}
	for i := 0; i < len(text); i++ {
		if text[i] != fence {
			return false
		}
	}
	return true
}

// indentedCodeBlock parses lines indented by four or more spaces. Blank
// lines inside the block are kept only when more indented content follows.
func indentedCodeBlock(rec *engine.BlockRecursion) parse.Parser[ast.Block] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Block] {
		l := lineAt(src, off)
		if l.indent() < 4 || l.blank() {
			return parse.Failure[ast.Block]("not indented code", off)
		}
		var lines []string
		pendingBlanks := 0
		cur := off
		end := off
		for cur < src.End() {
			cl := lineAt(src, cur)
			switch {
			case cl.blank():
				pendingBlanks++
			case cl.indent() >= 4:
				for ; pendingBlanks > 0; pendingBlanks-- {
					lines = append(lines, "")
				}
				lines = append(lines, cl.text[4:])
				end = cl.next
			default:
				return parse.Success[ast.Block](ast.CodeBlock{
					Content: strings.Join(lines, "\n"),
				}, end)
			}
			cur = cl.next
		}
		return parse.Success[ast.Block](ast.CodeBlock{
			Content: strings.Join(lines, "\n"),
		}, end)
	})
}

// blockquote parses ">"-prefixed lines, with lazy continuation lines and an
// optional trailing attribution introduced by "-- ".
func blockquote(rec *engine.BlockRecursion) parse.Parser[ast.Block] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Block] {
		first := lineAt(src, off)
		if !strings.HasPrefix(first.text, ">") {
			return parse.Failure[ast.Block]("not a blockquote", off)
		}
		var stripped []string
		cur := off
		for cur < src.End() {
			cl := lineAt(src, cur)
			if strings.HasPrefix(cl.text, ">") {
				stripped = append(stripped, strings.TrimPrefix(strings.TrimPrefix(cl.text, ">"), " "))
			} else if !cl.blank() && len(stripped) > 0 {
				// Lazy continuation of the previous quoted line.
				stripped = append(stripped, cl.text)
			} else {
				break
			}
			cur = cl.next
		}

		var attribution []ast.Span
		if n := len(stripped); n > 0 {
			if rest, ok := strings.CutPrefix(stripped[n-1], "-- "); ok {
				attribution = rec.RecursiveSpans(src, strings.TrimSpace(rest))
				stripped = stripped[:n-1]
			}
		}
		content := strings.Join(stripped, "\n")
		return parse.Success[ast.Block](ast.QuotedBlock{
			Content:     rec.RecursiveBlocks(src, content, first.num),
			Attribution: attribution,
		}, cur)
	})
}

// footnoteDefinition parses "[^label]: content", with continuation lines
// indented by four spaces.
func footnoteDefinition(rec *engine.BlockRecursion) parse.Parser[ast.Block] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Block] {
		label, content, next, ok := bracketDefinition(src, off, '^')
		if !ok {
			return parse.Failure[ast.Block]("not a footnote definition", off)
		}
		return parse.Success[ast.Block](ast.FootnoteDefinition{
			Label:   footnoteLabel(label),
			Content: rec.RecursiveBlocks(src, content, lineAt(src, off).num),
			Source:  "[^" + label + "]",
		}, next)
	})
}

// citationDefinition parses "[@id]: content" into a citation body.
func citationDefinition(rec *engine.BlockRecursion) parse.Parser[ast.Block] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Block] {
		label, content, next, ok := bracketDefinition(src, off, '@')
		if !ok || label == "" {
			return parse.Failure[ast.Block]("not a citation definition", off)
		}
		return parse.Success[ast.Block](ast.Citation{
			Label:   label,
			Content: rec.RecursiveBlocks(src, content, lineAt(src, off).num),
		}, next)
	})
}

// bracketDefinition parses the shared shape "[<mark>label]: first line"
// plus any following lines indented by four spaces.
func bracketDefinition(src *source.Fragment, off int, mark byte) (label, content string, next int, ok bool) {
	l := lineAt(src, off)
	t := l.text
	if len(t) < 4 || t[0] != '[' || t[1] != mark {
		return "", "", off, false
	}
	close := strings.Index(t, "]:")
	if close < 2 {
		return "", "", off, false
	}
	label = t[2:close]
	if strings.ContainsAny(label, " \t") {
		return "", "", off, false
	}
	lines := []string{strings.TrimSpace(t[close+2:])}
	cur := l.next
	pendingBlanks := 0
	end := l.next
	for cur < src.End() {
		cl := lineAt(src, cur)
		switch {
		case cl.blank():
			pendingBlanks++
		case cl.indent() >= 4:
			for ; pendingBlanks > 0; pendingBlanks-- {
				lines = append(lines, "")
			}
			lines = append(lines, cl.text[4:])
			end = cl.next
		default:
			return label, strings.Join(lines, "\n"), end, true
		}
		cur = cl.next
	}
	return label, strings.Join(lines, "\n"), end, true
}

// linkDefinition parses "[id]: url" with an optional quoted title.
// The id "*" declares an anonymous target, matched by position.
func linkDefinition(rec *engine.BlockRecursion) parse.Parser[ast.Block] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Block] {
		l := lineAt(src, off)
		t := l.text
		if len(t) < 4 || t[0] != '[' {
			return parse.Failure[ast.Block]("not a link definition", off)
		}
		close := strings.Index(t, "]:")
		if close < 1 {
			return parse.Failure[ast.Block]("not a link definition", off)
		}
		id := t[1:close]
		if id == "" || strings.ContainsAny(id, "[] \t") && id != "*" {
			return parse.Failure[ast.Block]("invalid link definition id", off)
		}
		rest := strings.TrimSpace(t[close+2:])
		if rest == "" {
			return parse.Failure[ast.Block]("missing link destination", off)
		}
		url := rest
		title := ""
		if i := strings.IndexAny(rest, " \t"); i > 0 {
			url = rest[:i]
			tail := strings.TrimSpace(rest[i+1:])
			if len(tail) >= 2 && (tail[0] == '"' || tail[0] == '\'') && tail[len(tail)-1] == tail[0] {
				title = tail[1 : len(tail)-1]
			} else if tail != "" {
				return parse.Failure[ast.Block]("malformed link definition title", off)
			}
		}
		url = strings.TrimPrefix(strings.TrimSuffix(url, ">"), "<")
		if id == "*" {
			id = ""
		}
		return parse.Success[ast.Block](ast.LinkDefinition{
			Id:    id,
			URL:   url,
			Title: title,
		}, l.next)
	})
}

// listMarker inspects a line for a bullet or enum item marker at indent
// zero, returning the column at which item content starts.
func listMarker(text string, enum bool) (contentCol int, bullet byte, num int, ok bool) {
	if len(text) == 0 {
		return 0, 0, 0, false
	}
	if !enum {
		c := text[0]
		if c != '*' && c != '+' && c != '-' {
			return 0, 0, 0, false
		}
		if len(text) < 2 || text[1] != ' ' {
			return 0, 0, 0, false
		}
		col := 2
		for col < len(text) && text[col] == ' ' {
			col++
		}
		return col, c, 0, true
	}
	i := 0
	for i < len(text) && parse.IsDigit(text[i]) {
		i++
	}
	if i == 0 || i >= len(text) || (text[i] != '.' && text[i] != ')') {
		return 0, 0, 0, false
	}
	if i+1 >= len(text) || text[i+1] != ' ' {
		return 0, 0, 0, false
	}
	n, _ := strconv.Atoi(text[:i])
	col := i + 2
	for col < len(text) && text[col] == ' ' {
		col++
	}
	return col, 0, n, true
}

func bulletList(rec *engine.BlockRecursion) parse.Parser[ast.Block] {
	return listParser(rec, false)
}

func enumList(rec *engine.BlockRecursion) parse.Parser[ast.Block] {
	return listParser(rec, true)
}

// listParser parses a whole list. An item owns every following line
// indented at least to its content column; blank lines keep the list open
// only when an item or continuation follows, which is how multi-paragraph
// items work. A less indented, non-blank line directly after item text is
// taken as lazy continuation.
func listParser(rec *engine.BlockRecursion, enum bool) parse.Parser[ast.Block] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Block] {
		first := lineAt(src, off)
		contentCol, bullet, start, ok := listMarker(first.text, enum)
		if !ok {
			return parse.Failure[ast.Block]("not a list", off)
		}

		var items []ast.ListItem
		var itemLines []string
		itemStart := first.num
		closeItem := func() {
			items = append(items, ast.ListItem{
				Content: rec.RecursiveBlocks(src, strings.Join(itemLines, "\n"), itemStart),
			})
			itemLines = nil
		}

		itemLines = append(itemLines, first.text[contentCol:])
		cur := first.next
		end := first.next
		pendingBlanks := 0
		lastBlank := false
		for cur < src.End() {
			cl := lineAt(src, cur)
			if cl.blank() {
				pendingBlanks++
				lastBlank = true
				cur = cl.next
				continue
			}
			if col, b, _, isItem := listMarker(cl.text, enum); isItem && (enum || b == bullet) {
				closeItem()
				contentCol = col
				itemStart = cl.num
				itemLines = append(itemLines, cl.text[col:])
				pendingBlanks = 0
				lastBlank = false
				end = cl.next
				cur = cl.next
				continue
			}
			if cl.indent() >= contentCol {
				for ; pendingBlanks > 0; pendingBlanks-- {
					itemLines = append(itemLines, "")
				}
				itemLines = append(itemLines, cl.text[contentCol:])
				lastBlank = false
				end = cl.next
				cur = cl.next
				continue
			}
			if !lastBlank {
				// Lazy continuation of the item's trailing paragraph.
				itemLines = append(itemLines, strings.TrimLeft(cl.text, " "))
				end = cl.next
				cur = cl.next
				continue
			}
			break
		}
		closeItem()

		if enum {
			return parse.Success[ast.Block](ast.EnumList{Items: items, Start: start}, end)
		}
		return parse.Success[ast.Block](ast.BulletList{Items: items, Bullet: string(bullet)}, end)
	})
}

// fragmentFence parses "::: name" ... ":::" into a named fragment that the
// document builder extracts from the main content.
func fragmentFence(rec *engine.BlockRecursion) parse.Parser[ast.Block] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Block] {
		l := lineAt(src, off)
		t := l.text
		width := 0
		for width < len(t) && t[width] == ':' {
			width++
		}
		if width < 3 {
			return parse.Failure[ast.Block]("not a fragment fence", off)
		}
		name := strings.TrimSpace(t[width:])
		if name == "" || strings.ContainsAny(name, " \t") {
			return parse.Failure[ast.Block]("fragment fence needs a single name", off)
		}
		var lines []string
		cur := l.next
		for cur < src.End() {
			cl := lineAt(src, cur)
			trimmed := strings.TrimRight(cl.text, " ")
			if isClosingFence(trimmed, ':', width) {
				cur = cl.next
				break
			}
			lines = append(lines, cl.text)
			cur = cl.next
		}
		return parse.Success[ast.Block](ast.FragmentDefinition{
			Name:    name,
			Content: rec.RecursiveBlocks(src, strings.Join(lines, "\n"), l.num+1),
		}, cur)
	})
}

// linkTargetLine parses a standalone "{#id}" line into an invisible link
// target.
func linkTargetLine(rec *engine.BlockRecursion) parse.Parser[ast.Block] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Block] {
		l := lineAt(src, off)
		t := strings.TrimSpace(l.text)
		if !strings.HasPrefix(t, "{#") || !strings.HasSuffix(t, "}") {
			return parse.Failure[ast.Block]("not a link target", off)
		}
		id := t[2 : len(t)-1]
		if id == "" || strings.ContainsAny(id, " \t{}") {
			return parse.Failure[ast.Block]("invalid link target id", off)
		}
		return parse.Success[ast.Block](ast.InternalLinkTarget{
			Options: ast.WithId(id),
		}, l.next)
	})
}

// paragraph is the unprefixed low-precedence fallback. It accumulates
// lines until a blank line or the start of another block form, with one
// line of lookahead for Setext underlines: a paragraph directly followed
// by a line of "=" or "-" characters is reinterpreted as a header.
func paragraph(rec *engine.BlockRecursion) parse.Parser[ast.Block] {
	return parse.New(func(src *source.Fragment, off int) parse.Result[ast.Block] {
		first := lineAt(src, off)
		if first.blank() {
			return parse.Failure[ast.Block]("blank line", off)
		}
		lines := []string{strings.TrimRight(first.text, " ")}
		cur := first.next
		end := first.next
		for cur < src.End() {
			cl := lineAt(src, cur)
			if cl.blank() {
				break
			}
			if level, ok := isUnderline(cl.text); ok {
				return parse.Success[ast.Block](ast.Header{
					Level:   level,
					Content: rec.RecursiveSpans(src, strings.Join(lines, "\n")),
				}, cl.next)
			}
			if interruptsParagraph(cl.text) {
				break
			}
			lines = append(lines, strings.TrimRight(cl.text, " "))
			end = cl.next
			cur = cl.next
		}
		return parse.Success[ast.Block](ast.Paragraph{
			Content: rec.RecursiveSpans(src, strings.Join(lines, "\n")),
		}, end)
	})
}

// interruptsParagraph reports whether a line starts a block form that may
// cut a paragraph short without a separating blank line.
func interruptsParagraph(text string) bool {
	if strings.HasPrefix(text, "#") || strings.HasPrefix(text, ">") {
		return true
	}
	if _, _, _, ok := listMarker(text, false); ok {
		return true
	}
	if _, _, _, ok := listMarker(text, true); ok {
		return true
	}
	return false
}
