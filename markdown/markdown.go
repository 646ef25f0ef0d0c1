// Package markdown supplies the Markdown dialect for the parsing engine:
// an ordered set of block parsers and span parsers plus the escape rule.
//
// The core syntax follows classic Markdown. On top of it the dialect adds
// footnotes ("[^label]" with "[^label]: ..." definitions), citations
// ("[@id]" with "[@id]: ..." definitions), anonymous positional link
// targets ("[*]: url" referenced as "[text][*]"), explicit header ids
// ("# Title {#id}"), standalone link targets ("{#id}" on its own line) and
// named fragments fenced by "::: name" / ":::".
package markdown

import (
	"strings"

	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/engine"
	"github.com/hesusruiz/docweave/source"
)

// Format assembles the dialect. Registration order is the precedence
// contract of the engine: within one start character the earlier parser
// wins, so strong ("**") is registered before emphasis ("*") and the
// definition parsers for '[' are registered before the paragraph fallback
// sees anything.
func Format() *engine.Format {
	return &engine.Format{
		Name: "markdown",
		Blocks: []engine.BlockParserDef{
			{StartChars: "#", Parse: atxHeader},
			{StartChars: "*-_", Parse: rule},
			{StartChars: "`~", Parse: fencedCodeBlock},
			{StartChars: " ", Parse: indentedCodeBlock},
			{StartChars: ">", Parse: blockquote},
			{StartChars: "[", Parse: footnoteDefinition},
			{StartChars: "[", Parse: citationDefinition},
			{StartChars: "[", Parse: linkDefinition},
			{StartChars: "*+-", Parse: bulletList},
			{StartChars: "0123456789", Parse: enumList},
			{StartChars: ":", Parse: fragmentFence},
			{StartChars: "{", Parse: linkTargetLine},
			{Low: true, Parse: paragraph},
		},
		Spans: []engine.SpanParserDef{
			{StartChars: "\\", Parse: escapedChar},
			{StartChars: "`", Parse: doubleLiteral},
			{StartChars: "`", Parse: singleLiteral},
			{StartChars: "*_", Parse: strong},
			{StartChars: "*_", Parse: emphasis},
			{StartChars: "!", Parse: image},
			{StartChars: "[", Parse: footnoteRef},
			{StartChars: "[", Parse: citationRef},
			{StartChars: "[", Parse: link},
			{StartChars: "<", Parse: autolink},
		},
	}
}

// line holds one source line during block scanning.
type line struct {
	text  string // without the newline
	start int    // absolute offset of the first byte
	next  int    // absolute offset just past the newline
	num   int    // 1-based line number within the fragment
}

func (l line) indent() int {
	n := 0
	for n < len(l.text) && l.text[n] == ' ' {
		n++
	}
	return n
}

func (l line) blank() bool {
	return strings.TrimLeft(l.text, " \t") == ""
}

// lineAt reads the line containing off.
func lineAt(src *source.Fragment, off int) line {
	a, b := src.LineAt(off)
	next := b
	if next < src.End() {
		next = b + 1
	}
	return line{
		text:  src.Slice(a, b),
		start: a,
		next:  next,
		num:   src.Position(a).Line,
	}
}

// isUnderline reports whether a line is a Setext header underline made
// entirely of the same marker character, returning the header level.
func isUnderline(text string) (int, bool) {
	t := strings.TrimRight(text, " ")
	if len(t) == 0 {
		return 0, false
	}
	c := t[0]
	if c != '=' && c != '-' {
		return 0, false
	}
	for i := 0; i < len(t); i++ {
		if t[i] != c {
			return 0, false
		}
	}
	if c == '=' {
		return 1, true
	}
	return 2, true
}

// slug derives a link target id from header text: lower-cased, with
// whitespace collapsed to single dashes and everything but letters, digits
// and dashes removed.
func slug(text string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '\t' || r == '-' || r == '_':
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(sb.String(), "-")
}

// idSelector builds the selector for a reference id, recognizing the
// "path:name" form for cross-document targets.
func idSelector(id string) ast.Selector {
	if i := strings.LastIndex(id, ":"); i > 0 && !strings.Contains(id[:i], "://") {
		return ast.PathSelector{Path: id[:i], Name: id[i+1:]}
	}
	return ast.TargetIdSelector{Name: id}
}

// footnoteLabel classifies a footnote label: "#" requests an autonumber,
// "#name" an autonumber addressable by name, "*" an autosymbol, anything
// else is an explicit id.
func footnoteLabel(name string) ast.FootnoteLabel {
	switch {
	case name == "#":
		return ast.FootnoteLabel{Kind: ast.LabelAutonumber}
	case name == "*":
		return ast.FootnoteLabel{Kind: ast.LabelAutosymbol}
	case strings.HasPrefix(name, "#"):
		return ast.FootnoteLabel{Kind: ast.LabelAutonumberName, Name: name[1:]}
	default:
		return ast.FootnoteLabel{Kind: ast.LabelId, Name: name}
	}
}

// externalURL reports whether a link destination points outside the
// document tree.
func externalURL(url string) bool {
	return strings.Contains(url, "://") ||
		strings.HasPrefix(url, "mailto:") ||
		strings.HasPrefix(url, "#") ||
		strings.HasPrefix(url, "/")
}
