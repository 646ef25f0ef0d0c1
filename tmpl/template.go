// Package tmpl parses HTML templates with {{...}} placeholders and
// merges them with a resolved document. Supported placeholders are
// {{document.content}}, {{document.fragments.NAME}} and {{config.KEY}};
// everything else is passed through verbatim.
package tmpl

import (
	"strings"

	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/config"
	"github.com/hesusruiz/docweave/doctree"
	"github.com/hesusruiz/docweave/parse"
	"github.com/hesusruiz/docweave/source"
)

// Node is one piece of a parsed template.
type Node interface{ templateNode() }

// TemplateString is verbatim template text.
type TemplateString struct{ Text string }

// ContentRef marks the insertion point for the document's main content.
type ContentRef struct{}

// FragmentRef inserts a named document fragment.
type FragmentRef struct{ Name string }

// ConfigRef inserts a configuration value.
type ConfigRef struct{ Key string }

func (TemplateString) templateNode() {}
func (ContentRef) templateNode()     {}
func (FragmentRef) templateNode()    {}
func (ConfigRef) templateNode()      {}

// Template is a parsed template.
type Template struct {
	Path  doctree.Path
	Nodes []Node
}

// Default is the built-in passthrough template used when a tree carries
// no template of its own.
func Default() *Template {
	return &Template{Nodes: []Node{ContentRef{}}}
}

// Parse parses template text. Unknown placeholder names fail the parse,
// which surfaces as a fatal error for the template's path.
func Parse(path doctree.Path, text string) (*Template, error) {
	src := source.NewFragment(path.String(), text)
	r := templateParser().Parse(src, 0)
	if !r.Succeeded() {
		return nil, &ParseError{Path: path, Message: r.Message(), Position: src.Position(r.At())}
	}
	return &Template{Path: path, Nodes: r.Value()}, nil
}

// ParseError is a fatal template syntax error.
type ParseError struct {
	Path     doctree.Path
	Message  string
	Position source.Position
}

func (e *ParseError) Error() string {
	return "template " + e.Path.String() + ": " + e.Message
}

func templateParser() parse.Parser[[]Node] {
	// Text up to the next "{{" (which is consumed), or to end of input.
	text := parse.DelimitedBy(parse.Literal("{{")).AcceptEOF().Parser()
	// Placeholder name up to the closing "}}".
	name := parse.DelimitedBy(parse.Literal("}}")).NonEmpty().Parser()

	return parse.New(func(src *source.Fragment, off int) parse.Result[[]Node] {
		var nodes []Node
		for !src.AtEnd(off) {
			t := text.Parse(src, off)
			if !t.Succeeded() {
				return parse.Failure[[]Node](t.Message(), t.At())
			}
			if t.Value() != "" {
				nodes = append(nodes, TemplateString{Text: t.Value()})
			}
			// The text parser advances past the "{{" when it stopped at
			// one; at end of input it consumes exactly the text.
			atPlaceholder := t.Next() > off+len(t.Value())
			off = t.Next()
			if !atPlaceholder {
				continue
			}
			n := name.Parse(src, off)
			if !n.Succeeded() {
				return parse.Failure[[]Node]("unterminated placeholder", off)
			}
			node, errMsg := placeholder(strings.TrimSpace(n.Value()))
			if errMsg != "" {
				return parse.Failure[[]Node](errMsg, off)
			}
			nodes = append(nodes, node)
			off = n.Next()
		}
		return parse.Success(nodes, off)
	})
}

// placeholder classifies a placeholder name.
func placeholder(name string) (Node, string) {
	switch {
	case name == "document.content":
		return ContentRef{}, ""
	case strings.HasPrefix(name, "document.fragments."):
		frag := strings.TrimPrefix(name, "document.fragments.")
		if frag == "" {
			return nil, "empty fragment name in placeholder"
		}
		return FragmentRef{Name: frag}, ""
	case strings.HasPrefix(name, "config."):
		key := strings.TrimPrefix(name, "config.")
		if key == "" {
			return nil, "empty config key in placeholder"
		}
		return ConfigRef{Key: key}, ""
	}
	return nil, "unknown template placeholder: " + name
}

// Merge substitutes the placeholders of t with the document's content,
// fragments and configuration, producing the final tree to render. The
// main content is wrapped in an EmbeddedRoot so renderers can tell the
// document apart from surrounding template output. A missing fragment is
// dropped with a warning message in its place.
func (t *Template) Merge(doc *doctree.Document, cfg *config.Config) ast.RootElement {
	var blocks []ast.Block
	for _, node := range t.Nodes {
		switch n := node.(type) {
		case TemplateString:
			blocks = append(blocks, ast.RawContent{Content: n.Text})
		case ContentRef:
			blocks = append(blocks, ast.EmbeddedRoot{Blocks: doc.Content.Blocks})
		case FragmentRef:
			frag, ok := doc.Fragments[n.Name]
			if !ok {
				blocks = append(blocks, ast.RuntimeMessage{
					Severity: ast.Warning,
					Content:  "missing document fragment: " + n.Name,
				})
				continue
			}
			blocks = append(blocks, ast.EmbeddedRoot{Blocks: frag})
		case ConfigRef:
			v := cfg.String(n.Key, "")
			if v == "" {
				blocks = append(blocks, ast.RuntimeMessage{
					Severity: ast.Warning,
					Content:  "missing config value: " + n.Key,
				})
				continue
			}
			blocks = append(blocks, ast.RawContent{Content: v})
		}
	}
	return ast.RootElement{Blocks: blocks}
}
