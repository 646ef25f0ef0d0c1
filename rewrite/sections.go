package rewrite

import (
	"strconv"
	"strings"

	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/config"
	"github.com/hesusruiz/docweave/doctree"
)

// BuildSections groups a flat block sequence into nested sections. A
// header at level L closes every open section at level >= L and opens a
// new one; content attaches to the innermost open section. The stack
// handles arbitrary level skips, a level-1 header may be followed
// directly by a level-4 one.
func BuildSections(root ast.RootElement) ast.RootElement {
	type frame struct {
		header  ast.Header
		content []ast.Block
	}
	var result []ast.Block
	var stack []frame

	closeTop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		sec := ast.Section{Header: top.header, Content: top.content}
		if len(stack) == 0 {
			result = append(result, sec)
		} else {
			stack[len(stack)-1].content = append(stack[len(stack)-1].content, sec)
		}
	}

	for _, b := range root.Blocks {
		if h, ok := b.(ast.Header); ok {
			for len(stack) > 0 && stack[len(stack)-1].header.Level >= h.Level {
				closeTop()
			}
			stack = append(stack, frame{header: h})
			continue
		}
		if len(stack) == 0 {
			result = append(result, b)
		} else {
			stack[len(stack)-1].content = append(stack[len(stack)-1].content, b)
		}
	}
	for len(stack) > 0 {
		closeTop()
	}
	root.Blocks = result
	return root
}

// Autonumbering scopes.
const (
	ScopeNone      = "none"
	ScopeDocuments = "documents"
	ScopeSections  = "sections"
	ScopeAll       = "all"
)

// NumberSections injects dotted numeric labels into section headers of an
// already section-structured document, driven by the configuration keys
// docweave.autonumbering.scope and docweave.autonumbering.depth. With
// scope "all" the document's own tree position prefixes every section
// number; depth 0 means unlimited, deeper sections keep their header but
// get no number.
func NumberSections(root ast.RootElement, pos doctree.TreePosition, cfg *config.Config) ast.RootElement {
	scope := cfg.String("docweave.autonumbering.scope", ScopeNone)
	if scope != ScopeSections && scope != ScopeAll {
		return root
	}
	depth := cfg.Int("docweave.autonumbering.depth", 0)

	var prefix []int
	if scope == ScopeAll {
		prefix = pos
	}
	root.Blocks = numberLevel(root.Blocks, prefix, depth)
	return root
}

func numberLevel(blocks []ast.Block, prefix []int, depth int) []ast.Block {
	out := make([]ast.Block, len(blocks))
	n := 1
	for i, b := range blocks {
		sec, ok := b.(ast.Section)
		if !ok {
			out[i] = b
			continue
		}
		number := append(append([]int{}, prefix...), n)
		n++
		if depth == 0 || len(number) <= depth {
			sec.Header.Content = append([]ast.Span{ast.Text{
				Content: formatNumber(number) + " ",
				Options: ast.Styled("section-number"),
			}}, sec.Header.Content...)
		}
		sec.Content = numberLevel(sec.Content, number, depth)
		out[i] = sec
	}
	return out
}

func formatNumber(number []int) string {
	parts := make([]string, len(number))
	for i, n := range number {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}
