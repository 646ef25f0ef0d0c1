package ast

// RuleAction tells the rewrite engine what to do with a visited node.
type RuleAction int

const (
	// Keep leaves the node (with already-rewritten children) unchanged.
	Keep RuleAction = iota
	// Replace substitutes the returned element for the node.
	Replace
	// Remove drops the node from its parent's child sequence.
	Remove
)

// RewriteRule is a node-dispatched rewrite function. It is applied to every
// node exactly once; replacements are not revisited.
type RewriteRule func(Element) (Element, RuleAction)

// Rewrite rebuilds el bottom-up: children are rewritten first, then the rule
// is applied to the rebuilt node. The returned bool is false when the rule
// removed the node.
func Rewrite(el Element, rule RewriteRule) (Element, bool) {
	rebuilt := rewriteChildren(el, rule)
	out, action := rule(rebuilt)
	switch action {
	case Replace:
		return out, true
	case Remove:
		return nil, false
	default:
		return rebuilt, true
	}
}

// RewriteBlocks rewrites a block sequence, dropping removed nodes.
func RewriteBlocks(blocks []Block, rule RewriteRule) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		next, kept := Rewrite(b, rule)
		if !kept {
			continue
		}
		if nb, ok := next.(Block); ok {
			out = append(out, nb)
		}
	}
	return out
}

// RewriteSpans rewrites a span sequence, dropping removed nodes.
func RewriteSpans(spans []Span, rule RewriteRule) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		next, kept := Rewrite(s, rule)
		if !kept {
			continue
		}
		if ns, ok := next.(Span); ok {
			out = append(out, ns)
		}
	}
	return out
}

// rewriteChildren rebuilds the children of el without applying the rule to
// el itself. Node kinds with mixed child shapes are handled explicitly;
// everything else falls back to the container capability interfaces, so
// unknown node kinds still traverse.
func rewriteChildren(el Element, rule RewriteRule) Element {
	switch e := el.(type) {
	case Section:
		if h, kept := Rewrite(e.Header, rule); kept {
			if nh, ok := h.(Header); ok {
				e.Header = nh
			}
		}
		e.Content = RewriteBlocks(e.Content, rule)
		return e
	case QuotedBlock:
		e.Content = RewriteBlocks(e.Content, rule)
		e.Attribution = RewriteSpans(e.Attribution, rule)
		return e
	case InvalidBlock, InvalidSpan:
		// Fallback content of invalid nodes is frozen; it must not be
		// resolved or rewritten further.
		return el
	}
	switch e := el.(type) {
	case ListContainer:
		items := e.ListItems()
		out := make([]ListItem, 0, len(items))
		for _, item := range items {
			next, kept := Rewrite(item, rule)
			if !kept {
				continue
			}
			if ni, ok := next.(ListItem); ok {
				out = append(out, ni)
			}
		}
		return e.WithItems(out)
	case BlockContainer:
		return e.WithBlocks(RewriteBlocks(e.BlockChildren(), rule))
	case SpanContainer:
		return e.WithSpans(RewriteSpans(e.SpanChildren(), rule))
	default:
		return el
	}
}

// Children returns the direct child elements of el in document order.
// Invalid nodes report no children, keeping their fallback content out of
// scans and traversals.
func Children(el Element) []Element {
	switch e := el.(type) {
	case Section:
		out := []Element{e.Header}
		for _, b := range e.Content {
			out = append(out, b)
		}
		return out
	case QuotedBlock:
		var out []Element
		for _, b := range e.Content {
			out = append(out, b)
		}
		for _, s := range e.Attribution {
			out = append(out, s)
		}
		return out
	case InvalidBlock, InvalidSpan:
		return nil
	}
	switch e := el.(type) {
	case ListContainer:
		var out []Element
		for _, item := range e.ListItems() {
			out = append(out, item)
		}
		return out
	case BlockContainer:
		var out []Element
		for _, b := range e.BlockChildren() {
			out = append(out, b)
		}
		return out
	case SpanContainer:
		var out []Element
		for _, s := range e.SpanChildren() {
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}

// Walk visits el and its descendants depth-first in document order.
// Returning false from visit skips the children of the current node.
func Walk(el Element, visit func(Element) bool) {
	if !visit(el) {
		return
	}
	for _, child := range Children(el) {
		Walk(child, visit)
	}
}

// SpanText extracts the plain text of a span sequence, recursively.
func SpanText(spans []Span) string {
	text := ""
	for _, s := range spans {
		switch e := s.(type) {
		case TextContainer:
			text += e.Text()
		case SpanContainer:
			text += SpanText(e.SpanChildren())
		}
	}
	return text
}
