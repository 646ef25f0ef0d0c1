package rewrite

import (
	"strings"

	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/doctree"
)

// ResolveRule returns the rewrite rule that resolves every reference of
// one document against the precomputed tables and stamps every target
// with its final id. The tables are read-only; the only state the rule
// carries are the cursors into the positional queues, which advance in
// document order as the traversal encounters positional references.
func ResolveRule(cursor *doctree.DocumentCursor, tt *TreeTargets) ast.RewriteRule {
	from := cursor.Target.Path
	dt := tt.Document(from)

	headerSeen := make(map[string]int)
	anchorSeen := make(map[string]int)
	fnDefSeen, fnRefSeen := make(map[string]int), make(map[string]int)
	citDefSeen, citRefSeen := make(map[string]int), make(map[string]int)
	anonRef, autonumRef, autosymRef := 0, 0, 0
	autonumDef, autosymDef := 0, 0

	return func(el ast.Element) (ast.Element, ast.RuleAction) {
		switch n := el.(type) {

		case ast.Header:
			suggested := n.Options.Id
			if suggested == "" {
				suggested = headerSlug(n.Content)
			}
			n.Options.Id = consumeAssigned(dt.Ids, suggested, headerSeen)
			return n, ast.Replace

		case ast.InternalLinkTarget:
			n.Options.Id = consumeAssigned(dt.Ids, n.Options.Id, anchorSeen)
			return n, ast.Replace

		case ast.LinkDefinition:
			// Definitions only feed the target table.
			return nil, ast.Remove

		case ast.FootnoteDefinition:
			var t *Target
			switch n.Label.Kind {
			case ast.LabelAutonumber:
				if autonumDef < len(dt.autonumber) {
					t = dt.autonumber[autonumDef]
				}
				autonumDef++
			case ast.LabelAutosymbol:
				if autosymDef < len(dt.autosymbol) {
					t = dt.autosymbol[autosymDef]
				}
				autosymDef++
			default:
				t = nthOccurrence(dt.footnotes[n.Label.Name], fnDefSeen, n.Label.Name)
			}
			if t == nil {
				return el, ast.Keep
			}
			return ast.Footnote{
				Label:   t.Label,
				Content: n.Content,
				Options: ast.Options{Id: t.Id, Styles: []string{"footnote"}},
			}, ast.Replace

		case ast.Citation:
			if t := nthOccurrence(dt.citations[n.Label], citDefSeen, n.Label); t != nil {
				n.Options.Id = t.Id
			}
			return n, ast.Replace

		case ast.LinkIdReference:
			if _, ok := n.Sel.(ast.AnonymousSelector); ok {
				if anonRef >= len(dt.anonymous) {
					anonRef++
					return invalidSpan("too many anonymous link references", n.Source), ast.Replace
				}
				t := dt.anonymous[anonRef]
				anonRef++
				return resolvedLink(t, from, n.Content, ""), ast.Replace
			}
			t, st := tt.Resolve(from, n.Sel)
			if span, ok := referenceError(st, n.Sel, n.Source); ok {
				return span, ast.Replace
			}
			return resolvedLink(t, from, n.Content, ""), ast.Replace

		case ast.ImageIdReference:
			t, st := tt.Resolve(from, n.Sel)
			if _, ok := n.Sel.(ast.AnonymousSelector); ok {
				if anonRef >= len(dt.anonymous) {
					anonRef++
					return invalidSpan("too many anonymous link references", n.Source), ast.Replace
				}
				t, st = dt.anonymous[anonRef], LookupFound
				anonRef++
			}
			if span, ok := referenceError(st, n.Sel, n.Source); ok {
				return span, ast.Replace
			}
			if t.Kind != KindLinkDef {
				return invalidSpan("image reference to a non-URL target: "+n.Sel.Description(), n.Source), ast.Replace
			}
			return ast.Image{
				Alt:    n.Alt,
				Target: linkDefTarget(t, from),
				Title:  t.Title,
			}, ast.Replace

		case ast.FootnoteReference:
			var t *Target
			switch n.Label.Kind {
			case ast.LabelAutonumber:
				if autonumRef >= len(dt.autonumber) {
					autonumRef++
					return invalidSpan("too many autonumber footnote references", n.Source), ast.Replace
				}
				t = dt.autonumber[autonumRef]
				autonumRef++
			case ast.LabelAutosymbol:
				if autosymRef >= len(dt.autosymbol) {
					autosymRef++
					return invalidSpan("too many autosymbol footnote references", n.Source), ast.Replace
				}
				t = dt.autosymbol[autosymRef]
				autosymRef++
			default:
				t = nthOccurrence(dt.footnotes[n.Label.Name], fnRefSeen, n.Label.Name)
				if t == nil {
					return invalidSpan("unresolved footnote reference: "+n.Label.Name, n.Source), ast.Replace
				}
			}
			return noteLink(t, "footnote"), ast.Replace

		case ast.CitationReference:
			t := nthOccurrence(dt.citations[n.Label], citRefSeen, n.Label)
			if t == nil {
				return invalidSpan("unresolved citation reference: "+n.Label, n.Source), ast.Replace
			}
			return noteLink(t, "citation"), ast.Replace
		}
		return el, ast.Keep
	}
}

// nthOccurrence hands out the k-th occurrence of a duplicated label in
// document order. Once the occurrences are exhausted the last one keeps
// serving, so a single definition covers any number of references.
func nthOccurrence(ts []*Target, seen map[string]int, label string) *Target {
	if len(ts) == 0 {
		return nil
	}
	k := seen[label]
	seen[label] = k + 1
	if k >= len(ts) {
		k = len(ts) - 1
	}
	return ts[k]
}

// consumeAssigned hands out the final id for the k-th occurrence of a
// suggested id, in the same order the scan registered them.
func consumeAssigned(ids *IdMap, suggested string, seen map[string]int) string {
	finals := ids.Assigned(suggested)
	k := seen[suggested]
	seen[suggested] = k + 1
	if k < len(finals) {
		return finals[k]
	}
	return suggested
}

// referenceError maps a failed lookup to its invalid span.
func referenceError(st LookupStatus, sel ast.Selector, source string) (ast.Span, bool) {
	switch st {
	case LookupMissing:
		return invalidSpan("unresolved link reference: "+sel.Description(), source), true
	case LookupDuplicate:
		return invalidSpan("more than one link target for: "+sel.Description(), source), true
	}
	return nil, false
}

func invalidSpan(msg, source string) ast.InvalidSpan {
	return ast.InvalidSpan{
		Message:  ast.RuntimeMessage{Severity: ast.Error, Content: msg},
		Fallback: ast.Text{Content: source},
	}
}

// resolvedLink turns a target into the replacement for a link reference.
func resolvedLink(t *Target, from doctree.Path, content []ast.Span, title string) ast.Span {
	if t.Kind == KindLinkDef {
		if title == "" {
			title = t.Title
		}
		return ast.SpanLink{Content: content, Target: linkDefTarget(t, from), Title: title}
	}
	return ast.SpanLink{
		Content: content,
		Target:  ast.InternalTarget{RelPath: relPath(t.Path, from), Fragment: t.Id},
	}
}

// linkDefTarget rebases a link definition's destination for the referring
// document: an internal destination was written relative to the defining
// document and must be expressed relative to the referring one.
func linkDefTarget(t *Target, from doctree.Path) ast.Target {
	if isExternal(t.URL) {
		return ast.ExternalTarget{URL: t.URL}
	}
	pathPart, frag, _ := strings.Cut(t.URL, "#")
	if pathPart == "" {
		return ast.InternalTarget{RelPath: relPath(t.Path, from), Fragment: frag}
	}
	abs := t.Path.Resolve(pathPart)
	return ast.InternalTarget{RelPath: relPath(abs, from), Fragment: frag}
}

func relPath(target, from doctree.Path) string {
	if target.Equal(from) {
		return ""
	}
	return target.RelativeTo(from)
}

func isExternal(url string) bool {
	return strings.Contains(url, "://") ||
		strings.HasPrefix(url, "mailto:") ||
		strings.HasPrefix(url, "/")
}

// noteLink builds the marker link for a footnote or citation reference.
func noteLink(t *Target, style string) ast.Span {
	return ast.SpanLink{
		Content: []ast.Span{ast.Text{Content: "[" + t.Label + "]"}},
		Target:  ast.InternalTarget{Fragment: t.Id},
		Options: ast.Styled(style),
	}
}
