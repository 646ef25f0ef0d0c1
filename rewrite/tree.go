package rewrite

import (
	"strings"

	"github.com/hesusruiz/docweave/ast"
	"github.com/hesusruiz/docweave/doctree"
)

// candidates collects the global targets sharing one name in a scope.
type candidates struct {
	anchors []*Target
	headers []*Target
}

// TreeTargets is the cross-document lookup table: per-document target
// tables plus one merged scope per directory. A plain id that a document
// does not define locally is searched in the scopes from the document's
// own directory up to the root; the first scope knowing the name decides,
// and a name defined by several documents in one scope is a duplicate
// error there rather than an arbitrary pick.
type TreeTargets struct {
	docs   map[string]*DocumentTargets
	scopes map[string]map[string]*candidates
}

// ScanTree builds the target tables for every document in the tree.
func ScanTree(tree *doctree.DocumentTree) *TreeTargets {
	tt := &TreeTargets{
		docs:   make(map[string]*DocumentTargets),
		scopes: make(map[string]map[string]*candidates),
	}
	for _, doc := range tree.Root.AllDocuments() {
		dt := ScanDocument(doc)
		tt.docs[doc.Path.String()] = dt
		for dir := doc.Path.Parent(); ; dir = dir.Parent() {
			scope := tt.scopes[dir.String()]
			if scope == nil {
				scope = make(map[string]*candidates)
				tt.scopes[dir.String()] = scope
			}
			for name, anchors := range dt.anchors {
				c := scopeEntry(scope, name)
				c.anchors = append(c.anchors, anchors...)
			}
			for name, headers := range dt.headers {
				c := scopeEntry(scope, name)
				c.headers = append(c.headers, headers...)
			}
			if dir.IsRoot() {
				break
			}
		}
	}
	return tt
}

func scopeEntry(scope map[string]*candidates, name string) *candidates {
	c := scope[name]
	if c == nil {
		c = &candidates{}
		scope[name] = c
	}
	return c
}

// Document returns the target table of one document, or nil.
func (tt *TreeTargets) Document(p doctree.Path) *DocumentTargets {
	return tt.docs[p.String()]
}

// Resolve looks up a selector on behalf of the document at from. Plain
// ids try the document itself, then the directory scopes up to the root.
// Path-qualified ids go straight to the named document.
func (tt *TreeTargets) Resolve(from doctree.Path, sel ast.Selector) (*Target, LookupStatus) {
	switch s := sel.(type) {
	case ast.TargetIdSelector:
		if d := tt.docs[from.String()]; d != nil {
			if t, st := d.Lookup(s.Name); st != LookupMissing {
				return t, st
			}
		}
		for dir := from.Parent(); ; dir = dir.Parent() {
			if c, ok := tt.scopes[dir.String()][s.Name]; ok {
				return resolveCandidates(c.anchors, c.headers)
			}
			if dir.IsRoot() {
				break
			}
		}
		return nil, LookupMissing
	case ast.PathSelector:
		d := tt.docs[from.Resolve(s.Path).String()]
		if d == nil && !strings.Contains(s.Path, ".") {
			d = tt.docs[from.Resolve(s.Path+".md").String()]
		}
		if d == nil {
			return nil, LookupMissing
		}
		return d.Lookup(s.Name)
	}
	return nil, LookupMissing
}
