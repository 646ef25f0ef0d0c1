package ast

import "fmt"

// Selector is the key used to match a reference to its target.
//
// Anonymous, autonumber and autosymbol selectors are matched strictly in
// document order: the Nth reference of that kind binds to the Nth target of
// that kind. Running out of targets is an error, never a silent reuse.
type Selector interface {
	// Description names the selector in error messages.
	Description() string
	selector()
}

// TargetIdSelector matches a target by its unique string id.
type TargetIdSelector struct {
	Name string
}

func (s TargetIdSelector) Description() string { return fmt.Sprintf("id '%s'", s.Name) }
func (s TargetIdSelector) selector()           {}

// PathSelector matches a target in another document, addressed as
// "path:name".
type PathSelector struct {
	Path string
	Name string
}

func (s PathSelector) Description() string {
	return fmt.Sprintf("id '%s' in document '%s'", s.Name, s.Path)
}
func (s PathSelector) selector() {}

// AnonymousSelector matches the next anonymous target in document order.
type AnonymousSelector struct{}

func (s AnonymousSelector) Description() string { return "anonymous target" }
func (s AnonymousSelector) selector()           {}

// AutonumberSelector matches the next autonumbered target in document order.
type AutonumberSelector struct{}

func (s AutonumberSelector) Description() string { return "autonumber target" }
func (s AutonumberSelector) selector()           {}

// AutosymbolSelector matches the next autosymbol target in document order.
type AutosymbolSelector struct{}

func (s AutosymbolSelector) Description() string { return "autosymbol target" }
func (s AutosymbolSelector) selector()           {}
