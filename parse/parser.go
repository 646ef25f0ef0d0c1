package parse

import (
	"github.com/hesusruiz/docweave/source"
)

// Parser consumes a prefix of a source fragment starting at an offset.
// The zero value is not usable; construct parsers with New or the
// combinators in this package.
type Parser[T any] struct {
	run      func(src *source.Fragment, off int) Result[T]
	prefixed bool
	prefix   CharSet
}

// New wraps a parse function into a Parser.
func New[T any](run func(src *source.Fragment, off int) Result[T]) Parser[T] {
	return Parser[T]{run: run}
}

// Parse applies the parser at the given offset.
func (p Parser[T]) Parse(src *source.Fragment, off int) Result[T] {
	return p.run(src, off)
}

// WithPrefix marks the parser as only ever succeeding when the next input
// byte is one of chars. The dispatcher uses this declaration to build its
// start-character lookup table; the parser function itself is unchanged, so
// the declaration must be conservative (a superset is safe, a subset is not).
func (p Parser[T]) WithPrefix(chars string) Parser[T] {
	p.prefixed = true
	p.prefix = NewCharSet(chars)
	return p
}

// withPrefixSet is WithPrefix for an already-built set.
func (p Parser[T]) withPrefixSet(set CharSet) Parser[T] {
	p.prefixed = true
	p.prefix = set
	return p
}

// Prefix returns the declared start-character set and whether one was
// declared.
func (p Parser[T]) Prefix() (CharSet, bool) {
	return p.prefix, p.prefixed
}
