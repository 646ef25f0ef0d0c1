// Package parse implements the parser combinator core.
//
// A Parser consumes a prefix of a source.Fragment starting at a given offset
// and either succeeds with a typed value and the offset of the next unread
// byte, or fails without consuming anything. Failure is an ordinary result
// value, never a panic: it is the control-flow signal driving backtracking.
package parse

// Result is the outcome of applying a Parser at an offset.
type Result[T any] struct {
	value  T
	next   int
	msg    string
	at     int
	failed bool
}

// Success builds a successful result carrying value, with next as the offset
// of the first unconsumed byte.
func Success[T any](value T, next int) Result[T] {
	return Result[T]{value: value, next: next}
}

// Failure builds a failed result with a message and the offset at which the
// parser gave up. A failed parser never advances the input.
func Failure[T any](msg string, at int) Result[T] {
	return Result[T]{msg: msg, at: at, failed: true}
}

// Succeeded reports whether the parser matched.
func (r Result[T]) Succeeded() bool { return !r.failed }

// Value returns the parsed value. It is the zero value on failure.
func (r Result[T]) Value() T { return r.value }

// Next returns the offset of the first byte not consumed by the parser.
func (r Result[T]) Next() int { return r.next }

// Message returns the failure message, or "" on success.
func (r Result[T]) Message() string { return r.msg }

// At returns the offset at which the parser failed.
func (r Result[T]) At() int { return r.at }

// failAs converts a failed result to a failed result of another type.
func failAs[T, U any](r Result[T]) Result[U] {
	return Failure[U](r.msg, r.at)
}
