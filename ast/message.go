package ast

import "strconv"

// Severity classifies a runtime message embedded in the tree.
type Severity int

const (
	Debug Severity = iota
	Info
	Warning
	Error
	Fatal
)

// String returns the lower-case name of the severity.
func (s Severity) String() string {
	switch s {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	}
	return "severity(" + strconv.Itoa(int(s)) + ")"
}

// RuntimeMessage is a recoverable problem recorded inline in the tree, for
// example an unresolved reference or a duplicate target id. A configurable
// policy outside this core decides whether messages at or above a severity
// threshold fail the run or are rendered visibly for debugging.
// It can occur in both block and inline positions.
type RuntimeMessage struct {
	Severity Severity
	Content  string
	Options  Options
}

func (e RuntimeMessage) Opt() Options { return e.Options }
func (e RuntimeMessage) IsBlock()     {}
func (e RuntimeMessage) IsSpan()      {}
func (e RuntimeMessage) Text() string { return e.Content }

// InvalidSpan wraps a message with a fallback span so that something
// recognizable still renders.
type InvalidSpan struct {
	Message  RuntimeMessage
	Fallback Span
	Options  Options
}

func (e InvalidSpan) Opt() Options { return e.Options }
func (e InvalidSpan) IsSpan()      {}

// InvalidBlock wraps a message with a fallback block.
type InvalidBlock struct {
	Message  RuntimeMessage
	Fallback Block
	Options  Options
}

func (e InvalidBlock) Opt() Options { return e.Options }
func (e InvalidBlock) IsBlock()     {}
