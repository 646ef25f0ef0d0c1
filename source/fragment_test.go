package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosition(t *testing.T) {
	f := NewFragment("doc.md", "first\nsecond\n\nfourth")

	tests := []struct {
		off  int
		want Position
	}{
		{0, Position{Line: 1, Column: 1}},
		{4, Position{Line: 1, Column: 5}},
		{6, Position{Line: 2, Column: 1}},
		{13, Position{Line: 3, Column: 1}},
		{14, Position{Line: 4, Column: 1}},
		{19, Position{Line: 4, Column: 6}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Position(tt.off), "offset %d", tt.off)
	}
	assert.Equal(t, "2:1", f.Position(6).String())
}

func TestLineAt(t *testing.T) {
	f := NewFragment("doc.md", "first\nsecond\nlast")

	a, b := f.LineAt(0)
	assert.Equal(t, "first", f.Slice(a, b))

	a, b = f.LineAt(8)
	assert.Equal(t, "second", f.Slice(a, b))

	// Last line has no trailing newline.
	a, b = f.LineAt(14)
	assert.Equal(t, "last", f.Slice(a, b))
}

func TestIsBlankLine(t *testing.T) {
	f := NewFragment("doc.md", "text\n  \t\nmore")
	assert.False(t, f.IsBlankLine(0))
	assert.True(t, f.IsBlankLine(5))
	assert.False(t, f.IsBlankLine(9))
}

func TestNestedFragmentLineOffset(t *testing.T) {
	parent := NewFragment("doc.md", "---\ntitle: x\n---\nbody line\n")
	nested := NewNestedFragment(parent, "body line\n", 4)

	// Offset 0 of the nested text reports the line it had in the parent.
	assert.Equal(t, Position{Line: 4, Column: 1}, nested.Position(0))
	assert.Equal(t, "doc.md", nested.Path())
}

func TestSub(t *testing.T) {
	f := NewFragment("doc.md", "abcdef")
	sub := f.Sub(2, 4)
	assert.Equal(t, "cd", sub.String())
	assert.Equal(t, 2, sub.Len())
	assert.True(t, sub.AtEnd(4))
	// Offsets stay absolute against the shared backing text.
	assert.Equal(t, byte('c'), sub.Byte(2))
}
