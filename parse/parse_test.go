package parse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hesusruiz/docweave/parse"
	"github.com/hesusruiz/docweave/source"
)

func frag(text string) *source.Fragment {
	return source.NewFragment("test", text)
}

func TestLiteral(t *testing.T) {
	p := parse.Literal("abc")

	r := p.Parse(frag("abcdef"), 0)
	require.True(t, r.Succeeded())
	assert.Equal(t, "abc", r.Value())
	assert.Equal(t, 3, r.Next())

	r = p.Parse(frag("abX"), 0)
	assert.False(t, r.Succeeded())
	assert.Equal(t, 0, r.At())
}

func TestOrTriesAlternativesInOrder(t *testing.T) {
	p := parse.Or(parse.Literal("**"), parse.Literal("*"))

	r := p.Parse(frag("**x"), 0)
	require.True(t, r.Succeeded())
	assert.Equal(t, "**", r.Value())

	r = p.Parse(frag("*x"), 0)
	require.True(t, r.Succeeded())
	assert.Equal(t, "*", r.Value())

	r = p.Parse(frag("x"), 0)
	assert.False(t, r.Succeeded())
}

func TestSeqAndDrop(t *testing.T) {
	p := parse.Seq(parse.Literal("a"), parse.Literal("b"))
	r := p.Parse(frag("ab"), 0)
	require.True(t, r.Succeeded())
	assert.Equal(t, "a", r.Value().First)
	assert.Equal(t, "b", r.Value().Second)

	left := parse.DropRight(parse.Literal("a"), parse.Literal("b"))
	lr := left.Parse(frag("ab"), 0)
	require.True(t, lr.Succeeded())
	assert.Equal(t, "a", lr.Value())

	right := parse.DropLeft(parse.Literal("a"), parse.Literal("b"))
	rr := right.Parse(frag("ab"), 0)
	require.True(t, rr.Succeeded())
	assert.Equal(t, "b", rr.Value())
}

func TestSeqBacktracksAsAWhole(t *testing.T) {
	p := parse.Or(
		parse.Map(parse.Seq(parse.Literal("a"), parse.Literal("b")), func(parse.Pair[string, string]) string { return "ab" }),
		parse.Literal("a"),
	)
	// The first alternative consumes "a" and fails at "c"; the second
	// must start again from the original offset.
	r := p.Parse(frag("ac"), 0)
	require.True(t, r.Succeeded())
	assert.Equal(t, "a", r.Value())
	assert.Equal(t, 1, r.Next())
}

func TestRepStopsWithoutConsuming(t *testing.T) {
	p := parse.Rep(parse.SomeOf("x"))
	r := p.Parse(frag("xxxy"), 0)
	require.True(t, r.Succeeded())
	assert.Equal(t, []string{"xxx"}, r.Value())
	assert.Equal(t, 3, r.Next())

	// Zero repetitions succeed with an empty slice.
	r = p.Parse(frag("y"), 0)
	require.True(t, r.Succeeded())
	assert.Empty(t, r.Value())
	assert.Equal(t, 0, r.Next())
}

func TestRepMin(t *testing.T) {
	p := parse.RepMin(parse.Literal("x"), 2)
	assert.False(t, p.Parse(frag("x"), 0).Succeeded())
	assert.True(t, p.Parse(frag("xx"), 0).Succeeded())
}

func TestOptYieldsZeroValue(t *testing.T) {
	p := parse.Opt(parse.Literal("x"))
	r := p.Parse(frag("y"), 0)
	require.True(t, r.Succeeded())
	assert.Equal(t, "", r.Value())
	assert.Equal(t, 0, r.Next())
}

func TestNotAndLookAhead(t *testing.T) {
	not := parse.Not(parse.Literal("x"))
	assert.True(t, not.Parse(frag("y"), 0).Succeeded())
	assert.False(t, not.Parse(frag("x"), 0).Succeeded())

	la := parse.LookAhead(parse.Literal("x"))
	r := la.Parse(frag("x"), 0)
	require.True(t, r.Succeeded())
	assert.Equal(t, 0, r.Next(), "lookahead must not consume")
}

func TestDelimitedBy(t *testing.T) {
	p := parse.DelimitedBy(parse.Literal("*")).Parser()
	r := p.Parse(frag("abc*def"), 0)
	require.True(t, r.Succeeded())
	assert.Equal(t, "abc", r.Value())
	assert.Equal(t, 4, r.Next(), "delimiter is consumed")

	// Unterminated fails unless EOF is accepted.
	assert.False(t, p.Parse(frag("abc"), 0).Succeeded())
	eof := parse.DelimitedBy(parse.Literal("*")).AcceptEOF().Parser()
	r = eof.Parse(frag("abc"), 0)
	require.True(t, r.Succeeded())
	assert.Equal(t, "abc", r.Value())
}

func TestDelimitedByEscape(t *testing.T) {
	esc := parse.DropLeft(parse.Char('\\'), parse.Map(parse.OneOf("*\\"), func(c byte) string { return string(c) }))
	p := parse.DelimitedBy(parse.Literal("*")).WithEscape(esc).Parser()

	r := p.Parse(frag(`a\*b*c`), 0)
	require.True(t, r.Succeeded())
	assert.Equal(t, "a*b", r.Value(), "escaped delimiter is literal text")
	assert.Equal(t, 5, r.Next())
}

func TestDelimitedByNonEmpty(t *testing.T) {
	p := parse.DelimitedBy(parse.Literal("*")).NonEmpty().Parser()
	assert.False(t, p.Parse(frag("*x"), 0).Succeeded())
	assert.True(t, p.Parse(frag("x*"), 0).Succeeded())
}

func TestCharSet(t *testing.T) {
	set := parse.NewCharSet("abc")
	assert.True(t, set.Contains('a'))
	assert.False(t, set.Contains('d'))

	union := set.Union(parse.NewCharSet("de"))
	assert.True(t, union.Contains('d'))
	assert.Equal(t, "abcde", string(union.Chars()))
}

func TestPrefixPropagation(t *testing.T) {
	p := parse.Literal("hello")
	set, ok := p.Prefix()
	require.True(t, ok)
	assert.True(t, set.Contains('h'))
	assert.False(t, set.Contains('e'))

	or := parse.Or(parse.Literal("a"), parse.Literal("b"))
	set, ok = or.Prefix()
	require.True(t, ok)
	assert.True(t, set.Contains('a'))
	assert.True(t, set.Contains('b'))
}
