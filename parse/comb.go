package parse

import (
	"strconv"

	"github.com/hesusruiz/docweave/source"
)

// Pair is the value produced by Seq.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Map transforms the value of a successful parse.
func Map[A, B any](p Parser[A], f func(A) B) Parser[B] {
	m := New(func(src *source.Fragment, off int) Result[B] {
		r := p.Parse(src, off)
		if !r.Succeeded() {
			return failAs[A, B](r)
		}
		return Success(f(r.Value()), r.Next())
	})
	if set, ok := p.Prefix(); ok {
		m = m.withPrefixSet(set)
	}
	return m
}

// Seq applies a then b, succeeding only if both succeed in order.
func Seq[A, B any](a Parser[A], b Parser[B]) Parser[Pair[A, B]] {
	s := New(func(src *source.Fragment, off int) Result[Pair[A, B]] {
		ra := a.Parse(src, off)
		if !ra.Succeeded() {
			return failAs[A, Pair[A, B]](ra)
		}
		rb := b.Parse(src, ra.Next())
		if !rb.Succeeded() {
			return failAs[B, Pair[A, B]](rb)
		}
		return Success(Pair[A, B]{ra.Value(), rb.Value()}, rb.Next())
	})
	if set, ok := a.Prefix(); ok {
		s = s.withPrefixSet(set)
	}
	return s
}

// DropLeft applies a then b and keeps only b's value.
func DropLeft[A, B any](a Parser[A], b Parser[B]) Parser[B] {
	d := New(func(src *source.Fragment, off int) Result[B] {
		ra := a.Parse(src, off)
		if !ra.Succeeded() {
			return failAs[A, B](ra)
		}
		return b.Parse(src, ra.Next())
	})
	if set, ok := a.Prefix(); ok {
		d = d.withPrefixSet(set)
	}
	return d
}

// DropRight applies a then b and keeps only a's value.
func DropRight[A, B any](a Parser[A], b Parser[B]) Parser[A] {
	d := New(func(src *source.Fragment, off int) Result[A] {
		ra := a.Parse(src, off)
		if !ra.Succeeded() {
			return ra
		}
		rb := b.Parse(src, ra.Next())
		if !rb.Succeeded() {
			return failAs[B, A](rb)
		}
		return Success(ra.Value(), rb.Next())
	})
	if set, ok := a.Prefix(); ok {
		d = d.withPrefixSet(set)
	}
	return d
}

// Or tries each alternative in order from the original offset, returning the
// first success. The combined parser is prefixed only if every alternative
// declares a prefix, in which case the prefix is the union.
func Or[T any](alts ...Parser[T]) Parser[T] {
	o := New(func(src *source.Fragment, off int) Result[T] {
		var last Result[T]
		for _, alt := range alts {
			last = alt.Parse(src, off)
			if last.Succeeded() {
				return last
			}
		}
		return last
	})
	union := CharSet{}
	for _, alt := range alts {
		set, ok := alt.Prefix()
		if !ok {
			return o
		}
		union = union.Union(set)
	}
	return o.withPrefixSet(union)
}

// Opt makes p optional: on failure it succeeds with the zero value without
// consuming input.
func Opt[T any](p Parser[T]) Parser[T] {
	return New(func(src *source.Fragment, off int) Result[T] {
		r := p.Parse(src, off)
		if r.Succeeded() {
			return r
		}
		var zero T
		return Success(zero, off)
	})
}

// Rep applies p zero or more times, collecting the values.
func Rep[T any](p Parser[T]) Parser[[]T] {
	return RepRange(p, 0, 0)
}

// RepMin applies p at least min times.
func RepMin[T any](p Parser[T], min int) Parser[[]T] {
	return RepRange(p, min, 0)
}

// RepRange applies p between min and max times (max 0 means unbounded),
// succeeding with the longest matching sequence. The repetition stops when
// p fails or stops consuming input.
func RepRange[T any](p Parser[T], min, max int) Parser[[]T] {
	rep := New(func(src *source.Fragment, off int) Result[[]T] {
		var values []T
		cur := off
		for max <= 0 || len(values) < max {
			r := p.Parse(src, cur)
			if !r.Succeeded() {
				break
			}
			values = append(values, r.Value())
			if r.Next() == cur {
				break
			}
			cur = r.Next()
		}
		if len(values) < min {
			return Failure[[]T]("expected at least "+strconv.Itoa(min)+" repetitions", off)
		}
		return Success(values, cur)
	})
	if min >= 1 {
		if set, ok := p.Prefix(); ok {
			rep = rep.withPrefixSet(set)
		}
	}
	return rep
}

// LookAhead succeeds or fails exactly as p would, but never consumes input.
func LookAhead[T any](p Parser[T]) Parser[T] {
	la := New(func(src *source.Fragment, off int) Result[T] {
		r := p.Parse(src, off)
		if !r.Succeeded() {
			return r
		}
		return Success(r.Value(), off)
	})
	if set, ok := p.Prefix(); ok {
		la = la.withPrefixSet(set)
	}
	return la
}

// Not is negative lookahead: it succeeds without consuming input when p
// fails, and fails when p succeeds.
func Not[T any](p Parser[T]) Parser[struct{}] {
	return New(func(src *source.Fragment, off int) Result[struct{}] {
		if p.Parse(src, off).Succeeded() {
			return Failure[struct{}]("negative lookahead matched", off)
		}
		return Success(struct{}{}, off)
	})
}
