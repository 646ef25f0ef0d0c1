package parse

// CharSet is a set of byte values, used to declare the possible start
// characters of a prefixed parser. The span and block dispatchers build
// lookup tables from these sets, so alternatives with disjoint start
// characters are selected in O(1) instead of by sequential trial.
type CharSet struct {
	bits [4]uint64
}

// NewCharSet returns the set of all bytes occurring in chars.
func NewCharSet(chars string) CharSet {
	var s CharSet
	for i := 0; i < len(chars); i++ {
		c := chars[i]
		s.bits[c>>6] |= 1 << (c & 63)
	}
	return s
}

// Contains reports whether c is in the set.
func (s CharSet) Contains(c byte) bool {
	return s.bits[c>>6]&(1<<(c&63)) != 0
}

// Union returns the set containing the members of both sets.
func (s CharSet) Union(other CharSet) CharSet {
	var u CharSet
	for i := range u.bits {
		u.bits[i] = s.bits[i] | other.bits[i]
	}
	return u
}

// IsEmpty reports whether the set has no members.
func (s CharSet) IsEmpty() bool {
	return s.bits == [4]uint64{}
}

// Chars returns the members of the set in ascending byte order.
func (s CharSet) Chars() []byte {
	var out []byte
	for c := 0; c < 256; c++ {
		if s.Contains(byte(c)) {
			out = append(out, byte(c))
		}
	}
	return out
}
