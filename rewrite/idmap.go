// Package rewrite implements the AST passes that run after parsing:
// reference resolution against document and tree target tables, section
// building from flat header sequences, and config-driven autonumbering.
package rewrite

import "strconv"

// IdMap assigns final rendered ids for user-suggested ones. The first
// occurrence of a suggestion keeps it, later occurrences get "-1", "-2"
// suffixes. The assignment order per suggestion is kept so a later pass
// can look up which final id the n-th occurrence received.
type IdMap struct {
	used     map[string]bool
	assigned map[string][]string
}

func NewIdMap() *IdMap {
	return &IdMap{
		used:     make(map[string]bool),
		assigned: make(map[string][]string),
	}
}

// Register reserves a final id for one occurrence of suggested.
func (m *IdMap) Register(suggested string) string {
	final := suggested
	for n := 1; m.used[final]; n++ {
		final = suggested + "-" + strconv.Itoa(n)
	}
	m.used[final] = true
	m.assigned[suggested] = append(m.assigned[suggested], final)
	return final
}

// Assigned returns the final ids handed out for suggested, in
// registration order.
func (m *IdMap) Assigned(suggested string) []string {
	return m.assigned[suggested]
}
