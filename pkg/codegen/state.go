package codegen

import "github.com/selene-lang/selene/pkg/ast"

// ValueCount expresses how many values a syntactic context expects from an
// expression or expression list: an exact count, or all remaining values
// (trailing call arguments, vararg expansion).
type ValueCount struct {
	all bool
	n   int
}

// Exactly expects exactly n values.
func Exactly(n int) ValueCount {
	return ValueCount{n: n}
}

// AllRemaining expects every value the expression can supply.
func AllRemaining() ValueCount {
	return ValueCount{all: true}
}

// IsAll reports whether the count is unbounded.
func (v ValueCount) IsAll() bool { return v.all }

// IsZero reports whether no values are expected; code generation for the
// expression's value is suppressed entirely.
func (v ValueCount) IsZero() bool { return !v.all && v.n == 0 }

// Count returns the exact count. Only valid when IsAll is false.
func (v ValueCount) Count() int { return v.n }

// operand encodes the count as a call-instruction operand: -1 for all
// remaining values.
func (v ValueCount) operand() int {
	if v.all {
		return -1
	}
	return v.n
}

// nameReg is a declared name's register together with its source token,
// buffered between name binding and initializer wiring.
type nameReg struct {
	register int
	token    ast.Token
}

// funcState is the per-function compile state: names bound by a
// declaration but not yet wired to initializer code, and the two
// expected-value-count stacks. Pushes and pops balance within the visit of
// a single syntax construct.
type funcState struct {
	pending    []nameReg
	expCounts  []ValueCount
	listCounts []ValueCount
}

func (s *funcState) pushExpCount(v ValueCount) {
	s.expCounts = append(s.expCounts, v)
}

// popExpCount returns Exactly(0) when the stack is empty: no consumer is
// waiting for a value.
func (s *funcState) popExpCount() ValueCount {
	if len(s.expCounts) == 0 {
		return Exactly(0)
	}
	v := s.expCounts[len(s.expCounts)-1]
	s.expCounts = s.expCounts[:len(s.expCounts)-1]
	return v
}

func (s *funcState) pushListCount(v ValueCount) {
	s.listCounts = append(s.listCounts, v)
}

func (s *funcState) popListCount() ValueCount {
	if len(s.listCounts) == 0 {
		return Exactly(0)
	}
	v := s.listCounts[len(s.listCounts)-1]
	s.listCounts = s.listCounts[:len(s.listCounts)-1]
	return v
}

// stateStack holds one funcState per function nesting level.
type stateStack struct {
	states []*funcState
}

func (ss *stateStack) push() *funcState {
	fs := &funcState{}
	ss.states = append(ss.states, fs)
	return fs
}

func (ss *stateStack) pop() {
	ss.states = ss.states[:len(ss.states)-1]
}

func (ss *stateStack) current() *funcState {
	if len(ss.states) == 0 {
		return nil
	}
	return ss.states[len(ss.states)-1]
}
