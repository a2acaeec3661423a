package codegen

import "github.com/selene-lang/selene/pkg/gc"

// scopeName is one (name, register) binding in the shared scope table.
type scopeName struct {
	name     string
	register int
}

// scopeNameList is the flat, insertion-ordered scope table shared by every
// lexical scope of every function being compiled. Scopes layer a stack
// discipline on top: each remembers the table length at entry and truncates
// back to it on exit.
type scopeNameList struct {
	names   []scopeName
	current *nameScope
}

// nameScope marks one lexical scope's position in the scope table. A
// function's top-level scope supplies its own owner; nested block scopes
// inherit the owner of the scope they open inside.
type nameScope struct {
	list  *scopeNameList
	prev  *nameScope
	start int
	owner *gc.Function
}

// enter opens a new scope. Passing a nil owner inherits the enclosing
// scope's owning function.
func (l *scopeNameList) enter(owner *gc.Function) *nameScope {
	s := &nameScope{
		list:  l,
		prev:  l.current,
		start: len(l.names),
		owner: owner,
	}
	if s.owner == nil {
		s.owner = s.prev.owner
	}
	l.current = s
	return s
}

// leave closes the current scope: the table is truncated back to the
// length captured at entry and the enclosing scope becomes current again.
// Scopes close strictly LIFO.
func (l *scopeNameList) leave() {
	s := l.current
	l.names = l.names[:s.start]
	l.current = s.prev
}

// lookup returns the register bound to name among entries appended since
// this scope opened.
func (s *nameScope) lookup(name string) (int, bool) {
	for i := s.start; i < len(s.list.names); i++ {
		if s.list.names[i].name == name {
			return s.list.names[i].register, true
		}
	}
	return 0, false
}

// add binds name to reg in this scope. If name is already bound here the
// existing register is returned with false and nothing is appended; the
// caller must not allocate a new register for it.
func (s *nameScope) add(name string, reg int) (int, bool) {
	if existing, ok := s.lookup(name); ok {
		return existing, false
	}
	s.list.names = append(s.list.names, scopeName{name: name, register: reg})
	return reg, true
}

// resolve walks outward from this scope, crossing function boundaries,
// until a scope binding name is found. It returns that scope and its
// owning function, or nils when the name is free (a global reference).
func (s *nameScope) resolve(name string) (*nameScope, *gc.Function) {
	for cur := s; cur != nil; cur = cur.prev {
		if _, ok := cur.lookup(name); ok {
			return cur, cur.owner
		}
	}
	return nil, nil
}
