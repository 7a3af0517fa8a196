package parser

import "github.com/szdytom/cypheri/internal/names"

// notFound is returned by localTable.lookup for names with no live binding.
const notFound = -1

// localTable resolves names to function-local slots across a stack of
// shadowing scopes. Slot ids are handed out monotonically and never reused
// when a scope closes, so nextSlot is the high-water mark that becomes the
// function's local count.
type localTable struct {
	nextSlot int
	scopes   [][]names.ID
	bindings map[names.ID][]int
}

// newLocalTable creates a table with the function scope already open;
// parameters are added into it before any block scope is entered.
func newLocalTable() *localTable {
	return &localTable{
		scopes:   make([][]names.ID, 1),
		bindings: make(map[names.ID][]int),
	}
}

// lookup returns the innermost live slot for name, or notFound.
func (t *localTable) lookup(name names.ID) int {
	stk := t.bindings[name]
	if len(stk) == 0 {
		return notFound
	}
	return stk[len(stk)-1]
}

// add binds name to a fresh slot in the current scope and returns the slot.
func (t *localTable) add(name names.ID) int {
	slot := t.nextSlot
	t.nextSlot++
	t.bindings[name] = append(t.bindings[name], slot)
	top := len(t.scopes) - 1
	t.scopes[top] = append(t.scopes[top], name)
	return slot
}

// enterScope opens a new shadowing scope.
func (t *localTable) enterScope() {
	t.scopes = append(t.scopes, nil)
}

// leaveScope drops the bindings of the innermost scope. nextSlot is left
// untouched: dead slots still count toward the function's local count.
func (t *localTable) leaveScope() {
	top := len(t.scopes) - 1
	for _, name := range t.scopes[top] {
		stk := t.bindings[name]
		if len(stk) <= 1 {
			delete(t.bindings, name)
		} else {
			t.bindings[name] = stk[:len(stk)-1]
		}
	}
	t.scopes = t.scopes[:top]
}

// size returns the slot high-water mark.
func (t *localTable) size() int {
	return t.nextSlot
}
