// Package names provides the identifier interner shared by the lexer and
// parser. Interning maps equal identifier text to the same dense 32-bit id;
// ids are allocated in insertion order and stay valid for the lifetime of
// the table.
package names

import "fmt"

// ID is a dense identifier handle. Ids are never reused or invalidated.
type ID uint32

// Invalid is the sentinel returned by Lookup when a name is not interned.
const Invalid ID = ^ID(0)

// IsValid reports whether the id refers to an interned name.
func (id ID) IsValid() bool {
	return id != Invalid
}

// Table is a bidirectional mapping between identifier text and ID.
// It is not safe for concurrent use; each compilation owns its own table.
type Table struct {
	byID []string
	ids  map[string]ID
}

// NewTable creates an empty interner.
func NewTable() *Table {
	return &Table{ids: make(map[string]ID)}
}

// Lookup returns the id for name, or Invalid if it has not been interned.
// It never allocates.
func (t *Table) Lookup(name string) ID {
	if id, ok := t.ids[name]; ok {
		return id
	}
	return Invalid
}

// LookupBytes is Lookup for a byte slice key. The compiler optimizes the
// string conversion in a map index expression, so this does not allocate.
func (t *Table) LookupBytes(name []byte) ID {
	if id, ok := t.ids[string(name)]; ok {
		return id
	}
	return Invalid
}

// Intern returns the id for name, allocating a new one if absent.
// Interning the same text twice returns the same id.
func (t *Table) Intern(name string) ID {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := ID(len(t.byID))
	t.byID = append(t.byID, name)
	t.ids[name] = id
	return id
}

// Name returns the text for an interned id. It panics if id is out of
// range, Invalid included.
func (t *Table) Name(id ID) string {
	if int(id) >= len(t.byID) {
		panic(fmt.Sprintf("names: no such id %d (table holds %d)", id, len(t.byID)))
	}
	return t.byID[id]
}

// Len returns the number of interned names.
func (t *Table) Len() int {
	return len(t.byID)
}
