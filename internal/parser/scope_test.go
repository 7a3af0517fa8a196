package parser

import (
	"testing"

	"github.com/szdytom/cypheri/internal/names"
)

func TestLocalTableAddLookup(t *testing.T) {
	lt := newLocalTable()
	a := names.ID(1)
	b := names.ID(2)

	if lt.lookup(a) != notFound {
		t.Error("lookup on empty table should be notFound")
	}
	if slot := lt.add(a); slot != 0 {
		t.Errorf("first slot = %d, want 0", slot)
	}
	if slot := lt.add(b); slot != 1 {
		t.Errorf("second slot = %d, want 1", slot)
	}
	if lt.lookup(a) != 0 || lt.lookup(b) != 1 {
		t.Error("lookup does not resolve added names")
	}
}

func TestLocalTableShadowing(t *testing.T) {
	lt := newLocalTable()
	x := names.ID(7)

	outer := lt.add(x)
	lt.enterScope()
	inner := lt.add(x)
	if inner == outer {
		t.Fatal("shadowing binding reused the outer slot")
	}
	if lt.lookup(x) != inner {
		t.Errorf("lookup = %d, want innermost %d", lt.lookup(x), inner)
	}

	lt.leaveScope()
	if lt.lookup(x) != outer {
		t.Errorf("lookup after leave = %d, want outer %d", lt.lookup(x), outer)
	}
}

func TestLocalTableSlotsNotRecycled(t *testing.T) {
	lt := newLocalTable()
	lt.add(names.ID(1))

	lt.enterScope()
	lt.add(names.ID(2))
	lt.add(names.ID(3))
	lt.leaveScope()

	if lt.lookup(names.ID(2)) != notFound {
		t.Error("dead binding still visible")
	}
	// the high-water mark survives scope exit
	if lt.size() != 3 {
		t.Errorf("size = %d, want 3", lt.size())
	}
	if slot := lt.add(names.ID(4)); slot != 3 {
		t.Errorf("new slot = %d, want 3", slot)
	}
}

func TestLocalTableNestedScopes(t *testing.T) {
	lt := newLocalTable()
	x := names.ID(1)

	s0 := lt.add(x)
	lt.enterScope()
	s1 := lt.add(x)
	lt.enterScope()
	s2 := lt.add(x)

	if lt.lookup(x) != s2 {
		t.Errorf("lookup = %d, want %d", lt.lookup(x), s2)
	}
	lt.leaveScope()
	if lt.lookup(x) != s1 {
		t.Errorf("lookup = %d, want %d", lt.lookup(x), s1)
	}
	lt.leaveScope()
	if lt.lookup(x) != s0 {
		t.Errorf("lookup = %d, want %d", lt.lookup(x), s0)
	}
}
