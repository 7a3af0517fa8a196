package bytecode

import (
	"strings"
	"testing"

	"github.com/szdytom/cypheri/internal/names"
)

func TestDisassembleFunction(t *testing.T) {
	tab := names.NewTable()
	id := tab.Intern("id")

	m := NewModule()
	m.Functions[id] = &Function{
		Name:       id,
		ArgCount:   1,
		LocalCount: 1,
		Instructions: []Instruction{
			NewIndex(LDLOCAL, 0),
			New(RET),
		},
	}

	got := Disassemble(m, tab)
	want := "Function id(args = 1, locals = 1):\n" +
		"\t+0000: LDLOCAL\t0\n" +
		"\t+0001: RET\n" +
		"\n"
	if got != want {
		t.Errorf("Disassemble:\n%q\nwant:\n%q", got, want)
	}
}

func TestDisassembleOperandForms(t *testing.T) {
	tab := names.NewTable()
	f := tab.Intern("f")
	g := tab.Intern("g")

	m := NewModule()
	m.StrLits = []string{"hi\n"}
	m.Functions[f] = &Function{
		Name: f,
		Instructions: []Instruction{
			NewInt(LII, 7),
			NewFloat(LIN, 1.5),
			NewBool(LIBOOL, true),
			NewIndex(LISTR, 0),
			NewName(LDGLOBAL, g),
			NewCount(CALL, 2),
			NewCount(POPN, 1),
			New(RETNULL),
		},
	}

	got := Disassemble(m, tab)
	for _, want := range []string{
		"LII\t7",
		"LIN\t1.5",
		"LIBOOL\ttrue",
		"LISTR\t\"hi\\n\"",
		"LDGLOBAL\tg",
		"CALL\t2",
		"POPN\t1",
		"+0007: RETNULL\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("listing missing %q:\n%s", want, got)
		}
	}
}

// TestDisassembleDeterministic checks that function order does not depend
// on map iteration.
func TestDisassembleDeterministic(t *testing.T) {
	tab := names.NewTable()
	m := NewModule()
	for _, name := range []string{"c", "a", "b"} {
		id := tab.Intern(name)
		m.Functions[id] = &Function{Name: id}
	}

	first := Disassemble(m, tab)
	for i := 0; i < 16; i++ {
		if got := Disassemble(m, tab); got != first {
			t.Fatal("listing varies between calls")
		}
	}

	// interned in order c, a, b: ids sort the same way
	ci := strings.Index(first, "Function c")
	ai := strings.Index(first, "Function a")
	bi := strings.Index(first, "Function b")
	if !(ci < ai && ai < bi) {
		t.Errorf("functions not in id order:\n%s", first)
	}
}
