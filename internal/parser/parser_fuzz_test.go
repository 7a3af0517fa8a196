package parser

import (
	"testing"

	"github.com/szdytom/cypheri/internal/bytecode"
	"github.com/szdytom/cypheri/internal/lexer"
	"github.com/szdytom/cypheri/internal/names"
)

// FuzzParse checks that the front-end handles arbitrary input without
// panicking, and that every module it does produce satisfies the bytecode
// invariants.
func FuzzParse(f *testing.F) {
	seeds := []string{
		``,
		`Function id(x) Return x; End`,
		`Function f() Return 1 + 2 * 3; End`,
		`Function g(a, b) If a && b Then Return 1; Else Return 0; End End`,
		`Function h(x) x += 2; Return x; End`,
		`Function f() Declare x = 1, y; y = x ** 2 ** 3; Return y; End`,
		`Function f(a) Return a.b[0](1, 2,); End`,
		`Function f() counter = counter + 1; End`,
		`Function f(a) If a Then ElseIf a Then Else End End`,
		`Function f() Return "s\n"; End`,
		`Function f(x, x) End`,
		`Return 1;`,
		`Function f() 1 = 2; End`,
		`Function f()`,
		`Function f() Return -~!x; End`,
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		tab := names.NewTable()
		mod, err := Parse(lexer.Tokenize([]byte(src), tab), tab)
		if err != nil {
			if mod != nil {
				t.Fatal("module returned alongside an error")
			}
			return
		}

		for id, fn := range mod.Functions {
			if fn.Name != id {
				t.Errorf("function keyed under %d carries name %d", id, fn.Name)
			}
			if fn.ArgCount > fn.LocalCount {
				t.Errorf("arg_count %d > local_count %d", fn.ArgCount, fn.LocalCount)
			}
			for i, in := range fn.Instructions {
				switch in.Op {
				case bytecode.JMP, bytecode.JZ, bytecode.JNZ:
					if in.Index() < 0 || in.Index() > len(fn.Instructions) {
						t.Errorf("instr %d: jump target %d out of range", i, in.Index())
					}
				case bytecode.LISTR:
					if in.Index() < 0 || in.Index() >= len(mod.StrLits) {
						t.Errorf("instr %d: LISTR %d out of range", i, in.Index())
					}
				case bytecode.LDLOCAL, bytecode.STLOCAL:
					if in.Index() < 0 || in.Index() >= fn.LocalCount {
						t.Errorf("instr %d: slot %d >= local_count %d",
							i, in.Index(), fn.LocalCount)
					}
				case bytecode.LDGLOBAL, bytecode.STGLOBAL, bytecode.GET, bytecode.SET:
					if int(in.Name()) >= tab.Len() {
						t.Errorf("instr %d: name id %d not interned", i, in.Name())
					}
				}
			}
		}
	})
}
