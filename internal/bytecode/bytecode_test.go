package bytecode

import (
	"testing"

	"github.com/szdytom/cypheri/internal/names"
)

// TestOpcodeNamesComplete guards the mnemonic table the same way the token
// package guards its display names.
func TestOpcodeNamesComplete(t *testing.T) {
	seen := map[string]Opcode{}
	for op := Opcode(0); op < OpcodeCount; op++ {
		name := op.String()
		if name == "" {
			t.Errorf("opcode %d has no mnemonic", op)
			continue
		}
		if name == "INVALID" && op != INVALID {
			t.Errorf("opcode %d has no mnemonic", op)
			continue
		}
		if prev, dup := seen[name]; dup {
			t.Errorf("opcodes %d and %d share mnemonic %q", prev, op, name)
		}
		seen[name] = op
	}
}

func TestInstructionOperands(t *testing.T) {
	if in := NewInt(LII, 18446744073709551615); in.Int() != 18446744073709551615 {
		t.Errorf("integer operand lost: %d", in.Int())
	}
	if in := NewFloat(LIN, 0.25); in.Float() != 0.25 {
		t.Errorf("float operand lost: %v", in.Float())
	}
	if in := NewBool(LIBOOL, true); !in.Bool() {
		t.Error("bool operand lost")
	}
	if in := NewBool(LIBOOL, false); in.Bool() {
		t.Error("bool operand not false")
	}
	if in := NewName(LDGLOBAL, names.ID(7)); in.Name() != 7 {
		t.Errorf("name operand lost: %d", in.Name())
	}
	if in := NewCount(CALL, 3); in.Count() != 3 {
		t.Errorf("count operand lost: %d", in.Count())
	}
	if in := NewIndex(JMP, 12); in.Index() != 12 {
		t.Errorf("index operand lost: %d", in.Index())
	}
}

func TestEmitAndPatch(t *testing.T) {
	fn := &Function{}
	if idx := fn.Emit(New(JZ)); idx != 0 {
		t.Fatalf("first Emit returned index %d", idx)
	}
	fn.Emit(New(NOP))
	fn.Emit(New(NOP))
	fn.Patch(0)
	if got := fn.Instructions[0].Index(); got != 3 {
		t.Errorf("patched target = %d, want 3", got)
	}
}
