package bytecode

import (
	"fmt"
	"sort"
	"strings"

	"github.com/szdytom/cypheri/internal/names"
)

// Disassemble renders the module as a human-readable listing. Functions are
// sorted by name id so the output is deterministic.
func Disassemble(m *Module, tab *names.Table) string {
	ids := make([]names.ID, 0, len(m.Functions))
	for id := range m.Functions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var sb strings.Builder
	for _, id := range ids {
		DisassembleFunc(&sb, m, m.Functions[id], tab)
		sb.WriteString("\n")
	}
	return sb.String()
}

// DisassembleFunc writes one function's listing: a header with its arity and
// slot count, then one line per instruction.
func DisassembleFunc(sb *strings.Builder, m *Module, f *Function, tab *names.Table) {
	fmt.Fprintf(sb, "Function %s(args = %d, locals = %d):\n",
		tab.Name(f.Name), f.ArgCount, f.LocalCount)

	for i, in := range f.Instructions {
		fmt.Fprintf(sb, "\t+%04d: %s", i, in.Op)
		switch in.Op {
		case LII:
			fmt.Fprintf(sb, "\t%d", in.Int())
		case LIN:
			fmt.Fprintf(sb, "\t%v", in.Float())
		case LIBOOL:
			fmt.Fprintf(sb, "\t%t", in.Bool())
		case LISTR:
			if idx := in.Index(); idx < len(m.StrLits) {
				fmt.Fprintf(sb, "\t%q", m.StrLits[idx])
			} else {
				fmt.Fprintf(sb, "\t[%d]", idx)
			}
		case LDLOCAL, STLOCAL, JMP, JZ, JNZ:
			fmt.Fprintf(sb, "\t%d", in.Index())
		case LDGLOBAL, STGLOBAL, GET, SET:
			fmt.Fprintf(sb, "\t%s", tab.Name(in.Name()))
		case CALL, POPN:
			fmt.Fprintf(sb, "\t%d", in.Count())
		}
		sb.WriteString("\n")
	}
}
