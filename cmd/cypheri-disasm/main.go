// cypheri-disasm - parse-and-disassemble harness for the Cypheri front-end.
//
// Reads Cypheri source from the file named by the first non-flag argument,
// or from stdin, compiles it and prints the disassembled module. A syntax
// error is printed instead. The exit code is 0 in both cases; this is a
// test aid, not the product interface.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/szdytom/cypheri/internal/bytecode"
	"github.com/szdytom/cypheri/internal/lexer"
	"github.com/szdytom/cypheri/internal/names"
	"github.com/szdytom/cypheri/internal/parser"
)

const usage = `usage: cypheri-disasm [-yaml] [file]

Compiles Cypheri source from file (or stdin) and prints the disassembled
bytecode module.

  -yaml       emit the module as YAML
  -h, --help  show this help message
`

func main() {
	asYAML := false
	var path string
	for _, arg := range os.Args[1:] {
		switch arg {
		case "-yaml":
			asYAML = true
		case "-h", "--help":
			fmt.Print(usage)
			return
		default:
			if path == "" {
				path = arg
			}
		}
	}

	src, err := readSource(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	tab := names.NewTable()
	mod, serr := parser.Parse(lexer.Tokenize(src, tab), tab)
	if serr != nil {
		fmt.Printf("Error:\n%s\n", serr)
		return
	}

	if asYAML {
		dumpYAML(mod, tab)
		return
	}
	fmt.Print(bytecode.Disassemble(mod, tab))
}

func readSource(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// YAML shapes for the module dump.
type (
	moduleDump struct {
		Functions   []functionDump `yaml:"functions"`
		StrLits     []string       `yaml:"str_lits,omitempty"`
		GlobalNames []string       `yaml:"global_names,omitempty"`
	}

	functionDump struct {
		Name         string     `yaml:"name"`
		ArgCount     int        `yaml:"arg_count"`
		LocalCount   int        `yaml:"local_count"`
		Instructions []instDump `yaml:"instructions"`
	}

	instDump struct {
		Op      string `yaml:"op"`
		Operand any    `yaml:"operand,omitempty"`
	}
)

func dumpYAML(mod *bytecode.Module, tab *names.Table) {
	ids := make([]names.ID, 0, len(mod.Functions))
	for id := range mod.Functions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := moduleDump{
		StrLits:     mod.StrLits,
		GlobalNames: make([]string, 0, len(mod.GlobalNames)),
	}
	for _, id := range mod.GlobalNames {
		out.GlobalNames = append(out.GlobalNames, tab.Name(id))
	}

	for _, id := range ids {
		fn := mod.Functions[id]
		fd := functionDump{
			Name:       tab.Name(fn.Name),
			ArgCount:   fn.ArgCount,
			LocalCount: fn.LocalCount,
		}
		for _, in := range fn.Instructions {
			fd.Instructions = append(fd.Instructions, instDump{
				Op:      in.Op.String(),
				Operand: operandValue(in, tab),
			})
		}
		out.Functions = append(out.Functions, fd)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	enc.Close()
}

func operandValue(in bytecode.Instruction, tab *names.Table) any {
	switch in.Op {
	case bytecode.LII:
		return in.Int()
	case bytecode.LIN:
		return in.Float()
	case bytecode.LIBOOL:
		return in.Bool()
	case bytecode.LISTR, bytecode.LDLOCAL, bytecode.STLOCAL,
		bytecode.JMP, bytecode.JZ, bytecode.JNZ:
		return in.Index()
	case bytecode.LDGLOBAL, bytecode.STGLOBAL, bytecode.GET, bytecode.SET:
		return tab.Name(in.Name())
	case bytecode.CALL, bytecode.POPN:
		return in.Count()
	}
	return nil
}
