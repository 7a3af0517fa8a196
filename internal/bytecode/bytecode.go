// Package bytecode defines the instruction set and the compiled module
// produced by the parser: named stack-machine functions, a string-literal
// pool, and the module-level global names.
package bytecode

import (
	"math"

	"github.com/szdytom/cypheri/internal/names"
)

// Opcode identifies a virtual machine instruction. The numeric values are
// part of the instruction contract and must not change between versions.
type Opcode uint8

const (
	// Miscellaneous
	NOP Opcode = iota
	INVALID

	// Arithmetic / logical. Binary forms pop two operands and push one;
	// NEG, BNOT and NOT pop one.
	ADD
	SUB
	MUL
	DIV
	MOD
	POW
	IDIV
	NEG
	BXOR
	BAND
	BOR
	BNOT
	SHL
	SHR
	EQ
	NE
	LT
	LE
	GT
	GE
	AND
	OR
	NOT

	// Stack / literals
	LII      // load immediate integer: operand u64
	LIN      // load immediate number: operand f64 bits
	LINULL   // load null
	LIBOOL   // load boolean: operand 0|1
	LISTR    // load string: operand is a str_lits index
	LIARR    // load empty array
	LIOBJ    // load empty object
	LILAMBDA // load lambda
	LDGLOBAL // load global: operand NameId
	LDLOCAL  // load local: operand slot
	STGLOBAL // store global: operand NameId
	STLOCAL  // store local: operand slot
	POPN     // pop n values: operand n
	SWP      // swap top two
	ROT3     // rotate top three: a b c -> c a b
	DUP      // duplicate top

	// Object
	GET    // get property: operand NameId
	SET    // set property: operand NameId
	GETDNY // get dynamic property (key on stack)
	SETDNY // set dynamic property (key on stack)
	NEWOBJ // new object

	// Control flow. Jump operands are absolute instruction indices;
	// JZ and JNZ pop the test value.
	JMP
	JZ
	JNZ
	CALL // operand is the argument count
	RET
	RETNULL
	YIELD

	// OpcodeCount is the number of opcodes. Guaranteed to be last.
	OpcodeCount
)

// opcodeNames holds the mnemonic of every opcode; the package test checks
// completeness and uniqueness.
var opcodeNames = [OpcodeCount]string{
	NOP:     "NOP",
	INVALID: "INVALID",

	ADD:  "ADD",
	SUB:  "SUB",
	MUL:  "MUL",
	DIV:  "DIV",
	MOD:  "MOD",
	POW:  "POW",
	IDIV: "IDIV",
	NEG:  "NEG",
	BXOR: "BXOR",
	BAND: "BAND",
	BOR:  "BOR",
	BNOT: "BNOT",
	SHL:  "SHL",
	SHR:  "SHR",
	EQ:   "EQ",
	NE:   "NE",
	LT:   "LT",
	LE:   "LE",
	GT:   "GT",
	GE:   "GE",
	AND:  "AND",
	OR:   "OR",
	NOT:  "NOT",

	LII:      "LII",
	LIN:      "LIN",
	LINULL:   "LINULL",
	LIBOOL:   "LIBOOL",
	LISTR:    "LISTR",
	LIARR:    "LIARR",
	LIOBJ:    "LIOBJ",
	LILAMBDA: "LILAMBDA",
	LDGLOBAL: "LDGLOBAL",
	LDLOCAL:  "LDLOCAL",
	STGLOBAL: "STGLOBAL",
	STLOCAL:  "STLOCAL",
	POPN:     "POPN",
	SWP:      "SWP",
	ROT3:     "ROT3",
	DUP:      "DUP",

	GET:    "GET",
	SET:    "SET",
	GETDNY: "GETDNY",
	SETDNY: "SETDNY",
	NEWOBJ: "NEWOBJ",

	JMP:     "JMP",
	JZ:      "JZ",
	JNZ:     "JNZ",
	CALL:    "CALL",
	RET:     "RET",
	RETNULL: "RETNULL",
	YIELD:   "YIELD",
}

// String returns the opcode mnemonic.
func (op Opcode) String() string {
	if op < OpcodeCount {
		return opcodeNames[op]
	}
	return "INVALID"
}

// Instruction is one opcode with its single 64-bit operand slot. The
// operand's meaning is opcode-determined; it is unused when meaningless.
type Instruction struct {
	Op  Opcode
	arg uint64
}

// New creates an instruction with no meaningful operand.
func New(op Opcode) Instruction {
	return Instruction{Op: op}
}

// NewCount creates an instruction whose operand is a small count
// (CALL argc, POPN n).
func NewCount(op Opcode, n int) Instruction {
	return Instruction{Op: op, arg: uint64(n)}
}

// NewIndex creates an instruction whose operand is an index: a jump target,
// a local slot, or a str_lits index.
func NewIndex(op Opcode, idx int) Instruction {
	return Instruction{Op: op, arg: uint64(idx)}
}

// NewInt creates an instruction with an integer-literal operand.
func NewInt(op Opcode, v uint64) Instruction {
	return Instruction{Op: op, arg: v}
}

// NewFloat creates an instruction with a number-literal operand.
func NewFloat(op Opcode, f float64) Instruction {
	return Instruction{Op: op, arg: math.Float64bits(f)}
}

// NewBool creates an instruction with a boolean operand.
func NewBool(op Opcode, b bool) Instruction {
	var v uint64
	if b {
		v = 1
	}
	return Instruction{Op: op, arg: v}
}

// NewName creates an instruction whose operand is an interned name id.
func NewName(op Opcode, id names.ID) Instruction {
	return Instruction{Op: op, arg: uint64(id)}
}

// Count returns the operand as a count.
func (in Instruction) Count() int { return int(in.arg) }

// Index returns the operand as an index.
func (in Instruction) Index() int { return int(in.arg) }

// SetIndex overwrites the operand index; used to back-patch jump targets.
func (in *Instruction) SetIndex(idx int) { in.arg = uint64(idx) }

// Int returns the operand as an unsigned integer literal.
func (in Instruction) Int() uint64 { return in.arg }

// Float returns the operand as a number literal.
func (in Instruction) Float() float64 { return math.Float64frombits(in.arg) }

// Bool returns the operand as a boolean.
func (in Instruction) Bool() bool { return in.arg != 0 }

// Name returns the operand as an interned name id.
func (in Instruction) Name() names.ID { return names.ID(in.arg) }

// Function is a compiled function body. The first ArgCount local slots hold
// the positional parameters in declaration order; LocalCount is the
// high-water mark of slots ever allocated (slots are not reused when scopes
// close), so ArgCount <= LocalCount always.
type Function struct {
	Name         names.ID
	ArgCount     int
	LocalCount   int
	Instructions []Instruction
}

// Emit appends an instruction and returns its index.
func (f *Function) Emit(in Instruction) int {
	f.Instructions = append(f.Instructions, in)
	return len(f.Instructions) - 1
}

// Patch sets the jump operand at idx to the current instruction count,
// resolving a forward jump emitted with a placeholder target.
func (f *Function) Patch(idx int) {
	f.Instructions[idx].SetIndex(len(f.Instructions))
}

// Module is a compiled compilation unit: functions keyed by name id, the
// string-literal pool referenced by LISTR operands, and the names of
// module-level globals (function names not included). Iteration order of
// Functions is unspecified; the disassembler sorts.
type Module struct {
	Functions   map[names.ID]*Function
	StrLits     []string
	GlobalNames []names.ID
}

// NewModule creates an empty module.
func NewModule() *Module {
	return &Module{Functions: make(map[names.ID]*Function)}
}
