// Package cypheri provides the front-end of the Cypheri compiler: it turns
// source text into a self-contained bytecode module for a stack-based
// virtual machine.
//
// The pipeline is strictly linear: a lexer converts source bytes into
// located tokens and a string-literal pool, and a single-pass parser emits
// bytecode directly while resolving scoped locals, applying operator
// precedence, and back-patching short-circuit jumps. Both stages share a
// name interner that maps identifier text to dense 32-bit ids; the module
// refers to names by id only, so it is independent of the interner's
// address space.
//
// # Quick Start
//
//	mod, err := cypheri.Compile(`Function id(x) Return x; End`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(mod.Disassemble())
//
// # Error Handling
//
// There is exactly one error taxon: [SyntaxError], carrying a message and a
// 1-indexed line/column position. Compilation is fail-fast — the first
// lexical or syntactic error wins and no module is produced.
//
// # Thread Safety
//
// Compilation is single-threaded and synchronous. Compilations may run in
// parallel because each call owns its interner; a compiled [Module] is
// immutable and safe for concurrent reads.
package cypheri
