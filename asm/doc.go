// Package asm rewrites inline bytecode in code objects.
//
// Source code spells an instruction that the host compiler would never emit
// as a call: the mnemonic is loaded by name, its operand (if any) is loaded
// as a constant, the call's result is discarded:
//
//	LOAD_GLOBAL  'BINARY_ADD'
//	CALL_FUNCTION 0
//	POP_TOP
//
// Assemble finds every such idiom, replaces it with the real instruction
// and rebuilds the symbol tables, constant pool, line table, flags and
// stack bound around it. Everything else is copied through, with jumps
// relocated to their new offsets.
//
// The HAX_LABEL pseudo-instruction marks a jump target; jumps name labels
// by their operand:
//
//	POP_JUMP_IF_FALSE("done")
//	...
//	HAX_LABEL("done")
//
// Forward jumps are encoded in one pass: a conservative width is reserved
// for each and rewritten in place once the label is reached. Output length
// never changes after bytes are committed.
package asm
