// Package isa describes the wordcode instruction set the assembler targets.
//
// The description is static and versioned: every opcode carries its number,
// operand category, stack-effect function, control-flow kind and the set of
// formats it belongs to. Tables are built once at init and never mutated.
package isa
