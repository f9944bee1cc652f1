// Package bytecode models wordcode code objects and reads them back.
//
// A Code value carries the instruction bytes together with the tables the
// operands index into: constants, names, local slots, cell and free
// variables, and a compact line table. Decode turns the bytes into
// Instructions with EXTENDED_ARG prefixes folded away and operands resolved
// against those tables. Builder produces code objects from scratch.
package bytecode
