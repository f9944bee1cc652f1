package asm

import (
	"slices"

	"github.com/wippyai/hax/bytecode"
)

// Unit is the result of a successful assembly.
type Unit struct {
	// Source is the code object that was assembled. It is never modified.
	Source *bytecode.Code

	Bytecode  []byte
	Varnames  []string
	Names     []string
	Consts    []bytecode.Value
	Freevars  []string
	Cellvars  []string
	LineTable bytecode.LineTable
	StackSize int
	Flags     bytecode.Flags

	// Inline counts the inline instructions and labels assembled.
	Inline int

	// Rewritten is false when the source held no inline instructions. The
	// other fields then mirror Source.
	Rewritten bool
}

// Deref returns the free-variable operand table: cellvars followed by
// freevars.
func (u *Unit) Deref() []string {
	out := make([]string, 0, len(u.Cellvars)+len(u.Freevars))
	out = append(out, u.Cellvars...)
	return append(out, u.Freevars...)
}

// Code returns the assembled code object. Argument counts, names, first
// line and format come from Source. An unrewritten unit returns Source
// itself.
func (u *Unit) Code() *bytecode.Code {
	if !u.Rewritten {
		return u.Source
	}
	c := *u.Source
	c.Bytecode = slices.Clone(u.Bytecode)
	c.LineTable = u.LineTable.Encode()
	c.Consts = slices.Clone(u.Consts)
	c.Names = slices.Clone(u.Names)
	c.Varnames = slices.Clone(u.Varnames)
	c.Freevars = slices.Clone(u.Freevars)
	c.Cellvars = slices.Clone(u.Cellvars)
	c.NLocals = len(u.Varnames)
	c.StackSize = u.StackSize
	c.Flags = u.Flags
	return &c
}

func unchanged(c *bytecode.Code) (*Unit, error) {
	lt, err := bytecode.DecodeLineTable(c.LineTable)
	if err != nil {
		return nil, err
	}
	return &Unit{
		Source:    c,
		Bytecode:  slices.Clone(c.Bytecode),
		Varnames:  slices.Clone(c.Varnames),
		Names:     slices.Clone(c.Names),
		Consts:    slices.Clone(c.Consts),
		Freevars:  slices.Clone(c.Freevars),
		Cellvars:  slices.Clone(c.Cellvars),
		LineTable: lt,
		StackSize: c.StackSize,
		Flags:     c.Flags,
	}, nil
}
