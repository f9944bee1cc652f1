package bytecode

import (
	"fmt"

	"github.com/wippyai/hax/errors"
	"github.com/wippyai/hax/isa"
)

// maxPrefixes is the number of EXTENDED_ARG prefixes a 32-bit operand
// can need.
const maxPrefixes = 3

// Decode splits the code's bytes into instructions. Operands are resolved
// against the code's tables, source lines are attached from the line table
// and every instruction that some jump lands on is marked.
func Decode(c *Code) ([]Instruction, error) {
	if len(c.Bytecode)%2 != 0 {
		return nil, decodeErr(c, 0, "bytecode has odd length %d", len(c.Bytecode))
	}

	format := c.FormatOrDefault()
	lt, err := DecodeLineTable(c.LineTable)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, c.Name)
	}
	starts := lt.Starts(c.FirstLine)
	deref := c.Deref()
	compares := isa.CompareOps(format)
	unit := format.JumpUnit()

	var out []Instruction
	line := c.FirstLine
	si := 0
	for pos := 0; pos < len(c.Bytecode); {
		start := pos
		var ext uint32
		for c.Bytecode[pos] == isa.OpExtendedArg {
			if pos-start == 2*maxPrefixes {
				return nil, decodeErr(c, start, "more than %d EXTENDED_ARG prefixes", maxPrefixes)
			}
			ext = ext<<8 | uint32(c.Bytecode[pos+1])
			pos += 2
			if pos >= len(c.Bytecode) {
				return nil, decodeErr(c, start, "dangling EXTENDED_ARG")
			}
		}
		code := c.Bytecode[pos]
		info, ok := isa.ByCode(format, code)
		if !ok {
			return nil, decodeErr(c, pos, "unknown opcode %d for format %s", code, format)
		}
		if pos > start && !info.HasArgument() {
			return nil, decodeErr(c, start, "EXTENDED_ARG before %s", info.Name)
		}

		in := Instruction{
			Name:     info.Name,
			Opcode:   code,
			Offset:   start,
			Size:     pos + 2 - start,
			Category: info.Category,
		}
		if info.HasArgument() {
			in.Arg = ext<<8 | uint32(c.Bytecode[pos+1])
		}
		pos += 2

		for si < len(starts) && starts[si].Offset < in.End() {
			line = starts[si].Line
			in.StartsLine = true
			si++
		}
		in.Line = line

		if in.HasArgument() {
			if in.ArgVal, err = resolveArg(c, in, deref, compares, unit); err != nil {
				return nil, err
			}
		}
		out = append(out, in)
	}

	targets := make(map[int]bool)
	for _, in := range out {
		if t, ok := in.Target(); ok {
			targets[t] = true
		}
	}
	for i := range out {
		out[i].JumpTarget = targets[out[i].Offset]
	}
	return out, nil
}

func resolveArg(c *Code, in Instruction, deref, compares []string, unit int) (any, error) {
	arg := int(in.Arg)
	switch in.Category {
	case isa.CategoryConst:
		if arg >= len(c.Consts) {
			return nil, decodeErr(c, in.Offset, "constant index %d out of range", arg)
		}
		return c.Consts[arg], nil
	case isa.CategoryName:
		if arg >= len(c.Names) {
			return nil, decodeErr(c, in.Offset, "name index %d out of range", arg)
		}
		return c.Names[arg], nil
	case isa.CategoryLocal:
		if arg >= len(c.Varnames) {
			return nil, decodeErr(c, in.Offset, "local index %d out of range", arg)
		}
		return c.Varnames[arg], nil
	case isa.CategoryFree:
		if arg >= len(deref) {
			return nil, decodeErr(c, in.Offset, "free variable index %d out of range", arg)
		}
		return deref[arg], nil
	case isa.CategoryCompare:
		if arg >= len(compares) {
			return nil, decodeErr(c, in.Offset, "comparison operator %d out of range", arg)
		}
		return compares[arg], nil
	case isa.CategoryJumpAbs:
		return arg * unit, nil
	case isa.CategoryJumpRel:
		return in.End() + arg*unit, nil
	}
	return int64(in.Arg), nil
}

func decodeErr(c *Code, offset int, format string, args ...any) *errors.Error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		At(c.Filename, 0).
		Value(offset).
		Detail("%s at offset %d: %s", c.Name, offset, fmt.Sprintf(format, args...)).
		Build()
}
