package bytecode

import (
	"fmt"

	"github.com/wippyai/hax/isa"
)

// Instruction is one decoded instruction with any EXTENDED_ARG prefixes
// folded into Arg. Offset and Size cover the prefixes too.
type Instruction struct {
	// ArgVal is the operand resolved against the code's tables: a string
	// for local, name, free and compare operands, a Value for constants,
	// the absolute byte offset for jumps, an int64 for raw integers and nil
	// for operand-less instructions.
	ArgVal any

	Name       string
	Offset     int
	Size       int
	Line       int
	Arg        uint32
	Opcode     byte
	Category   isa.Category
	StartsLine bool
	JumpTarget bool
}

// HasArgument reports whether the instruction carries an operand.
func (in Instruction) HasArgument() bool {
	return in.Opcode >= isa.HaveArgument
}

// End is the offset just past the instruction.
func (in Instruction) End() int {
	return in.Offset + in.Size
}

// Target returns the absolute jump target for jump instructions.
func (in Instruction) Target() (int, bool) {
	if !in.Category.IsJump() {
		return 0, false
	}
	t, ok := in.ArgVal.(int)
	return t, ok
}

func (in Instruction) String() string {
	if !in.HasArgument() {
		return in.Name
	}
	switch in.Category {
	case isa.CategoryJumpAbs, isa.CategoryJumpRel:
		return fmt.Sprintf("%s %d (to %v)", in.Name, in.Arg, in.ArgVal)
	case isa.CategoryInt:
		return fmt.Sprintf("%s %d", in.Name, in.Arg)
	}
	return fmt.Sprintf("%s %d (%s)", in.Name, in.Arg, repr(in.ArgVal))
}

func repr(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return fmt.Sprintf("%q", x)
	case []byte:
		return fmt.Sprintf("b%q", x)
	case bool:
		if x {
			return "True"
		}
		return "False"
	}
	return fmt.Sprint(v)
}
