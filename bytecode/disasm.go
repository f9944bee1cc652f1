package bytecode

import (
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/hax/isa"
)

// Disassemble renders the code as a listing, one instruction per line:
// source line where it changes, a ">>" marker on jump targets, offset,
// mnemonic and operand.
func Disassemble(c *Code) (string, error) {
	var b strings.Builder
	if err := Fprint(&b, c); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Fprint writes the listing for c to w.
func Fprint(w io.Writer, c *Code) error {
	ins, err := Decode(c)
	if err != nil {
		return err
	}
	for i, in := range ins {
		if in.StartsLine && i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, formatLine(in)); err != nil {
			return err
		}
	}
	return nil
}

func formatLine(in Instruction) string {
	lineCol := ""
	if in.StartsLine {
		lineCol = fmt.Sprintf("%d", in.Line)
	}
	marker := "  "
	if in.JumpTarget {
		marker = ">>"
	}
	s := fmt.Sprintf("%4s %s %6d %-24s", lineCol, marker, in.Offset, in.Name)
	if in.HasArgument() {
		s += fmt.Sprintf(" %5d", in.Arg)
		if in.Category.IsJump() {
			s += fmt.Sprintf(" (to %v)", in.ArgVal)
		} else if in.Category != isa.CategoryInt {
			s += " (" + repr(in.ArgVal) + ")"
		}
	}
	return strings.TrimRight(s, " ") + "\n"
}
