package isa

import (
	"fmt"
	"strings"
)

// Format identifies a revision of the wordcode instruction set. Opcode
// numbering, operand categories and jump units differ between revisions.
type Format uint16

const (
	Format36  Format = 36
	Format37  Format = 37
	Format38  Format = 38
	Format39  Format = 39
	Format310 Format = 310
)

// DefaultFormat is used when a code object does not name its format.
const DefaultFormat = Format38

var formats = []Format{Format36, Format37, Format38, Format39, Format310}

// Formats returns every supported format, oldest first.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

func (f Format) String() string {
	switch f {
	case Format36:
		return "3.6"
	case Format37:
		return "3.7"
	case Format38:
		return "3.8"
	case Format39:
		return "3.9"
	case Format310:
		return "3.10"
	}
	return fmt.Sprintf("Format(%d)", uint16(f))
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	return f.bit() != 0
}

// JumpUnit is the number of bytes one unit of a jump operand covers.
// Before 3.10 jump operands are byte offsets; from 3.10 they count
// two-byte instructions.
func (f Format) JumpUnit() int {
	if f >= Format310 {
		return 2
	}
	return 1
}

// ParseFormat accepts "3.8", "38" or "310" style spellings.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimSpace(s)
	var f Format
	switch s {
	case "3.6", "36":
		f = Format36
	case "3.7", "37":
		f = Format37
	case "3.8", "38":
		f = Format38
	case "3.9", "39":
		f = Format39
	case "3.10", "310":
		f = Format310
	default:
		return 0, fmt.Errorf("unknown bytecode format %q", s)
	}
	return f, nil
}

type formatSet uint8

const (
	in36 formatSet = 1 << iota
	in37
	in38
	in39
	in310

	inAll = in36 | in37 | in38 | in39 | in310
)

func (f Format) bit() formatSet {
	switch f {
	case Format36:
		return in36
	case Format37:
		return in37
	case Format38:
		return in38
	case Format39:
		return in39
	case Format310:
		return in310
	}
	return 0
}

func (s formatSet) has(f Format) bool {
	return s&f.bit() != 0
}

// since returns the set of formats from f onwards.
func since(f Format) formatSet {
	var s formatSet
	for _, x := range formats {
		if x >= f {
			s |= x.bit()
		}
	}
	return s
}

// until returns the set of formats up to and including f.
func until(f Format) formatSet {
	var s formatSet
	for _, x := range formats {
		if x <= f {
			s |= x.bit()
		}
	}
	return s
}
