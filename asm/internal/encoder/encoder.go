// Package encoder emits variable-width instructions into a fixed-layout
// output buffer.
package encoder

import (
	"strconv"

	"github.com/wippyai/hax/errors"
	"github.com/wippyai/hax/isa"
)

// MaxOperand is the largest encodable operand.
const MaxOperand = 1<<32 - 1

// Encoded widths. An instruction is two bytes plus up to three two-byte
// EXTENDED_ARG or NOP prefixes.
const (
	MinWidth = 2
	MaxWidth = 8
)

// Request describes one instruction to encode.
type Request struct {
	File   string
	Line   int
	Arg    int64
	Width  int // minimum width in bytes: 2, 4, 6 or 8
	Opcode byte
}

// ValidWidth reports whether w is a width class.
func ValidWidth(w int) bool {
	return w == 2 || w == 4 || w == 6 || w == 8
}

// Required returns the smallest width holding arg.
func Required(arg uint32) int {
	switch {
	case arg >= 1<<24:
		return 8
	case arg >= 1<<16:
		return 6
	case arg >= 1<<8:
		return 4
	}
	return 2
}

// Backfill encodes r, most significant byte group first. Each of the three
// prefix tiers is an EXTENDED_ARG carrying that byte when the operand needs
// it, or a NOP filler when the reserved width still needs padding there.
// The result is max(r.Width, Required(arg)) bytes long.
func Backfill(r Request) ([]byte, error) {
	if !ValidWidth(r.Width) {
		return nil, errors.Compile(errors.PhaseEncode, errors.KindInternal, r.File, r.Line).
			Value(r.Width).
			Detail("invalid reserved width %d", r.Width).
			Build()
	}
	if r.Arg > MaxOperand {
		return nil, errors.OutOfRange(r.File, r.Line, r.Arg,
			"operand too large: args greater than "+group(MaxOperand)+" aren't supported (got "+group(r.Arg)+")")
	}
	if r.Arg < 0 {
		return nil, errors.OutOfRange(r.File, r.Line, r.Arg,
			"operand negative: args less than 0 aren't supported (got "+group(r.Arg)+")")
	}

	arg := uint32(r.Arg)
	out := make([]byte, 0, max(r.Width, Required(arg)))
	for tier, shift := 3, 24; shift > 0; tier, shift = tier-1, shift-8 {
		switch {
		case arg >= 1<<shift:
			out = append(out, isa.OpExtendedArg, byte(arg>>shift))
		case r.Width >= 2+2*tier:
			out = append(out, isa.OpNop, 0)
		}
	}
	return append(out, r.Opcode, byte(arg)), nil
}

// group formats n with thousands separators.
func group(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := s[0] == '-'
	if neg {
		s = s[1:]
	}
	var out []byte
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
