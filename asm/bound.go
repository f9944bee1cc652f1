package asm

import (
	"github.com/wippyai/hax/asm/internal/encoder"
	"github.com/wippyai/hax/bytecode"
	"github.com/wippyai/hax/isa"
)

// outputBound returns an upper bound on the length of the assembled
// stream. An inline idiom never assembles to more bytes than it occupies.
// A copied instruction can grow: its operand may be renumbered past the
// width it was encoded with, and a copied jump reserves room for the
// farthest target the bound allows. Jump growth feeds back into the bound,
// so it is iterated until stable.
func outputBound(c *bytecode.Code, ins []bytecode.Instruction, unit int) int {
	var strs, locals, names, consts int
	for _, in := range ins {
		if _, ok := in.ArgVal.(string); ok && in.Opcode == isa.OpLoadConst {
			strs++
		}
		switch in.Category {
		case isa.CategoryLocal:
			locals++
		case isa.CategoryName:
			names++
		case isa.CategoryConst:
			consts++
		}
	}
	// Every inline operand is a string constant, so each one adds at most
	// one entry to the local or name table.
	tables := map[isa.Category]int{
		isa.CategoryLocal: len(c.ArgNames()) + locals + strs,
		isa.CategoryName:  names + strs,
		isa.CategoryConst: 1 + consts,
	}

	var fixed int
	var jumps []int
	for _, in := range ins {
		width := min(in.Size, encoder.MaxWidth)
		switch in.Category {
		case isa.CategoryLocal, isa.CategoryName, isa.CategoryConst:
			if n := tables[in.Category]; n > 0 {
				fixed += max(0, encoder.Required(uint32(min(n-1, encoder.MaxOperand)))-width)
			}
		case isa.CategoryJumpAbs, isa.CategoryJumpRel:
			jumps = append(jumps, width)
		}
	}

	limit := len(c.Bytecode) + fixed
	for {
		need := encoder.Required(uint32(min(max(limit-1, 0)/unit, encoder.MaxOperand)))
		next := len(c.Bytecode) + fixed
		for _, width := range jumps {
			next += max(0, need-width)
		}
		if next <= limit {
			return limit
		}
		limit = next
	}
}
