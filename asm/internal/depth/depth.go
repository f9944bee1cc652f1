// Package depth accumulates a conservative bound on evaluation stack depth.
package depth

import "github.com/wippyai/hax/isa"

// Accumulator sums the non-negative stack effect of every instruction. It
// ignores control flow and never decreases, so the result is an upper
// bound on the depth any path can reach.
type Accumulator struct {
	depth int
}

// Add accounts for one instruction. Padding contributes nothing.
func (a *Accumulator) Add(info isa.Info, arg uint32) {
	if info.Padding() {
		return
	}
	if eff := info.Effect(arg, isa.BranchMax); eff > 0 {
		a.depth += eff
	}
}

// Depth returns the bound so far.
func (a *Accumulator) Depth() int {
	return a.depth
}
