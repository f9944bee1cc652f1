// Package label resolves jumps to labels that may not be defined yet.
//
// A jump to a label already defined is encoded at once. A jump to an
// unknown label reserves a conservative width in the output buffer and is
// queued; defining the label rewrites every queued region in place.
package label

import (
	"math"

	"github.com/wippyai/hax/asm/internal/encoder"
	"github.com/wippyai/hax/errors"
)

// Key names a label. User labels are any comparable operand value; jumps
// copied from the input use Origin keys.
type Key = any

// Origin keys a jump target by its byte offset in the input stream.
type Origin int

type floatBits uint64

// canonical folds keys that are equal as numbers onto one value, so True,
// 1 and 1.0 name the same label. Non-integral floats are keyed by bit
// pattern and a NaN label matches itself.
func canonical(k Key) Key {
	switch x := k.(type) {
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<63 {
			return int64(x)
		}
		return floatBits(math.Float64bits(x))
	}
	return k
}

// Fixup is a reserved jump awaiting its label.
type Fixup struct {
	Key      Key
	Line     int
	Start    int // output offset of the reserved region
	Width    int
	Base     int // output offset the operand is measured from
	Opcode   byte
	Relative bool
}

// Jump describes a jump instruction to emit.
type Jump struct {
	Key      Key
	Line     int
	MinWidth int // lower bound on the reserved width, 0 for none
	Opcode   byte
	Relative bool
}

// Resolver owns label state for one assembly.
type Resolver struct {
	buf     *encoder.Buffer
	defined map[Key]int
	pending map[Key][]Fixup
	spelled map[Key]Key // canonical key to the first spelling seen
	file    string
	order   []Key
	limit   int
	unit    int
}

// New returns a resolver writing into buf. limit is an upper bound on the
// length of the finished output in bytes and bounds every forward
// distance; unit is the number of bytes one jump operand step covers.
func New(buf *encoder.Buffer, file string, limit, unit int) *Resolver {
	return &Resolver{
		buf:     buf,
		defined: make(map[Key]int),
		pending: make(map[Key][]Fixup),
		spelled: make(map[Key]Key),
		file:    file,
		limit:   limit,
		unit:    unit,
	}
}

// Lookup returns the output offset of a defined label.
func (r *Resolver) Lookup(key Key) (int, bool) {
	off, ok := r.defined[canonical(key)]
	return off, ok
}

// Define binds key to the current output offset and rewrites the fixups
// waiting for it. It returns the number of fixups patched.
func (r *Resolver) Define(key Key, line int) (int, error) {
	spelling := key
	key = canonical(key)
	if _, ok := r.defined[key]; ok {
		return 0, errors.Compile(errors.PhaseResolve, errors.KindDuplicateLabel, r.file, line).
			Value(spelling).
			Detail("label %s already exists", errors.Repr(spelling)).
			Build()
	}
	target := r.buf.Len()
	r.defined[key] = target

	fixups := r.pending[key]
	delete(r.pending, key)
	for _, f := range fixups {
		arg := target
		if f.Relative {
			arg -= f.Base
		}
		code, err := encoder.Backfill(encoder.Request{
			File:   r.file,
			Line:   f.Line,
			Arg:    int64(arg / r.unit),
			Width:  f.Width,
			Opcode: f.Opcode,
		})
		if err != nil {
			return 0, err
		}
		if err := r.buf.Overwrite(r.file, f.Line, f.Start, f.Width, code); err != nil {
			return 0, err
		}
	}
	return len(fixups), nil
}

// Estimate returns the width to reserve for an unresolved jump emitted at
// the current offset: the smallest class whose operand range covers the
// longest distance the rest of the output could span.
func (r *Resolver) Estimate(relative bool) int {
	maxJump := r.limit - 1
	if relative {
		maxJump -= r.buf.Len() + 2
	}
	maxJump /= r.unit
	switch {
	case maxJump >= 1<<24:
		return 8
	case maxJump >= 1<<16:
		return 6
	case maxJump >= 1<<8:
		return 4
	}
	return 2
}

// Emit encodes j at the current offset. A resolved absolute target is
// encoded directly; a resolved relative target is a backward jump and an
// error. An unresolved target reserves max(Estimate, MinWidth) bytes and
// queues a fixup. It reports whether the jump was deferred.
func (r *Resolver) Emit(j Jump) (bool, error) {
	key := canonical(j.Key)
	if target, ok := r.defined[key]; ok {
		if j.Relative {
			return false, errors.Compile(errors.PhaseResolve, errors.KindBackwardJump, r.file, j.Line).
				Value(j.Key).
				Detail("relative jumps must be forwards, not backwards (label %s)", errors.Repr(j.Key)).
				Build()
		}
		code, err := encoder.Backfill(encoder.Request{
			File:   r.file,
			Line:   j.Line,
			Arg:    int64(target / r.unit),
			Width:  max(j.MinWidth, encoder.MinWidth),
			Opcode: j.Opcode,
		})
		if err != nil {
			return false, err
		}
		r.buf.Append(code...)
		return false, nil
	}

	width := max(r.Estimate(j.Relative), j.MinWidth)
	start := r.buf.Len()
	f := Fixup{
		Key:      key,
		Line:     j.Line,
		Start:    start,
		Width:    width,
		Base:     start + width,
		Opcode:   j.Opcode,
		Relative: j.Relative,
	}
	code, err := encoder.Backfill(encoder.Request{File: r.file, Line: j.Line, Width: width, Opcode: j.Opcode})
	if err != nil {
		return false, err
	}
	r.buf.Append(code...)
	if _, seen := r.pending[key]; !seen {
		r.order = append(r.order, key)
	}
	if _, seen := r.spelled[key]; !seen {
		r.spelled[key] = j.Key
	}
	r.pending[key] = append(r.pending[key], f)
	return true, nil
}

// Pending returns the keys with queued fixups in first-reference order,
// spelled as they were first referenced.
func (r *Resolver) Pending() []Key {
	var out []Key
	for _, k := range r.order {
		if _, ok := r.pending[k]; ok {
			out = append(out, r.spelled[k])
		}
	}
	return out
}

// Check reports labels that were referenced but never defined. User labels
// are listed together; a leftover Origin key means an input jump landed
// inside an inline instruction.
func (r *Resolver) Check() error {
	var users []any
	var origin *Fixup
	for _, k := range r.order {
		fixups, ok := r.pending[k]
		if !ok {
			continue
		}
		if _, ok := k.(Origin); ok {
			if origin == nil {
				origin = &fixups[0]
			}
			continue
		}
		users = append(users, r.spelled[k])
	}
	if len(users) > 0 {
		return errors.UndefinedLabels(r.file, users)
	}
	if origin != nil {
		return errors.Compile(errors.PhaseResolve, errors.KindInvalidJump, r.file, origin.Line).
			Value(int(origin.Key.(Origin))).
			Detail("jump target %d is not an instruction boundary after assembly", int(origin.Key.(Origin))).
			Build()
	}
	return nil
}
