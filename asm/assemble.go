package asm

import (
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/hax/asm/internal/depth"
	"github.com/wippyai/hax/asm/internal/encoder"
	"github.com/wippyai/hax/asm/internal/label"
	"github.com/wippyai/hax/asm/internal/symtab"
	"github.com/wippyai/hax/bytecode"
	"github.com/wippyai/hax/errors"
	"github.com/wippyai/hax/isa"
)

// Assemble rewrites the inline instructions in c. It returns an unrewritten
// Unit when c holds none. Any error aborts the whole assembly; c is never
// modified.
func Assemble(c *bytecode.Code) (*Unit, error) {
	ins, err := bytecode.Decode(c)
	if err != nil {
		return nil, err
	}

	a := newAssembler(c, ins)
	if !a.hasInline() {
		return unchanged(c)
	}

	log := Logger()
	log.Debug("assembling",
		zap.String("name", c.Name),
		zap.String("file", c.Filename),
		zap.Int("instructions", len(ins)),
		zap.Stringer("format", a.format))

	for {
		found, err := a.scan()
		if err != nil {
			return nil, err
		}
		if !found {
			break
		}
		if err := a.inline(); err != nil {
			return nil, err
		}
	}
	if err := a.labels.Check(); err != nil {
		return nil, err
	}

	u := a.unit()
	log.Debug("assembled",
		zap.String("name", c.Name),
		zap.Int("inline", u.Inline),
		zap.Int("bytes", len(u.Bytecode)),
		zap.Int("stacksize", u.StackSize),
		zap.Stringer("flags", u.Flags))
	return u, nil
}

// AssembleAll assembles each code object in order and stops at the first
// error.
func AssembleAll(codes []*bytecode.Code) ([]*Unit, error) {
	out := make([]*Unit, 0, len(codes))
	for _, c := range codes {
		u, err := Assemble(c)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

type assembler struct {
	src    *bytecode.Code
	ins    []bytecode.Instruction
	buf    *encoder.Buffer
	lines  *bytecode.LineTracker
	labels *label.Resolver
	locals *symtab.Strings
	names  *symtab.Strings
	consts *symtab.Consts
	free   *symtab.Sealed
	log    *zap.Logger
	depth  depth.Accumulator
	pos    int
	count  int
	flags  bytecode.Flags
	format isa.Format
}

func newAssembler(c *bytecode.Code, ins []bytecode.Instruction) *assembler {
	format := c.FormatOrDefault()
	buf := &encoder.Buffer{}
	var seed []bytecode.Value
	if len(c.Consts) > 0 {
		seed = c.Consts[:1]
	}
	return &assembler{
		src:    c,
		ins:    ins,
		buf:    buf,
		lines:  bytecode.NewLineTracker(c.FirstLine),
		labels: label.New(buf, c.Filename, outputBound(c, ins, format.JumpUnit()), format.JumpUnit()),
		locals: symtab.NewStrings(c.ArgNames()...),
		names:  symtab.NewStrings(),
		consts: symtab.NewConsts(seed...),
		free:   symtab.NewSealed(c.Deref()),
		log:    Logger(),
		flags:  c.Flags,
		format: format,
	}
}

func (a *assembler) hasInline() bool {
	for _, in := range a.ins {
		if a.mnemonicRef(in) {
			return true
		}
	}
	return false
}

// mnemonicRef reports whether in refers to a mnemonic by name.
func (a *assembler) mnemonicRef(in bytecode.Instruction) bool {
	if in.Category != isa.CategoryLocal && in.Category != isa.CategoryName {
		return false
	}
	s, ok := in.ArgVal.(string)
	return ok && isa.IsMnemonic(a.format, s)
}

// scan copies instructions through from the cursor and stops at the next
// mnemonic reference. It reports whether one was found.
func (a *assembler) scan() (bool, error) {
	for ; a.pos < len(a.ins); a.pos++ {
		in := a.ins[a.pos]
		if in.JumpTarget {
			if err := a.define(label.Origin(in.Offset), in.Line); err != nil {
				return false, err
			}
		}
		if a.mnemonicRef(in) {
			return true, nil
		}
		if err := a.passthrough(in); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (a *assembler) define(key label.Key, line int) error {
	patched, err := a.labels.Define(key, line)
	if err != nil {
		return err
	}
	if patched > 0 {
		a.log.Debug("label resolved",
			zap.Any("label", key),
			zap.Int("offset", a.buf.Len()),
			zap.Int("patched", patched))
	}
	return nil
}

func (a *assembler) passthrough(in bytecode.Instruction) error {
	info := isa.MustByCode(a.format, in.Opcode)
	start := a.buf.Len()
	a.lines.Mark(start, in.Line)

	if !info.HasArgument() {
		a.buf.Append(in.Opcode, 0)
		a.depth.Add(info, 0)
		return nil
	}

	width := min(in.Size, encoder.MaxWidth)
	var operand uint32
	switch in.Category {
	case isa.CategoryLocal:
		operand = a.locals.Intern(in.ArgVal.(string))
	case isa.CategoryName:
		operand = a.names.Intern(in.ArgVal.(string))
	case isa.CategoryConst:
		operand = a.consts.Intern(in.ArgVal)
	case isa.CategoryJumpAbs, isa.CategoryJumpRel:
		target, _ := in.Target()
		_, err := a.labels.Emit(label.Jump{
			Key:      label.Origin(target),
			Line:     in.Line,
			MinWidth: width,
			Opcode:   in.Opcode,
			Relative: in.Category == isa.CategoryJumpRel,
		})
		if err != nil {
			return err
		}
		a.depth.Add(info, 0)
		return nil
	default:
		operand = in.Arg
	}

	code, err := encoder.Backfill(encoder.Request{
		File:   a.src.Filename,
		Line:   in.Line,
		Arg:    int64(operand),
		Width:  width,
		Opcode: in.Opcode,
	})
	if err != nil {
		return err
	}
	a.buf.Append(code...)
	a.depth.Add(info, operand)
	return nil
}

// idiom is a recognized inline instruction.
type idiom struct {
	arg      bytecode.Value
	mnemonic string
	line     int
	args     int
}

// parse consumes the idiom at the cursor: a mnemonic load, constant loads
// for the operands, a call taking exactly those operands and a POP_TOP.
func (a *assembler) parse() (idiom, error) {
	ref := a.ins[a.pos]
	file := a.src.Filename
	id := idiom{mnemonic: ref.ArgVal.(string), line: ref.Line}

	switch ref.Opcode {
	case isa.OpLoadFast, isa.OpLoadGlobal, isa.OpLoadName:
	default:
		return id, errors.MalformedIdiom(file, ref.Line, "ops must consist of a simple call")
	}
	a.pos++

	for a.pos < len(a.ins) && a.ins[a.pos].Opcode == isa.OpLoadConst {
		id.arg = a.ins[a.pos].ArgVal
		id.args++
		a.pos++
	}

	if a.pos >= len(a.ins) || a.ins[a.pos].Opcode != isa.OpCallFunction || int(a.ins[a.pos].Arg) != id.args {
		return id, errors.MalformedIdiom(file, ref.Line, "ops must consist of a simple call")
	}
	a.pos++

	if a.pos >= len(a.ins) || a.ins[a.pos].Opcode != isa.OpPopTop {
		return id, errors.MalformedIdiom(file, ref.Line, "ops must be standalone statements")
	}
	if pop := a.ins[a.pos]; pop.StartsLine {
		id.line = pop.Line
	}
	a.pos++
	return id, nil
}

func (a *assembler) inline() error {
	id, err := a.parse()
	if err != nil {
		return err
	}
	a.count++
	file := a.src.Filename

	if isa.IsLabel(id.mnemonic) {
		if id.mnemonic == isa.DeprecatedLabelMnemonic {
			a.log.Warn("LABEL is deprecated (use HAX_LABEL instead)",
				zap.String("file", file),
				zap.Int("line", id.line))
		}
		if id.args != 1 {
			return arity(file, id.line, 1, id.args)
		}
		if !bytecode.Comparable(id.arg) {
			return errors.TypeMismatch(file, id.line, "a hashable label", id.arg)
		}
		a.log.Debug("label", zap.Any("label", id.arg), zap.Int("offset", a.buf.Len()), zap.Int("line", id.line))
		return a.define(id.arg, id.line)
	}

	info, ok := isa.Lookup(a.format, id.mnemonic)
	if !ok {
		return errors.Compile(errors.PhaseAssemble, errors.KindInternal, file, id.line).
			Detail("unknown mnemonic %s", id.mnemonic).
			Build()
	}
	a.log.Debug("inline instruction",
		zap.String("op", id.mnemonic),
		zap.Int("line", id.line),
		zap.Any("arg", id.arg))

	if info.Yields() {
		a.promote()
	}

	want := 0
	if info.HasArgument() {
		want = 1
	}
	if id.args != want {
		return arity(file, id.line, want, id.args)
	}

	operand, err := a.operand(info, id)
	if err != nil {
		return err
	}
	start := a.buf.Len()
	a.lines.Mark(start, id.line)

	if info.Category.IsJump() {
		if _, err := a.labels.Emit(label.Jump{
			Key:      id.arg,
			Line:     id.line,
			Opcode:   info.Code,
			Relative: info.Category == isa.CategoryJumpRel,
		}); err != nil {
			return err
		}
		a.depth.Add(info, 0)
		return nil
	}

	code, err := encoder.Backfill(encoder.Request{
		File:   file,
		Line:   id.line,
		Arg:    operand,
		Width:  encoder.MinWidth,
		Opcode: info.Code,
	})
	if err != nil {
		return err
	}
	a.buf.Append(code...)
	a.depth.Add(info, uint32(operand))
	return nil
}

// operand resolves the idiom's argument for the opcode's category.
func (a *assembler) operand(info isa.Info, id idiom) (int64, error) {
	file := a.src.Filename
	switch info.Category {
	case isa.CategoryNone:
		return 0, nil
	case isa.CategoryLocal, isa.CategoryName, isa.CategoryCompare, isa.CategoryFree:
		s, ok := id.arg.(string)
		if !ok {
			return 0, errors.TypeMismatch(file, id.line, "a string", id.arg)
		}
		switch info.Category {
		case isa.CategoryLocal:
			return int64(a.locals.Intern(s)), nil
		case isa.CategoryName:
			return int64(a.names.Intern(s)), nil
		case isa.CategoryCompare:
			i, ok := isa.CompareIndex(a.format, s)
			if !ok {
				quoted := make([]string, 0)
				for _, op := range isa.CompareOps(a.format) {
					quoted = append(quoted, errors.Repr(op))
				}
				return 0, errors.Compile(errors.PhaseAssemble, errors.KindUnknownCompare, file, id.line).
					Value(s).
					Detail("bad comparison operator %s; expected one of %s", errors.Repr(s), strings.Join(quoted, " / ")).
					Build()
			}
			return int64(i), nil
		default:
			i, ok := a.free.Lookup(s)
			if !ok {
				return 0, errors.Compile(errors.PhaseAssemble, errors.KindUnknownFree, file, id.line).
					Value(s).
					Detail("no free/cell variable %s; declare it free or cell in the enclosing scope", errors.Repr(s)).
					Build()
			}
			return int64(i), nil
		}
	case isa.CategoryConst:
		return int64(a.consts.Intern(id.arg)), nil
	case isa.CategoryJumpAbs, isa.CategoryJumpRel:
		if !bytecode.Comparable(id.arg) {
			return 0, errors.TypeMismatch(file, id.line, "a hashable label", id.arg)
		}
		return 0, nil
	case isa.CategoryInt:
		switch n := id.arg.(type) {
		case int64:
			return n, nil
		case bool:
			if n {
				return 1, nil
			}
			return 0, nil
		}
		return 0, errors.TypeMismatch(file, id.line, "an integer", id.arg)
	}
	return 0, errors.Compile(errors.PhaseAssemble, errors.KindInternal, file, id.line).
		Detail("unhandled operand category %s", info.Category).
		Build()
}

// promote marks the code as a generator once it yields. A coroutine
// becomes an async generator.
func (a *assembler) promote() {
	switch {
	case a.flags&bytecode.FlagCoroutine != 0:
		a.flags &^= bytecode.FlagCoroutine
		a.flags |= bytecode.FlagAsyncGenerator
	case a.flags&bytecode.FlagAsyncGenerator == 0:
		a.flags |= bytecode.FlagGenerator
	}
}

func (a *assembler) unit() *Unit {
	return &Unit{
		Source:    a.src,
		Bytecode:  a.buf.Bytes(),
		Varnames:  a.locals.List(),
		Names:     a.names.List(),
		Consts:    a.consts.List(),
		Freevars:  append([]string(nil), a.src.Freevars...),
		Cellvars:  append([]string(nil), a.src.Cellvars...),
		LineTable: a.lines.Table(),
		StackSize: a.depth.Depth(),
		Flags:     a.flags,
		Inline:    a.count,
		Rewritten: true,
	}
}

func arity(file string, line, want, got int) *errors.Error {
	return errors.Compile(errors.PhaseAssemble, errors.KindArity, file, line).
		Value(got).
		Detail("number of arguments is wrong (expected %d, got %d)", want, got).
		Build()
}
