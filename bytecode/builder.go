package bytecode

import (
	"fmt"

	"github.com/wippyai/hax/errors"
	"github.com/wippyai/hax/isa"
)

// Label is a jump target inside a Builder.
type Label struct {
	refs     []labelRef
	position int
	resolved bool
}

type labelRef struct {
	at  int // offset of the jump opcode byte
	rel bool
}

// Builder emits raw instructions and interns their operands. Errors are
// sticky and reported by Build.
type Builder struct {
	err   error
	lines *LineTracker
	code  Code
	buf   []byte
}

// NewBuilder starts an empty code object.
func NewBuilder(format isa.Format, name, filename string, firstLine int) *Builder {
	return &Builder{
		lines: NewLineTracker(firstLine),
		code: Code{
			Name:      name,
			Filename:  filename,
			FirstLine: firstLine,
			Format:    format,
			Flags:     FlagOptimized | FlagNewLocals | FlagNoFree,
		},
	}
}

// SetArgs declares the parameters. They occupy the first local slots.
func (b *Builder) SetArgs(posOnly, positional, kwOnly []string) {
	b.code.PosOnlyArgCount = len(posOnly)
	b.code.ArgCount = len(posOnly) + len(positional)
	b.code.KwOnlyArgCount = len(kwOnly)
	for _, group := range [][]string{posOnly, positional, kwOnly} {
		for _, n := range group {
			b.Local(n)
		}
	}
}

// SetFlags replaces the flag word.
func (b *Builder) SetFlags(f Flags) {
	b.code.Flags = f
}

// AddFlags sets additional flags.
func (b *Builder) AddFlags(f Flags) {
	b.code.Flags |= f
}

// DeclareCell adds a cell variable.
func (b *Builder) DeclareCell(name string) {
	b.code.Cellvars = appendUnique(b.code.Cellvars, name)
	b.code.Flags &^= FlagNoFree
}

// DeclareFree adds a free variable.
func (b *Builder) DeclareFree(name string) {
	b.code.Freevars = appendUnique(b.code.Freevars, name)
	b.code.Flags &^= FlagNoFree
}

// Const interns a constant and returns its index.
func (b *Builder) Const(v Value) uint32 {
	v, err := Normalize(v)
	if err != nil {
		b.fail(err)
		return 0
	}
	if i := Index(b.code.Consts, v); i >= 0 {
		return uint32(i)
	}
	b.code.Consts = append(b.code.Consts, v)
	return uint32(len(b.code.Consts) - 1)
}

// Name interns a global or attribute name.
func (b *Builder) Name(s string) uint32 {
	return intern(&b.code.Names, s)
}

// Local interns a local slot.
func (b *Builder) Local(s string) uint32 {
	return intern(&b.code.Varnames, s)
}

// Deref returns the free-variable operand for a declared cell or free
// variable.
func (b *Builder) Deref(s string) (uint32, bool) {
	for i, n := range b.code.Deref() {
		if n == s {
			return uint32(i), true
		}
	}
	return 0, false
}

// Offset is the current end of the instruction stream.
func (b *Builder) Offset() int {
	return len(b.buf)
}

// Emit appends an instruction by mnemonic, prefixing EXTENDED_ARG as the
// operand requires.
func (b *Builder) Emit(name string, arg uint32, line int) {
	info, ok := isa.Lookup(b.code.Format, name)
	if !ok {
		b.fail(fmt.Errorf("unknown opcode %s for format %s", name, b.code.Format))
		return
	}
	b.lines.Mark(len(b.buf), line)
	if !info.HasArgument() {
		b.buf = append(b.buf, info.Code, 0)
		return
	}
	for shift := 24; shift > 0; shift -= 8 {
		if arg>>shift != 0 {
			b.buf = append(b.buf, isa.OpExtendedArg, byte(arg>>shift))
		}
	}
	b.buf = append(b.buf, info.Code, byte(arg))
}

// Inline emits the call idiom standing for an inline instruction:
// a load of the mnemonic, one constant load per operand, a call and a
// discard of its result.
func (b *Builder) Inline(mnemonic string, line int, args ...Value) {
	b.Emit("LOAD_GLOBAL", b.Name(mnemonic), line)
	for _, a := range args {
		b.Emit("LOAD_CONST", b.Const(a), line)
	}
	b.Emit("CALL_FUNCTION", uint32(len(args)), line)
	b.Emit("POP_TOP", 0, line)
}

// NewLabel creates an unresolved label.
func (b *Builder) NewLabel() *Label {
	return &Label{}
}

// Mark resolves a label to the current offset and patches forward
// references.
func (b *Builder) Mark(l *Label) {
	if l.resolved {
		b.fail(fmt.Errorf("label already marked at %d", l.position))
		return
	}
	l.resolved = true
	l.position = len(b.buf)
	unit := b.code.Format.JumpUnit()
	for _, ref := range l.refs {
		dist := l.position
		if ref.rel {
			dist -= ref.at + 2
		}
		b.buf[ref.at+1] = b.jumpOperand(dist, unit)
	}
	l.refs = nil
}

// EmitJump emits a two-byte jump to l. Targets that do not fit a single
// operand byte make Build fail.
func (b *Builder) EmitJump(name string, l *Label, line int) {
	info, ok := isa.Lookup(b.code.Format, name)
	if !ok || !info.Category.IsJump() {
		b.fail(fmt.Errorf("%s is not a jump for format %s", name, b.code.Format))
		return
	}
	rel := info.Category == isa.CategoryJumpRel
	unit := b.code.Format.JumpUnit()
	b.lines.Mark(len(b.buf), line)
	at := len(b.buf)
	b.buf = append(b.buf, info.Code, 0)
	if !l.resolved {
		l.refs = append(l.refs, labelRef{at: at, rel: rel})
		return
	}
	if rel {
		b.fail(fmt.Errorf("relative jump %s to earlier offset %d", name, l.position))
		return
	}
	b.buf[at+1] = b.jumpOperand(l.position, unit)
}

func (b *Builder) jumpOperand(dist, unit int) byte {
	v := dist / unit
	if v < 0 || v > 0xff {
		b.fail(fmt.Errorf("jump operand %d does not fit one byte", v))
		return 0
	}
	return byte(v)
}

// Build finishes the code object. The stack size is the sum of the
// positive stack effects.
func (b *Builder) Build() (*Code, error) {
	if b.err != nil {
		return nil, b.err
	}
	c := b.code
	c.Bytecode = append([]byte(nil), b.buf...)
	c.LineTable = b.lines.Table().Encode()
	c.NLocals = len(c.Varnames)

	ins, err := Decode(&c)
	if err != nil {
		return nil, err
	}
	for _, in := range ins {
		info := isa.MustByCode(c.FormatOrDefault(), in.Opcode)
		if info.Padding() {
			continue
		}
		c.StackSize += max(0, info.Effect(in.Arg, isa.BranchMax))
	}
	return &c, nil
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = errors.Wrap(errors.PhaseDecode, errors.KindInvalidInput, err, b.code.Name)
	}
}

func intern(table *[]string, s string) uint32 {
	for i, n := range *table {
		if n == s {
			return uint32(i)
		}
	}
	*table = append(*table, s)
	return uint32(len(*table) - 1)
}

func appendUnique(list []string, s string) []string {
	for _, n := range list {
		if n == s {
			return list
		}
	}
	return append(list, s)
}
