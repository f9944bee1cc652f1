package bytecode

import (
	"slices"
	"strconv"

	"github.com/wippyai/hax/isa"
)

// Flags is the code object flag word.
type Flags uint32

const (
	FlagOptimized         Flags = 0x0001
	FlagNewLocals         Flags = 0x0002
	FlagVarargs           Flags = 0x0004
	FlagVarkeywords       Flags = 0x0008
	FlagNested            Flags = 0x0010
	FlagGenerator         Flags = 0x0020
	FlagNoFree            Flags = 0x0040
	FlagCoroutine         Flags = 0x0080
	FlagIterableCoroutine Flags = 0x0100
	FlagAsyncGenerator    Flags = 0x0200
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagOptimized, "OPTIMIZED"},
	{FlagNewLocals, "NEWLOCALS"},
	{FlagVarargs, "VARARGS"},
	{FlagVarkeywords, "VARKEYWORDS"},
	{FlagNested, "NESTED"},
	{FlagGenerator, "GENERATOR"},
	{FlagNoFree, "NOFREE"},
	{FlagCoroutine, "COROUTINE"},
	{FlagIterableCoroutine, "ITERABLE_COROUTINE"},
	{FlagAsyncGenerator, "ASYNC_GENERATOR"},
}

func (f Flags) String() string {
	if f == 0 {
		return "0"
	}
	var s string
	for _, n := range flagNames {
		if f&n.flag == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += n.name
		f &^= n.flag
	}
	if f != 0 {
		if s != "" {
			s += "|"
		}
		s += "0x" + strconv.FormatUint(uint64(f), 16)
	}
	return s
}

// Code is a compiled code object.
type Code struct {
	Name     string
	Filename string

	Bytecode  []byte
	LineTable []byte

	Consts   []Value
	Names    []string
	Varnames []string
	Freevars []string
	Cellvars []string

	ArgCount        int
	PosOnlyArgCount int
	KwOnlyArgCount  int
	NLocals         int
	StackSize       int
	FirstLine       int

	Flags  Flags
	Format isa.Format
}

// ArgNames returns the leading local slots bound to parameters:
// positional (positional-only first), keyword-only, then the *args and
// **kwargs slots when the flags declare them.
func (c *Code) ArgNames() []string {
	n := c.ArgCount + c.KwOnlyArgCount
	if c.Flags&FlagVarargs != 0 {
		n++
	}
	if c.Flags&FlagVarkeywords != 0 {
		n++
	}
	if n > len(c.Varnames) {
		n = len(c.Varnames)
	}
	return slices.Clone(c.Varnames[:n])
}

// Deref returns the free-variable operand table: cellvars followed by
// freevars.
func (c *Code) Deref() []string {
	out := make([]string, 0, len(c.Cellvars)+len(c.Freevars))
	out = append(out, c.Cellvars...)
	return append(out, c.Freevars...)
}

// FormatOrDefault returns the code's format, falling back to the default
// for zero-valued codes.
func (c *Code) FormatOrDefault() isa.Format {
	if c.Format.Valid() {
		return c.Format
	}
	return isa.DefaultFormat
}

// Clone returns a deep copy.
func (c *Code) Clone() *Code {
	out := *c
	out.Bytecode = slices.Clone(c.Bytecode)
	out.LineTable = slices.Clone(c.LineTable)
	out.Consts = make([]Value, len(c.Consts))
	for i, v := range c.Consts {
		if b, ok := v.([]byte); ok {
			v = slices.Clone(b)
		}
		out.Consts[i] = v
	}
	out.Names = slices.Clone(c.Names)
	out.Varnames = slices.Clone(c.Varnames)
	out.Freevars = slices.Clone(c.Freevars)
	out.Cellvars = slices.Clone(c.Cellvars)
	return &out
}
