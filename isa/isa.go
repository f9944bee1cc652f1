package isa

import (
	"fmt"
	"math/bits"
	"sort"
)

// Fixed opcode numbers shared by every format.
const (
	OpPopTop          byte = 1
	OpNop             byte = 9
	OpReturnValue     byte = 83
	OpYieldValue      byte = 86
	OpStoreName       byte = 90
	OpForIter         byte = 93
	OpStoreGlobal     byte = 97
	OpLoadConst       byte = 100
	OpLoadName        byte = 101
	OpLoadAttr        byte = 106
	OpCompareOp       byte = 107
	OpJumpForward     byte = 110
	OpJumpAbsolute    byte = 113
	OpPopJumpIfFalse  byte = 114
	OpPopJumpIfTrue   byte = 115
	OpLoadGlobal      byte = 116
	OpLoadFast        byte = 124
	OpStoreFast       byte = 125
	OpCallFunction    byte = 131
	OpLoadDeref       byte = 136
	OpStoreDeref      byte = 137
	OpExtendedArg     byte = 144
	OpBinaryAdd       byte = 23
	OpBinarySubtract  byte = 24
	OpGetIter         byte = 68
	OpYieldFrom       byte = 72
	OpDupTop          byte = 4
	OpRotTwo          byte = 2
	OpBuildTuple      byte = 102
	OpUnpackSequence  byte = 92
	OpJumpIfTrueOrPop byte = 112
)

// HaveArgument is the first opcode that takes an operand.
const HaveArgument byte = 90

// Label pseudo-mnemonics. They name no opcode; the assembler treats them as
// label definitions. The short spelling is deprecated.
const (
	LabelMnemonic           = "HAX_LABEL"
	DeprecatedLabelMnemonic = "LABEL"
)

// IsLabel reports whether name is a label pseudo-mnemonic.
func IsLabel(name string) bool {
	return name == LabelMnemonic || name == DeprecatedLabelMnemonic
}

// EffectFunc computes the net stack effect of an instruction for a
// resolved operand.
type EffectFunc func(arg uint32, branch Branch) int

// Info describes one opcode of one or more formats.
type Info struct {
	effect   EffectFunc
	Name     string
	formats  formatSet
	Code     byte
	Category Category
	Flow     Flow
}

// HasArgument reports whether the opcode consumes an operand.
func (i Info) HasArgument() bool {
	return i.Code >= HaveArgument
}

// Effect returns the net stack effect for the given operand and branch.
// Operand-less instructions ignore arg.
func (i Info) Effect(arg uint32, branch Branch) int {
	if i.effect == nil {
		return 0
	}
	return i.effect(arg, branch)
}

// In reports whether the opcode exists in format f.
func (i Info) In(f Format) bool {
	return i.formats.has(f)
}

// Yields reports whether the opcode suspends a generator.
func (i Info) Yields() bool {
	return i.Code == OpYieldValue || i.Code == OpYieldFrom
}

// Padding reports whether the opcode only fills space (NOP, EXTENDED_ARG).
func (i Info) Padding() bool {
	return i.Code == OpNop || i.Code == OpExtendedArg
}

func (i Info) String() string {
	return i.Name
}

type table struct {
	byName   map[string]Info
	byCode   [256]*Info
	names    []string
	compares []string
}

var tables = map[Format]*table{}

func init() {
	for _, f := range formats {
		t := &table{byName: make(map[string]Info)}
		for i := range defs {
			d := defs[i]
			if !d.formats.has(f) {
				continue
			}
			if _, dup := t.byName[d.Name]; dup {
				panic(fmt.Sprintf("isa: duplicate opcode %s in format %s", d.Name, f))
			}
			if t.byCode[d.Code] != nil {
				panic(fmt.Sprintf("isa: opcode %d reused by %s and %s in format %s", d.Code, t.byCode[d.Code].Name, d.Name, f))
			}
			t.byName[d.Name] = d
			t.byCode[d.Code] = &defs[i]
			t.names = append(t.names, d.Name)
		}
		sort.Strings(t.names)
		if f >= Format39 {
			t.compares = compareOps39
		} else {
			t.compares = compareOps36
		}
		tables[f] = t
	}
}

func tableFor(f Format) *table {
	if t, ok := tables[f]; ok {
		return t
	}
	return tables[DefaultFormat]
}

// Lookup finds an opcode by mnemonic in format f.
func Lookup(f Format, name string) (Info, bool) {
	info, ok := tableFor(f).byName[name]
	return info, ok
}

// ByCode finds an opcode by number in format f.
func ByCode(f Format, code byte) (Info, bool) {
	p := tableFor(f).byCode[code]
	if p == nil {
		return Info{}, false
	}
	return *p, true
}

// MustByCode is ByCode for opcodes known to exist in every format.
func MustByCode(f Format, code byte) Info {
	info, ok := ByCode(f, code)
	if !ok {
		panic(fmt.Sprintf("isa: opcode %d not in format %s", code, f))
	}
	return info
}

// Name returns the mnemonic for code in format f, or a placeholder for
// unassigned opcodes.
func Name(f Format, code byte) string {
	if info, ok := ByCode(f, code); ok {
		return info.Name
	}
	return fmt.Sprintf("<%d>", code)
}

// Mnemonics returns the sorted opcode names of format f.
func Mnemonics(f Format) []string {
	names := tableFor(f).names
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// IsMnemonic reports whether name is an opcode of f or a label pseudo-op.
func IsMnemonic(f Format, name string) bool {
	if IsLabel(name) {
		return true
	}
	_, ok := tableFor(f).byName[name]
	return ok
}

// CompareOps returns the comparison operator spellings indexed by
// COMPARE_OP operand.
func CompareOps(f Format) []string {
	ops := tableFor(f).compares
	out := make([]string, len(ops))
	copy(out, ops)
	return out
}

// CompareIndex returns the COMPARE_OP operand for op.
func CompareIndex(f Format, op string) (int, bool) {
	for i, c := range tableFor(f).compares {
		if c == op {
			return i, true
		}
	}
	return 0, false
}

var compareOps36 = []string{
	"<", "<=", "==", "!=", ">", ">=", "in", "not in", "is", "is not", "exception match", "BAD",
}

var compareOps39 = []string{"<", "<=", "==", "!=", ">", ">="}

// Effect helpers

func fixed(n int) EffectFunc {
	return func(uint32, Branch) int { return n }
}

func branch(taken, notTaken int) EffectFunc {
	return func(_ uint32, b Branch) int {
		switch b {
		case BranchTaken:
			return taken
		case BranchNotTaken:
			return notTaken
		}
		return max(taken, notTaken)
	}
}

func argEffect(fn func(arg int) int) EffectFunc {
	return func(arg uint32, _ Branch) int { return fn(int(arg)) }
}

func makeFunctionEffect(arg int) int {
	return -1 - bits.OnesCount(uint(arg&0x0f))
}
