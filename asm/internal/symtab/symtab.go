// Package symtab holds the insertion-ordered tables operands index into.
package symtab

import (
	"math"

	"github.com/wippyai/hax/bytecode"
)

// Strings is an append-only table of unique symbols.
type Strings struct {
	index map[string]uint32
	list  []string
}

// NewStrings returns a table seeded with the given symbols in order.
func NewStrings(seed ...string) *Strings {
	t := &Strings{index: make(map[string]uint32, len(seed))}
	for _, s := range seed {
		t.Intern(s)
	}
	return t
}

// Intern returns the index of s, appending it if absent.
func (t *Strings) Intern(s string) uint32 {
	if i, ok := t.index[s]; ok {
		return i
	}
	i := uint32(len(t.list))
	t.index[s] = i
	t.list = append(t.list, s)
	return i
}

// Lookup returns the index of s without interning.
func (t *Strings) Lookup(s string) (uint32, bool) {
	i, ok := t.index[s]
	return i, ok
}

// Len returns the number of symbols.
func (t *Strings) Len() int {
	return len(t.list)
}

// List returns a copy of the symbols in index order.
func (t *Strings) List() []string {
	return append([]string(nil), t.list...)
}

// Sealed is a fixed table supporting lookup only.
type Sealed struct {
	index map[string]uint32
	list  []string
}

// NewSealed builds a lookup table over names. The first occurrence of a
// repeated name wins.
func NewSealed(names []string) *Sealed {
	t := &Sealed{index: make(map[string]uint32, len(names)), list: append([]string(nil), names...)}
	for i, n := range names {
		if _, ok := t.index[n]; !ok {
			t.index[n] = uint32(i)
		}
	}
	return t
}

// Lookup returns the index of name.
func (t *Sealed) Lookup(name string) (uint32, bool) {
	i, ok := t.index[name]
	return i, ok
}

// List returns a copy of the names in index order.
func (t *Sealed) List() []string {
	return append([]string(nil), t.list...)
}

type (
	floatKey uint64
	bytesKey string
)

// Consts is the constant pool. Entries are deduplicated by typed value
// equality, so True and 1 occupy different slots; the first occurrence
// keeps its index.
type Consts struct {
	index map[any]uint32
	list  []bytecode.Value
}

// NewConsts returns a pool seeded with the given values.
func NewConsts(seed ...bytecode.Value) *Consts {
	t := &Consts{index: make(map[any]uint32)}
	for _, v := range seed {
		t.Intern(v)
	}
	return t
}

// Intern returns the index of v, appending it if absent.
func (t *Consts) Intern(v bytecode.Value) uint32 {
	k := constKey(v)
	if i, ok := t.index[k]; ok {
		return i
	}
	i := uint32(len(t.list))
	t.index[k] = i
	t.list = append(t.list, v)
	return i
}

// Len returns the number of constants.
func (t *Consts) Len() int {
	return len(t.list)
}

// List returns the pool in index order.
func (t *Consts) List() []bytecode.Value {
	return append([]bytecode.Value(nil), t.list...)
}

func constKey(v bytecode.Value) any {
	switch x := v.(type) {
	case float64:
		return floatKey(math.Float64bits(x))
	case []byte:
		return bytesKey(x)
	}
	return v
}
