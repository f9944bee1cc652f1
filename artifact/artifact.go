package artifact

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/wippyai/hax/asm"
	"github.com/wippyai/hax/bytecode"
	"github.com/wippyai/hax/errors"
	"github.com/wippyai/hax/isa"
)

// Version is the artifact layout version written by Marshal.
const Version = 1

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("artifact: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// namespace scopes content IDs so they never collide with other SHA-1
// UUIDs derived from the same bytes.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/wippyai/hax/artifact"))

// ConstKind tags a constant record.
type ConstKind uint8

const (
	ConstNone ConstKind = iota
	ConstBool
	ConstInt
	ConstFloat
	ConstString
	ConstBytes
)

// Const is one typed constant pool entry. Floats are stored as their bit
// pattern so negative zero and NaN payloads survive.
type Const struct {
	Kind  ConstKind `cbor:"1,keyasint"`
	Bool  bool      `cbor:"2,keyasint,omitempty"`
	Int   int64     `cbor:"3,keyasint,omitempty"`
	Bits  uint64    `cbor:"4,keyasint,omitempty"`
	Str   string    `cbor:"5,keyasint,omitempty"`
	Bytes []byte    `cbor:"6,keyasint,omitempty"`
}

// Artifact is the serialized form of an assembled code object.
type Artifact struct {
	Version         int       `cbor:"1,keyasint"`
	ID              uuid.UUID `cbor:"2,keyasint"`
	Name            string    `cbor:"3,keyasint"`
	Filename        string    `cbor:"4,keyasint,omitempty"`
	Format          uint16    `cbor:"5,keyasint"`
	FirstLine       int       `cbor:"6,keyasint"`
	Bytecode        []byte    `cbor:"7,keyasint"`
	LineTable       []byte    `cbor:"8,keyasint,omitempty"`
	Consts          []Const   `cbor:"9,keyasint,omitempty"`
	Names           []string  `cbor:"10,keyasint,omitempty"`
	Varnames        []string  `cbor:"11,keyasint,omitempty"`
	Freevars        []string  `cbor:"12,keyasint,omitempty"`
	Cellvars        []string  `cbor:"13,keyasint,omitempty"`
	ArgCount        int       `cbor:"14,keyasint"`
	PosOnlyArgCount int       `cbor:"15,keyasint"`
	KwOnlyArgCount  int       `cbor:"16,keyasint"`
	StackSize       int       `cbor:"17,keyasint"`
	Flags           uint32    `cbor:"18,keyasint"`
}

// New captures an assembled unit and assigns its content ID.
func New(u *asm.Unit) (*Artifact, error) {
	c := u.Code()
	a := &Artifact{
		Version:         Version,
		Name:            c.Name,
		Filename:        c.Filename,
		Format:          uint16(c.FormatOrDefault()),
		FirstLine:       c.FirstLine,
		Bytecode:        c.Bytecode,
		LineTable:       c.LineTable,
		Names:           c.Names,
		Varnames:        c.Varnames,
		Freevars:        c.Freevars,
		Cellvars:        c.Cellvars,
		ArgCount:        c.ArgCount,
		PosOnlyArgCount: c.PosOnlyArgCount,
		KwOnlyArgCount:  c.KwOnlyArgCount,
		StackSize:       c.StackSize,
		Flags:           uint32(c.Flags),
	}
	for i, v := range c.Consts {
		k, err := constOf(v)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseArtifact, errors.KindUnsupported, err,
				fmt.Sprintf("%s: constant %d", c.Name, i))
		}
		a.Consts = append(a.Consts, k)
	}

	id, err := a.contentID()
	if err != nil {
		return nil, err
	}
	a.ID = id
	return a, nil
}

// Marshal serializes an assembled unit to canonical CBOR.
func Marshal(u *asm.Unit) ([]byte, error) {
	a, err := New(u)
	if err != nil {
		return nil, err
	}
	return a.Marshal()
}

// Marshal serializes the artifact to canonical CBOR.
func (a *Artifact) Marshal() ([]byte, error) {
	data, err := cborEncMode.Marshal(a)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseArtifact, errors.KindInvalidData, err, "marshal "+a.Name)
	}
	return data, nil
}

// Unmarshal decodes an artifact and checks its version, constant records
// and content ID.
func Unmarshal(data []byte) (*Artifact, error) {
	var a Artifact
	if err := cbor.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrap(errors.PhaseArtifact, errors.KindInvalidData, err, "unmarshal artifact")
	}
	if a.Version != Version {
		return nil, errors.Unsupported(errors.PhaseArtifact, fmt.Sprintf("artifact version %d", a.Version))
	}
	if !isa.Format(a.Format).Valid() {
		return nil, errors.Unsupported(errors.PhaseArtifact, fmt.Sprintf("bytecode format %d", a.Format))
	}
	for i, k := range a.Consts {
		if k.Kind > ConstBytes {
			return nil, errors.InvalidData(errors.PhaseArtifact,
				fmt.Sprintf("%s: constant %d has unknown kind %d", a.Name, i, k.Kind))
		}
	}

	id, err := a.contentID()
	if err != nil {
		return nil, err
	}
	if id != a.ID {
		return nil, errors.New(errors.PhaseArtifact, errors.KindInvalidData).
			Value(a.ID).
			Detail("%s: content ID mismatch: declared %s, computed %s", a.Name, a.ID, id).
			Build()
	}
	return &a, nil
}

// Code rebuilds the code object.
func (a *Artifact) Code() *bytecode.Code {
	c := &bytecode.Code{
		Name:            a.Name,
		Filename:        a.Filename,
		Bytecode:        a.Bytecode,
		LineTable:       a.LineTable,
		Names:           a.Names,
		Varnames:        a.Varnames,
		Freevars:        a.Freevars,
		Cellvars:        a.Cellvars,
		ArgCount:        a.ArgCount,
		PosOnlyArgCount: a.PosOnlyArgCount,
		KwOnlyArgCount:  a.KwOnlyArgCount,
		NLocals:         len(a.Varnames),
		StackSize:       a.StackSize,
		FirstLine:       a.FirstLine,
		Flags:           bytecode.Flags(a.Flags),
		Format:          isa.Format(a.Format),
	}
	for _, k := range a.Consts {
		c.Consts = append(c.Consts, k.Value())
	}
	return c.Clone()
}

// contentID hashes the canonical encoding of everything but the ID.
func (a *Artifact) contentID() (uuid.UUID, error) {
	body := *a
	body.ID = uuid.Nil
	data, err := cborEncMode.Marshal(&body)
	if err != nil {
		return uuid.Nil, errors.Wrap(errors.PhaseArtifact, errors.KindInvalidData, err, "hash "+a.Name)
	}
	return uuid.NewSHA1(namespace, data), nil
}

// Value converts the record back to a constant.
func (k Const) Value() bytecode.Value {
	switch k.Kind {
	case ConstBool:
		return k.Bool
	case ConstInt:
		return k.Int
	case ConstFloat:
		return math.Float64frombits(k.Bits)
	case ConstString:
		return k.Str
	case ConstBytes:
		if k.Bytes == nil {
			return []byte{}
		}
		return k.Bytes
	}
	return nil
}

func constOf(v bytecode.Value) (Const, error) {
	switch x := v.(type) {
	case nil:
		return Const{Kind: ConstNone}, nil
	case bool:
		return Const{Kind: ConstBool, Bool: x}, nil
	case int64:
		return Const{Kind: ConstInt, Int: x}, nil
	case float64:
		return Const{Kind: ConstFloat, Bits: math.Float64bits(x)}, nil
	case string:
		return Const{Kind: ConstString, Str: x}, nil
	case []byte:
		return Const{Kind: ConstBytes, Bytes: x}, nil
	}
	return Const{}, errors.New(errors.PhaseArtifact, errors.KindUnsupported).
		Value(v).
		Detail("unsupported constant type %T", v).
		Build()
}
