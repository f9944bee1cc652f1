package artifact

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/wippyai/hax/asm"
	"github.com/wippyai/hax/bytecode"
	haxerrors "github.com/wippyai/hax/errors"
	"github.com/wippyai/hax/isa"
)

func assemble(t *testing.T, fn func(b *bytecode.Builder)) *asm.Unit {
	t.Helper()
	b := bytecode.NewBuilder(isa.Format39, "f", "f.hxl", 10)
	fn(b)
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	u, err := asm.Assemble(c)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	return u
}

func sample(t *testing.T) *asm.Unit {
	return assemble(t, func(b *bytecode.Builder) {
		b.SetArgs(nil, []string{"a"}, []string{"k"})
		b.DeclareCell("c")
		b.Emit("LOAD_CONST", b.Const(nil), 10)
		b.Emit("POP_TOP", 0, 10)
		b.Inline("LOAD_CONST", 11, math.Copysign(0, -1))
		b.Inline("LOAD_CONST", 11, []byte("raw"))
		b.Inline("LOAD_CONST", 12, true)
		b.Inline("LOAD_CONST", 12, int64(-7))
		b.Inline("LOAD_CONST", 12, "text")
		b.Inline("BUILD_TUPLE", 13, 5)
		b.Inline("STORE_DEREF", 13, "c")
		b.Inline("LOAD_GLOBAL", 14, "g")
		b.Inline("RETURN_VALUE", 14)
	})
}

func TestRoundTrip(t *testing.T) {
	u := sample(t)
	data, err := Marshal(u)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	a, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := u.Code()
	got := a.Code()
	if !bytes.Equal(got.Bytecode, want.Bytecode) {
		t.Errorf("Bytecode = %x, want %x", got.Bytecode, want.Bytecode)
	}
	if !bytes.Equal(got.LineTable, want.LineTable) {
		t.Errorf("LineTable = %x, want %x", got.LineTable, want.LineTable)
	}
	if len(got.Consts) != len(want.Consts) {
		t.Fatalf("Consts = %v, want %v", got.Consts, want.Consts)
	}
	for i := range want.Consts {
		if !bytecode.Equal(got.Consts[i], want.Consts[i]) {
			t.Errorf("Consts[%d] = %#v, want %#v", i, got.Consts[i], want.Consts[i])
		}
	}
	for _, pair := range [][2][]string{
		{got.Names, want.Names},
		{got.Varnames, want.Varnames},
		{got.Cellvars, want.Cellvars},
		{got.Freevars, want.Freevars},
	} {
		if strings.Join(pair[0], ",") != strings.Join(pair[1], ",") {
			t.Errorf("table = %v, want %v", pair[0], pair[1])
		}
	}
	if got.Name != "f" || got.Filename != "f.hxl" || got.FirstLine != 10 || got.Format != isa.Format39 {
		t.Errorf("header = %s %s %d %s", got.Name, got.Filename, got.FirstLine, got.Format)
	}
	if got.ArgCount != 1 || got.KwOnlyArgCount != 1 || got.NLocals != want.NLocals {
		t.Errorf("counts = %d/%d/%d", got.ArgCount, got.KwOnlyArgCount, got.NLocals)
	}
	if got.StackSize != want.StackSize || got.Flags != want.Flags {
		t.Errorf("StackSize = %d Flags = %s, want %d %s", got.StackSize, got.Flags, want.StackSize, want.Flags)
	}

	again, err := a.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !bytes.Equal(again, data) {
		t.Error("re-encoding is not byte-identical")
	}
}

func TestNegativeZeroSurvives(t *testing.T) {
	u := sample(t)
	a, err := New(u)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	data, _ := a.Marshal()
	b, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, v := range b.Code().Consts {
		if f, ok := v.(float64); ok {
			if !math.Signbit(f) {
				t.Errorf("float constant lost its sign: %v", f)
			}
			return
		}
	}
	t.Fatal("no float constant")
}

func TestContentID(t *testing.T) {
	a1, err := New(sample(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	a2, err := New(sample(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if a1.ID == uuid.Nil || a1.ID != a2.ID {
		t.Errorf("IDs = %s, %s; want equal and non-nil", a1.ID, a2.ID)
	}
	if a1.ID.Version() != 5 {
		t.Errorf("ID version = %d, want 5", a1.ID.Version())
	}

	other, err := New(assemble(t, func(b *bytecode.Builder) {
		b.Inline("LOAD_CONST", 1, nil)
		b.Inline("RETURN_VALUE", 1)
	}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if other.ID == a1.ID {
		t.Error("different code has the same ID")
	}
}

func TestUnmarshalErrors(t *testing.T) {
	a, err := New(sample(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tampered := *a
	tampered.Bytecode = append([]byte(nil), a.Bytecode...)
	tampered.Bytecode[0] = isa.OpNop
	tamperedData, _ := cborEncMode.Marshal(&tampered)

	future := *a
	future.Version = Version + 1
	futureData, _ := cborEncMode.Marshal(&future)

	badFormat := *a
	badFormat.Format = 99
	badFormatData, _ := cborEncMode.Marshal(&badFormat)

	badConst := *a
	badConst.Consts = append([]Const{{Kind: 42}}, a.Consts[1:]...)
	badConstData, _ := cborEncMode.Marshal(&badConst)

	tests := []struct {
		name   string
		data   []byte
		kind   haxerrors.Kind
		detail string
	}{
		{"tampered bytecode", tamperedData, haxerrors.KindInvalidData, "content ID mismatch"},
		{"future version", futureData, haxerrors.KindUnsupported, "artifact version"},
		{"bad format", badFormatData, haxerrors.KindUnsupported, "bytecode format 99"},
		{"unknown constant kind", badConstData, haxerrors.KindInvalidData, "unknown kind 42"},
		{"garbage", []byte{0xff, 0x00}, haxerrors.KindInvalidData, "unmarshal artifact"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(tt.data)
			var herr *haxerrors.Error
			if !errors.As(err, &herr) {
				t.Fatalf("Unmarshal() error = %v, want *errors.Error", err)
			}
			if herr.Phase != haxerrors.PhaseArtifact || herr.Kind != tt.kind {
				t.Errorf("error = %s/%s, want artifact/%s", herr.Phase, herr.Kind, tt.kind)
			}
			if !strings.Contains(herr.Error(), tt.detail) {
				t.Errorf("error = %q, want it to contain %q", herr.Error(), tt.detail)
			}
		})
	}
}
