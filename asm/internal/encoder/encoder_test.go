package encoder

import (
	"bytes"
	"errors"
	"testing"

	haxerrors "github.com/wippyai/hax/errors"
	"github.com/wippyai/hax/isa"
)

const (
	ext = isa.OpExtendedArg
	nop = isa.OpNop
	op  = isa.OpLoadConst
)

func TestBackfill(t *testing.T) {
	tests := []struct {
		name  string
		arg   int64
		width int
		want  []byte
	}{
		{"zero", 0, 2, []byte{op, 0}},
		{"one byte", 0xff, 2, []byte{op, 0xff}},
		{"grows to two", 0x100, 2, []byte{ext, 1, op, 0}},
		{"grows to three", 0x010203, 2, []byte{ext, 1, ext, 2, op, 3}},
		{"grows to four", 0x01020304, 2, []byte{ext, 1, ext, 2, ext, 3, op, 4}},
		{"max", MaxOperand, 2, []byte{ext, 0xff, ext, 0xff, ext, 0xff, op, 0xff}},
		{"pad four", 5, 4, []byte{nop, 0, op, 5}},
		{"pad six", 5, 6, []byte{nop, 0, nop, 0, op, 5}},
		{"pad eight", 5, 8, []byte{nop, 0, nop, 0, nop, 0, op, 5}},
		{"pad eight partial", 0x0102, 8, []byte{nop, 0, nop, 0, ext, 1, op, 2}},
		{"pad six with two", 0x010203, 6, []byte{ext, 1, ext, 2, op, 3}},
		{"sparse operand", 0x01000000, 2, []byte{ext, 1, ext, 0, ext, 0, op, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Backfill(Request{Arg: tt.arg, Width: tt.width, Opcode: op})
			if err != nil {
				t.Fatalf("Backfill() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Backfill() = %v, want %v", got, tt.want)
			}
			if len(got) < tt.width {
				t.Errorf("len = %d, below reserved %d", len(got), tt.width)
			}
		})
	}
}

func TestBackfill_Errors(t *testing.T) {
	tests := []struct {
		name  string
		arg   int64
		width int
		kind  haxerrors.Kind
	}{
		{"negative", -1, 2, haxerrors.KindOutOfRange},
		{"too large", MaxOperand + 1, 2, haxerrors.KindOutOfRange},
		{"bad width", 0, 3, haxerrors.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Backfill(Request{File: "f.hxl", Line: 4, Arg: tt.arg, Width: tt.width, Opcode: op})
			var herr *haxerrors.Error
			if !errors.As(err, &herr) {
				t.Fatalf("expected *errors.Error, got %v", err)
			}
			if herr.Kind != tt.kind || herr.Line != 4 || herr.File != "f.hxl" {
				t.Errorf("got %v", herr)
			}
		})
	}
}

func TestRequired(t *testing.T) {
	tests := []struct {
		arg  uint32
		want int
	}{
		{0, 2}, {255, 2}, {256, 4}, {1<<16 - 1, 4}, {1 << 16, 6}, {1<<24 - 1, 6}, {1 << 24, 8}, {MaxOperand, 8},
	}
	for _, tt := range tests {
		if got := Required(tt.arg); got != tt.want {
			t.Errorf("Required(%d) = %d, want %d", tt.arg, got, tt.want)
		}
	}
}

func TestGroup(t *testing.T) {
	tests := map[int64]string{
		0:          "0",
		999:        "999",
		1000:       "1,000",
		-1:         "-1",
		MaxOperand: "4,294,967,295",
		-12345:     "-12,345",
	}
	for in, want := range tests {
		if got := group(in); got != want {
			t.Errorf("group(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestBuffer_Overwrite(t *testing.T) {
	var b Buffer
	b.Append(1, 2, 3, 4, 5, 6)

	if err := b.Overwrite("f.hxl", 3, 2, 2, []byte{9, 9}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), []byte{1, 2, 9, 9, 5, 6}) {
		t.Errorf("Bytes() = %v", b.Bytes())
	}

	tests := []struct {
		name  string
		start int
		width int
		p     []byte
	}{
		{"size change", 2, 2, []byte{1, 2, 3, 4}},
		{"region past end", 4, 4, []byte{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.Overwrite("f.hxl", 7, tt.start, tt.width, tt.p)
			var herr *haxerrors.Error
			if !errors.As(err, &herr) {
				t.Fatalf("Overwrite() error = %v, want *errors.Error", err)
			}
			if herr.Kind != haxerrors.KindInternal || herr.File != "f.hxl" || herr.Line != 7 {
				t.Errorf("error = %s %s:%d", herr.Kind, herr.File, herr.Line)
			}
		})
	}
	if b.Len() != 6 {
		t.Errorf("Len() = %d after failed overwrites", b.Len())
	}
}
