package bytecode

import (
	"errors"
	"math"
	"testing"

	haxerrors "github.com/wippyai/hax/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      any
		want    Value
		wantErr bool
	}{
		{nil, nil, false},
		{1, int64(1), false},
		{int32(-4), int64(-4), false},
		{uint8(7), int64(7), false},
		{float32(1.5), float64(1.5), false},
		{"s", "s", false},
		{true, true, false},
		{uint64(math.MaxUint64), nil, true},
		{struct{}{}, nil, true},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Normalize(%#v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !Equal(got, tt.want) {
			t.Errorf("Normalize(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_ErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind haxerrors.Kind
	}{
		{"overflow", uint64(math.MaxUint64), haxerrors.KindOutOfRange},
		{"unsupported", struct{}{}, haxerrors.KindTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.in)
			var herr *haxerrors.Error
			if !errors.As(err, &herr) {
				t.Fatalf("Normalize() error = %v, want *errors.Error", err)
			}
			if herr.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", herr.Kind, tt.kind)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same int", int64(42), int64(42), true},
		{"int vs bool", int64(1), true, false},
		{"int vs float", int64(1), float64(1), false},
		{"zero signs", 0.0, math.Copysign(0, -1), false},
		{"nan", nan, nan, true},
		{"bytes", []byte("ab"), []byte("ab"), true},
		{"bytes vs string", []byte("ab"), "ab", false},
		{"nil", nil, nil, true},
		{"nil vs false", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%#v, %#v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIndexAndComparable(t *testing.T) {
	pool := []Value{nil, int64(42), "x", true}
	if got := Index(pool, int64(42)); got != 1 {
		t.Errorf("Index(42) = %d, want 1", got)
	}
	if got := Index(pool, int64(1)); got != -1 {
		t.Errorf("Index(1) = %d, want -1", got)
	}
	if Comparable([]byte("x")) {
		t.Error("[]byte should not be comparable")
	}
	if !Comparable("x") || !Comparable(nil) {
		t.Error("string and nil should be comparable")
	}
	if TypeName(int64(1)) != "int" || TypeName("") != "str" || TypeName(nil) != "NoneType" {
		t.Error("unexpected type names")
	}
}
