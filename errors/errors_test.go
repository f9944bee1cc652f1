package errors

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseAssemble,
				Kind:   KindArity,
				File:   "prog.hxl",
				Line:   12,
				Column: 5,
				Detail: "number of arguments is wrong",
			},
			contains: []string{"[assemble]", "arity", "prog.hxl:12:5", "number of arguments is wrong"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseResolve,
				Kind:  KindUndefinedLabel,
			},
			contains: []string{"[resolve]", "undefined_label"},
		},
		{
			name: "line without file",
			err: &Error{
				Phase: PhaseEncode,
				Kind:  KindOutOfRange,
				Line:  3,
			},
			contains: []string{"<unknown>:3"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseConfig,
				Kind:   KindInvalidData,
				Detail: "parse hax.toml",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[config]", "invalid_data", "parse hax.toml", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseArtifact,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseResolve,
		Kind:  KindDuplicateLabel,
		Line:  4,
	}

	if !err.Is(&Error{Phase: PhaseResolve, Kind: KindDuplicateLabel}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseAssemble, Kind: KindDuplicateLabel}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseResolve, Kind: KindUndefinedLabel}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseResolve, Kind: KindDuplicateLabel}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseAssemble, KindTypeMismatch).
		At("f.hxl", 7).
		Column(3).
		Source("    LOAD_FAST(1)").
		Value(1).
		Cause(cause).
		Detail("expected %s, got %s", "a string", "1").
		Build()

	if err.Phase != PhaseAssemble {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseAssemble)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if err.File != "f.hxl" || err.Line != 7 || err.Column != 3 {
		t.Errorf("position = %s:%d:%d", err.File, err.Line, err.Column)
	}
	if err.Source != "    LOAD_FAST(1)" {
		t.Errorf("Source = %q", err.Source)
	}
	if err.Value != 1 {
		t.Errorf("Value = %v, want 1", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected a string, got 1" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestCompile_ReadsSourceLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.hxl")
	src := "def f()\n    NOP()\n    BOGUS(1)\nend\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Compile(PhaseAssemble, KindMalformedIdiom, path, 3).Build()
	if err.Source != "    BOGUS(1)" {
		t.Errorf("Source = %q, want line 3", err.Source)
	}

	err = Compile(PhaseAssemble, KindMalformedIdiom, path, 99).Build()
	if err.Source != "" {
		t.Errorf("Source past EOF = %q, want empty", err.Source)
	}
}

func TestCompile_MissingFileIsSwallowed(t *testing.T) {
	err := Compile(PhaseAssemble, KindArity, filepath.Join(t.TempDir(), "nope.hxl"), 1).Build()
	if err.Source != "" {
		t.Errorf("Source = %q, want empty", err.Source)
	}
	if err.Line != 1 {
		t.Errorf("Line = %d, want 1", err.Line)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("OutOfRange", func(t *testing.T) {
		err := OutOfRange("", 2, -1, "negative")
		if err.Kind != KindOutOfRange || err.Phase != PhaseEncode {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if err.Value != int64(-1) {
			t.Errorf("Value = %v, want -1", err.Value)
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch("", 1, "a string", int64(42))
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if !strings.Contains(err.Detail, "a string") || !strings.Contains(err.Detail, "42") {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("MalformedIdiom", func(t *testing.T) {
		err := MalformedIdiom("", 1, "ops must consist of a simple call")
		if err.Kind != KindMalformedIdiom {
			t.Errorf("Kind = %v", err.Kind)
		}
	})

	t.Run("UndefinedLabels", func(t *testing.T) {
		err := UndefinedLabels("f.hxl", []any{"end", int64(3)})
		if err.Kind != KindUndefinedLabel {
			t.Errorf("Kind = %v", err.Kind)
		}
		keys, ok := err.Value.([]any)
		if !ok || len(keys) != 2 {
			t.Fatalf("Value = %#v", err.Value)
		}
		if !strings.Contains(err.Detail, `"end", 3`) {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseConfig, "config file", "hax.toml")
		if err.Kind != KindNotFound || !strings.Contains(err.Detail, "hax.toml") {
			t.Errorf("got %v", err)
		}
	})
}

func TestUsageError(t *testing.T) {
	err := Usage("BINARY_ADD")
	msg := err.Error()
	if !strings.Contains(msg, "BINARY_ADD") || !strings.Contains(msg, UsageMessage) {
		t.Errorf("message = %q", msg)
	}

	err.File, err.Line = "f.hxl", 9
	if !strings.Contains(err.Error(), "f.hxl:9") {
		t.Errorf("message = %q", err.Error())
	}

	var wrapped error = Wrap(PhaseRuntime, KindUsage, err, "simulate")
	if !errors.Is(wrapped, &UsageError{}) {
		t.Error("errors.Is should find UsageError through Wrap")
	}
	var ue *UsageError
	if !errors.As(wrapped, &ue) || ue.Mnemonic != "BINARY_ADD" {
		t.Errorf("errors.As = %v", ue)
	}
}

func TestRepr(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "None"},
		{"x", `"x"`},
		{[]byte("ab"), `b"ab"`},
		{true, "True"},
		{false, "False"},
		{int64(42), "42"},
		{1.5, "1.5"},
	}
	for _, tt := range tests {
		if got := Repr(tt.in); got != tt.want {
			t.Errorf("Repr(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
