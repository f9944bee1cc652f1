package errors

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode   Phase = "decode"   // reading an existing code object
	PhaseAssemble Phase = "assemble" // symbolic instruction assembly
	PhaseEncode   Phase = "encode"   // operand encoding and backfill
	PhaseResolve  Phase = "resolve"  // label and jump resolution
	PhaseParse    Phase = "parse"    // listing front-end
	PhaseConfig   Phase = "config"   // configuration loading
	PhaseArtifact Phase = "artifact" // artifact serialization
	PhaseRuntime  Phase = "runtime"  // simulated execution
)

// Kind categorizes the error
type Kind string

const (
	KindMalformedIdiom Kind = "malformed_idiom"
	KindTypeMismatch   Kind = "type_mismatch"
	KindArity          Kind = "arity"
	KindOutOfRange     Kind = "out_of_range"
	KindDuplicateLabel Kind = "duplicate_label"
	KindUndefinedLabel Kind = "undefined_label"
	KindBackwardJump   Kind = "backward_jump"
	KindUnknownCompare Kind = "unknown_compare"
	KindUnknownFree    Kind = "unknown_free"
	KindInvalidJump    Kind = "invalid_jump"
	KindInternal       Kind = "internal"
	KindInvalidData    Kind = "invalid_data"
	KindUnsupported    Kind = "unsupported"
	KindNotFound       Kind = "not_found"
	KindInvalidInput   Kind = "invalid_input"
	KindUsage          Kind = "usage"
)

// Error is the structured error type used throughout the module.
//
// Compile-time errors carry a source position modeled on a syntax error
// report: file, line, optional column and the text of the offending line
// when the file could be read.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	File   string
	Source string
	Detail string
	Line   int
	Column int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if pos := e.Position(); pos != "" {
		b.WriteString(" at ")
		b.WriteString(pos)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Position renders file:line[:column], omitting unknown parts.
func (e *Error) Position() string {
	if e.File == "" && e.Line == 0 {
		return ""
	}
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
	} else {
		b.WriteString("<unknown>")
	}
	if e.Line > 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(e.Line))
		if e.Column > 0 {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(e.Column))
		}
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// At sets the source position without reading the file.
func (b *Builder) At(file string, line int) *Builder {
	b.err.File = file
	b.err.Line = line
	return b
}

// Column sets the 1-based source column
func (b *Builder) Column(col int) *Builder {
	b.err.Column = col
	return b
}

// Source sets the offending source line text
func (b *Builder) Source(text string) *Builder {
	b.err.Source = text
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Compile starts a compile-time error at file:line. The source line is
// looked up on a best-effort basis; an unreadable file leaves it empty.
func Compile(phase Phase, kind Kind, file string, line int) *Builder {
	return New(phase, kind).At(file, line).Source(SourceLine(file, line))
}

// SourceLine returns the text of the given 1-based line of file, or "" if
// the file cannot be read or is shorter than line.
func SourceLine(file string, line int) string {
	if file == "" || line < 1 {
		return ""
	}
	f, err := os.Open(file)
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		if n == line {
			return sc.Text()
		}
	}
	return ""
}

// Convenience constructors for common error patterns

// OutOfRange creates an operand range error
func OutOfRange(file string, line int, value int64, detail string) *Error {
	return Compile(PhaseEncode, KindOutOfRange, file, line).
		Value(value).
		Detail(detail).
		Build()
}

// TypeMismatch creates an operand type error naming the expected type
func TypeMismatch(file string, line int, expected string, got any) *Error {
	return Compile(PhaseAssemble, KindTypeMismatch, file, line).
		Value(got).
		Detail("expected %s (got %s)", expected, Repr(got)).
		Build()
}

// MalformedIdiom creates an error for a symbolic sequence of the wrong shape
func MalformedIdiom(file string, line int, detail string) *Error {
	return Compile(PhaseAssemble, KindMalformedIdiom, file, line).
		Detail(detail).
		Build()
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// UndefinedLabels reports every label that was referenced but never
// defined. Keys are kept in first-reference order.
func UndefinedLabels(file string, keys []any) *Error {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = Repr(k)
	}
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUndefinedLabel,
		File:   file,
		Value:  keys,
		Detail: "the following labels don't exist: " + strings.Join(parts, ", "),
	}
}

// UsageMessage is the text carried by every UsageError.
const UsageMessage = "inline bytecode mnemonics are not meant to be called directly; assemble the enclosing code first"

// UsageError is returned when a symbolic placeholder mnemonic is executed
// as ordinary code instead of being rewritten by the assembler.
type UsageError struct {
	Mnemonic string
	File     string
	Line     int
}

// Usage creates a UsageError for the given mnemonic
func Usage(mnemonic string) *UsageError {
	return &UsageError{Mnemonic: mnemonic}
}

func (e *UsageError) Error() string {
	var b strings.Builder
	b.WriteString("[runtime] usage: ")
	if e.Mnemonic != "" {
		b.WriteString(e.Mnemonic)
		b.WriteString(": ")
	}
	b.WriteString(UsageMessage)
	if e.File != "" || e.Line > 0 {
		b.WriteString(" (")
		b.WriteString(e.File)
		if e.Line > 0 {
			b.WriteString(":")
			b.WriteString(strconv.Itoa(e.Line))
		}
		b.WriteByte(')')
	}
	return b.String()
}

// Is reports whether target matches this error type
func (e *UsageError) Is(target error) bool {
	_, ok := target.(*UsageError)
	return ok
}

// Repr formats an operand value the way diagnostics quote it: strings are
// quoted, byte strings are prefixed, nil prints as None.
func Repr(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return strconv.Quote(x)
	case []byte:
		return "b" + strconv.Quote(string(x))
	case bool:
		if x {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprintf("%v", x)
	}
}
