// Package errors provides structured error types for the hax assembler.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Compile-time errors carry the source position of the offending statement: file,
// line, optional column and, when the file can be read, the text of that line.
//
// Use the Builder for structured error construction:
//
//	err := errors.Compile(errors.PhaseAssemble, errors.KindArity, file, line).
//		Value(2).
//		Detail("number of arguments is wrong (expected 1, got 2)").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(file, line, "a string", 42)
//	err := errors.OutOfRange(file, line, -1, "args less than 0 aren't supported")
//
// UsageError is the one error that belongs to execution rather than assembly: it
// reports a placeholder mnemonic that was run as ordinary code.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
