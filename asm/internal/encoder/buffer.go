package encoder

import (
	"github.com/wippyai/hax/errors"
)

// Buffer is the output arena. Appends grow it; Overwrite rewrites a region
// that was reserved earlier and never changes the length.
type Buffer struct {
	bytes []byte
}

// Len returns the number of committed bytes.
func (b *Buffer) Len() int {
	return len(b.bytes)
}

// Append commits bytes at the end.
func (b *Buffer) Append(p ...byte) {
	b.bytes = append(b.bytes, p...)
}

// Overwrite replaces the width bytes starting at start with p. The
// replacement must be exactly width bytes and lie inside the buffer. file
// and line locate the instruction being patched.
func (b *Buffer) Overwrite(file string, line, start, width int, p []byte) error {
	if start < 0 || start+width > len(b.bytes) {
		return errors.Compile(errors.PhaseResolve, errors.KindInternal, file, line).
			Value(start).
			Detail("fixup region [%d, %d) outside buffer of %d bytes", start, start+width, len(b.bytes)).
			Build()
	}
	if len(p) != width {
		return errors.Compile(errors.PhaseResolve, errors.KindInternal, file, line).
			Value(start).
			Detail("fixup at offset %d changed size: reserved %d bytes, got %d", start, width, len(p)).
			Build()
	}
	copy(b.bytes[start:start+width], p)
	return nil
}

// Bytes returns a copy of the committed bytes.
func (b *Buffer) Bytes() []byte {
	return append([]byte(nil), b.bytes...)
}
