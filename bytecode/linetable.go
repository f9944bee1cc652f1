package bytecode

import (
	"fmt"

	"github.com/wippyai/hax/errors"
)

// LineDelta is one line table entry: advance the bytecode offset by Bytes,
// then the source line by Line.
type LineDelta struct {
	Bytes int
	Line  int
}

// LineTable is a sequence of deltas relative to the code's first line.
type LineTable []LineDelta

// LineStart maps an instruction offset to the source line it begins.
type LineStart struct {
	Offset int
	Line   int
}

// LineTracker appends entries as instructions are emitted. An entry is
// recorded only when the line changes.
type LineTracker struct {
	table      LineTable
	lastOffset int
	lastLine   int
}

// NewLineTracker starts tracking at firstLine.
func NewLineTracker(firstLine int) *LineTracker {
	return &LineTracker{lastLine: firstLine}
}

// Mark records that the instruction at offset belongs to line.
func (t *LineTracker) Mark(offset, line int) {
	if line == t.lastLine {
		return
	}
	t.table = append(t.table, LineDelta{Bytes: offset - t.lastOffset, Line: line - t.lastLine})
	t.lastOffset = offset
	t.lastLine = line
}

// Table returns the accumulated deltas.
func (t *LineTracker) Table() LineTable {
	return t.table
}

// Encode packs the table into byte pairs. Byte increments above 255 and line
// increments outside int8 are split across several pairs.
func (t LineTable) Encode() []byte {
	out := make([]byte, 0, 2*len(t))
	for _, d := range t {
		b, l := d.Bytes, d.Line
		for b > 255 {
			out = append(out, 255, 0)
			b -= 255
		}
		for l > 127 {
			out = append(out, byte(b), 127)
			b = 0
			l -= 127
		}
		for l < -128 {
			out = append(out, byte(b), 0x80)
			b = 0
			l += 128
		}
		out = append(out, byte(b), byte(int8(l)))
	}
	return out
}

// DecodeLineTable unpacks byte pairs into deltas without merging split
// entries.
func DecodeLineTable(data []byte) (LineTable, error) {
	if len(data)%2 != 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, fmt.Sprintf("line table has odd length %d", len(data)))
	}
	t := make(LineTable, 0, len(data)/2)
	for i := 0; i < len(data); i += 2 {
		t = append(t, LineDelta{Bytes: int(data[i]), Line: int(int8(data[i+1]))})
	}
	return t, nil
}

// Starts returns the offsets at which a new source line begins. The first
// instruction always starts firstLine.
func (t LineTable) Starts(firstLine int) []LineStart {
	var out []LineStart
	addr, line, last := 0, firstLine, -1
	for _, d := range t {
		if d.Bytes != 0 {
			if line != last {
				out = append(out, LineStart{Offset: addr, Line: line})
				last = line
			}
			addr += d.Bytes
		}
		line += d.Line
	}
	if line != last {
		out = append(out, LineStart{Offset: addr, Line: line})
	}
	return out
}
