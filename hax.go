package hax

import (
	"github.com/wippyai/hax/asm"
	"github.com/wippyai/hax/isa"
	"github.com/wippyai/hax/listing"
)

// Build compiles a listing and assembles every function it defines, in
// source order.
func Build(file, source string, format isa.Format) ([]*asm.Unit, error) {
	codes, err := listing.Compile(file, source, format)
	if err != nil {
		return nil, err
	}
	return asm.AssembleAll(codes)
}

// BuildFile is Build for a listing on disk. The path is recorded as the
// filename of every code object.
func BuildFile(path string, format isa.Format) ([]*asm.Unit, error) {
	codes, err := listing.CompileFile(path, format)
	if err != nil {
		return nil, err
	}
	return asm.AssembleAll(codes)
}
