// Package hax assembles inline wordcode mnemonics into stack-VM code
// objects.
//
// A function body may spell VM instructions as calls to globals named
// after opcodes, such as LOAD_FAST("x") or HAX_LABEL("loop"). The
// assembler finds those idioms in compiled bytecode, resolves their
// operands against the code object's tables and re-encodes the result
// with correct jump targets, EXTENDED_ARG prefixes, line numbers and
// stack depth.
//
// # Architecture Overview
//
//	hax/                Root package: listing-to-unit convenience API
//	├── isa/            Opcode tables per bytecode format
//	├── bytecode/       Code objects, decoding, line tables, builder
//	├── asm/            The inline assembler
//	├── listing/        Text listing front end producing code objects
//	├── vm/             Abstract stack simulation of assembled code
//	├── artifact/       CBOR serialization of assembled units
//	├── config/         hax.toml project configuration
//	├── errors/         Structured error types for diagnostics
//	└── cmd/hax/        Command line driver and interactive inspector
//
// # Quick Start
//
//	units, err := hax.Build("demo.hxl", source, isa.Format38)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, u := range units {
//	    text, _ := bytecode.Disassemble(u.Code())
//	    fmt.Print(text)
//	}
//
// # Thread Safety
//
// Assembly keeps no shared state besides the package logger, which is
// swapped with asm.SetLogger. Units and code objects are plain values and
// may be read from several goroutines once built.
package hax
