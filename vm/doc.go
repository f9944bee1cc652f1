// Package vm is a reference simulator for wordcode stack machine code.
//
// It does not compute values. It walks every control-flow path, tracks
// the depth of the value stack and remembers which stack entries hold an
// unrewritten inline mnemonic. The maximum depth it finds is a lower bound
// for the stack size an assembler must reserve, which makes it useful for
// checking assembled output:
//
//	res, err := vm.Simulate(unit.Code())
//	if err == nil && res.MaxDepth > unit.StackSize {
//		// the reserved stack is too small
//	}
//
// Simulating code that still contains the call idiom reports an
// *errors.UsageError, mirroring what happens when such code is run
// without being assembled.
package vm
