// Package listing compiles a small line-oriented host language into code
// objects for the assembler.
//
// A listing is a sequence of function definitions:
//
//	def add(a, b)
//	    LOAD_FAST("a")
//	    LOAD_FAST("b")
//	    BINARY_ADD()
//	    RETURN_VALUE()
//	end
//
// A call statement whose callee names an opcode compiles to the symbolic
// idiom the assembler rewrites: load the mnemonic, load each literal
// operand, call, discard the result. Every other statement compiles to
// ordinary instructions that the assembler passes through.
//
// Statements:
//   - def name(params) / async def name(params), closed by end
//   - free a, b and cell c declare deref variables
//   - name = expr, expr, return [expr]
//
// Parameters follow the usual positional-only '/', keyword-only '*',
// '*args' and '**kwargs' layout. Expressions are literals, names and calls
// of a name. Literals are integers (decimal, hex, '_' separators, signed),
// floats, "strings", b"bytes", None, True and False.
//
// Comments start with '#' or ';' and run to the end of the line.
package listing
