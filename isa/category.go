package isa

// Category is the interpretation applied to an instruction's operand.
type Category uint8

const (
	CategoryNone    Category = iota // no operand
	CategoryLocal                   // index into the local-slot table
	CategoryName                    // index into the name table
	CategoryConst                   // index into the constant pool
	CategoryCompare                 // index into the comparison operator list
	CategoryFree                    // index into cellvars ++ freevars
	CategoryJumpAbs                 // absolute jump target
	CategoryJumpRel                 // forward jump distance from the next instruction
	CategoryInt                     // raw integer
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryLocal:
		return "local"
	case CategoryName:
		return "name"
	case CategoryConst:
		return "const"
	case CategoryCompare:
		return "compare"
	case CategoryFree:
		return "free"
	case CategoryJumpAbs:
		return "jabs"
	case CategoryJumpRel:
		return "jrel"
	case CategoryInt:
		return "int"
	}
	return "unknown"
}

// IsJump reports whether the operand names a jump target.
func (c Category) IsJump() bool {
	return c == CategoryJumpAbs || c == CategoryJumpRel
}

// Symbolic reports whether the operand is a string symbol in source form.
func (c Category) Symbolic() bool {
	return c == CategoryLocal || c == CategoryName || c == CategoryFree || c == CategoryCompare
}

// Branch selects which outcome of a conditional instruction a stack effect
// describes.
type Branch uint8

const (
	BranchMax      Branch = iota // larger of the two outcomes
	BranchNotTaken               // fall through
	BranchTaken                  // jump
)

// Flow describes how control leaves an instruction.
type Flow uint8

const (
	FlowNext   Flow = iota // continue with the next instruction
	FlowJump               // always jump to the target
	FlowBranch             // either fall through or jump
	FlowStop               // leave the code object
)
