package isa

func op(name string, code byte, eff EffectFunc) Info {
	info := Info{Name: name, Code: code, effect: eff, formats: inAll}
	if code >= HaveArgument {
		info.Category = CategoryInt
	}
	return info
}

func (i Info) with(c Category) Info {
	i.Category = c
	return i
}

func (i Info) only(s formatSet) Info {
	i.formats = s
	return i
}

func (i Info) flows(f Flow) Info {
	i.Flow = f
	return i
}

// defs is the whole instruction set. An entry whose number or effect
// changed between formats appears once per revision with disjoint format
// sets.
var defs = []Info{
	// Stack manipulation
	op("POP_TOP", OpPopTop, fixed(-1)),
	op("ROT_TWO", OpRotTwo, fixed(0)),
	op("ROT_THREE", 3, fixed(0)),
	op("DUP_TOP", OpDupTop, fixed(1)),
	op("DUP_TOP_TWO", 5, fixed(2)),
	op("ROT_FOUR", 6, fixed(0)).only(since(Format38)),
	op("NOP", OpNop, fixed(0)),
	op("ROT_N", 99, fixed(0)).only(since(Format310)),

	// Unary
	op("UNARY_POSITIVE", 10, fixed(0)),
	op("UNARY_NEGATIVE", 11, fixed(0)),
	op("UNARY_NOT", 12, fixed(0)),
	op("UNARY_INVERT", 15, fixed(0)),

	// Binary and in-place
	op("BINARY_MATRIX_MULTIPLY", 16, fixed(-1)),
	op("INPLACE_MATRIX_MULTIPLY", 17, fixed(-1)),
	op("BINARY_POWER", 19, fixed(-1)),
	op("BINARY_MULTIPLY", 20, fixed(-1)),
	op("BINARY_MODULO", 22, fixed(-1)),
	op("BINARY_ADD", OpBinaryAdd, fixed(-1)),
	op("BINARY_SUBTRACT", OpBinarySubtract, fixed(-1)),
	op("BINARY_SUBSCR", 25, fixed(-1)),
	op("BINARY_FLOOR_DIVIDE", 26, fixed(-1)),
	op("BINARY_TRUE_DIVIDE", 27, fixed(-1)),
	op("INPLACE_FLOOR_DIVIDE", 28, fixed(-1)),
	op("INPLACE_TRUE_DIVIDE", 29, fixed(-1)),
	op("INPLACE_ADD", 55, fixed(-1)),
	op("INPLACE_SUBTRACT", 56, fixed(-1)),
	op("INPLACE_MULTIPLY", 57, fixed(-1)),
	op("INPLACE_MODULO", 59, fixed(-1)),
	op("STORE_SUBSCR", 60, fixed(-3)),
	op("DELETE_SUBSCR", 61, fixed(-2)),
	op("BINARY_LSHIFT", 62, fixed(-1)),
	op("BINARY_RSHIFT", 63, fixed(-1)),
	op("BINARY_AND", 64, fixed(-1)),
	op("BINARY_XOR", 65, fixed(-1)),
	op("BINARY_OR", 66, fixed(-1)),
	op("INPLACE_POWER", 67, fixed(-1)),
	op("INPLACE_LSHIFT", 75, fixed(-1)),
	op("INPLACE_RSHIFT", 76, fixed(-1)),
	op("INPLACE_AND", 77, fixed(-1)),
	op("INPLACE_XOR", 78, fixed(-1)),
	op("INPLACE_OR", 79, fixed(-1)),

	// Pattern matching
	op("GET_LEN", 30, fixed(1)).only(since(Format310)),
	op("MATCH_MAPPING", 31, fixed(1)).only(since(Format310)),
	op("MATCH_SEQUENCE", 32, fixed(1)).only(since(Format310)),
	op("MATCH_KEYS", 33, fixed(2)).only(since(Format310)),
	op("COPY_DICT_WITHOUT_KEYS", 34, fixed(0)).only(since(Format310)),
	op("MATCH_CLASS", 152, fixed(-1)).only(since(Format310)),

	// Exceptions and blocks
	op("RERAISE", 48, fixed(-3)).only(in39).flows(FlowStop),
	op("RERAISE", 119, fixed(-3)).only(since(Format310)).flows(FlowStop),
	op("WITH_EXCEPT_START", 49, fixed(1)).only(since(Format39)),
	op("BEGIN_FINALLY", 53, fixed(6)).only(in38),
	op("END_ASYNC_FOR", 54, fixed(-7)).only(since(Format38)),
	op("BREAK_LOOP", 80, fixed(0)).only(until(Format37)),
	op("WITH_CLEANUP_START", 81, fixed(1)).only(in36),
	op("WITH_CLEANUP_START", 81, fixed(2)).only(in37|in38),
	op("WITH_CLEANUP_FINISH", 82, fixed(-1)).only(in36),
	op("WITH_CLEANUP_FINISH", 82, fixed(-3)).only(in37|in38),
	op("LIST_TO_TUPLE", 82, fixed(0)).only(since(Format39)),
	op("POP_BLOCK", 87, fixed(0)),
	op("END_FINALLY", 88, fixed(-1)).only(in36),
	op("END_FINALLY", 88, fixed(-6)).only(in37|in38),
	op("POP_EXCEPT", 89, fixed(0)).only(until(Format37)),
	op("POP_EXCEPT", 89, fixed(-3)).only(since(Format38)),
	op("LOAD_ASSERTION_ERROR", 74, fixed(1)).only(since(Format39)),
	op("RAISE_VARARGS", 130, argEffect(func(a int) int { return -a })).flows(FlowStop),
	op("SETUP_EXCEPT", 121, branch(6, 0)).with(CategoryJumpRel).only(until(Format37)).flows(FlowBranch),
	op("SETUP_FINALLY", 122, branch(6, 0)).with(CategoryJumpRel).flows(FlowBranch),
	op("SETUP_WITH", 143, branch(6, 1)).with(CategoryJumpRel).flows(FlowBranch),
	op("SETUP_ASYNC_WITH", 154, branch(5, 0)).with(CategoryJumpRel).flows(FlowBranch),
	op("SETUP_LOOP", 120, fixed(0)).with(CategoryJumpRel).only(until(Format37)),
	op("CALL_FINALLY", 162, branch(1, 0)).with(CategoryJumpRel).only(in38).flows(FlowBranch),
	op("POP_FINALLY", 163, fixed(-6)).only(in38),
	op("JUMP_IF_NOT_EXC_MATCH", 121, fixed(-2)).with(CategoryJumpAbs).only(since(Format39)).flows(FlowBranch),

	// Iteration, generators and coroutines
	op("GET_ITER", OpGetIter, fixed(0)),
	op("GET_YIELD_FROM_ITER", 69, fixed(0)),
	op("GET_AITER", 50, fixed(0)),
	op("GET_ANEXT", 51, fixed(1)),
	op("BEFORE_ASYNC_WITH", 52, fixed(1)),
	op("GET_AWAITABLE", 73, fixed(0)),
	op("YIELD_FROM", OpYieldFrom, fixed(-1)),
	op("YIELD_VALUE", OpYieldValue, fixed(0)),
	op("GEN_START", 129, fixed(-1)).only(since(Format310)),
	op("FOR_ITER", OpForIter, branch(-1, 1)).with(CategoryJumpRel).flows(FlowBranch),

	// Miscellaneous
	op("PRINT_EXPR", 70, fixed(-1)),
	op("LOAD_BUILD_CLASS", 71, fixed(1)),
	op("RETURN_VALUE", OpReturnValue, fixed(-1)).flows(FlowStop),
	op("IMPORT_STAR", 84, fixed(-1)),
	op("SETUP_ANNOTATIONS", 85, fixed(0)),
	op("EXTENDED_ARG", OpExtendedArg, fixed(0)),
	op("FORMAT_VALUE", 155, argEffect(func(a int) int {
		if a&0x04 == 0x04 {
			return -1
		}
		return 0
	})),

	// Names
	op("STORE_NAME", OpStoreName, fixed(-1)).with(CategoryName),
	op("DELETE_NAME", 91, fixed(0)).with(CategoryName),
	op("STORE_ATTR", 95, fixed(-2)).with(CategoryName),
	op("DELETE_ATTR", 96, fixed(-1)).with(CategoryName),
	op("STORE_GLOBAL", OpStoreGlobal, fixed(-1)).with(CategoryName),
	op("DELETE_GLOBAL", 98, fixed(0)).with(CategoryName),
	op("LOAD_NAME", OpLoadName, fixed(1)).with(CategoryName),
	op("LOAD_ATTR", OpLoadAttr, fixed(0)).with(CategoryName),
	op("IMPORT_NAME", 108, fixed(-1)).with(CategoryName),
	op("IMPORT_FROM", 109, fixed(1)).with(CategoryName),
	op("LOAD_GLOBAL", OpLoadGlobal, fixed(1)).with(CategoryName),
	op("STORE_ANNOTATION", 127, fixed(-1)).with(CategoryName).only(in36),
	op("LOAD_METHOD", 160, fixed(1)).with(CategoryName).only(since(Format37)),

	// Constants
	op("LOAD_CONST", OpLoadConst, fixed(1)).with(CategoryConst),

	// Locals
	op("LOAD_FAST", OpLoadFast, fixed(1)).with(CategoryLocal),
	op("STORE_FAST", OpStoreFast, fixed(-1)).with(CategoryLocal),
	op("DELETE_FAST", 126, fixed(0)).with(CategoryLocal),

	// Cells and free variables
	op("LOAD_CLOSURE", 135, fixed(1)).with(CategoryFree),
	op("LOAD_DEREF", OpLoadDeref, fixed(1)).with(CategoryFree),
	op("STORE_DEREF", OpStoreDeref, fixed(-1)).with(CategoryFree),
	op("DELETE_DEREF", 138, fixed(0)).with(CategoryFree),
	op("LOAD_CLASSDEREF", 148, fixed(1)).with(CategoryFree),

	// Comparison
	op("COMPARE_OP", OpCompareOp, fixed(-1)).with(CategoryCompare),
	op("IS_OP", 117, fixed(-1)).only(since(Format39)),
	op("CONTAINS_OP", 118, fixed(-1)).only(since(Format39)),

	// Jumps
	op("JUMP_FORWARD", OpJumpForward, fixed(0)).with(CategoryJumpRel).flows(FlowJump),
	op("JUMP_IF_FALSE_OR_POP", 111, branch(0, -1)).with(CategoryJumpAbs).flows(FlowBranch),
	op("JUMP_IF_TRUE_OR_POP", OpJumpIfTrueOrPop, branch(0, -1)).with(CategoryJumpAbs).flows(FlowBranch),
	op("JUMP_ABSOLUTE", OpJumpAbsolute, fixed(0)).with(CategoryJumpAbs).flows(FlowJump),
	op("POP_JUMP_IF_FALSE", OpPopJumpIfFalse, fixed(-1)).with(CategoryJumpAbs).flows(FlowBranch),
	op("POP_JUMP_IF_TRUE", OpPopJumpIfTrue, fixed(-1)).with(CategoryJumpAbs).flows(FlowBranch),
	op("CONTINUE_LOOP", 119, fixed(0)).with(CategoryJumpAbs).only(until(Format37)).flows(FlowJump),

	// Sequence building and unpacking
	op("UNPACK_SEQUENCE", OpUnpackSequence, argEffect(func(a int) int { return a - 1 })),
	op("UNPACK_EX", 94, argEffect(func(a int) int { return (a & 0xff) + (a >> 8) })),
	op("BUILD_TUPLE", OpBuildTuple, argEffect(func(a int) int { return 1 - a })),
	op("BUILD_LIST", 103, argEffect(func(a int) int { return 1 - a })),
	op("BUILD_SET", 104, argEffect(func(a int) int { return 1 - a })),
	op("BUILD_STRING", 157, argEffect(func(a int) int { return 1 - a })),
	op("BUILD_MAP", 105, argEffect(func(a int) int { return 1 - 2*a })),
	op("BUILD_CONST_KEY_MAP", 156, argEffect(func(a int) int { return -a })),
	op("BUILD_SLICE", 133, argEffect(func(a int) int {
		if a == 3 {
			return -2
		}
		return -1
	})),
	op("BUILD_LIST_UNPACK", 149, argEffect(func(a int) int { return 1 - a })).only(until(Format38)),
	op("BUILD_MAP_UNPACK", 150, argEffect(func(a int) int { return 1 - a })).only(until(Format38)),
	op("BUILD_MAP_UNPACK_WITH_CALL", 151, argEffect(func(a int) int { return 1 - (a & 0xff) })).only(until(Format38)),
	op("BUILD_TUPLE_UNPACK", 152, argEffect(func(a int) int { return 1 - a })).only(until(Format38)),
	op("BUILD_SET_UNPACK", 153, argEffect(func(a int) int { return 1 - a })).only(until(Format38)),
	op("BUILD_TUPLE_UNPACK_WITH_CALL", 158, argEffect(func(a int) int { return 1 - a })).only(until(Format38)),
	op("LIST_APPEND", 145, fixed(-1)),
	op("SET_ADD", 146, fixed(-1)),
	op("MAP_ADD", 147, fixed(-2)),
	op("LIST_EXTEND", 162, fixed(-1)).only(since(Format39)),
	op("SET_UPDATE", 163, fixed(-1)).only(since(Format39)),
	op("DICT_MERGE", 164, fixed(-1)).only(since(Format39)),
	op("DICT_UPDATE", 165, fixed(-1)).only(since(Format39)),

	// Calls and function objects
	op("CALL_FUNCTION", OpCallFunction, argEffect(func(a int) int { return -a })),
	op("CALL_FUNCTION_KW", 141, argEffect(func(a int) int { return -a - 1 })),
	op("CALL_FUNCTION_EX", 142, argEffect(func(a int) int { return -1 - (a & 0x01) })),
	op("CALL_METHOD", 161, argEffect(func(a int) int { return -a - 1 })).only(since(Format37)),
	op("MAKE_FUNCTION", 132, argEffect(makeFunctionEffect)),
}
