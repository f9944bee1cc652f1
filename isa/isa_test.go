package isa

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		format   Format
		name     string
		code     byte
		category Category
	}{
		{Format38, "POP_TOP", 1, CategoryNone},
		{Format38, "NOP", 9, CategoryNone},
		{Format38, "LOAD_CONST", 100, CategoryConst},
		{Format38, "LOAD_FAST", 124, CategoryLocal},
		{Format38, "LOAD_GLOBAL", 116, CategoryName},
		{Format38, "LOAD_DEREF", 136, CategoryFree},
		{Format38, "COMPARE_OP", 107, CategoryCompare},
		{Format38, "JUMP_FORWARD", 110, CategoryJumpRel},
		{Format38, "POP_JUMP_IF_FALSE", 114, CategoryJumpAbs},
		{Format38, "CALL_FUNCTION", 131, CategoryInt},
		{Format38, "EXTENDED_ARG", 144, CategoryInt},
		{Format36, "STORE_ANNOTATION", 127, CategoryName},
		{Format37, "SETUP_LOOP", 120, CategoryJumpRel},
		{Format39, "RERAISE", 48, CategoryNone},
		{Format310, "RERAISE", 119, CategoryInt},
		{Format39, "JUMP_IF_NOT_EXC_MATCH", 121, CategoryJumpAbs},
		{Format310, "GEN_START", 129, CategoryInt},
	}

	for _, tt := range tests {
		t.Run(tt.format.String()+"/"+tt.name, func(t *testing.T) {
			info, ok := Lookup(tt.format, tt.name)
			if !ok {
				t.Fatalf("Lookup(%s, %q) not found", tt.format, tt.name)
			}
			if info.Code != tt.code {
				t.Errorf("Code = %d, want %d", info.Code, tt.code)
			}
			if info.Category != tt.category {
				t.Errorf("Category = %v, want %v", info.Category, tt.category)
			}
			back, ok := ByCode(tt.format, tt.code)
			if !ok || back.Name != tt.name {
				t.Errorf("ByCode(%d) = %v, want %s", tt.code, back.Name, tt.name)
			}
		})
	}
}

func TestLookup_FormatGating(t *testing.T) {
	tests := []struct {
		format Format
		name   string
		want   bool
	}{
		{Format36, "LOAD_METHOD", false},
		{Format37, "LOAD_METHOD", true},
		{Format38, "SETUP_LOOP", false},
		{Format37, "BREAK_LOOP", true},
		{Format39, "END_FINALLY", false},
		{Format38, "BEGIN_FINALLY", true},
		{Format39, "BEGIN_FINALLY", false},
		{Format38, "IS_OP", false},
		{Format39, "IS_OP", true},
		{Format39, "MATCH_CLASS", false},
		{Format310, "MATCH_CLASS", true},
		{Format310, "BUILD_TUPLE_UNPACK", false},
	}

	for _, tt := range tests {
		_, ok := Lookup(tt.format, tt.name)
		if ok != tt.want {
			t.Errorf("Lookup(%s, %s) found = %v, want %v", tt.format, tt.name, ok, tt.want)
		}
	}
}

func TestEffect(t *testing.T) {
	tests := []struct {
		format Format
		name   string
		arg    uint32
		branch Branch
		want   int
	}{
		{Format38, "LOAD_CONST", 0, BranchMax, 1},
		{Format38, "POP_TOP", 0, BranchMax, -1},
		{Format38, "CALL_FUNCTION", 3, BranchMax, -3},
		{Format38, "CALL_METHOD", 2, BranchMax, -3},
		{Format38, "BUILD_TUPLE", 0, BranchMax, 1},
		{Format38, "BUILD_TUPLE", 4, BranchMax, -3},
		{Format38, "BUILD_MAP", 2, BranchMax, -3},
		{Format38, "BUILD_SLICE", 3, BranchMax, -2},
		{Format38, "UNPACK_SEQUENCE", 3, BranchMax, 2},
		{Format38, "UNPACK_EX", 0x0102, BranchMax, 3},
		{Format38, "MAKE_FUNCTION", 0x09, BranchMax, -3},
		{Format38, "FORMAT_VALUE", 4, BranchMax, -1},
		{Format38, "FOR_ITER", 0, BranchMax, 1},
		{Format38, "FOR_ITER", 0, BranchTaken, -1},
		{Format38, "FOR_ITER", 0, BranchNotTaken, 1},
		{Format38, "JUMP_IF_TRUE_OR_POP", 0, BranchTaken, 0},
		{Format38, "JUMP_IF_TRUE_OR_POP", 0, BranchNotTaken, -1},
		{Format38, "SETUP_FINALLY", 0, BranchMax, 6},
		{Format36, "POP_EXCEPT", 0, BranchMax, 0},
		{Format38, "POP_EXCEPT", 0, BranchMax, -3},
		{Format36, "END_FINALLY", 0, BranchMax, -1},
		{Format37, "END_FINALLY", 0, BranchMax, -6},
	}

	for _, tt := range tests {
		t.Run(tt.format.String()+"/"+tt.name, func(t *testing.T) {
			info, ok := Lookup(tt.format, tt.name)
			if !ok {
				t.Fatalf("Lookup(%s) failed", tt.name)
			}
			if got := info.Effect(tt.arg, tt.branch); got != tt.want {
				t.Errorf("Effect(%d, %d) = %d, want %d", tt.arg, tt.branch, got, tt.want)
			}
		})
	}
}

func TestInfo_Predicates(t *testing.T) {
	yv := MustByCode(Format38, OpYieldValue)
	if !yv.Yields() {
		t.Error("YIELD_VALUE should yield")
	}
	if yv.HasArgument() {
		t.Error("YIELD_VALUE takes no argument")
	}
	if !MustByCode(Format38, OpExtendedArg).Padding() {
		t.Error("EXTENDED_ARG should be padding")
	}
	if !MustByCode(Format38, OpLoadConst).HasArgument() {
		t.Error("LOAD_CONST takes an argument")
	}
	if MustByCode(Format38, OpReturnValue).Flow != FlowStop {
		t.Error("RETURN_VALUE should stop")
	}
	if MustByCode(Format38, OpPopJumpIfFalse).Flow != FlowBranch {
		t.Error("POP_JUMP_IF_FALSE should branch")
	}
}

func TestFormat(t *testing.T) {
	for _, s := range []string{"3.8", "38", " 3.8 "} {
		f, err := ParseFormat(s)
		if err != nil || f != Format38 {
			t.Errorf("ParseFormat(%q) = %v, %v", s, f, err)
		}
	}
	if _, err := ParseFormat("2.7"); err == nil {
		t.Error("ParseFormat(2.7) should fail")
	}
	if Format39.JumpUnit() != 1 || Format310.JumpUnit() != 2 {
		t.Error("unexpected jump units")
	}
	if Format(40).Valid() {
		t.Error("Format(40) should be invalid")
	}
	if Format310.String() != "3.10" {
		t.Errorf("String = %q", Format310.String())
	}
}

func TestCompareIndex(t *testing.T) {
	tests := []struct {
		format Format
		op     string
		want   int
		ok     bool
	}{
		{Format38, "<", 0, true},
		{Format38, ">=", 5, true},
		{Format38, "not in", 7, true},
		{Format38, "exception match", 10, true},
		{Format39, "in", 0, false},
		{Format39, "!=", 3, true},
		{Format38, "<>", 0, false},
	}
	for _, tt := range tests {
		got, ok := CompareIndex(tt.format, tt.op)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("CompareIndex(%s, %q) = %d, %v; want %d, %v", tt.format, tt.op, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsMnemonic(t *testing.T) {
	if !IsMnemonic(Format38, "HAX_LABEL") || !IsMnemonic(Format38, "LABEL") {
		t.Error("label pseudo-ops should be mnemonics")
	}
	if !IsMnemonic(Format38, "BINARY_ADD") {
		t.Error("BINARY_ADD should be a mnemonic")
	}
	if IsMnemonic(Format38, "print") {
		t.Error("print is not a mnemonic")
	}
	names := Mnemonics(Format38)
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("Mnemonics not sorted at %d: %s >= %s", i, names[i-1], names[i])
		}
	}
}

func TestName(t *testing.T) {
	if got := Name(Format38, 0); got != "<0>" {
		t.Errorf("Name(0) = %q", got)
	}
	if got := Name(Format38, OpLoadFast); got != "LOAD_FAST" {
		t.Errorf("Name(124) = %q", got)
	}
}
