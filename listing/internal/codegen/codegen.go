package codegen

import (
	"github.com/wippyai/hax/bytecode"
	"github.com/wippyai/hax/isa"
	"github.com/wippyai/hax/listing/internal/ast"
)

type scope struct {
	b      *bytecode.Builder
	locals map[string]bool
}

// Func compiles one function. Arguments and assigned names are locals,
// declared cell and free variables go through the deref slots and every
// other name is a global.
func Func(fn *ast.Func, file string, format isa.Format) (*bytecode.Code, error) {
	b := bytecode.NewBuilder(format, fn.Name, file, fn.Line)
	b.Const(nil)

	b.SetArgs(fn.PosOnly, fn.Args, fn.KwOnly)
	if fn.VarArgs != "" {
		b.Local(fn.VarArgs)
		b.AddFlags(bytecode.FlagVarargs)
	}
	if fn.VarKw != "" {
		b.Local(fn.VarKw)
		b.AddFlags(bytecode.FlagVarkeywords)
	}
	if fn.Async {
		b.AddFlags(bytecode.FlagCoroutine)
	}
	for _, n := range fn.Cell {
		b.DeclareCell(n)
	}
	for _, n := range fn.Free {
		b.DeclareFree(n)
	}

	s := &scope{b: b, locals: make(map[string]bool)}
	for _, n := range fn.Params() {
		s.locals[n] = true
	}
	for _, n := range fn.Assigned() {
		if _, deref := b.Deref(n); deref {
			continue
		}
		s.locals[n] = true
		b.Local(n)
	}

	returned := false
	for _, st := range fn.Body {
		s.stmt(st)
		_, returned = st.(*ast.Return)
	}
	if !returned {
		b.Emit("LOAD_CONST", b.Const(nil), fn.EndLine)
		b.Emit("RETURN_VALUE", 0, fn.EndLine)
	}
	return b.Build()
}

func (s *scope) stmt(st ast.Stmt) {
	switch st := st.(type) {
	case *ast.Assign:
		s.expr(st.Value)
		s.store(st.Target, st.Line)
	case *ast.ExprStmt:
		s.expr(st.X)
		s.b.Emit("POP_TOP", 0, st.Line)
	case *ast.Return:
		if st.Value != nil {
			s.expr(st.Value)
		} else {
			s.b.Emit("LOAD_CONST", s.b.Const(nil), st.Line)
		}
		s.b.Emit("RETURN_VALUE", 0, st.Line)
	}
}

func (s *scope) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Const:
		s.b.Emit("LOAD_CONST", s.b.Const(e.Value), e.Line)
	case *ast.Name:
		s.load(e.Ident, e.Line)
	case *ast.Call:
		s.load(e.Func.Ident, e.Line)
		for _, a := range e.Args {
			s.expr(a)
		}
		s.b.Emit("CALL_FUNCTION", uint32(len(e.Args)), e.Line)
	}
}

func (s *scope) load(name string, line int) {
	if i, ok := s.b.Deref(name); ok {
		s.b.Emit("LOAD_DEREF", i, line)
		return
	}
	if s.locals[name] {
		s.b.Emit("LOAD_FAST", s.b.Local(name), line)
		return
	}
	s.b.Emit("LOAD_GLOBAL", s.b.Name(name), line)
}

func (s *scope) store(name string, line int) {
	if i, ok := s.b.Deref(name); ok {
		s.b.Emit("STORE_DEREF", i, line)
		return
	}
	s.b.Emit("STORE_FAST", s.b.Local(name), line)
}
