package ast

// File is a parsed listing.
type File struct {
	Funcs []*Func
}

// Func is one def ... end block.
type Func struct {
	Name    string
	PosOnly []string
	Args    []string
	KwOnly  []string
	VarArgs string
	VarKw   string
	Free    []string
	Cell    []string
	Body    []Stmt
	Line    int
	EndLine int
	Async   bool
}

// Params returns the parameter names in slot order.
func (f *Func) Params() []string {
	out := make([]string, 0, len(f.PosOnly)+len(f.Args)+len(f.KwOnly)+2)
	out = append(out, f.PosOnly...)
	out = append(out, f.Args...)
	out = append(out, f.KwOnly...)
	if f.VarArgs != "" {
		out = append(out, f.VarArgs)
	}
	if f.VarKw != "" {
		out = append(out, f.VarKw)
	}
	return out
}

// Assigned returns the names bound by assignment statements, in order of
// first appearance.
func (f *Func) Assigned() []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range f.Body {
		if a, ok := s.(*Assign); ok && !seen[a.Target] {
			seen[a.Target] = true
			out = append(out, a.Target)
		}
	}
	return out
}

type Stmt interface {
	StmtLine() int
}

type Expr interface {
	ExprLine() int
}

// Assign is `target = value`.
type Assign struct {
	Value  Expr
	Target string
	Line   int
}

// ExprStmt evaluates an expression and discards the result.
type ExprStmt struct {
	X    Expr
	Line int
}

// Return returns Value, or None when Value is nil.
type Return struct {
	Value Expr
	Line  int
}

// Const is a literal.
type Const struct {
	Value any
	Line  int
}

// Name is an identifier reference.
type Name struct {
	Ident string
	Line  int
}

// Call is a call of a named function.
type Call struct {
	Func *Name
	Args []Expr
	Line int
}

func (s *Assign) StmtLine() int   { return s.Line }
func (s *ExprStmt) StmtLine() int { return s.Line }
func (s *Return) StmtLine() int   { return s.Line }

func (e *Const) ExprLine() int { return e.Line }
func (e *Name) ExprLine() int  { return e.Line }
func (e *Call) ExprLine() int  { return e.Line }
