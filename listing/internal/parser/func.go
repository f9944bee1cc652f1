package parser

import (
	"github.com/wippyai/hax/listing/internal/ast"
	"github.com/wippyai/hax/listing/internal/token"
)

func (p *Parser) parseFunc() (*ast.Func, error) {
	fn := &ast.Func{}
	t := p.peek()
	if t.Type == token.Ident && t.Value == "async" {
		p.next()
		fn.Async = true
	}
	def, err := p.expectKeyword("def")
	if err != nil {
		return nil, err
	}
	fn.Line = def.Line

	nameTok, err := p.name()
	if err != nil {
		return nil, err
	}
	fn.Name = nameTok.Value

	if err := p.parseParams(fn); err != nil {
		return nil, err
	}
	if err := p.endOfLine(); err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		if t == nil {
			return nil, p.errorf(def, "missing end for def %s", fn.Name)
		}
		if t.Type == token.Newline {
			p.next()
			continue
		}
		if t.Type == token.Ident && t.Value == "end" {
			p.next()
			fn.EndLine = t.Line
			return fn, p.endOfLine()
		}
		if err := p.parseStmt(fn); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseParams(fn *ast.Func) error {
	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	seen := make(map[string]bool)
	declare := func(t *token.Token) error {
		if seen[t.Value] {
			return p.errorf(t, "duplicate argument %s in def %s", t.Value, fn.Name)
		}
		seen[t.Value] = true
		return nil
	}

	var star, slash bool
	for !p.accept(token.RParen) {
		if fn.VarKw != "" {
			return p.errorf(p.peekOrLast(), "arguments cannot follow **%s", fn.VarKw)
		}
		t := p.next()
		if t == nil {
			return p.eof("')'")
		}
		switch t.Type {
		case token.Slash:
			if slash || star || len(fn.Args) == 0 {
				return p.errorf(t, "misplaced '/'")
			}
			slash = true
			fn.PosOnly, fn.Args = fn.Args, nil
		case token.Star:
			if star {
				return p.errorf(t, "only one '*' allowed")
			}
			star = true
			if n := p.peek(); n != nil && n.Type == token.Ident {
				v, err := p.name()
				if err != nil {
					return err
				}
				if err := declare(v); err != nil {
					return err
				}
				fn.VarArgs = v.Value
			}
		case token.DoubleStar:
			v, err := p.name()
			if err != nil {
				return err
			}
			if err := declare(v); err != nil {
				return err
			}
			fn.VarKw = v.Value
		case token.Ident:
			p.pos--
			v, err := p.name()
			if err != nil {
				return err
			}
			if err := declare(v); err != nil {
				return err
			}
			if star {
				fn.KwOnly = append(fn.KwOnly, v.Value)
			} else {
				fn.Args = append(fn.Args, v.Value)
			}
		default:
			return p.unexpected(t, "argument name")
		}

		if p.accept(token.Comma) {
			continue
		}
		if _, err := p.expect(token.RParen); err != nil {
			return err
		}
		break
	}
	if star && fn.VarArgs == "" && len(fn.KwOnly) == 0 {
		return p.errorf(&token.Token{Line: fn.Line}, "named arguments must follow bare *")
	}
	return nil
}

func (p *Parser) peekOrLast() *token.Token {
	if t := p.peek(); t != nil {
		return t
	}
	return &p.tokens[len(p.tokens)-1]
}

func (p *Parser) parseStmt(fn *ast.Func) error {
	t := p.peek()
	if t.Type == token.Ident {
		switch t.Value {
		case "free", "cell":
			p.next()
			names, err := p.nameList()
			if err != nil {
				return err
			}
			if t.Value == "free" {
				fn.Free = append(fn.Free, names...)
			} else {
				fn.Cell = append(fn.Cell, names...)
			}
			return p.endOfLine()
		case "return":
			p.next()
			ret := &ast.Return{Line: t.Line}
			if n := p.peek(); n != nil && n.Type != token.Newline {
				x, err := p.parseExpr()
				if err != nil {
					return err
				}
				ret.Value = x
			}
			fn.Body = append(fn.Body, ret)
			return p.endOfLine()
		case "def", "async":
			return p.errorf(t, "nested functions are not supported")
		}
		if n := p.peekAt(1); n != nil && n.Type == token.Assign {
			target, err := p.name()
			if err != nil {
				return p.errorf(t, "cannot assign to %s", t.Value)
			}
			p.next()
			x, err := p.parseExpr()
			if err != nil {
				return err
			}
			fn.Body = append(fn.Body, &ast.Assign{Target: target.Value, Value: x, Line: t.Line})
			return p.endOfLine()
		}
	}

	x, err := p.parseExpr()
	if err != nil {
		return err
	}
	fn.Body = append(fn.Body, &ast.ExprStmt{X: x, Line: t.Line})
	return p.endOfLine()
}

func (p *Parser) nameList() ([]string, error) {
	var names []string
	for {
		t, err := p.name()
		if err != nil {
			return nil, err
		}
		names = append(names, t.Value)
		if !p.accept(token.Comma) {
			return names, nil
		}
	}
}
