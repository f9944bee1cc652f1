package parser

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/wippyai/hax/listing/internal/ast"
	"github.com/wippyai/hax/listing/internal/token"
)

func (p *Parser) parseExpr() (ast.Expr, error) {
	t := p.next()
	if t == nil {
		return nil, p.eof("expression")
	}

	switch t.Type {
	case token.Number, token.String, token.Bytes:
		v, err := p.literal(t)
		if err != nil {
			return nil, err
		}
		return &ast.Const{Value: v, Line: t.Line}, nil
	case token.Ident:
		switch t.Value {
		case "None":
			return &ast.Const{Value: nil, Line: t.Line}, nil
		case "True":
			return &ast.Const{Value: true, Line: t.Line}, nil
		case "False":
			return &ast.Const{Value: false, Line: t.Line}, nil
		}
		if keywords[t.Value] {
			return nil, p.errorf(t, "%s is a reserved word", t.Value)
		}
		name := &ast.Name{Ident: t.Value, Line: t.Line}
		if !p.accept(token.LParen) {
			return name, nil
		}
		return p.parseCall(name)
	case token.Illegal:
		if strings.HasPrefix(t.Value, `"`) || strings.HasPrefix(t.Value, `b"`) {
			return nil, p.errorf(t, "unterminated string literal")
		}
		return nil, p.errorf(t, "invalid character %q", t.Value)
	}
	return nil, p.unexpected(t, "expression")
}

func (p *Parser) parseCall(fn *ast.Name) (ast.Expr, error) {
	call := &ast.Call{Func: fn, Line: fn.Line}
	for !p.accept(token.RParen) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if p.accept(token.Comma) {
			continue
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		break
	}
	return call, nil
}

// literal converts a Number, String or Bytes token to a constant value.
func (p *Parser) literal(t *token.Token) (any, error) {
	switch t.Type {
	case token.String:
		s, err := strconv.Unquote(t.Value)
		if err != nil {
			return nil, p.errorf(t, "invalid string literal %s", t.Value)
		}
		return s, nil
	case token.Bytes:
		s, err := strconv.Unquote(t.Value)
		if err != nil {
			return nil, p.errorf(t, "invalid bytes literal b%s", t.Value)
		}
		return []byte(s), nil
	}

	if isFloat(t.Value) {
		f, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			return nil, p.errorf(t, "invalid number literal %s", t.Value)
		}
		return f, nil
	}
	n, err := strconv.ParseInt(t.Value, 0, 64)
	if err != nil {
		if stderrors.Is(err, strconv.ErrRange) {
			return nil, p.errorf(t, "integer literal %s out of range", t.Value)
		}
		return nil, p.errorf(t, "invalid number literal %s", t.Value)
	}
	return n, nil
}

func isFloat(s string) bool {
	digits := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return false
	}
	return strings.ContainsAny(digits, ".eE")
}
