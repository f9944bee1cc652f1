package parser

import (
	"strconv"
	"strings"

	"github.com/wippyai/hax/errors"
	"github.com/wippyai/hax/listing/internal/ast"
	"github.com/wippyai/hax/listing/internal/token"
)

var keywords = map[string]bool{
	"def": true, "async": true, "end": true, "return": true,
	"free": true, "cell": true, "None": true, "True": true, "False": true,
}

type Parser struct {
	file   string
	source []string
	tokens []token.Token
	pos    int
}

// New creates a parser over tokens. source is the listing text, used to
// quote the offending line in errors.
func New(tokens []token.Token, file, source string) *Parser {
	return &Parser{
		tokens: tokens,
		file:   file,
		source: strings.Split(source, "\n"),
	}
}

func (p *Parser) Parse() (*ast.File, error) {
	f := &ast.File{}
	for p.peek() != nil {
		if p.accept(token.Newline) {
			continue
		}
		fn, err := p.parseFunc()
		if err != nil {
			return nil, err
		}
		f.Funcs = append(f.Funcs, fn)
	}
	return f, nil
}

func (p *Parser) peek() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *Parser) peekAt(n int) *token.Token {
	if p.pos+n >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos+n]
}

func (p *Parser) next() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *Parser) accept(typ token.Type) bool {
	if t := p.peek(); t != nil && t.Type == typ {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) expect(typ token.Type) (*token.Token, error) {
	t := p.next()
	if t == nil {
		return nil, p.eof(typ.String())
	}
	if t.Type != typ {
		return nil, p.unexpected(t, typ.String())
	}
	return t, nil
}

func (p *Parser) expectKeyword(kw string) (*token.Token, error) {
	t, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if t.Value != kw {
		return nil, p.unexpected(t, strconv.Quote(kw))
	}
	return t, nil
}

// name consumes an identifier that is not a reserved word.
func (p *Parser) name() (*token.Token, error) {
	t, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if keywords[t.Value] {
		return nil, p.errorf(t, "%s is a reserved word", t.Value)
	}
	return t, nil
}

func (p *Parser) errorf(t *token.Token, format string, args ...any) *errors.Error {
	b := errors.New(errors.PhaseParse, errors.KindInvalidInput).
		At(p.file, t.Line).
		Detail(format, args...)
	if t.Col > 0 {
		b.Column(t.Col)
	}
	if t.Line >= 1 && t.Line <= len(p.source) {
		b.Source(p.source[t.Line-1])
	}
	return b.Build()
}

func (p *Parser) unexpected(t *token.Token, want string) *errors.Error {
	got := strconv.Quote(t.Value)
	if t.Type == token.Newline {
		got = "end of line"
	}
	return p.errorf(t, "expected %s, got %s", want, got)
}

func (p *Parser) eof(want string) *errors.Error {
	line := len(p.source)
	if n := len(p.tokens); n > 0 {
		line = p.tokens[n-1].Line
	}
	return p.errorf(&token.Token{Line: line}, "unexpected end of input, expected %s", want)
}

func (p *Parser) endOfLine() error {
	t := p.next()
	if t == nil || t.Type == token.Newline {
		return nil
	}
	return p.unexpected(t, "end of line")
}
