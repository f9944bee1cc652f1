package token

import (
	"unicode"
)

type Type int

const (
	Newline Type = iota
	LParen
	RParen
	Comma
	Assign
	Star
	DoubleStar
	Slash
	Ident
	Number
	String
	Bytes
	Illegal
)

func (t Type) String() string {
	switch t {
	case Newline:
		return "end of line"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case Comma:
		return "','"
	case Assign:
		return "'='"
	case Star:
		return "'*'"
	case DoubleStar:
		return "'**'"
	case Slash:
		return "'/'"
	case Ident:
		return "identifier"
	case Number:
		return "number"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	case Illegal:
		return "illegal token"
	}
	return "unknown"
}

// Token is one lexeme. String and Bytes values keep their quotes so the
// parser can unquote them; Bytes drops the b prefix.
type Token struct {
	Value string
	Type  Type
	Line  int
	Col   int
}

// Tokenize splits a listing into tokens. Each non-empty line ends with a
// Newline token. Comments start with '#' or ';' and run to the end of the
// line. Malformed input yields an Illegal token rather than an error.
func Tokenize(input string) []Token {
	var tokens []Token
	line, col0 := 1, 0
	runes := []rune(input)

	emit := func(v string, typ Type, start int) {
		tokens = append(tokens, Token{v, typ, line, start - col0 + 1})
	}
	newline := func() {
		if n := len(tokens); n > 0 && tokens[n-1].Type != Newline {
			tokens = append(tokens, Token{"", Newline, line, 0})
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '\n' {
			newline()
			line++
			col0 = i + 1
			continue
		}
		if unicode.IsSpace(r) {
			continue
		}

		if r == '#' || r == ';' {
			for i+1 < len(runes) && runes[i+1] != '\n' {
				i++
			}
			continue
		}

		switch r {
		case '(':
			emit("(", LParen, i)
			continue
		case ')':
			emit(")", RParen, i)
			continue
		case ',':
			emit(",", Comma, i)
			continue
		case '=':
			emit("=", Assign, i)
			continue
		case '/':
			emit("/", Slash, i)
			continue
		case '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				emit("**", DoubleStar, i)
				i++
			} else {
				emit("*", Star, i)
			}
			continue
		}

		// Bytes literal
		if r == 'b' && i+1 < len(runes) && runes[i+1] == '"' {
			start := i
			end, ok := scanString(runes, i+1)
			if !ok {
				emit(string(runes[start:end]), Illegal, start)
				i = end - 1
				continue
			}
			emit(string(runes[i+1:end]), Bytes, start)
			i = end - 1
			continue
		}

		// String literal
		if r == '"' {
			end, ok := scanString(runes, i)
			typ := String
			if !ok {
				typ = Illegal
			}
			emit(string(runes[i:end]), typ, i)
			i = end - 1
			continue
		}

		// Number, optionally signed
		if unicode.IsDigit(r) || ((r == '-' || r == '+') && i+1 < len(runes) && unicode.IsDigit(runes[i+1])) {
			start := i
			i++
			for i < len(runes) {
				c := runes[i]
				if unicode.IsDigit(c) || unicode.IsLetter(c) || c == '_' || c == '.' ||
					((c == '-' || c == '+') && (runes[i-1] == 'e' || runes[i-1] == 'E') && !isHex(runes[start:i])) {
					i++
				} else {
					break
				}
			}
			emit(string(runes[start:i]), Number, start)
			i--
			continue
		}

		if unicode.IsLetter(r) || r == '_' {
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			emit(string(runes[start:i]), Ident, start)
			i--
			continue
		}

		emit(string(r), Illegal, i)
	}
	newline()

	return tokens
}

// scanString returns the index just past the closing quote of the string
// starting at runes[start]. ok is false when the line ends first.
func scanString(runes []rune, start int) (end int, ok bool) {
	i := start + 1
	for i < len(runes) && runes[i] != '"' {
		if runes[i] == '\n' {
			return i, false
		}
		if runes[i] == '\\' {
			i++
		}
		i++
	}
	if i >= len(runes) {
		return len(runes), false
	}
	return i + 1, true
}

func isHex(prefix []rune) bool {
	s := prefix
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
