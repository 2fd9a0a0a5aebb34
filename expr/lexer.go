package expr

import (
	"fmt"
	"strings"
)

type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func (lx *lexer) errorf(pos int, format string, args ...interface{}) error {
	return &Error{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

func (lx *lexer) skipWhitespace() error {
	for lx.pos < len(lx.src) {
		switch c := lx.src[lx.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			lx.pos++
		case c == '/' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == '/':
			lx.skipLine()
		case c == '/' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == '*':
			if err := lx.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (lx *lexer) skipLine() {
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
}

func (lx *lexer) skipBlockComment() error {
	start := lx.pos
	lx.pos += 2
	for lx.pos+1 < len(lx.src) {
		if lx.src[lx.pos] == '*' && lx.src[lx.pos+1] == '/' {
			lx.pos += 2
			return nil
		}
		lx.pos++
	}
	return lx.errorf(start, "unterminated block comment")
}

func (lx *lexer) nextToken() (Token, error) {
	if err := lx.skipWhitespace(); err != nil {
		return Token{}, err
	}
	if lx.pos >= len(lx.src) {
		return Token{Type: tokenEOF, Pos: lx.pos}, nil
	}

	start := lx.pos
	c := lx.src[lx.pos]
	switch {
	case isIdentStart(c):
		lexeme := lx.scanIdentifier()
		return makeIdentifierToken(lexeme, start), nil
	case c >= '0' && c <= '9':
		lexeme, err := lx.scanNumber()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: tokenNumber, Lexeme: lexeme, Pos: start}, nil
	case c == '"':
		value, err := lx.scanString()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: tokenString, Value: value, Pos: start}, nil
	}

	lx.pos++
	simple := func(tt TokenType) (Token, error) {
		return Token{Type: tt, Pos: start}, nil
	}
	switch c {
	case '+':
		return simple(tokenPlus)
	case '-':
		return simple(tokenMinus)
	case '*':
		return simple(tokenStar)
	case '/':
		return simple(tokenSlash)
	case '%':
		return simple(tokenPercent)
	case '^':
		return simple(tokenCaret)
	case '(':
		return simple(tokenLParen)
	case ')':
		return simple(tokenRParen)
	case '[':
		return simple(tokenLBracket)
	case ']':
		return simple(tokenRBracket)
	case '{':
		return simple(tokenLBrace)
	case '}':
		return simple(tokenRBrace)
	case ',':
		return simple(tokenComma)
	case ':':
		return simple(tokenColon)
	case '=':
		if lx.match('=') {
			return simple(tokenEqualEqual)
		}
		return Token{Type: tokenIllegal, Pos: start}, lx.errorf(start, "unexpected character '='")
	case '!':
		if lx.match('=') {
			return simple(tokenBangEqual)
		}
		return simple(tokenBang)
	case '<':
		if lx.match('=') {
			return simple(tokenLessEqual)
		}
		return simple(tokenLess)
	case '>':
		if lx.match('=') {
			return simple(tokenGreaterEqual)
		}
		return simple(tokenGreater)
	case '&':
		if lx.match('&') {
			return simple(tokenAndAnd)
		}
		return Token{Type: tokenIllegal, Pos: start}, lx.errorf(start, "unexpected character '&'")
	case '|':
		if lx.match('|') {
			return simple(tokenOrOr)
		}
		return Token{Type: tokenIllegal, Pos: start}, lx.errorf(start, "unexpected character '|'")
	default:
		return Token{Type: tokenIllegal, Pos: start}, lx.errorf(start, "unexpected character %q", rune(c))
	}
}

func (lx *lexer) match(expected byte) bool {
	if lx.pos < len(lx.src) && lx.src[lx.pos] == expected {
		lx.pos++
		return true
	}
	return false
}

func (lx *lexer) scanIdentifier() string {
	start := lx.pos
	for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
		lx.pos++
	}
	return lx.src[start:lx.pos]
}

func (lx *lexer) scanNumber() (string, error) {
	start := lx.pos
	seenDot := false
	seenExponent := false
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c >= '0' && c <= '9':
			lx.pos++
		case c == '.' && !seenDot && !seenExponent:
			seenDot = true
			lx.pos++
		case (c == 'e' || c == 'E') && !seenExponent:
			seenExponent = true
			lx.pos++
			if lx.pos < len(lx.src) && (lx.src[lx.pos] == '+' || lx.src[lx.pos] == '-') {
				lx.pos++
			}
			if lx.pos >= len(lx.src) || lx.src[lx.pos] < '0' || lx.src[lx.pos] > '9' {
				return "", lx.errorf(start, "malformed number %q", lx.src[start:lx.pos])
			}
		default:
			return lx.src[start:lx.pos], nil
		}
	}
	return lx.src[start:lx.pos], nil
}

func (lx *lexer) scanString() (string, error) {
	start := lx.pos
	lx.pos++ // opening quote
	var builder strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch c {
		case '"':
			lx.pos++
			return builder.String(), nil
		case '\\':
			lx.pos++
			if lx.pos >= len(lx.src) {
				return "", lx.errorf(start, "unterminated escape sequence")
			}
			switch esc := lx.src[lx.pos]; esc {
			case 'n':
				builder.WriteByte('\n')
			case 't':
				builder.WriteByte('\t')
			default:
				builder.WriteByte(esc)
			}
			lx.pos++
		default:
			builder.WriteByte(c)
			lx.pos++
		}
	}
	return "", lx.errorf(start, "unterminated string literal")
}

func makeIdentifierToken(lexeme string, start int) Token {
	switch lexeme {
	case "true":
		return Token{Type: tokenTrue, Pos: start}
	case "false":
		return Token{Type: tokenFalse, Pos: start}
	case "nil":
		return Token{Type: tokenNil, Pos: start}
	default:
		return Token{Type: tokenIdentifier, Lexeme: lexeme, Pos: start}
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}
