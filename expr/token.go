package expr

// TokenType enumerates lexical categories of the host expression language.
type TokenType int

const (
	tokenEOF TokenType = iota
	tokenIllegal

	tokenIdentifier
	tokenNumber
	tokenString

	// Keywords
	tokenTrue
	tokenFalse
	tokenNil

	// Operators and punctuation
	tokenPlus         // +
	tokenMinus        // -
	tokenStar         // *
	tokenSlash        // /
	tokenPercent      // %
	tokenCaret        // ^
	tokenEqualEqual   // ==
	tokenBangEqual    // !=
	tokenLess         // <
	tokenLessEqual    // <=
	tokenGreater      // >
	tokenGreaterEqual // >=
	tokenBang         // !
	tokenAndAnd       // &&
	tokenOrOr         // ||

	tokenComma    // ,
	tokenColon    // :
	tokenLParen   // (
	tokenRParen   // )
	tokenLBracket // [
	tokenRBracket // ]
	tokenLBrace   // {
	tokenRBrace   // }
)

func (tt TokenType) String() string {
	switch tt {
	case tokenEOF:
		return "EOF"
	case tokenIllegal:
		return "illegal"
	case tokenIdentifier:
		return "identifier"
	case tokenNumber:
		return "number"
	case tokenString:
		return "string"
	case tokenTrue:
		return "true"
	case tokenFalse:
		return "false"
	case tokenNil:
		return "nil"
	case tokenPlus:
		return "+"
	case tokenMinus:
		return "-"
	case tokenStar:
		return "*"
	case tokenSlash:
		return "/"
	case tokenPercent:
		return "%"
	case tokenCaret:
		return "^"
	case tokenEqualEqual:
		return "=="
	case tokenBangEqual:
		return "!="
	case tokenLess:
		return "<"
	case tokenLessEqual:
		return "<="
	case tokenGreater:
		return ">"
	case tokenGreaterEqual:
		return ">="
	case tokenBang:
		return "!"
	case tokenAndAnd:
		return "&&"
	case tokenOrOr:
		return "||"
	case tokenComma:
		return ","
	case tokenColon:
		return ":"
	case tokenLParen:
		return "("
	case tokenRParen:
		return ")"
	case tokenLBracket:
		return "["
	case tokenRBracket:
		return "]"
	case tokenLBrace:
		return "{"
	case tokenRBrace:
		return "}"
	default:
		return "unknown"
	}
}

// Token is one lexical unit with its source offset.
type Token struct {
	Type   TokenType
	Lexeme string // identifiers and numbers
	Value  string // decoded string literals
	Pos    int    // byte offset into the source
}
