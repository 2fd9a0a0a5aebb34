package expr

import "fmt"

type parser struct {
	lx   *lexer
	curr Token
}

func (p *parser) advance() error {
	tok, err := p.lx.nextToken()
	if err != nil {
		return err
	}
	p.curr = tok
	return nil
}

func (p *parser) expect(tt TokenType) (Token, error) {
	if p.curr.Type != tt {
		return Token{}, p.errorf("expected %s, found %s", tt, p.curr.Type)
	}
	tok := p.curr
	if err := p.advance(); err != nil {
		return Token{}, err
	}
	return tok, nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &Error{Msg: fmt.Sprintf(format, args...), Pos: p.curr.Pos}
}

func (p *parser) parseExpression() (Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.curr.Type == tokenOrOr {
		opTok := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: opTok.Type, Left: left, Right: right, Posn: opTok.Pos}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.curr.Type == tokenAndAnd {
		opTok := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: opTok.Type, Left: left, Right: right, Posn: opTok.Pos}
	}
	return left, nil
}

func (p *parser) parseEquality() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.curr.Type == tokenEqualEqual || p.curr.Type == tokenBangEqual {
		opTok := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: opTok.Type, Left: left, Right: right, Posn: opTok.Pos}
	}
	return left, nil
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.curr.Type == tokenLess || p.curr.Type == tokenLessEqual ||
		p.curr.Type == tokenGreater || p.curr.Type == tokenGreaterEqual {
		opTok := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: opTok.Type, Left: left, Right: right, Posn: opTok.Pos}
	}
	return left, nil
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.curr.Type == tokenPlus || p.curr.Type == tokenMinus {
		opTok := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: opTok.Type, Left: left, Right: right, Posn: opTok.Pos}
	}
	return left, nil
}

func (p *parser) parseFactor() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.curr.Type == tokenStar || p.curr.Type == tokenSlash || p.curr.Type == tokenPercent {
		opTok := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: opTok.Type, Left: left, Right: right, Posn: opTok.Pos}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.curr.Type == tokenMinus || p.curr.Type == tokenBang {
		opTok := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: opTok.Type, Operand: operand, Posn: opTok.Pos}, nil
	}
	return p.parsePower()
}

// parsePower handles ^, which binds tighter than unary minus and associates
// to the right: -x^2 is -(x^2) and x^y^z is x^(y^z).
func (p *parser) parsePower() (Expr, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.curr.Type == tokenCaret {
		opTok := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: opTok.Type, Left: left, Right: right, Posn: opTok.Pos}, nil
	}
	return left, nil
}

func (p *parser) parsePostfix() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.curr.Type {
		case tokenLParen:
			open := p.curr
			if err := p.advance(); err != nil {
				return nil, err
			}
			var args []Expr
			if p.curr.Type != tokenRParen {
				for {
					arg, err := p.parseExpression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if p.curr.Type != tokenComma {
						break
					}
					if err := p.advance(); err != nil {
						return nil, err
					}
				}
			}
			if _, err := p.expect(tokenRParen); err != nil {
				return nil, err
			}
			base = &CallExpr{Fun: base, Args: args, Posn: open.Pos}
		case tokenLBracket:
			open := p.curr
			if err := p.advance(); err != nil {
				return nil, err
			}
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokenRBracket); err != nil {
				return nil, err
			}
			base = &IndexExpr{Seq: base, Index: index, Posn: open.Pos}
		default:
			return base, nil
		}
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.curr
	switch tok.Type {
	case tokenIdentifier:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &IdentExpr{Name: tok.Lexeme, Posn: tok.Pos}, nil
	case tokenNumber:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return numberExpr(tok)
	case tokenString:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &StringExpr{Value: tok.Value, Posn: tok.Pos}, nil
	case tokenTrue, tokenFalse:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &BoolExpr{Value: tok.Type == tokenTrue, Posn: tok.Pos}, nil
	case tokenNil:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &NilExpr{Posn: tok.Pos}, nil
	case tokenLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case tokenLBracket:
		return p.parseListLiteral()
	case tokenLBrace:
		return p.parseMapLiteral()
	default:
		return nil, p.errorf("unexpected %s", tok.Type)
	}
}

func (p *parser) parseListLiteral() (Expr, error) {
	open, err := p.expect(tokenLBracket)
	if err != nil {
		return nil, err
	}
	var elements []Expr
	if p.curr.Type != tokenRBracket {
		for {
			el, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, el)
			if p.curr.Type != tokenComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(tokenRBracket); err != nil {
		return nil, err
	}
	return &ListExpr{Elements: elements, Posn: open.Pos}, nil
}

func (p *parser) parseMapLiteral() (Expr, error) {
	open, err := p.expect(tokenLBrace)
	if err != nil {
		return nil, err
	}
	var keys, values []Expr
	if p.curr.Type != tokenRBrace {
		for {
			key, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokenColon); err != nil {
				return nil, err
			}
			val, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
			values = append(values, val)
			if p.curr.Type != tokenComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(tokenRBrace); err != nil {
		return nil, err
	}
	return &MapExpr{Keys: keys, Values: values, Posn: open.Pos}, nil
}
