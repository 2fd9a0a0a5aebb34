// Package expr compiles and evaluates host expressions: the arithmetic,
// comparison, call and indexing language that comprehension out-expressions,
// predicates and ranges are written in. Expressions evaluate against a
// lang.Env; identifiers with no binding yield nil.
package expr

import (
	"fmt"
	"strconv"

	"comprehend/lang"
)

// Error reports a malformed expression with its byte offset.
type Error struct {
	Msg string
	Pos int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (at offset %d)", e.Msg, e.Pos)
}

// Compiled is a parsed expression ready for repeated evaluation. It is
// immutable and safe for concurrent use.
type Compiled struct {
	root Expr
	src  string
}

// Compile parses src into an evaluable expression. The entire input must be
// consumed.
func Compile(src string) (*Compiled, error) {
	p := &parser{lx: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	root, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.curr.Type != tokenEOF {
		return nil, p.errorf("unexpected %s after expression", p.curr.Type)
	}
	return &Compiled{root: root, src: src}, nil
}

// Eval evaluates the expression to a single value, truncating multiple
// results from a call to the first.
func (c *Compiled) Eval(env *lang.Env) (lang.Value, error) {
	return eval(c.root, env)
}

// EvalMulti evaluates the expression preserving multiple results when the
// expression is a call, as iterator clauses require for triples such as
// ipairs(t).
func (c *Compiled) EvalMulti(env *lang.Env) ([]lang.Value, error) {
	return evalMulti(c.root, env)
}

// Source returns the original expression text.
func (c *Compiled) Source() string {
	return c.src
}

func numberExpr(tok Token) (Expr, error) {
	if i, err := strconv.ParseInt(tok.Lexeme, 10, 64); err == nil {
		return &IntExpr{Value: i, Posn: tok.Pos}, nil
	}
	f, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		return nil, &Error{Msg: fmt.Sprintf("malformed number %q", tok.Lexeme), Pos: tok.Pos}
	}
	return &RealExpr{Value: f, Posn: tok.Pos}, nil
}

// NormalizeKey folds integral reals onto ints so that mapping keys 2 and 2.0
// address the same entry.
func NormalizeKey(key lang.Value) lang.Value {
	return normalizeKey(key)
}
