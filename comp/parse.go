package comp

import (
	"fmt"
	"strconv"
	"strings"

	"comprehend/scan"
)

// Parse tokenizes a comprehension string into its structural parts. It fails
// with *SyntaxError on malformed input, carrying the unconsumed remainder
// where that helps locate the problem.
func Parse(src string) (*ParseResult, error) {
	res := &ParseResult{OpName: "list"}
	body := src

	// Optional fold-operator prefix. A leading identifier with a
	// parenthesized span is only an operator call when the balanced span
	// runs exactly to end of input; otherwise it was a plain call inside
	// the output expression and parsing restarts from the top.
	i := scan.SkipSpace(src, 0)
	if word, end := scan.Word(src, i); word != "" && end < len(src) && src[end] == '(' {
		if close, err := scan.Balanced(src, end); err == nil && scan.SkipSpace(src, close) == len(src) {
			if _, ok := operators[word]; !ok {
				return nil, &SyntaxError{
					Msg: fmt.Sprintf("unknown operator %q (known: %s)",
						word, strings.Join(Operators(), ", ")),
				}
			}
			res.OpName = word
			body = src[end+1 : close-1]
		}
	}

	p := &srcParser{src: body}
	if err := p.parseOutList(res); err != nil {
		return nil, err
	}
	if err := p.parseForClauses(res); err != nil {
		return nil, err
	}
	if err := p.parseIfClauses(res); err != nil {
		return nil, err
	}
	if err := p.checkTrailing(); err != nil {
		return nil, err
	}

	if min := operators[res.OpName].minOut; len(res.Out) < min {
		return nil, &SyntaxError{
			Msg: fmt.Sprintf("%s comprehension needs %d output expressions, got %d",
				res.OpName, min, len(res.Out)),
		}
	}

	// Placeholders are counted across the whole original text; string and
	// comment spans never contribute.
	res.MaxParam = maxPlaceholder(src)
	return res, nil
}

type srcParser struct {
	src string
	pos int
}

func stopKeyword(word string) bool {
	return word == "for" || word == "if"
}

func (p *srcParser) errorAt(pos int, format string, args ...interface{}) error {
	return &SyntaxError{
		Msg:       fmt.Sprintf(format, args...),
		Remainder: strings.TrimSpace(p.src[pos:]),
	}
}

// parseOutList consumes the comma-separated output expressions up to the
// first top-level "for". On success the cursor rests on that keyword.
func (p *srcParser) parseOutList(res *ParseResult) error {
	for {
		start := scan.SkipSpace(p.src, p.pos)
		end, term, err := scan.ExprItem(p.src, start, stopKeyword)
		if err != nil {
			return p.errorAt(start, "%v", err)
		}
		text := strings.TrimSpace(p.src[start:end])
		if text == "" {
			return p.errorAt(start, "expected output expression")
		}
		res.Out = append(res.Out, text)
		switch term.Kind {
		case scan.TermComma:
			p.pos = term.Pos + 1
		case scan.TermWord:
			p.pos = term.Pos
			if term.Word == "for" {
				return nil
			}
			return p.errorAt(term.Pos, "expected 'for'")
		default:
			p.pos = term.Pos
			return p.errorAt(term.Pos, "expected 'for'")
		}
	}
}

func (p *srcParser) parseForClauses(res *ParseResult) error {
	for {
		start := scan.SkipSpace(p.src, p.pos)
		word, end := scan.Word(p.src, start)
		if word != "for" {
			break
		}
		p.pos = end
		clause, err := p.parseClause()
		if err != nil {
			return err
		}
		res.ForClauses = append(res.ForClauses, clause)
	}
	if len(res.ForClauses) == 0 {
		return p.errorAt(p.pos, "expected at least one 'for' clause")
	}
	return nil
}

func (p *srcParser) parseClause() (Clause, error) {
	var c Clause
	for {
		start := scan.SkipSpace(p.src, p.pos)
		name, end := scan.Word(p.src, start)
		if name == "" || name == "for" || name == "if" || name == "in" {
			return c, p.errorAt(start, "expected variable name")
		}
		if strings.HasPrefix(name, ReservedPrefix) {
			return c, &SyntaxError{
				Msg: fmt.Sprintf("variable %q uses the reserved prefix %q", name, ReservedPrefix),
			}
		}
		c.Vars = append(c.Vars, name)
		p.pos = end
		next := scan.SkipSpace(p.src, p.pos)
		if next < len(p.src) && p.src[next] == ',' {
			p.pos = next + 1
			continue
		}
		break
	}

	next := scan.SkipSpace(p.src, p.pos)
	switch {
	case next < len(p.src) && p.src[next] == '=' && (next+1 >= len(p.src) || p.src[next+1] != '='):
		p.pos = next + 1
		exprs, err := p.parseExprList()
		if err != nil {
			return c, err
		}
		if len(exprs) < 2 || len(exprs) > 3 {
			return c, &SyntaxError{
				Msg: fmt.Sprintf("numeric range takes 2 or 3 expressions, got %d", len(exprs)),
			}
		}
		if len(c.Vars) != 1 {
			return c, &SyntaxError{Msg: "numeric clause binds exactly one variable"}
		}
		c.Kind = ClauseNumeric
		c.RangeExprs = exprs
	case wordIs(p.src, next, "in"):
		_, p.pos = scan.Word(p.src, next)
		exprs, err := p.parseExprList()
		if err != nil {
			return c, err
		}
		c.Kind = ClauseIterator
		c.RangeExprs = exprs
	default:
		if len(c.Vars) != 1 {
			return c, &SyntaxError{Msg: "array clause binds exactly one variable"}
		}
		c.Kind = ClauseArray
	}
	return c, nil
}

// parseExprList consumes one or more comma-separated expressions, stopping
// before a top-level "for" or "if" keyword or at end of input.
func (p *srcParser) parseExprList() ([]string, error) {
	var exprs []string
	for {
		start := scan.SkipSpace(p.src, p.pos)
		end, term, err := scan.ExprItem(p.src, start, stopKeyword)
		if err != nil {
			return nil, p.errorAt(start, "%v", err)
		}
		text := strings.TrimSpace(p.src[start:end])
		if text == "" {
			return nil, p.errorAt(start, "expected expression")
		}
		exprs = append(exprs, text)
		if term.Kind == scan.TermComma {
			p.pos = term.Pos + 1
			continue
		}
		p.pos = term.Pos
		return exprs, nil
	}
}

func (p *srcParser) parseIfClauses(res *ParseResult) error {
	for {
		start := scan.SkipSpace(p.src, p.pos)
		word, end := scan.Word(p.src, start)
		if word != "if" {
			break
		}
		p.pos = end
		exprStart := scan.SkipSpace(p.src, p.pos)
		exprEnd, term, err := scan.ExprItem(p.src, exprStart, stopKeyword)
		if err != nil {
			return p.errorAt(exprStart, "%v", err)
		}
		text := strings.TrimSpace(p.src[exprStart:exprEnd])
		if text == "" {
			return p.errorAt(exprStart, "expected predicate expression")
		}
		res.Predicates = append(res.Predicates, text)
		p.pos = term.Pos
		if term.Kind == scan.TermComma {
			// A comma cannot follow a predicate; leave it for the
			// trailing-input check to report.
			break
		}
	}
	return nil
}

func (p *srcParser) checkTrailing() error {
	pos := scan.SkipSpace(p.src, p.pos)
	if pos < len(p.src) {
		return p.errorAt(pos, "unexpected text after comprehension")
	}
	return nil
}

func wordIs(src string, pos int, want string) bool {
	word, _ := scan.Word(src, pos)
	return word == want
}

// maxPlaceholder finds the highest _N placeholder referenced in code
// segments of src.
func maxPlaceholder(src string) int {
	max := 0
	scan.EachWord(src, func(word string) {
		if len(word) < 2 || word[0] != '_' {
			return
		}
		for i := 1; i < len(word); i++ {
			if word[i] < '0' || word[i] > '9' {
				return
			}
		}
		if n, err := strconv.Atoi(word[1:]); err == nil && n > max {
			max = n
		}
	})
	return max
}
