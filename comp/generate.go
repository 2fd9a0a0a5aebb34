package comp

import (
	"fmt"
	"strings"
)

// Program is the generated procedure layout: the parse result it was derived
// from, the fold operator, and the rendered source listing. Build turns it
// into a callable; Source travels with compile failures for diagnosis.
type Program struct {
	Res    *ParseResult
	Source string

	op *operator
}

// Generate lays out the nested-loop procedure for a parse result. The parser
// has already validated the operator name, so a registry miss here is an
// internal invariant violation, not a user error.
func Generate(res *ParseResult) (*Program, error) {
	op, ok := operators[res.OpName]
	if !ok {
		return nil, fmt.Errorf("comp: operator %q missing from registry", res.OpName)
	}
	return &Program{Res: res, Source: renderSource(res, op), op: op}, nil
}

// renderSource produces the procedure listing. Loops nest in clause source
// order (first clause outermost); predicates nest innermost in reverse
// source order, so every guard applies before the fold accumulates.
func renderSource(res *ParseResult, op *operator) string {
	var b strings.Builder
	line := func(depth int, text string) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(text)
		b.WriteByte('\n')
	}

	if params := paramNames(res); len(params) > 0 {
		line(0, fmt.Sprintf("local %s = ...", strings.Join(params, ", ")))
	}
	line(0, fmt.Sprintf("local %s = %s", accName, op.initText))

	depth := 0
	for i, cl := range res.ForClauses {
		switch cl.Kind {
		case ClauseArray:
			in := arrayInputName(i)
			idx := fmt.Sprintf("%si%d", ReservedPrefix, i+1)
			line(depth, fmt.Sprintf("for %s = 1, #%s do local %s = %s[%s]",
				idx, in, cl.Vars[0], in, idx))
		case ClauseNumeric:
			line(depth, fmt.Sprintf("for %s = %s do",
				cl.Vars[0], strings.Join(cl.RangeExprs, ", ")))
		case ClauseIterator:
			line(depth, fmt.Sprintf("for %s in %s do",
				strings.Join(cl.Vars, ", "), strings.Join(cl.RangeExprs, ", ")))
		}
		depth++
	}
	for i := len(res.Predicates) - 1; i >= 0; i-- {
		line(depth, fmt.Sprintf("if %s then", res.Predicates[i]))
		depth++
	}
	line(depth, op.accumulate(res.Out))
	for ; depth > 0; depth-- {
		line(depth-1, "end")
	}
	line(0, fmt.Sprintf("return %s", accName))
	return b.String()
}
