package runtime

import (
	"fmt"
	"strings"

	"comprehend/comp"
	"comprehend/expr"
	"comprehend/lang"
	"comprehend/scan"
)

// Exec evaluates one statement line: either "name = expr", which defines
// name in env, or a bare expression. hasValue reports whether the statement
// produced a value worth printing; blank and comment-only lines produce
// none.
func Exec(env *lang.Env, line string) (val lang.Value, hasValue bool, err error) {
	start := scan.SkipSpace(line, 0)
	if start >= len(line) {
		return lang.Nil, false, nil
	}
	if name, rhs, ok := splitAssign(line[start:]); ok {
		if strings.HasPrefix(name, comp.ReservedPrefix) {
			return lang.Nil, false, fmt.Errorf("name %q uses the reserved prefix %q",
				name, comp.ReservedPrefix)
		}
		compiled, err := expr.Compile(rhs)
		if err != nil {
			return lang.Nil, false, err
		}
		v, err := compiled.Eval(env)
		if err != nil {
			return lang.Nil, false, err
		}
		env.Define(name, v)
		return lang.Nil, false, nil
	}
	compiled, err := expr.Compile(line[start:])
	if err != nil {
		return lang.Nil, false, err
	}
	v, err := compiled.Eval(env)
	if err != nil {
		return lang.Nil, false, err
	}
	return v, true, nil
}

// splitAssign recognizes "name = rhs" where the = is not part of ==. The
// line must start at the name.
func splitAssign(line string) (name, rhs string, ok bool) {
	word, end := scan.Word(line, 0)
	if word == "" || word == "true" || word == "false" || word == "nil" {
		return "", "", false
	}
	pos := scan.SkipSpace(line, end)
	if pos < len(line) && line[pos] == '=' && (pos+1 >= len(line) || line[pos+1] != '=') {
		return word, line[pos+1:], true
	}
	return "", "", false
}
