package comp

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *ParseResult {
	t.Helper()
	res, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return res
}

func wantSyntaxError(t *testing.T, src, fragment string) {
	t.Helper()
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("Parse(%q): expected error", src)
	}
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("Parse(%q): expected *SyntaxError, got %T: %v", src, err, err)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Fatalf("Parse(%q) error %q does not mention %q", src, err, fragment)
	}
}

func TestParseSimple(t *testing.T) {
	res := mustParse(t, "x^2 for x if x % 2 == 0")
	if res.OpName != "list" {
		t.Fatalf("OpName = %q, want list", res.OpName)
	}
	if !reflect.DeepEqual(res.Out, []string{"x^2"}) {
		t.Fatalf("Out = %v", res.Out)
	}
	if len(res.ForClauses) != 1 {
		t.Fatalf("ForClauses = %v", res.ForClauses)
	}
	cl := res.ForClauses[0]
	if cl.Kind != ClauseArray || !reflect.DeepEqual(cl.Vars, []string{"x"}) || cl.RangeExprs != nil {
		t.Fatalf("clause = %+v", cl)
	}
	if !reflect.DeepEqual(res.Predicates, []string{"x % 2 == 0"}) {
		t.Fatalf("Predicates = %v", res.Predicates)
	}
	if res.MaxParam != 0 {
		t.Fatalf("MaxParam = %d, want 0", res.MaxParam)
	}
}

func TestParseOperatorPrefix(t *testing.T) {
	res := mustParse(t, " sum(x for x) ")
	if res.OpName != "sum" {
		t.Fatalf("OpName = %q, want sum", res.OpName)
	}
	if !reflect.DeepEqual(res.Out, []string{"x"}) {
		t.Fatalf("Out = %v", res.Out)
	}
}

func TestParseOperatorPrefixRollback(t *testing.T) {
	// A call whose balanced span stops short of end-of-input is part of
	// the output expression, not a fold operator.
	res := mustParse(t, "sum(x) for x")
	if res.OpName != "list" {
		t.Fatalf("OpName = %q, want list", res.OpName)
	}
	if !reflect.DeepEqual(res.Out, []string{"sum(x)"}) {
		t.Fatalf("Out = %v", res.Out)
	}
}

func TestParseUnknownOperator(t *testing.T) {
	wantSyntaxError(t, "median(x for x)", "unknown operator")
}

func TestParseClauseKinds(t *testing.T) {
	res := mustParse(t, "x*y*z for x = 1, 10, 2 for k, v in pairs(m) for z")
	if len(res.ForClauses) != 3 {
		t.Fatalf("ForClauses = %v", res.ForClauses)
	}
	num := res.ForClauses[0]
	if num.Kind != ClauseNumeric || !reflect.DeepEqual(num.RangeExprs, []string{"1", "10", "2"}) {
		t.Fatalf("numeric clause = %+v", num)
	}
	iter := res.ForClauses[1]
	if iter.Kind != ClauseIterator ||
		!reflect.DeepEqual(iter.Vars, []string{"k", "v"}) ||
		!reflect.DeepEqual(iter.RangeExprs, []string{"pairs(m)"}) {
		t.Fatalf("iterator clause = %+v", iter)
	}
	arr := res.ForClauses[2]
	if arr.Kind != ClauseArray || !reflect.DeepEqual(arr.Vars, []string{"z"}) {
		t.Fatalf("array clause = %+v", arr)
	}
}

func TestParseMultipleOut(t *testing.T) {
	res := mustParse(t, "table(k, v*2 for k, v in pairs(m))")
	if res.OpName != "table" {
		t.Fatalf("OpName = %q", res.OpName)
	}
	if !reflect.DeepEqual(res.Out, []string{"k", "v*2"}) {
		t.Fatalf("Out = %v", res.Out)
	}
}

func TestParsePlaceholders(t *testing.T) {
	cases := []struct {
		src  string
		want int
	}{
		{"x for x", 0},
		{"x^_1 + _3 for x", 3},
		{"_2 for x if _10 > 0", 10},
		{`"_9" for x if _2 > 0`, 2},      // strings are not scanned
		{"x /* _7 */ for x if _2 > 0", 2}, // comments are not scanned
		{"_1x for x", 0},                  // not a pure placeholder name
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			res := mustParse(t, tc.src)
			if res.MaxParam != tc.want {
				t.Fatalf("MaxParam = %d, want %d", res.MaxParam, tc.want)
			}
		})
	}
}

func TestParseKeywordInString(t *testing.T) {
	res := mustParse(t, `" x for x " for x`)
	if !reflect.DeepEqual(res.Out, []string{`" x for x "`}) {
		t.Fatalf("Out = %v", res.Out)
	}
	if len(res.ForClauses) != 1 || res.ForClauses[0].Vars[0] != "x" {
		t.Fatalf("ForClauses = %v", res.ForClauses)
	}
}

func TestParseKeywordInComment(t *testing.T) {
	res := mustParse(t, "x /* for y */ + 1 for x")
	if !reflect.DeepEqual(res.Out, []string{"x /* for y */ + 1"}) {
		t.Fatalf("Out = %v", res.Out)
	}
	if len(res.ForClauses) != 1 {
		t.Fatalf("ForClauses = %v", res.ForClauses)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name     string
		src      string
		fragment string
	}{
		{"no for clause", "x + 1", "expected 'for'"},
		{"empty out", "for x", "expected output expression"},
		{"empty out item", ", x for x", "expected output expression"},
		{"reserved prefix", "x for __x", "reserved prefix"},
		{"reserved prefix later clause", "x*y for x for __y in pairs(m)", "reserved prefix"},
		{"numeric arity low", "x for x = 1", "2 or 3 expressions"},
		{"numeric arity high", "x for x = 1, 2, 3, 4", "2 or 3 expressions"},
		{"numeric multi var", "x for x, y = 1, 2", "exactly one variable"},
		{"array multi var", "x for x, y", "exactly one variable"},
		{"missing var", "x for = 1, 2", "expected variable name"},
		{"keyword as var", "x for in", "expected variable name"},
		{"if before for", "x if x > 0 for x", "expected 'for'"},
		{"table needs two outs", "table(x for x)", "output expressions"},
		{"unbalanced paren", "f(x for x", "unterminated"},
		{"unterminated string", `"x for x`, "unterminated"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wantSyntaxError(t, tc.src, tc.fragment)
		})
	}
}

func TestParseTrailingText(t *testing.T) {
	_, err := Parse("x for x banana")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), `"banana"`) {
		t.Fatalf("error must quote the remainder verbatim, got %v", err)
	}
}

func TestParseIfAfterIfChain(t *testing.T) {
	res := mustParse(t, "x*y for x for y if x<4 if y<6")
	if !reflect.DeepEqual(res.Predicates, []string{"x<4", "y<6"}) {
		t.Fatalf("Predicates = %v", res.Predicates)
	}
}
