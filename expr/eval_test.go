package expr

import (
	"testing"

	"comprehend/lang"
)

func evalString(t *testing.T, src string, env *lang.Env) lang.Value {
	t.Helper()
	c, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	if env == nil {
		env = lang.NewEnv(nil)
	}
	v, err := c.Eval(env)
	if err != nil {
		t.Fatalf("Eval(%q): %v", src, err)
	}
	return v
}

func TestEvalArithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want lang.Value
	}{
		{"1 + 2 * 3", lang.IntValue(7)},
		{"(1 + 2) * 3", lang.IntValue(9)},
		{"7 % 2", lang.IntValue(1)},
		{"-7 % 2", lang.IntValue(1)},
		{"2 ^ 3", lang.RealValue(8)},
		{"2 ^ 3 ^ 1", lang.RealValue(8)},
		{"-2 ^ 2", lang.RealValue(-4)},
		{"7 / 2", lang.RealValue(3.5)},
		{"1.5 + 1", lang.RealValue(2.5)},
		{"10 - 2 - 3", lang.IntValue(5)},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			got := evalString(t, tc.src, nil)
			if !lang.Equal(got, tc.want) {
				t.Fatalf("eval(%q) = %s, want %s", tc.src, got, tc.want)
			}
		})
	}
}

func TestEvalComparison(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"1 < 2", true},
		{"2 <= 2", true},
		{"3 > 4", false},
		{"2 >= 2.0", true},
		{"1 == 1.0", true},
		{"1 != 2", true},
		{`"a" < "b"`, true},
		{`"a" == "a"`, true},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			got := evalString(t, tc.src, nil)
			if got.Type != lang.TypeBool || got.Bool() != tc.want {
				t.Fatalf("eval(%q) = %s, want %v", tc.src, got, tc.want)
			}
		})
	}
}

func TestEvalShortCircuit(t *testing.T) {
	env := lang.NewEnv(nil)
	calls := 0
	env.Define("boom", lang.FuncValue(func(args []lang.Value) ([]lang.Value, error) {
		calls++
		return []lang.Value{lang.BoolValue(true)}, nil
	}))
	if v := evalString(t, "false && boom()", env); v.Truthy() {
		t.Fatalf("false && x must be falsy")
	}
	if v := evalString(t, "true || boom()", env); !v.Truthy() {
		t.Fatalf("true || x must be truthy")
	}
	if calls != 0 {
		t.Fatalf("right side must not be evaluated, got %d calls", calls)
	}
}

func TestEvalIdentifiers(t *testing.T) {
	env := lang.NewEnv(nil)
	env.Define("x", lang.IntValue(4))
	if got := evalString(t, "x * x", env); got.Int() != 16 {
		t.Fatalf("x*x = %s", got)
	}
	// Unbound identifiers evaluate to nil rather than failing.
	if got := evalString(t, "missing", env); !got.IsNil() {
		t.Fatalf("unbound identifier = %s, want nil", got)
	}
}

func TestEvalLiterals(t *testing.T) {
	got := evalString(t, `[1, 2 + 3, "x"]`, nil)
	if got.Type != lang.TypeList {
		t.Fatalf("expected list, got %s", got.Type)
	}
	elems := got.List().Elems
	if len(elems) != 3 || elems[1].Int() != 5 || elems[2].Str() != "x" {
		t.Fatalf("list literal = %s", got)
	}

	got = evalString(t, `{"a": 1, 2: "b"}`, nil)
	if got.Type != lang.TypeMap {
		t.Fatalf("expected map, got %s", got.Type)
	}
	entries := got.Map().Entries
	if !lang.Equal(entries[lang.StringValue("a")], lang.IntValue(1)) {
		t.Fatalf("map literal = %s", got)
	}
	if !lang.Equal(entries[lang.IntValue(2)], lang.StringValue("b")) {
		t.Fatalf("map literal = %s", got)
	}
}

func TestEvalIndex(t *testing.T) {
	env := lang.NewEnv(nil)
	env.Define("t", lang.ListValue([]lang.Value{
		lang.IntValue(10), lang.IntValue(20),
	}))
	if got := evalString(t, "t[1]", env); got.Int() != 10 {
		t.Fatalf("t[1] = %s", got)
	}
	if got := evalString(t, "t[2]", env); got.Int() != 20 {
		t.Fatalf("t[2] = %s", got)
	}
	if got := evalString(t, "t[3]", env); !got.IsNil() {
		t.Fatalf("out-of-range index = %s, want nil", got)
	}

	m := lang.MapValue()
	m.Map().Entries[lang.IntValue(2)] = lang.StringValue("two")
	env.Define("m", m)
	if got := evalString(t, "m[2.0]", env); got.Str() != "two" {
		t.Fatalf("m[2.0] = %s, want key folded onto int", got)
	}
	if got := evalString(t, "m[9]", env); !got.IsNil() {
		t.Fatalf("missing key = %s, want nil", got)
	}
}

func TestEvalCalls(t *testing.T) {
	env := lang.NewEnv(nil)
	env.Define("twice", lang.FuncValue(func(args []lang.Value) ([]lang.Value, error) {
		return []lang.Value{lang.IntValue(args[0].Int() * 2)}, nil
	}))
	env.Define("pair", lang.FuncValue(func(args []lang.Value) ([]lang.Value, error) {
		return []lang.Value{lang.IntValue(1), lang.IntValue(2)}, nil
	}))
	env.Define("count", lang.FuncValue(func(args []lang.Value) ([]lang.Value, error) {
		return []lang.Value{lang.IntValue(int64(len(args)))}, nil
	}))

	if got := evalString(t, "twice(21)", env); got.Int() != 42 {
		t.Fatalf("twice(21) = %s", got)
	}
	// A call in value position keeps only its first result.
	if got := evalString(t, "pair() + 10", env); got.Int() != 11 {
		t.Fatalf("pair() + 10 = %s", got)
	}
	// The final argument of a call spreads all results.
	if got := evalString(t, "count(0, pair())", env); got.Int() != 3 {
		t.Fatalf("count(0, pair()) = %s", got)
	}

	c, err := Compile("pair()")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	vals, err := c.EvalMulti(env)
	if err != nil {
		t.Fatalf("EvalMulti: %v", err)
	}
	if len(vals) != 2 || vals[0].Int() != 1 || vals[1].Int() != 2 {
		t.Fatalf("EvalMulti = %v", vals)
	}
}

func TestEvalErrors(t *testing.T) {
	env := lang.NewEnv(nil)
	env.Define("s", lang.StringValue("a"))
	cases := []string{
		"1 + s",
		"missing()",
		"1 / 0",
		"7 % 0",
		"s[1]",
		"-s",
		`1 < "a"`,
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			c, err := Compile(src)
			if err != nil {
				t.Fatalf("Compile(%q): %v", src, err)
			}
			if _, err := c.Eval(env); err == nil {
				t.Fatalf("eval(%q): expected error", src)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	for _, src := range []string{"", "1 +", "f(", "a b", "{1: }", "[1,"} {
		if _, err := Compile(src); err == nil {
			t.Fatalf("Compile(%q): expected error", src)
		}
	}
}

func TestCompiledIsReusable(t *testing.T) {
	c, err := Compile("x + 1")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for i := int64(0); i < 3; i++ {
		env := lang.NewEnv(nil)
		env.Define("x", lang.IntValue(i))
		v, err := c.Eval(env)
		if err != nil {
			t.Fatalf("Eval: %v", err)
		}
		if v.Int() != i+1 {
			t.Fatalf("eval with x=%d: got %s", i, v)
		}
	}
}
