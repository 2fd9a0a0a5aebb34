package runtime

import (
	"strings"
	"testing"

	"comprehend/lang"
)

func execLine(t *testing.T, env *lang.Env, line string) (lang.Value, bool) {
	t.Helper()
	v, has, err := Exec(env, line)
	if err != nil {
		t.Fatalf("Exec(%q): %v", line, err)
	}
	return v, has
}

func TestExecAssignAndEval(t *testing.T) {
	env := New()
	if _, has := execLine(t, env, "xs = [1, 2, 3, 4]"); has {
		t.Fatalf("assignment produced a value")
	}
	v, has := execLine(t, env, "xs[2]")
	if !has || v.String() != "2" {
		t.Fatalf("xs[2] = %s (has=%v)", v, has)
	}
	v, _ = execLine(t, env, `comp("x^2 for x if x % 2 == 0")(xs)`)
	if v.String() != "[4, 16]" {
		t.Fatalf("comprehension = %s", v)
	}
}

func TestExecBlankAndComment(t *testing.T) {
	env := New()
	for _, line := range []string{"", "   ", "// just a note", "  /* block */  "} {
		if _, has, err := Exec(env, line); err != nil || has {
			t.Fatalf("Exec(%q) = has %v, err %v", line, has, err)
		}
	}
}

func TestExecEqualityIsNotAssignment(t *testing.T) {
	env := New()
	env.Define("a", lang.IntValue(1))
	v, has := execLine(t, env, "a == 1")
	if !has || v.String() != "true" {
		t.Fatalf("a == 1 evaluated to %s (has=%v)", v, has)
	}
	if got, _ := env.Lookup("a"); got.String() != "1" {
		t.Fatalf("a was reassigned to %s", got)
	}
}

func TestExecReservedName(t *testing.T) {
	env := New()
	_, _, err := Exec(env, "__x = 1")
	if err == nil || !strings.Contains(err.Error(), "reserved prefix") {
		t.Fatalf("err = %v", err)
	}
}

func TestExecKeywordsNotAssignable(t *testing.T) {
	env := New()
	v, has := execLine(t, env, "nil == nil")
	if !has || v.String() != "true" {
		t.Fatalf("nil == nil = %s (has=%v)", v, has)
	}
}

func TestCompBuiltinMemoizes(t *testing.T) {
	env := New()
	execLine(t, env, `f = comp("sum(x for x)")`)
	execLine(t, env, `g = comp("sum(x for x)")`)
	f, _ := env.Lookup("f")
	g, _ := env.Lookup("g")
	if f.Type != lang.TypeFunc || g.Type != lang.TypeFunc {
		t.Fatalf("comp() did not return functions: %s, %s", f.Type, g.Type)
	}
	v, _ := execLine(t, env, "f([1, 2, 3])")
	if v.String() != "6" {
		t.Fatalf("f([1, 2, 3]) = %s", v)
	}
}

func TestCompBuiltinErrors(t *testing.T) {
	env := New()
	if _, _, err := Exec(env, "comp(42)"); err == nil {
		t.Fatalf("expected type error")
	}
	_, _, err := Exec(env, `comp("x + 1")`)
	if err == nil || !strings.Contains(err.Error(), "expected 'for'") {
		t.Fatalf("err = %v", err)
	}
}

func TestIpairsBuiltin(t *testing.T) {
	env := New()
	execLine(t, env, "xs = [10, 20, 30]")
	v, _ := execLine(t, env, `comp("sum(i*x for i, x in ipairs(xs))")()`)
	if v.String() != "140" {
		t.Fatalf("sum = %s, want 140", v)
	}
}

func TestPairsBuiltin(t *testing.T) {
	env := New()
	execLine(t, env, `m = {1: "a", 2: "b"}`)
	v, _ := execLine(t, env, `comp("list(k for k, s in pairs(m))")()`)
	if v.String() != "[1, 2]" {
		t.Fatalf("keys = %s, want sorted [1, 2]", v)
	}
}

func TestLenBuiltin(t *testing.T) {
	env := New()
	cases := []struct {
		line string
		want string
	}{
		{"len([1, 2, 3])", "3"},
		{`len("abcd")`, "4"},
		{`len({1: "a"})`, "1"},
	}
	for _, tc := range cases {
		v, _ := execLine(t, env, tc.line)
		if v.String() != tc.want {
			t.Fatalf("%s = %s, want %s", tc.line, v, tc.want)
		}
	}
	if _, _, err := Exec(env, "len(5)"); err == nil {
		t.Fatalf("len(5) should fail")
	}
}
