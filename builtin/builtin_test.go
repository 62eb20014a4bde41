package builtin

import (
	"bytes"
	"testing"

	"schemecore/scm"
)

func newEnv(out *bytes.Buffer) *scm.Environment {
	env := scm.NewRootEnvironment()
	scm.InstallSpecialForms(env)
	InstallAll(env, out)
	return env
}

func eval(t *testing.T, env *scm.Environment, src string) scm.Expr {
	t.Helper()
	forms, err := scm.ReadAll("test", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var result scm.Expr
	for _, f := range forms {
		result, err = scm.Eval(f, env)
		if err != nil {
			t.Fatalf("eval error on %q: %v", src, err)
		}
	}
	return result
}

func TestArithmetic(t *testing.T) {
	env := newEnv(&bytes.Buffer{})
	cases := map[string]int64{
		"(+ 1 2 3)":          6,
		"(- 10 1 2)":         7,
		"(* 2 3 4)":          24,
		"(quotient 7 2)":     3,
		"(remainder 7 2)":    1,
		"(modulo -7 2)":      1,
		"(abs -5)":           5,
		"(min 3 1 2)":        1,
		"(max 3 1 2)":        3,
		"(expt 2 10)":        1024,
	}
	for src, want := range cases {
		v := eval(t, env, src)
		if !v.IsInt() || v.Int() != want {
			t.Errorf("%s = %v, want %d", src, v, want)
		}
	}
}

func TestFloatDivision(t *testing.T) {
	env := newEnv(&bytes.Buffer{})
	v := eval(t, env, "(/ 1 4)")
	if !v.IsFloat() || v.Float() != 0.25 {
		t.Fatalf("expected 0.25, got %v", v)
	}
}

func TestListPrimitives(t *testing.T) {
	env := newEnv(&bytes.Buffer{})
	v := eval(t, env, "(cons 1 (cons 2 '()))")
	if v.Len() != 2 {
		t.Fatalf("expected length 2, got %v", v)
	}
	if eval(t, env, "(car '(1 2 3))").Int() != 1 {
		t.Fatalf("expected car to be 1")
	}
	if eval(t, env, "(car (cdr '(1 2 3)))").Int() != 2 {
		t.Fatalf("expected cadr to be 2")
	}
}

func TestSetCarSetCdr(t *testing.T) {
	env := newEnv(&bytes.Buffer{})
	eval(t, env, "(define p (cons 1 2))")
	eval(t, env, "(set-car! p 10)")
	eval(t, env, "(set-cdr! p 20)")
	v := eval(t, env, "p")
	if v.Items()[0].Int() != 10 {
		t.Fatalf("expected set-car! to mutate, got %v", v)
	}
	if !v.Dotted() || v.Tail().Int() != 20 {
		t.Fatalf("expected set-cdr! to mutate the tail, got %v", v)
	}
}

func TestApply(t *testing.T) {
	env := newEnv(&bytes.Buffer{})
	v := eval(t, env, "(apply + 1 2 '(3 4))")
	if v.Int() != 10 {
		t.Fatalf("expected 10, got %v", v)
	}
}

func TestStringOps(t *testing.T) {
	env := newEnv(&bytes.Buffer{})
	if eval(t, env, `(string-append "foo" "bar")`).String() != "foobar" {
		t.Fatalf("expected foobar")
	}
	if eval(t, env, `(string-upcase "abc")`).String() != "ABC" {
		t.Fatalf("expected ABC")
	}
	if eval(t, env, `(string-length "hello")`).Int() != 5 {
		t.Fatalf("expected 5")
	}
	if eval(t, env, `(substring "hello" 1 3)`).String() != "el" {
		t.Fatalf("expected el")
	}
}

func TestEquality(t *testing.T) {
	env := newEnv(&bytes.Buffer{})
	if !eval(t, env, "(equal? '(1 2) '(1 2))").Bool() {
		t.Fatalf("expected equal? lists to be #t")
	}
	if eval(t, env, "(eqv? 1 1.0)").Bool() {
		t.Fatalf("expected (eqv? 1 1.0) to be #f")
	}
	if !eval(t, env, "(not #f)").Bool() {
		t.Fatalf("expected (not #f) to be #t")
	}
}

func TestDisplayWritesToConfiguredOutput(t *testing.T) {
	var out bytes.Buffer
	env := newEnv(&out)
	eval(t, env, `(display "hi") (newline) (write "hi")`)
	if out.String() != "hi\n\"hi\"" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestErrorBuiltinRaisesUserError(t *testing.T) {
	env := newEnv(&bytes.Buffer{})
	forms, err := scm.ReadAll("test", `(error "boom" 42)`)
	if err != nil {
		t.Fatal(err)
	}
	_, err = scm.Eval(forms[0], env)
	ee, ok := scm.ErrorOf(err)
	if !ok || ee.Kind != scm.ErrUserRaised {
		t.Fatalf("expected ErrUserRaised, got %v", err)
	}
}

func TestMapAndForEach(t *testing.T) {
	env := newEnv(&bytes.Buffer{})
	v := eval(t, env, "(map (lambda (x) (* x x)) '(1 2 3))")
	want := []int64{1, 4, 9}
	for i, it := range v.Items() {
		if it.Int() != want[i] {
			t.Fatalf("map result mismatch at %d: %v", i, it)
		}
	}

	var sum int64
	env.Register("accumulate", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		sum += args[0].Int()
		return scm.Val(scm.Void()), nil
	})
	eval(t, env, "(for-each accumulate '(1 2 3 4))")
	if sum != 10 {
		t.Fatalf("expected for-each to visit every element, got sum=%d", sum)
	}
}

func TestGensymProducesFreshSymbols(t *testing.T) {
	env := newEnv(&bytes.Buffer{})
	a := eval(t, env, "(gensym)")
	b := eval(t, env, "(gensym)")
	if a.Symbol() == b.Symbol() {
		t.Fatalf("expected distinct gensyms")
	}
}
