package prelude

import (
	"bytes"
	"testing"

	"schemecore/builtin"
	"schemecore/scm"
)

func newEnv(t *testing.T) *scm.Environment {
	t.Helper()
	env := scm.NewRootEnvironment()
	scm.InstallSpecialForms(env)
	builtin.InstallAll(env, &bytes.Buffer{})
	if err := Load(env); err != nil {
		t.Fatalf("prelude failed to load: %v", err)
	}
	return env
}

func eval(t *testing.T, env *scm.Environment, src string) scm.Expr {
	t.Helper()
	forms, err := scm.ReadAll("test", src)
	if err != nil {
		t.Fatal(err)
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

func TestCxrFamily(t *testing.T) {
	env := newEnv(t)
	if eval(t, env, "(caddr '(1 2 3 4))").Int() != 3 {
		t.Fatalf("expected caddr to be 3")
	}
	if eval(t, env, "(cddddr '(1 2 3 4 5))").Items()[0].Int() != 5 {
		t.Fatalf("expected cddddr to strip 4 elements")
	}
}

func TestReverseAndMember(t *testing.T) {
	env := newEnv(t)
	rev := eval(t, env, "(reverse '(1 2 3))")
	if rev.Items()[0].Int() != 3 {
		t.Fatalf("expected reversed list to start with 3, got %v", rev)
	}
	if !eval(t, env, "(member 2 '(1 2 3))").IsTruthy() {
		t.Fatalf("expected member to find 2")
	}
	if eval(t, env, "(member 9 '(1 2 3))").IsTruthy() {
		t.Fatalf("expected member to fail for 9")
	}
}

func TestAssoc(t *testing.T) {
	env := newEnv(t)
	v := eval(t, env, "(assoc 'b '((a . 1) (b . 2)))")
	if !v.Dotted() || v.Tail().Int() != 2 {
		t.Fatalf("expected assoc to find (b . 2), got %v", v)
	}
}

func TestWhenUnless(t *testing.T) {
	env := newEnv(t)
	if eval(t, env, "(when #t 1 2 3)").Int() != 3 {
		t.Fatalf("expected when's last body form")
	}
	if eval(t, env, "(unless #t 1)").IsTruthy() {
		t.Fatalf("expected unless with a true test to be #f")
	}
}

func TestMatchMacro(t *testing.T) {
	env := newEnv(t)
	v := eval(t, env, `
		(match (list 1 2)
		  ((a b) (+ a b))
		  (_ 'no-match))
	`)
	if v.Int() != 3 {
		t.Fatalf("expected the (a b) clause to bind a=1 b=2, got %v", v)
	}
}

func TestDelayForce(t *testing.T) {
	env := newEnv(t)
	v := eval(t, env, `
		(define calls 0)
		(define p (delay (begin (set! calls (+ calls 1)) 42)))
		(force p)
		(force p)
		(list (force p) calls)
	`)
	if v.Items()[0].Int() != 42 || v.Items()[1].Int() != 1 {
		t.Fatalf("expected delay/force to memoize, got %v", v)
	}
}

func TestLazyStreamsHead(t *testing.T) {
	env := newEnv(t)
	v := eval(t, env, `
		(define (ints n) (lazy-cons n (ints (+ n 1))))
		(head (ints 1) 3)
	`)
	want := []int64{1, 2, 3}
	for i, it := range v.Items() {
		if it.Int() != want[i] {
			t.Fatalf("unexpected lazy stream head: %v", v)
		}
	}
}
