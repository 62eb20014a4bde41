package scm

import "testing"

// newTestEnv builds a root environment with special forms installed
// plus a minimal arithmetic set, enough to exercise the evaluator
// without depending on the separate builtin package (which itself
// depends on this one).
func newTestEnv() *Environment {
	env := NewRootEnvironment()
	InstallSpecialForms(env)
	env.Register("+", NativeValue, AtLeast(0), func(args []Expr, _ *Environment) (Result, error) {
		var sum int64
		for _, a := range args {
			sum += a.Int()
		}
		return Val(NewInt(sum)), nil
	})
	env.Register("-", NativeValue, AtLeast(1), func(args []Expr, _ *Environment) (Result, error) {
		v := args[0].Int()
		for _, a := range args[1:] {
			v -= a.Int()
		}
		if len(args) == 1 {
			v = -args[0].Int()
		}
		return Val(NewInt(v)), nil
	})
	env.Register("=", NativeValue, Exact(2), func(args []Expr, _ *Environment) (Result, error) {
		return Val(NewBool(args[0].Int() == args[1].Int())), nil
	})
	env.Register("<", NativeValue, Exact(2), func(args []Expr, _ *Environment) (Result, error) {
		return Val(NewBool(args[0].Int() < args[1].Int())), nil
	})
	env.Register("*", NativeValue, AtLeast(0), func(args []Expr, _ *Environment) (Result, error) {
		v := int64(1)
		for _, a := range args {
			v *= a.Int()
		}
		return Val(NewInt(v)), nil
	})
	return env
}

func evalString(t *testing.T, env *Environment, src string) Expr {
	t.Helper()
	forms, err := ReadAll("test", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var result Expr
	for _, f := range forms {
		result, err = Eval(f, env)
		if err != nil {
			t.Fatalf("eval error on %q: %v", src, err)
		}
	}
	return result
}

func TestIfAndArithmetic(t *testing.T) {
	env := newTestEnv()
	v := evalString(t, env, "(if (< 1 2) (+ 1 2 3) 0)")
	if v.Int() != 6 {
		t.Fatalf("expected 6, got %v", v)
	}
}

func TestDefineAndLambda(t *testing.T) {
	env := newTestEnv()
	v := evalString(t, env, "(define (square x) (* x x)) (square 5)")
	if v.Int() != 25 {
		t.Fatalf("expected 25, got %v", v)
	}
}

func TestLetAndSet(t *testing.T) {
	env := newTestEnv()
	v := evalString(t, env, "(let ((x 1) (y 2)) (set! x 10) (+ x y))")
	if v.Int() != 12 {
		t.Fatalf("expected 12, got %v", v)
	}
}

func TestNamedLetLoop(t *testing.T) {
	env := newTestEnv()
	v := evalString(t, env, `
		(let loop ((i 0) (acc 0))
		  (if (= i 5)
		      acc
		      (loop (+ i 1) (+ acc i))))
	`)
	if v.Int() != 10 {
		t.Fatalf("expected 10, got %v", v)
	}
}

func TestCondElseAndArrow(t *testing.T) {
	env := newTestEnv()
	env.Register("add1", NativeValue, Exact(1), func(args []Expr, _ *Environment) (Result, error) {
		return Val(NewInt(args[0].Int() + 1)), nil
	})
	v := evalString(t, env, `(cond (#f 1) ((+ 1 1) => add1) (else 99))`)
	if v.Int() != 3 {
		t.Fatalf("expected 3, got %v", v)
	}
}

func TestAndOrShortCircuit(t *testing.T) {
	env := newTestEnv()
	if evalString(t, env, "(and 1 #f 3)").IsTruthy() {
		t.Fatalf("expected (and 1 #f 3) to be #f")
	}
	if !evalString(t, env, "(or #f #f 5)").IsTruthy() {
		t.Fatalf("expected (or #f #f 5) to be truthy")
	}
}

func TestQuasiquoteUnquoteSplicing(t *testing.T) {
	env := newTestEnv()
	env.Register("list", NativeValue, AtLeast(0), func(args []Expr, _ *Environment) (Result, error) {
		return Val(NewProperList(args)), nil
	})
	v := evalString(t, env, "(define x 2) `(1 ,x ,@(list 3 4))")
	if v.Len() != 4 {
		t.Fatalf("expected a 4-element list, got %v", v)
	}
}

func TestDefineMacro(t *testing.T) {
	env := newTestEnv()
	env.Register("list", NativeValue, AtLeast(0), func(args []Expr, _ *Environment) (Result, error) {
		return Val(NewProperList(args)), nil
	})
	v := evalString(t, env, `
		(define-macro (my-if c t e) (list 'cond (list c t) (list 'else e)))
		(my-if (< 1 2) 10 20)
	`)
	if v.Int() != 10 {
		t.Fatalf("expected 10, got %v", v)
	}
}

func TestDeepTailRecursionDoesNotGrowHostStack(t *testing.T) {
	env := newTestEnv()
	v := evalString(t, env, `
		(define (loop i acc)
		  (if (= i 0) acc (loop (- i 1) (+ acc 1))))
		(loop 1000000 0)
	`)
	if v.Int() != 1000000 {
		t.Fatalf("expected 1000000, got %v", v)
	}
}

func TestUnboundSymbolError(t *testing.T) {
	env := newTestEnv()
	_, err := Eval(NewSymbol("nonexistent"), env)
	ee, ok := ErrorOf(err)
	if !ok || ee.Kind != ErrUnboundSymbol {
		t.Fatalf("expected ErrUnboundSymbol, got %v", err)
	}
}

func TestNotApplicableError(t *testing.T) {
	env := newTestEnv()
	_, err := Eval(NewProperList([]Expr{NewInt(1), NewInt(2)}), env)
	ee, ok := ErrorOf(err)
	if !ok || ee.Kind != ErrNotApplicable {
		t.Fatalf("expected ErrNotApplicable, got %v", err)
	}
}

func TestArityMismatchError(t *testing.T) {
	env := newTestEnv()
	_, err := Eval(NewProperList([]Expr{NewSymbol("-")}), env)
	ee, ok := ErrorOf(err)
	if !ok || ee.Kind != ErrArityMismatch {
		t.Fatalf("expected ErrArityMismatch, got %v", err)
	}
}

func TestBeginSplicesIntoCallerEnv(t *testing.T) {
	// include is exercised indirectly through begin-splicing semantics
	// here, since it needs a filesystem fixture to test end to end.
	env := newTestEnv()
	v := evalString(t, env, "(begin (define z 7) z)")
	if v.Int() != 7 {
		t.Fatalf("expected 7, got %v", v)
	}
}
