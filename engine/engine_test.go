package engine

import (
	"bytes"
	"testing"

	"schemecore/scm"
)

func TestEvalArithmeticThroughPrelude(t *testing.T) {
	var out bytes.Buffer
	eng, err := New(WithOutput(&out))
	if err != nil {
		t.Fatal(err)
	}
	v, err := eng.Eval("(+ 1 2 (* 3 4))")
	if err != nil {
		t.Fatal(err)
	}
	if v.Int() != 15 {
		t.Fatalf("expected 15, got %v", v)
	}
}

func TestPreludeListUtilities(t *testing.T) {
	eng, err := New()
	if err != nil {
		t.Fatal(err)
	}
	v, err := eng.Eval("(length (append '(1 2) '(3 4 5)))")
	if err != nil {
		t.Fatal(err)
	}
	if v.Int() != 5 {
		t.Fatalf("expected 5, got %v", v)
	}
}

func TestPreludeCase(t *testing.T) {
	eng, err := New()
	if err != nil {
		t.Fatal(err)
	}
	v, err := eng.Eval(`
		(case 3
		  ((1 2) 'small)
		  ((3 4) 'mid)
		  (else 'big))
	`)
	if err != nil {
		t.Fatal(err)
	}
	if v.Symbol() != "mid" {
		t.Fatalf("expected 'mid, got %v", v)
	}
}

func TestPreludeLazyStreams(t *testing.T) {
	eng, err := New()
	if err != nil {
		t.Fatal(err)
	}
	v, err := eng.Eval(`
		(define (integers-from n) (lazy-cons n (integers-from (+ n 1))))
		(define nats (integers-from 0))
		(length (head (lazy-map (lambda (x) (* x x)) nats) 5))
	`)
	if err != nil {
		t.Fatal(err)
	}
	if v.Int() != 5 {
		t.Fatalf("expected 5, got %v", v)
	}
}

func TestRegisterFnExtendsEnvironment(t *testing.T) {
	eng := NewWithoutPrelude()
	calls := 0
	eng.RegisterFn("count!", scm.Exact(0), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		calls++
		return scm.Val(scm.Void()), nil
	})
	if _, err := eng.Eval("(count!) (count!)"); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Fatalf("expected the registered host function to be called twice, got %d", calls)
	}
}

func TestEngineIDsAreUnique(t *testing.T) {
	a := NewWithoutPrelude()
	b := NewWithoutPrelude()
	if a.ID() == b.ID() {
		t.Fatalf("expected distinct engine ids")
	}
}
