package builtin

import (
	"bytes"
	"testing"
)

func TestParserMatchesRegex(t *testing.T) {
	env := newEnv(&bytes.Buffer{})
	eval(t, env, `(define digit (parser (regex "[0-9]+")))`)
	v := eval(t, env, `(digit "42")`)
	if v.String() != "42" {
		t.Fatalf("expected the matched text back, got %v", v)
	}
}

func TestParserWithGenerator(t *testing.T) {
	env := newEnv(&bytes.Buffer{})
	eval(t, env, `
		(define sum-expr
		  (parser (list (define a (regex "[0-9]+")) "+" (define b (regex "[0-9]+")))
		          (+ (string->number a) (string->number b))))
	`)
	v := eval(t, env, `(sum-expr "3+4")`)
	if v.Int() != 7 {
		t.Fatalf("expected 7, got %v", v)
	}
}
