package scm

import "testing"

func TestReadAllAtoms(t *testing.T) {
	forms, err := ReadAll("test", `42 3.5 "hi" #t #f foo`)
	if err != nil {
		t.Fatal(err)
	}
	if len(forms) != 6 {
		t.Fatalf("expected 6 forms, got %d", len(forms))
	}
	if !forms[0].IsInt() || forms[0].Int() != 42 {
		t.Fatalf("expected integer 42, got %v", forms[0])
	}
	if !forms[1].IsFloat() {
		t.Fatalf("expected a float for 3.5, got %v", forms[1])
	}
	if !forms[2].IsString() || forms[2].String() != "hi" {
		t.Fatalf("expected string hi, got %v", forms[2])
	}
	if !forms[3].Bool() || forms[4].Bool() {
		t.Fatalf("expected #t/#f booleans")
	}
	if !forms[5].IsSymbol() {
		t.Fatalf("expected a symbol, got %v", forms[5])
	}
}

func TestReadListAndDottedList(t *testing.T) {
	forms, err := ReadAll("test", `(1 2 3) (1 . 2) (a b . c)`)
	if err != nil {
		t.Fatal(err)
	}
	if forms[0].Len() != 3 || forms[0].Dotted() {
		t.Fatalf("expected proper list of 3, got %v", forms[0])
	}
	if !forms[1].Dotted() || forms[1].Tail().Int() != 2 {
		t.Fatalf("expected (1 . 2) dotted pair, got %v", forms[1])
	}
	if !forms[2].Dotted() || forms[2].Len() != 2 {
		t.Fatalf("expected (a b . c), got %v", forms[2])
	}
}

func TestReadQuoteFamily(t *testing.T) {
	forms, err := ReadAll("test", "'a `(a ,b ,@c)")
	if err != nil {
		t.Fatal(err)
	}
	if forms[0].Items()[0].Symbol() != "quote" {
		t.Fatalf("expected 'a to desugar to (quote a), got %v", forms[0])
	}
	qq := forms[1]
	if qq.Items()[0].Symbol() != "quasiquote" {
		t.Fatalf("expected quasiquote head, got %v", qq)
	}
}

func TestUnterminatedListIsIncomplete(t *testing.T) {
	_, err := ReadAll("test", "(1 2")
	if err == nil {
		t.Fatal("expected an error for an unclosed list")
	}
	ee, ok := ErrorOf(err)
	if !ok || ee.Kind != ErrParse {
		t.Fatalf("expected a parse error, got %v", err)
	}
}

func TestCharLiterals(t *testing.T) {
	forms, err := ReadAll("test", `#\a #\space #\newline`)
	if err != nil {
		t.Fatal(err)
	}
	if forms[0].Char() != 'a' || forms[1].Char() != ' ' || forms[2].Char() != '\n' {
		t.Fatalf("unexpected char literals: %v", forms)
	}
}
