package scm

import "testing"

func TestDisplayVsWriteStrings(t *testing.T) {
	s := NewString("a\"b")
	if Display(s) != `a"b` {
		t.Fatalf("expected display to show raw content, got %q", Display(s))
	}
	if Write(s) != `"a\"b"` {
		t.Fatalf("expected write to escape quotes, got %q", Write(s))
	}
}

func TestDisplayVsWriteChar(t *testing.T) {
	c := NewChar('a')
	if Display(c) != "a" {
		t.Fatalf("expected bare char on display, got %q", Display(c))
	}
	if Write(c) != `#\a` {
		t.Fatalf("expected #\\a on write, got %q", Write(c))
	}
}

func TestWriteDottedList(t *testing.T) {
	l := NewDottedList([]Expr{NewInt(1), NewInt(2)}, NewInt(3))
	if Write(l) != "(1 2 . 3)" {
		t.Fatalf("unexpected dotted list rendering: %q", Write(l))
	}
}

func TestFloatFormatting(t *testing.T) {
	if Display(NewFloat(2.0)) != "2." {
		t.Fatalf("expected whole floats to render with a trailing dot, got %q", Display(NewFloat(2.0)))
	}
	if Display(NewFloat(2.5)) != "2.5" {
		t.Fatalf("unexpected float rendering: %q", Display(NewFloat(2.5)))
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	original := NewProperList([]Expr{NewInt(1), NewString("hi"), NewBool(true)})
	text := Write(original)
	parsed, err := ReadOne("test", text)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(original, parsed) {
		t.Fatalf("expected round trip to preserve structure: %v vs %v", original, parsed)
	}
}
