/*
Copyright (C) 2024  The schemecore Authors

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package scm implements the core of a Scheme interpreter: the tagged
// value model, lexical environments, the macro expander, the trampolined
// evaluator and the native builtin registry.
package scm

import (
	"fmt"
	"sync"
)

// Tag discriminates the variants of Expr.
type Tag uint8

const (
	TagVoid Tag = iota
	TagBool
	TagInt
	TagFloat
	TagChar
	TagString
	TagSymbol
	TagList
	TagProc
)

// Symbol is an interned identifier. Two Symbols with equal names are
// indistinguishable; comparison is by name.
type Symbol string

// stringHandle is the shared mutable backing store of a String value.
// Every Expr holding the same handle observes mutation through
// string-set!.
type stringHandle struct {
	runes []rune
}

// listHandle is the shared mutable backing store of a List value: an
// ordered container plus a dotted-tail marker, rather than classical
// pair cells.
type listHandle struct {
	items  []Expr
	dotted bool
	tail   Expr // meaningful only when dotted
}

// Expr is the tagged variant representing every Scheme value.
type Expr struct {
	tag  Tag
	b    bool
	i    int64
	f    float64
	c    rune
	str  *stringHandle
	sym  Symbol
	list *listHandle
	proc *Procedure
}

// Tag exposes the variant discriminator.
func (e Expr) Tag() Tag { return e.tag }

var voidValue = Expr{tag: TagVoid}

func Void() Expr { return voidValue }

func NewBool(b bool) Expr { return Expr{tag: TagBool, b: b} }

func NewInt(i int64) Expr { return Expr{tag: TagInt, i: i} }

func NewFloat(f float64) Expr { return Expr{tag: TagFloat, f: f} }

func NewChar(c rune) Expr { return Expr{tag: TagChar, c: c} }

// NewString allocates a fresh, independently mutable string handle.
func NewString(s string) Expr {
	return Expr{tag: TagString, str: &stringHandle{runes: []rune(s)}}
}

var (
	internMu   sync.Mutex
	internTree = map[string]Symbol{}
)

// NewSymbol interns name in the process-wide symbol table.
func NewSymbol(name string) Expr {
	internMu.Lock()
	sym, ok := internTree[name]
	if !ok {
		sym = Symbol(name)
		internTree[name] = sym
	}
	internMu.Unlock()
	return Expr{tag: TagSymbol, sym: sym}
}

// NewProperList builds a proper list from items; the slice is copied so
// the caller's backing array may be reused.
func NewProperList(items []Expr) Expr {
	cp := make([]Expr, len(items))
	copy(cp, items)
	return Expr{tag: TagList, list: &listHandle{items: cp}}
}

// NewDottedList builds an improper list (a b . tail).
func NewDottedList(items []Expr, tail Expr) Expr {
	cp := make([]Expr, len(items))
	copy(cp, items)
	if tail.tag == TagList && !tail.list.dotted {
		// tail happens to be a proper list: flatten into a single proper list
		all := append(cp, tail.list.items...)
		return Expr{tag: TagList, list: &listHandle{items: all}}
	}
	return Expr{tag: TagList, list: &listHandle{items: cp, dotted: true, tail: tail}}
}

func NewNil() Expr { return Expr{tag: TagList, list: &listHandle{}} }

func NewProcedure(p *Procedure) Expr { return Expr{tag: TagProc, proc: p} }

// Predicates

func (e Expr) IsVoid() bool   { return e.tag == TagVoid }
func (e Expr) IsBool() bool   { return e.tag == TagBool }
func (e Expr) IsInt() bool    { return e.tag == TagInt }
func (e Expr) IsFloat() bool  { return e.tag == TagFloat }
func (e Expr) IsNumber() bool { return e.tag == TagInt || e.tag == TagFloat }
func (e Expr) IsChar() bool   { return e.tag == TagChar }
func (e Expr) IsString() bool { return e.tag == TagString }
func (e Expr) IsSymbol() bool { return e.tag == TagSymbol }
func (e Expr) IsList() bool   { return e.tag == TagList }
func (e Expr) IsProc() bool   { return e.tag == TagProc }

func (e Expr) IsProperList() bool { return e.tag == TagList && !e.list.dotted }
func (e Expr) IsNil() bool        { return e.tag == TagList && !e.list.dotted && len(e.list.items) == 0 }

// IsTruthy implements Scheme truthiness: everything except #f is true.
func (e Expr) IsTruthy() bool {
	return !(e.tag == TagBool && e.b == false)
}

// Accessors - they do not check the tag. On a value of another variant
// the scalar accessors return their field's zero value (Float also
// converts an Integer), and the String/List accessors dereference a nil
// handle and panic; callers (builtins, the evaluator) check the tag
// first.

func (e Expr) Bool() bool { return e.b }
func (e Expr) Int() int64 { return e.i }
func (e Expr) Float() float64 {
	if e.tag == TagInt {
		return float64(e.i)
	}
	return e.f
}
func (e Expr) Char() rune     { return e.c }
func (e Expr) Symbol() Symbol { return e.sym }

func (e Expr) String() string {
	switch e.tag {
	case TagString:
		return string(e.str.runes)
	case TagSymbol:
		return string(e.sym)
	default:
		return Display(e)
	}
}

// Runes exposes the mutable backing slice of a String for in-place
// mutation by string-set!.
func (e Expr) Runes() []rune { return e.str.runes }
func (e Expr) SetRunes(r []rune) { e.str.runes = r }

// Items returns the element slice of a List (shared with the handle).
func (e Expr) Items() []Expr { return e.list.items }
func (e Expr) Len() int      { return len(e.list.items) }
func (e Expr) Dotted() bool  { return e.list.dotted }
func (e Expr) Tail() Expr    { return e.list.tail }

// setHandle replaces the handle's contents in place (set-cdr! uses
// this to splice without reallocating the handle, so other holders of
// the same List observe the mutation).
func (e Expr) setHandle(items []Expr, dotted bool, tail Expr) {
	e.list.items = items
	e.list.dotted = dotted
	e.list.tail = tail
}

// SetCdr mutates e in place to replace everything after its head with
// newTail, preserving the shared handle so every other holder of this
// List observes the change (set-cdr!).
func (e Expr) SetCdr(newTail Expr) {
	head := e.list.items[0]
	switch {
	case newTail.IsList() && !newTail.Dotted():
		e.setHandle(append([]Expr{head}, newTail.Items()...), false, Expr{})
	case newTail.IsList() && newTail.Dotted():
		e.setHandle(append([]Expr{head}, newTail.Items()...), true, newTail.Tail())
	default:
		e.setHandle([]Expr{head}, true, newTail)
	}
}

func (e Expr) Proc() *Procedure { return e.proc }

// identity returns a comparable key for eq?/eqv? on reference-shared
// variants; atoms compare by value and never reach this path.
func (e Expr) identity() any {
	switch e.tag {
	case TagString:
		return e.str
	case TagList:
		return e.list
	case TagProc:
		return e.proc
	default:
		return nil
	}
}

func (e Expr) GoString() string { return fmt.Sprintf("#<scm %v>", Display(e)) }
