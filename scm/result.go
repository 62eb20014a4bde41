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

package scm

// Result is the discriminated return of special-form handlers and of
// the apply path: either a terminal Value or a TailCall that re-seats
// the evaluator loop instead of recursing through the host stack. This
// is what makes tail calls in `if`, `begin`, `cond`, `let`, `and`,
// `or` and lambda bodies cost O(1) host stack frames.
type Result struct {
	tail bool
	val  Expr
	expr Expr
	env  *Environment
}

// Val wraps a terminal value: the evaluator loop stops here.
func Val(v Expr) Result { return Result{val: v} }

// Tail wraps an (expr, env) pair that the evaluator loop should
// continue evaluating in place of growing the host call stack.
func Tail(expr Expr, env *Environment) Result {
	return Result{tail: true, expr: expr, env: env}
}

func (r Result) IsTail() bool { return r.tail }
