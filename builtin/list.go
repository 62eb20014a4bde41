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

package builtin

import "schemecore/scm"

// installLists declares the list primitives (cons, car, cdr, the set-*!
// mutators, list, the predicates over the list representation) and
// apply. Most utilities composable out of these - length, reverse,
// append, member, assoc, caar..cddddr - live in the bundled prelude;
// map and for-each are native builtins in control.go.
func installLists(env *scm.Environment) {
	env.Register("cons", scm.NativeValue, scm.Exact(2), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		head, tail := args[0], args[1]
		if tail.IsList() && !tail.Dotted() {
			items := append([]scm.Expr{head}, tail.Items()...)
			return val(scm.NewProperList(items))
		}
		if tail.IsList() && tail.Dotted() {
			items := append([]scm.Expr{head}, tail.Items()...)
			return val(scm.NewDottedList(items, tail.Tail()))
		}
		return val(scm.NewDottedList([]scm.Expr{head}, tail))
	})

	env.Register("car", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsList() || args[0].Len() == 0 {
			return scm.Result{}, typeErr("car", "expected a non-empty list")
		}
		return val(args[0].Items()[0])
	})

	env.Register("cdr", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		l := args[0]
		if !l.IsList() || l.Len() == 0 {
			return scm.Result{}, typeErr("cdr", "expected a non-empty list")
		}
		rest := l.Items()[1:]
		if l.Dotted() && len(rest) == 0 {
			return val(l.Tail())
		}
		if l.Dotted() {
			return val(scm.NewDottedList(rest, l.Tail()))
		}
		return val(scm.NewProperList(rest))
	})

	env.Register("set-car!", scm.NativeValue, scm.Exact(2), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		l := args[0]
		if !l.IsList() || l.Len() == 0 {
			return scm.Result{}, typeErr("set-car!", "expected a non-empty list")
		}
		l.Items()[0] = args[1]
		return val(scm.Void())
	})

	env.Register("set-cdr!", scm.NativeValue, scm.Exact(2), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		l := args[0]
		if !l.IsList() || l.Len() == 0 {
			return scm.Result{}, typeErr("set-cdr!", "expected a non-empty list")
		}
		l.SetCdr(args[1])
		return val(scm.Void())
	})

	env.Register("list", scm.NativeValue, scm.AtLeast(0), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		return val(scm.NewProperList(args))
	})

	pred := func(name string, p func(scm.Expr) bool) {
		env.Register(name, scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
			return val(scm.NewBool(p(args[0])))
		})
	}
	pred("pair?", func(e scm.Expr) bool { return e.IsList() && (e.Len() > 0 || e.Dotted()) })
	pred("null?", func(e scm.Expr) bool { return e.IsList() && e.Len() == 0 && !e.Dotted() })
	pred("list?", func(e scm.Expr) bool { return e.IsList() && !e.Dotted() })

	env.Register("apply", scm.NativeValue, scm.AtLeast(2), func(args []scm.Expr, env *scm.Environment) (scm.Result, error) {
		procVal := args[0]
		if !procVal.IsProc() {
			return scm.Result{}, typeErr("apply", "first argument must be a procedure")
		}
		last := args[len(args)-1]
		if !last.IsList() {
			return scm.Result{}, typeErr("apply", "last argument must be a list")
		}
		flat := append([]scm.Expr{}, args[1:len(args)-1]...)
		flat = append(flat, last.Items()...)
		res, err := scm.Apply(procVal.Proc(), flat, env)
		if err != nil {
			return scm.Result{}, err
		}
		return val(res)
	})
}
