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

import (
	"io"
	"os"

	"schemecore/scm"
)

func installIO(env *scm.Environment, out io.Writer) {
	env.Register("display", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		io.WriteString(out, scm.Display(args[0]))
		return val(scm.Void())
	})
	env.Register("write", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		io.WriteString(out, scm.Write(args[0]))
		return val(scm.Void())
	})
	env.Register("newline", scm.NativeValue, scm.Exact(0), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		io.WriteString(out, "\n")
		return val(scm.Void())
	})
}

func installControl(env *scm.Environment) {
	env.Register("gensym", scm.NativeValue, scm.Exact(0), func(args []scm.Expr, env *scm.Environment) (scm.Result, error) {
		return val(env.Gensym())
	})

	env.Register("error", scm.NativeValue, scm.AtLeast(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		msg := scm.Display(args[0])
		return scm.Result{}, &scm.EvalError{Kind: scm.ErrUserRaised, Message: msg, Payload: scm.NewProperList(args)}
	})

	env.Register("exit", scm.NativeValue, scm.RangeArity(0, 1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		code := 0
		if len(args) == 1 && args[0].IsInt() {
			code = int(args[0].Int())
		}
		os.Exit(code)
		return val(scm.Void())
	})

	env.Register("eval", scm.NativeValue, scm.RangeArity(1, 2), func(args []scm.Expr, env *scm.Environment) (scm.Result, error) {
		target := env.Root()
		if len(args) == 2 {
			// there is no first-class environment value: the second
			// argument is not inspected and the calling env is used.
			target = env
		}
		v, err := scm.Eval(args[0], target)
		if err != nil {
			return scm.Result{}, err
		}
		return val(v)
	})

	env.Register("map", scm.NativeValue, scm.AtLeast(2), func(args []scm.Expr, env *scm.Environment) (scm.Result, error) {
		procVal := args[0]
		if !procVal.IsProc() {
			return scm.Result{}, typeErr("map", "first argument must be a procedure")
		}
		lists := args[1:]
		length := -1
		for _, l := range lists {
			if !l.IsList() || l.Dotted() {
				return scm.Result{}, typeErr("map", "expected proper lists")
			}
			if length == -1 || l.Len() < length {
				length = l.Len()
			}
		}
		out := make([]scm.Expr, length)
		for i := 0; i < length; i++ {
			callArgs := make([]scm.Expr, len(lists))
			for j, l := range lists {
				callArgs[j] = l.Items()[i]
			}
			v, err := scm.Apply(procVal.Proc(), callArgs, env)
			if err != nil {
				return scm.Result{}, err
			}
			out[i] = v
		}
		return val(scm.NewProperList(out))
	})

	env.Register("for-each", scm.NativeValue, scm.AtLeast(2), func(args []scm.Expr, env *scm.Environment) (scm.Result, error) {
		procVal := args[0]
		if !procVal.IsProc() {
			return scm.Result{}, typeErr("for-each", "first argument must be a procedure")
		}
		lists := args[1:]
		length := -1
		for _, l := range lists {
			if !l.IsList() || l.Dotted() {
				return scm.Result{}, typeErr("for-each", "expected proper lists")
			}
			if length == -1 || l.Len() < length {
				length = l.Len()
			}
		}
		for i := 0; i < length; i++ {
			callArgs := make([]scm.Expr, len(lists))
			for j, l := range lists {
				callArgs[j] = l.Items()[i]
			}
			if _, err := scm.Apply(procVal.Proc(), callArgs, env); err != nil {
				return scm.Result{}, err
			}
		}
		return val(scm.Void())
	})

	// environment-bindings surfaces the root environment's sorted symbol
	// index for REPL introspection, backed by the btree-ordered table
	// every define writes through to.
	env.Register("environment-bindings", scm.NativeValue, scm.Exact(0), func(args []scm.Expr, env *scm.Environment) (scm.Result, error) {
		names := env.Bindings()
		out := make([]scm.Expr, len(names))
		for i, n := range names {
			out[i] = scm.NewSymbol(n)
		}
		return val(scm.NewProperList(out))
	})
}
