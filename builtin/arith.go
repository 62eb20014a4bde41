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

// Package builtin declares the native procedure library that is
// registered into the root environment: arithmetic, lists, strings,
// characters, predicates, equality, I/O and control-flow helpers. The
// evaluator core in package scm knows nothing about any of this; it
// only knows how to call a registered Procedure.
package builtin

import (
	"math"
	"strconv"

	"schemecore/scm"
)

func typeErr(name, msg string) error {
	return &scm.EvalError{Kind: scm.ErrTypeMismatch, Message: name + ": " + msg}
}

func wantNumber(name string, e scm.Expr) error {
	if !e.IsNumber() {
		return typeErr(name, "expected a number, got "+scm.Write(e))
	}
	return nil
}

func allInts(args []scm.Expr) bool {
	for _, a := range args {
		if !a.IsInt() {
			return false
		}
	}
	return true
}

func val(e scm.Expr) (scm.Result, error) { return scm.Val(e), nil }

func installArith(env *scm.Environment) {
	env.Register("+", scm.NativeValue, scm.AtLeast(0), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		for _, a := range args {
			if err := wantNumber("+", a); err != nil {
				return scm.Result{}, err
			}
		}
		if allInts(args) {
			var sum int64
			for _, a := range args {
				sum += a.Int()
			}
			return val(scm.NewInt(sum))
		}
		var sum float64
		for _, a := range args {
			sum += a.Float()
		}
		return val(scm.NewFloat(sum))
	})

	env.Register("-", scm.NativeValue, scm.AtLeast(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		for _, a := range args {
			if err := wantNumber("-", a); err != nil {
				return scm.Result{}, err
			}
		}
		if len(args) == 1 {
			if args[0].IsInt() {
				return val(scm.NewInt(-args[0].Int()))
			}
			return val(scm.NewFloat(-args[0].Float()))
		}
		if allInts(args) {
			v := args[0].Int()
			for _, a := range args[1:] {
				v -= a.Int()
			}
			return val(scm.NewInt(v))
		}
		v := args[0].Float()
		for _, a := range args[1:] {
			v -= a.Float()
		}
		return val(scm.NewFloat(v))
	})

	env.Register("*", scm.NativeValue, scm.AtLeast(0), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		for _, a := range args {
			if err := wantNumber("*", a); err != nil {
				return scm.Result{}, err
			}
		}
		if allInts(args) {
			v := int64(1)
			for _, a := range args {
				v *= a.Int()
			}
			return val(scm.NewInt(v))
		}
		v := 1.0
		for _, a := range args {
			v *= a.Float()
		}
		return val(scm.NewFloat(v))
	})

	env.Register("/", scm.NativeValue, scm.AtLeast(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		for _, a := range args {
			if err := wantNumber("/", a); err != nil {
				return scm.Result{}, err
			}
		}
		if len(args) == 1 {
			return val(scm.NewFloat(1.0 / args[0].Float()))
		}
		v := args[0].Float()
		for _, a := range args[1:] {
			v /= a.Float()
		}
		return val(scm.NewFloat(v))
	})

	cmp := func(name string, op func(a, b float64) bool) scm.NativeFn {
		return func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
			for i := 0; i+1 < len(args); i++ {
				if err := wantNumber(name, args[i]); err != nil {
					return scm.Result{}, err
				}
				if err := wantNumber(name, args[i+1]); err != nil {
					return scm.Result{}, err
				}
				if !op(args[i].Float(), args[i+1].Float()) {
					return val(scm.NewBool(false))
				}
			}
			return val(scm.NewBool(true))
		}
	}
	env.Register("=", scm.NativeValue, scm.AtLeast(1), cmp("=", func(a, b float64) bool { return a == b }))
	env.Register("<", scm.NativeValue, scm.AtLeast(1), cmp("<", func(a, b float64) bool { return a < b }))
	env.Register(">", scm.NativeValue, scm.AtLeast(1), cmp(">", func(a, b float64) bool { return a > b }))
	env.Register("<=", scm.NativeValue, scm.AtLeast(1), cmp("<=", func(a, b float64) bool { return a <= b }))
	env.Register(">=", scm.NativeValue, scm.AtLeast(1), cmp(">=", func(a, b float64) bool { return a >= b }))

	env.Register("quotient", scm.NativeValue, scm.Exact(2), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsInt() || !args[1].IsInt() {
			return scm.Result{}, typeErr("quotient", "expected integers")
		}
		if args[1].Int() == 0 {
			return scm.Result{}, typeErr("quotient", "division by zero")
		}
		return val(scm.NewInt(args[0].Int() / args[1].Int()))
	})
	env.Register("remainder", scm.NativeValue, scm.Exact(2), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsInt() || !args[1].IsInt() {
			return scm.Result{}, typeErr("remainder", "expected integers")
		}
		if args[1].Int() == 0 {
			return scm.Result{}, typeErr("remainder", "division by zero")
		}
		return val(scm.NewInt(args[0].Int() % args[1].Int()))
	})
	env.Register("modulo", scm.NativeValue, scm.Exact(2), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsInt() || !args[1].IsInt() {
			return scm.Result{}, typeErr("modulo", "expected integers")
		}
		b := args[1].Int()
		if b == 0 {
			return scm.Result{}, typeErr("modulo", "division by zero")
		}
		m := args[0].Int() % b
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return val(scm.NewInt(m))
	})

	env.Register("abs", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if args[0].IsInt() {
			n := args[0].Int()
			if n < 0 {
				n = -n
			}
			return val(scm.NewInt(n))
		}
		return val(scm.NewFloat(math.Abs(args[0].Float())))
	})

	minmax := func(name string, better func(a, b float64) bool) scm.NativeFn {
		return func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
			best := args[0]
			inexact := best.IsFloat()
			for _, a := range args[1:] {
				if a.IsFloat() {
					inexact = true
				}
				if better(a.Float(), best.Float()) {
					best = a
				}
			}
			if inexact && best.IsInt() {
				return val(scm.NewFloat(best.Float()))
			}
			return val(best)
		}
	}
	env.Register("min", scm.NativeValue, scm.AtLeast(1), minmax("min", func(a, b float64) bool { return a < b }))
	env.Register("max", scm.NativeValue, scm.AtLeast(1), minmax("max", func(a, b float64) bool { return a > b }))

	env.Register("expt", scm.NativeValue, scm.Exact(2), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if args[0].IsInt() && args[1].IsInt() && args[1].Int() >= 0 {
			r := int64(1)
			base := args[0].Int()
			for i := int64(0); i < args[1].Int(); i++ {
				r *= base
			}
			return val(scm.NewInt(r))
		}
		return val(scm.NewFloat(math.Pow(args[0].Float(), args[1].Float())))
	})
	env.Register("sqrt", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		return val(scm.NewFloat(math.Sqrt(args[0].Float())))
	})
	for _, f := range []struct {
		name string
		fn   func(float64) float64
	}{
		{"sin", math.Sin}, {"cos", math.Cos}, {"tan", math.Tan},
		{"asin", math.Asin}, {"acos", math.Acos}, {"atan", math.Atan},
		{"exp", math.Exp}, {"log", math.Log}, {"floor", math.Floor},
		{"ceiling", math.Ceil}, {"round", math.Round}, {"truncate", math.Trunc},
	} {
		fn := f.fn
		env.Register(f.name, scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
			return val(scm.NewFloat(fn(args[0].Float())))
		})
	}

	pred := func(name string, p func(scm.Expr) bool) {
		env.Register(name, scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
			return val(scm.NewBool(p(args[0])))
		})
	}
	pred("zero?", func(e scm.Expr) bool { return e.IsNumber() && e.Float() == 0 })
	pred("positive?", func(e scm.Expr) bool { return e.IsNumber() && e.Float() > 0 })
	pred("negative?", func(e scm.Expr) bool { return e.IsNumber() && e.Float() < 0 })
	pred("even?", func(e scm.Expr) bool { return e.IsInt() && e.Int()%2 == 0 })
	pred("odd?", func(e scm.Expr) bool { return e.IsInt() && e.Int()%2 != 0 })
	pred("number?", func(e scm.Expr) bool { return e.IsNumber() })
	pred("integer?", func(e scm.Expr) bool { return e.IsInt() })
	pred("real?", func(e scm.Expr) bool { return e.IsNumber() })

	env.Register("exact->inexact", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		return val(scm.NewFloat(args[0].Float()))
	})
	env.Register("inexact->exact", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		return val(scm.NewInt(int64(args[0].Float())))
	})
	env.Register("number->string", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if err := wantNumber("number->string", args[0]); err != nil {
			return scm.Result{}, err
		}
		return val(scm.NewString(scm.Display(args[0])))
	})
	env.Register("string->number", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsString() {
			return scm.Result{}, typeErr("string->number", "expected a string")
		}
		s := args[0].String()
		if iv, err := strconv.ParseInt(s, 10, 64); err == nil {
			return val(scm.NewInt(iv))
		}
		if fv, err := strconv.ParseFloat(s, 64); err == nil {
			return val(scm.NewFloat(fv))
		}
		return val(scm.NewBool(false))
	})
}
