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
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"schemecore/scm"
)

var (
	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)
	title = cases.Title(language.Und)
)

func installStrings(env *scm.Environment) {
	env.Register("string-length", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsString() {
			return scm.Result{}, typeErr("string-length", "expected a string")
		}
		return val(scm.NewInt(int64(len(args[0].Runes()))))
	})

	env.Register("string-ref", scm.NativeValue, scm.Exact(2), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsString() || !args[1].IsInt() {
			return scm.Result{}, typeErr("string-ref", "expected (string int)")
		}
		r := args[0].Runes()
		i := args[1].Int()
		if i < 0 || int(i) >= len(r) {
			return scm.Result{}, typeErr("string-ref", "index out of range")
		}
		return val(scm.NewChar(r[i]))
	})

	env.Register("string-set!", scm.NativeValue, scm.Exact(3), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsString() || !args[1].IsInt() || !args[2].IsChar() {
			return scm.Result{}, typeErr("string-set!", "expected (string int char)")
		}
		r := args[0].Runes()
		i := args[1].Int()
		if i < 0 || int(i) >= len(r) {
			return scm.Result{}, typeErr("string-set!", "index out of range")
		}
		r[i] = args[2].Char()
		return val(scm.Void())
	})

	env.Register("make-string", scm.NativeValue, scm.RangeArity(1, 2), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsInt() {
			return scm.Result{}, typeErr("make-string", "expected an integer length")
		}
		fill := ' '
		if len(args) == 2 {
			if !args[1].IsChar() {
				return scm.Result{}, typeErr("make-string", "expected a char fill")
			}
			fill = args[1].Char()
		}
		r := make([]rune, args[0].Int())
		for i := range r {
			r[i] = fill
		}
		return val(scm.NewString(string(r)))
	})

	env.Register("substring", scm.NativeValue, scm.RangeArity(2, 3), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsString() || !args[1].IsInt() {
			return scm.Result{}, typeErr("substring", "expected (string int [int])")
		}
		r := args[0].Runes()
		start := int(args[1].Int())
		end := len(r)
		if len(args) == 3 {
			if !args[2].IsInt() {
				return scm.Result{}, typeErr("substring", "expected an integer end")
			}
			end = int(args[2].Int())
		}
		if start < 0 || end > len(r) || start > end {
			return scm.Result{}, typeErr("substring", "index out of range")
		}
		return val(scm.NewString(string(r[start:end])))
	})

	env.Register("string-append", scm.NativeValue, scm.AtLeast(0), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		var b strings.Builder
		for _, a := range args {
			if !a.IsString() {
				return scm.Result{}, typeErr("string-append", "expected strings")
			}
			b.WriteString(a.String())
		}
		return val(scm.NewString(b.String()))
	})

	env.Register("string->list", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsString() {
			return scm.Result{}, typeErr("string->list", "expected a string")
		}
		r := args[0].Runes()
		out := make([]scm.Expr, len(r))
		for i, c := range r {
			out[i] = scm.NewChar(c)
		}
		return val(scm.NewProperList(out))
	})

	env.Register("list->string", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsList() || args[0].Dotted() {
			return scm.Result{}, typeErr("list->string", "expected a proper list of chars")
		}
		var b strings.Builder
		for _, c := range args[0].Items() {
			if !c.IsChar() {
				return scm.Result{}, typeErr("list->string", "expected chars")
			}
			b.WriteRune(c.Char())
		}
		return val(scm.NewString(b.String()))
	})

	env.Register("string->symbol", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsString() {
			return scm.Result{}, typeErr("string->symbol", "expected a string")
		}
		return val(scm.NewSymbol(args[0].String()))
	})
	env.Register("symbol->string", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsSymbol() {
			return scm.Result{}, typeErr("symbol->string", "expected a symbol")
		}
		return val(scm.NewString(string(args[0].Symbol())))
	})

	// Unicode-correct casing, grounded on the language-tag-aware case
	// folding routines rather than a naive byte-wise ASCII transform.
	env.Register("string-upcase", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsString() {
			return scm.Result{}, typeErr("string-upcase", "expected a string")
		}
		return val(scm.NewString(upper.String(args[0].String())))
	})
	env.Register("string-downcase", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsString() {
			return scm.Result{}, typeErr("string-downcase", "expected a string")
		}
		return val(scm.NewString(lower.String(args[0].String())))
	})
	env.Register("string-titlecase", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsString() {
			return scm.Result{}, typeErr("string-titlecase", "expected a string")
		}
		return val(scm.NewString(title.String(args[0].String())))
	})

	env.Register("string=?", scm.NativeValue, scm.AtLeast(1), strCmp(func(a, b string) bool { return a == b }))
	env.Register("string<?", scm.NativeValue, scm.AtLeast(1), strCmp(func(a, b string) bool { return a < b }))
	env.Register("string>?", scm.NativeValue, scm.AtLeast(1), strCmp(func(a, b string) bool { return a > b }))

	env.Register("string?", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		return val(scm.NewBool(args[0].IsString()))
	})
	env.Register("char?", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		return val(scm.NewBool(args[0].IsChar()))
	})
	env.Register("symbol?", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		return val(scm.NewBool(args[0].IsSymbol()))
	})
	env.Register("boolean?", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		return val(scm.NewBool(args[0].IsBool()))
	})
	env.Register("procedure?", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		return val(scm.NewBool(args[0].IsProc()))
	})

	env.Register("char->integer", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsChar() {
			return scm.Result{}, typeErr("char->integer", "expected a char")
		}
		return val(scm.NewInt(int64(args[0].Char())))
	})
	env.Register("integer->char", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		if !args[0].IsInt() {
			return scm.Result{}, typeErr("integer->char", "expected an integer")
		}
		return val(scm.NewChar(rune(args[0].Int())))
	})
}

func strCmp(op func(a, b string) bool) scm.NativeFn {
	return func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		for i := 0; i+1 < len(args); i++ {
			if !args[i].IsString() || !args[i+1].IsString() {
				return scm.Result{}, typeErr("string compare", "expected strings")
			}
			if !op(args[i].String(), args[i+1].String()) {
				return val(scm.NewBool(false))
			}
		}
		return val(scm.NewBool(true))
	}
}
