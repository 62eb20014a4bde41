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

func installEquality(env *scm.Environment) {
	env.Register("eq?", scm.NativeValue, scm.Exact(2), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		return val(scm.NewBool(scm.Eq(args[0], args[1])))
	})
	env.Register("eqv?", scm.NativeValue, scm.Exact(2), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		return val(scm.NewBool(scm.Eqv(args[0], args[1])))
	})
	env.Register("equal?", scm.NativeValue, scm.Exact(2), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		return val(scm.NewBool(scm.Equal(args[0], args[1])))
	})
	env.Register("not", scm.NativeValue, scm.Exact(1), func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
		return val(scm.NewBool(!args[0].IsTruthy()))
	})
}
