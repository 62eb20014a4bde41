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

// Eval is a loop over a mutable (expr, env) pair, driven by tail-call
// signals returned from special forms and procedure application. It
// never recurses through the host stack for a Scheme tail call: a
// TailCall result re-seats expr/env and the for loop continues, the
// technique the evaluator's source corpus implements with a goto to a
// restart label. Using an explicit discriminated Result instead of a
// literal goto keeps the same O(1)-host-frame guarantee while staying
// ordinary structured Go.
func Eval(expr Expr, env *Environment) (Expr, error) {
	for {
		switch expr.Tag() {
		case TagVoid, TagBool, TagInt, TagFloat, TagChar, TagString, TagProc:
			return expr, nil
		case TagSymbol:
			v, ok := env.Get(expr.Symbol())
			if !ok {
				return Expr{}, newErr(ErrUnboundSymbol, "unbound symbol: "+string(expr.Symbol()))
			}
			return v, nil
		case TagList:
			if expr.Len() == 0 && !expr.Dotted() {
				return Expr{}, newErr(ErrImproperForm, "cannot evaluate empty combination ()")
			}

			expanded, err := ExpandMacros(env, expr)
			if err != nil {
				return Expr{}, err
			}
			expr = expanded
			if !expr.IsList() {
				continue
			}
			if expr.Len() == 0 && !expr.Dotted() {
				return expr, nil
			}

			items := expr.Items()
			head := items[0]
			operands := items[1:]

			procVal, err := Eval(head, env)
			if err != nil {
				return Expr{}, err
			}
			if !procVal.IsProc() {
				return Expr{}, newErr(ErrNotApplicable, Display(procVal)+" is not applicable")
			}
			proc := procVal.Proc()

			if proc.Kind == ProcNative && proc.NativeKind == NativeSpecialForm {
				if !proc.ArityOK(len(operands)) {
					return Expr{}, arityErr(proc, len(operands))
				}
				res, err := proc.Fn(operands, env)
				if err != nil {
					return Expr{}, err
				}
				if res.IsTail() {
					expr, env = res.expr, res.env
					continue
				}
				return res.val, nil
			}

			args := make([]Expr, len(operands))
			for i, o := range operands {
				v, err := Eval(o, env)
				if err != nil {
					return Expr{}, err
				}
				args[i] = v
			}

			if proc.Kind == ProcNative {
				if !proc.ArityOK(len(args)) {
					return Expr{}, arityErr(proc, len(args))
				}
				res, err := proc.Fn(args, env)
				if err != nil {
					return Expr{}, err
				}
				if res.IsTail() {
					expr, env = res.expr, res.env
					continue
				}
				return res.val, nil
			}

			// Lambda application: bind parameters in a child of the
			// *captured* environment and tail into the body - this is the
			// trampoline step that gives Scheme tail calls O(1) host frames.
			child, err := bindLambda(proc, args)
			if err != nil {
				return Expr{}, err
			}
			if len(proc.Body) == 0 {
				return Void(), nil
			}
			for _, b := range proc.Body[:len(proc.Body)-1] {
				if _, err := Eval(b, child); err != nil {
					return Expr{}, err
				}
			}
			expr, env = proc.Body[len(proc.Body)-1], child
			continue
		}
		return expr, nil
	}
}

// Apply is the non-tail entry point used by builtins (map, for-each,
// apply) and by the macro expander: it evaluates one application to
// completion without participating in the caller's tail position. It
// duplicates the apply logic of Eval's loop body - the same technique
// the evaluator's source corpus uses to get its own tail call right.
func Apply(proc *Procedure, args []Expr, env *Environment) (Expr, error) {
	if proc == nil {
		return Expr{}, newErr(ErrNotApplicable, "nil is not applicable")
	}
	if proc.Kind == ProcNative {
		if !proc.ArityOK(len(args)) {
			return Expr{}, arityErr(proc, len(args))
		}
		res, err := proc.Fn(args, env)
		if err != nil {
			return Expr{}, err
		}
		if res.IsTail() {
			return Eval(res.expr, res.env)
		}
		return res.val, nil
	}
	child, err := bindLambda(proc, args)
	if err != nil {
		return Expr{}, err
	}
	var result Expr = Void()
	for _, b := range proc.Body {
		result, err = Eval(b, child)
		if err != nil {
			return Expr{}, err
		}
	}
	return result, nil
}

func bindLambda(proc *Procedure, args []Expr) (*Environment, error) {
	if !proc.ArityOK(len(args)) {
		return nil, arityErr(proc, len(args))
	}
	child := proc.Env.Extend()
	for i, p := range proc.Params {
		child.Define(p, args[i])
	}
	if proc.HasRest {
		child.Define(proc.RestParam, NewProperList(args[len(proc.Params):]))
	}
	return child, nil
}

func arityErr(proc *Procedure, got int) error {
	name := proc.Name
	if name == "" {
		name = "lambda"
	}
	return newErr(ErrArityMismatch, name+": expected "+proc.ArityDesc()+" argument(s), got "+itoa(got))
}
