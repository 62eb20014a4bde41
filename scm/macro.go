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

// expandMacroStep expands one layer if form's head is bound in the
// macro namespace: the unevaluated argument forms are passed to the
// transformer as data and its return value replaces the form. The
// caller re-expands until this returns didExpand=false, so that a
// macro's own output may itself begin with another macro.
func expandMacroStep(env *Environment, form Expr) (expanded Expr, didExpand bool, err error) {
	if !form.IsList() || form.Dotted() || form.Len() == 0 {
		return form, false, nil
	}
	items := form.Items()
	head := items[0]
	if !head.IsSymbol() {
		return form, false, nil
	}
	transformer, ok := env.GetMacro(head.Symbol())
	if !ok {
		return form, false, nil
	}
	out, err := Apply(transformer.Proc(), items[1:], env)
	if err != nil {
		if ee, ok := ErrorOf(err); ok {
			return Expr{}, false, &EvalError{Kind: ErrMacroExpansion, Message: "expanding " + string(head.Symbol()) + ": " + ee.Message, Loc: ee.Loc}
		}
		return Expr{}, false, err
	}
	return out, true, nil
}

// ExpandMacros repeatedly expands form until its head is no longer a
// macro in env's macro namespace.
func ExpandMacros(env *Environment, form Expr) (Expr, error) {
	for {
		next, did, err := expandMacroStep(env, form)
		if err != nil {
			return Expr{}, err
		}
		if !did {
			return form, nil
		}
		form = next
	}
}

var symUnquote = Symbol("unquote")
var symUnquoteSplicing = Symbol("unquote-splicing")
var symQuasiquote = Symbol("quasiquote")

// expandQuasiquote implements the quasiquote template substitution:
// ,x is replaced by the evaluation of x, ,@x is spliced in place
// (its value must be a list), and each nested quasiquote increases a
// depth counter that unquote/unquote-splicing decrement; substitution
// only happens at depth zero (tracked here as depth==1 at the point of
// an unquote, since we enter with depth==1 for the outermost template).
func expandQuasiquote(expr Expr, depth int, env *Environment) (Expr, error) {
	if !expr.IsList() {
		return expr, nil
	}
	items := expr.Items()
	if !expr.Dotted() && len(items) == 2 && items[0].IsSymbol() {
		switch items[0].Symbol() {
		case symUnquote:
			if depth == 1 {
				return Eval(items[1], env)
			}
			inner, err := expandQuasiquote(items[1], depth-1, env)
			if err != nil {
				return Expr{}, err
			}
			return NewProperList([]Expr{NewSymbol("unquote"), inner}), nil
		case symQuasiquote:
			inner, err := expandQuasiquote(items[1], depth+1, env)
			if err != nil {
				return Expr{}, err
			}
			return NewProperList([]Expr{NewSymbol("quasiquote"), inner}), nil
		}
	}

	result := make([]Expr, 0, len(items))
	for _, it := range items {
		if isUnquoteSplice(it) {
			spliceArg := it.Items()[1]
			if depth == 1 {
				spliced, err := Eval(spliceArg, env)
				if err != nil {
					return Expr{}, err
				}
				if !spliced.IsList() {
					return Expr{}, newErr(ErrTypeMismatch, "unquote-splicing requires a list result")
				}
				result = append(result, spliced.Items()...)
				continue
			}
			inner, err := expandQuasiquote(spliceArg, depth-1, env)
			if err != nil {
				return Expr{}, err
			}
			result = append(result, NewProperList([]Expr{NewSymbol("unquote-splicing"), inner}))
			continue
		}
		ex, err := expandQuasiquote(it, depth, env)
		if err != nil {
			return Expr{}, err
		}
		result = append(result, ex)
	}
	if expr.Dotted() {
		tail, err := expandQuasiquote(expr.Tail(), depth, env)
		if err != nil {
			return Expr{}, err
		}
		return NewDottedList(result, tail), nil
	}
	return NewProperList(result), nil
}

func isUnquoteSplice(e Expr) bool {
	return e.IsList() && !e.Dotted() && e.Len() == 2 && e.Items()[0].IsSymbol() && e.Items()[0].Symbol() == symUnquoteSplicing
}
