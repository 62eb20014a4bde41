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

import (
	"os"
	"path/filepath"
)

// InstallSpecialForms populates env with the evaluator's special
// forms. Each is an ordinary NativeSpecialForm procedure binding, so
// it is looked up and dispatched through the same path as any other
// procedure - the evaluator has no hardcoded notion of "if" or
// "lambda" beyond the names these bindings occupy in the root
// environment.
func InstallSpecialForms(env *Environment) {
	sf := func(name string, arity Arity, fn NativeFn) {
		env.Register(name, NativeSpecialForm, arity, fn)
	}

	sf("quote", Exact(1), func(args []Expr, env *Environment) (Result, error) {
		return Val(args[0]), nil
	})

	sf("if", RangeArity(2, 3), sfIf)
	sf("define", AtLeast(1), sfDefine)
	sf("set!", Exact(2), sfSet)
	sf("lambda", AtLeast(1), sfLambda)
	sf("begin", AtLeast(0), func(args []Expr, env *Environment) (Result, error) {
		return evalBodyTail(args, env)
	})
	sf("cond", AtLeast(0), sfCond)
	sf("and", AtLeast(0), sfAnd)
	sf("or", AtLeast(0), sfOr)
	sf("quasiquote", Exact(1), sfQuasiquote)
	sf("unquote", Exact(1), func(args []Expr, env *Environment) (Result, error) {
		return Result{}, newErr(ErrImproperForm, "unquote: not inside a quasiquote")
	})
	sf("unquote-splicing", Exact(1), func(args []Expr, env *Environment) (Result, error) {
		return Result{}, newErr(ErrImproperForm, "unquote-splicing: not inside a quasiquote")
	})
	sf("define-macro", AtLeast(1), sfDefineMacro)
	sf("let", AtLeast(1), sfLet)
	sf("let*", AtLeast(1), sfLetStar)
	sf("letrec", AtLeast(1), sfLetrec)
	sf("letrec*", AtLeast(1), sfLetrec)
	sf("do", AtLeast(2), sfDo)
	sf("include", Exact(1), func(args []Expr, env *Environment) (Result, error) {
		return sfIncludeOrLoad(args, env, false)
	})
	sf("load", Exact(1), func(args []Expr, env *Environment) (Result, error) {
		return sfIncludeOrLoad(args, env, true)
	})
}

func evalBodyTail(body []Expr, env *Environment) (Result, error) {
	if len(body) == 0 {
		return Val(Void()), nil
	}
	for _, b := range body[:len(body)-1] {
		if _, err := Eval(b, env); err != nil {
			return Result{}, err
		}
	}
	return Tail(body[len(body)-1], env), nil
}

func sfIf(args []Expr, env *Environment) (Result, error) {
	test, err := Eval(args[0], env)
	if err != nil {
		return Result{}, err
	}
	if test.IsTruthy() {
		return Tail(args[1], env), nil
	}
	if len(args) == 3 {
		return Tail(args[2], env), nil
	}
	return Val(Void()), nil
}

func buildLambda(formals Expr, body []Expr, env *Environment, name string) (*Procedure, error) {
	var params []Symbol
	var rest Symbol
	hasRest := false
	switch formals.Tag() {
	case TagSymbol:
		hasRest = true
		rest = formals.Symbol()
	case TagList:
		for _, it := range formals.Items() {
			if !it.IsSymbol() {
				return nil, newErr(ErrImproperForm, "lambda: formal parameters must be symbols")
			}
			params = append(params, it.Symbol())
		}
		if formals.Dotted() {
			tail := formals.Tail()
			if !tail.IsSymbol() {
				return nil, newErr(ErrImproperForm, "lambda: rest parameter must be a symbol")
			}
			hasRest = true
			rest = tail.Symbol()
		}
	default:
		return nil, newErr(ErrImproperForm, "lambda: invalid formal parameter list")
	}
	return &Procedure{Name: name, Kind: ProcLambda, Params: params, RestParam: rest, HasRest: hasRest, Body: body, Env: env}, nil
}

func sfLambda(args []Expr, env *Environment) (Result, error) {
	proc, err := buildLambda(args[0], args[1:], env, "")
	if err != nil {
		return Result{}, err
	}
	return Val(NewProcedure(proc)), nil
}

func sfDefine(args []Expr, env *Environment) (Result, error) {
	head := args[0]
	if head.IsSymbol() {
		if len(args) != 2 {
			return Result{}, newErr(ErrImproperForm, "define: expected (define name expr)")
		}
		val, err := Eval(args[1], env)
		if err != nil {
			return Result{}, err
		}
		env.Define(head.Symbol(), val)
		return Val(Void()), nil
	}
	if head.IsList() && head.Len() > 0 {
		items := head.Items()
		nameExpr := items[0]
		if !nameExpr.IsSymbol() {
			return Result{}, newErr(ErrImproperForm, "define: function name must be a symbol")
		}
		formals := NewDottedListLike(items[1:], head.Dotted(), head.Tail())
		if len(args) < 2 {
			return Result{}, newErr(ErrImproperForm, "define: function body must not be empty")
		}
		proc, err := buildLambda(formals, args[1:], env, string(nameExpr.Symbol()))
		if err != nil {
			return Result{}, err
		}
		env.Define(nameExpr.Symbol(), NewProcedure(proc))
		return Val(Void()), nil
	}
	return Result{}, newErr(ErrImproperForm, "define: invalid form")
}

// NewDottedListLike rebuilds a formals list that preserves the
// dotted-ness of the original (define (f a b . rest) ...) head once
// its leading name has been stripped off.
func NewDottedListLike(items []Expr, dotted bool, tail Expr) Expr {
	if dotted {
		return NewDottedList(items, tail)
	}
	return NewProperList(items)
}

func sfSet(args []Expr, env *Environment) (Result, error) {
	if !args[0].IsSymbol() {
		return Result{}, newErr(ErrImproperForm, "set!: first argument must be a symbol")
	}
	val, err := Eval(args[1], env)
	if err != nil {
		return Result{}, err
	}
	if !env.Set(args[0].Symbol(), val) {
		return Result{}, newErr(ErrAssignUnbound, "set!: unbound variable: "+string(args[0].Symbol()))
	}
	return Val(Void()), nil
}

func sfCond(args []Expr, env *Environment) (Result, error) {
	for _, clause := range args {
		if !clause.IsList() || clause.Len() == 0 {
			return Result{}, newErr(ErrImproperForm, "cond: clause must be a non-empty list")
		}
		items := clause.Items()
		test := items[0]
		if test.IsSymbol() && test.Symbol() == "else" {
			return evalBodyTail(items[1:], env)
		}
		tv, err := Eval(test, env)
		if err != nil {
			return Result{}, err
		}
		if !tv.IsTruthy() {
			continue
		}
		if len(items) >= 3 && items[1].IsSymbol() && items[1].Symbol() == "=>" {
			procVal, err := Eval(items[2], env)
			if err != nil {
				return Result{}, err
			}
			if !procVal.IsProc() {
				return Result{}, newErr(ErrNotApplicable, "cond =>: not a procedure")
			}
			res, err := Apply(procVal.Proc(), []Expr{tv}, env)
			if err != nil {
				return Result{}, err
			}
			return Val(res), nil
		}
		if len(items) == 1 {
			return Val(tv), nil
		}
		return evalBodyTail(items[1:], env)
	}
	return Val(Void()), nil
}

func sfAnd(args []Expr, env *Environment) (Result, error) {
	if len(args) == 0 {
		return Val(NewBool(true)), nil
	}
	for _, a := range args[:len(args)-1] {
		v, err := Eval(a, env)
		if err != nil {
			return Result{}, err
		}
		if !v.IsTruthy() {
			return Val(v), nil
		}
	}
	return Tail(args[len(args)-1], env), nil
}

func sfOr(args []Expr, env *Environment) (Result, error) {
	if len(args) == 0 {
		return Val(NewBool(false)), nil
	}
	for _, a := range args[:len(args)-1] {
		v, err := Eval(a, env)
		if err != nil {
			return Result{}, err
		}
		if v.IsTruthy() {
			return Val(v), nil
		}
	}
	return Tail(args[len(args)-1], env), nil
}

func sfQuasiquote(args []Expr, env *Environment) (Result, error) {
	result, err := expandQuasiquote(args[0], 1, env)
	if err != nil {
		return Result{}, err
	}
	return Val(result), nil
}

func sfDefineMacro(args []Expr, env *Environment) (Result, error) {
	head := args[0]
	if !head.IsList() || head.Len() == 0 {
		return Result{}, newErr(ErrImproperForm, "define-macro: expected (define-macro (name . params) body...)")
	}
	items := head.Items()
	nameExpr := items[0]
	if !nameExpr.IsSymbol() {
		return Result{}, newErr(ErrImproperForm, "define-macro: macro name must be a symbol")
	}
	formals := NewDottedListLike(items[1:], head.Dotted(), head.Tail())
	proc, err := buildLambda(formals, args[1:], env, string(nameExpr.Symbol()))
	if err != nil {
		return Result{}, err
	}
	env.DefineMacro(nameExpr.Symbol(), NewProcedure(proc))
	return Val(Void()), nil
}

func evalBindings(bindings Expr, evalEnv, defineEnv *Environment, sequential bool) error {
	if !bindings.IsList() {
		return newErr(ErrImproperForm, "let: bindings must be a list")
	}
	for _, b := range bindings.Items() {
		if !b.IsList() || b.Len() != 2 || !b.Items()[0].IsSymbol() {
			return newErr(ErrImproperForm, "let: each binding must be (name expr)")
		}
		pair := b.Items()
		env := evalEnv
		if sequential {
			env = defineEnv
		}
		v, err := Eval(pair[1], env)
		if err != nil {
			return err
		}
		defineEnv.Define(pair[0].Symbol(), v)
	}
	return nil
}

func sfLet(args []Expr, env *Environment) (Result, error) {
	if args[0].IsSymbol() {
		// named let: bind a self-referential lambda and tail-call it.
		if len(args) < 2 {
			return Result{}, newErr(ErrImproperForm, "named let: missing bindings")
		}
		name := args[0].Symbol()
		bindings := args[1]
		if !bindings.IsList() {
			return Result{}, newErr(ErrImproperForm, "named let: bindings must be a list")
		}
		var params []Symbol
		var initVals []Expr
		for _, b := range bindings.Items() {
			if !b.IsList() || b.Len() != 2 || !b.Items()[0].IsSymbol() {
				return Result{}, newErr(ErrImproperForm, "named let: each binding must be (name expr)")
			}
			pair := b.Items()
			v, err := Eval(pair[1], env)
			if err != nil {
				return Result{}, err
			}
			params = append(params, pair[0].Symbol())
			initVals = append(initVals, v)
		}
		loopEnv := env.Extend()
		proc := &Procedure{Name: string(name), Kind: ProcLambda, Params: params, Body: args[2:], Env: loopEnv}
		loopEnv.Define(name, NewProcedure(proc))
		child, err := bindLambda(proc, initVals)
		if err != nil {
			return Result{}, err
		}
		return evalBodyTail(proc.Body, child)
	}
	child := env.Extend()
	if err := evalBindings(args[0], env, child, false); err != nil {
		return Result{}, err
	}
	return evalBodyTail(args[1:], child)
}

func sfLetStar(args []Expr, env *Environment) (Result, error) {
	child := env.Extend()
	if err := evalBindings(args[0], env, child, true); err != nil {
		return Result{}, err
	}
	return evalBodyTail(args[1:], child)
}

func sfLetrec(args []Expr, env *Environment) (Result, error) {
	if !args[0].IsList() {
		return Result{}, newErr(ErrImproperForm, "letrec: bindings must be a list")
	}
	child := env.Extend()
	names := make([]Symbol, 0, args[0].Len())
	inits := make([]Expr, 0, args[0].Len())
	for _, b := range args[0].Items() {
		if !b.IsList() || b.Len() != 2 || !b.Items()[0].IsSymbol() {
			return Result{}, newErr(ErrImproperForm, "letrec: each binding must be (name expr)")
		}
		pair := b.Items()
		names = append(names, pair[0].Symbol())
		inits = append(inits, pair[1])
		child.Define(pair[0].Symbol(), Void())
	}
	for i, name := range names {
		v, err := Eval(inits[i], child)
		if err != nil {
			return Result{}, err
		}
		child.Define(name, v)
	}
	return evalBodyTail(args[1:], child)
}

func sfDo(args []Expr, env *Environment) (Result, error) {
	if !args[0].IsList() || !args[1].IsList() {
		return Result{}, newErr(ErrImproperForm, "do: malformed form")
	}
	bindings := args[0].Items()
	testClause := args[1].Items()
	body := args[2:]

	names := make([]Symbol, len(bindings))
	steps := make([]Expr, len(bindings))
	current := env.Extend()
	for i, b := range bindings {
		items := b.Items()
		if len(items) < 2 || !items[0].IsSymbol() {
			return Result{}, newErr(ErrImproperForm, "do: malformed variable spec")
		}
		v, err := Eval(items[1], env)
		if err != nil {
			return Result{}, err
		}
		names[i] = items[0].Symbol()
		current.Define(names[i], v)
		if len(items) >= 3 {
			steps[i] = items[2]
		} else {
			steps[i] = items[0]
		}
	}
	if len(testClause) == 0 {
		return Result{}, newErr(ErrImproperForm, "do: missing test clause")
	}
	for {
		t, err := Eval(testClause[0], current)
		if err != nil {
			return Result{}, err
		}
		if t.IsTruthy() {
			return evalBodyTail(testClause[1:], current)
		}
		for _, b := range body {
			if _, err := Eval(b, current); err != nil {
				return Result{}, err
			}
		}
		newVals := make([]Expr, len(steps))
		for i, s := range steps {
			v, err := Eval(s, current)
			if err != nil {
				return Result{}, err
			}
			newVals[i] = v
		}
		next := env.Extend()
		for i, name := range names {
			next.Define(name, newVals[i])
		}
		current = next
	}
}

func sfIncludeOrLoad(args []Expr, env *Environment, load bool) (Result, error) {
	pathVal, err := Eval(args[0], env)
	if err != nil {
		return Result{}, err
	}
	if !pathVal.IsString() {
		return Result{}, newErr(ErrTypeMismatch, "include/load: path must be a string")
	}
	path := pathVal.String()
	if !filepath.IsAbs(path) {
		path = filepath.Join(env.Cwd(), path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, newErr(ErrImproperForm, "include/load: "+err.Error())
	}
	forms, err := ReadAll(path, string(data))
	if err != nil {
		return Result{}, err
	}
	if load {
		root := env.Root()
		result := Void()
		for _, f := range forms {
			result, err = Eval(f, root)
			if err != nil {
				return Result{}, err
			}
		}
		return Val(result), nil
	}
	beginForm := NewProperList(append([]Expr{NewSymbol("begin")}, forms...))
	return Tail(beginForm, env), nil
}
