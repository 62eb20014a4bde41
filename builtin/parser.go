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
	packrat "github.com/launix-de/go-packrat/v2"

	"schemecore/scm"
)

// grammarParser is the generator-carrying wrapper around a compiled
// packrat.Parser, mirroring the role a user-definable PEG parser plays
// in the value language: it is itself callable, so (parser ...) returns
// an ordinary procedure that turns input text into Scheme data.
type grammarParser struct {
	root      packrat.Parser
	generator scm.Expr
	hasGen    bool
	env       *scm.Environment
}

// Match lets a grammarParser act as an ordinary packrat.Parser, so the
// node produced by a full parse carries the grammarParser itself in
// its Parser field and extractNode can tell "this is where a generator
// runs" apart from the grammar's internal nodes.
func (p *grammarParser) Match(s *packrat.Scanner) *packrat.Node {
	m := p.root.Match(s)
	if m == nil {
		return nil
	}
	return &packrat.Node{Matched: m.Matched, Start: m.Start, Parser: p, Children: []*packrat.Node{m}}
}

// namedParser marks the slot a (define var sub) clause inside a syntax
// spec writes its submatch into.
type namedParser struct {
	sub packrat.Parser
	sym scm.Symbol
}

func (p *namedParser) Match(s *packrat.Scanner) *packrat.Node {
	m := p.sub.Match(s)
	if m == nil {
		return nil
	}
	return &packrat.Node{Matched: m.Matched, Start: m.Start, Parser: p, Children: []*packrat.Node{m}}
}

// forwardParser resolves a self- or mutually-recursive grammar rule by
// looking the named procedure up in env lazily, on first match attempt,
// the same trick the surrounding toolkit uses for forward declarations.
type forwardParser struct {
	env    *scm.Environment
	sym    scm.Symbol
	cached packrat.Parser
}

func (p *forwardParser) Match(s *packrat.Scanner) *packrat.Node {
	if p.cached == nil {
		v, ok := p.env.Get(p.sym)
		if !ok || !v.IsProc() {
			panic("parser: variable does not hold a parser: " + string(p.sym))
		}
		gp, ok := v.Proc().Payload.(*grammarParser)
		if !ok {
			panic("parser: variable does not hold a parser: " + string(p.sym))
		}
		p.cached = gp.root
	}
	return p.cached.Match(s)
}

func compileSyntax(syntax scm.Expr, env *scm.Environment) packrat.Parser {
	switch {
	case syntax.IsString():
		return packrat.NewAtomParser(syntax.String(), false, true)
	case syntax.IsSymbol():
		name := string(syntax.Symbol())
		switch name {
		case "$":
			return packrat.NewEndParser(true)
		case "empty":
			return packrat.NewEmptyParser()
		}
		return &forwardParser{env: env, sym: syntax.Symbol()}
	case syntax.IsList() && syntax.Len() > 0:
		items := syntax.Items()
		head := items[0]
		if !head.IsSymbol() {
			panic("parser: invalid syntax spec")
		}
		switch string(head.Symbol()) {
		case "atom":
			ci, skip := false, true
			if len(items) > 2 {
				ci = items[2].IsTruthy()
			}
			if len(items) > 3 {
				skip = items[3].IsTruthy()
			}
			return packrat.NewAtomParser(items[1].String(), ci, skip)
		case "regex":
			ci, skip := false, true
			if len(items) > 2 {
				ci = items[2].IsTruthy()
			}
			if len(items) > 3 {
				skip = items[3].IsTruthy()
			}
			return packrat.NewRegexParser(items[1].String(), ci, skip)
		case "list":
			sub := make([]packrat.Parser, len(items)-1)
			for i := 1; i < len(items); i++ {
				sub[i-1] = compileSyntax(items[i], env)
			}
			return packrat.NewAndParser(sub...)
		case "or":
			sub := make([]packrat.Parser, len(items)-1)
			for i := 1; i < len(items); i++ {
				sub[i-1] = compileSyntax(items[i], env)
			}
			return packrat.NewOrParser(sub...)
		case "*":
			sep := packrat.Parser(packrat.NewEmptyParser())
			if len(items) > 2 {
				sep = compileSyntax(items[2], env)
			}
			return packrat.NewKleeneParser(compileSyntax(items[1], env), sep)
		case "+":
			sep := packrat.Parser(packrat.NewEmptyParser())
			if len(items) > 2 {
				sep = compileSyntax(items[2], env)
			}
			return packrat.NewManyParser(compileSyntax(items[1], env), sep)
		case "?":
			if len(items) == 2 {
				return packrat.NewMaybeParser(compileSyntax(items[1], env))
			}
			sub := make([]packrat.Parser, len(items)-1)
			for i := 1; i < len(items); i++ {
				sub[i-1] = compileSyntax(items[i], env)
			}
			return packrat.NewMaybeParser(packrat.NewAndParser(sub...))
		case "define":
			return &namedParser{sub: compileSyntax(items[2], env), sym: items[1].Symbol()}
		}
	}
	panic("parser: unknown syntax form " + scm.Write(syntax))
}

func collectNamed(n *packrat.Node, into *scm.Environment) {
	if np, ok := n.Parser.(*namedParser); ok {
		into.Define(np.sym, extractNode(n.Children[0], into))
		return
	}
	for _, c := range n.Children {
		collectNamed(c, into)
	}
}

func extractNode(n *packrat.Node, env *scm.Environment) scm.Expr {
	switch p := n.Parser.(type) {
	case *grammarParser:
		if !p.hasGen {
			return extractNode(n.Children[0], env)
		}
		sub := env.Extend()
		collectNamed(n.Children[0], sub)
		v, err := scm.Eval(p.generator, sub)
		if err != nil {
			panic(err)
		}
		return v
	case *packrat.KleeneParser, *packrat.ManyParser:
		items := make([]scm.Expr, 0, len(n.Children))
		for _, c := range n.Children {
			items = append(items, extractNode(c, env))
		}
		return scm.NewProperList(items)
	case *packrat.MaybeParser:
		if len(n.Children) == 0 {
			return scm.NewBool(false)
		}
		return extractNode(n.Children[0], env)
	case *packrat.OrParser:
		return extractNode(n.Children[0], env)
	case *namedParser:
		return extractNode(n.Children[0], env)
	default:
		_ = p
		return scm.NewString(n.Matched)
	}
}

// installParser wires the user-definable PEG grammar builtin.
func installParser(env *scm.Environment) {
	env.Register("parser", scm.NativeSpecialForm, scm.RangeArity(1, 2), func(raw []scm.Expr, callEnv *scm.Environment) (scm.Result, error) {
		gp := &grammarParser{env: callEnv}
		gp.root = compileSyntax(raw[0], callEnv)
		if len(raw) == 2 {
			gp.generator = raw[1]
			gp.hasGen = true
		}
		proc := &scm.Procedure{
			Kind:       scm.ProcNative,
			NativeKind: scm.NativeValue,
			Arity:      scm.Exact(1),
			Name:       "parser",
			Payload:    gp,
			Fn: func(args []scm.Expr, _ *scm.Environment) (scm.Result, error) {
				if !args[0].IsString() {
					return scm.Result{}, typeErr("parser", "expected a string to parse")
				}
				scanner := packrat.NewScanner(args[0].String(), packrat.SkipWhitespaceAndCommentsRegex)
				node, err := packrat.Parse(gp, scanner)
				if err != nil {
					return scm.Result{}, &scm.EvalError{Kind: scm.ErrParse, Message: err.Error()}
				}
				return val(extractNode(node, gp.env))
			},
		}
		return val(scm.NewProcedure(proc))
	})
}
