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

// Package engine is the embedding API: one Engine wraps a root
// environment, the native builtin set and the bundled standard library,
// and exposes a minimal surface (Eval, RegisterFn, Env, SetCwd) to host
// Go programs that want a Scheme evaluator without assembling package
// scm's pieces themselves. Values and native functions are still the
// types of package scm.
package engine

import (
	"io"
	"os"

	"github.com/google/uuid"

	"schemecore/builtin"
	"schemecore/prelude"
	"schemecore/scm"
)

// Engine is one isolated Scheme world: its own root environment, hence
// its own global definitions, gensym counter and working directory.
type Engine struct {
	id  uuid.UUID
	env *scm.Environment
	out io.Writer
}

// Option configures a new Engine.
type Option func(*Engine)

// WithOutput redirects display/write/newline output. Defaults to
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

// WithCwd sets the working directory include/load paths resolve
// against. Defaults to the process cwd.
func WithCwd(path string) Option {
	return func(e *Engine) { e.env.SetCwd(path) }
}

// New builds an Engine with the native builtins and the bundled prelude
// loaded. The engine's id is a fresh random UUID, useful for tagging
// log lines or REPL sessions when several engines run side by side.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		id:  uuid.New(),
		env: scm.NewRootEnvironment(),
		out: os.Stdout,
	}
	scm.InstallSpecialForms(eng.env)
	for _, opt := range opts {
		opt(eng)
	}
	builtin.InstallAll(eng.env, eng.out)
	if err := prelude.Load(eng.env); err != nil {
		return nil, err
	}
	return eng, nil
}

// NewWithoutPrelude skips loading the bundled standard library, leaving
// only special forms and native builtins - useful for tests that want
// to exercise the native layer in isolation.
func NewWithoutPrelude(opts ...Option) *Engine {
	eng := &Engine{
		id:  uuid.New(),
		env: scm.NewRootEnvironment(),
		out: os.Stdout,
	}
	scm.InstallSpecialForms(eng.env)
	for _, opt := range opts {
		opt(eng)
	}
	builtin.InstallAll(eng.env, eng.out)
	return eng
}

// ID returns this engine instance's session identifier.
func (e *Engine) ID() uuid.UUID { return e.id }

// Env exposes the root environment for advanced embedding use (e.g.
// inspecting bindings, or handing it to a custom REPL).
func (e *Engine) Env() *scm.Environment { return e.env }

// SetCwd changes the directory include/load resolve relative paths
// against.
func (e *Engine) SetCwd(path string) { e.env.SetCwd(path) }

// Eval parses source as a sequence of top-level forms and evaluates
// each in turn, returning the value of the last one.
func (e *Engine) Eval(source string) (scm.Expr, error) {
	forms, err := scm.ReadAll("<eval>", source)
	if err != nil {
		return scm.Expr{}, err
	}
	result := scm.Void()
	for _, form := range forms {
		result, err = scm.Eval(form, e.env)
		if err != nil {
			return scm.Expr{}, err
		}
	}
	return result, nil
}

// EvalFile reads and evaluates the top-level forms of the file at path,
// returning the value of the last one. The engine's cwd is left as it
// is, so relative include/load forms inside the file resolve against
// the engine's cwd, not the file's directory.
func (e *Engine) EvalFile(path string) (scm.Expr, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scm.Expr{}, err
	}
	forms, err := scm.ReadAll(path, string(data))
	if err != nil {
		return scm.Expr{}, err
	}
	result := scm.Void()
	for _, form := range forms {
		result, err = scm.Eval(form, e.env)
		if err != nil {
			return scm.Expr{}, err
		}
	}
	return result, nil
}

// RegisterFn installs a Go-native value procedure into the root
// environment, letting host programs extend the builtin set without
// handling the root environment themselves.
func (e *Engine) RegisterFn(name string, arity scm.Arity, fn scm.NativeFn) {
	e.env.Register(name, scm.NativeValue, arity, fn)
}
