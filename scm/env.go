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
	"sync"

	"github.com/google/btree"
)

type bindings map[Symbol]Expr

// rootState holds the process-wide (well, engine-wide) bits that only
// the root environment owns: the gensym counter, the current working
// directory used by include/load, and a sorted index of every symbol
// ever defined anywhere in the chain, used for introspection.
type rootState struct {
	mu      sync.Mutex
	gensym  uint64
	cwd     string
	symbols *btree.BTreeG[string]
}

// Environment is a lexical frame: a binding table, a separate macro
// table, and a parent reference. Environments are shared by reference;
// multiple closures observe each other's set! effects.
type Environment struct {
	vars     bindings
	macros   bindings
	parent   *Environment
	nodefine bool // define writes through to parent (import semantics)
	root     *rootState
}

// NewRootEnvironment creates a fresh, parentless environment with its
// own gensym counter and cwd.
func NewRootEnvironment() *Environment {
	return &Environment{
		vars:   make(bindings),
		macros: make(bindings),
		root: &rootState{
			cwd:     ".",
			symbols: btree.NewG[string](32, func(a, b string) bool { return a < b }),
		},
	}
}

// Extend returns a new child frame of env.
func (env *Environment) Extend() *Environment {
	return &Environment{
		vars:   make(bindings),
		macros: make(bindings),
		parent: env,
		root:   env.root,
	}
}

// extendNodefine builds a child frame whose define writes land in the
// nearest defining ancestor instead of the child itself, for
// import-like scopes. Only this package's tests create such a frame.
func (env *Environment) extendNodefine() *Environment {
	e := env.Extend()
	e.nodefine = true
	return e
}

func (env *Environment) IsRoot() bool { return env.parent == nil }

// findRead walks the parent chain looking for the frame owning name.
func (env *Environment) findRead(name Symbol) (*Environment, bool) {
	for e := env; e != nil; e = e.parent {
		if _, ok := e.vars[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// findWrite walks the parent chain for set!'s target frame.
func (env *Environment) findWrite(name Symbol) (*Environment, bool) {
	return env.findRead(name)
}

// Get implements the environment's get(name) -> Expr | NotFound.
func (env *Environment) Get(name Symbol) (Expr, bool) {
	e, ok := env.findRead(name)
	if !ok {
		return Expr{}, false
	}
	return e.vars[name], true
}

func (env *Environment) Has(name Symbol) bool {
	_, ok := env.findRead(name)
	return ok
}

// Set implements set!: mutate the frame that already holds name,
// failing if none does.
func (env *Environment) Set(name Symbol, value Expr) bool {
	e, ok := env.findWrite(name)
	if !ok {
		return false
	}
	e.vars[name] = value
	return true
}

// Define always targets the innermost defining frame (skipping
// nodefine frames so that import-style scopes write through to their
// defining ancestor), silently shadowing or overwriting.
func (env *Environment) Define(name Symbol, value Expr) {
	e := env
	for e.nodefine && e.parent != nil {
		e = e.parent
	}
	e.vars[name] = value
	e.root.mu.Lock()
	e.root.symbols.ReplaceOrInsert(string(name))
	e.root.mu.Unlock()
}

// GetMacro looks up the macro namespace, which is separate from the
// value namespace and is consulted first when a symbol occupies
// operator position.
func (env *Environment) GetMacro(name Symbol) (Expr, bool) {
	for e := env; e != nil; e = e.parent {
		if v, ok := e.macros[name]; ok {
			return v, true
		}
	}
	return Expr{}, false
}

func (env *Environment) HasMacro(name Symbol) bool {
	_, ok := env.GetMacro(name)
	return ok
}

// DefineMacro binds name to a transformer procedure in the current
// frame's macro namespace.
func (env *Environment) DefineMacro(name Symbol, transformer Expr) {
	e := env
	for e.nodefine && e.parent != nil {
		e = e.parent
	}
	e.macros[name] = transformer
}

// Copy performs a deep copy of the frame chain: every frame gets a
// fresh binding table, but the root's gensym counter/cwd are shared
// since they model process-wide state of one engine.
func (env *Environment) Copy() *Environment {
	if env == nil {
		return nil
	}
	cp := &Environment{
		vars:     make(bindings, len(env.vars)),
		macros:   make(bindings, len(env.macros)),
		nodefine: env.nodefine,
		parent:   env.parent.Copy(),
		root:     env.root,
	}
	for k, v := range env.vars {
		cp.vars[k] = v
	}
	for k, v := range env.macros {
		cp.macros[k] = v
	}
	return cp
}

// Root walks to the parentless ancestor frame.
func (env *Environment) Root() *Environment {
	e := env
	for e.parent != nil {
		e = e.parent
	}
	return e
}

// Gensym produces a symbol fresh relative to all previously returned
// gensyms in this engine: #:gensym-<n>.
func (env *Environment) Gensym() Expr {
	root := env.root
	root.mu.Lock()
	root.gensym++
	n := root.gensym
	root.mu.Unlock()
	return NewSymbol("#:gensym-" + itoa(int(n)))
}

func (env *Environment) Cwd() string {
	return env.root.cwd
}

func (env *Environment) SetCwd(path string) {
	env.root.mu.Lock()
	env.root.cwd = path
	env.root.mu.Unlock()
}

// Bindings returns, in sorted order, every symbol name ever defined in
// any frame of env's engine (including lambda parameters and local
// defines), for REPL introspection via `(environment-bindings)`.
func (env *Environment) Bindings() []string {
	var names []string
	env.root.symbols.Ascend(func(s string) bool {
		names = append(names, s)
		return true
	})
	return names
}

// Register installs a native procedure into env under name.
func (env *Environment) Register(name string, kind NativeKind, arity Arity, fn NativeFn) {
	env.Define(Symbol(name), NewProcedure(&Procedure{
		Name:       name,
		Kind:       ProcNative,
		NativeKind: kind,
		Arity:      arity,
		Fn:         fn,
	}))
}
