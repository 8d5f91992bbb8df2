package interp

import (
	"fmt"

	"sandpit/internal/diag"
	"sandpit/internal/source"
)

type binding struct {
	val   Value
	konst bool
}

// Env — лексическая область видимости. Корневая область каждого запуска
// содержит ровно одну привязку: console. Никакое другое состояние хоста
// из снипета не видно.
type Env struct {
	vars   map[string]binding
	parent *Env
}

// NewEnv creates a scope with the given parent (nil for the root scope).
func NewEnv(parent *Env) *Env {
	return &Env{
		vars:   make(map[string]binding),
		parent: parent,
	}
}

// Define declares a name in this scope, shadowing any outer binding.
func (e *Env) Define(name string, v Value, konst bool) {
	e.vars[name] = binding{val: v, konst: konst}
}

// Lookup resolves a name through the scope chain.
func (e *Env) Lookup(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if b, ok := s.vars[name]; ok {
			return b.val, true
		}
	}
	return Value{}, false
}

// Assign rebinds an existing name, respecting const.
func (e *Env) Assign(name string, v Value, sp source.Span) *RunError {
	for s := e; s != nil; s = s.parent {
		if b, ok := s.vars[name]; ok {
			if b.konst {
				return runErr(diag.RunConstAssign, sp,
					fmt.Sprintf("assignment to constant variable %q", name))
			}
			s.vars[name] = binding{val: v}
			return nil
		}
	}
	return runErr(diag.RunNotDefined, sp, name+" is not defined")
}
