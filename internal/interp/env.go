package interp

import (
	"slices"
	"strings"
)

// Environment is one run-time frame. Frames are chained through parent and
// mirror the scopes sema pushed for the same program.
type Environment struct {
	values map[string]Value
	parent *Environment
}

func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Define binds name in this frame, replacing a previous binding of the same
// frame.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get looks a name up by walking the frame chain.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if val, ok := env.values[name]; ok {
			return val, true
		}
	}
	return nil, false
}

// Assign updates the innermost existing binding of name.
func (e *Environment) Assign(name string, value Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return true
		}
	}
	return false
}

func (e *Environment) Parent() *Environment { return e.parent }

// Names lists the names bound in this frame, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (e *Environment) String() string {
	var sb strings.Builder
	for _, name := range e.Names() {
		sb.WriteString(name)
		sb.WriteString(" = ")
		sb.WriteString(e.values[name].String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
