package scope

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

var (
	ERR_DUPLICATE_DECLARATION = errors.New("symbol already declared on scope")
	ERR_UNDECLARED_NAME       = errors.New("symbol not declared on scope")
)

// Table is the stack of lexical scopes sema walks through. Index 0 is the
// outermost scope, holding builtins and top-level declarations.
type Table struct {
	scopes []map[string]*Symbol
}

func NewTable() *Table {
	return &Table{scopes: []map[string]*Symbol{make(map[string]*Symbol)}}
}

func (table *Table) PushScope() {
	table.scopes = append(table.scopes, make(map[string]*Symbol))
}

// PopScope discards the innermost scope. The outermost scope is never popped.
func (table *Table) PopScope() {
	if len(table.scopes) == 1 {
		return
	}
	table.scopes = table.scopes[:len(table.scopes)-1]
}

// Depth is the number of open scopes; it is 1 when only the outermost scope
// is open.
func (table *Table) Depth() int {
	return len(table.scopes)
}

// Declare binds sym in the innermost scope and stamps its depth. Names already
// bound in an enclosing scope are shadowed, not rejected.
func (table *Table) Declare(sym *Symbol) error {
	current := table.scopes[len(table.scopes)-1]
	if _, ok := current[sym.Name]; ok {
		return fmt.Errorf("%w: %s", ERR_DUPLICATE_DECLARATION, sym.Name)
	}
	sym.Depth = len(table.scopes) - 1
	current[sym.Name] = sym
	return nil
}

// Resolve finds the innermost binding of name.
func (table *Table) Resolve(name string) (*Symbol, error) {
	for i := len(table.scopes) - 1; i >= 0; i-- {
		if sym, ok := table.scopes[i][name]; ok {
			return sym, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ERR_UNDECLARED_NAME, name)
}

func (table *Table) LookupCurrent(name string) (*Symbol, bool) {
	sym, ok := table.scopes[len(table.scopes)-1][name]
	return sym, ok
}

// Checkpoint is a snapshot of the outermost scope.
type Checkpoint struct {
	outermost map[string]*Symbol
}

func (table *Table) Checkpoint() Checkpoint {
	return Checkpoint{outermost: maps.Clone(table.scopes[0])}
}

// Rollback restores the outermost scope saved by cp and closes every inner
// scope.
func (table *Table) Rollback(cp Checkpoint) {
	table.scopes = []map[string]*Symbol{maps.Clone(cp.outermost)}
}

// Prune drops from the outermost scope every name declared since cp for
// which keep returns false.
func (table *Table) Prune(cp Checkpoint, keep func(name string) bool) {
	for name := range table.scopes[0] {
		if _, existed := cp.outermost[name]; existed || keep(name) {
			continue
		}
		delete(table.scopes[0], name)
	}
}

func (table Table) String() string {
	var sb strings.Builder
	sb.WriteString("Table:\n")
	for depth, scope := range table.scopes {
		fmt.Fprintf(&sb, "  %d: %d symbol(s)\n", depth, len(scope))
	}
	return sb.String()
}
