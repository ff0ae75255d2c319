package pipeline

import (
	"io"
	"log/slog"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/diagnostics"
	"github.com/quill-lang/quill/internal/interp"
	"github.com/quill-lang/quill/internal/scope"
	"github.com/quill-lang/quill/internal/sema"
)

// Session evaluates a sequence of inputs against one symbol table and one
// global environment, so that later inputs see what earlier ones declared.
// An input that fails to check leaves the table as it was before the input.
// After a runtime error, only the declarations that were executed before the
// error stay declared.
type Session struct {
	table       *scope.Table
	interpreter *interp.Interpreter
	logger      *slog.Logger
}

func NewSession(w io.Writer, opts Options) *Session {
	session := new(Session)
	session.table = scope.NewTable()
	session.interpreter = interp.New(w)
	if opts.MaxCallDepth > 0 {
		session.interpreter.MaxCallDepth = opts.MaxCallDepth
	}
	session.logger = opts.Logger
	if session.logger == nil {
		session.logger = slog.Default()
	}
	return session
}

func (session *Session) Globals() *interp.Environment {
	return session.interpreter.Globals()
}

// Eval takes one input through every pass. Errors follow Run.
func (session *Session) Eval(loc *ast.Loc, src []byte) ([]diagnostics.Diag, error) {
	tokens, diags := Lex(loc, src)
	if len(diags) > 0 {
		return diags, diagnostics.COMPILER_ERROR_FOUND
	}

	program, diags := Parse(loc, tokens)
	if len(diags) > 0 {
		return diags, diagnostics.COMPILER_ERROR_FOUND
	}

	checkpoint := session.table.Checkpoint()
	collector := diagnostics.New()
	if err := sema.NewWithTable(collector, session.table).Check(program); err != nil {
		session.table.Rollback(checkpoint)
		session.logger.Debug("input rolled back", "diags", len(collector.Diags))
		return collector.Diags, err
	}

	if err := session.interpreter.Execute(program); err != nil {
		globals := session.interpreter.Globals()
		session.table.Prune(checkpoint, func(name string) bool {
			_, bound := globals.Get(name)
			return bound
		})
		return nil, err
	}
	return nil, nil
}
