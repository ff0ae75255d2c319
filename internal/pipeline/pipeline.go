// Package pipeline chains the passes of Quill: lexing, parsing, semantic
// analysis and execution. Each pass runs to completion before the next one
// starts, and a pass that saved diags blocks every pass after it.
package pipeline

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/diagnostics"
	"github.com/quill-lang/quill/internal/interp"
	"github.com/quill-lang/quill/internal/lexer"
	"github.com/quill-lang/quill/internal/lexer/token"
	"github.com/quill-lang/quill/internal/parser"
	"github.com/quill-lang/quill/internal/sema"
)

type Stage int

const (
	STAGE_LEX Stage = iota
	STAGE_PARSE
	STAGE_ANALYZE
	STAGE_EXECUTE
)

func (stage Stage) String() string {
	switch stage {
	case STAGE_LEX:
		return "lex"
	case STAGE_PARSE:
		return "parse"
	case STAGE_ANALYZE:
		return "analyze"
	default:
		return "execute"
	}
}

type Options struct {
	// Zero means interp.DEFAULT_MAX_CALL_DEPTH.
	MaxCallDepth int
	// Stop after semantic analysis.
	CheckOnly bool
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Result is what Run got through. Stage is the last pass that ran; Diags holds
// the diags of that pass when it failed.
type Result struct {
	Tokens  []*token.Token
	Program *ast.Program
	Diags   []diagnostics.Diag
	Stage   Stage
}

func Lex(loc *ast.Loc, src []byte) ([]*token.Token, []diagnostics.Diag) {
	collector := diagnostics.New()
	tokens, _ := lexer.New(loc, src, collector).Tokenize()
	return tokens, collector.Diags
}

func Parse(loc *ast.Loc, tokens []*token.Token) (*ast.Program, []diagnostics.Diag) {
	collector := diagnostics.New()
	program, _ := parser.New(tokens, collector).ParseProgram(loc)
	return program, collector.Diags
}

func Analyze(program *ast.Program) []diagnostics.Diag {
	collector := diagnostics.New()
	_ = sema.New(collector).Check(program)
	return collector.Diags
}

// Execute runs program in a fresh global environment. Failures are
// *interp.RuntimeError.
func Execute(program *ast.Program, w io.Writer) error {
	return interp.New(w).Execute(program)
}

// Run takes src through every pass. It returns diagnostics.COMPILER_ERROR_FOUND
// when a pass saved diags, in which case the program is never executed, and
// the *interp.RuntimeError that stopped execution otherwise.
func Run(loc *ast.Loc, src []byte, w io.Writer, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("file", loc.Name)

	result := new(Result)

	var diags []diagnostics.Diag
	timed(logger, STAGE_LEX, func() {
		result.Tokens, diags = Lex(loc, src)
	})
	if len(diags) > 0 {
		return result.failed(STAGE_LEX, diags)
	}

	timed(logger, STAGE_PARSE, func() {
		result.Program, diags = Parse(loc, result.Tokens)
	})
	if len(diags) > 0 {
		return result.failed(STAGE_PARSE, diags)
	}

	timed(logger, STAGE_ANALYZE, func() {
		diags = Analyze(result.Program)
	})
	if len(diags) > 0 {
		return result.failed(STAGE_ANALYZE, diags)
	}
	result.Stage = STAGE_ANALYZE
	if opts.CheckOnly {
		return result, nil
	}

	interpreter := interp.New(w)
	if opts.MaxCallDepth > 0 {
		interpreter.MaxCallDepth = opts.MaxCallDepth
	}

	var err error
	timed(logger, STAGE_EXECUTE, func() {
		err = interpreter.Execute(result.Program)
	})
	result.Stage = STAGE_EXECUTE
	if err != nil {
		var rtErr *interp.RuntimeError
		if errors.As(err, &rtErr) {
			logger.Debug("runtime error", "kind", rtErr.Kind, "pos", rtErr.Pos)
		}
		return result, err
	}
	return result, nil
}

func (result *Result) failed(stage Stage, diags []diagnostics.Diag) (*Result, error) {
	result.Stage = stage
	result.Diags = diags
	return result, diagnostics.COMPILER_ERROR_FOUND
}

func timed(logger *slog.Logger, stage Stage, pass func()) {
	start := time.Now()
	pass()
	logger.Debug("pass finished", "stage", stage, "elapsed", time.Since(start))
}
