// Package repl implements the interactive prompt of the quill command.
package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/diagnostics"
	"github.com/quill-lang/quill/internal/lexer/token"
	"github.com/quill-lang/quill/internal/pipeline"
)

const (
	CONTINUATION_PROMPT = "...    "
	INPUT_NAME          = "<repl>"
)

// LineReader is the part of *liner.State the loop needs.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type Options struct {
	Prompt      string
	HistoryFile string
	// Applied to every diagnostic line, may be nil.
	Style        func(string) string
	MaxCallDepth int
	Logger       *slog.Logger
}

type Repl struct {
	opts    Options
	out     io.Writer
	session *pipeline.Session
	loc     *ast.Loc
}

func New(out io.Writer, opts Options) *Repl {
	if opts.Prompt == "" {
		opts.Prompt = "quill> "
	}
	return &Repl{
		opts: opts,
		out:  out,
		session: pipeline.NewSession(out, pipeline.Options{
			MaxCallDepth: opts.MaxCallDepth,
			Logger:       opts.Logger,
		}),
		loc: ast.LocFromName(INPUT_NAME),
	}
}

// Start runs the loop on the terminal, with line editing and the history
// kept in opts.HistoryFile.
func (r *Repl) Start() error {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	if r.opts.HistoryFile != "" {
		if file, err := os.Open(r.opts.HistoryFile); err == nil {
			_, _ = state.ReadHistory(file)
			file.Close()
		}
	}

	err := r.Loop(state)

	if r.opts.HistoryFile != "" {
		file, createErr := os.Create(r.opts.HistoryFile)
		if createErr != nil {
			return fmt.Errorf("saving history: %w", createErr)
		}
		defer file.Close()
		if _, writeErr := state.WriteHistory(file); writeErr != nil {
			return fmt.Errorf("saving history: %w", writeErr)
		}
	}
	return err
}

// Loop reads inputs until EOF or `:quit`. An input spans several lines while
// its curly braces are unbalanced.
func (r *Repl) Loop(reader LineReader) error {
	fmt.Fprintln(r.out, "Quill REPL. Type :help for help, :quit to leave.")

	var buf strings.Builder
	for {
		prompt := r.opts.Prompt
		if buf.Len() > 0 {
			prompt = CONTINUATION_PROMPT
		}

		line, err := reader.Prompt(prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			buf.Reset()
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(r.out)
			return nil
		case err != nil:
			return err
		}

		if buf.Len() == 0 {
			switch strings.TrimSpace(line) {
			case "":
				continue
			case ":quit", ":exit":
				return nil
			case ":help":
				r.help()
				continue
			case ":env":
				fmt.Fprint(r.out, r.session.Globals())
				continue
			}
		}

		buf.WriteString(line)
		buf.WriteByte('\n')
		if openBraces(buf.String()) > 0 {
			continue
		}

		input := buf.String()
		buf.Reset()
		reader.AppendHistory(strings.TrimRight(input, "\n"))
		r.Eval(input)
	}
}

// Eval runs one input and reports its diags or runtime error to the output.
// A trailing `;` is added when the input lacks one.
func (r *Repl) Eval(input string) {
	diags, err := r.session.Eval(r.loc, []byte(terminate(input)))
	switch {
	case err == nil:
	case errors.Is(err, diagnostics.COMPILER_ERROR_FOUND):
		_ = diagnostics.WriteStyled(r.out, diags, r.opts.Style)
	default:
		line := err.Error()
		if r.opts.Style != nil {
			line = r.opts.Style(line)
		}
		fmt.Fprintln(r.out, line)
	}
}

func (r *Repl) help() {
	fmt.Fprint(r.out, `:help   show this message
:env    list global bindings
:quit   leave the REPL
Statements may span several lines while a '{' is left open.
`)
}

func terminate(input string) string {
	trimmed := strings.TrimRight(input, " \t\r\n")
	if strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}") {
		return trimmed
	}
	return trimmed + ";"
}

// openBraces counts `{` not yet closed, ignoring braces inside strings and
// comments.
func openBraces(src string) int {
	tokens, _ := pipeline.Lex(ast.LocFromName(INPUT_NAME), []byte(src))
	depth := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case token.OPEN_CURLY:
			depth++
		case token.CLOSE_CURLY:
			depth--
		}
	}
	return depth
}
