package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/quill-lang/quill/internal/diagnostics"
	"github.com/quill-lang/quill/internal/interp"
	"github.com/quill-lang/quill/internal/pipeline"
)

var (
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
)

var STAGE_TITLES = map[pipeline.Stage]string{
	pipeline.STAGE_LEX:     "Lexical analysis",
	pipeline.STAGE_PARSE:   "Parsing",
	pipeline.STAGE_ANALYZE: "Semantic analysis",
}

type reporter struct {
	w     io.Writer
	color bool

	errorStyle   lipgloss.Style
	successStyle lipgloss.Style
	headerStyle  lipgloss.Style
}

// newReporter binds the styles to w, so they degrade to plain text when w is
// not a terminal.
func newReporter(w io.Writer, color bool) *reporter {
	renderer := lipgloss.NewRenderer(w)
	return &reporter{
		w:            w,
		color:        color,
		errorStyle:   renderer.NewStyle().Foreground(ColorError),
		successStyle: renderer.NewStyle().Foreground(ColorSuccess),
		headerStyle:  renderer.NewStyle().Foreground(ColorMuted).Bold(true),
	}
}

func (r *reporter) style(line string) string {
	if !r.color {
		return line
	}
	return r.errorStyle.Render(line)
}

func (r *reporter) render(style lipgloss.Style, line string) string {
	if !r.color {
		return line
	}
	return style.Render(line)
}

func (r *reporter) diags(diags []diagnostics.Diag) error {
	return diagnostics.WriteStyled(r.w, diags, r.style)
}

func (r *reporter) runtimeError(err *interp.RuntimeError) {
	fmt.Fprintln(r.w, r.style(err.Error()))
}

// summary writes the outcome of `quill check` to w:
//
//	Semantic analysis completed with 2 error(s):
//	1. main.ql:3:7: 'y' is not declared
//	2. main.ql:5:1: 'f' expects 1 argument(s), got 2
func (r *reporter) summary(w io.Writer, result *pipeline.Result) {
	title := STAGE_TITLES[result.Stage]
	if len(result.Diags) == 0 {
		fmt.Fprintln(w, r.render(r.successStyle, fmt.Sprintf("%s completed with 0 error(s).", title)))
		return
	}

	fmt.Fprintln(w, r.render(r.headerStyle, fmt.Sprintf("%s completed with %d error(s):", title, len(result.Diags))))
	_ = diagnostics.WriteStyled(w, result.Diags, r.style)
}
