package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/diagnostics"
	"github.com/quill-lang/quill/internal/lexer/token"
	"github.com/quill-lang/quill/internal/pipeline"
)

type printFlags struct {
	tokens bool
	ast    bool
	sexpr  bool
	dump   bool
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func (a *app) printCmd() *cobra.Command {
	var flags printFlags

	cmd := &cobra.Command{
		Use:   "print [file]",
		Short: "Show the tokens or the syntax tree of a program",
		Long: `Show the tokens or the syntax tree of a program. Only lexing and parsing
run: semantic errors are not reported and the program is not executed.

The tree is printed back as source by default, as nested calls with --sexpr,
or as the raw Go structures with --dump.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args)
			if err != nil {
				return err
			}

			tokens, diags := pipeline.Lex(src.loc, src.content)
			if len(diags) > 0 {
				return a.report(&pipeline.Result{Diags: diags}, diagnostics.COMPILER_ERROR_FOUND)
			}
			if flags.tokens {
				return writeTokenTable(a.stdout, tokens)
			}

			program, diags := pipeline.Parse(src.loc, tokens)
			if len(diags) > 0 {
				return a.report(&pipeline.Result{Diags: diags}, diagnostics.COMPILER_ERROR_FOUND)
			}

			switch {
			case flags.dump:
				dumpConfig.Fdump(a.stdout, program)
			case flags.sexpr:
				fmt.Fprint(a.stdout, ast.DumpProgram(program))
			default:
				fmt.Fprint(a.stdout, ast.Print(program))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.tokens, "tokens", false, "print the token stream as a table")
	cmd.Flags().BoolVar(&flags.ast, "ast", false, "print the syntax tree (default)")
	cmd.Flags().BoolVar(&flags.sexpr, "sexpr", false, "print the tree as nested calls")
	cmd.Flags().BoolVar(&flags.dump, "dump", false, "dump the tree structures")
	cmd.MarkFlagsMutuallyExclusive("tokens", "ast")
	cmd.MarkFlagsMutuallyExclusive("sexpr", "dump")
	return cmd
}

func writeTokenTable(w io.Writer, tokens []*token.Token) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Kind", "Lexeme", "Position"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for i, tok := range tokens {
		table.Append([]string{
			strconv.Itoa(i),
			tok.Kind.String(),
			tok.Lexeme,
			fmt.Sprintf("%d:%d", tok.Pos.Line, tok.Pos.Column),
		})
	}
	table.Render()
	return nil
}
