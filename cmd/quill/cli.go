package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/quill-lang/quill/internal/config"
	"github.com/quill-lang/quill/internal/diagnostics"
	"github.com/quill-lang/quill/internal/interp"
	"github.com/quill-lang/quill/internal/pipeline"
	"github.com/quill-lang/quill/internal/repl"
)

// errReported is returned once diagnostics or a runtime error were already
// written to stderr.
var errReported = errors.New("reported")

type app struct {
	stdout io.Writer
	stderr io.Writer

	cfgFile      string
	verbose      bool
	noColor      bool
	maxCallDepth int

	cfg      *config.Config
	logger   *slog.Logger
	reporter *reporter
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "quill",
		Short: "Quill - a small interpreted language",
		Long: `Quill is a small dynamically typed language with first-class functions,
closures and lexical scoping.

Every program is lexed, parsed and checked before it runs: all syntax and
semantic errors are reported at once and nothing runs while there are any.

Without a file, commands use a built-in sample program.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/quill/config.yml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log every pass at debug level")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored diagnostics")
	flags.IntVar(&a.maxCallDepth, "max-call-depth", 0, "maximum call depth (default from config)")

	root.AddCommand(
		a.runCmd(),
		a.checkCmd(),
		a.printCmd(),
		a.replCmd(),
		a.envCmd(),
		a.versionCmd(),
	)
	return root
}

// setup loads the configuration and derives the logger and the reporter from
// it and from the flags.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
		if err != nil {
			return err
		}
	} else {
		a.cfg, err = loadUserConfig()
		if err != nil {
			log.New(a.stderr, "quill: ", 0).Printf("ignoring user config: %v", err)
			a.cfg = config.Default()
		}
	}

	if a.maxCallDepth > 0 {
		a.cfg.MaxCallDepth = a.maxCallDepth
	}
	if a.noColor {
		a.cfg.Color = false
	}

	level, err := a.cfg.SlogLevel()
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	a.reporter = newReporter(a.stderr, a.cfg.Color)
	return nil
}

func loadUserConfig() (*config.Config, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return config.LoadFromDir(dir)
}

func (a *app) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		MaxCallDepth: a.cfg.MaxCallDepth,
		Logger:       a.logger,
	}
}

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [file]",
		Short: "Check and run a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args)
			if err != nil {
				return err
			}

			result, err := pipeline.Run(src.loc, src.content, a.stdout, a.pipelineOptions())
			return a.report(result, err)
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Report every syntax and semantic error without running",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args)
			if err != nil {
				return err
			}

			opts := a.pipelineOptions()
			opts.CheckOnly = true
			result, err := pipeline.Run(src.loc, src.content, a.stdout, opts)
			if err != nil && !errors.Is(err, diagnostics.COMPILER_ERROR_FOUND) {
				return err
			}

			a.reporter.summary(a.stdout, result)
			if len(result.Diags) > 0 {
				return errReported
			}
			return nil
		},
	}
}

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := repl.New(a.stdout, repl.Options{
				Prompt:       a.cfg.Repl.Prompt,
				HistoryFile:  a.cfg.Repl.HistoryFile,
				Style:        a.reporter.style,
				MaxCallDepth: a.cfg.MaxCallDepth,
				Logger:       a.logger,
			})
			return r.Start()
		},
	}
}

func (a *app) envCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Path != "" {
				fmt.Fprintf(a.stdout, "# %s\n", a.cfg.Path)
			}
			return a.cfg.ShowAll(a.stdout)
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.stdout, "quill %s\n", Version)
			return nil
		},
	}
}

// report writes the diags or the runtime error of a pipeline run to stderr.
func (a *app) report(result *pipeline.Result, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, diagnostics.COMPILER_ERROR_FOUND) {
		if writeErr := a.reporter.diags(result.Diags); writeErr != nil {
			return writeErr
		}
		return errReported
	}

	var rtErr *interp.RuntimeError
	if errors.As(err, &rtErr) {
		a.reporter.runtimeError(rtErr)
		return errReported
	}
	return err
}
