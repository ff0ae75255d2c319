package main

import (
	"errors"
	"fmt"
	"os"
)

// Set with -ldflags "-X main.Version=..."
var Version = "dev"

const (
	EXIT_OK = iota
	EXIT_FAILURE
	EXIT_USAGE
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(args)

	err := root.Execute()
	switch {
	case err == nil:
		return EXIT_OK
	case errors.Is(err, errReported):
		return EXIT_FAILURE
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return EXIT_USAGE
	}
}
