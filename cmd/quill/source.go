package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quill-lang/quill/internal/ast"
)

const SOURCE_EXT = ".ql"

//go:embed default.ql
var DEFAULT_PROGRAM []byte

type source struct {
	loc     *ast.Loc
	content []byte
}

// readSource returns the file named by args, or the embedded sample program
// when args is empty.
func readSource(args []string) (*source, error) {
	if len(args) == 0 {
		return &source{loc: ast.LocFromName("default.ql"), content: DEFAULT_PROGRAM}, nil
	}

	path, err := resolvePath(args[0])
	if err != nil {
		return nil, err
	}

	loc, err := ast.LocFromPath(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &source{loc: loc, content: content}, nil
}

// resolvePath accepts the path as given, then with the .ql extension added,
// then under examples/.
func resolvePath(path string) (string, error) {
	candidates := []string{path}
	if filepath.Ext(path) == "" {
		candidates = append(candidates, path+SOURCE_EXT)
	}
	for _, candidate := range candidates {
		candidates = append(candidates, filepath.Join("examples", candidate))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no such file: %s", path)
}
