package ast

import (
	"fmt"
	"os"
	"path/filepath"
)

type Program struct {
	Loc  *Loc
	Body []*Node
}

type Loc struct {
	Name string
	Dir  string
	Path string
}

func LocFromPath(fullPath string) (*Loc, error) {
	loc := new(Loc)
	loc.Path = fullPath

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, expected a source file", fullPath)
	}

	loc.Name = filepath.Base(fullPath)
	loc.Dir = filepath.Base(filepath.Dir(fullPath))
	return loc, nil
}

// LocFromName is used for sources that do not live on disk (embedded
// programs, REPL input, tests).
func LocFromName(name string) *Loc {
	return &Loc{Name: name}
}

func (l Loc) String() string {
	return fmt.Sprintf(
		"Name: %s | Dir: %s | Path: %s",
		l.Name,
		l.Dir,
		l.Path,
	)
}
