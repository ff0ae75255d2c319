package diagnostics

import (
	"fmt"
	"io"
)

// Write renders diags as an ordinal list, one finding per line:
//
//	1. test.ql:1:5: 'x' is not declared
//	2. test.ql:2:1: 'y' is not declared
func Write(w io.Writer, diags []Diag) error {
	return WriteStyled(w, diags, nil)
}

// WriteStyled is Write with a hook applied to every rendered line, used by the
// CLI to color output.
func WriteStyled(w io.Writer, diags []Diag, style func(string) string) error {
	for i, diag := range diags {
		line := fmt.Sprintf("%d. %s", i+1, diag)
		if style != nil {
			line = style(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
