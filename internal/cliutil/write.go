// Package cliutil holds small helpers shared by the apivet CLI commands.
package cliutil

import (
	"fmt"
	"io"
	"os"
)

// Writef formats and writes a message to w. Write failures are reported
// on stderr instead of being returned, since CLI report output has no
// caller that could act on the error.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}
