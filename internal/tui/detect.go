package tui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// fdWriter is implemented by *os.File.
type fdWriter interface {
	Fd() uintptr
}

// ColorEnabled reports whether styled output should be written to w.
//
// Returns false if:
//   - SQLSPLIT_NO_COLOR=1 or NO_COLOR is set
//   - CI is set (logs are usually captured, not watched)
//   - w is not a terminal
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("SQLSPLIT_NO_COLOR") == "1" {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("CI") != "" {
		return false
	}

	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
