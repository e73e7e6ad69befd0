package cli

import (
	"io"
	"os"

	"github.com/aretw0/lifecycle"
	"golang.org/x/term"
)

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// TerminalInput returns the reader lookups should read from: the platform
// console reader when in is a terminal (CONIN$ on Windows), in otherwise.
func TerminalInput(in io.Reader) io.Reader {
	if r, err := lifecycle.UpgradeTerminal(in); err == nil && r != nil {
		return r
	}
	return in
}
