package qprogress

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// decorationWidth is the space taken by the brackets and the "100% " suffix.
const decorationWidth = len("[] 100% ")

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ColorEnabled reports whether colour should be used on w by default.
func ColorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return IsTerminal(w)
}

// termWidth returns the visible width of the current terminal and can be
// redefined for testing.
var termWidth = func() (int, error) {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err == nil {
		return width, nil
	}
	width, _, err = term.GetSize(int(os.Stderr.Fd()))
	if err == nil {
		return width, nil
	}
	return 0, err
}

/*
FitWidth shrinks a requested bar width so the whole line, decoration
included, fits the terminal. Without a terminal the request is returned as
is, and a non-positive request becomes DefaultWidth first.
*/
func FitWidth(requested int) int {
	if requested <= 0 {
		requested = DefaultWidth
	}

	width, err := termWidth()
	if err != nil || width <= decorationWidth {
		return requested
	}

	return min(requested, width-decorationWidth)
}
