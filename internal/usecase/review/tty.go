package review

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether the file descriptor is attached to a terminal.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// IsInteractive reports whether stdin is a terminal. False in CI and when
// input is piped.
func IsInteractive() bool {
	return IsTTY(os.Stdin.Fd())
}

// IsOutputTerminal reports whether stdout is a terminal. Local mode uses it
// to decide between colored summaries and plain output safe to redirect.
func IsOutputTerminal() bool {
	return IsTTY(os.Stdout.Fd())
}
