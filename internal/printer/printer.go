package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	// Stdout and Stderr are swapped out by tests
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr

	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Success prints a success message in green with a checkmark prefix
func Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	green.Fprint(Stdout, msg)
}

// Info prints an informational message in the default color
func Info(format string, a ...any) {
	fmt.Fprintf(Stdout, format, a...)
}

// Step prints a step message in cyan
func Step(format string, a ...any) {
	cyan.Fprintf(Stdout, "→ %s", fmt.Sprintf(format, a...))
}

// Warning prints a warning in yellow to stderr
func Warning(format string, a ...any) {
	yellow.Fprintf(Stderr, "warning: %s", fmt.Sprintf(format, a...))
}

// Error prints a title in red, the explanation, and numbered suggestions to
// stderr. The returned error carries the title and wraps cause so callers
// can still match on it; cobra does not print it again.
func Error(title string, cause error, suggestions ...string) error {
	red.Fprintf(Stderr, "%s\n\n", title)

	if cause != nil {
		fmt.Fprintf(Stderr, "%s\n", cause)
	}

	if len(suggestions) > 0 {
		fmt.Fprintf(Stderr, "\n")
		if len(suggestions) == 1 {
			fmt.Fprintf(Stderr, "%s\n", suggestions[0])
		} else {
			fmt.Fprintf(Stderr, "Either:\n")
			for i, s := range suggestions {
				fmt.Fprintf(Stderr, "  %d. %s\n", i+1, s)
			}
		}
	}

	if cause == nil {
		return fmt.Errorf("%s", title)
	}
	return fmt.Errorf("%s: %w", title, cause)
}
