// Package ttyguard disables terminal capability probing for machine-readable
// invocations. Import it for its side effect before any TUI package.
package ttyguard

import (
	"os"
	"strings"
)

// init runs before Bubble Tea acquires the terminal (and before any TUI starts).
//
// Lipgloss/Termenv background detection can emit OSC/DSR control sequences
// to stdout. They are harmless in a real terminal but corrupt JSON consumed
// by scripts, so JSON and other one-shot invocations set CI=1 early; Termenv
// skips TTY probing when CI is set.
func init() {
	if os.Getenv("CI") != "" {
		return
	}

	if !ShouldSuppressTTYQueries(os.Args, os.Getenv("SENTIBOARD_JSON") == "1", os.Getenv("SENTIBOARD_TEST_MODE") != "") {
		return
	}

	_ = os.Setenv("CI", "1")
}

// ShouldSuppressTTYQueries reports whether args describe a non-interactive run.
func ShouldSuppressTTYQueries(args []string, envJSON, envTest bool) bool {
	if envJSON || envTest {
		return true
	}

	for i, arg := range args {
		if i == 0 {
			continue
		}
		if strings.HasPrefix(arg, "--json") {
			return true
		}
		switch arg {
		case "--version", "--help", "-h", "version", "completion":
			return true
		}
	}

	return false
}
