package cmd

import (
	"os"
	"runtime"

	"golang.org/x/term"
)

// ANSI color codes for plain command output (config listing).
// The picker itself styles through lipgloss.
var (
	colorYellow = "\033[0;33m"
	colorCyan   = "\033[0;36m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
	colorReset  = "\033[0m"
)

func init() {
	if shouldDisableColors(os.Getenv, term.IsTerminal(int(os.Stdout.Fd()))) {
		disableColors()
	}
}

func disableColors() {
	colorYellow = ""
	colorCyan = ""
	colorDim = ""
	colorBold = ""
	colorReset = ""
}

// shouldDisableColors reports whether escape codes should be left out of
// command output.
func shouldDisableColors(getenv func(string) string, stdoutIsTTY bool) bool {
	// https://no-color.org/
	if getenv("NO_COLOR") != "" {
		return true
	}
	if getenv("TERM") == "dumb" {
		return true
	}
	if !stdoutIsTTY {
		return true
	}

	if runtime.GOOS == "windows" {
		if getenv("WT_SESSION") != "" || getenv("TERM_PROGRAM") != "" {
			return false
		}
		// Older consoles only speak ANSI through a shim.
		return getenv("ANSICON") == "" && getenv("ConEmuANSI") != "ON"
	}

	return false
}
