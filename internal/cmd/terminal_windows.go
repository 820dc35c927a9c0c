//go:build windows

package cmd

import (
	"errors"
	"os"
)

var errNoTerminal = errors.New("the interactive picker is not supported on Windows")

func checkTERM() error { return nil }

// openTTY always fails on Windows; the widget falls back to native search.
func openTTY() (*os.File, int, int, error) {
	return nil, 0, 0, errNoTerminal
}

func acquireLock(string) (int, error) { return -1, errNoTerminal }

func releaseLock(int) {}
