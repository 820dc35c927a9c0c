//go:build !windows

package cmd

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// minTermWidth is the narrowest terminal the picker will draw in.
const minTermWidth = 20

// checkTERM verifies that the TERM environment variable is not "dumb".
func checkTERM() error {
	if os.Getenv("TERM") == "dumb" {
		return errors.New("TERM=dumb is not supported")
	}
	return nil
}

// openTTY opens the controlling terminal and returns it with its size.
// The caller closes the file.
func openTTY() (*os.File, int, int, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("no TTY available: %w", err)
	}

	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		tty.Close()
		return nil, 0, 0, errors.New("/dev/tty is not a terminal")
	}

	width, height, err := term.GetSize(fd)
	if err != nil {
		tty.Close()
		return nil, 0, 0, fmt.Errorf("cannot get terminal size: %w", err)
	}
	if width < minTermWidth {
		tty.Close()
		return nil, 0, 0, fmt.Errorf("terminal too narrow (%d columns, need at least %d)", width, minTermWidth)
	}

	return tty, width, height, nil
}

// acquireLock acquires an advisory file lock using flock.
// Returns the file descriptor (kept open for the duration of the process).
func acquireLock(path string) (int, error) {
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR|unix.O_CLOEXEC, 0o600)
	if err != nil {
		return -1, fmt.Errorf("cannot open lock file: %w", err)
	}

	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		unix.Close(fd)
		return -1, errors.New("another instance of hpick is running")
	}

	return fd, nil
}

// releaseLock releases the advisory file lock.
func releaseLock(fd int) {
	if fd >= 0 {
		_ = unix.Flock(fd, unix.LOCK_UN)
		_ = unix.Close(fd)
	}
}
