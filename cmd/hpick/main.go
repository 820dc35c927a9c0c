// Package main is the entry point for hpick, the shell history picker.
package main

import (
	"os"

	"github.com/runger/hpick/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
