package main

import (
	"fmt"
)

// Set with -ldflags at build time.
var (
	BuildTag    = "dev"
	BuildCommit = "none"
)

func versionCommand(ui UI) error {
	_, err := fmt.Fprintf(ui.Out, "svorel version %s (commit: %s)\n", BuildTag, BuildCommit)
	return err
}
