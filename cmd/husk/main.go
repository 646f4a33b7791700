package main

import (
	"os"
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
	// Propagate the launched application's exit status.
	os.Exit(appExitCode)
}
