package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/huskpkg/husk/internal/launch"
	"github.com/spf13/cobra"
)

var (
	runProps  []string
	runDryRun bool
)

// appExitCode carries the child process exit status out to main.
var appExitCode int

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <archive> [-- args...]",
		Short: "Launch an application archive",
		Long: `Launch an application archive. The archive's manifest supplies the entry
point, declared system properties and dependencies; its payload is
extracted into the cache on first launch only. Arguments after -- are
forwarded to the application verbatim.

Properties passed with -D override declared properties of the same name;
the declared value is suppressed entirely.`,
		Example: `  husk run app.jar
  husk run app.jar -- --port 8080
  husk run -Dfoo=x -Dzzz app.jar
  husk run --dry-run app.jar`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRun,
	}

	cmd.Flags().StringArrayVarP(&runProps, "property", "D", nil, "system property name[=value] for the child process (repeatable)")
	cmd.Flags().BoolVar(&runDryRun, "dry-run", false, "print the assembled command line instead of launching")
	cmd.SilenceUsage = true

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	if globalLauncher == nil {
		return fmt.Errorf("launcher not initialized")
	}

	props := make([]launch.Property, 0, len(runProps))
	for _, p := range runProps {
		props = append(props, launch.ParseProperty(p))
	}

	result, err := globalLauncher.Prepare(cmd.Context(), launch.Options{
		ArchivePath: args[0],
		Args:        args[1:],
		Props:       props,
	})
	if err != nil {
		return err
	}

	if runDryRun {
		fmt.Println(strings.Join(result.Command, " "))
		globalLauncher.Finish(result.RecordID, 0, nil)
		return nil
	}

	// One-shot handoff: the child inherits stdio and husk does not
	// monitor it beyond collecting the exit status.
	child := exec.CommandContext(cmd.Context(), result.Command[0], result.Command[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	runErr := child.Run()
	exitCode := 0
	var exitErr *exec.ExitError
	switch {
	case errors.As(runErr, &exitErr):
		exitCode = exitErr.ExitCode()
		runErr = nil
	case runErr != nil:
		globalLauncher.Finish(result.RecordID, -1, runErr)
		return fmt.Errorf("launching %s: %w", result.AppID, runErr)
	}

	globalLauncher.Finish(result.RecordID, exitCode, nil)
	appExitCode = exitCode
	return nil
}
