package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/huskpkg/husk/internal/launch"
	"github.com/spf13/cobra"
)

var extractForce bool

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <archive>",
		Short: "Extract an archive into the application cache",
		Long: `Extract an application archive's payload into its cache directory
without launching it. Extraction is idempotent: if the cache marker is
already present nothing is written. --force removes the marker first so
the payload is extracted again.`,
		Example: `  husk extract app.jar
  husk extract --force app.jar`,
		Args: cobra.ExactArgs(1),
		RunE: extractRun,
	}

	cmd.Flags().BoolVar(&extractForce, "force", false, "re-extract even if the cache marker is present")
	cmd.SilenceUsage = true

	return cmd
}

func extractRun(cmd *cobra.Command, args []string) error {
	if globalLauncher == nil {
		return fmt.Errorf("launcher not initialized")
	}

	result, err := globalLauncher.Prepare(cmd.Context(), launch.Options{ArchivePath: args[0]})
	if err != nil {
		return err
	}
	globalLauncher.Finish(result.RecordID, 0, nil)

	if extractForce && !result.Extracted {
		// Dropping the marker is enough; re-extraction overwrites files.
		marker := filepath.Join(result.CacheDir, launch.MarkerFile)
		if err := os.Remove(marker); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing cache marker: %w", err)
		}
		result, err = globalLauncher.Prepare(cmd.Context(), launch.Options{ArchivePath: args[0]})
		if err != nil {
			return err
		}
		globalLauncher.Finish(result.RecordID, 0, nil)
	}

	if result.Extracted {
		fmt.Printf("extracted %s to %s\n", result.AppID, result.CacheDir)
	} else {
		fmt.Printf("%s already extracted at %s\n", result.AppID, result.CacheDir)
	}
	return nil
}
