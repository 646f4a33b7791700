package main

import (
	"fmt"

	"github.com/huskpkg/husk/internal/archive"
	"github.com/spf13/cobra"
)

var inspectManifestOnly bool

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <archive>",
		Short: "List an archive's entries and manifest",
		Long: `List the entries and manifest metadata of an application archive
without extracting or launching anything. Works on polyglot files: any
executable prefix before the archive data is skipped.`,
		Example: `  husk inspect app.jar
  husk inspect --manifest-only app.jar`,
		Args: cobra.ExactArgs(1),
		RunE: inspectRun,
	}

	cmd.Flags().BoolVar(&inspectManifestOnly, "manifest-only", false, "print only the manifest metadata")
	cmd.SilenceUsage = true

	return cmd
}

func inspectRun(cmd *cobra.Command, args []string) error {
	a, err := archive.NewFromFile(args[0])
	if err != nil {
		return err
	}

	m := a.Manifest()
	if m.Len() == 0 {
		fmt.Println("manifest: (none)")
	} else {
		fmt.Println("manifest:")
		for _, key := range m.Keys() {
			fmt.Printf("  %s: %s\n", key, m.Get(key))
		}
	}

	if inspectManifestOnly {
		return nil
	}

	entries, err := a.Entries()
	if err != nil {
		return err
	}

	fmt.Printf("entries: %d\n", len(entries))
	for _, e := range entries {
		kind := "file"
		if e.IsDir() {
			kind = "dir"
		}
		fmt.Printf("  %-8s %10d  %s\n", kind, e.UncompressedSize, e.Name)
	}
	return nil
}
