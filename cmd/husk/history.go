package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyApp   string
	historyLimit int
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded launches",
		Long: `Show launches recorded in the local history database, newest first.
Use --app to filter on one application identity.`,
		Example: `  husk history
  husk history --app hello_1.0
  husk history --limit 5`,
		RunE: historyRun,
	}

	cmd.Flags().StringVar(&historyApp, "app", "", "only show launches of this application id")
	cmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of launches to show (0 = all)")
	cmd.SilenceUsage = true

	return cmd
}

func historyRun(cmd *cobra.Command, args []string) error {
	if globalStore == nil {
		return fmt.Errorf("store not initialized")
	}

	launches, err := globalStore.ListLaunches(historyApp, historyLimit)
	if err != nil {
		return err
	}

	if len(launches) == 0 {
		fmt.Println("no launches recorded")
		return nil
	}

	for _, l := range launches {
		exit := "-"
		if l.ExitCode.Valid {
			exit = fmt.Sprintf("%d", l.ExitCode.Int64)
		}
		fmt.Printf("%-6d %-30s %-10s exit=%-4s %s\n",
			l.ID, l.AppID, l.Status, exit, l.StartTime.Format("2006-01-02 15:04:05"))
		if l.ErrorMessage != "" {
			fmt.Printf("       error: %s\n", l.ErrorMessage)
		}
	}
	return nil
}
