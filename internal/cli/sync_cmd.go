package cli

import (
	"fmt"

	"github.com/alexanderramin/tally/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Merge local data with the remote spreadsheet",
		Long: `Merge activities and sessions with the remote spreadsheet, newest edit
winning per record. The spreadsheet is created on first use.

--dry-run merges against an empty in-memory remote instead, showing what a
first sync would upload without touching the network.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.NewSyncRunner == nil {
				return fmt.Errorf("sync is not configured")
			}
			runner, err := app.NewSyncRunner(cmd.Context(), dryRun)
			if err != nil {
				return err
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Syncing...")
			}
			report, err := runner.Sync(cmd.Context())
			stop()
			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSyncReport(report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Merge against an in-memory remote")

	return cmd
}
