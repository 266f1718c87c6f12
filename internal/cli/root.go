package cli

import (
	"context"
	"os"

	"github.com/alexanderramin/tally/internal/service"
	"github.com/alexanderramin/tally/internal/syncer"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// SyncRunner runs one sync against the configured container.
type SyncRunner interface {
	Sync(ctx context.Context) (*syncer.Report, error)
}

// App holds references to all services used by CLI commands.
type App struct {
	Activities service.ActivityService
	Sessions   service.SessionService
	Data       service.DataService

	// NewSyncRunner builds the runner lazily so commands that never touch
	// the remote do not need credentials. dryRun selects a throwaway
	// in-memory remote.
	NewSyncRunner func(ctx context.Context, dryRun bool) (SyncRunner, error)

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Defaults to a huh prompt.
	Confirm func(title, description string) (bool, error)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// TerminalInteractive is the default IsInteractive.
func TerminalInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// NewRootCmd creates the top-level "tally" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "tally",
		Short:         "Track time against activity goals and sync it to a spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newActivityCmd(app),
		newSessionCmd(app),
		newSyncCmd(app),
		newWipeCmd(app),
	)

	return root
}
