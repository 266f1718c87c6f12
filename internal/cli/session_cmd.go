package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/tally/internal/cli/formatter"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/service"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"s"},
		Short:   "Manage tracked sessions",
	}

	cmd.AddCommand(
		newSessionAddCmd(app),
		newSessionListCmd(app),
		newSessionShowCmd(app),
		newSessionEditCmd(app),
		newSessionRemoveCmd(app),
	)

	return cmd
}

func newSessionAddCmd(app *App) *cobra.Command {
	var start, end string
	var minutes int
	var activities []string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Record a session",
		Long: `Record a session. Give either --start or --minutes; --end defaults to now.

Times accept now, a relative duration such as -90m, 15:04 for today,
or a full 2006-01-02 15:04 date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now := time.Now()

			endMs, err := parseWhen(end, now)
			if err != nil {
				return err
			}
			var startMs int64
			switch {
			case cmd.Flags().Changed("start"):
				if startMs, err = parseWhen(start, now); err != nil {
					return err
				}
			case minutes > 0:
				startMs = endMs - int64(minutes)*int64(time.Minute/time.Millisecond)
			default:
				return fmt.Errorf("either --start or a positive --minutes is required")
			}

			ids, err := resolveActivityIDs(ctx, app, activities)
			if err != nil {
				return err
			}

			s, err := app.Sessions.Create(ctx, service.NewSession{
				Name:        args[0],
				StartTime:   startMs,
				EndTime:     endMs,
				ActivityIDs: ids,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s session %q (#%d)\n",
				formatter.FormatDuration(s.DurationMillis()), s.Name, s.LocalID)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start time")
	cmd.Flags().StringVar(&end, "end", "now", "End time")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Duration in minutes, counted back from --end")
	cmd.Flags().StringArrayVarP(&activities, "activity", "a", nil, "Activity to tag (repeatable)")

	return cmd
}

func newSessionListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sessions, err := app.Sessions.List(ctx, all)
			if err != nil {
				return err
			}
			names, err := activityNames(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionList(sessions, names, all, time.Now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include deleted sessions")

	return cmd
}

func newSessionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSessionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			s, err := app.Sessions.Get(ctx, id)
			if err != nil {
				return err
			}
			names, err := activityNames(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionDetail(s, names))
			return nil
		},
	}
}

func newSessionEditCmd(app *App) *cobra.Command {
	var name, start, end string
	var activities []string
	var clearIDs bool

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now := time.Now()
			id, err := resolveSessionID(ctx, app, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			patch := domain.SessionPatch{Name: changed(flags, "name", name)}
			if patch.StartTime, err = whenFlag(flags, "start", start, now); err != nil {
				return err
			}
			if patch.EndTime, err = whenFlag(flags, "end", end, now); err != nil {
				return err
			}
			switch {
			case clearIDs:
				ids := []string{}
				patch.ActivityIDs = &ids
			case flags.Changed("activity"):
				ids, err := resolveActivityIDs(ctx, app, activities)
				if err != nil {
					return err
				}
				patch.ActivityIDs = &ids
			}
			if patch == (domain.SessionPatch{}) {
				return fmt.Errorf("nothing to change: pass at least one of --name, --start, --end, --activity, --clear-activities")
			}

			s, err := app.Sessions.Update(ctx, id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated session %q\n", s.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&start, "start", "", "New start time")
	cmd.Flags().StringVar(&end, "end", "", "New end time")
	cmd.Flags().StringArrayVarP(&activities, "activity", "a", nil, "Replace tagged activities (repeatable)")
	cmd.Flags().BoolVar(&clearIDs, "clear-activities", false, "Remove every tagged activity")
	cmd.MarkFlagsMutuallyExclusive("activity", "clear-activities")

	return cmd
}

func newSessionRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a session",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSessionID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Sessions.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", id)
			return nil
		},
	}
}
