package cli

import (
	"fmt"

	"github.com/alexanderramin/tally/internal/cli/formatter"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/service"
	"github.com/spf13/cobra"
)

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"act"},
		Short:   "Manage activities",
	}

	cmd.AddCommand(
		newActivityAddCmd(app),
		newActivityListCmd(app),
		newActivityShowCmd(app),
		newActivityEditCmd(app),
		newActivityRemoveCmd(app),
	)

	return cmd
}

func newActivityAddCmd(app *App) *cobra.Command {
	var goal float64
	var scale, color string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Activities.Create(cmd.Context(), service.NewActivity{
				Name:      args[0],
				Goal:      goal,
				GoalScale: domain.GoalScale(scale),
				Color:     color,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created activity %q (#%d, %s)\n", a.Name, a.LocalID, a.SyncID)
			return nil
		},
	}

	cmd.Flags().Float64Var(&goal, "goal", 0, "Target amount per period")
	cmd.Flags().StringVar(&scale, "scale", string(domain.GoalDaily), "Goal period: daily, weekly, monthly or yearly")
	cmd.Flags().StringVar(&color, "color", "", "Display color as #rrggbb")

	return cmd
}

func newActivityListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			acts, err := app.Activities.List(cmd.Context(), all)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivityList(acts, all))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include deleted activities")

	return cmd
}

func newActivityShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveActivityID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			a, err := app.Activities.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivityDetail(a))
			return nil
		},
	}
}

func newActivityEditCmd(app *App) *cobra.Command {
	var name, scale, color string
	var goal float64

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveActivityID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			patch := domain.ActivityPatch{
				Name:      changed(flags, "name", name),
				Goal:      changed(flags, "goal", goal),
				GoalScale: changed(flags, "scale", domain.GoalScale(scale)),
				Color:     changed(flags, "color", color),
			}
			if patch == (domain.ActivityPatch{}) {
				return fmt.Errorf("nothing to change: pass at least one of --name, --goal, --scale, --color")
			}

			a, err := app.Activities.Update(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %q\n", a.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().Float64Var(&goal, "goal", 0, "New goal")
	cmd.Flags().StringVar(&scale, "scale", "", "New goal period")
	cmd.Flags().StringVar(&color, "color", "", "New display color")

	return cmd
}

func newActivityRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete an activity and untag its sessions",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveActivityID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Activities.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted activity %s\n", id)
			return nil
		},
	}
}
