package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) logCommand() *cobra.Command {
	var (
		skipped bool
		notes   string
	)

	cmd := &cobra.Command{
		Use:   "log <plan-id>",
		Short: "Log a workout session against a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.authorize(); err != nil {
				return err
			}

			id, err := a.api.LogSession(cmd.Context(), args[0], !skipped, notes)
			if err != nil {
				return err
			}
			success(a.out, "Session logged")
			fmt.Fprintf(a.out, "  Session ID: %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipped, "skipped", false, "mark the session as not completed")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func (a *App) sessionsCommand() *cobra.Command {
	var planID string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List logged sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.authorize(); err != nil {
				return err
			}

			sessions, err := a.api.ListSessions(cmd.Context(), planID)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(a.out, "No sessions logged.")
				return nil
			}

			for _, s := range sessions {
				mark := "✓"
				if !s.Completed {
					mark = "✗"
				}
				fmt.Fprintf(a.out, "%s %s  plan %s  %s\n", mark, s.Date.Local().Format(dateLayout), s.PlanID, s.SessionID)
				if s.Notes != "" {
					faint(a.out, "    %s\n", s.Notes)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "only sessions of this plan")
	return cmd
}
