package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *App) goalCommand() *cobra.Command {
	var goalContext map[string]string

	cmd := &cobra.Command{
		Use:   "goal [text]",
		Short: "Save a fitness goal",
		Long: `Save a fitness goal. Without an argument the goal text is read from
standard input until an empty line.

Examples:
  fitplan goal "Do 10 pull-ups" --context level=beginner --context days=3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.authorize(); err != nil {
				return err
			}

			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				var err error
				text, err = GetMultiline(a.in, "Describe your goal", a.out)
				if err != nil {
					return err
				}
			}

			ctxMap := make(map[string]any, len(goalContext))
			for k, v := range goalContext {
				ctxMap[k] = v
			}

			id, err := a.api.SaveGoal(cmd.Context(), text, ctxMap)
			if err != nil {
				return err
			}
			success(a.out, "Goal saved")
			fmt.Fprintf(a.out, "  Goal ID: %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringToStringVar(&goalContext, "context", nil, "extra context as key=value pairs")
	return cmd
}

func (a *App) goalsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "goals",
		Short: "List saved goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.authorize(); err != nil {
				return err
			}

			goals, err := a.api.ListGoals(cmd.Context())
			if err != nil {
				return err
			}
			if len(goals) == 0 {
				fmt.Fprintln(a.out, "No goals yet.")
				return nil
			}

			for _, g := range goals {
				header(a.out, g.GoalID)
				fmt.Fprintf(a.out, "  %s\n", g.GoalText)
				faint(a.out, "  %s, saved %s\n", g.Status, g.CreatedAt.Local().Format(dateLayout))
				for _, k := range sortedKeys(g.Context) {
					faint(a.out, "  %s: %v\n", k, g.Context[k])
				}
			}
			return nil
		},
	}
}
