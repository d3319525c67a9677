package cli

import (
	"github.com/spf13/cobra"
)

// RootCommand builds the command tree.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "fitplan",
		Short: "Workout planner client",
		Long: `fitplan talks to the workout planner API.

QUICK START:

  $ fitplan register alice
  $ fitplan login alice
  $ fitplan goal "Run a 5k in under 30 minutes" --context days=3
  $ fitplan plan "I can run 2k today" --goal <goal-id>
  $ fitplan log <plan-id> --notes "felt good"

Generated plans are cached locally and can be browsed with
'fitplan plans --offline'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		a.statusCommand(),
		a.registerCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.goalCommand(),
		a.goalsCommand(),
		a.planCommand(),
		a.plansCommand(),
		a.showCommand(),
		a.exportCommand(),
		a.logCommand(),
		a.sessionsCommand(),
	)
	return root
}
