package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fitplan/internal/client/api"
	"github.com/dmitrijs2005/fitplan/internal/client/cache"
	"github.com/dmitrijs2005/fitplan/internal/filex"
	"github.com/dmitrijs2005/fitplan/internal/netx"
	"github.com/spf13/cobra"
)

func (a *App) planCommand() *cobra.Command {
	var goalID string

	cmd := &cobra.Command{
		Use:   "plan <what you want to achieve>",
		Short: "Generate a workout plan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := a.authorize()
			if err != nil {
				return err
			}

			faint(a.out, "Generating plan, this can take a while...\n")
			p, err := a.api.GeneratePlan(cmd.Context(), strings.Join(args, " "), goalID)
			if err != nil {
				return err
			}
			a.cachePlans(cmd.Context(), tok.UserID, *p)

			renderPlan(a.out, *p)
			return nil
		},
	}

	cmd.Flags().StringVar(&goalID, "goal", "", "link the plan to a saved goal")
	return cmd
}

func (a *App) plansCommand() *cobra.Command {
	var (
		goalID  string
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List generated plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := a.authorize()
			if err != nil {
				return err
			}

			var plans []api.Plan
			if offline {
				c, err := a.openCache(cmd.Context())
				if err != nil {
					return err
				}
				defer c.Close()

				if plans, err = c.List(cmd.Context(), tok.UserID, goalID); err != nil {
					return err
				}
			} else {
				if plans, err = a.api.ListPlans(cmd.Context(), goalID); err != nil {
					return err
				}
				a.cachePlans(cmd.Context(), tok.UserID, plans...)
			}

			if len(plans) == 0 {
				fmt.Fprintln(a.out, "No plans yet.")
				return nil
			}
			for _, p := range plans {
				header(a.out, p.PlanID)
				faint(a.out, "  goal %s, created %s, %d week(s)\n",
					p.GoalID, p.CreatedAt.Local().Format(dateLayout), len(weeksOf(p.Plan)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&goalID, "goal", "", "only plans of this goal")
	cmd.Flags().BoolVar(&offline, "offline", false, "read from the local cache")
	return cmd
}

func (a *App) showCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <plan-id>",
		Short: "Show a plan",
		Long:  "Show a plan. The local cache is used when the server cannot be reached.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := a.authorize()
			if err != nil {
				return err
			}

			var p api.Plan
			remote, err := a.api.GetPlan(cmd.Context(), args[0])
			switch {
			case err == nil:
				p = *remote
				a.cachePlans(cmd.Context(), tok.UserID, p)
			case isTransportError(err):
				warn(a.out, "server unavailable, showing cached copy")
				c, cerr := a.openCache(cmd.Context())
				if cerr != nil {
					return err
				}
				defer c.Close()
				if p, cerr = c.Get(cmd.Context(), tok.UserID, args[0]); cerr != nil {
					if errors.Is(cerr, cache.ErrNotCached) {
						return err
					}
					return cerr
				}
			default:
				return err
			}

			if asJSON {
				b, err := json.MarshalIndent(p, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, string(b))
				return nil
			}
			renderPlan(a.out, p)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func (a *App) exportCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <plan-id>",
		Short: "Export a plan to object storage and print a download link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.authorize(); err != nil {
				return err
			}

			res, err := a.api.ExportPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if out == "" {
				success(a.out, "Exported to %s", res.Key)
				fmt.Fprintf(a.out, "  URL: %s\n", res.URL)
				faint(a.out, "  valid until %s\n", res.ExpiresAt.Local().Format(dateLayout))
				return nil
			}

			var buf bytes.Buffer
			if _, err := netx.DownloadPresignedURL(cmd.Context(), a.http, res.URL, &buf); err != nil {
				return fmt.Errorf("download export: %w", err)
			}
			if err := filex.WriteFileAtomic(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			success(a.out, "Saved %s (%d bytes)", out, buf.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "download the export to this file")
	return cmd
}
