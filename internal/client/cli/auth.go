package cli

import (
	"fmt"

	"github.com/dmitrijs2005/fitplan/internal/client/session"
	"github.com/spf13/cobra"
)

func (a *App) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the server and the local login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.api.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("server %s unreachable: %w", a.config.ServerURL, err)
			}
			success(a.out, "%s", msg)

			tok, err := a.tokens.Load()
			if err != nil {
				fmt.Fprintln(a.out, "Not logged in.")
				return nil
			}
			fmt.Fprintf(a.out, "Logged in as %s\n", tok.Username)
			return nil
		},
	}
}

func (a *App) registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register [username]",
		Short: "Create an account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := a.readCredentials(firstArg(args))
			if err != nil {
				return err
			}

			res, err := a.api.Register(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			success(a.out, "%s", res.Message)
			fmt.Fprintf(a.out, "  User ID: %s\n", res.UserID)
			return nil
		},
	}
}

func (a *App) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and remember the access token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := a.readCredentials(firstArg(args))
			if err != nil {
				return err
			}

			res, err := a.api.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			err = a.tokens.Save(session.Token{
				AccessToken: res.AccessToken,
				UserID:      res.UserID,
				Username:    res.Username,
			})
			if err != nil {
				return err
			}

			success(a.out, "Logged in as %s", res.Username)
			return nil
		},
	}
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.tokens.Clear(); err != nil {
				return err
			}
			success(a.out, "Logged out")
			return nil
		},
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
