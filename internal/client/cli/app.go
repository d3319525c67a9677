// Package cli implements the fitplan command line client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/fitplan/internal/client/api"
	"github.com/dmitrijs2005/fitplan/internal/client/cache"
	"github.com/dmitrijs2005/fitplan/internal/client/config"
	"github.com/dmitrijs2005/fitplan/internal/client/session"
)

type App struct {
	config *config.Config
	api    *api.Client
	tokens *session.Store
	http   *http.Client

	in   *bufio.Reader
	inFd int
	out  io.Writer
}

// NewApp wires the client against cfg. Input is read from in and all output
// goes to out.
func NewApp(cfg *config.Config, in io.Reader, out io.Writer) *App {
	fd := -1
	if f, ok := in.(*os.File); ok {
		fd = int(f.Fd())
	}

	return &App{
		config: cfg,
		api:    api.New(cfg.ServerURL, cfg.Timeout),
		tokens: session.NewStore(cfg.TokenFile),
		http:   &http.Client{Timeout: cfg.Timeout},
		in:     bufio.NewReader(in),
		inFd:   fd,
		out:    out,
	}
}

// Run executes the command line args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	cmd := a.RootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(a.out)
	cmd.SetErr(a.out)

	if err := cmd.ExecuteContext(ctx); err != nil {
		printError(a.out, err)
		return 1
	}
	return 0
}

// authorize loads the saved token and attaches it to the API client.
func (a *App) authorize() (*session.Token, error) {
	tok, err := a.tokens.Load()
	if err != nil {
		return nil, err
	}
	a.api.SetToken(tok.AccessToken)
	return tok, nil
}

func (a *App) openCache(ctx context.Context) (*cache.PlanCache, error) {
	return cache.Open(ctx, a.config.CacheFile)
}

// cachePlans stores plans locally. Cache failures never fail a command.
func (a *App) cachePlans(ctx context.Context, userID string, plans ...api.Plan) {
	c, err := a.openCache(ctx)
	if err != nil {
		warn(a.out, "plan cache unavailable: %v", err)
		return
	}
	defer c.Close()

	if err := c.PutAll(ctx, userID, plans); err != nil {
		warn(a.out, "could not cache plans: %v", err)
	}
}

func (a *App) readCredentials(username string) (string, string, error) {
	var err error
	if username == "" {
		username, err = GetSimpleText(a.in, "Username", a.out)
		if err != nil {
			return "", "", err
		}
	}
	if username == "" {
		return "", "", errors.New("username must not be empty")
	}

	password, err := GetPassword(a.in, a.inFd, a.out)
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	return username, password, nil
}
