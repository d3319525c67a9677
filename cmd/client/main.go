package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/fitplan/internal/buildinfo"
	"github.com/dmitrijs2005/fitplan/internal/client/cli"
	"github.com/dmitrijs2005/fitplan/internal/client/config"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		buildinfo.PrintBuildData(os.Stdout)
		return
	}

	cfg, err := config.Load(os.Getenv("FITPLAN_CONFIG"))
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.ResolvePaths(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.NewApp(cfg, os.Stdin, os.Stdout).Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
