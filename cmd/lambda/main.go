package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dmitrijs2005/fitplan/internal/server"
	"github.com/dmitrijs2005/fitplan/internal/server/config"
	"github.com/dmitrijs2005/fitplan/internal/server/lambdaproxy"
)

func main() {

	ctx := context.Background()

	// Lambda passes no arguments; configuration comes from the environment.
	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	app, err := server.NewApp(ctx, cfg, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	lambda.Start(lambdaproxy.New(app.Handler()).Handle)
}
