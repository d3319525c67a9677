package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/fitplan/internal/flagx"
)

var knownFlags = []string{"-a", "-g", "-d", "-s", "-t", "-k", "-m", "-p", "-r", "-b", "-e", "-l"}

// parseFlags overlays selected Config fields from command-line flags.
//
//	-a string     HTTP bind address (":8080")
//	-g string     gRPC health bind address (":50051")
//	-d string     document store DSN
//	-s string     JWT signing secret
//	-t duration   access token lifetime ("720h")
//	-k string     Gemini API key
//	-m string     Gemini model
//	-p string     planner backend (gemini|static)
//	-r string     Redis address for generation rate limiting
//	-b string     S3 bucket for plan export
//	-e string     S3 base endpoint
//	-l string     log level
//
// Only the flags above are parsed; others on the command line are left for
// other readers.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "HTTP address and port")
	fs.StringVar(&config.HealthAddr, "g", config.HealthAddr, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "document store DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT secret key")
	fs.DurationVar(&config.TokenTTL, "t", config.TokenTTL, "access token lifetime")
	fs.StringVar(&config.GeminiAPIKey, "k", config.GeminiAPIKey, "Gemini API key")
	fs.StringVar(&config.GeminiModel, "m", config.GeminiModel, "Gemini model")
	fs.StringVar(&config.PlannerBackend, "p", config.PlannerBackend, "planner backend")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "Redis address")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
