// Package config handles configuration for the server component: defaults,
// an optional JSON file, dotenv/environment overlay and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Planner backends.
const (
	PlannerGemini = "gemini"
	PlannerStatic = "static"
)

// Password hashing schemes.
const (
	HashBcrypt = "bcrypt"
	HashArgon2 = "argon2"
)

// Config holds runtime settings for the workout API server.
//
// Secrets (SecretKey, DatabaseDSN and, for the gemini planner, GeminiAPIKey)
// have no defaults and must be supplied; Validate reports their absence.
type Config struct {
	EndpointAddr string `env:"HTTP_ADDR"`
	HealthAddr   string `env:"HEALTH_ADDR"`

	// DatabaseDSN selects the document store: postgres://, mongodb:// or memory://.
	DatabaseDSN string `env:"DATABASE_DSN"`

	SecretKey string        `env:"JWT_SECRET_KEY"`
	TokenTTL  time.Duration `env:"TOKEN_TTL"`

	PasswordHash string `env:"PASSWORD_HASH"`

	PlannerBackend    string        `env:"PLANNER_BACKEND"`
	GeminiAPIKey      string        `env:"GEMINI_API_KEY"`
	GeminiModel       string        `env:"GEMINI_MODEL"`
	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT"`

	// Empty RedisAddr keeps generation rate limiting in-process.
	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	GenerationLimit  int           `env:"GENERATION_LIMIT"`
	GenerationWindow time.Duration `env:"GENERATION_WINDOW"`

	// Empty S3Bucket disables plan export.
	S3BaseEndpoint string        `env:"S3_ENDPOINT"`
	S3Region       string        `env:"S3_REGION"`
	S3Bucket       string        `env:"S3_BUCKET"`
	S3AccessKey    string        `env:"S3_ACCESS_KEY"`
	S3SecretKey    string        `env:"S3_SECRET_KEY"`
	ExportURLTTL   time.Duration `env:"EXPORT_URL_TTL"`

	LogLevel        string        `env:"LOG_LEVEL"`
	LogBackend      string        `env:"LOG_BACKEND"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// LoadDefaults populates Config with development defaults. Secrets are left empty.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.HealthAddr = ":50051"
	c.TokenTTL = 30 * 24 * time.Hour
	c.PasswordHash = HashBcrypt
	c.PlannerBackend = PlannerGemini
	c.GeminiModel = "gemini-2.5-flash"
	c.GenerationTimeout = 60 * time.Second
	c.GenerationLimit = 20
	c.GenerationWindow = time.Hour
	c.S3Region = "us-east-1"
	c.ExportURLTTL = 15 * time.Minute
	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.ShutdownTimeout = 10 * time.Second
}

// LoadConfig builds a Config from os.Args, see Load.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies, in order: defaults, the JSON file named by -c/-config,
// the dotenv file named by -env (".env" when present), process environment
// and finally command-line flags. Later sources win.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports missing secrets and nonsensical values. A failure here
// is fatal for the process.
func (c *Config) Validate() error {
	var errs []error

	if c.SecretKey == "" {
		errs = append(errs, errors.New("JWT secret key is required"))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is required"))
	}

	switch c.PlannerBackend {
	case PlannerGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("gemini API key is required"))
		}
	case PlannerStatic:
	default:
		errs = append(errs, fmt.Errorf("unknown planner backend %q", c.PlannerBackend))
	}

	switch c.PasswordHash {
	case HashBcrypt, HashArgon2:
	default:
		errs = append(errs, fmt.Errorf("unknown password hash %q", c.PasswordHash))
	}

	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token TTL must be positive"))
	}
	if c.GenerationLimit < 0 {
		errs = append(errs, errors.New("generation limit must not be negative"))
	}
	if c.GenerationLimit > 0 && c.GenerationWindow <= 0 {
		errs = append(errs, errors.New("generation window must be positive when a limit is set"))
	}

	return errors.Join(errs...)
}

// ExportEnabled reports whether plan export to object storage is configured.
func (c *Config) ExportEnabled() bool {
	return c.S3Bucket != ""
}
