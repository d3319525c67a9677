package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v6"
	"github.com/dmitrijs2005/fitplan/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv loads the dotenv file (without overriding variables that are
// already set) and then overlays every Config field whose variable is present.
func parseEnv(config *Config, args []string) error {
	path := flagx.EnvFile(args)
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
