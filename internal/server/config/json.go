package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/flagx"
	"github.com/dmitrijs2005/fitplan/internal/timex"
)

// JSONConfig mirrors Config for JSON files. Pointer fields distinguish
// "absent" from "zero" so a partial file only overrides what it names.
type JSONConfig struct {
	EndpointAddr      *string         `json:"endpoint_addr"`
	HealthAddr        *string         `json:"health_addr"`
	DatabaseDSN       *string         `json:"database_dsn"`
	SecretKey         *string         `json:"secret_key"`
	TokenTTL          *timex.Duration `json:"token_ttl"`
	PlannerBackend    *string         `json:"planner_backend"`
	GeminiAPIKey      *string         `json:"gemini_api_key"`
	GeminiModel       *string         `json:"gemini_model"`
	GenerationTimeout *timex.Duration `json:"generation_timeout"`
	PasswordHash      *string         `json:"password_hash"`
	RedisAddr         *string         `json:"redis_addr"`
	RedisPassword     *string         `json:"redis_password"`
	GenerationLimit   *int            `json:"generation_limit"`
	GenerationWindow  *timex.Duration `json:"generation_window"`
	S3BaseEndpoint    *string         `json:"s3_base_endpoint"`
	S3Region          *string         `json:"s3_region"`
	S3Bucket          *string         `json:"s3_bucket"`
	S3AccessKey       *string         `json:"s3_access_key"`
	S3SecretKey       *string         `json:"s3_secret_key"`
	ExportURLTTL      *timex.Duration `json:"export_url_ttl"`
	LogLevel          *string         `json:"log_level"`
	LogBackend        *string         `json:"log_backend"`
	ShutdownTimeout   *timex.Duration `json:"shutdown_timeout"`
}

// parseJSON overlays values from the file given by -c/-config, if any.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *JSONConfig) apply(config *Config) {
	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.HealthAddr, c.HealthAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.TokenTTL, c.TokenTTL)
	setString(&config.PlannerBackend, c.PlannerBackend)
	setString(&config.GeminiAPIKey, c.GeminiAPIKey)
	setString(&config.GeminiModel, c.GeminiModel)
	setDuration(&config.GenerationTimeout, c.GenerationTimeout)
	setString(&config.PasswordHash, c.PasswordHash)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	if c.GenerationLimit != nil {
		config.GenerationLimit = *c.GenerationLimit
	}
	setDuration(&config.GenerationWindow, c.GenerationWindow)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setDuration(&config.ExportURLTTL, c.ExportURLTTL)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogBackend, c.LogBackend)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
