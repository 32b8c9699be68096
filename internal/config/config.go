package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix namespaces the environment variables read by Load.
const envPrefix = "FLASHDECK_"

// Config holds application configuration
type Config struct {
	ServerPort string `validate:"required"`

	DatabaseType   string `validate:"oneof=sqlite postgres mysql"`
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string `validate:"required"`

	AuthSecret string `validate:"required,min=16"`

	FaustOffset     int `validate:"min=1"`
	RateLimitBurst  int `validate:"min=1"`
	RateLimitWindow time.Duration

	AWSRegion      string
	EmailFrom      string
	EmailFromName  string
	AppBaseURL     string
	DigestTo       string
	DigestUser     string
	DigestInterval time.Duration
}

// Load reads configuration in order of precedence: defaults, an
// optional YAML file (--config), FLASHDECK_* environment variables,
// then command line flags.
func Load(args []string) (*Config, error) {
	f := pflag.NewFlagSet("flashdeck", pflag.ContinueOnError)
	f.String("config", "", "path to a YAML config file")
	f.String("server.port", "8080", "HTTP listen port")
	f.String("database.type", "sqlite", "database backend: sqlite, postgres or mysql")
	f.String("database.path", "./flashdeck.db", "sqlite database file")
	f.String("database.url", "", "connection string for postgres or mysql")
	f.String("database.migrations", "./migrations", "migrations directory")
	f.String("auth.secret", "", "HMAC secret for bearer tokens")
	f.Int("queue.faustoffset", 3, "reinsertion offset for the faust queue")
	f.Int("ratelimit.burst", 60, "answer submissions allowed per window")
	f.Duration("ratelimit.window", time.Minute, "rate limit window")
	f.String("email.region", "eu-west-1", "AWS region for SES")
	f.String("email.from", "", "SES from address; empty disables email")
	f.String("email.fromname", "Flashdeck", "SES from display name")
	f.String("email.baseurl", "", "public base URL used in email links")
	f.String("digest.to", "", "recipient address for the reminder digest")
	f.String("digest.user", "", "user id the reminder digest is computed for")
	f.Duration("digest.interval", 24*time.Hour, "how often the reminder digest runs")
	if err := f.Parse(args); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path, _ := f.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			return strings.ReplaceAll(key, "_", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	cfg := &Config{
		ServerPort:      k.String("server.port"),
		DatabaseType:    strings.ToLower(k.String("database.type")),
		DatabasePath:    k.String("database.path"),
		DatabaseURL:     k.String("database.url"),
		MigrationsPath:  k.String("database.migrations"),
		AuthSecret:      k.String("auth.secret"),
		FaustOffset:     k.Int("queue.faustoffset"),
		RateLimitBurst:  k.Int("ratelimit.burst"),
		RateLimitWindow: k.Duration("ratelimit.window"),
		AWSRegion:       k.String("email.region"),
		EmailFrom:       k.String("email.from"),
		EmailFromName:   k.String("email.fromname"),
		AppBaseURL:      k.String("email.baseurl"),
		DigestTo:        k.String("digest.to"),
		DigestUser:      k.String("digest.user"),
		DigestInterval:  k.Duration("digest.interval"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("invalid configuration: database.url is required for %s", cfg.DatabaseType)
	}

	return cfg, nil
}
