package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read into Config.
const EnvPrefix = "AUTOPARTS"

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds CLI configuration.
type Config struct {
	APIBaseURL   string        `envconfig:"API_BASE_URL" validate:"required,url"`
	AssetBaseURL string        `envconfig:"ASSET_BASE_URL" validate:"omitempty,url"`
	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"5s" validate:"gt=0"`
	RateLimit    float64       `envconfig:"RATE_LIMIT" default:"0" validate:"gte=0"`
	Store        string        `envconfig:"STORE" default:"sqlite" validate:"oneof=sqlite file redis memory"`
	StorePath    string        `envconfig:"STORE_PATH"`
	RedisURL     string        `envconfig:"REDIS_URL" validate:"required_if=Store redis"`
	Namespace    string        `envconfig:"NAMESPACE" default:"root" validate:"required,alphanumunicode"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error"`
	LogFile      string        `envconfig:"LOG_FILE"`
	ImageCache   int           `envconfig:"IMAGE_CACHE" default:"64" validate:"gte=0"`

	ConfigDir   string `ignored:"true"`
	ShowVersion bool   `ignored:"true"`
}

// ParseFlags loads configuration from .env files, the environment and the
// command line, running the onboarding wizard when no catalog URL is known.
func ParseFlags(version string) (*Config, error) {
	loadDotEnv(".env", ".env.local")

	config, err := Load(os.Args[1:], os.Stderr)
	if err != nil {
		return nil, err
	}
	if config.ShowVersion {
		fmt.Printf("autoparts %s\n", version)
		os.Exit(0)
	}

	if config.APIBaseURL == "" {
		settings, err := loadOnboardingSettings(config.ConfigDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load onboarding settings: %w", err)
		}
		if shouldRunOnboarding(settings) {
			settings, err = runOnboarding(config.ConfigDir)
			if err != nil {
				return nil, fmt.Errorf("failed to run onboarding: %w", err)
			}
		}
		settings.apply(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// loadDotEnv reads env files in order. Variables already set are kept, so
// the first file wins over later ones.
func loadDotEnv(paths ...string) {
	for _, path := range paths {
		_ = godotenv.Load(path)
	}
}

// Load reads the AUTOPARTS_* environment, then applies flags from args and
// fills path defaults. It does not validate.
func Load(args []string, output io.Writer) (*Config, error) {
	config := &Config{}
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	fs := flag.NewFlagSet("autoparts", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&config.APIBaseURL, "api", config.APIBaseURL, "Catalog API base URL (or set AUTOPARTS_API_BASE_URL)")
	fs.StringVar(&config.AssetBaseURL, "assets", config.AssetBaseURL, "Base URL for product images (default: API URL)")
	fs.StringVar(&config.Store, "store", config.Store, "Selection store: sqlite, file, redis or memory")
	fs.StringVar(&config.StorePath, "store-path", config.StorePath, "SQLite file or JSON directory (default: ~/.autoparts)")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level: trace, debug, info, warn, error")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	config.APIBaseURL = strings.TrimSpace(config.APIBaseURL)
	config.AssetBaseURL = strings.TrimSpace(config.AssetBaseURL)
	config.Store = strings.ToLower(strings.TrimSpace(config.Store))
	config.LogLevel = strings.ToLower(strings.TrimSpace(config.LogLevel))

	if err := config.resolvePaths(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) resolvePaths() error {
	if c.StorePath != "" {
		c.ConfigDir = c.StorePath
		if c.Store == StoreSQLite {
			c.ConfigDir = filepath.Dir(c.StorePath)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		c.ConfigDir = filepath.Join(home, ".autoparts")
		switch c.Store {
		case StoreSQLite:
			c.StorePath = filepath.Join(c.ConfigDir, "autoparts.db")
		case StoreFile:
			c.StorePath = c.ConfigDir
		}
	}

	if err := os.MkdirAll(c.ConfigDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.ConfigDir, "autoparts.log")
	}
	return nil
}

// Validate checks the struct tags and reports every failing setting.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		names = append(names, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(names, ", "))
}
