package app

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/servicesync/internal/sources/ytr"
	"github.com/agentstation/servicesync/pkg/constants"
	pkgerrors "github.com/agentstation/servicesync/pkg/errors"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverFiles    = "files"
	DriverPostgres = "postgres"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	Format  string

	// Config file
	ConfigFile string

	// Registry
	RegistryURL        string
	RegistryHost       string
	RegistryPort       string
	RegistryAPIKey     string
	RegistryAuthScheme string
	RegistryAuthHeader string
	RegistryTimeout    time.Duration

	// Catalog store
	StoreDriver      string
	StorePath        string
	DatabaseURL      string
	DatabaseMaxConns int32
	DatabaseMigrate  bool

	// Imports
	Schedule             string
	Interval             time.Duration
	ProvinceCodes        []string
	SuitableTargetGroups []string

	// Metrics and the ops server
	MetricsTextfile string
	ServerAddr      string
	ServerAPIKey    string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. Environment variables
//  3. .env files
//  4. Config file (path, or ~/.servicesync.yaml when path is empty)
//  5. Defaults
func LoadConfig(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, pkgerrors.NewConfigError("environment", "bind failed", err)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".servicesync")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit path must exist; the search locations are optional.
		if path != "" || !errors.As(err, &notFound) {
			return nil, pkgerrors.NewConfigError("config file", err.Error(), err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		RegistryURL:        v.GetString("registry.url"),
		RegistryHost:       v.GetString("registry.host"),
		RegistryPort:       v.GetString("registry.port"),
		RegistryAPIKey:     v.GetString("registry.api_key"),
		RegistryAuthScheme: v.GetString("registry.auth_scheme"),
		RegistryAuthHeader: v.GetString("registry.auth_header"),
		RegistryTimeout:    v.GetDuration("registry.timeout"),

		StoreDriver:      strings.ToLower(v.GetString("store.driver")),
		StorePath:        v.GetString("store.path"),
		DatabaseURL:      v.GetString("database.url"),
		DatabaseMaxConns: v.GetInt32("database.max_conns"),
		DatabaseMigrate:  v.GetBool("database.migrate"),

		Schedule:             v.GetString("import.schedule"),
		Interval:             v.GetDuration("import.interval"),
		ProvinceCodes:        list(v.GetStringSlice("import.province_codes")),
		SuitableTargetGroups: list(v.GetStringSlice("import.suitable_target_groups")),

		MetricsTextfile: v.GetString("metrics.textfile"),
		ServerAddr:      v.GetString("server.addr"),
		ServerAPIKey:    v.GetString("server.api_key"),

		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
		LogOutput: v.GetString("log.output"),
	}

	return config, config.Validate()
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverFiles, DriverPostgres:
	default:
		return pkgerrors.NewValidationError("store.driver", c.StoreDriver, "must be one of: memory, files, postgres")
	}
	if c.StoreDriver == DriverPostgres && c.DatabaseURL == "" {
		return pkgerrors.NewValidationError("database.url", "", "is required for the postgres store")
	}
	if c.Interval < 0 {
		return pkgerrors.NewValidationError("import.interval", c.Interval, "cannot be negative")
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags so that flag values
// take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("registry.timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("registry.auth_scheme", "header")
	v.SetDefault("store.driver", DriverFiles)
	v.SetDefault("store.path", "data")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("import.interval", constants.DefaultImportInterval)
	v.SetDefault("import.province_codes", constants.DefaultProvinceCodes)
	v.SetDefault("import.suitable_target_groups", constants.DefaultSuitableTargetGroups)
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")
}

// bindEnv accepts the registry's own host and port variables alongside
// REGISTRY_HOST and REGISTRY_PORT.
func bindEnv(v *viper.Viper) error {
	if err := v.BindEnv("registry.host", "REGISTRY_HOST", ytr.EnvHost); err != nil {
		return err
	}
	return v.BindEnv("registry.port", "REGISTRY_PORT", ytr.EnvPort)
}

// loadEnvFiles loads environment variables from .env files. godotenv never
// overrides a variable that is already set, so .env.local is loaded first.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// list splits comma separated entries so that "02,03" from the environment
// reads the same as a YAML sequence.
func list(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
