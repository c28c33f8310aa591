// Package app wires configuration, logging and the servicesync client into
// the servicesync command line tool.
package app

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/servicesync"
	"github.com/agentstation/servicesync/internal/sources/ytr"
	"github.com/agentstation/servicesync/internal/store/files"
	"github.com/agentstation/servicesync/internal/store/memory"
	"github.com/agentstation/servicesync/internal/store/postgres"
	"github.com/agentstation/servicesync/internal/transport"
	"github.com/agentstation/servicesync/pkg/errors"
	"github.com/agentstation/servicesync/pkg/importer"
	"github.com/agentstation/servicesync/pkg/store"
	"github.com/agentstation/servicesync/pkg/suitability"
)

// App holds the configuration, logger and the lazily opened registry and
// store of one servicesync invocation.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	flags  flags
	logger *zerolog.Logger

	stdout io.Writer
	stderr io.Writer

	mu       sync.Mutex
	registry importer.Registry
	store    store.Store
	client   servicesync.Client
}

// New creates a new App with the given version information. Configuration
// is loaded from the default locations; --config reloads it later.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	a := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.config == nil {
		config, err := LoadConfig("")
		if err != nil {
			return nil, errors.WrapResource("load", "config", "", err)
		}
		a.config = config
	}

	logger := NewLogger(a.config, a.stderr)
	a.logger = &logger
	return a, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Client builds a servicesync client from the configuration. opts are
// applied after the configured ones. The client is closed by Shutdown.
func (a *App) Client(ctx context.Context, opts ...servicesync.Option) (servicesync.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	reg, err := a.openRegistry()
	if err != nil {
		return nil, err
	}
	st, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	c, err := servicesync.New(append(a.clientOptions(reg, st), opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	a.client = c
	return c, nil
}

// Shutdown stops automatic imports and closes the store.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		err := a.client.Close()
		a.client = nil
		a.store = nil
		return err
	}
	if a.store != nil {
		err := a.store.Close()
		a.store = nil
		return err
	}
	return nil
}

func (a *App) clientOptions(reg importer.Registry, st store.Store) []servicesync.Option {
	cfg := a.config

	var filterOpts []suitability.Option
	if len(cfg.ProvinceCodes) > 0 {
		filterOpts = append(filterOpts, suitability.WithProvinceCodes(cfg.ProvinceCodes...))
	}
	if len(cfg.SuitableTargetGroups) > 0 {
		filterOpts = append(filterOpts, suitability.WithSuitableTargetGroups(cfg.SuitableTargetGroups...))
	}

	opts := []servicesync.Option{
		servicesync.WithRegistry(reg),
		servicesync.WithStore(st),
		servicesync.WithImporterOptions(importer.WithFilterOptions(filterOpts...)),
	}
	if cfg.Interval > 0 {
		opts = append(opts, servicesync.WithAutoImportInterval(cfg.Interval))
	}
	if cfg.Schedule != "" {
		opts = append(opts, servicesync.WithSchedule(cfg.Schedule))
	}
	if cfg.MetricsTextfile != "" {
		opts = append(opts, servicesync.WithMetricsTextfile(cfg.MetricsTextfile))
	}
	return opts
}

// openRegistry returns the injected registry or a YTR client for the
// configured URL or host.
func (a *App) openRegistry() (importer.Registry, error) {
	if a.registry != nil {
		return a.registry, nil
	}

	cfg := a.config
	baseURL := cfg.RegistryURL
	if baseURL == "" {
		if cfg.RegistryHost == "" {
			return nil, errors.NewConfigError("registry", "registry.url or "+ytr.EnvHost+" must be set", nil)
		}
		baseURL = ytr.BaseURL(cfg.RegistryHost, cfg.RegistryPort)
	}

	opts := []transport.Option{
		transport.WithUserAgent("servicesync/" + a.version),
	}
	if cfg.RegistryTimeout > 0 {
		opts = append(opts, transport.WithTimeout(cfg.RegistryTimeout))
	}
	if cfg.RegistryAPIKey != "" {
		opts = append(opts, transport.WithAuth(transport.AuthFor(cfg.RegistryAuthScheme, cfg.RegistryAuthHeader), cfg.RegistryAPIKey))
	}

	reg, err := ytr.NewClient(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	a.registry = reg
	return reg, nil
}

// openStore returns the injected store or opens the configured driver.
func (a *App) openStore(ctx context.Context) (store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	cfg := a.config
	var (
		st  store.Store
		err error
	)
	switch cfg.StoreDriver {
	case DriverMemory:
		st = memory.New()
	case DriverFiles:
		st, err = files.New(cfg.StorePath)
	case DriverPostgres:
		st, err = postgres.New(ctx, postgres.Config{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DatabaseMaxConns,
			Migrate:  cfg.DatabaseMigrate,
		})
	default:
		err = errors.NewValidationError("store.driver", cfg.StoreDriver, "must be one of: memory, files, postgres")
	}
	if err != nil {
		return nil, err
	}

	a.logger.Debug().Str("driver", cfg.StoreDriver).Msg("Opened catalog store")
	a.store = st
	return st, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if err := config.Validate(); err != nil {
			return err
		}
		a.config = config
		return nil
	}
}

// WithRegistry replaces the configured registry client.
func WithRegistry(r importer.Registry) Option {
	return func(a *App) error {
		a.registry = r
		return nil
	}
}

// WithStore replaces the configured catalog store.
func WithStore(s store.Store) Option {
	return func(a *App) error {
		a.store = s
		return nil
	}
}

// WithOutput redirects command output and warnings.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) error {
		a.stdout = stdout
		a.stderr = stderr
		return nil
	}
}
