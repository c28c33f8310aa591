package servicesync

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/agentstation/servicesync/pkg/constants"
	"github.com/agentstation/servicesync/pkg/errors"
	"github.com/agentstation/servicesync/pkg/importer"
	"github.com/agentstation/servicesync/pkg/metrics"
	"github.com/agentstation/servicesync/pkg/store"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	registry     importer.Registry
	store        store.Store
	importerOpts []importer.Option

	autoImportsEnabled bool
	autoImportInterval time.Duration
	schedule           string
	importTimeout      time.Duration

	recorder        *metrics.Recorder
	metricsTextfile string
}

func defaults() *options {
	return &options{
		autoImportInterval: constants.DefaultImportInterval,
		importTimeout:      constants.ImportContextTimeout,
	}
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) validate() error {
	if o.registry == nil {
		return errors.NewValidationError("registry", nil, "is required")
	}
	if o.store == nil {
		return errors.NewValidationError("store", nil, "is required")
	}
	if o.schedule != "" {
		if _, err := cron.ParseStandard(o.schedule); err != nil {
			return errors.NewValidationError("schedule", o.schedule, err.Error())
		}
	}
	return nil
}

// WithRegistry sets the registry to import from.
func WithRegistry(r importer.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithStore sets the catalog store.
func WithStore(s store.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithImporterOptions passes options to the importer.
func WithImporterOptions(opts ...importer.Option) Option {
	return func(o *options) {
		o.importerOpts = append(o.importerOpts, opts...)
	}
}

// WithAutoImports configures whether automatic imports start with the client.
func WithAutoImports(enabled bool) Option {
	return func(o *options) {
		o.autoImportsEnabled = enabled
	}
}

// WithAutoImportInterval configures how often automatic imports run when no
// schedule is set.
func WithAutoImportInterval(interval time.Duration) Option {
	return func(o *options) {
		o.autoImportInterval = interval
	}
}

// WithSchedule runs automatic imports on a standard five field cron
// expression instead of a fixed interval.
func WithSchedule(spec string) Option {
	return func(o *options) {
		o.schedule = spec
	}
}

// WithImportTimeout bounds each automatic import.
func WithImportTimeout(d time.Duration) Option {
	return func(o *options) {
		o.importTimeout = d
	}
}

// WithMetrics records every import on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithMetricsTextfile writes the metrics to path after every import.
// It implies WithMetrics when no recorder is set.
func WithMetricsTextfile(path string) Option {
	return func(o *options) {
		o.metricsTextfile = path
		if o.recorder == nil && path != "" {
			o.recorder = metrics.NewRecorder()
		}
	}
}
