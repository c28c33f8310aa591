// Package metrics records import runs as Prometheus metrics on a private
// registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentstation/servicesync/pkg/errors"
	"github.com/agentstation/servicesync/pkg/importer"
)

const namespace = "servicesync"

// Run statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
	StatusDryRun  = "dry_run"
)

// Recorder holds the import collectors.
type Recorder struct {
	registry     *prometheus.Registry
	runs         *prometheus.CounterVec
	records      *prometheus.GaugeVec
	duration     prometheus.Histogram
	lastDuration prometheus.Gauge
	lastSuccess  prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry. Go runtime and
// process collectors are registered alongside.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_runs_total",
			Help:      "Import runs by status.",
		}, []string{"status"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "import_records",
			Help:      "Records seen by the last completed import, by kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Duration of import runs.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		lastDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "import_last_duration_seconds",
			Help:      "Duration of the last import run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "import_last_success_timestamp_seconds",
			Help:      "Unix time of the last import that stored a catalog.",
		}),
	}
	r.registry.MustRegister(
		r.runs, r.records, r.duration, r.lastDuration, r.lastSuccess,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry returns the registry the collectors are registered on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Status classifies a run outcome.
func Status(result *importer.Result, err error) string {
	switch {
	case err != nil || result == nil:
		return StatusFailed
	case result.DryRun:
		return StatusDryRun
	case !result.Persisted:
		return StatusSkipped
	default:
		return StatusSuccess
	}
}

// ObserveRun records one run. result may be nil when err is set.
func (r *Recorder) ObserveRun(result *importer.Result, err error, d time.Duration) {
	status := Status(result, err)
	r.runs.WithLabelValues(status).Inc()
	r.duration.Observe(d.Seconds())
	r.lastDuration.Set(d.Seconds())

	if status == StatusFailed {
		return
	}
	s := result.Stats
	for kind, n := range map[string]int{
		"offers":            s.Offers,
		"suitable":          s.Suitable,
		"native":            s.Native,
		"recognized":        s.Recognized,
		"demoted":           s.Demoted,
		"changed":           s.Changed,
		"services":          len(result.Services),
		"channels":          len(result.Channels),
		"channels_fetched":  s.ChannelsFetched,
		"channels_new":      s.ChannelsNew,
		"channels_unlinked": s.ChannelsUnlinked,
		"channels_known":    s.ChannelsKnown,
	} {
		r.records.WithLabelValues(kind).Set(float64(n))
	}
	if status == StatusSuccess {
		r.lastSuccess.Set(float64(result.FinishedAt.Time.Unix()))
	}
}

// WriteTextfile writes the registry to path for the node exporter textfile
// collector.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return errors.NewValidationError("metrics.textfile", path, "cannot be empty")
	}
	return errors.WrapIO("write", path, prometheus.WriteToTextfile(path, r.registry))
}
