package app

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/servicesync"
	"github.com/agentstation/servicesync/internal/server"
	"github.com/agentstation/servicesync/pkg/constants"
	"github.com/agentstation/servicesync/pkg/errors"
	"github.com/agentstation/servicesync/pkg/importer"
	"github.com/agentstation/servicesync/pkg/logging"
	"github.com/agentstation/servicesync/pkg/metrics"
)

// NewImportCommand creates the import command.
func (a *App) NewImportCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Run one import",
		Long: `Import fetches the registry, reconciles services and channels against
the federated catalog and replaces the imported collections.

With --dry-run the run is reconciled and reported but nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), constants.CommandTimeout)
			defer cancel()

			c, err := a.Client(ctx, servicesync.WithImporterOptions(importer.WithDryRun(dryRun)))
			if err != nil {
				return err
			}
			result, err := c.Import(ctx)
			if err != nil {
				return err
			}
			return a.write(result, resultTable{result})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "reconcile without writing to the store")
	return cmd
}

// NewStatusCommand creates the status command.
func (a *App) NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show catalog store counts and latest imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.Client(cmd.Context())
			if err != nil {
				return err
			}
			status, err := c.Status(cmd.Context())
			if err != nil {
				return err
			}
			return a.write(status, statusTable{status})
		},
	}
}

// NewScheduleCommand creates the schedule command.
func (a *App) NewScheduleCommand() *cobra.Command {
	var (
		schedule string
		interval time.Duration
		addr     string
		next     int
		now      bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run imports on a schedule until interrupted",
		Long: `Schedule runs imports on a cron schedule (--schedule "0 3 * * *") or at a
fixed interval until the process receives SIGINT or SIGTERM.

With --addr an ops server is started that serves /healthz, /status and the
Prometheus metrics of the runs on /metrics. When server.api_key is set it
also accepts POST /import to trigger a run.

With --next the upcoming import times are printed and nothing runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("schedule") {
				a.config.Schedule = schedule
			}
			if cmd.Flags().Changed("interval") {
				a.config.Interval = interval
			}
			if cmd.Flags().Changed("addr") {
				a.config.ServerAddr = addr
			}

			if next > 0 {
				return a.printNextImports(next)
			}
			return a.runSchedule(cmd.Context(), now)
		},
	}
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron expression (overrides import.schedule)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "interval between imports when no schedule is set")
	cmd.Flags().StringVar(&addr, "addr", "", "address of the ops server, e.g. :9090")
	cmd.Flags().IntVar(&next, "next", 0, "print the next n import times and exit")
	cmd.Flags().BoolVar(&now, "now", false, "run one import before the first scheduled one")
	return cmd
}

func (a *App) printNextImports(n int) error {
	if a.config.Schedule == "" {
		return errors.NewValidationError("schedule", "", "--next requires a schedule")
	}
	times, err := servicesync.NextImports(a.config.Schedule, time.Now().UTC(), n)
	if err != nil {
		return err
	}
	return a.write(times, scheduleTable(times))
}

func (a *App) runSchedule(ctx context.Context, now bool) error {
	logger := logging.FromContext(ctx)

	opts := []servicesync.Option{servicesync.WithImportTimeout(constants.ImportContextTimeout)}
	var recorder *metrics.Recorder
	if a.config.ServerAddr != "" {
		recorder = metrics.NewRecorder()
		opts = append(opts, servicesync.WithMetrics(recorder))
	}

	c, err := a.Client(ctx, opts...)
	if err != nil {
		return err
	}
	c.OnImportCompleted(func(r *importer.Result) {
		fmt.Fprintf(a.stdout, "%s %s\n", r.FinishedAt.Time.Format(time.RFC3339), r.Summary())
	})
	c.OnImportFailed(func(err error) {
		fmt.Fprintf(a.stderr, "%s import failed: %v\n", time.Now().UTC().Format(time.RFC3339), err)
	})

	var serverDone chan error
	if recorder != nil {
		cfg := server.DefaultConfig()
		cfg.Addr = a.config.ServerAddr
		cfg.APIKey = a.config.ServerAPIKey
		srv := server.New(c, recorder, cfg, logger)

		serverDone = make(chan error, 1)
		go func() { serverDone <- srv.ListenAndServe(ctx) }()
	}

	if now {
		// A failed first run is reported by the hook; the schedule still starts.
		_, _ = c.Import(ctx)
	}

	if err := c.AutoImportsOn(); err != nil {
		return err
	}
	logger.Info().
		Str("schedule", a.config.Schedule).
		Dur("interval", a.config.Interval).
		Msg("Automatic imports started")

	select {
	case <-ctx.Done():
	case err := <-serverDone:
		_ = c.AutoImportsOff()
		return err
	}
	logger.Info().Msg("Stopping automatic imports")

	if err := c.AutoImportsOff(); err != nil {
		return err
	}
	if serverDone != nil {
		return <-serverDone
	}
	return nil
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			info := versionInfo{
				Version:   a.version,
				Commit:    a.commit,
				Date:      a.date,
				BuiltBy:   a.builtBy,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			return a.write(info, info)
		},
	}
}
