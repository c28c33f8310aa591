package servicesync

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/agentstation/servicesync/pkg/errors"
	"github.com/agentstation/servicesync/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ AutoImporter = (*client)(nil)

// AutoImporter provides controls for automatic imports.
type AutoImporter interface {
	// AutoImportsOn begins automatic imports
	AutoImportsOn() error

	// AutoImportsOff stops automatic imports
	AutoImportsOff() error
}

// AutoImportsOn begins automatic imports, on the cron schedule when one is
// configured and on the interval ticker otherwise.
func (c *client) AutoImportsOn() error {
	if c.options.schedule == "" && c.options.autoImportInterval <= 0 {
		return &errors.ValidationError{
			Field:   "autoImportInterval",
			Value:   c.options.autoImportInterval,
			Message: "import interval must be positive",
		}
	}

	// Stop any existing auto-imports to prevent resource leaks
	if err := c.AutoImportsOff(); err != nil {
		return err
	}

	c.autoMu.Lock()
	defer c.autoMu.Unlock()

	c.stopCh = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	c.updateCancel = cancel

	if c.options.schedule != "" {
		return c.startSchedule(ctx)
	}

	c.updateTicker = time.NewTicker(c.options.autoImportInterval)
	go func(parentCtx context.Context, ticks <-chan time.Time, stop <-chan struct{}) {
		for {
			select {
			case <-ticks:
				if !c.scheduledImport(parentCtx) {
					return
				}
			case <-parentCtx.Done():
				return
			case <-stop:
				return
			}
		}
	}(ctx, c.updateTicker.C, c.stopCh)

	return nil
}

func (c *client) startSchedule(ctx context.Context) error {
	c.scheduler = cron.New(cron.WithLocation(time.UTC))
	if _, err := c.scheduler.AddFunc(c.options.schedule, func() { c.scheduledImport(ctx) }); err != nil {
		c.scheduler = nil
		return errors.NewValidationError("schedule", c.options.schedule, err.Error())
	}
	c.scheduler.Start()
	logging.Info().Str("schedule", c.options.schedule).Msg("Scheduled imports started")
	return nil
}

// scheduledImport runs one bounded import. It reports false when the
// parent context is done.
func (c *client) scheduledImport(parentCtx context.Context) bool {
	ctx, cancel := context.WithTimeout(parentCtx, c.options.importTimeout)
	_, err := c.Import(ctx)
	cancel()

	switch {
	case err == nil:
	case stderrors.Is(err, errors.ErrImportInProgress):
		logging.Warn().Msg("Skipping scheduled import, previous import still running")
	case parentCtx.Err() != nil:
		return false
	default:
		logging.Error().Err(err).Msg("Auto-import failed")
	}
	return true
}

// AutoImportsOff stops automatic imports.
func (c *client) AutoImportsOff() error {
	c.autoMu.Lock()
	defer c.autoMu.Unlock()

	if c.updateTicker != nil {
		c.updateTicker.Stop()
		c.updateTicker = nil
	}
	if c.scheduler != nil {
		c.scheduler.Stop()
		c.scheduler = nil
	}
	if c.updateCancel != nil {
		c.updateCancel()
		c.updateCancel = nil
	}
	select {
	case <-c.stopCh:
		// Already closed
	default:
		close(c.stopCh)
	}
	return nil
}

// NextImports returns the next n run times of a cron schedule after from.
func NextImports(spec string, from time.Time, n int) ([]time.Time, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, errors.NewValidationError("schedule", spec, err.Error())
	}
	out := make([]time.Time, 0, n)
	next := from
	for range n {
		next = schedule.Next(next)
		out = append(out, next)
	}
	return out, nil
}
