package servicesync

import (
	"context"
	"time"

	"github.com/agentstation/servicesync/pkg/errors"
	"github.com/agentstation/servicesync/pkg/importer"
	"github.com/agentstation/servicesync/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Importer = (*client)(nil)

// Importer runs imports.
type Importer interface {
	// Import runs one import. It fails with errors.ErrImportInProgress
	// when another import of this client is running.
	Import(ctx context.Context) (*importer.Result, error)
}

// Import runs one import, records it and fires the hooks.
func (c *client) Import(ctx context.Context) (*importer.Result, error) {
	if !c.importMu.TryLock() {
		return nil, errors.ErrImportInProgress
	}
	defer c.importMu.Unlock()

	logger := logging.FromContext(ctx)
	start := time.Now()

	result, err := c.run(ctx)
	elapsed := time.Since(start)

	if rec := c.options.recorder; rec != nil {
		rec.ObserveRun(result, err, elapsed)
		if path := c.options.metricsTextfile; path != "" {
			if werr := rec.WriteTextfile(path); werr != nil {
				logger.Warn().Err(werr).Str("path", path).Msg("Failed to write metrics textfile")
			}
		}
	}

	if err != nil {
		logger.Error().Err(err).Dur("duration", elapsed).Msg("Import failed")
		c.hooks.triggerFailed(err)
		return nil, err
	}

	logger.Info().
		Str("run_id", result.RunID).
		Bool("persisted", result.Persisted).
		Dur("duration", elapsed).
		Msg(result.Summary())
	c.hooks.triggerCompleted(result)
	return result, nil
}

func (c *client) run(ctx context.Context) (*importer.Result, error) {
	if c.importer == nil {
		imp, err := importer.New(ctx, c.options.registry, c.options.store, c.options.importerOpts...)
		if err != nil {
			return nil, err
		}
		c.importer = imp
	}
	return c.importer.Run(ctx)
}
