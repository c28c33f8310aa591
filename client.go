// Package servicesync provides the main entry point for importing the YTR
// service registry. A Client wires a registry, a catalog store and the
// importer together, and adds scheduled imports, event hooks and metrics.
//
// Example usage:
//
//	st := memory.New()
//	reg, err := ytr.NewClient("http://kompassi:8080/palvelutieto/api/v1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c, err := servicesync.New(
//	    servicesync.WithRegistry(reg),
//	    servicesync.WithStore(st),
//	    servicesync.WithSchedule("0 3 * * *"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	c.OnImportCompleted(func(r *importer.Result) {
//	    log.Println(r.Summary())
//	})
//
//	result, err := c.Import(ctx)
package servicesync

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/agentstation/servicesync/pkg/errors"
	"github.com/agentstation/servicesync/pkg/importer"
	"github.com/agentstation/servicesync/pkg/logging"
)

// Client imports the registry on demand or on a schedule.
type Client interface {
	// Importer runs imports
	Importer

	// AutoImporter provides access to automatic import controls
	AutoImporter

	// Hooks provides access to event callback registration
	Hooks

	// Status reports the state of the catalog store
	Status(ctx context.Context) (*Status, error)

	// Close stops automatic imports and closes the store
	Close() error
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options

	// importMu serializes imports; importer is built by the first one
	importMu sync.Mutex
	importer *importer.Importer

	// auto import state
	autoMu       sync.Mutex
	updateTicker *time.Ticker
	scheduler    *cron.Cron
	stopCh       chan struct{}
	updateCancel context.CancelFunc

	hooks *hooks
}

// New creates a new Client with the given options. A registry and a store
// are required.
func New(opts ...Option) (Client, error) {
	o := defaults().apply(opts...)
	if err := o.validate(); err != nil {
		return nil, err
	}

	c := &client{
		options: o,
		stopCh:  make(chan struct{}),
		hooks:   newHooks(),
	}

	logging.Debug().
		Bool("auto_imports", o.autoImportsEnabled).
		Dur("interval", o.autoImportInterval).
		Str("schedule", o.schedule).
		Msg("Client created")

	if o.autoImportsEnabled {
		if err := c.AutoImportsOn(); err != nil {
			return nil, errors.WrapResource("start", "auto-imports", "", err)
		}
	}
	return c, nil
}

// Close stops automatic imports and closes the store.
func (c *client) Close() error {
	if err := c.AutoImportsOff(); err != nil {
		return err
	}
	return c.options.store.Close()
}
