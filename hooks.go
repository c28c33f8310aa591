package servicesync

import (
	"sync"

	"github.com/agentstation/servicesync/pkg/importer"
)

// Compile-time interface check to ensure proper implementation.
var _ Hooks = (*client)(nil)

// Hook function types for import events
type (
	// ImportCompletedHook is called after an import finishes without error,
	// whether or not it stored a catalog
	ImportCompletedHook func(result *importer.Result)

	// ImportFailedHook is called after an import fails
	ImportFailedHook func(err error)
)

// Hooks provides event callback registration.
type Hooks interface {
	// OnImportCompleted registers a callback for completed imports
	OnImportCompleted(fn ImportCompletedHook)

	// OnImportFailed registers a callback for failed imports
	OnImportFailed(fn ImportFailedHook)
}

// hooks manages event callbacks for imports
type hooks struct {
	mu          sync.RWMutex
	onCompleted []ImportCompletedHook
	onFailed    []ImportFailedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnImportCompleted registers a callback for completed imports.
func (c *client) OnImportCompleted(fn ImportCompletedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onCompleted = append(c.hooks.onCompleted, fn)
}

// OnImportFailed registers a callback for failed imports.
func (c *client) OnImportFailed(fn ImportFailedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onFailed = append(c.hooks.onFailed, fn)
}

func (h *hooks) triggerCompleted(result *importer.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onCompleted {
		fn(result)
	}
}

func (h *hooks) triggerFailed(err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onFailed {
		fn(err)
	}
}
