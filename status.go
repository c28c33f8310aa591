package servicesync

import (
	"context"

	"github.com/agentstation/utc"

	"github.com/agentstation/servicesync/pkg/store"
)

// Status describes the catalog store.
type Status struct {
	Counts            map[store.Collection]int `json:"counts" yaml:"counts"`
	LatestService     *utc.Time                `json:"latestService" yaml:"latestService"`
	LatestChannel     *utc.Time                `json:"latestChannel" yaml:"latestChannel"`
	AutoImportsActive bool                     `json:"autoImportsActive" yaml:"autoImportsActive"`
}

// statusCollections are reported in this order.
var statusCollections = []store.Collection{
	store.Municipalities,
	store.Services,
	store.Channels,
	store.ImportedServices,
	store.ImportedChannels,
}

// Status reports document counts and the newest imported update times.
func (c *client) Status(ctx context.Context) (*Status, error) {
	st := c.options.store
	s := &Status{Counts: make(map[store.Collection]int, len(statusCollections))}
	for _, col := range statusCollections {
		n, err := st.Count(ctx, col)
		if err != nil {
			return nil, err
		}
		s.Counts[col] = n
	}

	var err error
	if s.LatestService, err = st.LatestUpdate(ctx, store.ImportedServices); err != nil {
		return nil, err
	}
	if s.LatestChannel, err = st.LatestUpdate(ctx, store.ImportedChannels); err != nil {
		return nil, err
	}

	c.autoMu.Lock()
	s.AutoImportsActive = c.updateTicker != nil || c.scheduler != nil
	c.autoMu.Unlock()
	return s, nil
}
