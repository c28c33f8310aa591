// Package memory provides an in-memory catalog store.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/agentstation/utc"

	"github.com/agentstation/servicesync/pkg/catalog"
	"github.com/agentstation/servicesync/pkg/store"
)

var _ store.Store = (*Store)(nil)

// Store keeps every collection in memory.
type Store struct {
	mu             sync.RWMutex
	municipalities []catalog.Municipality
	services       []catalog.Service
	channels       []catalog.Channel
	written        map[store.Collection][]store.Document
}

// Option configures a Store.
type Option func(*Store)

// WithMunicipalities seeds the federated municipality catalog.
func WithMunicipalities(municipalities ...catalog.Municipality) Option {
	return func(s *Store) {
		s.municipalities = append(s.municipalities, municipalities...)
	}
}

// WithServices seeds the federated services.
func WithServices(services ...catalog.Service) Option {
	return func(s *Store) {
		for _, svc := range services {
			s.services = append(s.services, svc.Clone())
		}
	}
}

// WithChannels seeds the federated channels.
func WithChannels(channels ...catalog.Channel) Option {
	return func(s *Store) {
		for _, ch := range channels {
			s.channels = append(s.channels, ch.Clone())
		}
	}
}

// New creates an in-memory store.
func New(opts ...Option) *Store {
	s := &Store{written: make(map[store.Collection][]store.Document)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Municipalities implements store.Reader.
func (s *Store) Municipalities(_ context.Context) ([]catalog.Municipality, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.municipalities), nil
}

// Services implements store.Reader.
func (s *Store) Services(_ context.Context) ([]catalog.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Service, len(s.services))
	for i, svc := range s.services {
		out[i] = svc.Clone()
	}
	return out, nil
}

// ChannelsByServiceIDs implements store.Reader.
func (s *Store) ChannelsByServiceIDs(_ context.Context, ids []string) ([]catalog.Channel, error) {
	return s.filterChannels(func(ch catalog.Channel) bool {
		return store.ContainsAny(ch.ServiceIDs, ids)
	}), nil
}

// ChannelsByIDs implements store.Reader.
func (s *Store) ChannelsByIDs(_ context.Context, ids []string) ([]catalog.Channel, error) {
	return s.filterChannels(func(ch catalog.Channel) bool {
		return ch.ID != nil && slices.Contains(ids, *ch.ID)
	}), nil
}

func (s *Store) filterChannels(match func(catalog.Channel) bool) []catalog.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []catalog.Channel
	for _, ch := range s.channels {
		if match(ch) {
			out = append(out, ch.Clone())
		}
	}
	return out
}

// LatestUpdate implements store.Writer.
func (s *Store) LatestUpdate(_ context.Context, c store.Collection) (*utc.Time, error) {
	if err := store.CheckWritable(c, "latest update"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.Latest(s.written[c]), nil
}

// ReplaceAll implements store.Writer.
func (s *Store) ReplaceAll(_ context.Context, c store.Collection, docs []store.Document) error {
	if err := store.CheckWritable(c, "replace"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written[c] = slices.Clone(docs)
	return nil
}

// ReplaceImport implements store.Writer.
func (s *Store) ReplaceImport(_ context.Context, services, channels []store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written[store.ImportedServices] = slices.Clone(services)
	s.written[store.ImportedChannels] = slices.Clone(channels)
	return nil
}

// Count implements store.Store.
func (s *Store) Count(_ context.Context, c store.Collection) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch c {
	case store.Municipalities:
		return len(s.municipalities), nil
	case store.Services:
		return len(s.services), nil
	case store.Channels:
		return len(s.channels), nil
	default:
		return len(s.written[c]), nil
	}
}

// Documents returns the documents last written to a collection.
func (s *Store) Documents(c store.Collection) []store.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.written[c])
}

// Close implements store.Store.
func (s *Store) Close() error {
	return nil
}
