// Package store defines the catalog store the importer reads federated
// records from and writes reconciled records to.
//
// The federated collections (municipalities, services, channels) are read
// only. The imported collections (ytr_services, ytr_channels) are replaced
// wholesale on every successful run.
package store

import (
	"context"

	"github.com/agentstation/utc"

	"github.com/agentstation/servicesync/pkg/catalog"
	"github.com/agentstation/servicesync/pkg/errors"
)

// Collection names a set of documents in the catalog store.
type Collection string

// String returns the string representation of a Collection.
func (c Collection) String() string {
	return string(c)
}

// Collections of the catalog store.
const (
	Municipalities   Collection = "municipalities"
	Services         Collection = "services"
	Channels         Collection = "channels"
	ImportedServices Collection = "ytr_services"
	ImportedChannels Collection = "ytr_channels"
)

// Writable reports whether the importer may replace the collection.
func (c Collection) Writable() bool {
	return c == ImportedServices || c == ImportedChannels
}

// CheckWritable returns a *errors.CollectionError unless c is writable.
func CheckWritable(c Collection, operation string) error {
	if !c.Writable() {
		return errors.NewCollectionError(string(c), operation)
	}
	return nil
}

// Document is a record the store can persist.
type Document interface {
	DocumentID() string
	Updated() *utc.Time
}

// Documents converts a slice of records to documents.
func Documents[T Document](items []T) []Document {
	out := make([]Document, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// Reader reads the federated collections.
type Reader interface {
	// Municipalities returns the federated municipality catalog.
	Municipalities(ctx context.Context) ([]catalog.Municipality, error)

	// Services returns every federated service.
	Services(ctx context.Context) ([]catalog.Service, error)

	// ChannelsByServiceIDs returns the federated channels whose ServiceIDs
	// contain any of ids.
	ChannelsByServiceIDs(ctx context.Context, ids []string) ([]catalog.Channel, error)

	// ChannelsByIDs returns the federated channels whose ID is one of ids.
	ChannelsByIDs(ctx context.Context, ids []string) ([]catalog.Channel, error)
}

// Writer maintains the imported collections.
type Writer interface {
	// LatestUpdate returns the newest update time in a writable collection,
	// or nil when it holds no timestamped documents.
	LatestUpdate(ctx context.Context, c Collection) (*utc.Time, error)

	// ReplaceAll deletes every document of a writable collection and
	// inserts docs.
	ReplaceAll(ctx context.Context, c Collection, docs []Document) error

	// ReplaceImport replaces ytr_services with services and ytr_channels
	// with channels as one write. On error neither collection changes.
	ReplaceImport(ctx context.Context, services, channels []Document) error
}

// Store is a catalog store.
type Store interface {
	Reader
	Writer

	// Count returns the number of documents in any collection.
	Count(ctx context.Context, c Collection) (int, error)

	// Close releases resources held by the store.
	Close() error
}

// Latest returns the newest update time among docs, or nil.
func Latest(docs []Document) *utc.Time {
	var latest *utc.Time
	for _, d := range docs {
		u := d.Updated()
		if u == nil {
			continue
		}
		if latest == nil || u.Time.After(latest.Time) {
			t := *u
			latest = &t
		}
	}
	return latest
}

// ContainsAny reports whether values and ids share an element.
func ContainsAny(values, ids []string) bool {
	for _, v := range values {
		for _, id := range ids {
			if v == id {
				return true
			}
		}
	}
	return false
}
