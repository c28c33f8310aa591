// Package files provides a catalog store backed by one YAML file per
// collection in a directory.
package files

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/agentstation/servicesync/pkg/catalog"
	"github.com/agentstation/servicesync/pkg/constants"
	"github.com/agentstation/servicesync/pkg/errors"
	"github.com/agentstation/servicesync/pkg/logging"
	"github.com/agentstation/servicesync/pkg/store"
)

var _ store.Store = (*Store)(nil)

// Store reads and writes <dir>/<collection>.yaml. A missing file is an
// empty collection.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates a files store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.NewConfigError("store", "files store path is required", nil)
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the file holding a collection.
func (s *Store) Path(c store.Collection) string {
	return filepath.Join(s.dir, c.String()+".yaml")
}

func read[T any](s *Store, c store.Collection) ([]T, error) {
	path := s.Path(c)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var out []T
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return out, nil
}

// Municipalities implements store.Reader.
func (s *Store) Municipalities(_ context.Context) ([]catalog.Municipality, error) {
	return read[catalog.Municipality](s, store.Municipalities)
}

// Services implements store.Reader.
func (s *Store) Services(_ context.Context) ([]catalog.Service, error) {
	return read[catalog.Service](s, store.Services)
}

// ChannelsByServiceIDs implements store.Reader.
func (s *Store) ChannelsByServiceIDs(_ context.Context, ids []string) ([]catalog.Channel, error) {
	return s.channels(func(ch catalog.Channel) bool {
		return store.ContainsAny(ch.ServiceIDs, ids)
	})
}

// ChannelsByIDs implements store.Reader.
func (s *Store) ChannelsByIDs(_ context.Context, ids []string) ([]catalog.Channel, error) {
	return s.channels(func(ch catalog.Channel) bool {
		return ch.ID != nil && slices.Contains(ids, *ch.ID)
	})
}

func (s *Store) channels(match func(catalog.Channel) bool) ([]catalog.Channel, error) {
	all, err := read[catalog.Channel](s, store.Channels)
	if err != nil {
		return nil, err
	}
	var out []catalog.Channel
	for _, ch := range all {
		if match(ch) {
			out = append(out, ch)
		}
	}
	return out, nil
}

type stamped struct {
	LastUpdated *utc.Time `yaml:"lastUpdated"`
}

func (d stamped) DocumentID() string { return "" }
func (d stamped) Updated() *utc.Time { return d.LastUpdated }

// LatestUpdate implements store.Writer.
func (s *Store) LatestUpdate(_ context.Context, c store.Collection) (*utc.Time, error) {
	if err := store.CheckWritable(c, "latest update"); err != nil {
		return nil, err
	}
	docs, err := read[stamped](s, c)
	if err != nil {
		return nil, err
	}
	return store.Latest(store.Documents(docs)), nil
}

// ReplaceAll implements store.Writer. The file is written to a temporary
// path and renamed into place.
func (s *Store) ReplaceAll(ctx context.Context, c store.Collection, docs []store.Document) error {
	if err := store.CheckWritable(c, "replace"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replace(ctx, batch{c, docs})
}

// ReplaceImport implements store.Writer. Both files are staged before
// either is renamed into place.
func (s *Store) ReplaceImport(ctx context.Context, services, channels []store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replace(ctx,
		batch{store.ImportedServices, services},
		batch{store.ImportedChannels, channels},
	)
}

type batch struct {
	collection store.Collection
	docs       []store.Document
}

// previous is the content a collection file had before a replace.
type previous struct {
	path    string
	data    []byte
	existed bool
}

// replace stages every batch in a temporary file, then renames them in
// order. When a rename fails the files already renamed get their previous
// content back.
func (s *Store) replace(ctx context.Context, batches ...batch) error {
	staged := make([]string, 0, len(batches))
	defer func() {
		for _, p := range staged {
			_ = os.Remove(p)
		}
	}()
	for _, b := range batches {
		tmp, err := s.stage(b)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	renamed := make([]previous, 0, len(batches))
	for i, b := range batches {
		path := s.Path(b.collection)
		prev, err := snapshot(path)
		if err != nil {
			restore(ctx, renamed)
			return err
		}
		if err := os.Rename(staged[i], path); err != nil {
			restore(ctx, renamed)
			return errors.WrapIO("rename", path, err)
		}
		renamed = append(renamed, prev)
	}

	for _, b := range batches {
		logging.FromContext(ctx).Debug().
			Str("collection", b.collection.String()).
			Int("documents", len(b.docs)).
			Str("path", s.Path(b.collection)).
			Msg("Replaced collection")
	}
	return nil
}

// stage writes a batch to a temporary file next to its collection file.
func (s *Store) stage(b batch) (string, error) {
	docs := b.docs
	if docs == nil {
		docs = []store.Document{}
	}
	data, err := yaml.MarshalWithOptions(docs, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return "", errors.WrapParse("yaml", b.collection.String(), err)
	}

	tmp, err := os.CreateTemp(s.dir, b.collection.String()+"_*.yaml")
	if err != nil {
		return "", errors.WrapIO("create", "temp file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", errors.WrapIO("close", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, constants.FilePermissions); err != nil {
		_ = os.Remove(tmpPath)
		return "", errors.WrapIO("chmod", tmpPath, err)
	}
	return tmpPath, nil
}

func snapshot(path string) (previous, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return previous{path: path, data: data, existed: true}, nil
	case stderrors.Is(err, fs.ErrNotExist):
		return previous{path: path}, nil
	default:
		return previous{}, errors.WrapIO("read", path, err)
	}
}

func restore(ctx context.Context, renamed []previous) {
	for _, p := range renamed {
		var err error
		if p.existed {
			err = os.WriteFile(p.path, p.data, constants.FilePermissions)
		} else {
			err = os.Remove(p.path)
		}
		if err != nil {
			logging.FromContext(ctx).Error().Err(err).Str("path", p.path).Msg("Restoring collection file failed")
		}
	}
}

// Count implements store.Store.
func (s *Store) Count(_ context.Context, c store.Collection) (int, error) {
	docs, err := read[yaml.MapSlice](s, c)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	return nil
}
