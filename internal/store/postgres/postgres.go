// Package postgres provides a catalog store backed by a single PostgreSQL
// table of JSONB documents keyed by collection.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/agentstation/utc"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agentstation/servicesync/pkg/catalog"
	"github.com/agentstation/servicesync/pkg/constants"
	"github.com/agentstation/servicesync/pkg/errors"
	"github.com/agentstation/servicesync/pkg/logging"
	"github.com/agentstation/servicesync/pkg/store"
)

const (
	table           = "catalog_documents"
	defaultMaxConns = 4
	insertBatchSize = 500
)

// Schema creates the documents table. Documents keep their insertion order
// through seq.
const Schema = `
CREATE TABLE IF NOT EXISTS catalog_documents (
    seq          BIGSERIAL PRIMARY KEY,
    collection   TEXT NOT NULL,
    id           TEXT NOT NULL,
    payload      JSONB NOT NULL,
    last_updated TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS catalog_documents_collection_id_idx ON catalog_documents (collection, id);
`

// DB is the subset of pgx used by the store. Both *pgxpool.Pool and pgxmock
// pools satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Config holds connection settings.
type Config struct {
	URL         string
	MaxConns    int32
	PingTimeout time.Duration
	// Migrate creates the schema on connect.
	Migrate bool
}

var _ store.Store = (*Store)(nil)

// Store is the PostgreSQL catalog store.
type Store struct {
	db   DB
	pool *pgxpool.Pool
}

// New connects to PostgreSQL, verifies the connection and optionally
// creates the schema.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, errors.NewConfigError("store", "postgres url is required", nil)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, errors.NewConfigError("store", "invalid postgres url", err)
	}
	poolCfg.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.WrapResource("connect", "postgres", "", err)
	}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = constants.StorePingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", errors.ErrStoreUnavailable, err)
	}

	s := &Store{db: pool, pool: pool}
	if cfg.Migrate {
		if err := s.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
	}

	logging.FromContext(ctx).Info().
		Str("store_driver", "postgres").
		Str("host", poolCfg.ConnConfig.Host).
		Str("database", poolCfg.ConnConfig.Database).
		Int32("max_conns", poolCfg.MaxConns).
		Msg("Store initialized")
	return s, nil
}

// NewWithDB creates a store on an existing connection.
func NewWithDB(db DB) *Store {
	return &Store{db: db}
}

// Migrate creates the documents table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return errors.WrapResource("migrate", table, "", err)
	}
	return nil
}

func selectPayload(c store.Collection) squirrel.SelectBuilder {
	return squirrel.
		Select("payload").
		From(table).
		Where(squirrel.Eq{"collection": c.String()}).
		OrderBy("seq").
		PlaceholderFormat(squirrel.Dollar)
}

func query[T any](ctx context.Context, db DB, resource string, b squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, errors.WrapResource("build query", resource, "", err)
	}
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.WrapResource("query", resource, "", err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.WrapResource("scan", resource, "", err)
		}
		var doc T
		if err := json.Unmarshal(payload, &doc); err != nil {
			return nil, errors.WrapParse("json", resource, err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("query", resource, "", err)
	}
	return out, nil
}

// Municipalities implements store.Reader.
func (s *Store) Municipalities(ctx context.Context) ([]catalog.Municipality, error) {
	return query[catalog.Municipality](ctx, s.db, store.Municipalities.String(), selectPayload(store.Municipalities))
}

// Services implements store.Reader.
func (s *Store) Services(ctx context.Context) ([]catalog.Service, error) {
	return query[catalog.Service](ctx, s.db, store.Services.String(), selectPayload(store.Services))
}

// ChannelsByServiceIDs implements store.Reader.
func (s *Store) ChannelsByServiceIDs(ctx context.Context, ids []string) ([]catalog.Channel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	b := selectPayload(store.Channels).Where("jsonb_exists_any(payload->'serviceIds', ?)", ids)
	return query[catalog.Channel](ctx, s.db, store.Channels.String(), b)
}

// ChannelsByIDs implements store.Reader.
func (s *Store) ChannelsByIDs(ctx context.Context, ids []string) ([]catalog.Channel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	b := selectPayload(store.Channels).Where(squirrel.Eq{"id": ids})
	return query[catalog.Channel](ctx, s.db, store.Channels.String(), b)
}

// LatestUpdate implements store.Writer.
func (s *Store) LatestUpdate(ctx context.Context, c store.Collection) (*utc.Time, error) {
	if err := store.CheckWritable(c, "latest update"); err != nil {
		return nil, err
	}
	sql, args, err := squirrel.
		Select("max(last_updated)").
		From(table).
		Where(squirrel.Eq{"collection": c.String()}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.WrapResource("build query", c.String(), "", err)
	}

	var latest *time.Time
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&latest); err != nil {
		return nil, errors.WrapResource("query", c.String(), "", err)
	}
	if latest == nil {
		return nil, nil
	}
	t := utc.New(*latest)
	return &t, nil
}

// ReplaceAll implements store.Writer. The delete and the inserts run in
// one transaction.
func (s *Store) ReplaceAll(ctx context.Context, c store.Collection, docs []store.Document) error {
	if err := store.CheckWritable(c, "replace"); err != nil {
		return err
	}

	inserts, err := buildInserts(c, docs)
	if err != nil {
		return err
	}

	return s.withTransaction(ctx, func(tx pgx.Tx) error {
		return replace(ctx, tx, c, inserts)
	})
}

// ReplaceImport implements store.Writer. Both collections are replaced in
// one transaction.
func (s *Store) ReplaceImport(ctx context.Context, services, channels []store.Document) error {
	serviceInserts, err := buildInserts(store.ImportedServices, services)
	if err != nil {
		return err
	}
	channelInserts, err := buildInserts(store.ImportedChannels, channels)
	if err != nil {
		return err
	}

	return s.withTransaction(ctx, func(tx pgx.Tx) error {
		if err := replace(ctx, tx, store.ImportedServices, serviceInserts); err != nil {
			return err
		}
		return replace(ctx, tx, store.ImportedChannels, channelInserts)
	})
}

// replace deletes a collection and runs its inserts inside tx.
func replace(ctx context.Context, tx pgx.Tx, c store.Collection, inserts []statement) error {
	sql, args, err := squirrel.
		Delete(table).
		Where(squirrel.Eq{"collection": c.String()}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.WrapResource("build query", c.String(), "", err)
	}
	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return errors.WrapResource("delete", c.String(), "", err)
	}
	logging.FromContext(ctx).Debug().
		Str("collection", c.String()).
		Int64("deleted", tag.RowsAffected()).
		Msg("Deleted old documents")

	for _, ins := range inserts {
		if _, err := tx.Exec(ctx, ins.sql, ins.args...); err != nil {
			return errors.WrapResource("insert", c.String(), "", err)
		}
	}
	return nil
}

type statement struct {
	sql  string
	args []any
}

func buildInserts(c store.Collection, docs []store.Document) ([]statement, error) {
	var out []statement
	for start := 0; start < len(docs); start += insertBatchSize {
		end := min(start+insertBatchSize, len(docs))
		b := squirrel.
			Insert(table).
			Columns("collection", "id", "payload", "last_updated").
			PlaceholderFormat(squirrel.Dollar)
		for _, doc := range docs[start:end] {
			payload, err := json.Marshal(doc)
			if err != nil {
				return nil, errors.WrapParse("json", c.String(), err)
			}
			var updated *time.Time
			if u := doc.Updated(); u != nil {
				t := u.Time
				updated = &t
			}
			b = b.Values(c.String(), doc.DocumentID(), payload, updated)
		}
		sql, args, err := b.ToSql()
		if err != nil {
			return nil, errors.WrapResource("build query", c.String(), "", err)
		}
		out = append(out, statement{sql: sql, args: args})
	}
	return out, nil
}

func (s *Store) withTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return errors.WrapResource("begin", "transaction", "", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logging.FromContext(ctx).Warn().Err(rbErr).Msg("Transaction rollback failed")
			}
			return
		}
		if cErr := tx.Commit(ctx); cErr != nil {
			err = errors.WrapResource("commit", "transaction", "", cErr)
		}
	}()
	return fn(tx)
}

// Count implements store.Store.
func (s *Store) Count(ctx context.Context, c store.Collection) (int, error) {
	sql, args, err := squirrel.
		Select("count(*)").
		From(table).
		Where(squirrel.Eq{"collection": c.String()}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, errors.WrapResource("build query", c.String(), "", err)
	}
	var n int
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, errors.WrapResource("count", c.String(), "", err)
	}
	return n, nil
}

// Close releases the connection pool when the store owns one.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
