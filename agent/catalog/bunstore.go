package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// BunStoreConfig holds Postgres connection settings, loaded with prefix
// CATALOG (CATALOG_DSN etc).
type BunStoreConfig struct {
	DSN          string `envconfig:"DSN" required:"true"`
	MaxOpenConns int    `envconfig:"MAX_OPEN_CONNS" default:"4"`
}

// BunStore serves the scheme catalog from a Postgres table. Searching pulls
// the full table and ranks in process; the catalog is small enough that a
// server-side text index is not worth the schema.
type BunStore struct {
	db *bun.DB
}

var _ Store = (*BunStore)(nil)

// NewBunStore opens a Postgres-backed catalog store.
func NewBunStore(cfg BunStoreConfig) (*BunStore, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("catalog: empty dsn")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	return &BunStore{db: bun.NewDB(sqldb, pgdialect.New())}, nil
}

func (bs *BunStore) Close() error {
	return bs.db.Close()
}

func (bs *BunStore) All(ctx context.Context) ([]Scheme, error) {
	var schemes []Scheme
	if err := bs.db.NewSelect().Model(&schemes).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("catalog: list schemes: %w", err)
	}
	return schemes, nil
}

func (bs *BunStore) ByID(ctx context.Context, id string) (Scheme, error) {
	var scheme Scheme
	err := bs.db.NewSelect().Model(&scheme).Where("id = ?", strings.TrimSpace(id)).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Scheme{}, fmt.Errorf("%w: %s", ErrSchemeNotFound, id)
		}
		return Scheme{}, fmt.Errorf("catalog: load scheme %s: %w", id, err)
	}
	return scheme, nil
}

func (bs *BunStore) Search(ctx context.Context, query string) ([]Scheme, error) {
	schemes, err := bs.All(ctx)
	if err != nil {
		return nil, err
	}
	return searchIn(schemes, query), nil
}

func (bs *BunStore) ByCategory(ctx context.Context, category string) ([]Scheme, error) {
	var schemes []Scheme
	err := bs.db.NewSelect().Model(&schemes).
		Where("lower(category) = ?", strings.ToLower(strings.TrimSpace(category))).
		Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list category %s: %w", category, err)
	}
	return schemes, nil
}
