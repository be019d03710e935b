// Package store persists search history and caches merged company records.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospector/internal/config"
	"github.com/sells-group/prospector/internal/model"
)

// Search is one completed search request and its assembled response.
type Search struct {
	ID           string             `json:"id"`
	Query        string             `json:"query"`
	Intent       model.SearchIntent `json:"intent"`
	ResponseType model.ResponseType `json:"responseType"`
	Response     json.RawMessage    `json:"response"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// RecordCache caches merged records by company name so repeat queries skip
// the provider fan-out.
type RecordCache interface {
	GetCachedRecord(ctx context.Context, companyName string) (*model.CompanyRecord, error)
	SetCachedRecord(ctx context.Context, companyName string, record model.CompanyRecord, ttl time.Duration) error
}

// Store defines the persistence interface for the search pipeline.
type Store interface {
	RecordCache

	SaveSearch(ctx context.Context, s Search) error
	GetSearch(ctx context.Context, id string) (*Search, error)
	ListSearches(ctx context.Context, limit, offset int) ([]Search, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store from configuration, defaulting to sqlite.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
