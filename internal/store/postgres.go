package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospector/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS searches (
	id            TEXT PRIMARY KEY,
	query         TEXT NOT NULL,
	intent        TEXT NOT NULL,
	response_type TEXT NOT NULL,
	response      JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS record_cache (
	company_key TEXT PRIMARY KEY,
	record      JSONB NOT NULL,
	cached_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);
CREATE INDEX IF NOT EXISTS idx_record_cache_expires_at ON record_cache(expires_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveSearch(ctx context.Context, search Search) error {
	if search.ID == "" {
		search.ID = uuid.New().String()
	}
	if search.CreatedAt.IsZero() {
		search.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO searches (id, query, intent, response_type, response, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		search.ID, search.Query, string(search.Intent), string(search.ResponseType), []byte(search.Response), search.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert search")
}

func (s *PostgresStore) GetSearch(ctx context.Context, id string) (*Search, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, query, intent, response_type, response, created_at FROM searches WHERE id = $1`, id)

	var search Search
	var intent, responseType string
	var response []byte
	err := row.Scan(&search.ID, &search.Query, &intent, &responseType, &response, &search.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get search")
	}
	search.Intent = model.SearchIntent(intent)
	search.ResponseType = model.ResponseType(responseType)
	search.Response = json.RawMessage(response)
	return &search, nil
}

func (s *PostgresStore) ListSearches(ctx context.Context, limit, offset int) ([]Search, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, query, intent, response_type, response, created_at FROM searches ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list searches")
	}
	defer rows.Close()

	var searches []Search
	for rows.Next() {
		var search Search
		var intent, responseType string
		var response []byte
		if err := rows.Scan(&search.ID, &search.Query, &intent, &responseType, &response, &search.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan search")
		}
		search.Intent = model.SearchIntent(intent)
		search.ResponseType = model.ResponseType(responseType)
		search.Response = json.RawMessage(response)
		searches = append(searches, search)
	}
	return searches, eris.Wrap(rows.Err(), "postgres: iterate searches")
}

func (s *PostgresStore) GetCachedRecord(ctx context.Context, companyName string) (*model.CompanyRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT record FROM record_cache WHERE company_key = $1 AND expires_at > now()`,
		cacheKey(companyName))

	var data []byte
	err := row.Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get cached record")
	}

	var record model.CompanyRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal cached record")
	}
	return &record, nil
}

func (s *PostgresStore) SetCachedRecord(ctx context.Context, companyName string, record model.CompanyRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal record")
	}

	now := time.Now().UTC()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO record_cache (company_key, record, cached_at, expires_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (company_key) DO UPDATE SET record = EXCLUDED.record, cached_at = EXCLUDED.cached_at, expires_at = EXCLUDED.expires_at`,
		cacheKey(companyName), data, now, now.Add(ttl),
	)
	return eris.Wrap(err, "postgres: set cached record")
}
