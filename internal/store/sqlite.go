package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/prospector/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = "prospector.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS searches (
	id            TEXT PRIMARY KEY,
	query         TEXT NOT NULL,
	intent        TEXT NOT NULL,
	response_type TEXT NOT NULL,
	response      TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS record_cache (
	company_key TEXT PRIMARY KEY,
	record      TEXT NOT NULL,
	cached_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);
CREATE INDEX IF NOT EXISTS idx_record_cache_expires_at ON record_cache(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSearch(ctx context.Context, search Search) error {
	if search.ID == "" {
		search.ID = uuid.New().String()
	}
	if search.CreatedAt.IsZero() {
		search.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (id, query, intent, response_type, response, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		search.ID, search.Query, string(search.Intent), string(search.ResponseType), string(search.Response), search.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert search")
}

func (s *SQLiteStore) GetSearch(ctx context.Context, id string) (*Search, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, query, intent, response_type, response, created_at FROM searches WHERE id = ?`, id)

	var search Search
	var intent, responseType, response string
	err := row.Scan(&search.ID, &search.Query, &intent, &responseType, &response, &search.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get search")
	}
	search.Intent = model.SearchIntent(intent)
	search.ResponseType = model.ResponseType(responseType)
	search.Response = json.RawMessage(response)
	return &search, nil
}

func (s *SQLiteStore) ListSearches(ctx context.Context, limit, offset int) ([]Search, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, intent, response_type, response, created_at FROM searches ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list searches")
	}
	defer rows.Close()

	var searches []Search
	for rows.Next() {
		var search Search
		var intent, responseType, response string
		if err := rows.Scan(&search.ID, &search.Query, &intent, &responseType, &response, &search.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan search")
		}
		search.Intent = model.SearchIntent(intent)
		search.ResponseType = model.ResponseType(responseType)
		search.Response = json.RawMessage(response)
		searches = append(searches, search)
	}
	return searches, eris.Wrap(rows.Err(), "sqlite: iterate searches")
}

func (s *SQLiteStore) GetCachedRecord(ctx context.Context, companyName string) (*model.CompanyRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT record FROM record_cache WHERE company_key = ? AND expires_at > ?`,
		cacheKey(companyName), time.Now().UTC())

	var data string
	err := row.Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get cached record")
	}

	var record model.CompanyRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal cached record")
	}
	return &record, nil
}

func (s *SQLiteStore) SetCachedRecord(ctx context.Context, companyName string, record model.CompanyRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal record")
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO record_cache (company_key, record, cached_at, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(company_key) DO UPDATE SET record = excluded.record, cached_at = excluded.cached_at, expires_at = excluded.expires_at`,
		cacheKey(companyName), string(data), now, now.Add(ttl),
	)
	return eris.Wrap(err, "sqlite: set cached record")
}

// cacheKey normalizes a company name for cache lookup.
func cacheKey(companyName string) string {
	return strings.ToLower(strings.TrimSpace(companyName))
}
