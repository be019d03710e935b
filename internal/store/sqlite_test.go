package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospector/internal/config"
	"github.com/sells-group/prospector/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteSearchRoundtrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	search := Search{
		ID:           "search-1",
		Query:        "Acme Corp\nGlobex Inc",
		Intent:       model.IntentCompany,
		ResponseType: model.ResponseCompany,
		Response:     json.RawMessage(`{"type":"company","results":[]}`),
	}
	require.NoError(t, s.SaveSearch(ctx, search))

	got, err := s.GetSearch(ctx, "search-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, search.Query, got.Query)
	assert.Equal(t, model.IntentCompany, got.Intent)
	assert.Equal(t, model.ResponseCompany, got.ResponseType)
	assert.JSONEq(t, string(search.Response), string(got.Response))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSQLiteSaveSearchGeneratesID(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSearch(ctx, Search{
		Query:        "q",
		Intent:       model.IntentGeneral,
		ResponseType: model.ResponseGeneral,
		Response:     json.RawMessage(`{}`),
	}))

	searches, err := s.ListSearches(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, searches, 1)
	assert.NotEmpty(t, searches[0].ID)
}

func TestSQLiteGetSearchMissing(t *testing.T) {
	s := newTestSQLite(t)

	got, err := s.GetSearch(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteListSearchesNewestFirst(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, s.SaveSearch(ctx, Search{
			ID:           id,
			Query:        id,
			Intent:       model.IntentGeneral,
			ResponseType: model.ResponseGeneral,
			Response:     json.RawMessage(`{}`),
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	searches, err := s.ListSearches(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, searches, 2)
	assert.Equal(t, "new", searches[0].ID)
	assert.Equal(t, "mid", searches[1].ID)

	rest, err := s.ListSearches(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "old", rest[0].ID)
}

func TestSQLiteRecordCacheRoundtrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	record := model.CompanyRecord{
		CompanyName: "Acme Corp",
		Domain:      "acme.com",
		Status:      model.StatusVerified,
	}
	require.NoError(t, s.SetCachedRecord(ctx, "Acme Corp", record, time.Hour))

	// Lookup is case-insensitive on the company name.
	got, err := s.GetCachedRecord(ctx, "  acme corp ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "acme.com", got.Domain)
}

func TestSQLiteRecordCacheExpiry(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	record := model.CompanyRecord{CompanyName: "Acme Corp", Domain: "acme.com"}
	require.NoError(t, s.SetCachedRecord(ctx, "Acme Corp", record, -time.Minute))

	got, err := s.GetCachedRecord(ctx, "Acme Corp")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteRecordCacheUpsert(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SetCachedRecord(ctx, "Acme Corp", model.CompanyRecord{Domain: "old.com"}, time.Hour))
	require.NoError(t, s.SetCachedRecord(ctx, "Acme Corp", model.CompanyRecord{Domain: "acme.com"}, time.Hour))

	got, err := s.GetCachedRecord(ctx, "Acme Corp")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "acme.com", got.Domain)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "mongodb"})
	require.Error(t, err)
}

func TestOpenDefaultsToSQLite(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{
		Path: filepath.Join(t.TempDir(), "default.db"),
	})
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*SQLiteStore)
	assert.True(t, ok)
}
