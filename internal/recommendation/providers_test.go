// internal/recommendation/providers_test.go
package recommendation

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migratio-workers/internal/common/errors"
	"migratio-workers/internal/common/logger"
	"migratio-workers/internal/models"
)

func newCacheBackedDeps(t *testing.T) (sqlmock.Sqlmock, *redis.Client, *miniredis.Miniredis, *PostgresProfileProvider, *PostgresProgramCatalog) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logger.NewTestLogger(t)
	profiles := NewPostgresProfileProvider(db, client, time.Minute, log)
	catalog := NewPostgresProgramCatalog(db, client, time.Minute, log)
	return mock, client, mr, profiles, catalog
}

func TestGetProfile_ReadThroughCache(t *testing.T) {
	mock, _, mr, profiles, _ := newCacheBackedDeps(t)

	profile := &models.Profile{UserID: "user-1"}
	doc, err := json.Marshal(profile)
	require.NoError(t, err)

	// First call misses the cache and hits Postgres.
	mock.ExpectQuery("SELECT doc FROM profiles").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(doc))

	got, err := profiles.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.True(t, mr.Exists("user:profile:user-1"))

	// Second call is served from the cache; no further query expected.
	got, err = profiles.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfile_NotFound(t *testing.T) {
	mock, _, _, profiles, _ := newCacheBackedDeps(t)

	mock.ExpectQuery("SELECT doc FROM profiles").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}))

	_, err := profiles.GetProfile(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfile_CorruptCacheFallsBack(t *testing.T) {
	mock, _, mr, profiles, _ := newCacheBackedDeps(t)

	require.NoError(t, mr.Set("user:profile:user-1", "{not json"))

	doc, err := json.Marshal(&models.Profile{UserID: "user-1"})
	require.NoError(t, err)
	mock.ExpectQuery("SELECT doc FROM profiles").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(doc))

	got, err := profiles.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActivePrograms_CachesCatalog(t *testing.T) {
	mock, _, mr, _, catalog := newCacheBackedDeps(t)

	docA, err := json.Marshal(models.Program{ProgramID: "prog-a", Active: true})
	require.NoError(t, err)
	docB, err := json.Marshal(models.Program{ProgramID: "prog-b", Active: true})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT doc FROM programs WHERE active").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(docA).AddRow(docB))

	programs, err := catalog.ListActivePrograms(context.Background())
	require.NoError(t, err)
	require.Len(t, programs, 2)
	assert.Equal(t, "prog-a", programs[0].ProgramID)
	assert.True(t, mr.Exists("programs:active"))

	// Cached listing serves the second call.
	programs, err = catalog.ListActivePrograms(context.Background())
	require.NoError(t, err)
	assert.Len(t, programs, 2)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActivePrograms_EmptyCatalogNotCached(t *testing.T) {
	mock, _, mr, _, catalog := newCacheBackedDeps(t)

	mock.ExpectQuery("SELECT doc FROM programs WHERE active").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}))

	programs, err := catalog.ListActivePrograms(context.Background())
	require.NoError(t, err)
	assert.Empty(t, programs)
	assert.False(t, mr.Exists("programs:active"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProgramDetails(t *testing.T) {
	mock, _, mr, _, catalog := newCacheBackedDeps(t)

	doc, err := json.Marshal(models.Program{ProgramID: "prog-a", Name: "Skilled Worker"})
	require.NoError(t, err)

	t.Run("found and cached", func(t *testing.T) {
		mock.ExpectQuery("SELECT doc FROM programs WHERE program_id").
			WithArgs("prog-a").
			WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(doc))

		program, err := catalog.GetProgramDetails(context.Background(), "prog-a")
		require.NoError(t, err)
		assert.Equal(t, "Skilled Worker", program.Name)
		assert.True(t, mr.Exists("program:details:prog-a"))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT doc FROM programs WHERE program_id").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"doc"}))

		_, err := catalog.GetProgramDetails(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
