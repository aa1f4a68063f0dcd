package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readinglog/internal/entities"
	"github.com/mrlokans/readinglog/internal/recordstore"
	"github.com/mrlokans/readinglog/internal/validation"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDatabase_Documents(t *testing.T) {
	db := setupTestDB(t)

	t.Run("missing document", func(t *testing.T) {
		_, err := db.ReadDocument("books")
		assert.ErrorIs(t, err, recordstore.ErrDocumentNotFound)
	})

	t.Run("write then read", func(t *testing.T) {
		require.NoError(t, db.WriteDocument("books", []byte(`[{"id":"1"}]`)))

		data, err := db.ReadDocument("books")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"1"}]`, string(data))
	})

	t.Run("write replaces existing document", func(t *testing.T) {
		require.NoError(t, db.WriteDocument("books", []byte(`[]`)))

		data, err := db.ReadDocument("books")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(data))

		var count int64
		require.NoError(t, db.DB.Model(&entities.Document{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("document names are sorted", func(t *testing.T) {
		require.NoError(t, db.WriteDocument("users", []byte(`[]`)))
		require.NoError(t, db.WriteDocument("quotes", []byte(`[]`)))

		names, err := db.DocumentNames()
		require.NoError(t, err)
		assert.Equal(t, []string{"books", "quotes", "users"}, names)
	})
}

func TestDatabase_Ping(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.Ping())

	sqlDB, err := db.SQLDB()
	require.NoError(t, err)
	assert.NotNil(t, sqlDB)
}

func TestDatabase_AsCollectionBackend(t *testing.T) {
	db := setupTestDB(t)
	users := recordstore.NewCollection[entities.User](db, "users", validation.New())

	want := []entities.User{{Username: "alice", PasswordHash: "hash"}}
	require.NoError(t, users.Save(want))

	got, err := users.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].Username)
}

func TestDatabase_SnapshotToFiles(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.WriteDocument("users", []byte(`[]`)))

	files, err := recordstore.NewFileBackend(t.TempDir())
	require.NoError(t, err)

	names, err := recordstore.Snapshot(db, files)
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, names)
}
