//go:build integration

package db

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, db.EnsureSchema(ctx))

	// Clean up test data before each test
	_, _ = db.pool.Exec(ctx, "DELETE FROM resume_extractions WHERE file_name LIKE 'itest-%'")
	return db
}

func TestIntegration_Extractions_CRUD(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	hash := uuid.NewString()
	e := &Extraction{
		FileName:    "itest-resume.pdf",
		FileHash:    hash,
		Pages:       2,
		SourceChars: 1234,
		Model:       "test-model",
		Result: map[string]any{
			"resumeType":      "Classic",
			"personalDetails": map[string]any{"fullName": "A. Dev"},
		},
	}

	t.Run("save", func(t *testing.T) {
		require.NoError(t, db.SaveExtraction(ctx, e))
		assert.NotEqual(t, uuid.Nil, e.ID)
		assert.False(t, e.CreatedAt.IsZero())
	})

	t.Run("get", func(t *testing.T) {
		got, err := db.GetExtraction(ctx, e.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, e.FileName, got.FileName)
		assert.Equal(t, 2, got.Pages)
		assert.Equal(t, e.Result, got.Result)
	})

	t.Run("find by hash", func(t *testing.T) {
		got, err := db.FindByHash(ctx, hash)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, e.ID, got.ID)
	})

	t.Run("list", func(t *testing.T) {
		list, err := db.ListExtractions(ctx, 0, 0)
		require.NoError(t, err)

		var found bool
		for _, s := range list {
			if s.ID == e.ID {
				found = true
			}
		}
		assert.True(t, found, "saved extraction should be listed")
	})

	t.Run("missing", func(t *testing.T) {
		got, err := db.GetExtraction(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = db.FindByHash(ctx, "no-such-hash")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestIntegration_SaveExtraction_RequiresHash(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	err := db.SaveExtraction(context.Background(), &Extraction{FileName: "itest-nohash.pdf"})
	assert.Error(t, err)
}
