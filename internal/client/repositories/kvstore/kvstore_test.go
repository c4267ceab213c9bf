package kvstore

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE kv (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`)
	require.NoError(t, err)
	return db
}

// implementations runs the same contract against both repositories.
func implementations(t *testing.T) map[string]Repository {
	return map[string]Repository{
		"sqlite": NewSQLiteRepository(setupDB(t)),
		"memory": NewMemoryRepository(),
	}
}

func TestSetAndGet(t *testing.T) {
	for name, r := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, r.Set(ctx, KeyToken, "abc"))

			v, ok, err := r.Get(ctx, KeyToken)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "abc", v)
		})
	}
}

func TestGet_Missing(t *testing.T) {
	for name, r := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			v, ok, err := r.Get(context.Background(), "absent")
			require.NoError(t, err)
			require.False(t, ok)
			require.Empty(t, v)
		})
	}
}

func TestSet_Overwrites(t *testing.T) {
	for name, r := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, r.Set(ctx, "k", "old"))
			require.NoError(t, r.Set(ctx, "k", "new"))

			v, _, err := r.Get(ctx, "k")
			require.NoError(t, err)
			require.Equal(t, "new", v)
		})
	}
}

func TestSetMany_ThenRemoveManySessionKeys(t *testing.T) {
	for name, r := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, r.SetMany(ctx, map[string]string{
				KeyToken:        "t",
				KeyRefreshToken: "r",
				KeyCurrentUser:  `{"id":1,"email":"a@b.c"}`,
			}))
			require.NoError(t, r.Set(ctx, "unrelated", "keep"))

			require.NoError(t, r.RemoveMany(ctx, SessionKeys...))

			m, err := r.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"unrelated": "keep"}, m)

			// removing absent keys is fine
			require.NoError(t, r.RemoveMany(ctx, SessionKeys...))
		})
	}
}

func TestRemove_IsIdempotent(t *testing.T) {
	for name, r := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, r.Set(ctx, "x", "1"))
			require.NoError(t, r.Remove(ctx, "x"))

			_, ok, err := r.Get(ctx, "x")
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, r.Remove(ctx, "x"))
		})
	}
}

func TestClear_RemovesAllKeys(t *testing.T) {
	for name, r := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, r.Set(ctx, "a", "1"))
			require.NoError(t, r.Set(ctx, "b", "2"))
			require.NoError(t, r.Clear(ctx))

			m, err := r.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, m)
		})
	}
}

func TestMemoryRepository_Stats(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, r.Set(ctx, "a", "1"))

	_, _, _ = r.Get(ctx, "a")
	_, _, _ = r.Get(ctx, "a")
	_, _, _ = r.Get(ctx, "b")

	hits, misses := r.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestSQLite_ErrorsWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, _, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get kv[k]")

	require.ErrorContains(t, r.Set(ctx, "k", "v"), "failed to set kv[k]")
	require.ErrorContains(t, r.Remove(ctx, "k"), "failed to remove kv[k]")
	require.ErrorContains(t, r.Clear(ctx), "failed to clear kv")

	_, err = r.List(ctx)
	require.ErrorContains(t, err, "failed to list kv")

	require.Error(t, r.RemoveMany(ctx, "k"))
	require.Error(t, r.SetMany(ctx, map[string]string{"k": "v"}))
}
