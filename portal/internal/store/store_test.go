package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Astemirdum/department-portal/pkg/sqlite"
	"github.com/Astemirdum/department-portal/portal/internal/store"
	"github.com/Astemirdum/department-portal/portal/migrations"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSQLite(t *testing.T) store.Store {
	t.Helper()
	db, err := sqlite.NewSQLiteDB(&sqlite.DB{Path: filepath.Join(t.TempDir(), "portal.db")}, migrations.SQLite)
	require.NoError(t, err)
	s := store.NewSQLite(db, zap.NewNop())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_GetPut(t *testing.T) {
	backends := map[string]func(t *testing.T) store.Store{
		"memory": func(t *testing.T) store.Store { return store.NewMemory() },
		"sqlite": newSQLite,
	}
	for name, newStore := range backends {
		newStore := newStore
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			_, found, err := s.Get(ctx, store.BucketUsers)
			require.NoError(t, err)
			require.False(t, found)

			require.NoError(t, s.Put(ctx, store.BucketUsers, []byte(`[{"id":"1"}]`)))
			payload, found, err := s.Get(ctx, store.BucketUsers)
			require.NoError(t, err)
			require.True(t, found)
			require.JSONEq(t, `[{"id":"1"}]`, string(payload))

			require.NoError(t, s.Put(ctx, store.BucketUsers, []byte(`[]`)))
			payload, _, err = s.Get(ctx, store.BucketUsers)
			require.NoError(t, err)
			require.JSONEq(t, `[]`, string(payload))

			_, found, err = s.Get(ctx, store.BucketBooks)
			require.NoError(t, err)
			require.False(t, found)
		})
	}
}

func TestMemory_CopiesPayload(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	in := []byte(`[1]`)
	require.NoError(t, s.Put(ctx, store.BucketNotices, in))
	in[1] = '2'

	out, _, err := s.Get(ctx, store.BucketNotices)
	require.NoError(t, err)
	require.Equal(t, `[1]`, string(out))
}
