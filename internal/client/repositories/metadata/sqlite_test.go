package metadata

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/flashcards/internal/client/localdb"
	"github.com/dmitrijs2005/flashcards/internal/dbx"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := localdb.Open(context.Background(), localdb.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestPutAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = fixedClock(ts)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "k1", []byte(`{"a":1}`)))

	e, err := r.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, "k1", e.Key)
	require.Equal(t, []byte(`{"a":1}`), e.Value)
	require.True(t, ts.Equal(e.UpdatedAt))
}

func TestGet_Missing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	e, err := r.Get(context.Background(), "absent")
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, e)
}

func TestPut_Overwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "k", []byte("old")))
	require.NoError(t, r.Put(ctx, "k", []byte("new")))

	e, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), e.Value)
}

func TestPut_NilValueStoredEmpty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "k", nil))

	e, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Empty(t, e.Value)
}

func TestDelete_ReportsExistence(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "k", []byte("v")))

	ok, err := r.Delete(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.Delete(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = r.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestInsideTransaction_RollsBack(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		require.NoError(t, NewSQLiteRepository(tx).Put(ctx, "k", []byte("v")))
		return sql.ErrTxDone
	})
	require.ErrorIs(t, err, sql.ErrTxDone)

	_, err = NewSQLiteRepository(db).Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClosedDB_Errors(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())
	ctx := context.Background()

	_, err := r.Get(ctx, "k")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
	require.Error(t, r.Put(ctx, "k", []byte("v")))
	_, err = r.Delete(ctx, "k")
	require.Error(t, err)
}
