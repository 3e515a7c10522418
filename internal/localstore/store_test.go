package localstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	_, ok, err := store.Get(ctx, "levelup:cart")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Put(ctx, "levelup:cart", []byte(`[{"productId":"p1"}]`)))

	got, ok, err := store.Get(ctx, "levelup:cart")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `[{"productId":"p1"}]`, string(got))
}

func TestStoreOverwrite(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "slot", []byte("one")))
	require.NoError(t, store.Put(ctx, "slot", []byte("two")))

	got, ok, err := store.Get(ctx, "slot")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "two", string(got))
}

func TestStoreDelete(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "slot", []byte("v")))
	require.NoError(t, store.Delete(ctx, "slot"))

	_, ok, err := store.Get(ctx, "slot")
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting again is fine.
	require.NoError(t, store.Delete(ctx, "slot"))
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "levelup:user", []byte(`{"id":"u1"}`)))
	require.NoError(t, store.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Get(ctx, "levelup:user")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"id":"u1"}`, string(got))
}
