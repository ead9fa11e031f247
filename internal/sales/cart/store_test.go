package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, time.Hour)
}

func TestStoreGetMissingReturnsEmptyCart(t *testing.T) {
	store := newTestStore(t)

	c, err := store.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestStoreSaveAndGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := &Cart{}
	c.AddLine(Line{ProductID: 7, Code: "P007", Name: "Café", Unit: "pct", UnitPrice: 18.90})
	require.True(t, c.SetQuantity(7, 3))
	require.NoError(t, store.Save(ctx, "sess-1", c))

	loaded, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 1)
	assert.Equal(t, 3, loaded.Lines[0].Quantity)
	assert.Equal(t, int64(5670), loaded.TotalCents())
}

func TestStoreCartsAreSessionScoped(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := &Cart{}
	c.AddLine(Line{ProductID: 1, UnitPrice: 2.50})
	require.NoError(t, store.Save(ctx, "sess-a", c))

	other, err := store.Get(ctx, "sess-b")
	require.NoError(t, err)
	assert.True(t, other.Empty())
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := &Cart{}
	c.AddLine(Line{ProductID: 1, UnitPrice: 2.50})
	require.NoError(t, store.Save(ctx, "sess-1", c))
	require.NoError(t, store.Clear(ctx, "sess-1"))

	loaded, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, loaded.Empty())
}
